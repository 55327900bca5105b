// Package devsw maps device major numbers to the read and write entry points
// of character devices.
package devsw

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/GriffinCanCode/AgentOS/consoled/internal/domain/vm"
)

// NDEV is the number of device slots.
const NDEV = 10

// Major device numbers.
const (
	Console = 1
)

// ErrNoDevice is returned for a major number with no registered device.
var ErrNoDevice = errors.New("no such device")

// Device is a character device.
//
// Read and Write move up to n bytes between the device and addr in space of
// mem, returning the count transferred.
type Device interface {
	Read(ctx context.Context, mem vm.Copier, space vm.Space, addr uint64, n int) (int, error)
	Write(ctx context.Context, mem vm.Copier, space vm.Space, addr uint64, n int) (int, error)
}

// Table is the device switch.
type Table struct {
	mu   sync.RWMutex
	devs [NDEV]Device
}

// NewTable returns an empty device switch.
func NewTable() *Table {
	return &Table{}
}

// Register installs dev as the handler for major, replacing any previous one.
func (t *Table) Register(major int, dev Device) error {
	if major < 0 || major >= NDEV {
		return fmt.Errorf("register major %d: out of range", major)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.devs[major] = dev
	return nil
}

// Lookup returns the device registered for major.
func (t *Table) Lookup(major int) (Device, error) {
	if major < 0 || major >= NDEV {
		return nil, fmt.Errorf("major %d: %w", major, ErrNoDevice)
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	dev := t.devs[major]
	if dev == nil {
		return nil, fmt.Errorf("major %d: %w", major, ErrNoDevice)
	}
	return dev, nil
}

// Read dispatches a read to the device registered for major.
func (t *Table) Read(ctx context.Context, major int, mem vm.Copier, space vm.Space, addr uint64, n int) (int, error) {
	dev, err := t.Lookup(major)
	if err != nil {
		return 0, err
	}
	return dev.Read(ctx, mem, space, addr, n)
}

// Write dispatches a write to the device registered for major.
func (t *Table) Write(ctx context.Context, major int, mem vm.Copier, space vm.Space, addr uint64, n int) (int, error) {
	dev, err := t.Lookup(major)
	if err != nil {
		return 0, err
	}
	return dev.Write(ctx, mem, space, addr, n)
}
