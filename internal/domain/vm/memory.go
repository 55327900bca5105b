// Package vm provides the address spaces that device reads and writes copy
// into and out of.
//
// Every copy names the space it targets. A process owns one user arena; the
// kernel arena is scratch memory for privileged callers. Accesses outside an
// arena fail with ErrFault instead of touching neighbouring memory.
package vm

import (
	"errors"
	"fmt"
	"sync"
)

// Space selects which arena an address refers to.
type Space uint8

const (
	// UserSpace addresses the calling process's own arena.
	UserSpace Space = iota
	// KernelSpace addresses privileged scratch memory.
	KernelSpace
)

// String returns the space name used in logs.
func (s Space) String() string {
	switch s {
	case UserSpace:
		return "user"
	case KernelSpace:
		return "kernel"
	default:
		return fmt.Sprintf("space(%d)", uint8(s))
	}
}

// ErrFault is returned when a copy touches an address outside its arena.
var ErrFault = errors.New("bad address")

// Copier moves bytes between kernel buffers and an addressed space.
type Copier interface {
	// CopyOut copies src to addr dst in space.
	CopyOut(space Space, dst uint64, src []byte) error
	// CopyIn copies len(dst) bytes from addr src in space.
	CopyIn(dst []byte, space Space, src uint64) error
}

// Default arena sizes.
const (
	DefaultUserSize   = 4096
	DefaultKernelSize = 4096
)

// Memory is a pair of bounded arenas.
type Memory struct {
	mu     sync.Mutex
	arenas [2][]byte
}

// NewMemory allocates a memory with the given arena sizes. Non-positive sizes
// fall back to the defaults.
func NewMemory(userSize, kernelSize int) *Memory {
	if userSize <= 0 {
		userSize = DefaultUserSize
	}
	if kernelSize <= 0 {
		kernelSize = DefaultKernelSize
	}
	return &Memory{
		arenas: [2][]byte{
			UserSpace:   make([]byte, userSize),
			KernelSpace: make([]byte, kernelSize),
		},
	}
}

// Size returns the size of the arena backing space, or 0 for an unknown space.
func (m *Memory) Size(space Space) int {
	if int(space) >= len(m.arenas) {
		return 0
	}
	return len(m.arenas[space])
}

// CopyOut implements Copier.
func (m *Memory) CopyOut(space Space, dst uint64, src []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	region, err := m.region(space, dst, len(src))
	if err != nil {
		return err
	}
	copy(region, src)
	return nil
}

// CopyIn implements Copier.
func (m *Memory) CopyIn(dst []byte, space Space, src uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	region, err := m.region(space, src, len(dst))
	if err != nil {
		return err
	}
	copy(dst, region)
	return nil
}

// Store writes p at addr, for callers preparing a buffer before a device write.
func (m *Memory) Store(space Space, addr uint64, p []byte) error {
	if err := m.CopyOut(space, addr, p); err != nil {
		return fmt.Errorf("store %s %#x: %w", space, addr, err)
	}
	return nil
}

// Load reads len(p) bytes at addr, for callers collecting a device read.
func (m *Memory) Load(space Space, addr uint64, p []byte) error {
	if err := m.CopyIn(p, space, addr); err != nil {
		return fmt.Errorf("load %s %#x: %w", space, addr, err)
	}
	return nil
}

// region returns the arena slice [addr, addr+n). Caller holds m.mu.
func (m *Memory) region(space Space, addr uint64, n int) ([]byte, error) {
	if int(space) >= len(m.arenas) {
		return nil, ErrFault
	}
	arena := m.arenas[space]
	size := uint64(len(arena))
	if addr > size || uint64(n) > size-addr {
		return nil, ErrFault
	}
	return arena[addr : addr+uint64(n)], nil
}
