//go:build linux || darwin || freebsd || netbsd || openbsd

package hostterm

import (
	"fmt"
	"os"

	"github.com/creack/pty"
)

// PTY is a pseudo-terminal standing in for a physical serial port. The
// daemon owns the master side; users open Name.
type PTY struct {
	master  *os.File
	slave   *os.File
	restore func() error
}

// OpenPTY allocates a pseudo-terminal with a transparent slave.
//
// The slave stays open for the lifetime of the PTY so reads on the master do
// not fail while no user is connected.
func OpenPTY() (*PTY, error) {
	master, slave, err := pty.Open()
	if err != nil {
		return nil, fmt.Errorf("open pty: %w", err)
	}

	restore, err := makeTransparent(int(slave.Fd()))
	if err != nil {
		master.Close()
		slave.Close()
		return nil, fmt.Errorf("configure pty: %w", err)
	}

	return &PTY{master: master, slave: slave, restore: restore}, nil
}

// Name returns the slave device path, e.g. /dev/pts/3.
func (p *PTY) Name() string {
	return p.slave.Name()
}

// Read reads bytes typed on the slave.
func (p *PTY) Read(b []byte) (int, error) {
	return p.master.Read(b)
}

// Write sends bytes to the slave.
func (p *PTY) Write(b []byte) (int, error) {
	return p.master.Write(b)
}

// Close releases both sides.
func (p *PTY) Close() error {
	_ = p.restore()
	err := p.master.Close()
	if serr := p.slave.Close(); err == nil {
		err = serr
	}
	return err
}
