//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package hostterm

import "errors"

// ErrUnsupported is returned on platforms without termios.
var ErrUnsupported = errors.New("hostterm: unsupported platform")

// IsTerminal reports whether fd refers to a terminal.
func IsTerminal(fd int) bool { return false }

// MakeRaw is unsupported on this platform.
func MakeRaw(fd int) (restore func() error, err error) { return nil, ErrUnsupported }

// PTY is unavailable on this platform.
type PTY struct{}

// OpenPTY is unsupported on this platform.
func OpenPTY() (*PTY, error) { return nil, ErrUnsupported }

func (p *PTY) Name() string { return "" }
func (p *PTY) Read(b []byte) (int, error) { return 0, ErrUnsupported }
func (p *PTY) Write(b []byte) (int, error) { return 0, ErrUnsupported }
func (p *PTY) Close() error { return nil }
