//go:build linux || darwin || freebsd || netbsd || openbsd

package hostterm

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// IsTerminal reports whether fd refers to a terminal.
func IsTerminal(fd int) bool {
	_, err := unix.IoctlGetTermios(fd, ioctlGetTermios)
	return err == nil
}

// MakeRaw puts the terminal at fd into console mode and returns a function
// restoring the previous settings.
func MakeRaw(fd int) (restore func() error, err error) {
	return setMode(fd, consoleMode)
}

// makeTransparent puts fd into full raw mode with no processing at all.
func makeTransparent(fd int) (restore func() error, err error) {
	return setMode(fd, transparentMode)
}

func setMode(fd int, mode func(*unix.Termios)) (func() error, error) {
	old, err := unix.IoctlGetTermios(fd, ioctlGetTermios)
	if err != nil {
		return nil, fmt.Errorf("get termios: %w", err)
	}

	t := *old
	mode(&t)
	if err := unix.IoctlSetTermios(fd, ioctlSetTermios, &t); err != nil {
		return nil, fmt.Errorf("set termios: %w", err)
	}

	return func() error {
		return unix.IoctlSetTermios(fd, ioctlSetTermios, old)
	}, nil
}

func consoleMode(t *unix.Termios) {
	t.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP | unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON
	t.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.IEXTEN
	t.Cflag &^= unix.CSIZE | unix.PARENB
	t.Cflag |= unix.CS8
	t.Cc[unix.VMIN] = 1
	t.Cc[unix.VTIME] = 0
}

func transparentMode(t *unix.Termios) {
	consoleMode(t)
	t.Oflag &^= unix.OPOST
	t.Lflag &^= unix.ISIG
}
