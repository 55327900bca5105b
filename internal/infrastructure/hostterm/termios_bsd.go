//go:build darwin || freebsd || netbsd || openbsd

package hostterm

import "golang.org/x/sys/unix"

const (
	ioctlGetTermios = unix.TIOCGETA
	ioctlSetTermios = unix.TIOCSETA
)
