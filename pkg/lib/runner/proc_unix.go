//go:build unix

package runner

import (
	"errors"
	"syscall"

	"golang.org/x/sys/unix"
)

func sysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		// New process group to manage children as a unit
		Setpgid: true,
	}
}

// pidAlive reports whether pid still denotes a live process. Signal 0
// performs the permission and existence checks without delivering
// anything.
func pidAlive(pid int) (bool, error) {
	err := unix.Kill(pid, 0)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, unix.ESRCH):
		return false, nil
	case errors.Is(err, unix.EPERM):
		// Exists but belongs to someone else.
		return true, nil
	default:
		return false, err
	}
}

// terminateGroup asks the process group to shut down gracefully so
// members can release sockets, temp files and their own children.
// Negative pid addresses the whole group.
func terminateGroup(pid int) error {
	return unix.Kill(-pid, unix.SIGTERM)
}

// killGroup forcibly terminates the process group.
func killGroup(pid int) error {
	return unix.Kill(-pid, unix.SIGKILL)
}
