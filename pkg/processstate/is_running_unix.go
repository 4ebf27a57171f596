//go:build !windows

package processstate

import (
	"os"
	"syscall"

	"github.com/search-tools/opensearch-installer/pkg/errors"
)

// IsProcessRunning probes a single process with the null signal. It is
// the fallback liveness check when the process table cannot be read.
func IsProcessRunning(pid int) (bool, error) {
	if pid <= 0 {
		return false, errors.NewValidationError("invalid PID", nil).WithContext("pid", pid)
	}

	// On Unix, FindProcess always succeeds regardless of whether the
	// process exists; only the signal delivery tells.
	process, err := os.FindProcess(pid)
	if err != nil {
		return false, err
	}

	err = process.Signal(syscall.Signal(0))
	if err == nil {
		return true, nil
	}
	if err.Error() == "os: process already finished" {
		return false, nil
	}
	errno, ok := err.(syscall.Errno)
	if !ok {
		return false, err
	}
	switch errno {
	case syscall.ESRCH:
		return false, nil
	case syscall.EPERM:
		// The process exists, we just may not signal it.
		return true, nil
	}
	return false, err
}
