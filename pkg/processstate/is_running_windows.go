//go:build windows

package processstate

import (
	"syscall"

	"github.com/search-tools/opensearch-installer/pkg/errors"
)

const (
	STILL_ACTIVE                      = 259
	PROCESS_QUERY_LIMITED_INFORMATION = 0x1000
)

// IsProcessRunning probes a single Windows process. The installer
// proper exits early on non-Linux hosts; this keeps the package
// buildable everywhere.
func IsProcessRunning(pid int) (bool, error) {
	if pid <= 0 {
		return false, errors.NewValidationError("invalid PID", nil).WithContext("pid", pid)
	}

	handle, err := syscall.OpenProcess(
		PROCESS_QUERY_LIMITED_INFORMATION,
		false,
		uint32(pid),
	)
	if err != nil {
		// Process doesn't exist or access denied.
		return false, err
	}
	defer syscall.CloseHandle(handle)

	var exitCode uint32
	err = syscall.GetExitCodeProcess(handle, &exitCode)
	if err != nil {
		return false, err
	}

	return exitCode == STILL_ACTIVE, nil
}
