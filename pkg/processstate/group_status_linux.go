//go:build linux

package processstate

import (
	"os"
	"strconv"
	"strings"
)

// GroupStatus answers liveness questions about a process and the
// process group it heads, reading the kernel process table under /proc.
type GroupStatus struct {
	PID int

	// procRoot overrides /proc in tests.
	procRoot string
}

// NewGroupStatus creates a group status probe for the given PID.
func NewGroupStatus(pid int) GroupStatus {
	return GroupStatus{PID: pid}
}

// IsAlive reports whether the process group is still doing work.
// A zombie (defunct) leader counts as dead unless it has live children.
// A missing leader counts as dead unless some process still reports it
// as parent, which covers the race where the leader exited while its
// children keep running. When the process table itself is unavailable
// (restricted mounts, hidepid), liveness degrades to the plain signal
// probe on the leader alone.
func (g GroupStatus) IsAlive() bool {
	state, err := g.readState(g.PID)
	if err == nil && state != "Z" {
		return true
	}
	if _, err := os.Stat(g.root()); err != nil {
		running, probeErr := IsProcessRunning(g.PID)
		return probeErr == nil && running
	}
	return g.hasLiveChildren(g.PID)
}

// readState returns the single-letter process state from
// /proc/<pid>/stat (field 3, after the parenthesized command name).
func (g GroupStatus) readState(pid int) (string, error) {
	data, err := os.ReadFile(g.statPath(pid))
	if err != nil {
		return "", err
	}
	_, state, _, err := parseStat(string(data))
	return state, err
}

// hasLiveChildren scans the process table for a non-zombie process
// whose parent is pid.
func (g GroupStatus) hasLiveChildren(pid int) bool {
	entries, err := os.ReadDir(g.root())
	if err != nil {
		return false
	}
	for _, entry := range entries {
		childPID, err := strconv.Atoi(entry.Name())
		if err != nil {
			continue
		}
		data, err := os.ReadFile(g.statPath(childPID))
		if err != nil {
			continue
		}
		_, state, ppid, err := parseStat(string(data))
		if err != nil {
			continue
		}
		if ppid == pid && state != "Z" {
			return true
		}
	}
	return false
}

func (g GroupStatus) root() string {
	if g.procRoot != "" {
		return g.procRoot
	}
	return "/proc"
}

func (g GroupStatus) statPath(pid int) string {
	return g.root() + "/" + strconv.Itoa(pid) + "/stat"
}

// parseStat extracts (pid, state, ppid) from a /proc/<pid>/stat line.
// The command name is parenthesized and may itself contain spaces and
// parentheses, so fields are taken relative to the last ')'.
func parseStat(stat string) (pid int, state string, ppid int, err error) {
	open := strings.IndexByte(stat, '(')
	closing := strings.LastIndexByte(stat, ')')
	if open < 0 || closing < 0 || closing+2 >= len(stat) {
		return 0, "", 0, strconv.ErrSyntax
	}

	pid, err = strconv.Atoi(strings.TrimSpace(stat[:open]))
	if err != nil {
		return 0, "", 0, err
	}

	rest := strings.Fields(stat[closing+2:])
	if len(rest) < 2 {
		return 0, "", 0, strconv.ErrSyntax
	}

	ppid, err = strconv.Atoi(rest[1])
	if err != nil {
		return 0, "", 0, err
	}

	return pid, rest[0], ppid, nil
}
