//go:build !linux

package processstate

// GroupStatus degrades to a plain liveness probe on platforms without a
// /proc process table. The installer itself only runs on Linux.
type GroupStatus struct {
	PID int
}

func NewGroupStatus(pid int) GroupStatus {
	return GroupStatus{PID: pid}
}

func (g GroupStatus) IsAlive() bool {
	running, err := IsProcessRunning(g.PID)
	return err == nil && running
}
