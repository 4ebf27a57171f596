//go:build linux

package processstate

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeStat lays out a minimal /proc/<pid>/stat entry under root.
func writeStat(t *testing.T, root string, pid int, comm, state string, ppid int) {
	t.Helper()
	dir := filepath.Join(root, fmt.Sprintf("%d", pid))
	require.NoError(t, os.MkdirAll(dir, 0755))
	// Only the first four fields matter here; pad the tail like the kernel does.
	stat := fmt.Sprintf("%d (%s) %s %d 0 0 0 -1 4194304 0 0 0 0\n", pid, comm, state, ppid)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stat"), []byte(stat), 0644))
}

func TestGroupStatus_RunningProcessIsAlive(t *testing.T) {
	root := t.TempDir()
	writeStat(t, root, 100, "opensearch", "S", 1)

	status := GroupStatus{PID: 100, procRoot: root}
	assert.True(t, status.IsAlive())
}

func TestGroupStatus_ZombieWithoutChildrenIsDead(t *testing.T) {
	root := t.TempDir()
	writeStat(t, root, 100, "opensearch", "Z", 1)

	status := GroupStatus{PID: 100, procRoot: root}
	assert.False(t, status.IsAlive())
}

func TestGroupStatus_ZombieWithLiveChildIsAlive(t *testing.T) {
	root := t.TempDir()
	writeStat(t, root, 100, "opensearch", "Z", 1)
	writeStat(t, root, 101, "java", "S", 100)

	status := GroupStatus{PID: 100, procRoot: root}
	assert.True(t, status.IsAlive())
}

func TestGroupStatus_MissingProcessWithOrphanedChildIsAlive(t *testing.T) {
	// Leader already reaped, child still reports it as parent.
	root := t.TempDir()
	writeStat(t, root, 101, "java", "S", 100)

	status := GroupStatus{PID: 100, procRoot: root}
	assert.True(t, status.IsAlive())
}

func TestGroupStatus_MissingProcessWithoutChildrenIsDead(t *testing.T) {
	root := t.TempDir()
	writeStat(t, root, 200, "unrelated", "S", 1)

	status := GroupStatus{PID: 100, procRoot: root}
	assert.False(t, status.IsAlive())
}

func TestGroupStatus_ZombieChildDoesNotCount(t *testing.T) {
	root := t.TempDir()
	writeStat(t, root, 100, "opensearch", "Z", 1)
	writeStat(t, root, 101, "java", "Z", 100)

	status := GroupStatus{PID: 100, procRoot: root}
	assert.False(t, status.IsAlive())
}

func TestGroupStatus_MissingProcessTableFallsBackToSignalProbe(t *testing.T) {
	root := filepath.Join(t.TempDir(), "missing")

	status := GroupStatus{PID: os.Getpid(), procRoot: root}
	assert.True(t, status.IsAlive())

	// Far beyond pid_max, so the null signal reports no such process.
	status = GroupStatus{PID: 1 << 30, procRoot: root}
	assert.False(t, status.IsAlive())
}

func TestParseStat_CommWithSpacesAndParens(t *testing.T) {
	pid, state, ppid, err := parseStat("42 (tmux: server (1)) S 7 0 0 0 -1\n")
	require.NoError(t, err)
	assert.Equal(t, 42, pid)
	assert.Equal(t, "S", state)
	assert.Equal(t, 7, ppid)
}

func TestParseStat_Malformed(t *testing.T) {
	_, _, _, err := parseStat("garbage")
	assert.Error(t, err)
}
