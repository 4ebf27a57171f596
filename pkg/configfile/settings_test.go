package configfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ConfigFileMockLogger is a simple mock implementation of Logger for testing
type ConfigFileMockLogger struct{}

func (m *ConfigFileMockLogger) Debugf(format string, args ...interface{}) {}
func (m *ConfigFileMockLogger) Infof(format string, args ...interface{})  {}
func (m *ConfigFileMockLogger) Warnf(format string, args ...interface{})  {}
func (m *ConfigFileMockLogger) Errorf(format string, args ...interface{}) {}

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "opensearch.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func testSettingSpec() SettingSpec {
	return SettingSpec{
		{Key: "network.host", Value: "0.0.0.0", Comment: []string{"Bind to all available interfaces."}},
		{Key: "discovery.type", Value: "single-node", Comment: []string{"Required for a standalone node."}},
		{Key: "plugins.security.disabled", Value: "false"},
	}
}

func TestApplySettings_AppendsManagedBlock(t *testing.T) {
	path := writeTempConfig(t, "# stock config\ncluster.name: demo\n\npath.data: /var/lib/opensearch\n")
	logger := &ConfigFileMockLogger{}

	err := ApplySettings(path, testSettingSpec(), logger)
	require.NoError(t, err)

	content := readFile(t, path)
	assert.Contains(t, content, "network.host: 0.0.0.0")
	assert.Contains(t, content, "discovery.type: single-node")
	assert.Contains(t, content, "plugins.security.disabled: false")
	assert.Contains(t, content, managedBlockBegin)
	assert.Contains(t, content, managedBlockEnd)
}

func TestApplySettings_Idempotent(t *testing.T) {
	path := writeTempConfig(t, "cluster.name: demo\n\n# tuning notes\npath.data: /var/lib/opensearch\n")
	logger := &ConfigFileMockLogger{}

	require.NoError(t, ApplySettings(path, testSettingSpec(), logger))
	once := readFile(t, path)

	require.NoError(t, ApplySettings(path, testSettingSpec(), logger))
	twice := readFile(t, path)

	assert.Equal(t, once, twice)
}

func TestApplySettings_PreservesUnrelatedLines(t *testing.T) {
	unrelated := []string{
		"# stock header",
		"cluster.name: demo",
		"",
		"path.data: /var/lib/opensearch",
		"path.logs: /var/log/opensearch",
		"# trailing note",
	}
	path := writeTempConfig(t, strings.Join(unrelated, "\n")+"\n")
	logger := &ConfigFileMockLogger{}

	require.NoError(t, ApplySettings(path, testSettingSpec(), logger))

	content := readFile(t, path)
	lines := strings.Split(content, "\n")

	// Every unrelated line survives, in original relative order.
	lastIndex := -1
	for _, want := range unrelated {
		found := -1
		for i := lastIndex + 1; i < len(lines); i++ {
			if lines[i] == want {
				found = i
				break
			}
		}
		require.NotEqual(t, -1, found, "line %q missing from output", want)
		lastIndex = found
	}
}

func TestApplySettings_RemovesPreexistingKeyLines(t *testing.T) {
	path := writeTempConfig(t, "network.host: 127.0.0.1\ncluster.name: demo\ndiscovery.type: zen\n")
	logger := &ConfigFileMockLogger{}

	require.NoError(t, ApplySettings(path, testSettingSpec(), logger))

	content := readFile(t, path)
	assert.NotContains(t, content, "network.host: 127.0.0.1")
	assert.NotContains(t, content, "discovery.type: zen")
	assert.Contains(t, content, "cluster.name: demo")
	assert.Equal(t, 1, strings.Count(content, "network.host:"))
}

func TestApplySettings_KeepsCommentsMentioningKeys(t *testing.T) {
	// Marker-based block removal must not delete unrelated comments
	// that happen to mention a managed key name.
	path := writeTempConfig(t, "# see docs for network.host tuning\ncluster.name: demo\n")
	logger := &ConfigFileMockLogger{}

	require.NoError(t, ApplySettings(path, testSettingSpec(), logger))

	content := readFile(t, path)
	assert.Contains(t, content, "# see docs for network.host tuning")
}

func TestApplySettings_MissingFile(t *testing.T) {
	logger := &ConfigFileMockLogger{}
	err := ApplySettings(filepath.Join(t.TempDir(), "absent.yml"), testSettingSpec(), logger)
	assert.Error(t, err)
}

func TestVerifySettings_AllMatchAfterApply(t *testing.T) {
	path := writeTempConfig(t, "cluster.name: demo\n")
	logger := &ConfigFileMockLogger{}
	spec := testSettingSpec()

	require.NoError(t, ApplySettings(path, spec, logger))

	result, verifyErr := VerifySettings(path, spec)
	require.NoError(t, verifyErr)
	assert.True(t, result.AllMatch(), "verification failed: %s", result.Summary())
}

func TestVerifySettings_MissingAndMismatched(t *testing.T) {
	path := writeTempConfig(t, "network.host: 127.0.0.1\nplugins.security.disabled: false\n")

	result, verifyErr := VerifySettings(path, testSettingSpec())
	require.NoError(t, verifyErr)

	assert.False(t, result.AllMatch())
	assert.Equal(t, []string{"discovery.type"}, result.Missing)
	require.Contains(t, result.Mismatched, "network.host")
	assert.Equal(t, Mismatch{Expected: "0.0.0.0", Found: "127.0.0.1"}, result.Mismatched["network.host"])
}

func TestVerifySettings_LastWriteWins(t *testing.T) {
	path := writeTempConfig(t, "network.host: 127.0.0.1\nnetwork.host: 0.0.0.0\n")

	spec := SettingSpec{{Key: "network.host", Value: "0.0.0.0"}}
	result, verifyErr := VerifySettings(path, spec)
	require.NoError(t, verifyErr)
	assert.True(t, result.AllMatch())
}

func TestVerifySettings_IgnoresCommentsAndBlanks(t *testing.T) {
	path := writeTempConfig(t, "# network.host: 9.9.9.9\n\nnetwork.host: 0.0.0.0\n")

	spec := SettingSpec{{Key: "network.host", Value: "0.0.0.0"}}
	result, verifyErr := VerifySettings(path, spec)
	require.NoError(t, verifyErr)
	assert.True(t, result.AllMatch())
}

func TestVerifySettings_MissingFile(t *testing.T) {
	_, verifyErr := VerifySettings(filepath.Join(t.TempDir(), "absent.yml"), testSettingSpec())
	assert.Error(t, verifyErr)
}
