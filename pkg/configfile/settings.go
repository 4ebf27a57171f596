package configfile

import (
	"strings"

	"github.com/search-tools/opensearch-installer/pkg/logging"
)

// Sentinel comments delimiting the managed settings block. Removal of a
// previously applied block is marker-based rather than guessing from
// comment text, so unrelated comments that merely mention a key name
// are never touched.
const (
	managedBlockBegin = "# --- BEGIN managed settings (opensearch-installer) ---"
	managedBlockEnd   = "# --- END managed settings (opensearch-installer) ---"
)

// Setting is a single managed `key: value` entry together with the
// explanatory comment lines written above it.
type Setting struct {
	Key     string
	Value   string
	Comment []string
}

// SettingSpec is an ordered list of managed settings. Keys are unique;
// the order determines the layout of the appended block.
type SettingSpec []Setting

// Keys returns the managed keys in spec order.
func (s SettingSpec) Keys() []string {
	keys := make([]string, 0, len(s))
	for _, setting := range s {
		keys = append(keys, setting.Key)
	}
	return keys
}

// ApplySettings idempotently rewrites the configuration file at path so
// that it ends with a managed block containing every entry of spec.
// All unrelated lines are preserved in their original order. A managed
// block left by an earlier run is removed before the new block is
// appended, as is any bare `key:` line for a managed key found outside
// the block (settings that predate this tool managing the file).
func ApplySettings(path string, spec SettingSpec, logger logging.Logger) error {
	doc, err := ReadDocument(path)
	if err != nil {
		return err
	}

	filtered := make([]string, 0, len(doc.Lines))
	inManagedBlock := false
	for _, line := range doc.Lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == managedBlockBegin {
			inManagedBlock = true
			continue
		}
		if trimmed == managedBlockEnd {
			inManagedBlock = false
			continue
		}
		if inManagedBlock {
			continue
		}
		if isManagedKeyLine(trimmed, spec) {
			logger.Debugf("Dropping stale setting line, path: %s, line: %q", path, line)
			continue
		}
		filtered = append(filtered, line)
	}

	filtered = trimTrailingBlank(filtered)

	filtered = append(filtered, "", managedBlockBegin)
	for _, setting := range spec {
		filtered = append(filtered, "")
		for _, comment := range setting.Comment {
			filtered = append(filtered, "# "+comment)
		}
		filtered = append(filtered, setting.Key+": "+setting.Value)
	}
	filtered = append(filtered, managedBlockEnd, "")

	doc.Lines = filtered
	if err := doc.Write(path); err != nil {
		return err
	}

	logger.Infof("Applied %d settings, path: %s", len(spec), path)
	return nil
}

// isManagedKeyLine reports whether the trimmed line sets one of the
// managed keys, e.g. `network.host: 0.0.0.0` or `network.host:`.
func isManagedKeyLine(trimmed string, spec SettingSpec) bool {
	for _, setting := range spec {
		if strings.HasPrefix(trimmed, setting.Key+":") {
			return true
		}
	}
	return false
}

// VerifySettings re-reads the file at path and compares every managed
// key against its required value. Later occurrences of a key overwrite
// earlier ones. It only fails on I/O errors; missing or mismatched
// settings are reported through the Result.
func VerifySettings(path string, spec SettingSpec) (Result, error) {
	doc, err := ReadDocument(path)
	if err != nil {
		return Result{}, err
	}

	found := make(map[string]string)
	for _, line := range doc.Lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if !strings.Contains(trimmed, ": ") {
			continue
		}
		parts := strings.SplitN(trimmed, ": ", 2)
		found[parts[0]] = parts[1]
	}

	result := Result{Mismatched: make(map[string]Mismatch)}
	for _, setting := range spec {
		value, ok := found[setting.Key]
		if !ok {
			result.Missing = append(result.Missing, setting.Key)
			continue
		}
		if value != setting.Value {
			result.Mismatched[setting.Key] = Mismatch{Expected: setting.Value, Found: value}
		}
	}
	return result, nil
}
