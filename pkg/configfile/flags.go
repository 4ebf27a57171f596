package configfile

import (
	"strings"

	"github.com/search-tools/opensearch-installer/pkg/logging"
)

// Flag is a managed flags-file entry. A line belongs to the flag when
// it starts with Prefix; the written form is Prefix directly followed
// by Value, e.g. `-Xms8g`.
type Flag struct {
	Prefix string
	Value  string
}

// FlagSpec is an ordered list of managed flags.
type FlagSpec []Flag

// ApplyFlags idempotently rewrites the flags file at path: every line
// starting with a managed prefix is dropped and one line per flag is
// appended. Unrelated lines keep their original order.
func ApplyFlags(path string, spec FlagSpec, logger logging.Logger) error {
	doc, err := ReadDocument(path)
	if err != nil {
		return err
	}

	filtered := make([]string, 0, len(doc.Lines))
	for _, line := range doc.Lines {
		if isManagedFlagLine(strings.TrimSpace(line), spec) {
			logger.Debugf("Dropping stale flag line, path: %s, line: %q", path, line)
			continue
		}
		filtered = append(filtered, line)
	}

	filtered = trimTrailingBlank(filtered)
	for _, flag := range spec {
		filtered = append(filtered, flag.Prefix+flag.Value)
	}
	filtered = append(filtered, "")

	doc.Lines = filtered
	if err := doc.Write(path); err != nil {
		return err
	}

	logger.Infof("Applied %d flags, path: %s", len(spec), path)
	return nil
}

func isManagedFlagLine(trimmed string, spec FlagSpec) bool {
	for _, flag := range spec {
		if strings.HasPrefix(trimmed, flag.Prefix) {
			return true
		}
	}
	return false
}

// VerifyFlags re-reads the flags file and compares every managed prefix
// against its required value. The found value is everything after the
// prefix on the matching line; the last matching line wins.
func VerifyFlags(path string, spec FlagSpec) (Result, error) {
	doc, err := ReadDocument(path)
	if err != nil {
		return Result{}, err
	}

	found := make(map[string]string)
	for _, line := range doc.Lines {
		trimmed := strings.TrimSpace(line)
		for _, flag := range spec {
			if strings.HasPrefix(trimmed, flag.Prefix) {
				found[flag.Prefix] = strings.TrimPrefix(trimmed, flag.Prefix)
			}
		}
	}

	result := Result{Mismatched: make(map[string]Mismatch)}
	for _, flag := range spec {
		value, ok := found[flag.Prefix]
		if !ok {
			result.Missing = append(result.Missing, flag.Prefix)
			continue
		}
		if value != flag.Value {
			result.Mismatched[flag.Prefix] = Mismatch{Expected: flag.Value, Found: value}
		}
	}
	return result, nil
}
