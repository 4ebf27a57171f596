package configfile

import (
	"os"
	"strings"

	"github.com/search-tools/opensearch-installer/pkg/errors"
)

// Document is the line-oriented content of a configuration file. It is
// read fresh from disk at the start of every patch or verify operation
// and discarded after writing; no state survives across invocations.
type Document struct {
	Lines []string
}

// ReadDocument loads a configuration file as an ordered line sequence.
func ReadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewConfigIOError("failed to read configuration file", err).WithContext("path", path)
	}
	return &Document{Lines: strings.Split(string(data), "\n")}, nil
}

// Write stores the document back to disk. Lines are joined with a
// single newline; untouched lines round-trip byte for byte.
func (d *Document) Write(path string) error {
	content := strings.Join(d.Lines, "\n")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return errors.NewConfigIOError("failed to write configuration file", err).WithContext("path", path)
	}
	return nil
}

// trimTrailingBlank drops trailing empty or whitespace-only lines.
func trimTrailingBlank(lines []string) []string {
	end := len(lines)
	for end > 0 && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return lines[:end]
}
