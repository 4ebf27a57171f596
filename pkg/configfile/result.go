package configfile

import (
	"fmt"
	"sort"
	"strings"
)

// Mismatch records a managed entry whose value on disk differs from the
// required one.
type Mismatch struct {
	Expected string
	Found    string
}

// Result is the outcome of a verification pass over a configuration or
// flags file.
type Result struct {
	Missing    []string
	Mismatched map[string]Mismatch
}

// AllMatch reports whether every required entry was present with the
// expected value.
func (r Result) AllMatch() bool {
	return len(r.Missing) == 0 && len(r.Mismatched) == 0
}

// Summary renders the failures in a stable order for logging.
func (r Result) Summary() string {
	if r.AllMatch() {
		return "all settings match"
	}

	var parts []string
	for _, key := range r.Missing {
		parts = append(parts, fmt.Sprintf("missing %s", key))
	}

	keys := make([]string, 0, len(r.Mismatched))
	for key := range r.Mismatched {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		m := r.Mismatched[key]
		parts = append(parts, fmt.Sprintf("%s expected %q, found %q", key, m.Expected, m.Found))
	}

	return strings.Join(parts, "; ")
}
