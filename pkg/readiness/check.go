package readiness

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/search-tools/opensearch-installer/pkg/processstate"
	"github.com/search-tools/opensearch-installer/pkg/sysservice"
)

// Check is a readiness predicate over some external condition. Ready
// returns the verdict plus a human-readable message, mirroring the
// shape of service health probes. Checks never terminate the run; a
// failing probe is just "not ready yet".
type Check interface {
	Ready(ctx context.Context) (bool, string)
}

// FileExists is ready once the given path exists.
type FileExists struct {
	Path string
}

func (c FileExists) Ready(ctx context.Context) (bool, string) {
	if _, err := os.Stat(c.Path); err != nil {
		return false, fmt.Sprintf("file not present: %s", c.Path)
	}
	return true, fmt.Sprintf("file present: %s", c.Path)
}

// ProcessAlive is ready while the process group headed by PID is doing
// work. Zombie leaders with no live children count as dead; a reaped
// leader whose children still run counts as alive.
type ProcessAlive struct {
	PID int
}

func (c ProcessAlive) Ready(ctx context.Context) (bool, string) {
	if processstate.NewGroupStatus(c.PID).IsAlive() {
		return true, fmt.Sprintf("process group alive: PID %d", c.PID)
	}
	return false, fmt.Sprintf("process group not alive: PID %d", c.PID)
}

// ServiceActive is ready once the named service reports active.
type ServiceActive struct {
	Name       string
	Controller sysservice.Controller
}

func (c ServiceActive) Ready(ctx context.Context) (bool, string) {
	active, err := c.Controller.IsActive(ctx, c.Name)
	if err != nil {
		return false, fmt.Sprintf("service state query failed: %v", err)
	}
	if !active {
		return false, fmt.Sprintf("service not active: %s", c.Name)
	}
	return true, fmt.Sprintf("service active: %s", c.Name)
}

// HTTPHealthy is ready once a GET against URL answers 2xx with a JSON
// body whose ExpectField equals ExpectValue. Basic auth credentials are
// sent when Username is non-empty. A bad status or malformed body is a
// soft failure, not an error.
type HTTPHealthy struct {
	URL         string
	Username    string
	Password    string
	ExpectField string
	ExpectValue string

	// Client overrides the default self-signed-tolerant client in tests.
	Client *http.Client
}

func (c HTTPHealthy) Ready(ctx context.Context) (bool, string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return false, fmt.Sprintf("failed to build request: %v", err)
	}
	if c.Username != "" {
		req.SetBasicAuth(c.Username, c.Password)
	}

	resp, err := c.client().Do(req)
	if err != nil {
		return false, fmt.Sprintf("HTTP request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false, fmt.Sprintf("HTTP status not healthy: %s", resp.Status)
	}

	if c.ExpectField == "" {
		return true, fmt.Sprintf("HTTP check passed: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Sprintf("failed to read response body: %v", err)
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return false, fmt.Sprintf("response body is not valid JSON: %v", err)
	}

	value, ok := payload[c.ExpectField].(string)
	if !ok {
		return false, fmt.Sprintf("response field missing or not a string: %s", c.ExpectField)
	}
	if value != c.ExpectValue {
		return false, fmt.Sprintf("unexpected value for %s: %q", c.ExpectField, value)
	}

	return true, fmt.Sprintf("HTTP check passed, %s matched", c.ExpectField)
}

func (c HTTPHealthy) client() *http.Client {
	if c.Client != nil {
		return c.Client
	}
	// A freshly installed node serves a self-signed demo certificate.
	return &http.Client{
		Timeout: 10 * time.Second,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
	}
}
