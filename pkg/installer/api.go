package installer

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/search-tools/opensearch-installer/pkg/configfile"
	"github.com/search-tools/opensearch-installer/pkg/readiness"
)

// apiReadyCheck probes the node's root endpoint until it answers with
// the expected tagline.
func (i *Installer) apiReadyCheck() readiness.Check {
	return readiness.HTTPHealthy{
		URL:         i.config.Server.APIBaseURL + "/",
		Username:    "admin",
		Password:    i.config.AdminPassword,
		ExpectField: "tagline",
		ExpectValue: OpenSearchTagline,
	}
}

// apiClient tolerates the self-signed demo certificate a fresh node
// serves.
func apiClient() *http.Client {
	return &http.Client{
		Timeout: 15 * time.Second,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
	}
}

// VerifyAPI probes the node root endpoint and checks the tagline,
// logging the reported version and cluster name. Failures are soft:
// the verdict is returned, nothing aborts.
func (i *Installer) VerifyAPI(ctx context.Context) bool {
	body, ok := i.apiGet(ctx, i.config.Server.APIBaseURL+"/")
	if !ok {
		return false
	}

	var payload struct {
		ClusterName string `json:"cluster_name"`
		Tagline     string `json:"tagline"`
		Version     struct {
			Number string `json:"number"`
		} `json:"version"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		i.logger.Warnf("API returned invalid JSON: %v", err)
		return false
	}
	if payload.Tagline != OpenSearchTagline {
		i.logger.Warnf("API returned unexpected tagline: %q", payload.Tagline)
		return false
	}

	i.logger.Infof("API responding, version: %s, cluster: %s", payload.Version.Number, payload.ClusterName)
	return true
}

// VerifyPlugins lists the installed plugins via the _cat API. Soft
// check: any 2xx answer passes, the listing is logged.
func (i *Installer) VerifyPlugins(ctx context.Context) bool {
	body, ok := i.apiGet(ctx, i.config.Server.APIBaseURL+"/_cat/plugins?v")
	if !ok {
		return false
	}

	listing := strings.TrimSpace(string(body))
	if listing == "" {
		i.logger.Infof("No plugins installed")
	} else {
		i.logger.Infof("Installed plugins:\n%s", listing)
	}
	return true
}

func (i *Installer) apiGet(ctx context.Context, url string) ([]byte, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		i.logger.Warnf("Failed to build API request, url: %s, error: %v", url, err)
		return nil, false
	}
	req.SetBasicAuth("admin", i.config.AdminPassword)

	resp, err := apiClient().Do(req)
	if err != nil {
		i.logger.Warnf("API not responding, url: %s, error: %v", url, err)
		return nil, false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		i.logger.Warnf("API returned error status, url: %s, status: %s", url, resp.Status)
		return nil, false
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		i.logger.Warnf("Failed to read API response, url: %s, error: %v", url, err)
		return nil, false
	}
	return body, true
}

// VerifyConfig re-checks the required server settings on disk without
// patching anything.
func (i *Installer) VerifyConfig() (configfile.Result, error) {
	return configfile.VerifySettings(i.config.ServerConfigPath(), i.config.ServerSettings())
}

// VerifyJVM re-checks the required JVM heap flags on disk without
// patching anything.
func (i *Installer) VerifyJVM() (configfile.Result, error) {
	return configfile.VerifyFlags(i.config.JVMOptionsPath(), i.config.HeapFlags())
}
