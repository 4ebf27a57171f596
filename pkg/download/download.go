package download

import (
	"context"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/search-tools/opensearch-installer/pkg/errors"
	"github.com/search-tools/opensearch-installer/pkg/logging"
)

// Fetcher retrieves package artifacts over HTTP(S) into a local
// download directory.
type Fetcher struct {
	client *http.Client
	logger logging.Logger
}

// NewFetcher creates a Fetcher. A nil client uses http.DefaultClient.
func NewFetcher(client *http.Client, logger logging.Logger) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Fetcher{
		client: client,
		logger: logger,
	}
}

// Fetch downloads url into destDir, named after the last URL path
// element, and returns the local file path. An HTTP error status or an
// empty artifact is a download error.
func (f *Fetcher) Fetch(ctx context.Context, url, destDir string) (string, error) {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", errors.NewDownloadError("failed to create download directory", err).WithContext("dir", destDir)
	}

	destPath := filepath.Join(destDir, path.Base(url))
	f.logger.Infof("Downloading artifact, url: %s, dest: %s", url, destPath)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", errors.NewDownloadError("failed to build download request", err).WithContext("url", url)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", errors.NewDownloadError("download request failed", err).WithContext("url", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", errors.NewDownloadError("download returned error status", nil).
			WithContext("url", url).WithContext("status", resp.Status)
	}

	file, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return "", errors.NewDownloadError("failed to create artifact file", err).WithContext("path", destPath)
	}

	written, err := io.Copy(file, resp.Body)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", errors.NewDownloadError("failed to write artifact file", err).WithContext("path", destPath)
	}
	if written == 0 {
		return "", errors.NewDownloadError("downloaded artifact is empty", nil).WithContext("url", url)
	}

	f.logger.Infof("Downloaded artifact, path: %s, bytes: %d", destPath, written)
	return destPath, nil
}
