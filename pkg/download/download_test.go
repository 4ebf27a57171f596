package download

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/search-tools/opensearch-installer/pkg/errors"
)

// DownloadMockLogger is a simple mock implementation of Logger for testing
type DownloadMockLogger struct{}

func (m *DownloadMockLogger) Debugf(format string, args ...interface{}) {}
func (m *DownloadMockLogger) Infof(format string, args ...interface{})  {}
func (m *DownloadMockLogger) Warnf(format string, args ...interface{})  {}
func (m *DownloadMockLogger) Errorf(format string, args ...interface{}) {}

func TestFetch_SavesArtifact(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("rpm-bytes"))
	}))
	defer server.Close()

	destDir := filepath.Join(t.TempDir(), "downloads")
	fetcher := NewFetcher(server.Client(), &DownloadMockLogger{})

	path, err := fetcher.Fetch(context.Background(), server.URL+"/opensearch-2.19.1-linux-x64.rpm", destDir)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(destDir, "opensearch-2.19.1-linux-x64.rpm"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "rpm-bytes", string(data))
}

func TestFetch_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	fetcher := NewFetcher(server.Client(), &DownloadMockLogger{})
	_, err := fetcher.Fetch(context.Background(), server.URL+"/missing.rpm", t.TempDir())

	require.Error(t, err)
	assert.True(t, errors.IsDownloadError(err))
}

func TestFetch_EmptyArtifact(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	fetcher := NewFetcher(server.Client(), &DownloadMockLogger{})
	_, err := fetcher.Fetch(context.Background(), server.URL+"/empty.rpm", t.TempDir())

	require.Error(t, err)
	assert.True(t, errors.IsDownloadError(err))
}

func TestFetch_ServerUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	fetcher := NewFetcher(nil, &DownloadMockLogger{})
	_, err := fetcher.Fetch(context.Background(), url+"/x.rpm", t.TempDir())

	require.Error(t, err)
	assert.True(t, errors.IsDownloadError(err))
}
