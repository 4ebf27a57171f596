package readiness

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "marker")

	check := FileExists{Path: path}
	ready, _ := check.Ready(context.Background())
	assert.False(t, ready)

	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	ready, _ = check.Ready(context.Background())
	assert.True(t, ready)
}

func TestProcessAlive_OwnProcess(t *testing.T) {
	check := ProcessAlive{PID: os.Getpid()}
	ready, _ := check.Ready(context.Background())
	assert.True(t, ready)
}

func TestHTTPHealthy(t *testing.T) {
	tests := []struct {
		name      string
		handler   http.HandlerFunc
		expect    bool
		withField bool
	}{
		{
			name: "matching field",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"tagline": "The OpenSearch Project: https://opensearch.org/"}`))
			},
			expect:    true,
			withField: true,
		},
		{
			name: "wrong field value",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"tagline": "something else"}`))
			},
			expect:    false,
			withField: true,
		},
		{
			name: "field missing",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"version": {"number": "2.19.1"}}`))
			},
			expect:    false,
			withField: true,
		},
		{
			name: "malformed JSON is a soft failure",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`not json`))
			},
			expect:    false,
			withField: true,
		},
		{
			name: "non-2xx status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			},
			expect:    false,
			withField: true,
		},
		{
			name: "status only when no field expected",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			},
			expect:    true,
			withField: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			check := HTTPHealthy{
				URL:    server.URL,
				Client: server.Client(),
			}
			if tt.withField {
				check.ExpectField = "tagline"
				check.ExpectValue = "The OpenSearch Project: https://opensearch.org/"
			}

			ready, message := check.Ready(context.Background())
			assert.Equal(t, tt.expect, ready, "message: %s", message)
		})
	}
}

func TestHTTPHealthy_SendsBasicAuth(t *testing.T) {
	var gotUser, gotPass string
	var gotOK bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, gotPass, gotOK = r.BasicAuth()
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	check := HTTPHealthy{
		URL:      server.URL,
		Username: "admin",
		Password: "secret",
		Client:   server.Client(),
	}
	ready, _ := check.Ready(context.Background())

	assert.True(t, ready)
	require.True(t, gotOK)
	assert.Equal(t, "admin", gotUser)
	assert.Equal(t, "secret", gotPass)
}

func TestHTTPHealthy_ServerDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	check := HTTPHealthy{URL: url}
	ready, _ := check.Ready(context.Background())
	assert.False(t, ready)
}
