package update

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// CompareVersions Tests
// =============================================================================
// Tests the semantic version comparison used to determine if updates are available.

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		name string
		v1   string
		v2   string
		want int
	}{
		// Equal versions
		{"equal simple", "1.0.0", "1.0.0", 0},
		{"equal with v prefix", "v1.0.0", "1.0.0", 0},
		{"equal both v prefix", "v2.1.0", "v2.1.0", 0},

		// v1 < v2 (update available)
		{"patch update", "1.0.0", "1.0.1", -1},
		{"minor update", "1.0.0", "1.1.0", -1},
		{"major update", "1.0.0", "2.0.0", -1},
		{"minor with v prefix", "v1.2.0", "v1.3.0", -1},
		{"prerelease before release", "1.0.0-dev", "1.0.0", -1},

		// v1 > v2 (downgrade/rollback)
		{"patch downgrade", "1.0.1", "1.0.0", 1},
		{"minor downgrade", "1.1.0", "1.0.0", 1},
		{"complex downgrade", "2.1.0", "1.9.9", 1},

		// Partial versions (should be padded with zeros)
		{"short v1", "1.0", "1.0.0", 0},
		{"short both", "1", "1.0.0", 0},
		{"short update needed", "1.0", "1.0.1", -1},

		// Edge cases
		{"zero to one", "0.0.0", "0.0.1", -1},
		{"high numbers", "10.20.30", "10.20.31", -1},
		{"invalid sorts first", "garbage", "0.0.1", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CompareVersions(tt.v1, tt.v2)
			if got != tt.want {
				t.Errorf("CompareVersions(%q, %q) = %d, want %d", tt.v1, tt.v2, got, tt.want)
			}
		})
	}
}

func TestTarget(t *testing.T) {
	assert.Equal(t, "linux-x86_64", Target("linux", "amd64"))
	assert.Equal(t, "darwin-aarch64", Target("darwin", "arm64"))
	assert.Equal(t, "windows-i686", Target("windows", "386"))
	assert.Equal(t, "linux-riscv64", Target("linux", "riscv64"))
}

func serveManifest(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCheck_NewerVersionForPlatform(t *testing.T) {
	target := Target(runtime.GOOS, runtime.GOARCH)
	srv := serveManifest(t, `{
		"version": "1.3.0",
		"notes": "bug fixes",
		"pub_date": "2025-06-22T19:25:57Z",
		"platforms": {"`+target+`": {"url": "https://example.com/inotes.tar.gz", "signature": "sig"}}
	}`)

	res, err := NewChecker(srv.URL, "1.2.0").Check(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Available)
	assert.Equal(t, "1.3.0", res.Version)
	assert.Equal(t, "bug fixes", res.Notes)
	assert.Equal(t, "https://example.com/inotes.tar.gz", res.DownloadURL)
	assert.Equal(t, 2025, res.PubDate.Year())
}

func TestCheck_UpToDate(t *testing.T) {
	srv := serveManifest(t, `{"version": "1.2.0", "platforms": {}}`)

	res, err := NewChecker(srv.URL, "v1.2.0").Check(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Available)
}

func TestCheck_NewerButNoPlatformBuild(t *testing.T) {
	srv := serveManifest(t, `{"version": "9.0.0", "platforms": {"plan9-mips": {"url": "x"}}}`)

	res, err := NewChecker(srv.URL, "1.0.0").Check(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Available)
	assert.Equal(t, "9.0.0", res.Version)
}

func TestCheck_NoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	res, err := NewChecker(srv.URL, "1.0.0").Check(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Available)
}

func TestCheck_Errors(t *testing.T) {
	_, err := NewChecker("", "1.0.0").Check(context.Background())
	assert.True(t, errors.Is(err, ErrNoEndpoint))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()
	_, err = NewChecker(srv.URL, "1.0.0").Check(context.Background())
	assert.ErrorContains(t, err, "unexpected status")

	bad := serveManifest(t, `{"notes": "no version"}`)
	_, err = NewChecker(bad.URL, "1.0.0").Check(context.Background())
	assert.ErrorContains(t, err, "missing version")
}
