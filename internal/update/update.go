// Package update checks a release manifest for a newer version of the app.
// Downloading and installing releases is left to the platform installer.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
)

// ErrNoEndpoint is returned when no manifest URL is configured.
var ErrNoEndpoint = errors.New("update endpoint not configured")

// Manifest is the release manifest served at the update endpoint.
type Manifest struct {
	Version   string              `json:"version"`
	Notes     string              `json:"notes"`
	PubDate   time.Time           `json:"pub_date"`
	Platforms map[string]Platform `json:"platforms"`
}

// Platform is the download for one os/arch target.
type Platform struct {
	URL       string `json:"url"`
	Signature string `json:"signature"`
}

// Result describes the outcome of a check.
type Result struct {
	Available      bool      `json:"available"`
	CurrentVersion string    `json:"currentVersion"`
	Version        string    `json:"version"`
	Notes          string    `json:"notes"`
	PubDate        time.Time `json:"pubDate"`
	DownloadURL    string    `json:"downloadUrl,omitempty"`
}

// Checker fetches the manifest and compares it with the running version.
type Checker struct {
	Endpoint       string
	CurrentVersion string
	Client         *http.Client
}

// NewChecker creates a checker with a 15 second HTTP timeout.
func NewChecker(endpoint, currentVersion string) *Checker {
	return &Checker{
		Endpoint:       endpoint,
		CurrentVersion: currentVersion,
		Client:         &http.Client{Timeout: 15 * time.Second},
	}
}

// Check fetches the manifest. A newer version is only reported as available
// when the manifest has a download for the current platform.
func (c *Checker) Check(ctx context.Context) (*Result, error) {
	if strings.TrimSpace(c.Endpoint) == "" {
		return nil, ErrNoEndpoint
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch manifest: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		// Server says there is nothing newer.
		return &Result{CurrentVersion: c.CurrentVersion, Version: c.CurrentVersion}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch manifest: unexpected status %s", resp.Status)
	}

	var m Manifest
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	if m.Version == "" {
		return nil, errors.New("decode manifest: missing version")
	}

	res := &Result{
		CurrentVersion: c.CurrentVersion,
		Version:        m.Version,
		Notes:          m.Notes,
		PubDate:        m.PubDate,
	}
	if CompareVersions(c.CurrentVersion, m.Version) >= 0 {
		return res, nil
	}
	p, ok := m.Platforms[Target(runtime.GOOS, runtime.GOARCH)]
	if !ok {
		return res, nil
	}
	res.Available = true
	res.DownloadURL = p.URL
	return res, nil
}

// Target returns the manifest platform key for an os/arch pair,
// e.g. "linux-x86_64" or "darwin-aarch64".
func Target(goos, goarch string) string {
	arch := goarch
	switch goarch {
	case "amd64":
		arch = "x86_64"
	case "arm64":
		arch = "aarch64"
	case "386":
		arch = "i686"
	case "arm":
		arch = "armv7"
	}
	return goos + "-" + arch
}

// CompareVersions compares two semantic versions, returning -1, 0 or 1.
// A leading "v" and missing minor/patch components are accepted. Versions
// that cannot be parsed sort before valid ones.
func CompareVersions(v1, v2 string) int {
	a, errA := semver.NewVersion(v1)
	b, errB := semver.NewVersion(v2)
	switch {
	case errA != nil && errB != nil:
		return strings.Compare(v1, v2)
	case errA != nil:
		return -1
	case errB != nil:
		return 1
	}
	return a.Compare(b)
}
