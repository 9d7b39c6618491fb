package platform

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"

	"github.com/pkg/browser"
)

// ErrOpenNotAllowed is returned for targets outside the open scope.
var ErrOpenNotAllowed = errors.New("target not allowed")

// Package-level hooks for testing. In production, these use the real implementations.
var (
	openURL  = browser.OpenURL
	openFile = browser.OpenFile
)

// openScope matches the URLs the frontend may hand to the OS.
var openScope = regexp.MustCompile(`^((mailto:\w+)|(tel:\w+)|(https?://\w+)).+`)

// Shell opens URLs and files with the user's default applications.
type Shell struct {
	fs *FS
}

// NewShell creates a shell whose local paths are restricted to fs.
func NewShell(fs *FS) *Shell {
	return &Shell{fs: fs}
}

// Open opens a URL in the default browser or a file in its default
// application. URLs must be http(s), mailto or tel; local paths must lie
// inside the filesystem scope.
func (s *Shell) Open(target string) error {
	if u, err := url.Parse(target); err == nil && u.Scheme != "" && len(u.Scheme) > 1 {
		if !openScope.MatchString(target) {
			return fmt.Errorf("open %q: %w", target, ErrOpenNotAllowed)
		}
		return openURL(target)
	}

	abs, err := s.fs.Check(target)
	if err != nil {
		return fmt.Errorf("open %q: %w", target, ErrOpenNotAllowed)
	}
	return openFile(abs)
}
