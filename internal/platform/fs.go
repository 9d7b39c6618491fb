// Package platform implements the host capabilities the frontend calls into:
// scoped file access, opening URLs, process control and OS information.
package platform

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrOutsideScope is returned for paths that resolve outside the FS root.
var ErrOutsideScope = errors.New("path outside allowed scope")

// FS gives the frontend file access restricted to one directory tree.
type FS struct {
	root string
}

// NewFS creates a filesystem scoped to root.
func NewFS(root string) *FS {
	return &FS{root: filepath.Clean(root)}
}

// Root returns the scope directory.
func (f *FS) Root() string {
	return f.root
}

// Resolve turns a path relative to the root (or an absolute path inside
// it) into an absolute path, rejecting anything that lexically escapes the
// root. Symlinks are checked when the path is used.
func (f *FS) Resolve(p string) (string, error) {
	rel, err := f.rel(p)
	if err != nil {
		return "", err
	}
	return filepath.Join(f.root, rel), nil
}

func (f *FS) rel(p string) (string, error) {
	abs := p
	if !filepath.IsAbs(p) {
		abs = filepath.Join(f.root, p)
	}
	rel, err := filepath.Rel(f.root, filepath.Clean(abs))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s: %w", p, ErrOutsideScope)
	}
	return rel, nil
}

// open resolves p and opens the scope root. Operations go through the
// returned os.Root, which refuses to follow symlinks out of the tree.
func (f *FS) open(p string) (*os.Root, string, error) {
	rel, err := f.rel(p)
	if err != nil {
		return nil, "", err
	}
	if err := os.MkdirAll(f.root, 0o755); err != nil {
		return nil, "", err
	}
	root, err := os.OpenRoot(f.root)
	if err != nil {
		return nil, "", err
	}
	return root, rel, nil
}

// scopeErr reports os.Root's escape errors as ErrOutsideScope.
func scopeErr(p string, err error) error {
	var pe *os.PathError
	if errors.As(err, &pe) && strings.Contains(pe.Err.Error(), "escapes from parent") {
		return fmt.Errorf("%s: %w", p, ErrOutsideScope)
	}
	return err
}

// Check resolves p to an absolute path after verifying, symlinks included,
// that it exists inside the scope.
func (f *FS) Check(p string) (string, error) {
	root, rel, err := f.open(p)
	if err != nil {
		return "", err
	}
	defer root.Close()
	if _, err := root.Stat(rel); err != nil {
		return "", scopeErr(p, err)
	}
	return filepath.Join(f.root, rel), nil
}

// ReadTextFile returns the contents of a file.
func (f *FS) ReadTextFile(p string) (string, error) {
	root, rel, err := f.open(p)
	if err != nil {
		return "", err
	}
	defer root.Close()

	file, err := root.Open(rel)
	if err != nil {
		return "", scopeErr(p, err)
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// WriteTextFile writes data to a file, creating parent directories. With
// appendData the data is added to the end of an existing file.
func (f *FS) WriteTextFile(p, data string, appendData bool) error {
	return f.write(p, []byte(data), appendData)
}

// WriteBinaryFile writes raw bytes to a file, replacing it.
func (f *FS) WriteBinaryFile(p string, data []byte) error {
	return f.write(p, data, false)
}

func (f *FS) write(p string, data []byte, appendData bool) error {
	root, rel, err := f.open(p)
	if err != nil {
		return err
	}
	defer root.Close()

	if err := mkdirAll(root, filepath.Dir(rel)); err != nil {
		return scopeErr(p, err)
	}
	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if appendData {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}
	file, err := root.OpenFile(rel, flags, 0o644)
	if err != nil {
		return scopeErr(p, err)
	}
	if _, err := file.Write(data); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// Exists reports whether the path exists. Paths outside the scope report
// false.
func (f *FS) Exists(p string) bool {
	_, err := f.Check(p)
	return err == nil
}

// Mkdir creates a directory and any missing parents.
func (f *FS) Mkdir(p string) error {
	root, rel, err := f.open(p)
	if err != nil {
		return err
	}
	defer root.Close()
	return scopeErr(p, mkdirAll(root, rel))
}

// ReadDir returns the entry names of a directory.
func (f *FS) ReadDir(p string) ([]string, error) {
	root, rel, err := f.open(p)
	if err != nil {
		return nil, err
	}
	defer root.Close()

	dir, err := root.Open(rel)
	if err != nil {
		return nil, scopeErr(p, err)
	}
	defer dir.Close()
	entries, err := dir.ReadDir(-1)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}

// Remove deletes a file, or a directory tree when recursive is set. The
// scope root itself cannot be removed. Symlinks are removed, never followed.
func (f *FS) Remove(p string, recursive bool) error {
	root, rel, err := f.open(p)
	if err != nil {
		return err
	}
	defer root.Close()

	if rel == "." {
		return fmt.Errorf("remove scope root: %w", ErrOutsideScope)
	}
	if recursive {
		return scopeErr(p, removeAll(root, rel))
	}
	return scopeErr(p, root.Remove(rel))
}

// mkdirAll creates rel and its parents inside root.
func mkdirAll(root *os.Root, rel string) error {
	if rel == "." || rel == "" {
		return nil
	}
	cur := ""
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		cur = filepath.Join(cur, part)
		if err := root.Mkdir(cur, 0o755); err != nil && !errors.Is(err, fs.ErrExist) {
			return err
		}
	}
	return nil
}

// removeAll removes rel and everything below it inside root.
func removeAll(root *os.Root, rel string) error {
	info, err := root.Lstat(rel)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if info.IsDir() {
		dir, err := root.Open(rel)
		if err != nil {
			return err
		}
		entries, err := dir.ReadDir(-1)
		_ = dir.Close()
		if err != nil {
			return err
		}
		for _, e := range entries {
			if err := removeAll(root, filepath.Join(rel, e.Name())); err != nil {
				return err
			}
		}
	}
	return root.Remove(rel)
}
