// Package testutil provides filesystem fixtures for burrow tests. All file
// operations use t.TempDir() for isolated, auto-cleaned trees.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// Fixture builds throwaway directory trees for scan and apply tests.
type Fixture struct {
	T    *testing.T
	Root string
}

// NewFixture creates a fixture rooted in a fresh temp directory.
func NewFixture(t *testing.T) *Fixture {
	t.Helper()
	return &Fixture{T: t, Root: t.TempDir()}
}

// Path resolves a fixture-relative path.
func (f *Fixture) Path(rel string) string {
	return filepath.Join(f.Root, rel)
}

// CreateFile creates a file (and parent directories) with the given content.
func (f *Fixture) CreateFile(rel string, content []byte) string {
	f.T.Helper()

	full := f.Path(rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		f.T.Fatalf("failed to create directory for %s: %v", full, err)
	}
	if err := os.WriteFile(full, content, 0o644); err != nil {
		f.T.Fatalf("failed to create file %s: %v", full, err)
	}
	return full
}

// CreateFileSized creates a file of the given size filled with zero bytes.
func (f *Fixture) CreateFileSized(rel string, size int) string {
	f.T.Helper()
	return f.CreateFile(rel, make([]byte, size))
}

// CreateFileWithAge creates a file whose modification time lies age in the
// past.
func (f *Fixture) CreateFileWithAge(rel string, content []byte, age time.Duration) string {
	f.T.Helper()

	full := f.CreateFile(rel, content)
	old := time.Now().Add(-age)
	if err := os.Chtimes(full, old, old); err != nil {
		f.T.Fatalf("failed to set file time for %s: %v", full, err)
	}
	return full
}

// CreateDir creates a directory tree.
func (f *Fixture) CreateDir(rel string) string {
	f.T.Helper()

	full := f.Path(rel)
	if err := os.MkdirAll(full, 0o755); err != nil {
		f.T.Fatalf("failed to create directory %s: %v", full, err)
	}
	return full
}

// CreateSymlink creates a symbolic link at rel pointing to target.
func (f *Fixture) CreateSymlink(target, rel string) string {
	f.T.Helper()

	full := f.Path(rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		f.T.Fatalf("failed to create directory for %s: %v", full, err)
	}
	if err := os.Symlink(target, full); err != nil {
		f.T.Fatalf("failed to create symlink %s: %v", full, err)
	}
	return full
}

// Exists reports whether a fixture-relative path still exists.
func (f *Fixture) Exists(rel string) bool {
	f.T.Helper()

	_, err := os.Lstat(f.Path(rel))
	if err != nil && !os.IsNotExist(err) {
		f.T.Fatalf("failed to stat %s: %v", f.Path(rel), err)
	}
	return err == nil
}
