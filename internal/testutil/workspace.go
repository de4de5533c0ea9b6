// Package testutil provides reusable test utilities for quill tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// TestWorkspace is a temporary directory holding a notes cache and the body
// files notes point at.
type TestWorkspace struct {
	Path      string
	CachePath string
	t         *testing.T
	files     map[string]string
}

// NewTestWorkspace creates a new test workspace builder.
// Call Build() to create the actual directory.
func NewTestWorkspace(t *testing.T) *TestWorkspace {
	t.Helper()
	return &TestWorkspace{
		t:     t,
		files: make(map[string]string),
	}
}

// WithFile adds a body file to the workspace.
// The path is relative to the workspace root.
func (w *TestWorkspace) WithFile(path, content string) *TestWorkspace {
	w.files[path] = content
	return w
}

// Build creates the workspace directory and all configured files. The cache
// itself is not created; CachePath points at where it will live.
func (w *TestWorkspace) Build() *TestWorkspace {
	w.t.Helper()

	// Resolve symlinks so paths compare equal to canonicalized note bodies
	// (macOS temp dirs live behind /var -> /private/var).
	dir, err := filepath.EvalSymlinks(w.t.TempDir())
	if err != nil {
		w.t.Fatalf("failed to resolve temp dir: %v", err)
	}
	w.Path = dir
	w.CachePath = filepath.Join(dir, "state", "notes-cache")

	for path, content := range w.files {
		w.WriteFile(path, content)
	}
	return w
}

// WriteFile writes a file into the workspace, creating directories as needed.
func (w *TestWorkspace) WriteFile(relPath, content string) string {
	w.t.Helper()
	fullPath := w.Abs(relPath)

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		w.t.Fatalf("failed to create directory %s: %v", dir, err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0o644); err != nil {
		w.t.Fatalf("failed to write file %s: %v", fullPath, err)
	}
	return fullPath
}

// Abs returns the absolute path of relPath inside the workspace.
func (w *TestWorkspace) Abs(relPath string) string {
	return filepath.Join(w.Path, filepath.FromSlash(relPath))
}

// ReadFile reads a file from the workspace.
func (w *TestWorkspace) ReadFile(relPath string) string {
	w.t.Helper()
	content, err := os.ReadFile(w.Abs(relPath))
	if err != nil {
		w.t.Fatalf("failed to read file %s: %v", relPath, err)
	}
	return string(content)
}

// FileExists checks if a file exists in the workspace.
func (w *TestWorkspace) FileExists(relPath string) bool {
	w.t.Helper()
	_, err := os.Stat(w.Abs(relPath))
	return err == nil
}

// CacheBytes returns the raw cache file, or nil if there is none yet.
func (w *TestWorkspace) CacheBytes() []byte {
	w.t.Helper()
	data, err := os.ReadFile(w.CachePath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		w.t.Fatalf("failed to read cache: %v", err)
	}
	return data
}
