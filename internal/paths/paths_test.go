package paths

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"pgregory.net/rapid"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("slash-rooted fixtures are not absolute on windows")
	}
}

func TestRelativeFrom(t *testing.T) {
	skipOnWindows(t)

	tests := []struct {
		path string
		base string
		want string
	}{
		{"/a/b/c.txt", "/a/b", "c.txt"},
		{"/a/b/c.txt", "/a", "b/c.txt"},
		{"/a/b/c.txt", "/a/x", "../b/c.txt"},
		{"/a/b/c.txt", "/x/y/z", "../../../a/b/c.txt"},
		{"/a/b", "/a/b", "."},
		{"/a", "/a/b/c", "../.."},
		{"/a/b/c.txt", "/", "a/b/c.txt"},
		{"/", "/a/b", "../.."},
		{"/a/./b/../c", "/a", "c"},
		{"a/b", "a", "b"},
		{"a/b", "c", "../a/b"},
		{"/abs/path", "rel/base", "/abs/path"},
	}
	for _, tc := range tests {
		got, err := RelativeFrom(tc.path, tc.base)
		if err != nil {
			t.Fatalf("RelativeFrom(%q, %q) returned error: %v", tc.path, tc.base, err)
		}
		if got != filepath.FromSlash(tc.want) {
			t.Fatalf("RelativeFrom(%q, %q) = %q, want %q", tc.path, tc.base, got, tc.want)
		}
	}
}

func TestRelativeFromNotComparable(t *testing.T) {
	skipOnWindows(t)

	if _, err := RelativeFrom("rel/path", "/abs/base"); !errors.Is(err, ErrNotComparable) {
		t.Fatalf("expected ErrNotComparable, got %v", err)
	}
	if _, err := RelativeFrom("a", "../b"); !errors.Is(err, ErrNotComparable) {
		t.Fatalf("expected ErrNotComparable for base with '..', got %v", err)
	}
}

func drawAbsPath(t *rapid.T, label string) string {
	segs := rapid.SliceOfN(rapid.StringMatching(`[a-z]{1,4}`), 0, 6).Draw(t, label)
	return "/" + strings.Join(segs, "/")
}

func TestRelativeFromAncestorProperty(t *testing.T) {
	skipOnWindows(t)

	rapid.Check(t, func(t *rapid.T) {
		base := drawAbsPath(t, "base")
		tail := rapid.SliceOfN(rapid.StringMatching(`[a-z]{1,4}`), 1, 4).Draw(t, "tail")
		path := filepath.Join(base, filepath.Join(tail...))

		rel, err := RelativeFrom(path, base)
		if err != nil {
			t.Fatalf("RelativeFrom(%q, %q): %v", path, base, err)
		}
		if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			t.Fatalf("RelativeFrom(%q, %q) = %q climbs out of an ancestor", path, base, rel)
		}
		if got := filepath.Join(base, rel); got != path {
			t.Fatalf("Join(%q, %q) = %q, want %q", base, rel, got, path)
		}
	})
}

func TestRelativeFromRoundTripProperty(t *testing.T) {
	skipOnWindows(t)

	rapid.Check(t, func(t *rapid.T) {
		path := drawAbsPath(t, "path")
		base := drawAbsPath(t, "base")

		rel, err := RelativeFrom(path, base)
		if err != nil {
			t.Fatalf("RelativeFrom(%q, %q): %v", path, base, err)
		}
		if filepath.IsAbs(rel) {
			t.Fatalf("RelativeFrom(%q, %q) = %q, expected a relative path", path, base, rel)
		}
		if got := filepath.Join(base, rel); got != filepath.Clean(path) {
			t.Fatalf("Join(%q, %q) = %q, want %q", base, rel, got, path)
		}
	})
}

func TestCanonicalizeResolvesSymlinksAndDots(t *testing.T) {
	dir := t.TempDir()
	realDir, err := filepath.EvalSymlinks(dir)
	if err != nil {
		t.Fatalf("EvalSymlinks: %v", err)
	}

	target := filepath.Join(realDir, "notes", "a.md")
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(target, []byte("# A\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := Canonicalize(filepath.Join(dir, "notes", ".", "..", "notes", "a.md"))
	if err != nil {
		t.Fatalf("Canonicalize returned error: %v", err)
	}
	if got != target {
		t.Fatalf("Canonicalize = %q, want %q", got, target)
	}

	if runtime.GOOS == "windows" {
		return
	}
	link := filepath.Join(realDir, "link.md")
	if err := os.Symlink(target, link); err != nil {
		t.Fatalf("symlink: %v", err)
	}
	got, err = Canonicalize(link)
	if err != nil {
		t.Fatalf("Canonicalize(link) returned error: %v", err)
	}
	if got != target {
		t.Fatalf("Canonicalize(link) = %q, want %q", got, target)
	}
}

func TestCanonicalizeMissingPath(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.md")

	_, err := Canonicalize(missing)
	var cerr *CanonicalizeError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected *CanonicalizeError, got %v", err)
	}
	if cerr.Path != missing {
		t.Fatalf("CanonicalizeError.Path = %q, want %q", cerr.Path, missing)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected error to wrap os.ErrNotExist, got %v", err)
	}
}

func TestResolveFrom(t *testing.T) {
	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("EvalSymlinks: %v", err)
	}
	target := filepath.Join(dir, "sub", "b.txt")
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(target, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := ResolveFrom("sub/b.txt", dir)
	if err != nil {
		t.Fatalf("ResolveFrom returned error: %v", err)
	}
	if got != target {
		t.Fatalf("ResolveFrom = %q, want %q", got, target)
	}

	got, err = ResolveFrom(target, filepath.Join(dir, "elsewhere"))
	if err != nil {
		t.Fatalf("ResolveFrom(abs) returned error: %v", err)
	}
	if got != target {
		t.Fatalf("ResolveFrom(abs) = %q, want %q", got, target)
	}
}
