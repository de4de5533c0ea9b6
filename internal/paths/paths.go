// Package paths provides canonical helpers for body paths:
// - resolving a user-supplied path to an absolute, symlink-free form
// - computing the relative path between two paths (export "relative" mode)
// - resolving a relative body back against an import file's directory
//
// Every body path that enters or leaves the cache goes through this package so
// that write-time canonicalization and filter-time canonicalization agree.
package paths

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotComparable indicates that a relative path cannot be computed because
// the two inputs do not share a common root.
var ErrNotComparable = errors.New("paths are not comparable")

// CanonicalizeError reports a path that could not be resolved.
type CanonicalizeError struct {
	Path string
	Err  error
}

func (e *CanonicalizeError) Error() string {
	return fmt.Sprintf("failed to canonicalize path '%s'", e.Path)
}

func (e *CanonicalizeError) Unwrap() error {
	return e.Err
}

// Canonicalize resolves path to an absolute path with "." and ".." collapsed
// and all symlinks resolved. The path must exist.
//
// A leading "~" is expanded to the user's home directory.
func Canonicalize(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", &CanonicalizeError{Path: path, Err: errors.New("empty path")}
	}

	expanded, err := expandHome(path)
	if err != nil {
		return "", &CanonicalizeError{Path: path, Err: err}
	}

	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", &CanonicalizeError{Path: path, Err: err}
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", &CanonicalizeError{Path: path, Err: err}
	}
	return resolved, nil
}

// ResolveFrom resolves path against baseDir (when path is relative) and
// canonicalizes the result. Absolute paths ignore baseDir.
func ResolveFrom(path, baseDir string) (string, error) {
	if !filepath.IsAbs(path) && !strings.HasPrefix(path, "~") {
		path = filepath.Join(baseDir, filepath.FromSlash(path))
	}
	return Canonicalize(path)
}

// RelativeFrom returns the path that reaches path starting from the directory
// base. Both inputs should already be canonical; no filesystem access happens.
//
// The shared leading components are dropped. Each remaining component of base
// becomes "..", followed by the remaining components of path. Equal inputs
// yield ".".
//
// When exactly one input is absolute, an absolute path is returned unchanged
// and a relative path fails with ErrNotComparable.
func RelativeFrom(path, base string) (string, error) {
	pathAbs := filepath.IsAbs(path)
	baseAbs := filepath.IsAbs(base)

	if pathAbs != baseAbs {
		if pathAbs {
			return path, nil
		}
		return "", fmt.Errorf("%w: %q from %q", ErrNotComparable, path, base)
	}

	if pathAbs && !strings.EqualFold(filepath.VolumeName(path), filepath.VolumeName(base)) {
		return path, nil
	}

	pathParts := components(path)
	baseParts := components(base)

	i := 0
	for i < len(pathParts) && i < len(baseParts) && pathParts[i] == baseParts[i] {
		i++
	}

	out := make([]string, 0, len(baseParts)-i+len(pathParts)-i)
	for _, part := range baseParts[i:] {
		// A ".." left in a relative base cannot be inverted.
		if part == ".." {
			return "", fmt.Errorf("%w: %q from %q", ErrNotComparable, path, base)
		}
		out = append(out, "..")
	}
	out = append(out, pathParts[i:]...)

	if len(out) == 0 {
		return ".", nil
	}
	return filepath.Join(out...), nil
}

// components splits a cleaned path into its non-empty components, without the
// volume name or root.
func components(p string) []string {
	p = filepath.Clean(p)
	p = p[len(filepath.VolumeName(p)):]
	if p == "." {
		return nil
	}

	var parts []string
	for _, part := range strings.Split(p, string(filepath.Separator)) {
		if part == "" || part == "." {
			continue
		}
		parts = append(parts, part)
	}
	return parts
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~"+string(filepath.Separator)) && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, path[1:]), nil
}
