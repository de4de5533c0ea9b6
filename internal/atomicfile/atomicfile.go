// Package atomicfile replaces files by writing a sibling temp file and
// renaming it over the target, so readers never observe a half-written file.
package atomicfile

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
)

// WriteFile writes data to path atomically.
//
// perm is used for the new file. If perm is 0, the existing file's mode is
// preserved when there is one, otherwise 0644 is used.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	return Write(path, perm, func(w io.Writer) error {
		_, err := io.Copy(w, bytes.NewReader(data))
		return err
	})
}

// Write streams the output of fn into a temp file next to path and renames it
// into place once fn succeeds. On any error the target is left untouched.
func Write(path string, perm os.FileMode, fn func(w io.Writer) error) error {
	if perm == 0 {
		if st, err := os.Stat(path); err == nil {
			perm = st.Mode().Perm()
		} else {
			perm = 0o644
		}
	}

	dir := filepath.Dir(path)
	base := filepath.Base(path)

	tmp, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return &Error{Stage: StageCreate, Path: path, Err: err}
	}

	tmpPath := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpPath)
		}
	}()

	// Some filesystems do not support chmod here.
	_ = tmp.Chmod(perm)

	bw := bufio.NewWriter(tmp)
	if err := fn(bw); err != nil {
		return &Error{Stage: StageWrite, Path: path, Err: err}
	}
	if err := bw.Flush(); err != nil {
		return &Error{Stage: StageWrite, Path: path, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		return &Error{Stage: StageWrite, Path: path, Err: fmt.Errorf("sync temp file: %w", err)}
	}
	if err := tmp.Close(); err != nil {
		return &Error{Stage: StageWrite, Path: path, Err: fmt.Errorf("close temp file: %w", err)}
	}

	if err := os.Rename(tmpPath, path); err != nil {
		// Windows cannot rename over an existing file. Remove first (not
		// atomic). Elsewhere a failed rename is final, so a directory at
		// path is never removed.
		if runtime.GOOS != "windows" {
			return &Error{Stage: StageCreate, Path: path, Err: fmt.Errorf("rename temp file: %w", err)}
		}
		_ = os.Remove(path)
		if err2 := os.Rename(tmpPath, path); err2 != nil {
			return &Error{Stage: StageCreate, Path: path, Err: fmt.Errorf("rename temp file: %w", err)}
		}
	}

	committed = true
	return nil
}

// Stage identifies which step of an atomic write failed.
type Stage string

const (
	// StageCreate covers creating the temp file and renaming it into place.
	StageCreate Stage = "create"
	// StageWrite covers producing and flushing the content.
	StageWrite Stage = "write"
)

// Error reports a failed atomic write.
type Error struct {
	Stage Stage
	Path  string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Stage, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
