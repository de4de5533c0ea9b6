package atomicfile

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestWriteFileReplacesContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	if err := os.WriteFile(path, []byte("old"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := WriteFile(path, []byte("new"), 0); err != nil {
		t.Fatalf("WriteFile returned error: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != "new" {
		t.Fatalf("content = %q, want %q", got, "new")
	}
}

func TestWriteLeavesTargetOnFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")
	if err := os.WriteFile(path, []byte("keep"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	boom := errors.New("boom")
	err := Write(path, 0, func(w io.Writer) error {
		_, _ = io.WriteString(w, "partial")
		return boom
	})

	var aerr *Error
	if !errors.As(err, &aerr) || aerr.Stage != StageWrite {
		t.Fatalf("expected write-stage *Error, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("expected error to wrap boom, got %v", err)
	}

	got, _ := os.ReadFile(path)
	if string(got) != "keep" {
		t.Fatalf("target changed to %q", got)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected temp file cleanup, found %d entries", len(entries))
	}
}

func TestWriteMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.json")
	err := WriteFile(path, []byte("x"), 0)

	var aerr *Error
	if !errors.As(err, &aerr) || aerr.Stage != StageCreate {
		t.Fatalf("expected create-stage *Error, got %v", err)
	}
}

func TestWriteKeepsDirectoryAtTarget(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("windows replaces the target by removing it first")
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.json")
	if err := os.Mkdir(path, 0o755); err != nil {
		t.Fatal(err)
	}

	err := WriteFile(path, []byte("x"), 0o644)

	var aerr *Error
	if !errors.As(err, &aerr) || aerr.Stage != StageCreate {
		t.Fatalf("expected create-stage *Error, got %v", err)
	}
	st, statErr := os.Stat(path)
	if statErr != nil || !st.IsDir() {
		t.Fatalf("directory at target should survive, stat = %v, %v", st, statErr)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Fatalf("expected temp file cleanup, found %d entries", len(entries))
	}
}
