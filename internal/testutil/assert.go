package testutil

import (
	"os"
	"strings"
	"testing"
)

// AssertFileExists fails the test if the file does not exist.
func (w *TestWorkspace) AssertFileExists(relPath string) {
	w.t.Helper()
	if _, err := os.Stat(w.Abs(relPath)); os.IsNotExist(err) {
		w.t.Errorf("expected file to exist: %s", relPath)
	}
}

// AssertFileContains fails the test if the file does not contain the substring.
func (w *TestWorkspace) AssertFileContains(relPath, substr string) {
	w.t.Helper()
	content := w.ReadFile(relPath)
	if !strings.Contains(content, substr) {
		w.t.Errorf("expected file %s to contain %q, got:\n%s", relPath, substr, content)
	}
}

// AssertNoteCount lists every note and verifies how many the cache holds.
func (w *TestWorkspace) AssertNoteCount(expected int) {
	w.t.Helper()
	result := w.RunCLI("list", "--lines", "100000")
	result.MustSucceed(w.t)

	notes := result.DataList("notes")
	if len(notes) != expected {
		w.t.Errorf("expected %d notes, got %d\nRaw: %s", expected, len(notes), result.RawJSON)
	}
}

// AssertResultCount checks that a result list has the expected length.
func (r *CLIResult) AssertResultCount(t *testing.T, key string, expected int) {
	t.Helper()
	results := r.DataList(key)
	if len(results) != expected {
		t.Errorf("expected %d %s, got %d\nRaw: %s", expected, key, len(results), r.RawJSON)
	}
}
