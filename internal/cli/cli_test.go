package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/aidanlsb/quill/internal/config"
)

var captureStdoutMu sync.Mutex

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	captureStdoutMu.Lock()
	defer captureStdoutMu.Unlock()

	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}

	os.Stdout = w

	outputCh := make(chan string, 1)
	errCh := make(chan error, 1)
	go func() {
		var buf bytes.Buffer
		_, copyErr := io.Copy(&buf, r)
		_ = r.Close()
		if copyErr != nil {
			errCh <- copyErr
			return
		}
		outputCh <- buf.String()
	}()

	fn()

	os.Stdout = orig
	_ = w.Close()
	select {
	case err := <-errCh:
		t.Fatalf("io.Copy: %v", err)
		return ""
	case output := <-outputCh:
		return output
	}
}

type testResponse struct {
	OK    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *ErrorInfo      `json:"error"`
	Meta  *Meta           `json:"meta"`
}

func decodeResponse(t *testing.T, out string) testResponse {
	t.Helper()
	var resp testResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("unmarshal response: %v\nraw: %s", err, out)
	}
	return resp
}

func (r testResponse) decodeData(t *testing.T, v interface{}) {
	t.Helper()
	if !r.OK {
		t.Fatalf("expected ok response, got error %+v", r.Error)
	}
	if err := json.Unmarshal(r.Data, v); err != nil {
		t.Fatalf("unmarshal data: %v\nraw: %s", err, r.Data)
	}
}

// useTestCache points the package globals at a fresh cache in a temp dir and
// restores them when the test ends.
func useTestCache(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	prevCache := resolvedCachePath
	prevConfigPath := resolvedConfigPath
	prevCfg := cfg
	prevLogger := logger
	prevJSON := jsonOutput
	t.Cleanup(func() {
		resolvedCachePath = prevCache
		resolvedConfigPath = prevConfigPath
		cfg = prevCfg
		logger = prevLogger
		jsonOutput = prevJSON
	})

	resolvedCachePath = filepath.Join(dir, "notes-cache")
	resolvedConfigPath = filepath.Join(dir, "config.toml")
	cfg = config.Default()
	cfg.Opener = "true"
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	jsonOutput = true
	return dir
}

func writeBody(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}
