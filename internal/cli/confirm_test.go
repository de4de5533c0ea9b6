package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestPromptConfirmer(t *testing.T) {
	prevJSON := jsonOutput
	t.Cleanup(func() { jsonOutput = prevJSON })
	jsonOutput = false

	tests := []struct {
		name    string
		input   string
		want    bool
		prompts int
	}{
		{name: "y", input: "y\n", want: true, prompts: 1},
		{name: "yes", input: "yes\n", want: true, prompts: 1},
		{name: "n", input: "n\n", want: false, prompts: 1},
		{name: "no", input: "no\n", want: false, prompts: 1},
		{name: "crlf", input: "yes\r\n", want: true, prompts: 1},
		{name: "asks again until answered", input: "maybe\n\nyes\n", want: true, prompts: 3},
		{name: "answers are case sensitive", input: "Y\nn\n", want: false, prompts: 2},
		{name: "eof declines", input: "", want: false, prompts: 1},
		{name: "eof after garbage declines", input: "what", want: false, prompts: 1},
		{name: "answer without newline", input: "y", want: true, prompts: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			c := NewPromptConfirmer(strings.NewReader(tt.input), &out)

			got, err := c.Confirm("Drop note 1?")
			if err != nil {
				t.Fatalf("Confirm: %v", err)
			}
			if got != tt.want {
				t.Errorf("Confirm() = %v, want %v", got, tt.want)
			}
			if n := strings.Count(out.String(), "Drop note 1? [y/n]"); n != tt.prompts {
				t.Errorf("prompted %d times, want %d\noutput: %q", n, tt.prompts, out.String())
			}
		})
	}
}

func TestPromptConfirmerDeclinesInJSONMode(t *testing.T) {
	prevJSON := jsonOutput
	t.Cleanup(func() { jsonOutput = prevJSON })
	jsonOutput = true

	var out bytes.Buffer
	c := NewPromptConfirmer(strings.NewReader("yes\n"), &out)
	got, err := c.Confirm("Overwrite?")
	if err != nil || got {
		t.Fatalf("Confirm() = %v, %v; want false, nil", got, err)
	}
	if out.Len() != 0 {
		t.Errorf("nothing should be prompted in JSON mode, got %q", out.String())
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

func TestPromptConfirmerReadError(t *testing.T) {
	prevJSON := jsonOutput
	t.Cleanup(func() { jsonOutput = prevJSON })
	jsonOutput = false

	var out bytes.Buffer
	c := NewPromptConfirmer(failingReader{}, &out)
	if _, err := c.Confirm("Drop?"); err == nil {
		t.Fatal("expected read error")
	}
}
