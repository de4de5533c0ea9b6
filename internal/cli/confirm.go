package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/aidanlsb/quill/internal/ui"
)

// PromptConfirmer asks yes/no questions on a terminal. Only "y" and "yes"
// confirm and only "n" and "no" decline; anything else asks again. End of
// input declines.
type PromptConfirmer struct {
	in  *bufio.Reader
	out io.Writer

	// decorate adds the [y/n] hint styling when talking to a terminal.
	decorate bool
}

// NewPromptConfirmer reads answers from in and writes prompts to out.
func NewPromptConfirmer(in io.Reader, out io.Writer) *PromptConfirmer {
	return &PromptConfirmer{in: bufio.NewReader(in), out: out}
}

func newPromptConfirmer() *PromptConfirmer {
	c := NewPromptConfirmer(os.Stdin, os.Stderr)
	c.decorate = isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stderr.Fd())
	return c
}

// Confirm implements notes.Confirmer. In JSON mode nothing is read and every
// question is declined; pass --force instead.
func (c *PromptConfirmer) Confirm(prompt string) (bool, error) {
	if isJSONOutput() {
		return false, nil
	}

	hint := "[y/n]"
	if c.decorate {
		hint = ui.Hint(hint)
	}
	for {
		fmt.Fprintf(c.out, "%s %s ", prompt, hint)

		line, err := c.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return false, fmt.Errorf("failed to read confirmation: %w", err)
		}
		switch strings.TrimRight(line, "\r\n") {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(c.out)
			return false, nil
		}
	}
}
