// Package opener launches the application that handles a note's body file.
package opener

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// ErrNoOpener indicates that no open command is known for this platform.
var ErrNoOpener = errors.New("no default open command for this platform")

// Opener opens a body path with an external application.
type Opener interface {
	Open(path string) error
}

// Command opens files by starting an external process in the background.
//
// When Command is empty the platform default handler is used: "open" on
// macOS, "xdg-open" elsewhere on unix, and the URL protocol handler on
// Windows. A configured Command containing spaces (e.g. "open -a Typora") is
// run through the shell with the path quoted.
type Command struct {
	Command string

	// start launches cmd; replaced in tests.
	start func(cmd *exec.Cmd) error
}

// New returns an Opener for the configured command (empty = OS default).
func New(command string) *Command {
	return &Command{Command: strings.TrimSpace(command)}
}

// Open starts the handler for path without waiting for it to exit.
func (c *Command) Open(path string) error {
	cmd, err := c.build(path)
	if err != nil {
		return err
	}

	start := c.start
	if start == nil {
		start = func(cmd *exec.Cmd) error { return cmd.Start() }
	}
	if err := start(cmd); err != nil {
		return fmt.Errorf("failed to open '%s' with '%s': %w", path, strings.Join(cmd.Args, " "), err)
	}
	return nil
}

func (c *Command) build(path string) (*exec.Cmd, error) {
	if c.Command != "" {
		if strings.Contains(c.Command, " ") {
			return exec.Command("sh", "-c", c.Command+" "+shellQuote(path)), nil
		}
		return exec.Command(c.Command, path), nil
	}
	return defaultCommand(runtime.GOOS, path)
}

func defaultCommand(goos, path string) (*exec.Cmd, error) {
	switch goos {
	case "darwin":
		return exec.Command("open", path), nil
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", path), nil
	case "linux", "freebsd", "openbsd", "netbsd", "dragonfly", "solaris", "illumos":
		return exec.Command("xdg-open", path), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNoOpener, goos)
}

// shellQuote wraps s in single quotes for sh, escaping embedded single quotes.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
