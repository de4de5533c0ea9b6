package testutil

import "sync"

// FixedConfirmer answers every confirmation with Answer and records the
// prompts it was asked.
type FixedConfirmer struct {
	Answer bool
	Err    error

	mu      sync.Mutex
	prompts []string
}

// Confirm records prompt and returns the fixed answer.
func (c *FixedConfirmer) Confirm(prompt string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prompts = append(c.prompts, prompt)
	return c.Answer, c.Err
}

// Prompts returns the prompts asked so far.
func (c *FixedConfirmer) Prompts() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.prompts...)
}

// RecordingOpener records opened paths instead of launching anything.
// Paths listed in Fail return FailErr.
type RecordingOpener struct {
	Fail    map[string]bool
	FailErr error

	mu     sync.Mutex
	opened []string
}

// Open records path.
func (o *RecordingOpener) Open(path string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.Fail[path] {
		return o.FailErr
	}
	o.opened = append(o.opened, path)
	return nil
}

// Opened returns the paths opened so far.
func (o *RecordingOpener) Opened() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.opened...)
}
