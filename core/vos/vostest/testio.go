// Package vostest has helpers for testing code that talks to a vos.VIO.
package vostest

import (
	"bytes"
	"strings"
	"sync"

	"github.com/josephlewis42/gogosh/core/vos"
)

// IO is a VIO with a fixed stdin that captures everything written to it.
type IO struct {
	*vos.VIOAdapter

	mu       sync.Mutex
	stdout   bytes.Buffer
	stderr   bytes.Buffer
	combined bytes.Buffer
}

var _ vos.VIO = (*IO)(nil)

// NewIO creates a VIO reading from stdin.
func NewIO(stdin string) *IO {
	t := &IO{}
	t.VIOAdapter = vos.NewVIOAdapter(
		strings.NewReader(stdin),
		&capture{t, &t.stdout},
		&capture{t, &t.stderr},
	)
	return t
}

// StdoutString returns what was written to stdout.
func (t *IO) StdoutString() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stdout.String()
}

// StderrString returns what was written to stderr.
func (t *IO) StderrString() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stderr.String()
}

// CombinedOutput returns stdout and stderr interleaved in write order.
func (t *IO) CombinedOutput() []byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]byte(nil), t.combined.Bytes()...)
}

type capture struct {
	owner *IO
	buf   *bytes.Buffer
}

func (c *capture) Write(p []byte) (int, error) {
	c.owner.mu.Lock()
	defer c.owner.mu.Unlock()
	c.owner.combined.Write(p)
	return c.buf.Write(p)
}
