// Package vos holds the virtual I/O plumbing commands and pipeline stages
// read from and write to.
package vos

import (
	"io"
	"os"
)

// VIO is the set of standard streams a command is given.
type VIO interface {
	Stdin() io.ReadCloser
	Stdout() io.WriteCloser
	Stderr() io.WriteCloser
}

// VIOAdapter holds a fixed trio of streams.
type VIOAdapter struct {
	in       io.ReadCloser
	out, err io.WriteCloser
}

var _ VIO = (*VIOAdapter)(nil)

// NewVIOAdapter creates a VIO from plain readers and writers. Streams
// without a Close method get a no-op one and nil streams read as closed and
// discard writes.
func NewVIOAdapter(stdin io.Reader, stdout, stderr io.Writer) *VIOAdapter {
	return &VIOAdapter{
		in:  readCloser(stdin),
		out: writeCloser(stdout),
		err: writeCloser(stderr),
	}
}

// NewNullIO creates a VIO that reads nothing and discards everything.
func NewNullIO() VIO {
	return NewVIOAdapter(nil, nil, nil)
}

// NewOSIO binds the VIO to the process' standard streams. Closing them is a
// no-op so commands can't close the terminal out from under the shell.
func NewOSIO() VIO {
	return NewVIOAdapter(io.NopCloser(os.Stdin), NopCloser(os.Stdout), NopCloser(os.Stderr))
}

func (a *VIOAdapter) Stdin() io.ReadCloser   { return a.in }
func (a *VIOAdapter) Stdout() io.WriteCloser { return a.out }
func (a *VIOAdapter) Stderr() io.WriteCloser { return a.err }

// NopCloser wraps a writer so Close does nothing.
func NopCloser(w io.Writer) io.WriteCloser {
	return noClose{w}
}

type noClose struct{ io.Writer }

func (noClose) Close() error { return nil }

func writeCloser(w io.Writer) io.WriteCloser {
	switch v := w.(type) {
	case nil:
		return null
	case io.WriteCloser:
		return v
	default:
		return noClose{v}
	}
}

func readCloser(r io.Reader) io.ReadCloser {
	switch v := r.(type) {
	case nil:
		return null
	case io.ReadCloser:
		return v
	default:
		return io.NopCloser(v)
	}
}

// null reads as a closed stream and swallows writes.
var null nullStream

type nullStream struct{}

func (nullStream) Read([]byte) (int, error)    { return 0, os.ErrClosed }
func (nullStream) Write(b []byte) (int, error) { return len(b), nil }
func (nullStream) Close() error                { return nil }
