package core

import (
	"bytes"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/josephlewis42/gogosh/core/vos"
	"github.com/pkg/errors"
)

// syncBuffer is a bytes.Buffer safe to share between stages.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type testShell struct {
	*Session
	stdout *syncBuffer
	stderr *syncBuffer
}

var errBoom = errors.New("boom")

// newTestShell creates a session with a handful of small commands in the
// "test" scope.
func newTestShell(t *testing.T, opts ...SessionOpt) *testShell {
	t.Helper()

	stdout, stderr := &syncBuffer{}, &syncBuffer{}
	opts = append([]SessionOpt{WithStdio(vos.NewVIOAdapter(nil, stdout, stderr))}, opts...)
	session := NewSession(opts...)

	reg := session.Registry()
	reg.Add("test", "echo", CommandFunc(func(p *Process, args []Value) (Value, error) {
		parts := make([]string, len(args))
		for i, arg := range args {
			parts[i] = Format(arg, Part)
		}
		return Text(strings.Join(parts, " ")), nil
	}))
	reg.Add("test", "tac", CommandFunc(func(p *Process, args []Value) (Value, error) {
		in, err := io.ReadAll(p.Stdin())
		if err != nil {
			return Null, err
		}
		return Text(strings.TrimSuffix(string(in), "\n")), nil
	}))
	reg.Add("test", "list", CommandFunc(func(p *Process, args []Value) (Value, error) {
		return List(args...), nil
	}))
	reg.Add("test", "print", CommandFunc(func(p *Process, args []Value) (Value, error) {
		for _, arg := range args {
			io.WriteString(p.Stdout(), Format(arg, Part)+"\n")
		}
		return Null, nil
	}))
	reg.Add("test", "fail", CommandFunc(func(p *Process, args []Value) (Value, error) {
		return Null, errBoom
	}))
	reg.Add("test", "big", CommandFunc(func(p *Process, args []Value) (Value, error) {
		return Text(strings.Repeat("x", 1<<20)), nil
	}))
	reg.Add("test", "strings", CommandFunc(func(p *Process, args []Value) (Value, error) {
		return Object([]string{"a", "b"}), nil
	}))
	reg.Add("test", "callit", CommandFunc(func(p *Process, args []Value) (Value, error) {
		return p.Call(args[0])
	}))

	return &testShell{Session: session, stdout: stdout, stderr: stderr}
}
