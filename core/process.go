package core

import (
	"github.com/josephlewis42/gogosh/core/vos"
	"github.com/spf13/afero"
)

// Process is the view a command gets of the world while it runs: the streams
// of the stage it was invoked in and the session that owns them.
type Process struct {
	vos.VIO

	// Name is the name the command was invoked with.
	Name string

	session *Session
}

// NewProcess creates a process bound to the given streams.
func NewProcess(session *Session, stdio vos.VIO, name string) *Process {
	return &Process{VIO: stdio, Name: name, session: session}
}

// Session returns the session the process runs in.
func (p *Process) Session() *Session {
	return p.session
}

// Get returns a session variable.
func (p *Process) Get(name string) Value {
	return p.session.Get(name)
}

// Put sets a session variable.
func (p *Process) Put(name string, value Value) Value {
	return p.session.Put(name, value)
}

// Fs returns the session filesystem.
func (p *Process) Fs() afero.Fs {
	return p.session.Fs()
}

// Format renders a value the way the session does.
func (p *Process) Format(v Value, level Level) string {
	return p.session.Format(v, level)
}

// Call invokes a closure or command with this process' streams.
func (p *Process) Call(fn Value, args ...Value) (Value, error) {
	cmd, ok := fn.AsCommand()
	if !ok {
		return Null, &MemberError{Target: fn.Kind().String(), Member: "call", Reason: "not callable"}
	}
	return cmd.Execute(p, args)
}

// Execute runs source with this process' streams.
func (p *Process) Execute(source string) (Value, error) {
	return p.session.ExecuteWith(p.VIO, source)
}
