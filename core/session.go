package core

import (
	"fmt"
	"strings"

	"github.com/josephlewis42/gogosh/core/logger"
	"github.com/josephlewis42/gogosh/core/vos"
	"github.com/spf13/afero"
)

const (
	// VarEcho traces statements to stderr when truthy.
	VarEcho = "echo"
	// VarArgs holds script arguments for top level closures.
	VarArgs = "args"
	// VarPipeException holds the last error raised by a non-terminal stage.
	VarPipeException = "pipe-exception"

	// DefaultCommand is invoked for unknown commands if it exists.
	DefaultCommand = "default"

	defaultLock = ".defaultLock"
)

// Session holds the state shared by every closure run within it: variables,
// registered commands, default streams, and the filesystem commands see.
type Session struct {
	vars     VarStore
	commands *Registry
	stdio    vos.VIO
	fs       afero.Fs
	log      *logger.SessionLogger
	pipeRate int64
}

// SessionOpt configures a Session.
type SessionOpt func(*Session)

// WithVars replaces the variable store.
func WithVars(vars VarStore) SessionOpt {
	return func(s *Session) { s.vars = vars }
}

// WithRegistry replaces the command registry, registries may be shared
// between sessions.
func WithRegistry(r *Registry) SessionOpt {
	return func(s *Session) { s.commands = r }
}

// WithStdio sets the session's default streams.
func WithStdio(stdio vos.VIO) SessionOpt {
	return func(s *Session) { s.stdio = stdio }
}

// WithFs sets the filesystem exposed to commands.
func WithFs(fs afero.Fs) SessionOpt {
	return func(s *Session) { s.fs = fs }
}

// WithLogger records session events.
func WithLogger(log *logger.SessionLogger) SessionOpt {
	return func(s *Session) { s.log = log }
}

// WithPipeRateLimit throttles data flowing between pipeline stages, zero
// disables throttling.
func WithPipeRateLimit(bytesPerSecond int64) SessionOpt {
	return func(s *Session) { s.pipeRate = bytesPerSecond }
}

// NewSession creates a session. By default it has no commands, discards
// output, and uses an in-memory filesystem.
func NewSession(opts ...SessionOpt) *Session {
	s := &Session{
		vars:     NewMapVars(),
		commands: NewRegistry(),
		stdio:    vos.NewNullIO(),
		fs:       afero.NewMemMapFs(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns a variable or null.
func (s *Session) Get(name string) Value {
	v, _ := s.vars.Get(name)
	return v
}

// Put sets a variable and returns the previous value.
func (s *Session) Put(name string, value Value) Value {
	return s.vars.Put(name, value)
}

// Remove deletes a variable and returns the previous value.
func (s *Session) Remove(name string) Value {
	return s.vars.Remove(name)
}

// VarNames lists all variables.
func (s *Session) VarNames() []string {
	return s.vars.Names()
}

// Registry returns the session's command registry.
func (s *Session) Registry() *Registry {
	return s.commands
}

// Stdio returns the session's default streams.
func (s *Session) Stdio() vos.VIO {
	return s.stdio
}

// Fs returns the filesystem commands operate on.
func (s *Session) Fs() afero.Fs {
	return s.fs
}

// Logger returns the session event logger, it may be nil.
func (s *Session) Logger() *logger.SessionLogger {
	return s.log
}

// Format renders a value the way the session displays it.
func (s *Session) Format(v Value, level Level) string {
	return Format(v, level)
}

// Command resolves a name to a command.
//
// The name is tried verbatim, then as "*:name" if it has no scope. Registered
// commands win over variables holding closures or commands. The returned
// string is the name that matched.
func (s *Session) Command(name string) (Command, string) {
	candidates := []string{name}
	if !strings.Contains(name, ":") {
		candidates = append(candidates, "*:"+name)
	}

	for _, candidate := range candidates {
		if cmd, matched := s.commands.Lookup(candidate); cmd != nil {
			return cmd, matched
		}
	}

	for _, candidate := range candidates {
		if cmd, ok := s.Get(candidate).AsCommand(); ok {
			return cmd, candidate
		}
	}

	return nil, name
}

// Execute parses and runs source against the session's default streams.
func (s *Session) Execute(source string) (Value, error) {
	return s.ExecuteWith(s.stdio, source)
}

// ExecuteWith parses and runs source as a top level closure reading and
// writing the given streams. If the session variable "args" holds a list it
// becomes the closure's positional arguments.
func (s *Session) ExecuteWith(stdio vos.VIO, source string) (Value, error) {
	c, err := NewClosure(s, nil, source)
	if err != nil {
		return Null, err
	}

	var result Value
	if args, ok := s.Get(VarArgs).AsList(); ok {
		result, err = c.run(stdio, args, true)
	} else {
		result, err = c.run(stdio, nil, false)
	}

	if err != nil {
		s.record(logger.EventStatementError, map[string]interface{}{
			"source": source,
			"error":  err.Error(),
		})
	}
	return result, err
}

// reportPipeException surfaces an error raised by a stage whose output fed
// another stage.
func (s *Session) reportPipeException(stdio vos.VIO, err error) {
	fmt.Fprintf(stdio.Stderr(), "pipe: %v\n", err)
	s.Put(VarPipeException, Object(err))
	s.record(logger.EventPipeException, map[string]interface{}{
		"error": err.Error(),
	})
}

func (s *Session) record(eventType string, fields map[string]interface{}) {
	// Logging failures must never change script behavior.
	_ = s.log.Record(eventType, fields)
}
