package core

import (
	"fmt"
	"strings"

	"github.com/josephlewis42/gogosh/core/logger"
	"github.com/josephlewis42/gogosh/core/shell"
	"github.com/josephlewis42/gogosh/core/vos"
	"github.com/pkg/errors"
)

// Closure is a parsed block of source bound to a session. Closures are
// immutable once created so the same closure can run in several stages at
// once.
type Closure struct {
	session *Session
	parent  *Closure
	source  string
	program shell.Program

	// Positional arguments of the invocation a closure literal was
	// evaluated in, used when it's executed with nil arguments.
	inheritedArgs  []Value
	inheritedBound bool
}

var _ Command = (*Closure)(nil)

// NewClosure parses source into a closure.
func NewClosure(session *Session, parent *Closure, source string) (*Closure, error) {
	program, err := shell.Parse(source)
	if err != nil {
		return nil, err
	}

	return &Closure{
		session: session,
		parent:  parent,
		source:  source,
		program: program,
	}, nil
}

// Source returns the text the closure was parsed from.
func (c *Closure) Source() string {
	return c.source
}

// Parent returns the closure this one was defined in, nil at top level.
func (c *Closure) Parent() *Closure {
	return c.parent
}

// Session returns the session the closure belongs to.
func (c *Closure) Session() *Session {
	return c.session
}

// Execute runs the closure with positional arguments using the caller's
// streams. Nil args reuse the arguments of the invocation the closure was
// defined in, an empty slice binds no arguments.
func (c *Closure) Execute(p *Process, args []Value) (Value, error) {
	if args == nil {
		return c.run(p.VIO, c.inheritedArgs, c.inheritedBound)
	}
	return c.run(p.VIO, args, true)
}

func (c *Closure) String() string {
	return "{" + c.source + "}"
}

func (c *Closure) run(stdio vos.VIO, args []Value, bound bool) (Value, error) {
	inv := &invocation{
		closure: c,
		session: c.session,
		args:    args,
		bound:   bound,
	}
	return inv.runProgram(stdio)
}

// invocation is a single run of a closure. Positional arguments live here
// rather than on the closure.
type invocation struct {
	closure *Closure
	session *Session
	args    []Value
	// bound is false for top level runs that didn't get arguments, there
	// $it, $args and $N fall through to session variables.
	bound bool
}

func (inv *invocation) process(stdio vos.VIO, name string) *Process {
	return NewProcess(inv.session, stdio, name)
}

// executeStatement evaluates every token of a statement and dispatches it.
func (inv *invocation) executeStatement(stdio vos.VIO, st shell.Statement) (Value, error) {
	if len(st) == 0 {
		return Null, nil
	}

	if inv.session.Get(VarEcho).Truthy() {
		fmt.Fprintf(stdio.Stderr(), "+ %s\n", st)
	}

	values := make([]Value, 0, len(st))
	for _, tok := range st {
		v, err := inv.eval(stdio, tok)
		if err != nil {
			return Null, err
		}
		values = append(values, v)
	}

	return inv.dispatch(stdio, values[0], values[1:])
}

// dispatch runs a command given as a value.
func (inv *invocation) dispatch(stdio vos.VIO, cmd Value, args []Value) (Value, error) {
	switch cmd.Kind() {
	case KindNull:
		if len(args) == 0 {
			return Null, nil
		}
		return Null, ErrNullCommand

	case KindText:
		if len(args) > 0 && isAssignment(args[0]) {
			return inv.assign(stdio, cmd.s, args[1:])
		}
		return inv.invoke(stdio, cmd.s, args)

	default:
		if len(args) == 0 {
			return cmd, nil
		}
		return callMember(inv.process(stdio, ""), cmd, args[0], args[1:])
	}
}

func isAssignment(v Value) bool {
	s, ok := v.AsText()
	return ok && s == "="
}

// assign handles "name = cmd args..." and "name =".
func (inv *invocation) assign(stdio vos.VIO, name string, rest []Value) (Value, error) {
	if len(rest) == 0 {
		return inv.session.Remove(name), nil
	}

	value, err := inv.dispatch(stdio, rest[0], rest[1:])
	if err != nil {
		return Null, err
	}
	inv.session.Put(name, value)
	return value, nil
}

// invoke resolves a command by name and runs it. A name that can't be
// resolved and has no arguments evaluates to itself.
func (inv *invocation) invoke(stdio vos.VIO, name string, args []Value) (Value, error) {
	cmd, resolved := inv.session.Command(name)
	if cmd == nil {
		if len(args) == 0 {
			return Text(name), nil
		}

		if result, handled, err := inv.invokeDefault(stdio, name, args); handled {
			return result, err
		}

		inv.session.record(logger.EventCommandNotFound, map[string]interface{}{
			"name": name,
			"argc": len(args),
		})
		return Null, &CommandNotFoundError{Name: name}
	}

	inv.session.record(logger.EventCommand, map[string]interface{}{
		"name": resolved,
		"argc": len(args),
	})
	return cmd.Execute(inv.process(stdio, resolved), args)
}

// invokeDefault passes an unknown command to the "default" command if one
// exists and isn't already running.
func (inv *invocation) invokeDefault(stdio vos.VIO, name string, args []Value) (Value, bool, error) {
	if _, locked := inv.session.vars.Get(defaultLock); locked {
		return Null, false, nil
	}

	handler, resolved := inv.session.Command(DefaultCommand)
	if handler == nil {
		return Null, false, nil
	}

	inv.session.Put(defaultLock, Bool(true))
	defer inv.session.Remove(defaultLock)

	fullArgs := append([]Value{Text(name)}, args...)
	result, err := handler.Execute(inv.process(stdio, resolved), fullArgs)
	return result, true, err
}

// eval turns a single token into a value.
func (inv *invocation) eval(stdio vos.VIO, tok shell.Token) (Value, error) {
	switch tok.Type {
	case shell.Variable:
		return inv.evalVariable(stdio, tok)

	case shell.Execution:
		child, err := NewClosure(inv.session, inv.closure, tok.Inner())
		if err != nil {
			return Null, errors.Wrapf(err, "%d.%d", tok.Line, tok.Column)
		}
		return child.run(stdio, inv.args, inv.bound)

	case shell.Array:
		return inv.evalArray(stdio, tok)

	case shell.Closure:
		child, err := NewClosure(inv.session, inv.closure, tok.Inner())
		if err != nil {
			return Null, errors.Wrapf(err, "%d.%d", tok.Line, tok.Column)
		}
		child.inheritedArgs = inv.args
		child.inheritedBound = inv.bound
		return ClosureValue(child), nil

	default:
		text, err := shell.Unescape(tok.Text)
		if err != nil {
			return Null, errors.Wrapf(err, "%d.%d", tok.Line, tok.Column)
		}
		switch strings.ToLower(text) {
		case "null":
			return Null, nil
		case "true":
			return Bool(true), nil
		case "false":
			return Bool(false), nil
		}
		return Text(text), nil
	}
}

// evalVariable evaluates the name after "$" then looks it up, so $$x reads
// the variable named by x.
func (inv *invocation) evalVariable(stdio vos.VIO, tok shell.Token) (Value, error) {
	inner := tok.Inner()
	if inner == "" {
		return Text(tok.Text), nil
	}

	nameTok, err := shell.ParseToken(inner)
	if err != nil {
		return Null, errors.Wrapf(err, "%d.%d", tok.Line, tok.Column)
	}

	nameVal, err := inv.eval(stdio, nameTok)
	if err != nil {
		return Null, err
	}

	return inv.get(Format(nameVal, Part)), nil
}

// get reads a variable, positional names shadow session variables while the
// invocation has arguments.
func (inv *invocation) get(name string) Value {
	if inv.bound {
		switch {
		case name == "it":
			return inv.arg(0)
		case name == "args":
			return List(append([]Value(nil), inv.args...)...)
		case len(name) == 1 && name[0] >= '0' && name[0] <= '9':
			return inv.arg(int(name[0] - '0'))
		}
	}

	return inv.session.Get(name)
}

func (inv *invocation) arg(i int) Value {
	if i < len(inv.args) {
		return inv.args[i]
	}
	return Null
}

// evalArray builds a list or map from an aggregate literal.
func (inv *invocation) evalArray(stdio vos.VIO, tok shell.Token) (Value, error) {
	entries, isMap, err := shell.ParseArray(tok.Inner())
	if err != nil {
		return Null, errors.Wrapf(err, "%d.%d", tok.Line, tok.Column)
	}

	if !isMap {
		list := make([]Value, 0, len(entries))
		for _, entry := range entries {
			v, err := inv.eval(stdio, entry.Value)
			if err != nil {
				return Null, err
			}
			list = append(list, v)
		}
		return List(list...), nil
	}

	m := make(map[string]Value, len(entries))
	for _, entry := range entries {
		k, err := inv.eval(stdio, *entry.Key)
		if err != nil {
			return Null, err
		}
		key, ok := k.AsText()
		if !ok {
			return Null, errors.Errorf("%d.%d: map key must be text, got %s", tok.Line, tok.Column, k.Kind())
		}

		v, err := inv.eval(stdio, entry.Value)
		if err != nil {
			return Null, err
		}
		m[key] = v
	}
	return Map(m), nil
}
