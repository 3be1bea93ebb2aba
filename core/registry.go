package core

import (
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// Command is anything that can be invoked from a statement.
type Command interface {
	Execute(p *Process, args []Value) (Value, error)
}

// CommandFunc adapts a function to a Command.
type CommandFunc func(p *Process, args []Value) (Value, error)

var _ Command = (CommandFunc)(nil)

// Execute implements Command.
func (f CommandFunc) Execute(p *Process, args []Value) (Value, error) {
	return f(p, args)
}

// ScopedName joins a scope and a command name.
func ScopedName(scope, name string) string {
	if scope == "" {
		return name
	}
	return scope + ":" + name
}

// Registry maps scoped names like "gogo:echo" to commands.
type Registry struct {
	rw       sync.RWMutex
	commands map[string]Command
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]Command)}
}

// Add registers a command, replacing any with the same scoped name.
func (r *Registry) Add(scope, name string, cmd Command) {
	r.rw.Lock()
	defer r.rw.Unlock()

	if r.commands == nil {
		r.commands = make(map[string]Command)
	}
	r.commands[ScopedName(scope, name)] = cmd
}

// Remove unregisters a command.
func (r *Registry) Remove(scope, name string) {
	r.rw.Lock()
	defer r.rw.Unlock()

	delete(r.commands, ScopedName(scope, name))
}

// Lookup finds a command by its exact scoped name. The wildcard scope
// "*:name" matches the first scope, alphabetically, that has the command.
func (r *Registry) Lookup(name string) (Command, string) {
	r.rw.RLock()
	defer r.rw.RUnlock()

	if cmd, ok := r.commands[name]; ok {
		return cmd, name
	}

	if !strings.HasPrefix(name, "*:") {
		return nil, ""
	}

	suffix := name[1:]
	var matches []string
	for k := range r.commands {
		if strings.HasSuffix(k, suffix) {
			matches = append(matches, k)
		}
	}
	if len(matches) == 0 {
		return nil, ""
	}
	sort.Strings(matches)
	return r.commands[matches[0]], matches[0]
}

// Names lists every registered scoped name in sorted order.
func (r *Registry) Names() []string {
	r.rw.RLock()
	defer r.rw.RUnlock()

	names := make([]string, 0, len(r.commands))
	for k := range r.commands {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// AddObject registers methods of target as commands in scope. If no names
// are given every exported method is added under its lowercased name.
func (r *Registry) AddObject(scope string, target interface{}, names ...string) error {
	if target == nil {
		return errors.New("can't add methods of nil")
	}

	typ := reflect.TypeOf(target)
	if len(names) == 0 {
		for i := 0; i < typ.NumMethod(); i++ {
			names = append(names, strings.ToLower(typ.Method(i).Name))
		}
	}

	for _, name := range names {
		if len(findMethods(typ, name)) == 0 {
			return errors.Errorf("%T has no method matching %q", target, name)
		}
		r.Add(scope, name, &methodCommand{target: target, name: name})
	}
	return nil
}

// methodCommand invokes a method of a Go value.
type methodCommand struct {
	target interface{}
	name   string
}

var _ Command = (*methodCommand)(nil)

func (m *methodCommand) Execute(p *Process, args []Value) (Value, error) {
	return callMethod(p, m.target, m.name, args)
}

func (m *methodCommand) String() string {
	return reflect.TypeOf(m.target).String() + "." + m.name
}
