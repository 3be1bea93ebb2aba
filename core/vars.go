package core

import (
	"sort"
	"strings"
	"sync"
)

// VarStore holds session variables, implementations must be safe to use
// from concurrently running pipeline stages.
type VarStore interface {
	// Get returns the variable and whether it was set.
	Get(name string) (Value, bool)
	// Put sets a variable and returns its previous value.
	Put(name string, value Value) Value
	// Remove deletes a variable and returns its previous value.
	Remove(name string) Value
	// Names lists the variables in sorted order.
	Names() []string
}

// NewMapVars creates a new variable store backed by a map.
func NewMapVars() *MapVars {
	return &MapVars{}
}

// NewMapVarsFromEnvList creates a variable store with text variables from
// KEY=value pairs like os.Environ returns.
func NewMapVarsFromEnvList(environ []string) *MapVars {
	out := &MapVars{}

	for _, e := range environ {
		split := strings.SplitN(e, "=", 2)
		key, value := split[0], ""
		if len(split) > 1 {
			value = split[1]
		}
		out.Put(key, Text(value))
	}

	return out
}

// MapVars implements an in-memory VarStore.
type MapVars struct {
	rw   sync.RWMutex
	vars map[string]Value
}

var _ VarStore = (*MapVars)(nil)

// Get implements VarStore.Get.
func (m *MapVars) Get(name string) (Value, bool) {
	m.rw.RLock()
	defer m.rw.RUnlock()

	val, ok := m.vars[name]
	return val, ok
}

// Put implements VarStore.Put.
func (m *MapVars) Put(name string, value Value) Value {
	m.rw.Lock()
	defer m.rw.Unlock()

	if m.vars == nil {
		m.vars = make(map[string]Value)
	}
	old := m.vars[name]
	m.vars[name] = value
	return old
}

// Remove implements VarStore.Remove.
func (m *MapVars) Remove(name string) Value {
	m.rw.Lock()
	defer m.rw.Unlock()

	old := m.vars[name]
	delete(m.vars, name)
	return old
}

// Names implements VarStore.Names.
func (m *MapVars) Names() []string {
	m.rw.RLock()
	defer m.rw.RUnlock()

	names := make([]string, 0, len(m.vars))
	for k := range m.vars {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
