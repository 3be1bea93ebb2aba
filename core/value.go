package core

import (
	"reflect"
	"sort"
)

// Kind discriminates the variants of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindText
	KindList
	KindMap
	KindClosure
	KindCommand
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindText:
		return "text"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	case KindClosure:
		return "closure"
	case KindCommand:
		return "command"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a dynamically typed shell value. The zero Value is null.
//
// Numbers are kept as text, commands decide how to interpret them.
type Value struct {
	kind    Kind
	b       bool
	s       string
	list    []Value
	m       map[string]Value
	closure *Closure
	cmd     Command
	obj     interface{}
}

// Null is the null Value.
var Null = Value{}

// Bool creates a boolean Value.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Text creates a textual Value.
func Text(s string) Value {
	return Value{kind: KindText, s: s}
}

// List creates an ordered list Value, a nil list is an empty list.
func List(values ...Value) Value {
	if values == nil {
		values = []Value{}
	}
	return Value{kind: KindList, list: values}
}

// Map creates a mapping Value, keys are always text.
func Map(m map[string]Value) Value {
	if m == nil {
		m = make(map[string]Value)
	}
	return Value{kind: KindMap, m: m}
}

// ClosureValue wraps an unexecuted closure.
func ClosureValue(c *Closure) Value {
	if c == nil {
		return Null
	}
	return Value{kind: KindClosure, closure: c}
}

// CommandValue wraps an invocable command.
func CommandValue(c Command) Value {
	if c == nil {
		return Null
	}
	if closure, ok := c.(*Closure); ok {
		return ClosureValue(closure)
	}
	return Value{kind: KindCommand, cmd: c}
}

// Object wraps an arbitrary Go value. Values that already have a natural
// shell representation are converted, see FromGo.
func Object(obj interface{}) Value {
	if obj == nil {
		return Null
	}
	return Value{kind: KindObject, obj: obj}
}

// Kind returns the discriminant of the value.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull returns true for the null value.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// AsBool returns the boolean and whether the value is a boolean.
func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// AsText returns the text and whether the value is text.
func (v Value) AsText() (string, bool) {
	return v.s, v.kind == KindText
}

// AsList returns the elements and whether the value is a list.
func (v Value) AsList() ([]Value, bool) {
	return v.list, v.kind == KindList
}

// AsMap returns the mapping and whether the value is a map.
func (v Value) AsMap() (map[string]Value, bool) {
	return v.m, v.kind == KindMap
}

// AsClosure returns the closure and whether the value is a closure.
func (v Value) AsClosure() (*Closure, bool) {
	return v.closure, v.kind == KindClosure
}

// AsCommand returns the invocable behind closures and commands.
func (v Value) AsCommand() (Command, bool) {
	switch v.kind {
	case KindClosure:
		return v.closure, true
	case KindCommand:
		return v.cmd, true
	default:
		return nil, false
	}
}

// AsObject returns the wrapped Go value and whether the value is an object.
func (v Value) AsObject() (interface{}, bool) {
	return v.obj, v.kind == KindObject
}

// Truthy is true for the boolean true and the text "true".
func (v Value) Truthy() bool {
	switch v.kind {
	case KindBool:
		return v.b
	case KindText:
		return v.s == "true"
	default:
		return false
	}
}

// Equal compares values structurally, closures, commands and objects compare
// by identity.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}

	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == other.b
	case KindText:
		return v.s == other.s
	case KindList:
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(other.list[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(v.m) != len(other.m) {
			return false
		}
		for k, val := range v.m {
			otherVal, ok := other.m[k]
			if !ok || !val.Equal(otherVal) {
				return false
			}
		}
		return true
	case KindClosure:
		return v.closure == other.closure
	case KindCommand:
		return sameIdentity(v.cmd, other.cmd)
	case KindObject:
		return reflect.DeepEqual(v.obj, other.obj)
	}
	return false
}

// sameIdentity compares interface values without panicking on types that
// aren't comparable, functions compare by code pointer.
func sameIdentity(a, b interface{}) bool {
	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if ra.Type() != rb.Type() {
		return false
	}
	switch ra.Kind() {
	case reflect.Func, reflect.Ptr, reflect.Map, reflect.Slice, reflect.Chan:
		return ra.Pointer() == rb.Pointer()
	}
	if ra.Type().Comparable() {
		return a == b
	}
	return false
}

// String formats the value compactly.
func (v Value) String() string {
	return Format(v, Part)
}

// sortedKeys returns the keys of a map value in a stable order.
func sortedKeys(m map[string]Value) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
