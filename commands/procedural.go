package commands

import (
	"sort"
	"strings"

	"github.com/josephlewis42/gogosh/core"
	"github.com/pkg/errors"
)

var (
	// ErrBreak stops the innermost loop.
	ErrBreak = errors.New("break outside of a loop")
	// ErrContinue skips to the next iteration of the innermost loop.
	ErrContinue = errors.New("continue outside of a loop")
)

// VarException holds the error caught by the last try.
const VarException = "exception"

// isTrue decides whether a condition passed.
func isTrue(v core.Value) bool {
	switch v.Kind() {
	case core.KindNull:
		return false
	case core.KindBool:
		b, _ := v.AsBool()
		return b
	case core.KindText:
		s, _ := v.AsText()
		return s != "" && s != "false"
	case core.KindList:
		list, _ := v.AsList()
		return len(list) > 0
	case core.KindMap:
		m, _ := v.AsMap()
		return len(m) > 0
	default:
		return true
	}
}

func isWord(v core.Value, word string) bool {
	s, ok := v.AsText()
	return ok && s == word
}

func isCallable(v core.Value) bool {
	_, ok := v.AsCommand()
	return ok
}

// elements returns the values a loop iterates over.
func elements(v core.Value) []core.Value {
	switch v.Kind() {
	case core.KindList:
		list, _ := v.AsList()
		return list
	case core.KindMap:
		m, _ := v.AsMap()
		var keys []string
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make([]core.Value, len(keys))
		for i, k := range keys {
			out[i] = core.Text(k)
		}
		return out
	case core.KindNull:
		return nil
	default:
		return []core.Value{v}
	}
}

// loopControl reports whether err ends a loop and whether the error should
// be swallowed.
func loopControl(err error) (stop bool, swallow bool) {
	switch {
	case err == nil:
		return false, true
	case errors.Is(err, ErrBreak):
		return true, true
	case errors.Is(err, ErrContinue):
		return false, true
	default:
		return true, false
	}
}

// Each calls a closure once per element with the element as $it.
func Each(p *core.Process, args []core.Value) (core.Value, error) {
	const usage = "usage: each [-r] ELEMENTS [do] { CLOSURE }"

	collect := false
	if len(args) > 0 && isWord(args[0], "-r") {
		collect = true
		args = args[1:]
	}
	if len(args) == 3 && isWord(args[1], "do") {
		args = []core.Value{args[0], args[2]}
	}
	if len(args) != 2 || !isCallable(args[1]) {
		return core.Null, errors.New(usage)
	}

	items := elements(args[0])
	var results []core.Value
	for _, item := range items {
		result, err := p.Call(args[1], item)
		if stop, swallow := loopControl(err); !swallow {
			return core.Null, err
		} else if stop {
			break
		}
		if err == nil {
			results = append(results, result)
		}
	}

	if collect {
		return core.List(results...), nil
	}
	return core.Null, nil
}

// If runs the action of the first condition that's true.
//
//	if {cond} [then] {action} [elif {cond} [then] {action}]... [else] {action}
func If(p *core.Process, args []core.Value) (core.Value, error) {
	const usage = "usage: if {condition} [then] {action} [elif {condition} [then] {action}]... [else] {action}"

	var conditions, actions []core.Value
	var otherwise core.Value

	i := 0
	next := func() (core.Value, bool) {
		if i >= len(args) {
			return core.Null, false
		}
		i++
		return args[i-1], true
	}

	for {
		cond, ok := next()
		if !ok || !isCallable(cond) {
			return core.Null, errors.New(usage)
		}
		action, ok := next()
		if ok && isWord(action, "then") {
			action, ok = next()
		}
		if !ok || !isCallable(action) {
			return core.Null, errors.New(usage)
		}
		conditions = append(conditions, cond)
		actions = append(actions, action)

		word, ok := next()
		if !ok {
			break
		}
		if isWord(word, "elif") {
			continue
		}
		if isWord(word, "else") {
			word, ok = next()
		}
		if !ok || !isCallable(word) || i != len(args) {
			return core.Null, errors.New(usage)
		}
		otherwise = word
		break
	}

	for idx, cond := range conditions {
		result, err := p.Call(cond)
		if err != nil {
			return core.Null, err
		}
		if isTrue(result) {
			return p.Call(actions[idx])
		}
	}

	if !otherwise.IsNull() {
		return p.Call(otherwise)
	}
	return core.Null, nil
}

// Not negates a condition.
func Not(p *core.Process, args []core.Value) (core.Value, error) {
	if len(args) != 1 || !isCallable(args[0]) {
		return core.Null, errors.New("usage: not { condition }")
	}

	result, err := p.Call(args[0])
	if err != nil {
		return core.Null, err
	}
	return core.Bool(!isTrue(result)), nil
}

func loop(p *core.Process, name string, args []core.Value, until bool) (core.Value, error) {
	if len(args) == 3 && isWord(args[1], "do") {
		args = []core.Value{args[0], args[2]}
	}
	if len(args) != 2 || !isCallable(args[0]) || !isCallable(args[1]) {
		return core.Null, errors.Errorf("usage: %s {condition} [do] {body}", name)
	}

	for {
		result, err := p.Call(args[0])
		if err != nil {
			return core.Null, err
		}
		if isTrue(result) == until {
			return core.Null, nil
		}

		_, err = p.Call(args[1])
		if stop, swallow := loopControl(err); !swallow {
			return core.Null, err
		} else if stop {
			return core.Null, nil
		}
	}
}

// While runs the body as long as the condition is true.
func While(p *core.Process, args []core.Value) (core.Value, error) {
	return loop(p, "while", args, false)
}

// Until runs the body until the condition is true.
func Until(p *core.Process, args []core.Value) (core.Value, error) {
	return loop(p, "until", args, true)
}

// Break ends the innermost loop.
func Break(p *core.Process, args []core.Value) (core.Value, error) {
	return core.Null, ErrBreak
}

// Continue moves to the next iteration of the innermost loop.
func Continue(p *core.Process, args []core.Value) (core.Value, error) {
	return core.Null, ErrContinue
}

// Throw raises an error, either one held in a value or a new one built from
// the arguments. With no arguments the last caught exception is raised
// again.
func Throw(p *core.Process, args []core.Value) (core.Value, error) {
	if len(args) == 0 {
		args = []core.Value{p.Get(VarException)}
	}

	if len(args) == 1 {
		if obj, ok := args[0].AsObject(); ok {
			if err, ok := obj.(error); ok {
				return core.Null, err
			}
		}
		if args[0].IsNull() {
			return core.Null, errors.New("throw: no exception to raise")
		}
	}
	return core.Null, errors.New(strings.Join(TextArgs(args), " "))
}

// Try runs a closure and hands any error to the catch closure with its
// message as $it, the finally closure always runs.
//
//	try {body} [catch {handler}] [finally {cleanup}]
func Try(p *core.Process, args []core.Value) (core.Value, error) {
	const usage = "usage: try {body} [catch {handler}] [finally {cleanup}]"
	if len(args) == 0 || !isCallable(args[0]) {
		return core.Null, errors.New(usage)
	}

	var handler, cleanup core.Value
	rest := args[1:]
	for len(rest) > 0 {
		if len(rest) < 2 || !isCallable(rest[1]) {
			return core.Null, errors.New(usage)
		}
		switch {
		case isWord(rest[0], "catch") && handler.IsNull():
			handler = rest[1]
		case isWord(rest[0], "finally") && cleanup.IsNull():
			cleanup = rest[1]
		default:
			return core.Null, errors.New(usage)
		}
		rest = rest[2:]
	}

	result, err := p.Call(args[0])
	if err != nil && !handler.IsNull() {
		p.Put(VarException, core.Object(err))
		result, err = p.Call(handler, core.Text(err.Error()))
	}

	if !cleanup.IsNull() {
		if _, cleanupErr := p.Call(cleanup); cleanupErr != nil && err == nil {
			return core.Null, cleanupErr
		}
	}
	return result, err
}

func init() {
	addBuiltin("each", "Call a closure for each element of a list.", Each)
	addBuiltin("if", "Run the action of the first true condition.", If)
	addBuiltin("not", "Negate a condition.", Not)
	addBuiltin("while", "Run a closure while a condition is true.", While)
	addBuiltin("until", "Run a closure until a condition is true.", Until)
	addBuiltin("break", "Leave the innermost loop.", Break)
	addBuiltin("continue", "Skip to the next iteration of the innermost loop.", Continue)
	addBuiltin("throw", "Raise an error.", Throw)
	addBuiltin("try", "Run a closure and catch its errors.", Try)
}
