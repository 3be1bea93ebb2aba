package core

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var (
	valueType     = reflect.TypeOf(Value{})
	valueListType = reflect.TypeOf([]Value(nil))
	processType   = reflect.TypeOf(&Process{})
	errorType     = reflect.TypeOf((*error)(nil)).Elem()
)

// FromGo converts a Go value into a Value. Strings, booleans and numbers
// become text, slices become lists, and maps with string keys become maps.
// Anything else is wrapped as an object.
func FromGo(x interface{}) Value {
	switch t := x.(type) {
	case nil:
		return Null
	case Value:
		return t
	case []Value:
		return List(t...)
	case map[string]Value:
		return Map(t)
	case string:
		return Text(t)
	case []byte:
		return Text(string(t))
	case bool:
		return Bool(t)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return Text(fmt.Sprint(t))
	case float32:
		return Text(strconv.FormatFloat(float64(t), 'g', -1, 32))
	case float64:
		return Text(strconv.FormatFloat(t, 'g', -1, 64))
	case *Closure:
		return ClosureValue(t)
	case Command:
		return CommandValue(t)
	}

	rv := reflect.ValueOf(x)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return List()
		}
		out := make([]Value, rv.Len())
		for i := range out {
			out[i] = FromGo(rv.Index(i).Interface())
		}
		return List(out...)

	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		out := make(map[string]Value, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = FromGo(iter.Value().Interface())
		}
		return Map(out)

	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return Null
		}
	}

	return Object(x)
}

// ToGo returns the natural Go representation of a value.
func ToGo(v Value) interface{} {
	switch v.kind {
	case KindBool:
		return v.b
	case KindText:
		return v.s
	case KindList:
		out := make([]interface{}, len(v.list))
		for i, elem := range v.list {
			out[i] = ToGo(elem)
		}
		return out
	case KindMap:
		out := make(map[string]interface{}, len(v.m))
		for k, elem := range v.m {
			out[k] = ToGo(elem)
		}
		return out
	case KindClosure:
		return v.closure
	case KindCommand:
		return v.cmd
	case KindObject:
		return v.obj
	default:
		return nil
	}
}

// coerce converts a value to the Go type t.
func coerce(v Value, t reflect.Type) (reflect.Value, error) {
	switch t {
	case valueType:
		return reflect.ValueOf(v), nil
	case valueListType:
		if list, ok := v.AsList(); ok {
			return reflect.ValueOf(list), nil
		}
		return reflect.ValueOf([]Value{v}), nil
	}

	if obj, ok := v.AsObject(); ok {
		if ov := reflect.ValueOf(obj); ov.Type().AssignableTo(t) {
			return ov, nil
		}
	}

	if t.Kind() == reflect.Interface {
		g := ToGo(v)
		if g == nil {
			return reflect.Zero(t), nil
		}
		if gv := reflect.ValueOf(g); gv.Type().AssignableTo(t) {
			return gv, nil
		}
		return reflect.Value{}, errors.Errorf("%s doesn't implement %s", v.Kind(), t)
	}

	switch t.Kind() {
	case reflect.String:
		return reflect.ValueOf(Format(v, Part)).Convert(t), nil

	case reflect.Bool:
		if b, ok := v.AsBool(); ok {
			return reflect.ValueOf(b).Convert(t), nil
		}
		if s, ok := v.AsText(); ok {
			b, err := strconv.ParseBool(s)
			if err != nil {
				return reflect.Value{}, err
			}
			return reflect.ValueOf(b).Convert(t), nil
		}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if s, ok := v.AsText(); ok {
			n, err := strconv.ParseInt(s, 0, t.Bits())
			if err != nil {
				return reflect.Value{}, err
			}
			return reflect.ValueOf(n).Convert(t), nil
		}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if s, ok := v.AsText(); ok {
			n, err := strconv.ParseUint(s, 0, t.Bits())
			if err != nil {
				return reflect.Value{}, err
			}
			return reflect.ValueOf(n).Convert(t), nil
		}

	case reflect.Float32, reflect.Float64:
		if s, ok := v.AsText(); ok {
			n, err := strconv.ParseFloat(s, t.Bits())
			if err != nil {
				return reflect.Value{}, err
			}
			return reflect.ValueOf(n).Convert(t), nil
		}

	case reflect.Slice:
		elems, ok := v.AsList()
		if !ok {
			elems = []Value{v}
		}
		out := reflect.MakeSlice(t, 0, len(elems))
		for _, elem := range elems {
			ev, err := coerce(elem, t.Elem())
			if err != nil {
				return reflect.Value{}, err
			}
			out = reflect.Append(out, ev)
		}
		return out, nil

	case reflect.Ptr, reflect.Map, reflect.Func:
		if v.IsNull() {
			return reflect.Zero(t), nil
		}
	}

	return reflect.Value{}, errors.Errorf("can't use %s as %s", v.Kind(), t)
}

// coerceArgs converts args to the parameters of a method, skipping the
// first offset parameters.
func coerceArgs(mt reflect.Type, offset int, args []Value) ([]reflect.Value, error) {
	params := mt.NumIn() - offset

	if !mt.IsVariadic() {
		if len(args) != params {
			return nil, errors.Errorf("want %d arguments, got %d", params, len(args))
		}
		out := make([]reflect.Value, 0, params)
		for i, arg := range args {
			v, err := coerce(arg, mt.In(offset+i))
			if err != nil {
				return nil, errors.Wrapf(err, "argument %d", i)
			}
			out = append(out, v)
		}
		return out, nil
	}

	fixed := params - 1
	if len(args) < fixed {
		return nil, errors.Errorf("want at least %d arguments, got %d", fixed, len(args))
	}
	out := make([]reflect.Value, 0, params)
	for i := 0; i < fixed; i++ {
		v, err := coerce(args[i], mt.In(offset+i))
		if err != nil {
			return nil, errors.Wrapf(err, "argument %d", i)
		}
		out = append(out, v)
	}

	sliceType := mt.In(mt.NumIn() - 1)
	tail := reflect.MakeSlice(sliceType, 0, len(args)-fixed)
	for i := fixed; i < len(args); i++ {
		v, err := coerce(args[i], sliceType.Elem())
		if err != nil {
			return nil, errors.Wrapf(err, "argument %d", i)
		}
		tail = reflect.Append(tail, v)
	}
	return append(out, tail), nil
}

// findMethods returns the indexes of methods matching name, Get<name> or
// Is<name>, ignoring case. Exact matches come first.
func findMethods(typ reflect.Type, name string) []int {
	lname := strings.ToLower(name)
	var exact, prefixed []int
	for i := 0; i < typ.NumMethod(); i++ {
		switch strings.ToLower(typ.Method(i).Name) {
		case lname:
			exact = append(exact, i)
		case "get" + lname, "is" + lname:
			prefixed = append(prefixed, i)
		}
	}
	return append(exact, prefixed...)
}

// callMethod invokes the first method of target matching name that accepts
// args. A leading *Process parameter receives p.
func callMethod(p *Process, target interface{}, name string, args []Value) (Value, error) {
	rv := reflect.ValueOf(target)
	candidates := findMethods(rv.Type(), name)
	if len(candidates) == 0 {
		return Null, &MemberError{Target: rv.Type().String(), Member: name}
	}

	var lastErr error
	for _, idx := range candidates {
		method := rv.Method(idx)
		mt := method.Type()

		var in []reflect.Value
		offset := 0
		if mt.NumIn() > 0 && mt.In(0) == processType {
			in = append(in, reflect.ValueOf(p))
			offset = 1
		}

		coerced, err := coerceArgs(mt, offset, args)
		if err != nil {
			lastErr = err
			continue
		}
		in = append(in, coerced...)

		var out []reflect.Value
		if mt.IsVariadic() {
			out = method.CallSlice(in)
		} else {
			out = method.Call(in)
		}
		return fromResults(out)
	}

	return Null, &MemberError{Target: rv.Type().String(), Member: name, Reason: lastErr.Error()}
}

// fromResults handles the (), (T), (error) and (T, error) result shapes.
func fromResults(out []reflect.Value) (Value, error) {
	if n := len(out); n > 0 && out[n-1].Type() == errorType {
		if err, _ := out[n-1].Interface().(error); err != nil {
			return Null, err
		}
		out = out[:n-1]
	}

	if len(out) == 0 {
		return Null, nil
	}
	return FromGo(out[0].Interface()), nil
}

// callMember implements "value member args..." statements.
func callMember(p *Process, target Value, member Value, args []Value) (Value, error) {
	name := Format(member, Part)

	switch target.Kind() {
	case KindList:
		return listMember(target.list, name, args)
	case KindMap:
		return mapMember(target.m, name, args)
	case KindClosure, KindCommand:
		cmd, _ := target.AsCommand()
		switch strings.ToLower(name) {
		case "call", "execute":
			return cmd.Execute(p, args)
		case "source":
			if c, ok := target.AsClosure(); ok && len(args) == 0 {
				return Text(c.Source()), nil
			}
		}
		if target.Kind() == KindCommand {
			return callMethod(p, cmd, name, args)
		}
	case KindObject:
		return callMethod(p, target.obj, name, args)
	}

	return Null, &MemberError{Target: target.Kind().String(), Member: name}
}

func listMember(list []Value, name string, args []Value) (Value, error) {
	switch strings.ToLower(name) {
	case "size", "length":
		if len(args) == 0 {
			return Text(strconv.Itoa(len(list))), nil
		}
	case "get":
		if len(args) == 1 {
			i, err := strconv.Atoi(Format(args[0], Part))
			if err != nil {
				return Null, &MemberError{Target: "list", Member: name, Reason: err.Error()}
			}
			if i < 0 || i >= len(list) {
				return Null, nil
			}
			return list[i], nil
		}
	case "first":
		if len(args) == 0 {
			if len(list) == 0 {
				return Null, nil
			}
			return list[0], nil
		}
	case "last":
		if len(args) == 0 {
			if len(list) == 0 {
				return Null, nil
			}
			return list[len(list)-1], nil
		}
	case "contains":
		if len(args) == 1 {
			for _, elem := range list {
				if elem.Equal(args[0]) {
					return Bool(true), nil
				}
			}
			return Bool(false), nil
		}
	default:
		return Null, &MemberError{Target: "list", Member: name}
	}
	return Null, &MemberError{Target: "list", Member: name, Reason: fmt.Sprintf("wrong number of arguments: %d", len(args))}
}

func mapMember(m map[string]Value, name string, args []Value) (Value, error) {
	switch strings.ToLower(name) {
	case "size", "length":
		if len(args) == 0 {
			return Text(strconv.Itoa(len(m))), nil
		}
	case "get":
		if len(args) == 1 {
			return m[Format(args[0], Part)], nil
		}
	case "contains":
		if len(args) == 1 {
			_, ok := m[Format(args[0], Part)]
			return Bool(ok), nil
		}
	case "keys":
		if len(args) == 0 {
			keys := sortedKeys(m)
			out := make([]Value, len(keys))
			for i, k := range keys {
				out[i] = Text(k)
			}
			return List(out...), nil
		}
	case "values":
		if len(args) == 0 {
			keys := sortedKeys(m)
			out := make([]Value, len(keys))
			for i, k := range keys {
				out[i] = m[k]
			}
			return List(out...), nil
		}
	default:
		// Unknown names fall back to key lookup so [a=1] a works.
		if len(args) == 0 {
			if v, ok := m[name]; ok {
				return v, nil
			}
		}
		return Null, &MemberError{Target: "map", Member: name}
	}
	return Null, &MemberError{Target: "map", Member: name, Reason: fmt.Sprintf("wrong number of arguments: %d", len(args))}
}
