package core

import (
	"bytes"
	"fmt"
	"strings"
	"text/tabwriter"
)

// Level selects how much detail Format renders.
type Level int

const (
	// Inspect renders a value for humans, collections span multiple lines.
	Inspect Level = iota
	// Line renders a value on a single line.
	Line
	// Part renders a value so it can be embedded in other output.
	Part
)

// Formatter can be implemented by objects to control how they're shown.
type Formatter interface {
	Format(level Level) string
}

// Format renders a value at the given level.
//
// Lists render one element per line and maps render an aligned key/value
// table when inspected. At the Part level lists and maps render as
// aggregate literals, e.g. [a, b] and [k=v].
func Format(v Value, level Level) string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindText:
		return v.s
	case KindList:
		return formatList(v.list, level)
	case KindMap:
		return formatMap(v.m, level)
	case KindClosure:
		return "{" + v.closure.Source() + "}"
	case KindCommand:
		if f, ok := v.cmd.(Formatter); ok {
			return f.Format(level)
		}
		if s, ok := v.cmd.(fmt.Stringer); ok {
			return s.String()
		}
		return fmt.Sprintf("%T", v.cmd)
	case KindObject:
		if f, ok := v.obj.(Formatter); ok {
			return f.Format(level)
		}
		return fmt.Sprint(v.obj)
	}
	return ""
}

func formatList(list []Value, level Level) string {
	parts := make([]string, len(list))
	switch level {
	case Inspect:
		for i, elem := range list {
			parts[i] = Format(elem, Line)
		}
		return strings.Join(parts, "\n")
	case Line:
		for i, elem := range list {
			parts[i] = Format(elem, Part)
		}
		return strings.Join(parts, ", ")
	default:
		return "[" + formatList(list, Line) + "]"
	}
}

func formatMap(m map[string]Value, level Level) string {
	keys := sortedKeys(m)
	switch level {
	case Inspect:
		buf := &bytes.Buffer{}
		tw := tabwriter.NewWriter(buf, 0, 8, 2, ' ', 0)
		for _, k := range keys {
			fmt.Fprintf(tw, "%s\t%s\n", k, Format(m[k], Line))
		}
		tw.Flush()
		return strings.TrimSuffix(buf.String(), "\n")
	case Line:
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + "=" + Format(m[k], Part)
		}
		return strings.Join(parts, ", ")
	default:
		if len(m) == 0 {
			return "[=]"
		}
		return "[" + formatMap(m, Line) + "]"
	}
}
