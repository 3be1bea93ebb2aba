package commands

import (
	"fmt"
	"strings"

	"github.com/josephlewis42/gogosh/core"
)

var simpleEscapes = map[byte]byte{
	'a':  '\a',
	'b':  '\b',
	'e':  0x1b,
	'f':  '\f',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'v':  '\v',
	'\\': '\\',
}

// readDigits parses up to limit digits of the given base from the start of s.
func readDigits(s string, base, limit int) (value int, n int) {
	for n < len(s) && n < limit {
		d := strings.IndexByte("0123456789abcdef"[:base], lower(s[n]))
		if d < 0 {
			break
		}
		value = value*base + d
		n++
	}
	return value, n
}

func lower(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}

// unescape interprets the backslash escapes of echo -e, \c drops the rest
// of the text.
func unescape(s string) string {
	var out strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			out.WriteByte(s[i])
			continue
		}

		i++
		c := s[i]
		if r, ok := simpleEscapes[c]; ok {
			out.WriteByte(r)
			continue
		}

		switch c {
		case 'c':
			return out.String()
		case '0':
			v, n := readDigits(s[i+1:], 8, 3)
			out.WriteRune(rune(v))
			i += n
		case 'x':
			v, n := readDigits(s[i+1:], 16, 2)
			if n == 0 {
				out.WriteString(`\x`)
				continue
			}
			out.WriteRune(rune(v))
			i += n
		default:
			out.WriteByte('\\')
			out.WriteByte(c)
		}
	}
	return out.String()
}

// Echo joins its arguments with spaces and returns the text, the caller
// decides whether it gets printed.
func Echo(p *core.Process, args []core.Value) (core.Value, error) {
	cmd := &SimpleCommand{
		Use:   "echo [-e] [ARG] ...",
		Short: "Return the arguments as a line of text.",
	}

	opt := cmd.Flags()
	escaped := opt.Bool('e', "interpret backslash escapes")

	return cmd.Run(p, args, func() (core.Value, error) {
		line := strings.Join(opt.Args(), " ")
		if *escaped {
			line = unescape(line)
		}
		return core.Text(line), nil
	})
}

// Print writes each argument on its own line.
func Print(p *core.Process, args []core.Value) (core.Value, error) {
	for _, arg := range args {
		fmt.Fprintln(p.Stdout(), p.Format(arg, core.Line))
	}
	return core.Null, nil
}

func init() {
	addBuiltin("echo", "Return the arguments as a line of text.", Echo)
	addBuiltin("print", "Write each argument to stdout on its own line.", Print)
}
