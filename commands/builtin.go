package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/josephlewis42/gogosh/core"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// Format inspects its argument, or the last console result, writes it to
// stdout and returns the text.
func Format(p *core.Process, args []core.Value) (core.Value, error) {
	target := p.Get(core.VarLastResult)
	if len(args) > 0 {
		target = args[0]
	}

	text := p.Format(target, core.Inspect)
	fmt.Fprintln(p.Stdout(), text)
	return core.Text(text), nil
}

// Set shows session variables or toggles statement tracing.
func Set(p *core.Process, args []core.Value) (core.Value, error) {
	cmd := &SimpleCommand{
		Use:   "set [-ax] [+x] [PREFIX]",
		Short: "Show session variables, if PREFIX is given only show variables starting with it.",
	}

	opts := cmd.Flags()
	all := opts.BoolLong("all", 'a', "show all variables, including those starting with .")
	trace := opts.Bool('x', "set xtrace option")

	return cmd.Run(p, args, func() (core.Value, error) {
		var prefix string
		if rest := opts.Args(); len(rest) > 0 {
			prefix = rest[0]
		}

		switch {
		case *trace:
			p.Put(core.VarEcho, core.Bool(true))
			return core.Null, nil
		case prefix == "+x":
			p.Session().Remove(core.VarEcho)
			return core.Null, nil
		}

		for _, name := range p.Session().VarNames() {
			if !strings.HasPrefix(name, prefix) {
				continue
			}
			if strings.HasPrefix(name, ".") && !*all && prefix == "" {
				continue
			}

			value := p.Get(name)
			text := p.Format(value, core.Line)
			trunc := ""
			if len(text) >= 55 {
				trunc = "..."
			}
			fmt.Fprintf(p.Stdout(), "%-15.15s %-15s %.45s%s\n", value.Kind(), name, text, trunc)
		}
		return core.Null, nil
	})
}

// maxLineLength is the longest line line-oriented builtins accept.
const maxLineLength = 16 << 20

// Tac captures stdin as text or a list of lines, optionally copying it to a
// file.
func Tac(p *core.Process, args []core.Value) (core.Value, error) {
	cmd := &SimpleCommand{
		Use:   "tac [-al] [FILE]",
		Short: "Capture stdin as text or a list and optionally write it to FILE.",
	}

	opts := cmd.Flags()
	appendFile := opts.BoolLong("append", 'a', "append to FILE")
	asList := opts.BoolLong("list", 'l', "return a list of lines")

	return cmd.Run(p, args, func() (core.Value, error) {
		var out io.Writer = io.Discard
		if rest := opts.Args(); len(rest) > 0 {
			flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
			if *appendFile {
				flags = os.O_WRONLY | os.O_CREATE | os.O_APPEND
			}
			fd, err := p.Fs().OpenFile(rest[0], flags, 0644)
			if err != nil {
				return core.Null, err
			}
			defer fd.Close()
			out = fd
		}

		var lines []string
		scanner := bufio.NewScanner(p.Stdin())
		scanner.Buffer(make([]byte, 64*1024), maxLineLength)
		for scanner.Scan() {
			line := scanner.Text()
			lines = append(lines, line)
			if _, err := fmt.Fprintln(out, line); err != nil {
				return core.Null, err
			}
		}
		if err := ignoreClosed(scanner.Err()); err != nil {
			return core.Null, err
		}

		if *asList {
			list := make([]core.Value, len(lines))
			for i, line := range lines {
				list[i] = core.Text(line)
			}
			return core.List(list...), nil
		}
		return core.Text(strings.Join(lines, " ")), nil
	})
}

// Type describes how names resolve to commands.
func Type(p *core.Process, args []core.Value) (core.Value, error) {
	cmd := &SimpleCommand{
		Use:   "type [-aq] [-s SCOPE] [NAME[:]]...",
		Short: "Show what a command name resolves to.",
	}

	opts := cmd.Flags()
	all := opts.BoolLong("all", 'a', "show all matches")
	quiet := opts.BoolLong("quiet", 'q', "don't print anything, just return status")
	scope := opts.StringLong("scope", 's', "", "list all commands in the named scope")

	return cmd.Run(p, args, func() (core.Value, error) {
		var w io.Writer = p.Stdout()
		if *quiet {
			w = io.Discard
		}

		reg := p.Session().Registry()
		if *scope != "" {
			for _, name := range reg.Names() {
				if strings.HasPrefix(name, *scope+":") {
					fmt.Fprintln(w, name)
				}
			}
			return core.Bool(true), nil
		}

		found := true
		for _, name := range opts.Args() {
			if strings.HasSuffix(name, ":") {
				for _, scoped := range reg.Names() {
					if strings.HasPrefix(scoped, name) {
						fmt.Fprintln(w, scoped)
					}
				}
				continue
			}

			if !describeCommand(p, w, name, *all) {
				found = false
				if !*quiet {
					fmt.Fprintf(p.Stderr(), "type: %s not found.\n", name)
				}
			}
		}
		return core.Bool(found), nil
	})
}

func describeCommand(p *core.Process, w io.Writer, name string, all bool) bool {
	if !all {
		cmd, resolved := p.Session().Command(name)
		if cmd == nil {
			return false
		}
		fmt.Fprintln(w, describe(name, resolved, cmd))
		return true
	}

	found := false
	if v := p.Get(name); v.Kind() == core.KindClosure || v.Kind() == core.KindCommand {
		cmd, _ := v.AsCommand()
		fmt.Fprintln(w, describe(name, name, cmd))
		found = true
	}
	for _, scoped := range p.Session().Registry().Names() {
		if scoped == name || strings.HasSuffix(scoped, ":"+name) {
			cmd, _ := p.Session().Registry().Lookup(scoped)
			fmt.Fprintln(w, describe(name, scoped, cmd))
			found = true
		}
	}
	return found
}

func describe(name, resolved string, cmd core.Command) string {
	if closure, ok := cmd.(*core.Closure); ok {
		return fmt.Sprintf("%s is function {%s}", name, closure.Source())
	}
	if s, ok := cmd.(fmt.Stringer); ok {
		return fmt.Sprintf("%s is %s (%s)", name, resolved, s)
	}
	return fmt.Sprintf("%s is %s", name, resolved)
}

// Source runs a script from the session filesystem, extra arguments are
// bound to $args.
func Source(p *core.Process, args []core.Value) (core.Value, error) {
	if len(args) == 0 {
		return core.Null, errors.New("usage: source FILE [ARG]...")
	}

	name := core.Format(args[0], core.Part)
	script, err := afero.ReadFile(p.Fs(), name)
	if err != nil {
		return core.Null, err
	}

	closure, err := core.NewClosure(p.Session(), nil, string(script))
	if err != nil {
		return core.Null, errors.Wrap(err, name)
	}
	return closure.Execute(p, args[1:])
}

func init() {
	addBuiltin("format", "Inspect a value, or the last result, and print it.", Format)
	addBuiltin("set", "Show session variables or toggle tracing with -x/+x.", Set)
	addBuiltin("tac", "Capture stdin as text or a list of lines.", Tac)
	addBuiltin("type", "Show what a command name resolves to.", Type)
	addBuiltin("source", "Run a script file from the session filesystem.", Source)
}
