package commands

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	"github.com/josephlewis42/gogosh/core"
	getopt "github.com/pborman/getopt/v2"
)

// Scope is the registry scope builtins are installed into.
const Scope = "gogo"

// VarColor enables colored output from builtins using --color=auto.
const VarColor = "color"

// BuiltinCommand is a command installed into every session.
type BuiltinCommand struct {
	Name  string
	Short string
	Cmd   core.Command
}

var allBuiltins = make(map[string]BuiltinCommand)

// addBuiltin registers a builtin, names must be unique.
func addBuiltin(name, short string, fn core.CommandFunc) {
	if _, ok := allBuiltins[name]; ok {
		panic(fmt.Sprintf("duplicate builtin %q", name))
	}
	allBuiltins[name] = BuiltinCommand{Name: name, Short: short, Cmd: fn}
}

// ListBuiltinCommands returns every builtin sorted by name.
func ListBuiltinCommands() []BuiltinCommand {
	var out []BuiltinCommand
	for _, b := range allBuiltins {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

// Install adds every builtin to the registry.
func Install(reg *core.Registry) {
	for _, b := range ListBuiltinCommands() {
		reg.Add(Scope, b.Name, b.Cmd)
	}
}

// TextArgs formats arguments so they can be parsed as flags.
func TextArgs(args []core.Value) []string {
	out := make([]string, len(args))
	for i, arg := range args {
		out[i] = core.Format(arg, core.Part)
	}
	return out
}

type SimpleCommand struct {
	// Use holds a one line usage string
	Use string
	// Short holds a one line description of the command.
	Short string
	// ShowHelp sets whether help is displayed or not.
	// If this is non-nil when Run() is called, then the default help flag isn't
	// added.
	ShowHelp *bool

	flags *getopt.Set
}

// Flags gets the command's flag set.
func (s *SimpleCommand) Flags() *getopt.Set {
	if s.flags == nil {
		s.flags = getopt.New()
	}

	return s.flags
}

// PrintHelp writes help for the command to the given writer.
func (s *SimpleCommand) PrintHelp(w io.Writer) {
	fmt.Fprint(w, "usage: ")
	fmt.Fprintln(w, s.Use)
	fmt.Fprintln(w, s.Short)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	s.Flags().PrintOptions(w)
}

// Run parses the arguments as flags, if parsing was successful the callback
// is called.
func (s *SimpleCommand) Run(p *core.Process, args []core.Value, callback func() (core.Value, error)) (core.Value, error) {
	opts := s.Flags()

	// Add help flag if not overridden.
	if s.ShowHelp == nil {
		s.ShowHelp = opts.BoolLong("help", 'h', "show this help and exit")
	}

	argv := append([]string{p.Name}, TextArgs(args)...)
	if err := opts.Getopt(argv, nil); err != nil {
		fmt.Fprintf(p.Stderr(), "error: %s\n\n", err)
		s.PrintHelp(p.Stderr())
		return core.Null, err
	}

	if *s.ShowHelp {
		s.PrintHelp(p.Stdout())
		return core.Null, nil
	}

	return callback()
}

const (
	colorAlways = "always"
	colorAuto   = "auto"
	colorNever  = "never"
)

var (
	ColorBoldBlue = newColor(color.FgBlue, color.Bold)
	ColorBoldRed  = newColor(color.FgRed, color.Bold)
)

// newColor creates a color that doesn't depend on the host's stdout, the
// ColorPrinter decides whether to use it.
func newColor(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	c.EnableColor()
	return c
}

type ColorPrinter struct {
	value *string
	proc  *core.Process
}

// Init sets up the flag and process to determine the color output.
func (c *ColorPrinter) Init(flags *getopt.Set, p *core.Process) {
	c.proc = p
	c.value = flags.EnumLong(
		"color",
		rune(0), // No short flag.
		[]string{colorAlways, colorAuto, colorNever},
		colorAuto,
		"colorize the output (always|auto|never)")
}

func (c *ColorPrinter) ShouldColor() bool {
	switch {
	case *c.value == colorNever:
		return false
	case *c.value == colorAlways:
		return true
	default:
		return c.proc.Get(VarColor).Truthy()
	}
}

func (c *ColorPrinter) Sprint(col *color.Color, s string) string {
	if c.ShouldColor() {
		return col.Sprint(s)
	}
	return s
}
