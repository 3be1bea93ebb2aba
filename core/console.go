package core

import (
	"fmt"
	"io"
	"log"
	"regexp"
	"sort"
	"strings"

	"github.com/abiosoft/readline"
	"github.com/fatih/color"
	"github.com/josephlewis42/gogosh/core/config"
	"github.com/josephlewis42/gogosh/core/shell"
	"github.com/josephlewis42/gogosh/core/vos"
)

const (
	// VarLastResult holds the result of the last line run in a console.
	VarLastResult = "_"
	// VarPrompt overrides the configured prompt.
	VarPrompt = "prompt"
	// VarMotd is printed when a console starts.
	VarMotd = "motd"

	DefaultPrompt      = "g! "
	ContinuationPrompt = "> "
)

var (
	promptVarRegex = regexp.MustCompile(`(\$\$|\$[\w-]+)`)
)

// ConsoleConfig holds the terminal settings of a console.
type ConsoleConfig struct {
	Prompt      string
	HistoryFile string
	Color       bool

	// FuncIsTerminal reports whether the input is a TTY, nil means no.
	FuncIsTerminal func() bool
	// FuncGetWidth reports the terminal width, nil means 80.
	FuncGetWidth func() int
}

// NewConsoleConfig builds console settings from the configuration.
func NewConsoleConfig(configuration *config.Configuration) ConsoleConfig {
	return ConsoleConfig{
		Prompt:      configuration.Prompt,
		HistoryFile: configuration.HistoryPath(),
		Color:       configuration.Color,
	}
}

// Console is an interactive read-eval-print loop over a session. Input that
// ends inside a closure, group or quote keeps reading lines until the source
// is complete.
type Console struct {
	Session  *Session
	Readline *readline.Instance

	config ConsoleConfig
	stdio  vos.VIO
}

// NewConsole creates a console that reads lines from stdio.
func NewConsole(session *Session, stdio vos.VIO, cfg ConsoleConfig) (*Console, error) {
	if cfg.FuncIsTerminal == nil {
		cfg.FuncIsTerminal = func() bool { return false }
	}
	if cfg.FuncGetWidth == nil {
		cfg.FuncGetWidth = func() int { return 80 }
	}

	rlCfg := &readline.Config{
		Stdin:          readline.NewCancelableStdin(stdio.Stdin()),
		Stdout:         stdio.Stdout(),
		Stderr:         stdio.Stderr(),
		HistoryFile:    cfg.HistoryFile,
		AutoComplete:   &completer{session: session},
		FuncGetWidth:   cfg.FuncGetWidth,
		FuncIsTerminal: cfg.FuncIsTerminal,
	}

	if err := rlCfg.Init(); err != nil {
		return nil, err
	}

	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		return nil, err
	}

	return &Console{
		Session:  session,
		Readline: rl,
		config:   cfg,
		stdio:    vos.NewVIOAdapter(stdio.Stdin(), vos.NopCloser(rl.Stdout()), vos.NopCloser(rl.Stderr())),
	}, nil
}

// Prompt renders the prompt, $name references are replaced by session
// variables.
func (c *Console) Prompt() string {
	prompt := c.config.Prompt
	if p, ok := c.Session.Get(VarPrompt).AsText(); ok {
		prompt = p
	}
	if prompt == "" {
		prompt = DefaultPrompt
	}

	return promptVarRegex.ReplaceAllStringFunc(prompt, func(ref string) string {
		if ref == "$$" {
			return "$"
		}
		return Format(c.Session.Get(ref[1:]), Part)
	})
}

// Run reads and executes lines until input is closed or "exit" is entered.
func (c *Console) Run() {
	if motd, ok := c.Session.Get(VarMotd).AsText(); ok && motd != "" {
		fmt.Fprintln(c.stdio.Stdout(), motd)
	}

	var pending strings.Builder

	for {
		if pending.Len() == 0 {
			c.Readline.SetPrompt(c.Prompt())
		} else {
			c.Readline.SetPrompt(ContinuationPrompt)
		}
		line, err := c.Readline.Readline()

		switch {
		case err == io.EOF:
			return // Input closed, quit.

		case err == readline.ErrInterrupt:
			pending.Reset()
			continue

		case err != nil:
			log.Printf("Error readline: %v", err)
			return
		}

		if pending.Len() > 0 {
			pending.WriteByte('\n')
		}
		pending.WriteString(line)
		source := pending.String()

		switch strings.TrimSpace(source) {
		case "":
			pending.Reset()
			continue // empty line
		case "exit":
			return
		}

		result, err := c.Session.ExecuteWith(c.stdio, source)
		if shell.IsIncomplete(err) {
			continue
		}
		pending.Reset()

		if err == nil {
			c.Session.Put(VarLastResult, result)
		}
		Report(c.stdio, result, err, c.config.Color)
	}
}

// Close releases the terminal.
func (c *Console) Close() error {
	return c.Readline.Close()
}

// Report prints the outcome of running source: errors go to stderr and
// non-null results are inspected to stdout.
func Report(stdio vos.VIO, result Value, err error, colorize bool) {
	if err != nil {
		errColor := color.New(color.FgRed)
		if colorize {
			errColor.EnableColor()
		} else {
			errColor.DisableColor()
		}
		errColor.Fprintf(stdio.Stderr(), "gogo: %v\n", err)
		return
	}

	if result.IsNull() {
		return
	}
	fmt.Fprintln(stdio.Stdout(), Format(result, Inspect))
}

// completer completes command names and $variables.
type completer struct {
	session *Session
}

var _ readline.AutoCompleter = (*completer)(nil)

func (c *completer) Do(line []rune, pos int) ([][]rune, int) {
	start := pos
	for start > 0 && !strings.ContainsRune(" \t|;<[{", line[start-1]) {
		start--
	}
	word := string(line[start:pos])

	var candidates []string
	if strings.HasPrefix(word, "$") {
		for _, name := range c.session.VarNames() {
			candidates = append(candidates, "$"+name)
		}
	} else {
		seen := make(map[string]bool)
		for _, name := range c.session.Registry().Names() {
			candidates = append(candidates, name)
			if i := strings.LastIndex(name, ":"); i >= 0 && !seen[name[i+1:]] {
				seen[name[i+1:]] = true
				candidates = append(candidates, name[i+1:])
			}
		}
	}
	sort.Strings(candidates)

	var out [][]rune
	for _, candidate := range candidates {
		if strings.HasPrefix(candidate, word) {
			out = append(out, []rune(candidate[len(word):]+" "))
		}
	}
	return out, len([]rune(word))
}
