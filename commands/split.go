package commands

import (
	"io"
	"strings"

	shlex "github.com/anmitsu/go-shlex"
	"github.com/josephlewis42/gogosh/core"
)

// Split breaks text into a list of words using shell quoting rules, or on a
// literal separator. Text is read from stdin if no arguments are given.
func Split(p *core.Process, args []core.Value) (core.Value, error) {
	cmd := &SimpleCommand{
		Use:   "split [-s SEP] [TEXT]...",
		Short: "Split text into a list of words.",
	}

	opts := cmd.Flags()
	sep := opts.StringLong("separator", 's', "", "split on SEP rather than shell words")

	return cmd.Run(p, args, func() (core.Value, error) {
		text := strings.Join(opts.Args(), " ")
		if len(opts.Args()) == 0 {
			in, err := io.ReadAll(p.Stdin())
			if ignoreClosed(err) != nil {
				return core.Null, err
			}
			text = strings.TrimSuffix(string(in), "\n")
		}

		var words []string
		if *sep != "" {
			words = strings.Split(text, *sep)
		} else {
			var err error
			words, err = shlex.Split(text, true)
			if err != nil {
				return core.Null, err
			}
		}

		out := make([]core.Value, len(words))
		for i, word := range words {
			out[i] = core.Text(word)
		}
		return core.List(out...), nil
	})
}

func init() {
	addBuiltin("split", "Split text into a list of words.", Split)
}
