package commands

import (
	"io"

	"github.com/josephlewis42/gogosh/core"
)

// Cat copies files, or stdin, to stdout.
func Cat(p *core.Process, args []core.Value) (core.Value, error) {
	cmd := &SimpleCommand{
		Use:   "cat [FILE]...",
		Short: "Concatenate FILE(s) to standard output.",
	}

	return cmd.Run(p, args, func() (core.Value, error) {
		err := eachFileOrStdin(p, cmd.Flags().Args(), func(_ string, r io.Reader) error {
			_, err := io.Copy(p.Stdout(), r)
			return ignoreClosed(err)
		})
		return core.Null, err
	})
}

func init() {
	addBuiltin("cat", "Concatenate files to standard output.", Cat)
}
