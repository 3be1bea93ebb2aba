package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/josephlewis42/gogosh/core"
	"github.com/pkg/errors"
)

// Help lists the builtins or describes one of them.
func Help(p *core.Process, args []core.Value) (core.Value, error) {
	if len(args) > 0 {
		name := strings.TrimPrefix(core.Format(args[0], core.Part), Scope+":")
		b, ok := allBuiltins[name]
		if !ok {
			return core.Null, errors.Errorf("help: no builtin named %q", name)
		}
		fmt.Fprintf(p.Stdout(), "%s:%s - %s\n", Scope, b.Name, b.Short)
		return core.Null, nil
	}

	tw := tabwriter.NewWriter(p.Stdout(), 0, 8, 2, ' ', 0)
	for _, b := range ListBuiltinCommands() {
		fmt.Fprintf(tw, "%s\t%s\n", b.Name, b.Short)
	}
	return core.Null, tw.Flush()
}

func init() {
	addBuiltin("help", "List builtins or describe one.", Help)
}
