package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/josephlewis42/gogosh/commands"
	"github.com/spf13/cobra"
)

// builtinsCmd lists the commands every session starts with
var builtinsCmd = &cobra.Command{
	Use:   "builtins",
	Short: "Show the builtin commands of the shell.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
		for _, builtin := range commands.ListBuiltinCommands() {
			fmt.Fprintf(w, "%s:%s\t%s\n", commands.Scope, builtin.Name, builtin.Short)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(builtinsCmd)
}
