package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/josephlewis42/gogosh/core/ttylog"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"
)

var idleTimeLimit time.Duration

var logsCmd = &cobra.Command{
	Use:     "logs",
	Aliases: []string{"log"},
	Short:   "Explore recorded console sessions.",
}

// withTranscript opens the asciicast file named by the first argument.
func withTranscript(fn func(cmd *cobra.Command, source *ttylog.AsciicastLogSource) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		fd, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer fd.Close()

		return fn(cmd, ttylog.NewAsciicastLogSource(fd))
	}
}

var logsPlayCmd = &cobra.Command{
	Use:   "play FILE.cast",
	Short: "Replay a recorded session at the speed it was recorded.",
	Args:  cobra.ExactArgs(1),
	RunE: withTranscript(func(cmd *cobra.Command, source *ttylog.AsciicastLogSource) error {
		sink := ttylog.NewRealTimePlayback(idleTimeLimit, ttylog.NewClientOutput(cmd.OutOrStdout()))
		return ttylog.Replay(source, sink)
	}),
}

var logsCatCmd = &cobra.Command{
	Use:   "cat FILE.cast",
	Short: "Print the full output of a recorded session.",
	Args:  cobra.ExactArgs(1),
	RunE: withTranscript(func(cmd *cobra.Command, source *ttylog.AsciicastLogSource) error {
		return ttylog.Replay(source, ttylog.NewClientOutput(cmd.OutOrStdout()))
	}),
}

var logsInfoCmd = &cobra.Command{
	Use:   "info FILE.cast",
	Short: "Show the header and length of a recorded session.",
	Args:  cobra.ExactArgs(1),
	RunE: withTranscript(func(cmd *cobra.Command, source *ttylog.AsciicastLogSource) error {
		header, err := source.Header()
		if err != nil {
			return err
		}

		var events int
		var last int64
		if err := ttylog.Replay(source, func(e *ttylog.Entry) error {
			events++
			last = e.TimestampMicros
			return nil
		}); err != nil {
			return err
		}

		out, err := yaml.Marshal(header)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), string(out))
		fmt.Fprintf(cmd.OutOrStdout(), "events: %d\nduration: %s\n", events, time.Duration(last)*time.Microsecond)
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(logsCmd)
	logsCmd.AddCommand(logsPlayCmd)
	logsCmd.AddCommand(logsCatCmd)
	logsCmd.AddCommand(logsInfoCmd)

	logsPlayCmd.Flags().DurationVarP(&idleTimeLimit, "idle-time-limit", "i", 3*time.Second, "longest pause between events (e.g. 3s, 2m, 100ms)")
}
