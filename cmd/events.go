package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/josephlewis42/gogosh/core/logger"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"
)

var (
	eventsJSON    bool
	eventsSession string
	eventsType    string
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Explore the session event log.",
}

// readEvents calls fn for every entry in the configured event log.
func readEvents(fn func(*logger.Entry)) error {
	configuration, err := loadConfig()
	if err != nil {
		return err
	}

	fd, err := configuration.ReadAppLog()
	if err != nil {
		return err
	}
	defer fd.Close()

	return logger.ReadJSONLinesLog(fd, fn)
}

var eventsReportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize the logged events.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		report := logger.NewReport()
		if err := readEvents(report.Update); err != nil {
			return err
		}

		marshal := yaml.Marshal
		if eventsJSON {
			marshal = func(v interface{}) ([]byte, error) {
				return json.MarshalIndent(v, "", "  ")
			}
		}
		out, err := marshal(report)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

var eventsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print logged events, optionally filtered by session or type.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		var werr error
		err := readEvents(func(e *logger.Entry) {
			if werr != nil || !matchesEvent(e, eventsSession, eventsType) {
				return
			}
			werr = printEvent(cmd.OutOrStdout(), e)
		})
		if err != nil {
			return err
		}
		return werr
	},
}

func matchesEvent(e *logger.Entry, session, eventType string) bool {
	return (session == "" || e.SessionID == session) && (eventType == "" || e.Type == eventType)
}

func printEvent(w io.Writer, e *logger.Entry) error {
	fields, err := json.Marshal(e.Event)
	if err != nil {
		return err
	}
	when := time.UnixMicro(e.TimestampMicros).UTC().Format(time.RFC3339)
	_, err = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", when, e.SessionID, e.Type, fields)
	return err
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(eventsReportCmd)
	eventsCmd.AddCommand(eventsListCmd)

	eventsReportCmd.Flags().BoolVar(&eventsJSON, "json", false, "print the report as JSON instead of YAML")
	eventsListCmd.Flags().StringVarP(&eventsSession, "session", "s", "", "only show events from this session")
	eventsListCmd.Flags().StringVarP(&eventsType, "type", "t", "", "only show events of this type")
}
