/*
Copyright © 2021 Joseph Lewis <joseph@josephlewis.net>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package cmd

import (
	"io"
	"log"
	"os"

	"github.com/josephlewis42/gogosh/core"
	"github.com/josephlewis42/gogosh/core/logger"
	"github.com/josephlewis42/gogosh/core/vos"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var runScript string

var runCmd = &cobra.Command{
	Use:   "run [-c SCRIPT | FILE] [ARG]...",
	Short: "Run a script and print its result.",
	Long: `Run a script from a file, the -c flag or stdin and print its result.

Remaining arguments are available to the script as $args, $it and $0, $1...
Scripts see the host filesystem unless root_fs is configured.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		configuration, err := loadConfig()
		if err != nil {
			return err
		}

		source := runScript
		if !cmd.Flags().Changed("script") {
			var data []byte
			switch {
			case len(args) > 0:
				data, err = os.ReadFile(args[0])
				args = args[1:]
			default:
				data, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return err
			}
			source = string(data)
		}

		eventLog, closeLog, err := openEventLog(configuration, log.New(cmd.ErrOrStderr(), "[gogosh] ", 0))
		if err != nil {
			return err
		}
		defer closeLog()

		fs, err := sessionFs(configuration, afero.NewOsFs())
		if err != nil {
			return err
		}

		stdio := vos.NewVIOAdapter(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		session, err := newSession(configuration, stdio, fs, logger.NewJsonLinesLogRecorder(eventLog).NewSession(""))
		if err != nil {
			return err
		}

		scriptArgs := make([]core.Value, len(args))
		for i, arg := range args {
			scriptArgs[i] = core.Text(arg)
		}
		session.Put(core.VarArgs, core.List(scriptArgs...))

		result, err := session.Execute(source)
		if err != nil {
			return err
		}
		core.Report(stdio, result, nil, false)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runScript, "script", "c", "", "script to run instead of a file")
}
