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
	"log"
	"os"

	"github.com/josephlewis42/gogosh/core"
	"github.com/josephlewis42/gogosh/core/logger"
	"github.com/josephlewis42/gogosh/core/ttylog"
	"github.com/josephlewis42/gogosh/core/vos"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var recordPath string

// replCmd runs an interactive console over the local terminal
var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive console.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		replLogger := log.New(cmd.ErrOrStderr(), "[gogosh] ", 0)

		configuration, err := loadConfig()
		if err != nil {
			return err
		}

		var stdio vos.VIO = vos.NewOSIO()
		if recordPath != "" {
			transcript, err := os.Create(recordPath)
			if err != nil {
				return err
			}
			defer transcript.Close()

			replLogger.Printf("Recording to: %s", recordPath)
			stdio = ttylog.NewRecorder(stdio, ttylog.NewAsciicastLogSink(transcript))
		}

		eventLog, closeLog, err := openEventLog(configuration, replLogger)
		if err != nil {
			return err
		}
		defer closeLog()

		fs, err := sessionFs(configuration, afero.NewOsFs())
		if err != nil {
			return err
		}

		session, err := newSession(configuration, stdio, fs, logger.NewJsonLinesLogRecorder(eventLog).NewSession(""))
		if err != nil {
			return err
		}

		stdinFd, stdoutFd := int(os.Stdin.Fd()), int(os.Stdout.Fd())
		consoleCfg := core.NewConsoleConfig(configuration)
		consoleCfg.FuncIsTerminal = func() bool {
			return term.IsTerminal(stdinFd)
		}
		consoleCfg.FuncGetWidth = func() int {
			width, _, err := term.GetSize(stdoutFd)
			if err != nil || width <= 0 {
				return 80
			}
			return width
		}

		console, err := core.NewConsole(session, stdio, consoleCfg)
		if err != nil {
			return err
		}
		defer console.Close()

		console.Run()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(replCmd)

	replCmd.Flags().StringVar(&recordPath, "record", "", "record the session to an asciicast file")
}
