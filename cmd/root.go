package cmd

import (
	"context"
	"errors"
	"io/fs"
	"log"

	"github.com/josephlewis42/gogosh/core/config"
	"github.com/spf13/cobra"
)

var cfgPath string

// loadConfig reads the configuration named by --config, without the flag
// the built-in defaults are used.
func loadConfig() (*config.Configuration, error) {
	if cfgPath == "" {
		return config.Default(), nil
	}

	configuration, err := config.Load(cfgPath)
	if errors.Is(err, fs.ErrNotExist) {
		log.Println("Couldn't load config: did you run init?")
	}

	return configuration, err
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gogosh",
	Short: "Embeddable gogo shell",
	Long: `An embeddable shell that pipes values between commands.

Run scripts with "run", start an interactive console with "repl" or share
consoles over SSH with "serve".`,
}

// Execute runs the command line, it's called once by main.
func Execute() {
	cobra.CheckErr(rootCmd.ExecuteContext(context.Background()))
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config directory, built-in defaults are used if empty")
}
