package cmd

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gliderlabs/ssh"
	"github.com/josephlewis42/gogosh/core"
	"github.com/josephlewis42/gogosh/core/logger"
	"github.com/josephlewis42/gogosh/core/vos"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	servePort    int
	serveTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve consoles over SSH on a local port.",
	Long: `Serve consoles over SSH, every connection gets a fresh session.

Sessions use an in-memory filesystem unless root_fs is configured.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		os.Stdin.Close()
		cmd.SilenceUsage = true

		configuration, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			configuration.SSHPort = servePort
			if err := configuration.Validate(); err != nil {
				return err
			}
		}

		eventLog, closeLog, err := openEventLog(configuration, log.Default())
		if err != nil {
			return err
		}
		defer closeLog()

		server, err := core.NewServer(configuration, func(stdio vos.VIO, sessionLog *logger.SessionLogger) (*core.Session, error) {
			fs, err := sessionFs(configuration, afero.NewMemMapFs())
			if err != nil {
				return nil, err
			}
			return newSession(configuration, stdio, fs, sessionLog)
		}, eventLog)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		group, ctx := errgroup.WithContext(ctx)
		group.Go(func() error {
			if err := server.ListenAndServe(); !errors.Is(err, ssh.ErrServerClosed) {
				return err
			}
			return nil
		})
		group.Go(func() error {
			<-ctx.Done()
			log.Print("Shutting down...")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), serveTimeout)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		})

		err = group.Wait()
		log.Print("Server exited")
		return err
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "listen on this port instead of ssh_port")
	serveCmd.Flags().DurationVar(&serveTimeout, "shutdown-timeout", 5*time.Second, "time to wait for open sessions on shutdown")
}
