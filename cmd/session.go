package cmd

import (
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/josephlewis42/gogosh/commands"
	"github.com/josephlewis42/gogosh/core"
	"github.com/josephlewis42/gogosh/core/config"
	"github.com/josephlewis42/gogosh/core/logger"
	"github.com/josephlewis42/gogosh/core/vos"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// sessionFs picks the filesystem sessions see, the configured root
// filesystem wins over fallback.
func sessionFs(configuration *config.Configuration, fallback afero.Fs) (afero.Fs, error) {
	if configuration.RootFs == "" {
		return fallback, nil
	}

	fd, err := configuration.OpenRootFs()
	if err != nil {
		return nil, errors.Wrap(err, "opening root_fs")
	}
	defer fd.Close()

	rootFs, err := core.NewRootFs(fd)
	if err != nil {
		return nil, errors.Wrapf(err, "reading root_fs %s", configuration.RootFs)
	}
	return rootFs, nil
}

// newSession creates a session with the builtins installed and runs the
// configured startup scripts.
func newSession(configuration *config.Configuration, stdio vos.VIO, fs afero.Fs, sessionLog *logger.SessionLogger) (*core.Session, error) {
	var vars core.VarStore = core.NewMapVars()
	if configuration.ImportEnvironment {
		vars = core.NewMapVarsFromEnvList(os.Environ())
	}
	for k, v := range configuration.Variables {
		vars.Put(k, core.Text(v))
	}
	if configuration.Echo {
		vars.Put(core.VarEcho, core.Bool(true))
	}
	vars.Put(commands.VarColor, core.Bool(configuration.Color))

	registry := core.NewRegistry()
	commands.Install(registry)

	session := core.NewSession(
		core.WithVars(vars),
		core.WithRegistry(registry),
		core.WithStdio(stdio),
		core.WithFs(fs),
		core.WithLogger(sessionLog),
		core.WithPipeRateLimit(configuration.PipeRateLimit),
	)

	for i, script := range configuration.Startup {
		if _, err := session.ExecuteWith(stdio, script); err != nil {
			return nil, errors.Wrapf(err, "startup[%d]", i)
		}
	}
	return session, nil
}

// openEventLog opens the configuration's app log for appending, events of
// the built-in configuration are discarded.
func openEventLog(configuration *config.Configuration, out *log.Logger) (io.Writer, func(), error) {
	if configuration.Dir() == "" {
		return io.Discard, func() {}, nil
	}

	fd, err := configuration.OpenAppLog()
	if err != nil {
		return nil, nil, err
	}
	out.Printf("- Logging events to %s", filepath.Join(configuration.Dir(), config.AppLogName))
	return fd, func() { fd.Close() }, nil
}
