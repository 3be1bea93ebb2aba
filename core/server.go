package core

import (
	"context"
	"fmt"
	"io"
	"log"
	"net"
	"sync/atomic"

	"github.com/gliderlabs/ssh"
	"github.com/josephlewis42/gogosh/core/config"
	"github.com/josephlewis42/gogosh/core/logger"
	"github.com/josephlewis42/gogosh/core/ttylog"
	"github.com/josephlewis42/gogosh/core/vos"
	gossh "golang.org/x/crypto/ssh"
)

type sshContextKey struct {
	name string
}

var (
	// ContextAuthPassword holds the password the client sent to the server.
	ContextAuthPassword = sshContextKey{"auth-password"}
)

// SessionFactory creates a fully set up session for a remote console.
type SessionFactory func(stdio vos.VIO, log *logger.SessionLogger) (*Session, error)

// Server serves a console over SSH, every connection gets its own session.
type Server struct {
	configuration *config.Configuration
	newSession    SessionFactory
	logger        *logger.Logger
	sshServer     *ssh.Server
}

// NewServer creates a server, events are logged to eventLog as JSON lines.
func NewServer(configuration *config.Configuration, newSession SessionFactory, eventLog io.Writer) (*Server, error) {
	server := &Server{
		configuration: configuration,
		newSession:    newSession,
		logger:        logger.NewJsonLinesLogRecorder(eventLog),
	}

	server.sshServer = &ssh.Server{
		Addr:    fmt.Sprintf(":%d", configuration.SSHPort),
		Version: configuration.SSHBanner,
		Handler: func(s ssh.Session) {
			if err := server.HandleConnection(s); err != nil {
				log.Printf("session error: %v", err)
			}
		},
		PasswordHandler: func(ctx ssh.Context, password string) bool {
			ctx.SetValue(ContextAuthPassword, password)
			allowed := configuration.PasswordAllowed(password)

			result := "failure"
			if allowed {
				result = "success"
			}
			server.logger.Sessionless().Record(logger.EventLoginAttempt, map[string]interface{}{
				"user":        ctx.User(),
				"remote_addr": ctx.RemoteAddr().String(),
				"result":      result,
			})
			return allowed
		},
	}

	keyPem, err := configuration.PrivateKeyPem()
	if err != nil {
		log.Printf("- No host key found (%v), using a temporary one", err)
		if keyPem, err = config.GeneratePrivateKeyPem(); err != nil {
			return nil, err
		}
	}

	signer, err := gossh.ParsePrivateKey(keyPem)
	if err != nil {
		return nil, err
	}
	server.sshServer.AddHostKey(signer)

	return server, nil
}

// HandleConnection runs a console, or the requested command, for a single
// SSH session.
func (s *Server) HandleConnection(sess ssh.Session) error {
	sessionLogger := s.logger.NewSession("")
	sessionLogger.Record(logger.EventSessionStart, map[string]interface{}{
		"user":        sess.User(),
		"remote_addr": sess.RemoteAddr().String(),
		"command":     sess.RawCommand(),
	})
	defer sessionLogger.Record(logger.EventSessionEnd, nil)

	var stdio vos.VIO = vos.NewVIOAdapter(io.NopCloser(sess), vos.NopCloser(sess), vos.NopCloser(sess.Stderr()))

	// Start logging the terminal interactions
	transcriptName := fmt.Sprintf("%s.%s", sessionLogger.SessionID(), ttylog.AsciicastFileExt)
	if transcript, err := s.configuration.CreateSessionLog(transcriptName); err != nil {
		log.Printf("couldn't create transcript: %v", err)
	} else {
		defer transcript.Close()
		stdio = ttylog.NewRecorder(stdio, ttylog.NewAsciicastLogSink(transcript))
	}

	session, err := s.newSession(stdio, sessionLogger)
	if err != nil {
		sess.Exit(1)
		return err
	}

	if command := sess.RawCommand(); command != "" {
		result, err := session.ExecuteWith(stdio, command)
		Report(stdio, result, err, false)
		if err != nil {
			return sess.Exit(1)
		}
		return sess.Exit(0)
	}

	// Watch for window changes.
	ptyInfo, winch, isPTY := sess.Pty()
	width := int64(ptyInfo.Window.Width)
	if isPTY {
		go func() {
			for window := range winch {
				atomic.StoreInt64(&width, int64(window.Width))
			}
		}()
	}

	cfg := NewConsoleConfig(s.configuration)
	cfg.HistoryFile = ""
	cfg.FuncIsTerminal = func() bool { return isPTY }
	cfg.FuncGetWidth = func() int { return int(atomic.LoadInt64(&width)) }

	console, err := NewConsole(session, stdio, cfg)
	if err != nil {
		sess.Exit(1)
		return err
	}
	defer console.Close()

	console.Run()
	return sess.Exit(0)
}

// Serve accepts connections on l.
func (s *Server) Serve(l net.Listener) error {
	return s.sshServer.Serve(l)
}

func (s *Server) ListenAndServe() error {
	log.Printf("- Starting SSH server on %s\n", s.sshServer.Addr)
	return s.sshServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.sshServer.Shutdown(ctx)
}
