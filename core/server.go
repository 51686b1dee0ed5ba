package core

import (
	"context"
	"crypto/subtle"
	"fmt"
	"io"
	"log"
	"net"
	"strings"
	"sync/atomic"

	"github.com/gliderlabs/ssh"
	"github.com/josephlewis42/dosh/core/config"
	"github.com/josephlewis42/dosh/core/logger"
	"github.com/josephlewis42/dosh/core/shell"
	"github.com/josephlewis42/dosh/core/vos"
	"github.com/juju/ratelimit"
	"github.com/spf13/afero"
)

// Server serves an interpreter to each SSH session.
type Server struct {
	configuration *config.Configuration
	logger        *logger.Logger
	appLog        *log.Logger
	rootFs        afero.Fs
	sshServer     *ssh.Server

	// lastTask is the last task number handed out.
	lastTask int32
}

// NewServer creates a server for the configuration. Sessions share a read-only
// view of the configured root, their changes are kept in memory.
func NewServer(configuration *config.Configuration, events *logger.Logger, appLog *log.Logger) (*Server, error) {
	rootFs, err := configuration.SSHRootFs()
	if err != nil {
		return nil, err
	}

	signer, err := configuration.HostSigner()
	if err != nil {
		return nil, fmt.Errorf("loading host key: %w", err)
	}

	server := &Server{
		configuration: configuration,
		logger:        events,
		appLog:        appLog,
		rootFs:        afero.NewReadOnlyFs(rootFs),
	}

	server.sshServer = &ssh.Server{
		Addr:            fmt.Sprintf(":%d", configuration.SSHPort),
		Handler:         server.HandleSession,
		PasswordHandler: server.checkPassword,
	}
	server.sshServer.AddHostKey(signer)

	return server, nil
}

func (s *Server) checkPassword(ctx ssh.Context, password string) bool {
	ok := false
	for _, candidate := range s.configuration.GetPasswords() {
		if subtle.ConstantTimeCompare([]byte(password), []byte(candidate)) == 1 {
			ok = true
		}
	}

	err := s.logger.Session(ctx.SessionID()).Record(logger.EventLogin, map[string]interface{}{
		"username":    ctx.User(),
		"remote_addr": fmt.Sprintf("%s", ctx.RemoteAddr()),
		"success":     ok,
	})
	if err != nil {
		s.appLog.Printf("recording login: %v", err)
	}

	return ok
}

// HandleSession runs an interpreter for the session and exits with its
// return code. A command sent with the session is run as a script.
func (s *Server) HandleSession(sess ssh.Session) {
	ctx := sess.Context()
	taskNum := atomic.AddInt32(&s.lastTask, 1)

	var out io.Writer = sess
	if rate := s.configuration.SSHOutputRate; rate > 0 {
		out = ratelimit.Writer(sess, ratelimit.NewBucketWithRate(float64(rate), rate))
	}

	sh, err := NewInterpreter(s.configuration, InterpreterOptions{
		Root:    afero.NewCopyOnWriteFs(s.rootFs, afero.NewMemMapFs()),
		IO:      vos.NewVIOAdapter(sess, out, out),
		TaskNum: int(taskNum),
		Dir:     "/",
		Events:  s.logger.Session(ctx.SessionID()),
	})
	if err != nil {
		s.appLog.Printf("session %d: %v", taskNum, err)
		fmt.Fprintln(sess.Stderr(), "Shell: could not start")
		sess.Exit(shell.ReturnFail)
		return
	}

	s.appLog.Printf("session %d: %s@%s started", taskNum, sess.User(), sess.RemoteAddr())

	var rc int
	if command := sess.RawCommand(); command != "" {
		rc = sh.Run(ctx, shell.NewScriptSource(strings.NewReader(command)))
	} else {
		rc = s.runInteractive(ctx, sess, sh, out)
	}

	s.appLog.Printf("session %d: exited with %d", taskNum, rc)
	sess.Exit(rc)
}

func (s *Server) runInteractive(ctx context.Context, sess ssh.Session, sh *shell.Shell, out io.Writer) int {
	ptyInfo, winch, isPTY := sess.Pty()
	if !isPTY {
		return RunInteractive(ctx, sh, s.configuration, shell.NewScriptSource(sess))
	}

	width := int32(ptyInfo.Window.Width)
	setPTY := func(window ssh.Window) {
		atomic.StoreInt32(&width, int32(window.Width))
		sh.VirtualOS.SetPTY(vos.PTY{
			Width:  window.Width,
			Height: window.Height,
			Term:   ptyInfo.Term,
			IsPTY:  true,
		})
	}
	setPTY(ptyInfo.Window)

	// Watch for window changes.
	go func() {
		for window := range winch {
			setPTY(window)
		}
	}()

	src, err := shell.NewReadlineSource(shell.ReadlineConfig{
		Stdin:      sess,
		Stdout:     out,
		Stderr:     sess.Stderr(),
		IsTerminal: func() bool { return true },
		Width:      func() int { return int(atomic.LoadInt32(&width)) },
	})
	if err != nil {
		s.appLog.Printf("readline: %v", err)
		return shell.ReturnFail
	}
	defer src.Close()

	return RunInteractive(ctx, sh, s.configuration, src)
}

// ListenAndServe listens on the configured port.
func (s *Server) ListenAndServe() error {
	s.appLog.Printf("Starting SSH server on %s\n", s.sshServer.Addr)
	return s.sshServer.ListenAndServe()
}

// Serve accepts connections on l.
func (s *Server) Serve(l net.Listener) error {
	return s.sshServer.Serve(l)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.sshServer.Shutdown(ctx)
}
