package pkg

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/creack/pty"
	petname "github.com/dustinkirkland/golang-petname"
	"github.com/gliderlabs/ssh"
	"github.com/rs/zerolog"
	gossh "golang.org/x/crypto/ssh"
)

const (
	ServerIdleTimeout = 5 * time.Minute
	SshPort           = ":2222"
)

type ServerConfig struct {
	Addr string
	// HostKeyFile is a PEM private key. A fresh ed25519 key is used when it
	// is empty or missing.
	HostKeyFile string
	// TUI is a binary run under a pty for sessions that request one. Without
	// it every session gets a console.
	TUI string
	// Match configures the match each session plays.
	Match Config
}

// Server hosts one match per ssh session.
type Server struct {
	*ssh.Server
	cfg ServerConfig
	log zerolog.Logger

	mu      sync.Mutex
	Matches map[string]*Match
}

func NewServer(cfg ServerConfig, log zerolog.Logger) (*Server, error) {
	if cfg.Addr == "" {
		cfg.Addr = SshPort
	}
	s := &Server{
		cfg:     cfg,
		log:     log.With().Str("component", "server").Logger(),
		Matches: make(map[string]*Match),
	}
	s.Server = &ssh.Server{
		Addr:        cfg.Addr,
		IdleTimeout: ServerIdleTimeout,
		Handler:     s.handle,
		PtyCallback: func(ctx ssh.Context, pty ssh.Pty) bool {
			return true
		},
	}
	signer, err := hostKey(cfg.HostKeyFile)
	if err != nil {
		return nil, err
	}
	s.AddHostKey(signer)
	return s, nil
}

func hostKey(path string) (gossh.Signer, error) {
	if path != "" {
		pem, err := os.ReadFile(path)
		if err == nil {
			return gossh.ParsePrivateKey(pem)
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}
	_, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	return gossh.NewSignerFromKey(key)
}

func (s *Server) handle(sess ssh.Session) {
	name := petname.Generate(2, "-")
	log := s.log.With().Str("session", name).Str("user", sess.User()).Str("remote", sess.RemoteAddr().String()).Logger()
	log.Info().Msg("session started")
	defer log.Info().Msg("session ended")

	ptyReq, winCh, isPty := sess.Pty()
	if isPty && s.cfg.TUI != "" {
		s.runTUI(sess, ptyReq, winCh, log)
		return
	}

	cfg := s.cfg.Match
	cfg.Logger = log
	m, err := NewMatch(cfg)
	if err != nil {
		io.WriteString(sess, fmt.Sprintf("failed to start a match: %s\n", err))
		sess.Exit(1)
		return
	}
	s.add(name, m)

	fmt.Fprintf(sess, "Welcome %s. Type help for the commands.\n", name)
	if err := NewConsole(m, sess, isPty).Run(); err != nil {
		log.Error().Err(err).Msg("console failed")
	}
	s.remove(name)
	sess.Exit(0)
}

// runTUI runs the configured binary under a pty wired to the session.
func (s *Server) runTUI(sess ssh.Session, ptyReq ssh.Pty, winCh <-chan ssh.Window, log zerolog.Logger) {
	cmdCtx, cancelCmd := context.WithCancel(sess.Context())
	defer cancelCmd()

	cmd := exec.CommandContext(cmdCtx, s.cfg.TUI)
	cmd.Env = append(sess.Environ(), fmt.Sprintf("TERM=%s", ptyReq.Term))

	f, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: uint16(ptyReq.Window.Height), Cols: uint16(ptyReq.Window.Width)})
	if err != nil {
		io.WriteString(sess, fmt.Sprintf("failed to initialize pseudo-terminal: %s\n", err))
		sess.Exit(1)
		return
	}
	defer f.Close()

	go func() {
		for win := range winCh {
			if err := pty.Setsize(f, &pty.Winsize{Rows: uint16(win.Height), Cols: uint16(win.Width)}); err != nil {
				log.Debug().Err(err).Msg("resize failed")
			}
		}
	}()

	go func() {
		io.Copy(f, sess)
	}()
	io.Copy(sess, f)

	f.Close()
	if err := cmd.Wait(); err != nil {
		log.Debug().Err(err).Msg("tui exited")
	}
}

func (s *Server) add(name string, m *Match) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Matches[name] = m
}

func (s *Server) remove(name string) {
	s.mu.Lock()
	m, ok := s.Matches[name]
	delete(s.Matches, name)
	s.mu.Unlock()
	if ok {
		m.Close()
	}
}

// MatchCount is the number of sessions currently playing.
func (s *Server) MatchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Matches)
}

// Shutdown closes the listener and every running match.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.Server.Shutdown(ctx)
	s.mu.Lock()
	matches := s.Matches
	s.Matches = make(map[string]*Match)
	s.mu.Unlock()
	for _, m := range matches {
		m.Close()
	}
	return err
}
