package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/gliderlabs/ssh"
	"github.com/qnkhuat/gochess/pkg"
	zlog "github.com/rs/zerolog/log"
)

var (
	listenAddressSSH string
	hostKey          string
	tuiBinary        string
	logPath          string
	black            string
	depth            int
	threads          int
)

func main() {
	flag.StringVar(&listenAddressSSH, "listen-ssh", pkg.SshPort, "host SSH server on network address")
	flag.StringVar(&hostKey, "hostkey", "", "PEM host key, a fresh key is generated when empty")
	flag.StringVar(&tuiBinary, "tui", "", "path to the chessterm binary run for sessions with a terminal")
	flag.StringVar(&logPath, "log", "./server.log", "path to log file")
	flag.StringVar(&black, "black", "master", "bot strategy playing black")
	flag.IntVar(&depth, "depth", 4, "bot search depth")
	flag.IntVar(&threads, "threads", runtime.NumCPU(), "search threads per match")
	flag.Parse()

	log, closer, err := pkg.InitLog(logPath, "server")
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to open log")
	}
	defer closer.Close()

	s, err := pkg.NewServer(pkg.ServerConfig{
		Addr:        listenAddressSSH,
		HostKeyFile: hostKey,
		TUI:         tuiBinary,
		Match: pkg.Config{
			Event:   "ssh",
			Threads: threads,
			Seed:    time.Now().UnixNano(),
			Depth:   depth,
			White:   pkg.Human,
			Black:   black,
		},
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create server")
	}

	go func() {
		log.Info().Str("addr", listenAddressSSH).Msg("listening")
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to serve")
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
	log.Info().Msg("server stopped")
}
