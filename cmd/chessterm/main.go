package main

import (
	"flag"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/qnkhuat/gochess/pkg"
	"github.com/qnkhuat/gochess/pkg/gui"
	zlog "github.com/rs/zerolog/log"
	"golang.org/x/term"
)

var (
	logPath string
	fen     string
	record  string
	white   string
	black   string
	theme   string
	depth   int
	threads int
	seed    int64
	console bool
	testpos int
)

func main() {
	flag.StringVar(&logPath, "log", "./log", "path to log file")
	flag.StringVar(&fen, "fen", "", "start from this position")
	flag.IntVar(&testpos, "testpos", 0, "start from a numbered test position")
	flag.StringVar(&record, "load", "", "resume a game saved with the save command")
	flag.StringVar(&white, "white", pkg.Human, "who plays white: human or a bot strategy")
	flag.StringVar(&black, "black", "master", "who plays black: human or a bot strategy")
	flag.StringVar(&theme, "theme", gui.ThemeBasic.Name, "board theme")
	flag.IntVar(&depth, "depth", 4, "bot search depth")
	flag.IntVar(&threads, "threads", runtime.NumCPU(), "search threads")
	flag.Int64Var(&seed, "seed", 0, "random seed, 0 picks one")
	flag.BoolVar(&console, "console", false, "use the text console instead of the board")
	flag.Parse()
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	log, closer, err := pkg.InitLog(logPath, "chessterm")
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to open log")
	}
	defer closer.Close()

	m, err := pkg.NewMatch(pkg.Config{
		Threads: threads,
		Seed:    seed,
		Depth:   depth,
		White:   white,
		Black:   black,
		Logger:  log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create match")
	}
	defer m.Close()

	switch {
	case record != "":
		err = loadRecord(m, record)
	case fen != "":
		err = m.LoadFEN(fen)
	case testpos != 0:
		err = m.LoadTestpos(testpos)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load position")
	}

	tty := isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	if console || !tty {
		runConsole(m, tty, sigc)
		return
	}

	th, err := gui.ThemeByName(theme)
	if err != nil {
		log.Fatal().Err(err).Msg("bad theme")
	}
	g := gui.New(m, th, log)
	go func() {
		<-sigc
		g.Stop()
	}()
	if err := g.Run(); err != nil {
		log.Error().Err(err).Msg("gui failed")
	}
}

func loadRecord(m *pkg.Match, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	r, err := pkg.DecodeRecord(data)
	if err != nil {
		return err
	}
	return m.LoadRecord(r)
}

type stdio struct {
	io.Reader
	io.Writer
}

// runConsole reads commands from stdin. A terminal is put in raw mode so the
// console can edit lines itself.
func runConsole(m *pkg.Match, tty bool, sigc <-chan os.Signal) {
	log := zlog.Logger
	rw := stdio{os.Stdin, os.Stdout}
	if tty {
		state, err := term.MakeRaw(int(os.Stdin.Fd()))
		if err != nil {
			log.Fatal().Err(err).Msg("failed to set raw mode")
		}
		defer term.Restore(int(os.Stdin.Fd()), state)
	}
	c := pkg.NewConsole(m, rw, tty)
	c.Files = true

	done := make(chan error, 1)
	go func() { done <- c.Run() }()
	select {
	case err := <-done:
		if err != nil {
			log.Error().Err(err).Msg("console failed")
		}
	case <-sigc:
		m.Abort()
	}
}
