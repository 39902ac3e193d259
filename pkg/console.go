package pkg

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/qnkhuat/gochess/pkg/bot"
	"github.com/qnkhuat/gochess/pkg/engine"
	"github.com/qnkhuat/gochess/pkg/search"
	"github.com/rs/zerolog"
	"golang.org/x/term"
)

const consolePrompt = "> "

// Console reads text commands and runs them against a match.
type Console struct {
	m   *Match
	log zerolog.Logger

	// term is set when the console talks to an interactive terminal.
	term *term.Terminal
	in   *bufio.Scanner

	outMu sync.Mutex
	out   io.Writer

	// Files allows the save and load commands.
	Files bool

	info, warn, fail *color.Color
}

// NewConsole wires a console to rw. With interactive set, input is read
// through a line editor and output is colored.
func NewConsole(m *Match, rw io.ReadWriter, interactive bool) *Console {
	c := &Console{
		m:    m,
		log:  m.log.With().Str("component", "console").Logger(),
		info: color.New(color.FgCyan),
		warn: color.New(color.FgYellow),
		fail: color.New(color.FgRed, color.Bold),
	}
	if interactive {
		c.term = term.NewTerminal(rw, consolePrompt)
		c.out = c.term
	} else {
		c.in = bufio.NewScanner(rw)
		c.out = rw
	}
	for _, col := range []*color.Color{c.info, c.warn, c.fail} {
		if interactive {
			col.EnableColor()
		} else {
			col.DisableColor()
		}
	}
	return c
}

func (c *Console) readLine() (string, error) {
	if c.term != nil {
		return c.term.ReadLine()
	}
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return c.in.Text(), nil
}

func (c *Console) printf(format string, args ...interface{}) {
	c.outMu.Lock()
	defer c.outMu.Unlock()
	fmt.Fprintf(c.out, format, args...)
}

func (c *Console) colorf(col *color.Color, format string, args ...interface{}) {
	c.printf("%s", col.Sprintf(format, args...))
}

func (c *Console) errorf(format string, args ...interface{}) {
	c.colorf(c.fail, "ERROR: "+format+"\n", args...)
}

// Run reads commands until quit or the end of the input, then stops every
// search it started.
func (c *Console) Run() error {
	defer c.m.Abort()
	for {
		line, err := c.readLine()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if c.Exec(line) {
			return nil
		}
	}
}

// Exec runs one command line. It reports whether the console should quit.
func (c *Console) Exec(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	c.m.Runtime().Reap()
	cmd, args := fields[0], fields[1:]
	c.log.Debug().Str("command", line).Msg("console command")
	switch cmd {
	case "quit", "q", "exit", "close":
		return true
	case "stop":
		c.m.Abort()
	case "isready":
		c.printf("readyok\n")
	case "help", "h":
		c.help()
	case "d", "display":
		c.display(args)
	case "position":
		c.position(args)
	case "perft":
		c.perft(args)
	case "go":
		c.goCmd(args)
	case "bot":
		c.botCmd(args)
	case "play":
		c.play()
	case "move":
		if len(args) == 0 {
			c.errorf("move needs a move")
			break
		}
		c.playMoves(strings.Join(args, " "))
	case "undo":
		c.report(c.m.Undo())
	case "redo":
		c.report(c.m.Redo())
	case "goto":
		c.gotoCmd(args)
	case "reset":
		c.m.Reset()
		c.printStatus()
	case "draw":
		c.draw(args)
	case "fen":
		c.printf("%s\n", c.m.FEN())
	case "eval":
		c.printf("%d\n", c.m.Score())
	case "legal":
		c.printf("%s\n", strings.Join(c.m.Legal(c.m.Turn()), " "))
	case "status":
		c.printStatus()
	case "players":
		for col := engine.White; col <= engine.Black; col++ {
			c.printf("%s %s\n", c.m.Player(col), c.m.Clock(col))
		}
	case "pgn":
		c.pgn()
	case "save":
		c.save(args)
	case "load":
		c.load(args)
	default:
		if _, err := engine.ParseSquare(cmd[:min(2, len(cmd))]); err == nil && len(fields) == 1 {
			c.playMoves(cmd)
			break
		}
		c.printf("Unknown command.\n")
	}
	return false
}

func (c *Console) report(err error) {
	if err != nil {
		c.errorf("%v", err)
		return
	}
	c.printStatus()
}

// options splits args into the values that follow each keyword in names.
// A keyword that is present without values maps to an empty slice.
func options(args []string, names ...string) map[string][]string {
	opts := make(map[string][]string)
	var cur string
	for _, a := range args {
		isName := false
		for _, n := range names {
			if a == n {
				isName = true
				break
			}
		}
		if isName {
			cur = a
			opts[cur] = []string{}
			continue
		}
		if cur != "" {
			opts[cur] = append(opts[cur], a)
		}
	}
	return opts
}

func intOption(opts map[string][]string, name string, def int) (int, error) {
	vals, ok := opts[name]
	if !ok {
		return def, nil
	}
	if len(vals) == 0 {
		return 0, fmt.Errorf("%s needs a value", name)
	}
	n, err := strconv.Atoi(vals[0])
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, vals[0])
	}
	return n, nil
}

func (c *Console) position(args []string) {
	opts := options(args, "startpos", "testpos", "fen", "moves")
	var err error
	switch {
	case opts["startpos"] != nil:
		c.m.LoadStart()
	case len(opts["testpos"]) > 0:
		var i int
		i, err = strconv.Atoi(opts["testpos"][0])
		if err != nil {
			err = fmt.Errorf("invalid parameter for testpos, use numbers 1-%d", len(TestPositions))
			break
		}
		err = c.m.LoadTestpos(i)
	case len(opts["fen"]) > 0:
		err = c.m.LoadFEN(strings.Join(opts["fen"], " "))
	}
	if err != nil {
		c.errorf("%v", err)
		return
	}
	if moves := opts["moves"]; len(moves) > 0 {
		if err := c.m.PlayMoves(strings.Join(moves, " ")); err != nil {
			c.errorf("%v", err)
		}
	}
	c.printStatus()
}

func (c *Console) playMoves(list string) {
	if err := c.m.PlayMoves(list); err != nil {
		c.errorf("%v", err)
		return
	}
	c.printStatus()
}

func (c *Console) printStatus() {
	st := c.m.Status()
	switch {
	case st.Draw:
		c.colorf(c.warn, "Draw! %s\n", st.Text)
	case st.Over():
		c.colorf(c.warn, "Checkmate! %s\n", st.Text)
	case st.DrawOffer:
		c.colorf(c.info, "Note: A draw could be requested. %s\n", st.Text)
	}
}

func (c *Console) display(args []string) {
	opts := options(args, "board", "movementrange", "attackrange")
	if _, ok := opts["board"]; ok || len(opts) == 0 {
		c.printf("%s", DrawBoard(c.m.Snapshot()))
	}
	if _, ok := opts["movementrange"]; ok {
		for col := engine.White; col <= engine.Black; col++ {
			c.printf("%s danger zone:\n%s", col, c.m.DangerZone(col))
		}
	}
	if _, ok := opts["attackrange"]; ok {
		for col := engine.White; col <= engine.Black; col++ {
			c.printf("%s attack zone:\n%s", col, c.m.AttackZone(col))
		}
	}
}

// DrawBoard renders b as text with rank 8 on top.
func DrawBoard(b *engine.Board) string {
	var sb strings.Builder
	for r := 7; r >= 0; r-- {
		fmt.Fprintf(&sb, "%d ", r+1)
		for f := 0; f < 8; f++ {
			ch := byte('.')
			if p := b.At(engine.Sq(f, r)); p != nil {
				ch = p.Kind().Letter(p.Color())
			}
			sb.WriteByte(ch)
			if f < 7 {
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("  a b c d e f g h\n")
	fmt.Fprintf(&sb, "%s\n", b.FEN())
	return sb.String()
}

func (c *Console) perft(args []string) {
	opts := options(args, "depth", "searchmoves")
	depth, err := intOption(opts, "depth", 0)
	if err == nil && depth < 1 {
		err = errors.New("perft needs a positive depth")
	}
	if err != nil {
		c.errorf("%v", err)
		return
	}
	moves := opts["searchmoves"]
	rt := c.m.Runtime()
	c.printf("info string Threads used: %d\n", rt.Threads())
	rt.Go("perft", func() {
		res, err := c.m.Perft(depth, moves)
		if err != nil {
			c.errorf("%v", err)
			return
		}
		if res.Partial {
			c.colorf(c.warn, "Search aborted! Nodes found so far:\n")
		}
		for _, d := range res.Divide {
			c.printf("%s: %d\n", d.Move, d.Nodes)
		}
		secs := res.Elapsed.Seconds()
		c.printf("\nNodes:\t%d\nTime:\t%.3fs\n", res.Nodes, secs)
		if secs > 0 {
			c.printf("Speed:\t%.0f nodes/s\n", float64(res.Nodes)/secs)
		}
		c.printf("\n")
	})
}

func (c *Console) goCmd(args []string) {
	opts := options(args, "depth", "searchmoves", "bottype")
	turn := c.m.Turn()
	if turn > engine.Black {
		c.errorf("the game is over")
		return
	}
	depth, strategy := c.m.Depth(), bot.OptimumFull
	if bt := c.m.Player(turn).Bot; bt != nil {
		depth, strategy = bt.Depth(), bt.Strategy()
	}
	depth, err := intOption(opts, "depth", depth)
	if err != nil {
		c.errorf("%v", err)
		return
	}
	if vals := opts["bottype"]; len(vals) > 0 {
		strategy, err = bot.ParseStrategy(vals[0])
		if err != nil {
			c.colorf(c.warn, "info Warning: Unknown Bottype! Master-Bot will be used.\n")
			strategy = bot.OptimumFull
		}
	}
	moves := opts["searchmoves"]
	if len(moves) > 0 && strategy != bot.OptimumFull {
		c.colorf(c.warn, "info Warning: Only the master bot can make use of searchmoves!\n")
		moves = nil
	}

	c.m.Runtime().Go("go", func() {
		var (
			best string
			err  error
		)
		if strategy == bot.OptimumFull {
			var res search.Result
			best, res, err = c.m.BestMove(depth, moves)
			if err == nil && res.Found {
				c.printf("info depth %d score cp %d nodes %d\n", depth, res.Score, res.Nodes)
			}
		} else {
			best, err = c.m.Suggest(strategy.String(), depth)
		}
		if err != nil {
			c.errorf("%v", err)
			return
		}
		if c.m.Runtime().Stopped() {
			return
		}
		c.printf("bestmove %s\n\n", best)
	})
}

func (c *Console) botCmd(args []string) {
	if len(args) < 2 {
		c.errorf("usage: bot <white|black> <%s|%s> [depth]", Human, strings.Join(strategyNames(), "|"))
		return
	}
	col, err := engine.ParseColor(args[0])
	if err != nil {
		c.errorf("%v", err)
		return
	}
	depth := c.m.Depth()
	if len(args) > 2 {
		if depth, err = strconv.Atoi(args[2]); err != nil {
			c.errorf("invalid depth %q", args[2])
			return
		}
	}
	if err := c.m.ConfigureBot(col, args[1], depth); err != nil {
		c.errorf("%v", err)
		return
	}
	c.printf("%s\n", c.m.Player(col))
}

func strategyNames() []string {
	var names []string
	for _, s := range bot.Strategies() {
		names = append(names, s.String())
	}
	return names
}

// play lets the bots move until a human is to move or the game ends.
func (c *Console) play() {
	rt := c.m.Runtime()
	rt.Go("play", func() {
		for !rt.Stopped() {
			if c.m.ExecuteBotMove() {
				moves := c.m.Moves()
				c.printf("%s\n", moves[len(moves)-1])
				c.printStatus()
				continue
			}
			if _, err := c.m.RequestBotMove(); err != nil {
				return
			}
			time.Sleep(10 * time.Millisecond)
		}
	})
}

func (c *Console) gotoCmd(args []string) {
	if len(args) == 0 {
		c.errorf("goto needs a history index")
		return
	}
	i, err := strconv.Atoi(args[0])
	if err != nil {
		c.errorf("invalid history index %q", args[0])
		return
	}
	c.report(c.m.GoTo(i))
}

func (c *Console) draw(args []string) {
	if len(args) == 0 {
		c.errorf("usage: draw accept|decline")
		return
	}
	var ok bool
	switch args[0] {
	case "accept":
		ok = c.m.AcceptDraw()
	case "decline":
		ok = c.m.DeclineDraw()
	default:
		c.errorf("usage: draw accept|decline")
		return
	}
	if !ok {
		c.errorf("no draw on offer")
		return
	}
	c.printStatus()
}

func (c *Console) pgn() {
	text, err := PGN(c.m.Record())
	if err != nil {
		c.errorf("%v", err)
		return
	}
	c.printf("%s\n", text)
}

func (c *Console) save(args []string) {
	if !c.Files || len(args) == 0 {
		c.errorf("usage: save <file>")
		return
	}
	data, err := c.m.Record().Encode()
	if err == nil {
		err = os.WriteFile(args[0], data, 0644)
	}
	if err != nil {
		c.errorf("%v", err)
	}
}

func (c *Console) load(args []string) {
	if !c.Files || len(args) == 0 {
		c.errorf("usage: load <file>")
		return
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		c.errorf("%v", err)
		return
	}
	r, err := DecodeRecord(data)
	if err == nil {
		err = c.m.LoadRecord(r)
	}
	if err != nil {
		c.errorf("%v", err)
		return
	}
	c.printStatus()
}

var helpText = []struct{ cmd, desc string }{
	{"quit, q, exit, close", "Close the program."},
	{"stop", "Abort all ongoing calculations."},
	{"isready", "Answer readyok."},
	{"go [depth N] [bottype NAME] [searchmoves M1 M2 ...]", "Let the engine calculate the next move. searchmoves only works for the master bot."},
	{"position startpos|testpos N|fen FEN [moves M1 M2 ...]", "Set up a position, then play the moves."},
	{"d [board] [movementrange] [attackrange]", "Show the board, the danger zones or the attack zones."},
	{"perft depth N [searchmoves M1 M2 ...]", "Count the positions after N moves."},
	{"bot white|black TYPE [depth]", "Hand a side to a bot (random, metro, fool, jester, novice, master) or to a human."},
	{"play", "Let the bots move until a human is to move."},
	{"move M1 M2 ... or just M", "Play moves in UCI notation."},
	{"undo, redo, goto N, reset", "Walk the game history."},
	{"draw accept|decline", "Answer a draw offer."},
	{"fen, eval, legal, status, players, pgn", "Show the position, score, legal moves, status, players or the game."},
	{"save FILE, load FILE", "Store or restore the game as JSON."},
}

func (c *Console) help() {
	for _, h := range helpText {
		c.colorf(c.info, "%s\n", h.cmd)
		c.printf("\t%s\n", h.desc)
	}
}
