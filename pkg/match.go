package pkg

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	petname "github.com/dustinkirkland/golang-petname"
	"github.com/qnkhuat/gochess/pkg/bot"
	"github.com/qnkhuat/gochess/pkg/engine"
	"github.com/qnkhuat/gochess/pkg/search"
	"github.com/rs/zerolog"
)

var (
	ErrIllegalMove = errors.New("illegal move")
	ErrNotBotTurn  = errors.New("side to move is not played by a bot")
)

// Human is the strategy name that hands a colour to a person.
const Human = "human"

type Config struct {
	Event   string
	Threads int
	Seed    int64
	Depth   int
	// White and Black name a bot strategy, or Human.
	White, Black string
	Logger       zerolog.Logger
}

// Match is one game session: the live board, the runtime its searches run
// on, and who plays each colour. All methods are safe for concurrent use.
type Match struct {
	Name  string
	Event string

	mu      sync.Mutex
	board   *engine.Board
	rt      *search.Runtime
	players [2]*Player
	clocks  [2]*Clock
	depth   int
	log     zerolog.Logger
}

func NewMatch(cfg Config) (*Match, error) {
	if cfg.Threads < 1 {
		cfg.Threads = runtime.NumCPU()
	}
	if cfg.Depth == 0 {
		cfg.Depth = bot.DefaultDepth
	}
	name := petname.Generate(3, "-")
	log := cfg.Logger.With().Str("match", name).Logger()
	m := &Match{
		Name:  name,
		Event: cfg.Event,
		board: engine.New(engine.WithLogger(log)),
		rt:    search.NewRuntime(cfg.Threads, cfg.Seed, log),
		depth: cfg.Depth,
		log:   log,
	}
	for c := engine.White; c <= engine.Black; c++ {
		m.players[c] = NewPlayer(c)
		m.clocks[c] = NewClock()
	}
	for c, strategy := range [...]string{cfg.White, cfg.Black} {
		if err := m.ConfigureBot(engine.Color(c), strategy, cfg.Depth); err != nil {
			m.rt.Close()
			return nil, err
		}
	}
	m.tick()
	m.log.Info().Str("white", m.players[engine.White].String()).Str("black", m.players[engine.Black].String()).Msg("match created")
	return m, nil
}

// Close stops every search of the match.
func (m *Match) Close() {
	m.rt.Close()
}

func (m *Match) Runtime() *search.Runtime {
	return m.rt
}

// tick runs the clock of the side to move and pauses the other one.
func (m *Match) tick() {
	turn := m.board.Turn()
	for c := engine.White; c <= engine.Black; c++ {
		if c == turn {
			m.clocks[c].Start()
		} else {
			m.clocks[c].Pause()
		}
	}
}

// positionChanged drops bot work that belongs to the previous position.
func (m *Match) positionChanged() {
	for _, p := range m.players {
		if p.Bot != nil {
			p.Bot.Reset()
		}
	}
	m.tick()
}

func (m *Match) loaded() {
	for _, cl := range m.clocks {
		cl.Reset()
	}
	m.positionChanged()
}

func (m *Match) LoadStart() {
	m.Abort()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.board.LoadStart()
	m.loaded()
}

func (m *Match) LoadFEN(fen string) error {
	m.Abort()
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.board.LoadFEN(fen); err != nil {
		return err
	}
	m.loaded()
	return nil
}

// LoadTestpos loads test position i, counted from 1.
func (m *Match) LoadTestpos(i int) error {
	fen, err := Testpos(i)
	if err != nil {
		return err
	}
	return m.LoadFEN(fen)
}

// Reset goes back to the loaded position and forgets the moves.
func (m *Match) Reset() {
	m.Abort()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.board.Reset()
	m.loaded()
}

// Move plays one move given in UCI notation.
func (m *Match) Move(uci string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.move(uci)
}

func (m *Match) move(uci string) error {
	mv, err := m.board.ParseMove(uci)
	if err != nil {
		return err
	}
	if !m.board.AttemptMove(mv) {
		return fmt.Errorf("%w: %s", ErrIllegalMove, uci)
	}
	m.log.Debug().Str("move", uci).Int("ply", m.board.Ply()).Msg("move played")
	m.positionChanged()
	return nil
}

// PlayMoves plays a whitespace separated list of UCI moves, stopping at the
// first one that fails.
func (m *Match) PlayMoves(list string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range strings.Fields(list) {
		if err := m.move(s); err != nil {
			return err
		}
	}
	return nil
}

func (m *Match) Undo() error {
	return m.GoTo(m.HistoryIndex() - 1)
}

func (m *Match) Redo() error {
	return m.GoTo(m.HistoryIndex() + 1)
}

func (m *Match) GoTo(i int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.board.GoTo(i); err != nil {
		return err
	}
	m.positionChanged()
	return nil
}

func (m *Match) HistoryIndex() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.board.HistoryIndex()
}

func (m *Match) HistoryLen() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.board.HistoryLen()
}

// Moves lists the moves leading to the current position in UCI notation.
func (m *Match) Moves() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.board.PlayedUCI()
}

func (m *Match) FEN() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.board.FEN()
}

func (m *Match) Turn() engine.Color {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.board.Turn()
}

// Legal lists the legal moves of c in UCI notation.
func (m *Match) Legal(c engine.Color) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	moves := m.board.LegalMoves(c)
	out := make([]string, len(moves))
	for i, mv := range moves {
		out[i] = m.board.UCI(mv)
	}
	return out
}

// Score is the static evaluation from white's point of view.
func (m *Match) Score() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.board.Evaluate()
}

func (m *Match) Status() engine.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.board.Status()
}

// Square returns a copy of the piece on sq.
func (m *Match) Square(sq engine.Square) (engine.Piece, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.board.At(sq)
	if p == nil {
		return engine.Piece{}, false
	}
	return *p, true
}

func (m *Match) Movement(sq engine.Square) engine.Bitboard {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.board.Movement(sq)
}

func (m *Match) AttackZone(c engine.Color) engine.Bitboard {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.board.AttackZone(c)
}

func (m *Match) DangerZone(c engine.Color) engine.Bitboard {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.board.DangerZone(c)
}

// Snapshot copies the current position into a board the caller owns.
func (m *Match) Snapshot() *engine.Board {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.board.Clone()
}

func (m *Match) AcceptDraw() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.board.AcceptDraw() {
		return false
	}
	m.positionChanged()
	return true
}

func (m *Match) DeclineDraw() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.board.DeclineDraw()
}

func (m *Match) Player(c engine.Color) *Player {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c > engine.Black {
		return nil
	}
	return m.players[c]
}

func (m *Match) Clock(c engine.Color) *Clock {
	if c > engine.Black {
		return nil
	}
	return m.clocks[c]
}

// ConfigureBot hands c to a bot with the given strategy and depth, or to a
// human when strategy is empty or Human.
func (m *Match) ConfigureBot(c engine.Color, strategy string, depth int) error {
	if c > engine.Black {
		return fmt.Errorf("no seat for %v", c)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.players[c]
	if strategy == "" || strategy == Human {
		if p.Bot != nil && p.Bot.Searching() {
			return bot.ErrBusy
		}
		p.Bot = nil
		return nil
	}
	s, err := bot.ParseStrategy(strategy)
	if err != nil {
		return err
	}
	if p.Bot != nil {
		return p.Bot.Configure(c, s, depth)
	}
	bt, err := bot.New(m.rt, c, s, depth)
	if err != nil {
		return err
	}
	p.Bot = bt
	return nil
}

func (m *Match) botToMove() *bot.Bot {
	turn := m.board.Turn()
	if turn > engine.Black {
		return nil
	}
	return m.players[turn].Bot
}

// RequestBotMove starts the search of the bot to move. It reports whether
// a new search was started.
func (m *Match) RequestBotMove() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	bt := m.botToMove()
	if bt == nil {
		return false, ErrNotBotTurn
	}
	return bt.RequestMove(m.board), nil
}

func (m *Match) BotReady() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	bt := m.botToMove()
	return bt != nil && bt.Ready()
}

// ExecuteBotMove plays the move the bot to move has prepared.
func (m *Match) ExecuteBotMove() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	bt := m.botToMove()
	if bt == nil {
		return false
	}
	if !bt.Execute(m.board) {
		return false
	}
	m.positionChanged()
	return true
}

// PollBot drives the bot to move one step: it plays a prepared move, or
// starts a search when none is running. It reports whether a move was
// played.
func (m *Match) PollBot() bool {
	if m.ExecuteBotMove() {
		return true
	}
	m.RequestBotMove()
	return false
}

// Abort stops every running search and drops their results.
func (m *Match) Abort() {
	m.rt.Stop()
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.players {
		if p.Bot != nil {
			p.Bot.Reset()
		}
	}
}

// wait runs fn on a runtime worker and blocks until it returns, so Abort
// reaches every search the match starts.
func (m *Match) wait(name string, fn func()) {
	done := make(chan struct{})
	m.rt.Go(name, func() {
		defer close(done)
		fn()
	})
	<-done
}

func (m *Match) parseMoves(b *engine.Board, list []string) ([]engine.Move, error) {
	if len(list) == 0 {
		return b.LegalMoves(b.Turn()), nil
	}
	return b.ParseMoves(strings.Join(list, " "))
}

// PerftReport is a perft result with the root moves in UCI notation.
type PerftReport struct {
	Nodes   uint64
	Divide  []DivideCount
	Partial bool
	Elapsed time.Duration
}

type DivideCount struct {
	Move  string
	Nodes uint64
}

// Perft counts the leaf positions depth plies below the current one,
// starting with moves (every legal move when empty). It blocks until done
// or stopped.
func (m *Match) Perft(depth int, moves []string) (PerftReport, error) {
	if depth < 1 {
		return PerftReport{}, fmt.Errorf("perft depth %d must be positive", depth)
	}
	b := m.Snapshot()
	list, err := m.parseMoves(b, moves)
	if err != nil {
		return PerftReport{}, err
	}
	start := time.Now()
	var res search.PerftResult
	m.wait("perft", func() {
		res = search.Perft(m.rt, b, depth, list, m.rt.Threads())
	})
	report := PerftReport{
		Nodes:   res.Nodes,
		Divide:  make([]DivideCount, len(res.Divide)),
		Partial: res.Partial,
		Elapsed: time.Since(start),
	}
	for i, mc := range res.Divide {
		report.Divide[i] = DivideCount{Move: b.UCI(mc.Move), Nodes: mc.Nodes}
	}
	m.log.Info().Int("depth", depth).Uint64("nodes", res.Nodes).Bool("partial", res.Partial).Dur("elapsed", report.Elapsed).Msg("perft")
	return report, nil
}

// BestMove searches moves (every legal move when empty) to depth plies and
// returns the best one in UCI notation.
func (m *Match) BestMove(depth int, moves []string) (string, search.Result, error) {
	if depth < 1 || depth > bot.MaxDepth {
		return "", search.Result{}, fmt.Errorf("search depth %d out of range 1..%d", depth, bot.MaxDepth)
	}
	b := m.Snapshot()
	list, err := m.parseMoves(b, moves)
	if err != nil {
		return "", search.Result{}, err
	}
	var res search.Result
	m.wait("best", func() {
		res = search.Best(m.rt, b, list, depth, m.rt.Threads())
	})
	if !res.Found {
		return "", res, nil
	}
	return b.UCI(res.Move), res, nil
}

// Suggest asks a throwaway bot with the given strategy for a move. The move
// is empty when the side to move has none or the search was aborted.
func (m *Match) Suggest(strategy string, depth int) (string, error) {
	s, err := bot.ParseStrategy(strategy)
	if err != nil {
		return "", err
	}
	b := m.Snapshot()
	bt, err := bot.New(m.rt, b.Turn(), s, depth)
	if err != nil {
		return "", err
	}
	var (
		mv engine.Move
		ok bool
	)
	m.wait("suggest", func() {
		mv, ok = bt.Choose(b.Clone())
		ok = ok && !m.rt.Stopped()
	})
	if !ok {
		return "", nil
	}
	return b.UCI(mv), nil
}

// Depth is the default search depth of the match.
func (m *Match) Depth() int {
	return m.depth
}

func (m *Match) Record() Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := m.board.Status()
	return Record{
		Event:  m.Event,
		White:  m.players[engine.White].Name,
		Black:  m.players[engine.Black].Name,
		FEN:    m.board.LoadedFEN(),
		Moves:  m.board.PlayedUCI(),
		Result: ResultOf(st),
		Text:   st.Text,
	}
}

// LoadRecord replaces the game with r. On error the match is unchanged.
func (m *Match) LoadRecord(r Record) error {
	b := engine.New(engine.WithLogger(m.log))
	if err := r.Replay(b); err != nil {
		return err
	}
	m.Abort()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.board = b
	if r.White != "" {
		m.players[engine.White].Name = r.White
	}
	if r.Black != "" {
		m.players[engine.Black].Name = r.Black
	}
	if r.Event != "" {
		m.Event = r.Event
	}
	m.loaded()
	return nil
}
