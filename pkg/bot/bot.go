package bot

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/qnkhuat/gochess/pkg/engine"
	"github.com/qnkhuat/gochess/pkg/search"
	"github.com/rs/zerolog"
)

const (
	MaxDepth     = 12
	DefaultDepth = 4
)

var ErrBusy = errors.New("bot is already searching")

// Bot picks moves for one side. Searches run on a snapshot of the board in
// a worker registered with the runtime; the result is only played when
// Execute is called with the live board.
type Bot struct {
	rt  *search.Runtime
	log zerolog.Logger

	mu       sync.Mutex
	color    engine.Color
	strategy Strategy
	depth    int
	workers  int
	next     engine.Move

	searching atomic.Bool
	ready     atomic.Bool
}

func New(rt *search.Runtime, color engine.Color, strategy Strategy, depth int) (*Bot, error) {
	bt := &Bot{
		rt:      rt,
		log:     rt.Logger().With().Str("component", "bot").Logger(),
		workers: rt.Threads(),
	}
	if err := bt.Configure(color, strategy, depth); err != nil {
		return nil, err
	}
	return bt, nil
}

// Configure changes the side, strategy and depth of an idle bot.
func (bt *Bot) Configure(color engine.Color, strategy Strategy, depth int) error {
	if color > engine.Black {
		return fmt.Errorf("bot needs a side, got %v", color)
	}
	if strategy < Random || strategy > OptimumFull {
		return fmt.Errorf("unknown bot strategy %d", strategy)
	}
	if depth < 0 || depth > MaxDepth {
		return fmt.Errorf("bot depth %d out of range 0..%d", depth, MaxDepth)
	}
	if bt.searching.Load() {
		return ErrBusy
	}
	bt.mu.Lock()
	defer bt.mu.Unlock()
	bt.color = color
	bt.strategy = strategy
	bt.depth = depth
	return nil
}

// SetWorkers bounds how many goroutines one search may use.
func (bt *Bot) SetWorkers(n int) {
	if n < 1 {
		n = 1
	}
	bt.mu.Lock()
	bt.workers = n
	bt.mu.Unlock()
}

func (bt *Bot) Color() engine.Color {
	bt.mu.Lock()
	defer bt.mu.Unlock()
	return bt.color
}

func (bt *Bot) Strategy() Strategy {
	bt.mu.Lock()
	defer bt.mu.Unlock()
	return bt.strategy
}

func (bt *Bot) Depth() int {
	bt.mu.Lock()
	defer bt.mu.Unlock()
	return bt.depth
}

func (bt *Bot) Searching() bool { return bt.searching.Load() }
func (bt *Bot) Ready() bool     { return bt.ready.Load() }

// Move returns the chosen move once the search has finished.
func (bt *Bot) Move() (engine.Move, bool) {
	if !bt.ready.Load() {
		return engine.Move{}, false
	}
	bt.mu.Lock()
	defer bt.mu.Unlock()
	return bt.next, true
}

// Reset drops a finished result.
func (bt *Bot) Reset() {
	bt.ready.Store(false)
}

// RequestMove starts a search on a snapshot of b when it is the bot's turn
// and no search is running. It reports whether a search was started.
func (bt *Bot) RequestMove(b *engine.Board) bool {
	if b.Turn() != bt.Color() || bt.ready.Load() {
		return false
	}
	if !bt.searching.CompareAndSwap(false, true) {
		return false
	}
	snapshot := b.Clone()
	bt.rt.Go("bot-"+bt.Color().String(), func() {
		defer bt.searching.Store(false)
		m, ok := bt.Choose(snapshot)
		if !ok || bt.rt.Stopped() {
			return
		}
		bt.mu.Lock()
		bt.next = m
		bt.mu.Unlock()
		bt.ready.Store(true)
	})
	return true
}

// Execute plays the prepared move on b. A move that is no longer legal is
// logged and dropped.
func (bt *Bot) Execute(b *engine.Board) bool {
	m, ok := bt.Move()
	if !ok {
		return false
	}
	bt.Reset()
	if b.Turn() != bt.Color() {
		bt.log.Error().Str("move", b.UCI(m)).Msg("bot move prepared for the wrong turn")
		return false
	}
	return b.MakeMove(m)
}

// Choose runs the configured strategy synchronously on b, which it may use
// as scratch. It reports false when the side has no legal move.
func (bt *Bot) Choose(b *engine.Board) (engine.Move, bool) {
	bt.mu.Lock()
	color, strategy, depth, workers := bt.color, bt.strategy, bt.depth, bt.workers
	bt.mu.Unlock()

	legal := b.LegalMoves(color)
	if len(legal) == 0 || b.Turn() != color {
		return engine.Move{}, false
	}
	c := chooser{rt: bt.rt, b: b, color: color, depth: depth, workers: workers, legal: legal}
	var m engine.Move
	switch strategy {
	case Random:
		m = c.random()
	case Metropolis:
		m = c.metropolis()
	case WeightedPiece:
		m = c.weighted(c.randomPieceMoves())
	case WeightedMove:
		m = c.weighted(legal)
	case OptimumPiece:
		m = c.optimum(c.randomPieceMoves())
	case OptimumFull:
		m = c.optimum(legal)
	}
	bt.log.Debug().
		Str("strategy", strategy.String()).
		Int("depth", depth).
		Str("move", b.UCI(m)).
		Msg("bot chose move")
	return m, true
}
