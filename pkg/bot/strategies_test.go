package bot

import (
	"testing"

	"github.com/qnkhuat/gochess/pkg/engine"
)

// loneKnight leaves white a single movable piece: the king is boxed in and
// the pawn is blocked, so only the knight on h1 can move.
const loneKnight = "1r5k/8/8/8/8/p7/P7/K6N w - - 0 1"

// hangingQueen lets the knight on c3 take an undefended queen.
const hangingQueen = "7k/8/8/3q4/8/2N5/8/K7 w - - 0 1"

func newChooser(t *testing.T, fen string, accept func(float64) bool) *chooser {
	t.Helper()
	b := engine.New()
	if err := b.LoadFEN(fen); err != nil {
		t.Fatal(err)
	}
	return &chooser{
		rt:      newRuntime(),
		b:       b,
		color:   b.Turn(),
		depth:   1,
		workers: 2,
		legal:   b.LegalMoves(b.Turn()),
		accept:  accept,
	}
}

func never(float64) bool { return false }

func TestAcceptance(t *testing.T) {
	tests := []struct {
		current, score int
		always         bool
	}{
		{0, 0, true},
		{100, 100, true},
		{100, 250, true},
		{-300, -100, true},
		{-300, 50, true},
		{100, 50, false},
		{50, -100, false},
		{-100, -300, false},
	}
	for _, tt := range tests {
		p := acceptance(tt.current, tt.score)
		if got := p >= 1; got != tt.always {
			t.Errorf("acceptance(%d, %d) = %v, always accepted %v want %v", tt.current, tt.score, p, got, tt.always)
		}
		if p <= 0 {
			t.Errorf("acceptance(%d, %d) = %v, want positive", tt.current, tt.score, p)
		}
	}
}

func TestWeightedFallsBackToBest(t *testing.T) {
	c := newChooser(t, hangingQueen, never)
	m := c.weighted(c.legal)
	if got := c.b.UCI(m); got != "c3d5" {
		t.Errorf("weighted fallback chose %s, want c3d5", got)
	}

	scores := c.scores(c.legal)
	best := 0
	for i := range scores {
		if scores[i] > scores[best] {
			best = i
		}
	}
	if c.legal[best] != m {
		t.Errorf("fallback %s is not the best scored move %s", c.b.UCI(m), c.b.UCI(c.legal[best]))
	}
}

func TestWeightedAcceptsFirstDraw(t *testing.T) {
	c := newChooser(t, hangingQueen, func(float64) bool { return true })
	for i := 0; i < 10; i++ {
		if m := c.weighted(c.legal); !isLegal(c.b, m) {
			t.Fatalf("chose illegal %s", c.b.UCI(m))
		}
	}
}

func TestMetropolisWithoutLuck(t *testing.T) {
	c := newChooser(t, loneKnight, never)
	if len(c.legal) != 2 {
		t.Fatalf("%d legal moves, want 2", len(c.legal))
	}
	for i := 0; i < 10; i++ {
		m := c.metropolis()
		if m.From != engine.Sq(7, 0) {
			t.Fatalf("metropolis chose %s", c.b.UCI(m))
		}
	}
}

func TestRandomPieceMoves(t *testing.T) {
	c := newChooser(t, engine.StartFEN, nil)
	for i := 0; i < 20; i++ {
		moves := c.randomPieceMoves()
		if len(moves) == 0 {
			t.Fatal("no moves")
		}
		for _, m := range moves[1:] {
			if m.From != moves[0].From {
				t.Fatalf("moves of several pieces: %s and %s", c.b.UCI(moves[0]), c.b.UCI(m))
			}
		}
	}
}

func TestPieceStrategiesMoveTheMovablePiece(t *testing.T) {
	for _, s := range []Strategy{WeightedPiece, OptimumPiece} {
		b := engine.New()
		if err := b.LoadFEN(loneKnight); err != nil {
			t.Fatal(err)
		}
		if n := len(b.MovablePieces(engine.White)); n != 1 {
			t.Fatalf("%d movable pieces, want 1", n)
		}
		bt, err := New(newRuntime(), engine.White, s, 1)
		if err != nil {
			t.Fatal(err)
		}
		m, ok := bt.Choose(b.Clone())
		if !ok || m.From != engine.Sq(7, 0) {
			t.Errorf("%v chose %s, want a knight move", s, b.UCI(m))
		}
	}
}
