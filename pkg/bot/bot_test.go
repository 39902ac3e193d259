package bot

import (
	"testing"
	"time"

	"github.com/qnkhuat/gochess/pkg/engine"
	"github.com/qnkhuat/gochess/pkg/search"
	"github.com/rs/zerolog"
)

func newRuntime() *search.Runtime {
	return search.NewRuntime(2, 7, zerolog.Nop())
}

func isLegal(b *engine.Board, m engine.Move) bool {
	for _, l := range b.LegalMoves(b.Turn()) {
		if l == m {
			return true
		}
	}
	return false
}

func TestParseStrategy(t *testing.T) {
	for _, s := range Strategies() {
		got, err := ParseStrategy(s.String())
		if err != nil || got != s {
			t.Errorf("ParseStrategy(%q) = %v, %v", s.String(), got, err)
		}
	}
	if _, err := ParseStrategy("grandmaster"); err == nil {
		t.Error("unknown strategy accepted")
	}
}

func TestConfigure(t *testing.T) {
	rt := newRuntime()
	if _, err := New(rt, engine.White, OptimumFull, MaxDepth+1); err == nil {
		t.Error("depth above the maximum accepted")
	}
	if _, err := New(rt, engine.NoColor, Random, 1); err == nil {
		t.Error("bot without a side accepted")
	}
	bt, err := New(rt, engine.White, Random, 1)
	if err != nil {
		t.Fatal(err)
	}
	if err := bt.Configure(engine.Black, Metropolis, 3); err != nil {
		t.Fatal(err)
	}
	if bt.Color() != engine.Black || bt.Strategy() != Metropolis || bt.Depth() != 3 {
		t.Errorf("configured %v %v %d", bt.Color(), bt.Strategy(), bt.Depth())
	}
}

func TestStrategiesPlayLegalMoves(t *testing.T) {
	rt := newRuntime()
	for _, s := range Strategies() {
		b := engine.New()
		bt, err := New(rt, engine.White, s, 1)
		if err != nil {
			t.Fatal(err)
		}
		m, ok := bt.Choose(b.Clone())
		if !ok {
			t.Errorf("%v found no move", s)
			continue
		}
		if !isLegal(b, m) {
			t.Errorf("%v chose illegal %s", s, b.UCI(m))
		}
	}
}

func TestOptimumTakesMate(t *testing.T) {
	b := engine.New()
	if err := b.LoadFEN("6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1"); err != nil {
		t.Fatal(err)
	}
	bt, err := New(newRuntime(), engine.White, OptimumFull, 2)
	if err != nil {
		t.Fatal(err)
	}
	m, ok := bt.Choose(b.Clone())
	if !ok || b.UCI(m) != "a1a8" {
		t.Errorf("chose %s, want a1a8", b.UCI(m))
	}
}

func TestChooseWrongTurn(t *testing.T) {
	bt, err := New(newRuntime(), engine.Black, Random, 1)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := bt.Choose(engine.New()); ok {
		t.Error("black bot moved on white's turn")
	}
}

func TestRequestAndExecute(t *testing.T) {
	rt := newRuntime()
	b := engine.New()
	bt, err := New(rt, engine.White, WeightedMove, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !bt.RequestMove(b) {
		t.Fatal("RequestMove refused")
	}
	if bt.RequestMove(b) {
		t.Error("second request started while busy or ready")
	}
	rt.Wait()
	if !bt.Ready() || bt.Searching() {
		t.Fatalf("ready %v searching %v after the worker finished", bt.Ready(), bt.Searching())
	}
	if !bt.Execute(b) {
		t.Fatal("Execute failed")
	}
	if b.Turn() != engine.Black || b.HistoryLen() != 2 {
		t.Errorf("turn %v history %d after the bot move", b.Turn(), b.HistoryLen())
	}
	if bt.Ready() || bt.Execute(b) {
		t.Error("result played twice")
	}
}

func TestExecuteStaleMove(t *testing.T) {
	rt := newRuntime()
	b := engine.New()
	bt, err := New(rt, engine.White, Random, 1)
	if err != nil {
		t.Fatal(err)
	}
	bt.RequestMove(b)
	rt.Wait()
	m, _ := b.ParseMove("e2e4")
	b.AttemptMove(m)
	if bt.Execute(b) {
		t.Error("stale move played on black's turn")
	}
	if b.HistoryLen() != 2 {
		t.Errorf("history %d, want 2", b.HistoryLen())
	}
}

func TestStopAbandonsSearch(t *testing.T) {
	rt := search.NewRuntime(1, 1, zerolog.Nop())
	b := engine.New()
	bt, err := New(rt, engine.White, OptimumFull, 8)
	if err != nil {
		t.Fatal(err)
	}
	bt.RequestMove(b)
	time.Sleep(20 * time.Millisecond)
	rt.Stop()
	if bt.Searching() || bt.Ready() {
		t.Errorf("searching %v ready %v after Stop", bt.Searching(), bt.Ready())
	}
}
