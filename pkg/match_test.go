package pkg

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/qnkhuat/gochess/pkg/engine"
	"github.com/rs/zerolog"
)

const foolsMate = "f2f3 e7e5 g2g4 d8h4"

func newMatch(t *testing.T, cfg Config) *Match {
	t.Helper()
	if cfg.Threads == 0 {
		cfg.Threads = 2
	}
	cfg.Seed = 1
	cfg.Logger = zerolog.Nop()
	m, err := NewMatch(cfg)
	if err != nil {
		t.Fatalf("NewMatch: %v", err)
	}
	t.Cleanup(m.Close)
	return m
}

func TestMatchMoves(t *testing.T) {
	m := newMatch(t, Config{})
	if err := m.Move("e2e4"); err != nil {
		t.Fatal(err)
	}
	if err := m.Move("e7e4"); !errors.Is(err, ErrIllegalMove) {
		t.Errorf("e7e4 gave %v, want ErrIllegalMove", err)
	}
	if err := m.Move("e3e4"); err == nil {
		t.Error("move from an empty square accepted")
	}
	if err := m.PlayMoves("e7e5 g1f3"); err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(m.Moves(), " "); got != "e2e4 e7e5 g1f3" {
		t.Errorf("Moves() = %q", got)
	}
	if m.Turn() != engine.Black {
		t.Errorf("turn %v, want black", m.Turn())
	}

	if err := m.Undo(); err != nil {
		t.Fatal(err)
	}
	if err := m.Undo(); err != nil {
		t.Fatal(err)
	}
	if got, want := m.FEN(), "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1"; got != want {
		t.Errorf("FEN after undo = %q, want %q", got, want)
	}
	if err := m.Redo(); err != nil {
		t.Fatal(err)
	}
	if m.HistoryIndex() != 2 || m.HistoryLen() != 4 {
		t.Errorf("index %d len %d, want 2 and 4", m.HistoryIndex(), m.HistoryLen())
	}
	if err := m.GoTo(10); err == nil {
		t.Error("GoTo past the end accepted")
	}

	m.Reset()
	if m.FEN() != engine.StartFEN || m.HistoryLen() != 1 {
		t.Errorf("reset left %s with %d snapshots", m.FEN(), m.HistoryLen())
	}
}

func TestMatchQueries(t *testing.T) {
	m := newMatch(t, Config{})
	if n := len(m.Legal(engine.White)); n != 20 {
		t.Errorf("%d legal moves, want 20", n)
	}
	p, ok := m.Square(engine.Sq(4, 0))
	if !ok || p.Kind() != engine.King || p.Color() != engine.White {
		t.Errorf("e1 holds %v %v", p.Kind(), p.Color())
	}
	if _, ok := m.Square(engine.Sq(4, 3)); ok {
		t.Error("e4 is not empty")
	}
	if got := m.Movement(engine.Sq(6, 0)).Count(); got != 2 {
		t.Errorf("g1 knight has %d moves, want 2", got)
	}
	if !m.AttackZone(engine.White).Has(engine.Sq(4, 2)) {
		t.Error("white does not attack e3")
	}
	if m.Score() != 0 {
		t.Errorf("start position scores %d", m.Score())
	}
}

func TestMatchLoad(t *testing.T) {
	m := newMatch(t, Config{})
	if err := m.LoadTestpos(7); err == nil {
		t.Error("test position 7 accepted")
	}
	if err := m.LoadTestpos(2); err != nil {
		t.Fatal(err)
	}
	if m.FEN() != TestPositions[1] {
		t.Errorf("FEN() = %q", m.FEN())
	}
	if err := m.LoadFEN("8/8/8/8 w - - 0 1"); err == nil {
		t.Error("short FEN accepted")
	}
	if m.FEN() != TestPositions[1] {
		t.Error("bad FEN changed the position")
	}
	m.LoadStart()
	if m.FEN() != engine.StartFEN {
		t.Errorf("FEN() = %q", m.FEN())
	}
}

func TestMatchBots(t *testing.T) {
	m := newMatch(t, Config{White: "master", Depth: 1})
	if m.Player(engine.White).Human() || !m.Player(engine.Black).Human() {
		t.Fatal("white should be a bot and black a human")
	}
	started, err := m.RequestBotMove()
	if err != nil || !started {
		t.Fatalf("RequestBotMove = %v, %v", started, err)
	}
	m.Runtime().Wait()
	if !m.BotReady() {
		t.Fatal("bot not ready after its search")
	}
	if !m.ExecuteBotMove() {
		t.Fatal("bot move not played")
	}
	if m.Turn() != engine.Black || len(m.Moves()) != 1 {
		t.Errorf("turn %v moves %v", m.Turn(), m.Moves())
	}
	if _, err := m.RequestBotMove(); !errors.Is(err, ErrNotBotTurn) {
		t.Errorf("black bot request gave %v", err)
	}

	if err := m.ConfigureBot(engine.Black, "grandmaster", 1); err == nil {
		t.Error("unknown strategy accepted")
	}
	if err := m.ConfigureBot(engine.Black, "random", 1); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 1000 && !m.PollBot(); i++ {
		m.Runtime().Wait()
	}
	if m.Turn() != engine.White {
		t.Errorf("black bot did not move, turn %v", m.Turn())
	}
	if err := m.ConfigureBot(engine.White, Human, 0); err != nil {
		t.Fatal(err)
	}
	if !m.Player(engine.White).Human() {
		t.Error("white still a bot")
	}
}

func TestMatchSearch(t *testing.T) {
	m := newMatch(t, Config{})
	res, err := m.Perft(2, nil)
	if err != nil || res.Nodes != 400 || len(res.Divide) != 20 {
		t.Fatalf("perft 2 = %+v, %v", res, err)
	}
	res, err = m.Perft(2, []string{"e2e4"})
	if err != nil || res.Nodes != 20 || res.Divide[0].Move != "e2e4" {
		t.Errorf("perft 2 e2e4 = %+v, %v", res, err)
	}
	if _, err := m.Perft(0, nil); err == nil {
		t.Error("perft depth 0 accepted")
	}

	if err := m.LoadFEN("6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1"); err != nil {
		t.Fatal(err)
	}
	best, _, err := m.BestMove(2, nil)
	if err != nil || best != "a1a8" {
		t.Errorf("BestMove = %q, %v", best, err)
	}
	s, err := m.Suggest("random", 1)
	if err != nil {
		t.Fatal(err)
	}
	var legal bool
	for _, l := range m.Legal(engine.White) {
		legal = legal || l == s
	}
	if !legal {
		t.Errorf("suggested illegal move %q", s)
	}
}

func TestMatchOutcome(t *testing.T) {
	m := newMatch(t, Config{})
	if m.Outcome(engine.White) != "" {
		t.Error("outcome before the game ended")
	}
	if err := m.PlayMoves(foolsMate); err != nil {
		t.Fatal(err)
	}
	if m.Outcome(engine.White) != ActionLose || m.Outcome(engine.Black) != ActionWin {
		t.Errorf("outcomes %q %q", m.Outcome(engine.White), m.Outcome(engine.Black))
	}
	if m.Clock(engine.White).Running() || m.Clock(engine.Black).Running() {
		t.Error("a clock runs after the game ended")
	}
	if m.AcceptDraw() {
		t.Error("draw accepted without an offer")
	}
}

func TestMatchRecord(t *testing.T) {
	m := newMatch(t, Config{Event: "test"})
	if err := m.PlayMoves(foolsMate); err != nil {
		t.Fatal(err)
	}
	r := m.Record()
	if r.Result != ResultBlack || r.FEN != engine.StartFEN || len(r.Moves) != 4 {
		t.Fatalf("record %+v", r)
	}
	data, err := r.Encode()
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := DecodeRecord(data)
	if err != nil {
		t.Fatal(err)
	}

	other := newMatch(t, Config{})
	if err := other.LoadRecord(decoded); err != nil {
		t.Fatal(err)
	}
	if other.FEN() != m.FEN() || other.Event != "test" {
		t.Errorf("loaded %s, want %s", other.FEN(), m.FEN())
	}
	if other.Player(engine.White).Name != m.Player(engine.White).Name {
		t.Error("player names not restored")
	}

	bad := decoded
	bad.Moves = append([]string{}, "e2e5")
	if err := other.LoadRecord(bad); err == nil {
		t.Error("illegal record accepted")
	}
	if other.FEN() != m.FEN() {
		t.Error("failed load changed the match")
	}
}

// waitForWorker blocks until m has a search running.
func waitForWorker(t *testing.T, m *Match) {
	t.Helper()
	for i := 0; m.Runtime().Reap() == 0; i++ {
		if i == 1000 {
			t.Fatal("no search started")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestMatchAbortSuggest(t *testing.T) {
	m := newMatch(t, Config{})
	if err := m.LoadTestpos(2); err != nil {
		t.Fatal(err)
	}
	type answer struct {
		move string
		err  error
	}
	done := make(chan answer, 1)
	go func() {
		mv, err := m.Suggest("master", 7)
		done <- answer{mv, err}
	}()
	waitForWorker(t, m)
	m.Abort()
	select {
	case a := <-done:
		if a.err != nil || a.move != "" {
			t.Errorf("aborted Suggest = %q, %v", a.move, a.err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Suggest still running after Abort")
	}
}

func TestMatchAbortPerft(t *testing.T) {
	m := newMatch(t, Config{})
	done := make(chan PerftReport, 1)
	go func() {
		res, _ := m.Perft(7, nil)
		done <- res
	}()
	waitForWorker(t, m)
	m.Abort()
	select {
	case res := <-done:
		if !res.Partial || res.Nodes >= 3195901860 {
			t.Errorf("aborted perft = %+v", res)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Perft still running after Abort")
	}
}
