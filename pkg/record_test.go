package pkg

import (
	"strings"
	"testing"

	"github.com/qnkhuat/gochess/pkg/engine"
)

func TestDecodeRecord(t *testing.T) {
	r, err := DecodeRecord([]byte(`{"white":"a","black":"b","moves":["e2e4"],"result":"*"}`))
	if err != nil {
		t.Fatal(err)
	}
	if r.FEN != engine.StartFEN {
		t.Errorf("FEN defaulted to %q", r.FEN)
	}
	if _, err := DecodeRecord([]byte(`{"moves":`)); err == nil {
		t.Error("truncated record accepted")
	}
}

func TestResultOf(t *testing.T) {
	tests := []struct {
		moves string
		want  string
	}{
		{"", ResultOngoing},
		{foolsMate, ResultBlack},
		{"e2e4 f7f6 d2d4 g7g5 d1h5", ResultWhite},
	}
	for _, tt := range tests {
		b := engine.New()
		r := Record{FEN: engine.StartFEN, Moves: strings.Fields(tt.moves)}
		if err := r.Replay(b); err != nil {
			t.Fatal(err)
		}
		if got := ResultOf(b.Status()); got != tt.want {
			t.Errorf("%q: result %s, want %s", tt.moves, got, tt.want)
		}
	}
	b := engine.New()
	if err := b.LoadFEN("8/8/8/4k3/8/8/8/4K2B w - - 0 1"); err != nil {
		t.Fatal(err)
	}
	if got := ResultOf(b.Status()); got != ResultDraw {
		t.Errorf("K+B v K: %s, want %s", got, ResultDraw)
	}
}

func TestSAN(t *testing.T) {
	r := Record{FEN: engine.StartFEN, Moves: strings.Fields("e2e4 e7e5 g1f3 b8c6 f1c4 g8f6 e1g1")}
	got, err := SAN(r)
	if err != nil {
		t.Fatal(err)
	}
	want := "e4 e5 Nf3 Nc6 Bc4 Nf6 O-O"
	if strings.Join(got, " ") != want {
		t.Errorf("SAN = %v, want %s", got, want)
	}

	r = Record{FEN: "8/P6k/8/8/8/8/8/K7 w - - 0 1", Moves: []string{"a7a8q"}}
	got, err = SAN(r)
	if err != nil || len(got) != 1 || got[0] != "a8=Q" {
		t.Errorf("SAN = %v, %v", got, err)
	}
	if _, err := SAN(Record{FEN: engine.StartFEN, Moves: []string{"e2e5"}}); err == nil {
		t.Error("illegal move converted")
	}
}

func TestPGN(t *testing.T) {
	r := Record{
		Event:  "test",
		White:  "alice",
		Black:  "bob",
		FEN:    TestPositions[2],
		Moves:  []string{"b4b1"},
		Result: ResultOngoing,
	}
	text, err := PGN(r)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`[White "alice"]`, `[Black "bob"]`, `[FEN "` + TestPositions[2] + `"]`, "Rb1"} {
		if !strings.Contains(text, want) {
			t.Errorf("PGN %q lacks %q", text, want)
		}
	}
}
