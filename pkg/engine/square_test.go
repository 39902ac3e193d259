package engine

import "testing"

func TestParseSquare(t *testing.T) {
	tests := []struct {
		in   string
		want Square
		ok   bool
	}{
		{"a1", Sq(0, 0), true},
		{"h8", Sq(7, 7), true},
		{"e4", Sq(4, 3), true},
		{"i1", Square{}, false},
		{"a9", Square{}, false},
		{"e", Square{}, false},
	}
	for _, tt := range tests {
		got, err := ParseSquare(tt.in)
		if (err == nil) != tt.ok {
			t.Errorf("ParseSquare(%q) error = %v", tt.in, err)
			continue
		}
		if tt.ok && (got != tt.want || got.String() != tt.in) {
			t.Errorf("ParseSquare(%q) = %v", tt.in, got)
		}
	}
}

func TestBitboard(t *testing.T) {
	var b Bitboard
	b.Flip(Sq(4, 3))
	b.Set(Sq(0, 0))
	b.Set(Sq(7, 7))
	if b.Count() != 3 || !b.Has(Sq(4, 3)) {
		t.Fatalf("unexpected board\n%v", b)
	}
	b.Flip(Sq(4, 3))
	if b.Has(Sq(4, 3)) {
		t.Error("Flip did not clear e4")
	}
	sq := b.Squares()
	if len(sq) != 2 || sq[0] != Sq(0, 0) || sq[1] != Sq(7, 7) {
		t.Errorf("Squares() = %v", sq)
	}
	b.Clear(Sq(0, 0))
	if b.Count() != 1 {
		t.Errorf("Count() = %d after Clear", b.Count())
	}
}

func TestSquareColor(t *testing.T) {
	if Sq(0, 0).Light() {
		t.Error("a1 is dark")
	}
	if !Sq(7, 0).Light() {
		t.Error("h1 is light")
	}
}

func TestParseMove(t *testing.T) {
	b := New()
	m, err := b.ParseMove("g1f3")
	if err != nil {
		t.Fatal(err)
	}
	if m != (Move{From: Sq(6, 0), To: Sq(5, 2), Kind: Knight}) {
		t.Errorf("ParseMove(g1f3) = %+v", m)
	}
	for _, s := range []string{"e3e4", "e2", "e2e4k", "z2e4"} {
		if _, err := b.ParseMove(s); err == nil {
			t.Errorf("ParseMove(%q) succeeded", s)
		}
	}
}
