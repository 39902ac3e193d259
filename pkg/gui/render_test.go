package gui

import (
	"strings"
	"testing"

	"github.com/qnkhuat/gochess/pkg/engine"
)

func TestSquareAt(t *testing.T) {
	tests := []struct {
		row, col int
		flip     bool
		want     string
		ok       bool
	}{
		{0, 1, false, "a8", true},
		{7, 8, false, "h1", true},
		{7, 5, false, "e1", true},
		{0, 1, true, "h1", true},
		{7, 8, true, "a8", true},
		{8, 1, false, "", false},
		{3, 0, false, "", false},
	}
	for _, tt := range tests {
		sq, ok := squareAt(tt.row, tt.col, tt.flip)
		if ok != tt.ok {
			t.Errorf("squareAt(%d, %d, %v) ok = %v", tt.row, tt.col, tt.flip, ok)
			continue
		}
		if !ok {
			continue
		}
		if sq.String() != tt.want {
			t.Errorf("squareAt(%d, %d, %v) = %s, want %s", tt.row, tt.col, tt.flip, sq, tt.want)
		}
		if row, col := cellOf(sq, tt.flip); row != tt.row || col != tt.col {
			t.Errorf("cellOf(%s, %v) = %d, %d", sq, tt.flip, row, col)
		}
	}
}

func TestMoveList(t *testing.T) {
	san := []string{"e4", "e5", "Nf3", "Nc6", "Bc4"}
	got := strings.Split(moveList(san, 12), "\n")
	if len(got) != 3 {
		t.Fatalf("%d lines, want 3", len(got))
	}
	if !strings.HasPrefix(got[0], "  1. e4") || !strings.Contains(got[0], "e5") {
		t.Errorf("first line %q", got[0])
	}
	if strings.TrimSpace(got[2]) != "3. Bc4" {
		t.Errorf("last line %q", got[2])
	}
	if got := moveList(san, 1); strings.TrimSpace(got) != "3. Bc4" {
		t.Errorf("windowed list %q", got)
	}
	if moveList(nil, 5) != "" {
		t.Error("empty game has moves")
	}
}

func TestThemeByName(t *testing.T) {
	th, err := ThemeByName("classic")
	if err != nil || th.Name != "classic" {
		t.Errorf("ThemeByName(classic) = %v, %v", th.Name, err)
	}
	if _, err := ThemeByName("neon"); err == nil {
		t.Error("unknown theme accepted")
	}
}

func TestGlyph(t *testing.T) {
	b := engine.New()
	if got := glyph(*b.At(engine.Sq(4, 0))); got != "♔" {
		t.Errorf("white king glyph %q", got)
	}
	if got := glyph(*b.At(engine.Sq(3, 7))); got != "♛" {
		t.Errorf("black queen glyph %q", got)
	}
}
