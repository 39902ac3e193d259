package engine

import (
	"fmt"
)

type Color uint8

const (
	White Color = iota
	Black
	NoColor
)

func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Black:
		return "black"
	default:
		return "none"
	}
}

func ParseColor(s string) (Color, error) {
	switch s {
	case "w", "white":
		return White, nil
	case "b", "black":
		return Black, nil
	}
	return NoColor, fmt.Errorf("unknown color %q", s)
}

// Other returns the opponent. NoColor has no opponent.
func (c Color) Other() Color {
	switch c {
	case White:
		return Black
	case Black:
		return White
	default:
		return NoColor
	}
}

// homeRank is the rank the pieces of c start on.
func (c Color) homeRank() int8 {
	if c == Black {
		return 7
	}
	return 0
}

// forward is the rank direction pawns of c move in.
func (c Color) forward() int8 {
	if c == Black {
		return -1
	}
	return 1
}

type Kind uint8

const (
	King Kind = iota
	Queen
	Bishop
	Knight
	Rook
	Pawn
)

var kindNames = [...]string{"King", "Queen", "Bishop", "Knight", "Rook", "Pawn"}

const kindLetters = "KQBNRP"

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "?"
}

// Letter returns the FEN letter of a piece of kind k and color c.
func (k Kind) Letter(c Color) byte {
	if int(k) >= len(kindLetters) {
		return 'X'
	}
	l := kindLetters[k]
	if c == Black {
		l += 'a' - 'A'
	}
	return l
}

// parseLetter is the inverse of Kind.Letter.
func parseLetter(b byte) (Kind, Color, bool) {
	c := White
	if b >= 'a' && b <= 'z' {
		c = Black
		b -= 'a' - 'A'
	}
	for k := 0; k < len(kindLetters); k++ {
		if kindLetters[k] == b {
			return Kind(k), c, true
		}
	}
	return 0, NoColor, false
}

// promotionKinds lists the kinds a pawn may become, in generation order.
var promotionKinds = [...]Kind{Queen, Bishop, Knight, Rook}

// Square is a board coordinate. File 0 is the a-file and rank 0 is white's
// back rank.
type Square struct {
	File, Rank int8
}

func Sq(file, rank int) Square {
	return Square{File: int8(file), Rank: int8(rank)}
}

func (s Square) Valid() bool {
	return s.File >= 0 && s.File < 8 && s.Rank >= 0 && s.Rank < 8
}

// Index is the bit of s in a Bitboard.
func (s Square) Index() int {
	return int(s.Rank)*8 + int(s.File)
}

// Light reports whether s is a light square.
func (s Square) Light() bool {
	return (s.File+s.Rank)%2 == 1
}

func (s Square) add(df, dr int8) Square {
	return Square{File: s.File + df, Rank: s.Rank + dr}
}

func (s Square) String() string {
	if !s.Valid() {
		return "-"
	}
	return string([]byte{'a' + byte(s.File), '1' + byte(s.Rank)})
}

func ParseSquare(s string) (Square, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return Square{}, fmt.Errorf("invalid square %q", s)
	}
	return Sq(int(s[0]-'a'), int(s[1]-'1')), nil
}
