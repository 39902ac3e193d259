package engine

import (
	"fmt"
	"strings"
)

// Move takes the piece on From to To. Kind is the kind of the piece after
// the move: the mover's own kind, except for promotions.
type Move struct {
	From, To Square
	Kind     Kind
}

// String prints the move in coordinate notation without a promotion suffix.
// Use Board.UCI when the suffix matters.
func (m Move) String() string {
	return m.From.String() + m.To.String()
}

const (
	// MaxPieceMoves bounds the moves of one piece (a centralized queen).
	MaxPieceMoves = 27
	// MaxSideMoves bounds the moves of one side.
	MaxSideMoves = PiecesPerSide * MaxPieceMoves
)

type pieceMoves struct {
	list [MaxPieceMoves]Move
	n    uint8
}

func (l *pieceMoves) add(m Move) {
	l.list[l.n] = m
	l.n++
}

func (l *pieceMoves) slice() []Move {
	return l.list[:l.n]
}

func (l *pieceMoves) contains(m Move) bool {
	for _, x := range l.list[:l.n] {
		if x == m {
			return true
		}
	}
	return false
}

type sideMoves struct {
	list [MaxSideMoves]Move
	n    uint16
}

func (l *sideMoves) add(m Move) {
	l.list[l.n] = m
	l.n++
}

func (l *sideMoves) slice() []Move {
	return l.list[:l.n]
}

// UCI prints m with a promotion suffix when the moving piece is a pawn that
// changes kind.
func (b *Board) UCI(m Move) string {
	return b.State.uci(m)
}

func (s *State) uci(m Move) string {
	str := m.String()
	if p := s.at(m.From); p != nil && p.kind == Pawn && m.Kind != Pawn {
		str += string(m.Kind.Letter(Black))
	}
	return str
}

// ParseMove reads coordinate notation ("e2e4", "e7e8q") against the current
// position. Without a suffix the move keeps the kind of the piece on the
// start square.
func (b *Board) ParseMove(s string) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return Move{}, fmt.Errorf("invalid move %q", s)
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return Move{}, fmt.Errorf("invalid move %q: %w", s, err)
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return Move{}, fmt.Errorf("invalid move %q: %w", s, err)
	}
	p := b.at(from)
	if p == nil {
		return Move{}, fmt.Errorf("invalid move %q: no piece on %s", s, from)
	}
	m := Move{From: from, To: to, Kind: p.kind}
	if len(s) == 5 {
		k, _, ok := parseLetter(s[4])
		if !ok || k == King || k == Pawn {
			return Move{}, fmt.Errorf("invalid move %q: bad promotion", s)
		}
		m.Kind = k
	}
	return m, nil
}

// ParseMoves reads a whitespace separated list of moves. Every move is parsed
// against the current position, so only the first may depend on earlier ones
// being played.
func (b *Board) ParseMoves(s string) ([]Move, error) {
	fields := strings.Fields(s)
	moves := make([]Move, 0, len(fields))
	for _, f := range fields {
		m, err := b.ParseMove(f)
		if err != nil {
			return moves, err
		}
		moves = append(moves, m)
	}
	return moves, nil
}
