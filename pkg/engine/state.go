package engine

const emptySquare int8 = -1

type slotList struct {
	list [PiecesPerSide]uint8
	n    uint8
}

func (l *slotList) add(slot int) {
	l.list[l.n] = uint8(slot)
	l.n++
}

func (l *slotList) slice() []uint8 {
	return l.list[:l.n]
}

// State is the complete, pointer-free description of a position. Copying a
// State is a snapshot.
type State struct {
	pieces [2][PiecesPerSide]Piece
	// grid holds the PieceID on each [file][rank], or emptySquare.
	grid [8][8]int8

	turn     Color
	ply      int
	halfMove int

	checkmate [2]bool
	draw      bool
	drawOffer bool
	lateGame  bool
	text      string

	danger  [2]Bitboard
	alive   [2]slotList
	movable [2]slotList
	pseudo  [2]sideMoves
	legal   [2]sideMoves
}

func (s *State) at(sq Square) *Piece {
	if !sq.Valid() {
		return nil
	}
	id := s.grid[sq.File][sq.Rank]
	if id == emptySquare {
		return nil
	}
	return &s.pieces[id/PiecesPerSide][id%PiecesPerSide]
}

func (s *State) clearGrid() {
	for f := range s.grid {
		for r := range s.grid[f] {
			s.grid[f][r] = emptySquare
		}
	}
}

// place puts p on sq as a fresh, alive piece.
func (s *State) place(p *Piece, sq Square) {
	p.pos = sq
	p.alive = true
	p.moved = sq != p.start
	p.enPassant = false
	s.grid[sq.File][sq.Rank] = int8(p.ID())
}

func (s *State) kill(p *Piece) {
	if s.grid[p.pos.File][p.pos.Rank] == int8(p.ID()) {
		s.grid[p.pos.File][p.pos.Rank] = emptySquare
	}
	p.alive = false
	p.pseudoBB = 0
	p.pseudo.n = 0
}

func (s *State) king(c Color) *Piece {
	return &s.pieces[c][slotKing]
}

// inCheck reports whether the king of c stands in the opponent's danger zone.
func (s *State) inCheck(c Color) bool {
	if c > Black {
		return false
	}
	k := s.king(c)
	return k.alive && s.danger[c.Other()].Has(k.pos)
}

// restoreProbe undoes a speculative move from snapshot src. Legal lists, the
// alive and movable aggregates and the counters are left alone.
func (s *State) restoreProbe(src *State) {
	for c := range s.pieces {
		for k := range s.pieces[c] {
			s.pieces[c][k].restoreProbe(&src.pieces[c][k])
		}
	}
	s.grid = src.grid
	s.turn = src.turn
	s.halfMove = src.halfMove
	s.checkmate = src.checkmate
	s.draw = src.draw
	s.lateGame = src.lateGame
	s.danger = src.danger
	s.pseudo = src.pseudo
}

// samePosition compares piece placement, flags and the side to move.
func (s *State) samePosition(o *State) bool {
	if s.turn != o.turn {
		return false
	}
	for f := 0; f < 8; f++ {
		for r := 0; r < 8; r++ {
			sq := Sq(f, r)
			p, q := s.at(sq), o.at(sq)
			if p == nil || q == nil {
				if p != q {
					return false
				}
				continue
			}
			if !p.sameAs(q) {
				return false
			}
		}
	}
	return true
}
