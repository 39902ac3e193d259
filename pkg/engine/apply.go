package engine

// apply plays m without any legality check and reports whether the mover's
// king is safe afterwards and, for castling, whether castling was allowed.
// Pseudo-legal data is fresh when it returns; legal data is not.
func (s *State) apply(m Move) bool {
	p := s.at(m.From)
	if p == nil {
		return false
	}
	ok := true
	if p.kind == King && abs(m.To.File-m.From.File) == 2 {
		ok = s.castlingAllowed(p.color, m)
		s.moveCastlingRook(m)
	}
	s.clearEnPassant(p.color.Other())
	s.movePiece(p, m)
	s.promote(p, m)
	s.updatePseudo()
	if s.inCheck(p.color) {
		return false
	}
	return ok
}

// castlingAllowed checks that the king is not in check and does not pass
// through an attacked square. The landing square is covered by the check
// test after the move.
func (s *State) castlingAllowed(c Color, m Move) bool {
	if s.inCheck(c) {
		return false
	}
	zone := s.attackZone(c.Other())
	step := int8(1)
	if m.To.File < m.From.File {
		step = -1
	}
	for sq := m.From.add(step, 0); sq != m.To; sq = sq.add(step, 0) {
		if zone.Has(sq) {
			return false
		}
	}
	return true
}

func (s *State) moveCastlingRook(m Move) {
	rank := m.From.Rank
	from, to := Square{File: 7, Rank: rank}, Square{File: 5, Rank: rank}
	if m.To.File < m.From.File {
		from, to = Square{File: 0, Rank: rank}, Square{File: 3, Rank: rank}
	}
	r := s.at(from)
	if r == nil {
		return
	}
	s.grid[from.File][from.Rank] = emptySquare
	s.grid[to.File][to.Rank] = int8(r.ID())
	r.pos = to
	r.moved = true
}

func (s *State) clearEnPassant(c Color) {
	for k := range s.pieces[c] {
		s.pieces[c][k].enPassant = false
	}
}

func (s *State) movePiece(p *Piece, m Move) {
	reset := p.kind == Pawn
	if p.kind == Pawn {
		if m.To.File != m.From.File && s.at(m.To) == nil {
			if victim := s.at(Square{File: m.To.File, Rank: m.From.Rank}); victim != nil {
				s.kill(victim)
			}
		}
		if abs(m.To.Rank-m.From.Rank) == 2 {
			p.enPassant = true
		}
	}
	if victim := s.at(m.To); victim != nil {
		s.kill(victim)
		reset = true
	}
	if reset {
		s.halfMove = 0
	} else {
		s.halfMove++
	}
	s.grid[m.From.File][m.From.Rank] = emptySquare
	s.grid[m.To.File][m.To.Rank] = int8(p.ID())
	p.pos = m.To
	p.moved = true
}

func (s *State) promote(p *Piece, m Move) {
	if p.kind != Pawn || m.Kind == Pawn || m.Kind == King {
		return
	}
	if m.To.Rank != p.color.Other().homeRank() {
		return
	}
	p.kind = m.Kind
	p.promoted = true
}
