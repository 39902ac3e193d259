package engine

type direction struct{ df, dr int8 }

var (
	rookDirs   = []direction{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	bishopDirs = []direction{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	queenDirs  = append(append([]direction{}, rookDirs...), bishopDirs...)
	knightJump = []direction{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
)

func (s *State) addPseudo(p *Piece, m Move) {
	p.pseudoBB.Set(m.To)
	p.pseudo.add(m)
	s.pseudo[p.color].add(m)
}

// updatePseudo regenerates the pseudo-legal moves and danger zones of both
// sides from scratch.
func (s *State) updatePseudo() {
	for c := White; c <= Black; c++ {
		s.pseudo[c].n = 0
		s.danger[c] = 0
		for k := range s.pieces[c] {
			p := &s.pieces[c][k]
			p.pseudoBB = 0
			p.pseudo.n = 0
			if !p.alive {
				continue
			}
			s.generate(p)
			s.danger[c] |= p.pseudoBB
		}
	}
}

func (s *State) generate(p *Piece) {
	switch p.kind {
	case King:
		s.generateKing(p)
	case Queen:
		s.generateSliding(p, queenDirs)
	case Bishop:
		s.generateSliding(p, bishopDirs)
	case Rook:
		s.generateSliding(p, rookDirs)
	case Knight:
		s.generateSteps(p, knightJump)
	case Pawn:
		s.generatePawn(p)
	}
}

// canLand reports whether p may finish on sq: on the board and not held by a
// friendly piece.
func (s *State) canLand(p *Piece, sq Square) bool {
	if !sq.Valid() {
		return false
	}
	q := s.at(sq)
	return q == nil || q.color != p.color
}

func (s *State) generateSliding(p *Piece, dirs []direction) {
	for _, d := range dirs {
		for sq := p.pos.add(d.df, d.dr); sq.Valid(); sq = sq.add(d.df, d.dr) {
			q := s.at(sq)
			if q != nil && q.color == p.color {
				break
			}
			s.addPseudo(p, Move{From: p.pos, To: sq, Kind: p.kind})
			if q != nil {
				break
			}
		}
	}
}

func (s *State) generateSteps(p *Piece, steps []direction) {
	for _, d := range steps {
		sq := p.pos.add(d.df, d.dr)
		if s.canLand(p, sq) {
			s.addPseudo(p, Move{From: p.pos, To: sq, Kind: p.kind})
		}
	}
}

func (s *State) generateKing(p *Piece) {
	s.generateSteps(p, queenDirs)
	home := p.color.homeRank()
	if p.moved || p.pos != (Square{File: 4, Rank: home}) {
		return
	}
	if s.castlingRook(p.color, 7) && s.empty(home, 5, 6) {
		s.addPseudo(p, Move{From: p.pos, To: Square{File: 6, Rank: home}, Kind: King})
	}
	if s.castlingRook(p.color, 0) && s.empty(home, 1, 3) {
		s.addPseudo(p, Move{From: p.pos, To: Square{File: 2, Rank: home}, Kind: King})
	}
}

// castlingRook reports whether an unmoved rook of c stands in the corner on
// the given file.
func (s *State) castlingRook(c Color, file int8) bool {
	r := s.at(Square{File: file, Rank: c.homeRank()})
	return r != nil && r.color == c && r.kind == Rook && !r.moved
}

// empty reports whether the files from..to of rank hold no piece.
func (s *State) empty(rank, from, to int8) bool {
	for f := from; f <= to; f++ {
		if s.grid[f][rank] != emptySquare {
			return false
		}
	}
	return true
}

func (s *State) addPawnMove(p *Piece, to Square) {
	if to.Rank == p.color.Other().homeRank() {
		for _, k := range promotionKinds {
			s.addPseudo(p, Move{From: p.pos, To: to, Kind: k})
		}
		return
	}
	s.addPseudo(p, Move{From: p.pos, To: to, Kind: Pawn})
}

func (s *State) generatePawn(p *Piece) {
	fwd := p.color.forward()
	one := p.pos.add(0, fwd)
	if one.Valid() && s.at(one) == nil {
		s.addPawnMove(p, one)
		two := one.add(0, fwd)
		if p.pos.Rank == p.color.homeRank()+fwd && s.at(two) == nil {
			s.addPseudo(p, Move{From: p.pos, To: two, Kind: Pawn})
		}
	}
	for _, df := range [...]int8{-1, 1} {
		to := p.pos.add(df, fwd)
		if !to.Valid() {
			continue
		}
		if q := s.at(to); q != nil {
			if q.color != p.color {
				s.addPawnMove(p, to)
			}
			continue
		}
		q := s.at(p.pos.add(df, 0))
		if q != nil && q.color != p.color && q.kind == Pawn && q.enPassant {
			s.addPseudo(p, Move{From: p.pos, To: to, Kind: Pawn})
		}
	}
}

// attackZone is the set of squares c attacks: pawn diagonals whether or not
// something stands there, the king's neighbourhood and every other pseudo
// target.
func (s *State) attackZone(c Color) Bitboard {
	var zone Bitboard
	for k := range s.pieces[c] {
		p := &s.pieces[c][k]
		if !p.alive {
			continue
		}
		switch p.kind {
		case Pawn:
			for _, df := range [...]int8{-1, 1} {
				sq := p.pos.add(df, c.forward())
				if !sq.Valid() {
					continue
				}
				if q := s.at(sq); q == nil || q.color != c {
					zone.Set(sq)
				}
			}
		case King:
			for _, d := range queenDirs {
				if sq := p.pos.add(d.df, d.dr); s.canLand(p, sq) {
					zone.Set(sq)
				}
			}
		default:
			zone |= p.pseudoBB
		}
	}
	return zone
}
