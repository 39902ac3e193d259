package engine

const (
	drawOfferHalfMoves  = 100
	forcedDrawHalfMoves = 150
	drawOfferRepeats    = 3
	forcedDrawRepeats   = 5
)

// Status summarizes the game state. Turn is NoColor once the game is over.
type Status struct {
	Turn      Color
	Checkmate [2]bool
	Draw      bool
	DrawOffer bool
	LateGame  bool
	Text      string
}

func (s Status) Over() bool {
	return s.Turn == NoColor
}

func (b *Board) Status() Status {
	return Status{
		Turn:      b.turn,
		Checkmate: b.checkmate,
		Draw:      b.draw,
		DrawOffer: b.drawOffer,
		LateGame:  b.lateGame,
		Text:      b.text,
	}
}

// checkLateGame flags the endgame: both queens gone, or a side down to two
// pieces, or to three when one of them is a bishop or knight.
func (s *State) checkLateGame() {
	var alive, queens [2]int
	var minor [2]bool
	for c := range s.pieces {
		for k := range s.pieces[c] {
			p := &s.pieces[c][k]
			if !p.alive {
				continue
			}
			alive[c]++
			switch p.kind {
			case Queen:
				queens[c]++
			case Bishop, Knight:
				minor[c] = true
			}
		}
	}
	s.lateGame = queens[White] == 0 && queens[Black] == 0
	for c := range alive {
		if alive[c] <= 2 || (alive[c] == 3 && minor[c]) {
			s.lateGame = true
		}
	}
}

// checkGameOver evaluates the side to move: mate, stalemate, lack of
// material, the move rules and repetition. Draw offers are recomputed on
// every move.
func (b *Board) checkGameOver() {
	s := &b.State
	s.checkmate = [2]bool{}
	s.draw = false
	s.drawOffer = false
	s.text = ""

	c := s.turn
	if c > Black {
		return
	}
	switch {
	case s.movable[c].n == 0 && s.inCheck(c):
		s.checkmate[c] = true
		s.text = c.Other().title() + " has won!"
	case s.movable[c].n == 0:
		s.draw = true
		s.text = c.title() + " is out of moves."
	case s.insufficientMaterial():
		s.draw = true
		s.text = "Not enough pieces left on the board."
	case s.halfMove >= forcedDrawHalfMoves:
		s.draw = true
		s.text = "No progress for 75 moves."
	default:
		reps := b.repetitions()
		switch {
		case reps >= forcedDrawRepeats:
			s.draw = true
			s.text = "Position repeated five times."
		case reps == drawOfferRepeats:
			s.drawOffer = true
			s.text = "Position repeated three times. Accept draw?"
		case s.halfMove == drawOfferHalfMoves:
			s.drawOffer = true
			s.text = "No progress for 50 moves. Accept draw?"
		}
	}
	if s.draw || s.checkmate[c] {
		s.turn = NoColor
		b.log.Info().Str("result", s.text).Int("ply", s.ply).Msg("game over")
	}
}

// repetitions counts how often the current position has occurred, itself
// included, along the history leading to it.
func (b *Board) repetitions() int {
	n := 1
	last := b.index
	if last >= len(b.history) {
		last = len(b.history) - 1
	}
	for i := 0; i <= last; i++ {
		if b.history[i].samePosition(&b.State) {
			n++
		}
	}
	return n
}

func (s *State) insufficientMaterial() bool {
	var count [2]int
	var bishops [2]int
	var bishopLight [2]bool
	for c := range s.pieces {
		for k := range s.pieces[c] {
			p := &s.pieces[c][k]
			if !p.alive {
				continue
			}
			count[c]++
			switch p.kind {
			case Bishop:
				bishops[c]++
				bishopLight[c] = p.pos.Light()
			case Knight:
			case King:
			default:
				return false
			}
		}
	}
	switch {
	case count[White] == 1 && count[Black] == 1:
		return true
	case count[White] == 2 && count[Black] == 1, count[White] == 1 && count[Black] == 2:
		return true
	case count[White] == 2 && count[Black] == 2 && bishops[White] == 1 && bishops[Black] == 1:
		return bishopLight[White] == bishopLight[Black]
	}
	return false
}

// AcceptDraw ends the game when a draw is on offer.
func (b *Board) AcceptDraw() bool {
	if !b.drawOffer || b.turn == NoColor {
		return false
	}
	b.drawOffer = false
	b.draw = true
	b.text = "Draw by agreement."
	b.turn = NoColor
	b.history[b.index] = b.State
	b.log.Info().Int("ply", b.ply).Msg("draw accepted")
	return true
}

// DeclineDraw withdraws the offer and play continues.
func (b *Board) DeclineDraw() bool {
	if !b.drawOffer {
		return false
	}
	b.drawOffer = false
	b.text = ""
	b.history[b.index] = b.State
	return true
}

func (c Color) title() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	}
	return "Nobody"
}
