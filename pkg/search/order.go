package search

import (
	"sort"

	"github.com/qnkhuat/gochess/pkg/engine"
)

// Ordering values, kept small so captures rank by victim first.
var orderValue = [...]int{
	engine.King:   20,
	engine.Queen:  9,
	engine.Bishop: 3,
	engine.Knight: 3,
	engine.Rook:   5,
	engine.Pawn:   1,
}

// scoreMove ranks promotions first, then captures by most valuable victim
// and least valuable attacker, then quiet moves.
func scoreMove(b *engine.Board, m engine.Move) int {
	p := b.At(m.From)
	if p == nil {
		return 0
	}
	score := 0
	if p.Kind() == engine.Pawn && m.Kind != engine.Pawn {
		score += 1000 + orderValue[m.Kind]
	}
	victim := b.At(m.To)
	switch {
	case victim != nil && victim.Color() != p.Color():
		score += 100 + 10*orderValue[victim.Kind()] - orderValue[p.Kind()]
	case p.Kind() == engine.Pawn && m.From.File != m.To.File:
		score += 100 + 10*orderValue[engine.Pawn] - orderValue[engine.Pawn]
	}
	return score
}

// Order sorts moves best first for the position on b. Moves of equal rank
// keep their relative order, so the result depends only on the input.
func Order(b *engine.Board, moves []engine.Move) {
	if len(moves) < 2 {
		return
	}
	scores := make([]int, len(moves))
	for i, m := range moves {
		scores[i] = scoreMove(b, m)
	}
	sort.Stable(byScore{moves, scores})
}

type byScore struct {
	moves  []engine.Move
	scores []int
}

func (s byScore) Len() int           { return len(s.moves) }
func (s byScore) Less(i, j int) bool { return s.scores[i] > s.scores[j] }
func (s byScore) Swap(i, j int) {
	s.moves[i], s.moves[j] = s.moves[j], s.moves[i]
	s.scores[i], s.scores[j] = s.scores[j], s.scores[i]
}
