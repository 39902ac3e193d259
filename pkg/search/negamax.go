package search

import (
	"github.com/qnkhuat/gochess/pkg/engine"
)

// Infinity bounds every score, mates included.
const Infinity = 2 * engine.MateScore

// searcher owns one disposable board and the per-ply scratch space a search
// on it needs.
type searcher struct {
	rt    *Runtime
	b     *engine.Board
	stack []engine.State
	lists [][]engine.Move
	nodes uint64
}

func newSearcher(rt *Runtime, b *engine.Board, depth int) *searcher {
	if depth < 0 {
		depth = 0
	}
	return &searcher{
		rt:    rt,
		b:     b,
		stack: make([]engine.State, depth+1),
		lists: make([][]engine.Move, depth+2),
	}
}

// sign turns white-positive scores into scores for the side to move.
func sign(c engine.Color) int {
	if c == engine.Black {
		return -1
	}
	return 1
}

// Negamax scores the best of moves for the side to move on b, searching
// depth plies below the current position. b is used as scratch and is left
// in the position it was given.
func Negamax(rt *Runtime, b *engine.Board, depth, alpha, beta int, moves []engine.Move) int {
	s := newSearcher(rt, b, depth)
	return s.negamax(depth, 0, alpha, beta, moves)
}

func (s *searcher) negamax(depth, ply, alpha, beta int, moves []engine.Move) int {
	s.nodes++
	b := s.b
	turn := b.Turn()
	if depth <= 0 || turn == engine.NoColor || s.rt.Stopped() {
		return sign(turn) * b.Evaluate()
	}

	saved := &s.stack[ply]
	b.Save(saved)
	best := -Infinity
	found := false
	for _, m := range moves {
		if s.rt.Stopped() {
			break
		}
		if !b.Apply(m) {
			b.RestoreProbe(saved)
			continue
		}
		found = true
		b.PassTurn()
		child := b.AppendPseudoMoves(s.lists[ply+1][:0], b.Turn())
		Order(b, child)
		s.lists[ply+1] = child
		score := -s.negamax(depth-1, ply+1, -beta, -alpha, child)
		b.RestoreProbe(saved)

		if score > best {
			best = score
		}
		if score > alpha {
			alpha = score
		}
		if alpha >= beta {
			break
		}
	}
	if !found {
		if s.rt.Stopped() {
			return sign(turn) * b.Evaluate()
		}
		if b.InCheck(turn) {
			return -(engine.MateScore - ply)
		}
		return 0
	}
	return best
}

// MoveScore searches m on a copy of b and scores it for the side playing it.
func MoveScore(rt *Runtime, b *engine.Board, depth int, m engine.Move) int {
	return Negamax(rt, b.Clone(), depth, -Infinity, Infinity, []engine.Move{m})
}
