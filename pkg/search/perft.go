package search

import (
	"sync"

	"github.com/qnkhuat/gochess/pkg/engine"
)

type MoveCount struct {
	Move  engine.Move
	Nodes uint64
}

type PerftResult struct {
	Nodes  uint64
	Divide []MoveCount
	// Partial is set when the stop flag cut the count short.
	Partial bool
}

// Perft counts the leaf nodes depth plies below b, split per root move. An
// empty moves list means every legal move of the side to move. Root moves
// are shared out over workers the same way Best does it.
func Perft(rt *Runtime, b *engine.Board, depth int, moves []engine.Move, workers int) PerftResult {
	if len(moves) == 0 {
		moves = b.LegalMoves(b.Turn())
	}
	if depth < 1 || len(moves) == 0 {
		return PerftResult{Nodes: 1}
	}

	ranges := partition(len(moves), workers)
	parts := make([][]MoveCount, len(ranges))
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i, r := range ranges {
		wg.Add(1)
		go func(i int, part []engine.Move) {
			defer wg.Done()
			counts := perftRoot(rt, b.Clone(), part, depth)
			mu.Lock()
			parts[i] = counts
			mu.Unlock()
		}(i, moves[r[0]:r[1]])
	}
	wg.Wait()

	var res PerftResult
	for _, part := range parts {
		for _, mc := range part {
			res.Nodes += mc.Nodes
			res.Divide = append(res.Divide, mc)
		}
	}
	res.Partial = rt.Stopped()
	rt.log.Debug().Int("depth", depth).Uint64("nodes", res.Nodes).Bool("partial", res.Partial).Msg("perft finished")
	return res
}

func perftRoot(rt *Runtime, b *engine.Board, moves []engine.Move, depth int) []MoveCount {
	s := newSearcher(rt, b, depth)
	counts := make([]MoveCount, 0, len(moves))
	for _, m := range moves {
		if rt.Stopped() {
			break
		}
		s.lists[0] = append(s.lists[0][:0], m)
		counts = append(counts, MoveCount{Move: m, Nodes: s.perft(depth, 0, s.lists[0])})
	}
	return counts
}

func (s *searcher) perft(depth, ply int, moves []engine.Move) uint64 {
	if depth <= 0 {
		return 1
	}
	if s.rt.Stopped() {
		return 0
	}
	b := s.b
	saved := &s.stack[ply]
	b.Save(saved)
	var nodes uint64
	for _, m := range moves {
		switch {
		case !b.Apply(m):
		case depth == 1:
			nodes++
		default:
			b.PassTurn()
			child := b.AppendPseudoMoves(s.lists[ply+1][:0], b.Turn())
			s.lists[ply+1] = child
			nodes += s.perft(depth-1, ply+1, child)
		}
		b.RestoreProbe(saved)
	}
	return nodes
}
