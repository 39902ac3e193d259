package search

import (
	"sync"

	"github.com/qnkhuat/gochess/pkg/engine"
)

type Result struct {
	Move  engine.Move
	Score int
	Nodes uint64
	// Found is false when no move in the list was legal.
	Found bool
}

// better reports whether r should replace cur. Ties keep the earlier result.
func (r Result) better(cur Result) bool {
	return r.Found && (!cur.Found || r.Score > cur.Score)
}

// partition splits n items into at most parts contiguous ranges of nearly
// equal size.
func partition(n, parts int) [][2]int {
	if parts > n {
		parts = n
	}
	if parts < 1 {
		parts = 1
	}
	ranges := make([][2]int, 0, parts)
	size, extra := n/parts, n%parts
	start := 0
	for i := 0; i < parts; i++ {
		end := start + size
		if i < extra {
			end++
		}
		ranges = append(ranges, [2]int{start, end})
		start = end
	}
	return ranges
}

// Best searches moves from the position on b and returns the highest scoring
// one for the side to move. The ordered list is split statically across
// workers, each on its own copy of b; b itself is not touched. The result
// does not depend on the number of workers.
func Best(rt *Runtime, b *engine.Board, moves []engine.Move, depth, workers int) Result {
	if len(moves) == 0 {
		return Result{}
	}
	if depth < 1 {
		depth = 1
	}
	ordered := append([]engine.Move(nil), moves...)
	Order(b, ordered)

	ranges := partition(len(ordered), workers)
	results := make([]Result, len(ranges))
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i, r := range ranges {
		wg.Add(1)
		go func(i int, part []engine.Move) {
			defer wg.Done()
			res := searchRoot(rt, b.Clone(), part, depth)
			mu.Lock()
			results[i] = res
			mu.Unlock()
		}(i, ordered[r[0]:r[1]])
	}
	wg.Wait()

	var best Result
	var nodes uint64
	for _, res := range results {
		nodes += res.Nodes
		if res.better(best) {
			best = res
		}
	}
	best.Nodes = nodes
	rt.log.Debug().
		Str("move", best.Move.String()).
		Int("score", best.Score).
		Uint64("nodes", nodes).
		Int("workers", len(ranges)).
		Msg("search finished")
	return best
}

// searchRoot runs a full-window search over moves. The window only narrows
// from this partition's own results.
func searchRoot(rt *Runtime, b *engine.Board, moves []engine.Move, depth int) Result {
	s := newSearcher(rt, b, depth)
	var root engine.State
	b.Save(&root)
	alpha := -Infinity
	res := Result{Score: -Infinity}
	for _, m := range moves {
		if rt.Stopped() {
			break
		}
		if !b.Apply(m) {
			b.Restore(&root)
			continue
		}
		b.PassTurn()
		child := b.AppendPseudoMoves(s.lists[1][:0], b.Turn())
		Order(b, child)
		s.lists[1] = child
		score := -s.negamax(depth-1, 1, -Infinity, -alpha, child)
		b.Restore(&root)

		if !res.Found || score > res.Score {
			res = Result{Move: m, Score: score, Found: true}
		}
		if score > alpha {
			alpha = score
		}
	}
	res.Nodes = s.nodes
	return res
}
