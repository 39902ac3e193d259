package bot

import (
	"sync"

	"github.com/qnkhuat/gochess/pkg/engine"
	"github.com/qnkhuat/gochess/pkg/search"
)

// chooser holds what one strategy run needs.
type chooser struct {
	rt      *search.Runtime
	b       *engine.Board
	color   engine.Color
	depth   int
	workers int
	legal   []engine.Move
	// accept decides a proposal accepted with probability p. Nil draws from
	// the runtime.
	accept func(p float64) bool
}

func (c *chooser) accepts(p float64) bool {
	if c.accept != nil {
		return c.accept(p)
	}
	return c.rt.Float64() <= p
}

// acceptance is the metropolis probability of trading a position scored
// current for one scored score. It is at least 1 unless score is worse.
func acceptance(current, score int) float64 {
	shift := min(current, score)
	if shift < 0 {
		shift = -shift
	}
	return float64(score+shift+1) / float64(current+shift+1)
}

func (c *chooser) searchDepth() int {
	return max(c.depth, 1)
}

func (c *chooser) random() engine.Move {
	return c.legal[c.rt.Intn(len(c.legal))]
}

// randomPieceMoves returns the legal moves of one random movable piece.
func (c *chooser) randomPieceMoves() []engine.Move {
	pieces := c.b.MovablePieces(c.color)
	if len(pieces) == 0 {
		return c.legal
	}
	return pieces[c.rt.Intn(len(pieces))].LegalMoves()
}

// metropolis keeps proposing random moves until one is accepted or as many
// proposals as there are legal moves have been rejected. A proposal scoring
// at least the current evaluation is always accepted.
func (c *chooser) metropolis() engine.Move {
	depth := c.searchDepth()
	if depth%2 == 0 {
		// end the search on the opponent's reply
		depth++
	}
	current := c.b.Evaluate()
	if c.color == engine.Black {
		current = -current
	}

	var m engine.Move
	for tries := 0; tries < len(c.legal); tries++ {
		m = c.random()
		if c.rt.Stopped() {
			break
		}
		p := acceptance(current, search.MoveScore(c.rt, c.b, depth, m))
		if p >= 1 || c.accepts(p) {
			break
		}
	}
	return m
}

// scores searches every move in moves, at most c.workers at a time.
func (c *chooser) scores(moves []engine.Move) []int {
	depth := c.searchDepth()
	out := make([]int, len(moves))
	sem := make(chan struct{}, max(c.workers, 1))
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i, m := range moves {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, m engine.Move) {
			defer wg.Done()
			defer func() { <-sem }()
			score := search.MoveScore(c.rt, c.b, depth, m)
			mu.Lock()
			out[i] = score
			mu.Unlock()
		}(i, m)
	}
	wg.Wait()
	return out
}

// weighted samples moves in proportion to their scores shifted to be
// positive. After as many rejections as there are moves it settles for the
// best one.
func (c *chooser) weighted(moves []engine.Move) engine.Move {
	if len(moves) == 1 {
		return moves[0]
	}
	weights := c.scores(moves)
	if c.rt.Stopped() {
		return moves[c.rt.Intn(len(moves))]
	}

	lowest, best := weights[0], 0
	for i, w := range weights {
		if w < lowest {
			lowest = w
		}
		if w > weights[best] {
			best = i
		}
	}
	if lowest < 0 {
		lowest = -lowest
	}
	total := 0.0
	for i := range weights {
		weights[i] += lowest + 1
		total += float64(weights[i])
	}

	for tries := 0; tries < len(moves); tries++ {
		if c.rt.Stopped() {
			break
		}
		i := c.rt.Intn(len(moves))
		if c.accepts(float64(weights[i]) / total) {
			return moves[i]
		}
	}
	return moves[best]
}

func (c *chooser) optimum(moves []engine.Move) engine.Move {
	res := search.Best(c.rt, c.b, moves, c.searchDepth(), c.workers)
	if !res.Found {
		return moves[0]
	}
	return res.Move
}
