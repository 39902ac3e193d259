package bot

import (
	"fmt"
	"strings"
)

type Strategy int

const (
	// Random plays any legal move.
	Random Strategy = iota
	// Metropolis proposes random moves and accepts them with a probability
	// that grows with their searched score.
	Metropolis
	// WeightedPiece picks a random movable piece, then samples one of its
	// moves in proportion to the searched scores.
	WeightedPiece
	// WeightedMove samples among all legal moves in proportion to their
	// searched scores.
	WeightedMove
	// OptimumPiece picks a random movable piece and plays its best move.
	OptimumPiece
	// OptimumFull plays the best move found by a full search.
	OptimumFull
)

var strategyNames = [...]string{
	Random:        "random",
	Metropolis:    "metro",
	WeightedPiece: "fool",
	WeightedMove:  "jester",
	OptimumPiece:  "novice",
	OptimumFull:   "master",
}

func (s Strategy) String() string {
	if s < 0 || int(s) >= len(strategyNames) {
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
	return strategyNames[s]
}

func Strategies() []Strategy {
	return []Strategy{Random, Metropolis, WeightedPiece, WeightedMove, OptimumPiece, OptimumFull}
}

func ParseStrategy(name string) (Strategy, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range strategyNames {
		if n == name {
			return Strategy(i), nil
		}
	}
	return 0, fmt.Errorf("unknown bot strategy %q", name)
}
