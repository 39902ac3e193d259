package engine

import "golang.org/x/exp/constraints"

func abs[T constraints.Signed](v T) T {
	if v < 0 {
		return -v
	}
	return v
}
