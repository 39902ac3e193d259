package engine

import (
	"math/bits"
	"strings"
)

// Bitboard is a set of squares, one bit per square.
type Bitboard uint64

func bit(s Square) Bitboard {
	return Bitboard(1) << uint(s.Index())
}

func (b Bitboard) Has(s Square) bool {
	return b&bit(s) != 0
}

// Flip toggles s.
func (b *Bitboard) Flip(s Square) {
	*b ^= bit(s)
}

func (b *Bitboard) Set(s Square) {
	*b |= bit(s)
}

func (b *Bitboard) Clear(s Square) {
	*b &^= bit(s)
}

func (b Bitboard) Count() int {
	return bits.OnesCount64(uint64(b))
}

// Squares lists the members of b from a1 to h8.
func (b Bitboard) Squares() []Square {
	squares := make([]Square, 0, b.Count())
	for v := uint64(b); v != 0; v &= v - 1 {
		i := bits.TrailingZeros64(v)
		squares = append(squares, Sq(i%8, i/8))
	}
	return squares
}

// String draws b as a grid with rank 8 on top.
func (b Bitboard) String() string {
	var sb strings.Builder
	for r := 7; r >= 0; r-- {
		for f := 0; f < 8; f++ {
			if b.Has(Sq(f, r)) {
				sb.WriteByte('1')
			} else {
				sb.WriteByte('.')
			}
			if f < 7 {
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
