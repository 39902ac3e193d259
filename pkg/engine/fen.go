package engine

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var ErrInvalidFEN = errors.New("invalid FEN")

func fenError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidFEN, fmt.Sprintf(format, args...))
}

// LoadFEN replaces the position and clears the history. Missing trailing
// fields default to "w - - 0 1". On error the board is left untouched.
func (b *Board) LoadFEN(fen string) error {
	var s State
	if err := s.parseFEN(fen); err != nil {
		return err
	}
	b.State = s
	b.refresh()
	b.resetHistory()
	b.log.Debug().Str("fen", fen).Msg("loaded position")
	return nil
}

func (s *State) parseFEN(fen string) error {
	fields := strings.Fields(fen)
	if len(fields) == 0 || len(fields) > 6 {
		return fenError("expected 1 to 6 fields, got %d", len(fields))
	}
	defaults := []string{"", "w", "-", "-", "0", "1"}
	fields = append(fields, defaults[len(fields):]...)

	s.clearGrid()
	for c := White; c <= Black; c++ {
		for k := range s.pieces[c] {
			s.pieces[c][k].reset(c, k)
		}
	}
	if err := s.parsePlacement(fields[0]); err != nil {
		return err
	}
	if !s.king(White).alive || !s.king(Black).alive {
		return fenError("each side needs a king")
	}

	switch fields[1] {
	case "w":
		s.turn = White
	case "b":
		s.turn = Black
	default:
		return fenError("bad side to move %q", fields[1])
	}

	if err := s.parseCastling(fields[2]); err != nil {
		return err
	}
	if err := s.parseEnPassant(fields[3]); err != nil {
		return err
	}

	half, err := strconv.Atoi(fields[4])
	if err != nil || half < 0 {
		return fenError("bad half-move clock %q", fields[4])
	}
	full, err := strconv.Atoi(fields[5])
	if err != nil || full < 0 {
		return fenError("bad move number %q", fields[5])
	}
	if full < 1 {
		full = 1
	}
	s.halfMove = half
	s.ply = 2*full - 2
	if s.turn == Black {
		s.ply++
	}
	return nil
}

func (s *State) parsePlacement(field string) error {
	ranks := strings.Split(field, "/")
	if len(ranks) != 8 {
		return fenError("expected 8 ranks, got %d", len(ranks))
	}
	for i, row := range ranks {
		rank := int8(7 - i)
		file := int8(0)
		for j := 0; j < len(row); j++ {
			ch := row[j]
			if ch >= '1' && ch <= '8' {
				file += int8(ch - '0')
				if file > 8 {
					return fenError("rank %d is too long", rank+1)
				}
				continue
			}
			kind, color, ok := parseLetter(ch)
			if !ok {
				return fenError("unknown piece %q", ch)
			}
			if file > 7 {
				return fenError("rank %d is too long", rank+1)
			}
			sq := Square{File: file, Rank: rank}
			slot, err := s.freeSlot(kind, color, sq)
			if err != nil {
				return err
			}
			p := &s.pieces[color][slot]
			if p.kind != kind {
				p.kind = kind
				p.promoted = true
			}
			s.place(p, sq)
			file++
		}
		if file != 8 {
			return fenError("rank %d has %d files", rank+1, file)
		}
	}
	return nil
}

// freeSlot picks the slot for a piece read from FEN. Pieces beyond the
// starting set take a free pawn slot as promoted pieces.
func (s *State) freeSlot(kind Kind, c Color, sq Square) (int, error) {
	free := func(k int) bool { return !s.pieces[c][k].alive }
	var candidates []int
	switch kind {
	case King:
		if !free(slotKing) {
			return 0, fenError("more than one %s king", c)
		}
		return slotKing, nil
	case Queen:
		candidates = []int{slotQueen}
	case Bishop:
		candidates = []int{slotBishopL, slotBishopR}
	case Knight:
		candidates = []int{slotKnightL, slotKnightR}
	case Rook:
		// a corner rook keeps the slot of that corner so castling rights
		// follow it
		candidates = []int{slotRookL, slotRookR}
		if sq.Rank == c.homeRank() && sq.File == 7 {
			candidates = []int{slotRookR, slotRookL}
		}
	}
	for _, k := range candidates {
		if free(k) {
			return k, nil
		}
	}
	for k := slotPawn; k < PiecesPerSide; k++ {
		if free(k) {
			return k, nil
		}
	}
	return 0, fenError("too many %s pieces", c)
}

func (s *State) parseCastling(field string) error {
	for c := White; c <= Black; c++ {
		for k := range s.pieces[c] {
			if p := &s.pieces[c][k]; p.kind == King || p.kind == Rook {
				p.moved = true
			}
		}
	}
	if field == "-" {
		return nil
	}
	for i := 0; i < len(field); i++ {
		kind, c, ok := parseLetter(field[i])
		if !ok || (kind != King && kind != Queen) {
			return fenError("bad castling field %q", field)
		}
		file := int8(7)
		if kind == Queen {
			file = 0
		}
		home := c.homeRank()
		k := s.at(Square{File: 4, Rank: home})
		r := s.at(Square{File: file, Rank: home})
		if k == nil || k.kind != King || k.color != c || r == nil || r.kind != Rook || r.color != c {
			continue
		}
		k.moved = false
		r.moved = false
	}
	return nil
}

func (s *State) parseEnPassant(field string) error {
	if field == "-" {
		return nil
	}
	sq, err := ParseSquare(field)
	if err != nil {
		return fenError("bad en passant square %q", field)
	}
	var pawn Square
	var c Color
	switch sq.Rank {
	case 2:
		pawn, c = sq.add(0, 1), White
	case 5:
		pawn, c = sq.add(0, -1), Black
	default:
		return fenError("bad en passant square %q", field)
	}
	if p := s.at(pawn); p != nil && p.kind == Pawn && p.color == c {
		p.enPassant = true
	}
	return nil
}

// FEN exports the current position. Castling rights and the en passant
// square are derived from the moved and en passant flags.
func (b *Board) FEN() string {
	return b.State.fen()
}

// LoadedFEN exports the position the history starts from.
func (b *Board) LoadedFEN() string {
	return b.history[0].fen()
}

func (s *State) fen() string {
	var sb strings.Builder
	for r := 7; r >= 0; r-- {
		empty := 0
		for f := 0; f < 8; f++ {
			p := s.at(Sq(f, r))
			if p == nil {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(p.kind.Letter(p.color))
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if r > 0 {
			sb.WriteByte('/')
		}
	}

	turn := s.turn
	if turn == NoColor {
		// a finished game exports the side that would have moved
		turn = White
		if s.ply%2 == 1 {
			turn = Black
		}
	}
	if turn == White {
		sb.WriteString(" w ")
	} else {
		sb.WriteString(" b ")
	}

	castling := ""
	for _, c := range [...]Color{White, Black} {
		for _, side := range [...]struct {
			file int8
			kind Kind
		}{{7, King}, {0, Queen}} {
			if s.canCastle(c, side.file) {
				castling += string(side.kind.Letter(c))
			}
		}
	}
	if castling == "" {
		castling = "-"
	}
	sb.WriteString(castling)

	sb.WriteByte(' ')
	sb.WriteString(s.enPassantTarget(turn.Other()).String())
	fmt.Fprintf(&sb, " %d %d", s.halfMove, s.ply/2+1)
	return sb.String()
}

// canCastle reports the castling right of c toward the rook on file.
func (s *State) canCastle(c Color, file int8) bool {
	k := s.at(Square{File: 4, Rank: c.homeRank()})
	if k == nil || k.kind != King || k.color != c || k.moved {
		return false
	}
	return s.castlingRook(c, file)
}

// enPassantTarget is the square behind the pawn of c that just advanced two
// squares, or an invalid square.
func (s *State) enPassantTarget(c Color) Square {
	if c > Black {
		return Square{File: -1}
	}
	for k := range s.pieces[c] {
		p := &s.pieces[c][k]
		if p.alive && p.kind == Pawn && p.enPassant {
			return p.pos.add(0, -c.forward())
		}
	}
	return Square{File: -1}
}
