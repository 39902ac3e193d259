package engine

import (
	"errors"

	"github.com/rs/zerolog"
)

var ErrHistoryIndex = errors.New("history index out of range")

// Board is a position plus its snapshot history. Boards are not safe for
// concurrent use; searches work on clones.
type Board struct {
	State

	// history[i] is the position after i committed moves counted from the
	// loaded position; index is the one currently shown.
	history []State
	played  []Move
	index   int

	// probe is scratch space for the legality pass.
	probe State

	log zerolog.Logger
}

type Option func(*Board)

func WithLogger(l zerolog.Logger) Option {
	return func(b *Board) {
		b.log = l.With().Str("component", "engine").Logger()
	}
}

// New returns a board set up in the start position.
func New(opts ...Option) *Board {
	b := &Board{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(b)
	}
	b.LoadStart()
	return b
}

// LoadStart sets up the standard start position and clears the history.
func (b *Board) LoadStart() {
	s := &b.State
	*s = State{}
	s.clearGrid()
	for c := White; c <= Black; c++ {
		for k := range s.pieces[c] {
			p := &s.pieces[c][k]
			p.reset(c, k)
			s.place(p, p.start)
		}
	}
	s.turn = White
	b.refresh()
	b.resetHistory()
}

// refresh recomputes every derived field of a freshly loaded position.
func (b *Board) refresh() {
	b.history = b.history[:0]
	b.index = 0
	b.updatePseudo()
	b.updateLegal()
	b.checkLateGame()
	b.checkGameOver()
}

func (b *Board) resetHistory() {
	b.history = append(b.history[:0], b.State)
	b.played = b.played[:0]
	b.index = 0
}

// updateLegal keeps the pseudo-legal moves of both sides that leave the own
// king safe, trying each one on the live state and rolling it back.
func (b *Board) updateLegal() {
	s := &b.State
	b.probe = *s
	for c := White; c <= Black; c++ {
		s.alive[c].n = 0
		s.movable[c].n = 0
		s.legal[c].n = 0
		for k := range s.pieces[c] {
			p := &s.pieces[c][k]
			p.legal.n = 0
			p.legalBB = 0
			if !p.alive {
				continue
			}
			s.alive[c].add(k)
			for i := 0; i < int(p.pseudo.n); i++ {
				m := p.pseudo.list[i]
				if s.apply(m) {
					p.legal.add(m)
					p.legalBB.Set(m.To)
					s.legal[c].add(m)
				}
				s.restoreProbe(&b.probe)
			}
			if p.legal.n > 0 {
				s.movable[c].add(k)
			}
		}
	}
}

// Apply plays m on the current state without committing it. It reports
// whether the move was legal; either way the caller is expected to roll back
// with RestoreProbe or Restore.
func (b *Board) Apply(m Move) bool {
	return b.apply(m)
}

// PassTurn hands the move to the opponent without a legality pass. Searches
// use it after Apply.
func (b *Board) PassTurn() {
	b.checkLateGame()
	b.turn = b.turn.Other()
}

// Commit finishes a move that has been applied: the turn passes, legal moves
// and game status are recomputed and a snapshot is appended to the history.
// Any redo tail is dropped.
func (b *Board) Commit(m Move) {
	b.turn = b.turn.Other()
	b.ply++
	b.updateLegal()
	b.checkLateGame()
	b.checkGameOver()
	b.history = append(b.history[:b.index+1], b.State)
	b.played = append(b.played[:b.index], m)
	b.index++
}

// AttemptMove plays m if it is legal for the side to move.
func (b *Board) AttemptMove(m Move) bool {
	if b.turn == NoColor {
		return false
	}
	p := b.at(m.From)
	if p == nil || p.color != b.turn || !p.legalBB.Has(m.To) || !p.legal.contains(m) {
		return false
	}
	b.apply(m)
	b.Commit(m)
	return true
}

// MakeMove is AttemptMove for callers that expect the move to be legal.
func (b *Board) MakeMove(m Move) bool {
	if !b.AttemptMove(m) {
		b.log.Error().Str("move", b.UCI(m)).Str("turn", b.turn.String()).Msg("rejected move")
		return false
	}
	return true
}

// Save copies the current position into dst.
func (b *Board) Save(dst *State) {
	*dst = b.State
}

// Restore replaces the current position with src.
func (b *Board) Restore(src *State) {
	b.State = *src
}

// RestoreProbe rolls back a speculative Apply from the snapshot taken before
// it, skipping the fields Apply never touches.
func (b *Board) RestoreProbe(src *State) {
	b.restoreProbe(src)
}

func (b *Board) GoTo(i int) error {
	if i < 0 || i >= len(b.history) {
		return ErrHistoryIndex
	}
	b.State = b.history[i]
	b.index = i
	return nil
}

func (b *Board) Undo() error {
	return b.GoTo(b.index - 1)
}

func (b *Board) Redo() error {
	return b.GoTo(b.index + 1)
}

// Reset returns to the loaded position and forgets every move.
func (b *Board) Reset() {
	b.State = b.history[0]
	b.resetHistory()
}

func (b *Board) HistoryLen() int   { return len(b.history) }
func (b *Board) HistoryIndex() int { return b.index }

// Played lists the moves leading from the loaded position to the current one.
func (b *Board) Played() []Move {
	return append([]Move(nil), b.played[:b.index]...)
}

// PlayedUCI is Played in coordinate notation.
func (b *Board) PlayedUCI() []string {
	out := make([]string, b.index)
	for i, m := range b.played[:b.index] {
		out[i] = b.history[i].uci(m)
	}
	return out
}

// Clone copies the current position into a new board whose history starts
// there.
func (b *Board) Clone() *Board {
	c := &Board{State: b.State, log: b.log}
	c.resetHistory()
	return c
}

func (b *Board) Turn() Color        { return b.turn }
func (b *Board) Ply() int           { return b.ply }
func (b *Board) HalfMoveClock() int { return b.halfMove }

// At returns the piece on sq, or nil.
func (b *Board) At(sq Square) *Piece {
	return b.at(sq)
}

func (b *Board) Piece(id PieceID) *Piece {
	if id < 0 || int(id) >= 2*PiecesPerSide {
		return nil
	}
	return &b.pieces[id.Color()][id.Slot()]
}

// Movement returns the legal destinations of the piece on sq.
func (b *Board) Movement(sq Square) Bitboard {
	if p := b.at(sq); p != nil {
		return p.legalBB
	}
	return 0
}

func (b *Board) LegalMoves(c Color) []Move {
	if c > Black {
		return nil
	}
	return append([]Move(nil), b.legal[c].slice()...)
}

func (b *Board) PseudoMoves(c Color) []Move {
	return b.AppendPseudoMoves(nil, c)
}

// AppendPseudoMoves appends the pseudo-legal moves of c to dst.
func (b *Board) AppendPseudoMoves(dst []Move, c Color) []Move {
	if c > Black {
		return dst
	}
	return append(dst, b.pseudo[c].slice()...)
}

// AlivePieces lists the pieces of c still on the board.
func (b *Board) AlivePieces(c Color) []*Piece {
	return b.pieceList(c, &b.alive)
}

// MovablePieces lists the pieces of c with at least one legal move.
func (b *Board) MovablePieces(c Color) []*Piece {
	return b.pieceList(c, &b.movable)
}

func (b *Board) pieceList(c Color, lists *[2]slotList) []*Piece {
	if c > Black {
		return nil
	}
	slots := lists[c].slice()
	pieces := make([]*Piece, 0, len(slots))
	for _, k := range slots {
		pieces = append(pieces, &b.pieces[c][k])
	}
	return pieces
}

// DangerZone is the union of the pseudo-legal targets of c.
func (b *Board) DangerZone(c Color) Bitboard {
	if c > Black {
		return 0
	}
	return b.danger[c]
}

// AttackZone is the set of squares c attacks, counting pawn diagonals and
// ignoring pawn pushes and castling.
func (b *Board) AttackZone(c Color) Bitboard {
	if c > Black {
		return 0
	}
	return b.attackZone(c)
}

func (b *Board) InCheck(c Color) bool {
	return b.inCheck(c)
}
