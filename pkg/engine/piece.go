package engine

const PiecesPerSide = 16

// Fixed slot of every piece within its side. Pawn slots double as storage for
// extra promoted pieces when a position is loaded from FEN.
const (
	slotKing = iota
	slotQueen
	slotBishopL
	slotBishopR
	slotKnightL
	slotKnightR
	slotRookL
	slotRookR
	slotPawn
)

var slotKinds = [PiecesPerSide]Kind{
	King, Queen, Bishop, Bishop, Knight, Knight, Rook, Rook,
	Pawn, Pawn, Pawn, Pawn, Pawn, Pawn, Pawn, Pawn,
}

var backRankFiles = [slotPawn]int8{4, 3, 2, 5, 1, 6, 0, 7}

// slotStart is the square the piece in slot starts the game on.
func slotStart(c Color, slot int) Square {
	if slot >= slotPawn {
		return Square{File: int8(slot - slotPawn), Rank: c.homeRank() + c.forward()}
	}
	return Square{File: backRankFiles[slot], Rank: c.homeRank()}
}

// PieceID names a piece by color and slot. It survives captures, so the id
// of a captured piece stays reserved until the position is reloaded.
type PieceID int8

const NoPiece PieceID = -1

func pieceID(c Color, slot int) PieceID {
	return PieceID(int(c)*PiecesPerSide + slot)
}

func (id PieceID) Color() Color {
	return Color(int(id) / PiecesPerSide)
}

func (id PieceID) Slot() int {
	return int(id) % PiecesPerSide
}

// Piece is a value stored inside a State; it never refers back to the board.
type Piece struct {
	kind  Kind
	color Color
	slot  uint8

	pos, start Square

	alive     bool
	moved     bool
	enPassant bool
	promoted  bool

	pseudoBB, legalBB Bitboard
	pseudo, legal     pieceMoves
}

func (p *Piece) ID() PieceID     { return pieceID(p.color, int(p.slot)) }
func (p *Piece) Kind() Kind      { return p.kind }
func (p *Piece) Color() Color    { return p.color }
func (p *Piece) Square() Square  { return p.pos }
func (p *Piece) Start() Square   { return p.start }
func (p *Piece) Alive() bool     { return p.alive }
func (p *Piece) Moved() bool     { return p.moved }
func (p *Piece) EnPassant() bool { return p.enPassant }
func (p *Piece) Promoted() bool  { return p.promoted }

// Pseudo is the set of squares the piece may reach ignoring own-king safety.
func (p *Piece) Pseudo() Bitboard { return p.pseudoBB }

// Legal is the subset of Pseudo that keeps the own king safe.
func (p *Piece) Legal() Bitboard { return p.legalBB }

func (p *Piece) PseudoMoves() []Move {
	return append([]Move(nil), p.pseudo.slice()...)
}

func (p *Piece) LegalMoves() []Move {
	return append([]Move(nil), p.legal.slice()...)
}

// reset puts the piece back into its slot's starting kind and square.
func (p *Piece) reset(c Color, slot int) {
	*p = Piece{
		kind:  slotKinds[slot],
		color: c,
		slot:  uint8(slot),
		start: slotStart(c, slot),
	}
}

// restoreProbe copies everything a speculative move can change.
func (p *Piece) restoreProbe(src *Piece) {
	p.kind = src.kind
	p.pos = src.pos
	p.alive = src.alive
	p.moved = src.moved
	p.enPassant = src.enPassant
	p.promoted = src.promoted
	p.pseudoBB = src.pseudoBB
	p.pseudo = src.pseudo
}

// sameAs compares the parts of two pieces that define a position.
func (p *Piece) sameAs(q *Piece) bool {
	return p.kind == q.kind && p.color == q.color && p.moved == q.moved && p.enPassant == q.enPassant
}
