package engine

// MateScore is the value of a checkmate. Searches subtract the ply so that
// quicker mates score higher.
const MateScore = 1000000

const (
	mobilityWeight = 10
	pawnDoubled    = -50
	pawnIsolated   = -50
	pawnBlocked    = -50
	kingInCheck    = -2000
)

var pieceValues = [...]int{
	King:   20000,
	Queen:  900,
	Bishop: 330,
	Knight: 320,
	Rook:   500,
	Pawn:   100,
}

func (k Kind) Value() int {
	return pieceValues[k]
}

type squareTable [8][8]int

// Square tables are written from white's side: row 0 is rank 8.
var pawnTable = squareTable{
	{0, 0, 0, 0, 0, 0, 0, 0},
	{50, 50, 50, 50, 50, 50, 50, 50},
	{10, 10, 20, 30, 30, 20, 10, 10},
	{5, 5, 10, 25, 25, 10, 5, 5},
	{0, 0, 0, 0, 0, 0, 0, 0},
	{5, -5, -10, 0, 0, -10, -5, 5},
	{5, 10, 10, -20, -20, 10, 10, 5},
	{0, 0, 0, 0, 0, 0, 0, 0},
}

var knightTable = squareTable{
	{-50, -40, -30, -30, -30, -30, -40, -50},
	{-40, -20, 0, 0, 0, 0, -20, -40},
	{-30, 0, 10, 15, 15, 10, 0, -30},
	{-30, 5, 15, 20, 20, 15, 5, -30},
	{-30, 0, 15, 20, 20, 15, 0, -30},
	{-30, 5, 10, 15, 15, 10, 5, -30},
	{-40, -20, 0, 5, 5, 0, -20, -40},
	{-50, -40, -30, -30, -30, -30, -40, -50},
}

var bishopTable = squareTable{
	{-20, -10, -10, -10, -10, -10, -10, -20},
	{-10, 0, 0, 0, 0, 0, 0, -10},
	{-10, 0, 5, 10, 10, 5, 0, -10},
	{-10, 5, 5, 10, 10, 5, 5, -10},
	{-10, 0, 10, 10, 10, 10, 0, -10},
	{-10, 10, 10, 10, 10, 10, 10, -10},
	{-10, 5, 0, 0, 0, 0, 5, -10},
	{-20, -10, -10, -10, -10, -10, -10, -20},
}

var rookTable = squareTable{
	{0, 0, 0, 0, 0, 0, 0, 0},
	{5, 10, 10, 10, 10, 10, 10, 5},
	{-5, 0, 0, 0, 0, 0, 0, -5},
	{-5, 0, 0, 0, 0, 0, 0, -5},
	{-5, 0, 0, 0, 0, 0, 0, -5},
	{-5, 0, 0, 0, 0, 0, 0, -5},
	{-5, 0, 0, 0, 0, 0, 0, -5},
	{0, 0, 0, 5, 5, 0, 0, 0},
}

var queenTable = squareTable{
	{-20, -10, -10, -5, -5, -10, -10, -20},
	{-10, 0, 0, 0, 0, 0, 0, -10},
	{-10, 0, 5, 5, 5, 5, 0, -10},
	{-5, 0, 5, 5, 5, 5, 0, -5},
	{0, 0, 5, 5, 5, 5, 0, -5},
	{-10, 5, 5, 5, 5, 5, 0, -10},
	{-10, 0, 5, 0, 0, 0, 0, -10},
	{-20, -10, -10, -5, -5, -10, -10, -20},
}

var kingTable = squareTable{
	{-30, -40, -40, -50, -50, -40, -40, -30},
	{-30, -40, -40, -50, -50, -40, -40, -30},
	{-30, -40, -40, -50, -50, -40, -40, -30},
	{-30, -40, -40, -50, -50, -40, -40, -30},
	{-20, -30, -30, -40, -40, -30, -30, -20},
	{-10, -20, -20, -20, -20, -20, -20, -10},
	{20, 20, 0, 0, 0, 0, 20, 20},
	{20, 30, 10, 0, 0, 10, 30, 20},
}

var kingLateTable = squareTable{
	{-50, -40, -30, -20, -20, -30, -40, -50},
	{-30, -20, -10, 0, 0, -10, -20, -30},
	{-30, -10, 20, 30, 30, 20, -10, -30},
	{-30, -10, 30, 40, 40, 30, -10, -30},
	{-30, -10, 30, 40, 40, 30, -10, -30},
	{-30, -10, 20, 30, 30, 20, -10, -30},
	{-30, -30, 0, 0, 0, 0, -30, -30},
	{-50, -30, -30, -30, -30, -30, -30, -50},
}

// squareTables is indexed by [lateGame][kind].
var squareTables = [2][6]*squareTable{
	{King: &kingTable, Queen: &queenTable, Bishop: &bishopTable, Knight: &knightTable, Rook: &rookTable, Pawn: &pawnTable},
	{King: &kingLateTable, Queen: &queenTable, Bishop: &bishopTable, Knight: &knightTable, Rook: &rookTable, Pawn: &pawnTable},
}

// Evaluate scores the position from white's point of view: positive favours
// white. A finished game scores ±MateScore or 0.
func (b *Board) Evaluate() int {
	return b.State.evaluate()
}

func (s *State) evaluate() int {
	if s.turn == NoColor {
		switch {
		case s.checkmate[White]:
			return -MateScore
		case s.checkmate[Black]:
			return MateScore
		}
		return 0
	}
	return s.sideScore(White) - s.sideScore(Black)
}

func (s *State) sideScore(c Color) int {
	late := 0
	if s.lateGame {
		late = 1
	}
	files := s.pawnFiles(c)

	score := 0
	for k := range s.pieces[c] {
		p := &s.pieces[c][k]
		if !p.alive {
			continue
		}
		score += p.kind.Value()
		score += squareTables[late][p.kind].at(c, p.pos)
		if p.kind != Pawn {
			score += mobilityWeight * int(p.pseudo.n)
			continue
		}
		score += pawnPenalty(p, &files)
	}
	for _, n := range files {
		if n > 1 {
			score += (n - 1) * pawnDoubled
		}
	}
	if s.inCheck(c) {
		score += kingInCheck
	}
	return score
}

// pawnFiles counts the pawns of c on each file.
func (s *State) pawnFiles(c Color) [8]int {
	var files [8]int
	for k := slotPawn; k < PiecesPerSide; k++ {
		if p := &s.pieces[c][k]; p.alive && p.kind == Pawn {
			files[p.pos.File]++
		}
	}
	return files
}

// pawnPenalty scores the blocked and isolated penalties of pawn p. Blocked
// means no pseudo-legal move at all: a pawn stuck in front that can still
// capture is not blocked.
func pawnPenalty(p *Piece, files *[8]int) int {
	score := 0
	if p.pseudo.n == 0 {
		score += pawnBlocked
	}
	if isolated(files, p.pos.File) {
		score += pawnIsolated
	}
	return score
}

func (t *squareTable) at(c Color, sq Square) int {
	row := 7 - sq.Rank
	if c == Black {
		row = sq.Rank
	}
	return t[row][sq.File]
}

func isolated(files *[8]int, file int8) bool {
	for _, f := range [...]int8{file - 1, file + 1} {
		if f >= 0 && f < 8 && files[f] > 0 {
			return false
		}
	}
	return true
}
