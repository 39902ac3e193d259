package gui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/qnkhuat/gochess/pkg"
	"github.com/qnkhuat/gochess/pkg/engine"
	"github.com/rivo/tview"
)

const (
	boardRows = 9 // eight ranks plus the file labels
	boardCols = 9 // rank labels plus eight files
	moveRows  = 12
)

var glyphs = [2][6]string{
	{"♔", "♕", "♗", "♘", "♖", "♙"},
	{"♚", "♛", "♝", "♞", "♜", "♟"},
}

func glyph(p engine.Piece) string {
	if p.Color() > engine.Black || int(p.Kind()) >= len(glyphs[0]) {
		return " "
	}
	return glyphs[p.Color()][p.Kind()]
}

// squareAt maps a table cell to a board square. ok is false for the label
// cells.
func squareAt(row, col int, flip bool) (sq engine.Square, ok bool) {
	if row < 0 || row >= 8 || col < 1 || col > 8 {
		return sq, false
	}
	file, rank := col-1, 7-row
	if flip {
		file, rank = 7-file, 7-rank
	}
	return engine.Sq(file, rank), true
}

// cellOf is the inverse of squareAt.
func cellOf(sq engine.Square, flip bool) (row, col int) {
	file, rank := int(sq.File), int(sq.Rank)
	if flip {
		file, rank = 7-file, 7-rank
	}
	return 7 - rank, file + 1
}

// squareBg picks the background of sq from the theme, most important
// highlight first.
func (g *Game) squareBg(sq engine.Square, st engine.Status, hints engine.Bitboard) tcell.Color {
	switch {
	case g.selecting && g.selected == sq:
		return g.theme.SquareHigh
	case hints.Has(sq):
		return g.theme.SquareHint
	case g.inCheck(sq, st):
		return g.theme.SquareCheck
	case g.lastMove(sq):
		return g.theme.SquareLast
	case sq.Light():
		return g.theme.SquareLight
	default:
		return g.theme.SquareDark
	}
}

func (g *Game) inCheck(sq engine.Square, st engine.Status) bool {
	p, ok := g.m.Square(sq)
	if !ok || p.Kind() != engine.King {
		return false
	}
	return st.Checkmate[p.Color()] || (p.Color() == st.Turn && g.m.AttackZone(p.Color().Other()).Has(sq))
}

func (g *Game) lastMove(sq engine.Square) bool {
	moves := g.m.Moves()
	if len(moves) == 0 {
		return false
	}
	last := moves[len(moves)-1]
	s := sq.String()
	return len(last) >= 4 && (last[0:2] == s || last[2:4] == s)
}

func (g *Game) drawBoard() {
	st := g.m.Status()
	var hints engine.Bitboard
	if g.selecting {
		hints = g.m.Movement(g.selected)
	}
	for row := 0; row < 8; row++ {
		rank := 8 - row
		if g.flip {
			rank = row + 1
		}
		g.board.SetCell(row, 0, tview.NewTableCell(fmt.Sprintf("%d ", rank)).
			SetTextColor(g.theme.Rank).
			SetSelectable(false))
		for col := 1; col <= 8; col++ {
			sq, _ := squareAt(row, col, g.flip)
			text, fg := " ", g.theme.White
			if p, ok := g.m.Square(sq); ok {
				text = glyph(p)
				if p.Color() == engine.Black {
					fg = g.theme.Black
				}
			}
			g.board.SetCell(row, col, tview.NewTableCell(" "+text+" ").
				SetTextColor(fg).
				SetBackgroundColor(g.squareBg(sq, st, hints)).
				SetAlign(tview.AlignCenter))
		}
	}
	g.board.SetCell(8, 0, tview.NewTableCell("").SetSelectable(false))
	for col := 1; col <= 8; col++ {
		file := byte('a' + col - 1)
		if g.flip {
			file = byte('h' - col + 1)
		}
		g.board.SetCell(8, col, tview.NewTableCell(string(file)).
			SetTextColor(g.theme.File).
			SetAlign(tview.AlignCenter).
			SetSelectable(false))
	}
}

func (g *Game) drawStatus() {
	st := g.m.Status()
	var sb strings.Builder
	for _, c := range []engine.Color{engine.Black, engine.White} {
		marker := " "
		if st.Turn == c {
			marker = ">"
		}
		fmt.Fprintf(&sb, "%s %-6s %-24s %s\n", marker, c, g.m.Player(c), g.m.Clock(c))
	}
	fmt.Fprintf(&sb, "\nEval: %+.2f\n", float64(g.m.Score())/100)
	switch {
	case st.Over():
		fmt.Fprintf(&sb, "%s %s\n", g.m.Outcome(g.human()), st.Text)
	case st.DrawOffer:
		fmt.Fprintf(&sb, "%s %s\n", pkg.ActionDrawPrompt, st.Text)
	case st.Text != "":
		sb.WriteString(st.Text + "\n")
	}
	if g.msg != "" {
		fmt.Fprintf(&sb, "[#%06x]%s[-]\n", g.theme.Msg.Hex(), tview.Escape(g.msg))
	}
	g.status.SetText(sb.String())
}

// human is the color the board is shown for.
func (g *Game) human() engine.Color {
	if g.flip {
		return engine.Black
	}
	return engine.White
}

func (g *Game) drawMoves() {
	san, err := pkg.SAN(g.m.Record())
	if err != nil {
		g.moves.SetText(err.Error())
		return
	}
	g.moves.SetText(moveList(san, moveRows))
}

// moveList numbers SAN moves in pairs and keeps the last rows lines.
func moveList(san []string, rows int) string {
	var lines []string
	for i := 0; i < len(san); i += 2 {
		black := ""
		if i+1 < len(san) {
			black = san[i+1]
		}
		lines = append(lines, fmt.Sprintf("%3d. %-8s %-8s", i/2+1, san[i], black))
	}
	if len(lines) > rows {
		lines = lines[len(lines)-rows:]
	}
	return strings.Join(lines, "\n")
}

func (g *Game) render() {
	g.drawBoard()
	g.drawStatus()
	g.drawMoves()
}
