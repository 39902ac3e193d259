// Package gui is a terminal board for a pkg.Match.
package gui

import (
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/qnkhuat/gochess/pkg"
	"github.com/qnkhuat/gochess/pkg/engine"
	"github.com/rivo/tview"
	"github.com/rs/zerolog"
)

const (
	pollInterval = 100 * time.Millisecond
	// clocks are redrawn every clockTicks polls
	clockTicks = 5
)

type Game struct {
	m     *pkg.Match
	log   zerolog.Logger
	theme Theme

	app     *tview.Application
	pages   *tview.Pages
	board   *tview.Table
	status  *tview.TextView
	moves   *tview.TextView
	buttons []*tview.Button

	// flip shows the board from black's side
	flip      bool
	selecting bool
	selected  engine.Square
	promotion byte
	msg       string

	done chan struct{}
}

func New(m *pkg.Match, theme Theme, log zerolog.Logger) *Game {
	g := &Game{
		m:         m,
		log:       log.With().Str("component", "gui").Logger(),
		theme:     theme,
		app:       tview.NewApplication(),
		board:     tview.NewTable(),
		status:    tview.NewTextView().SetDynamicColors(true),
		moves:     tview.NewTextView(),
		promotion: 'q',
		done:      make(chan struct{}),
	}
	// a human playing black alone sees the board from black's side
	g.flip = !m.Player(engine.White).Human() && m.Player(engine.Black).Human()

	home := engine.Sq(4, 1)
	if g.flip {
		home = engine.Sq(4, 6)
	}
	g.board.SetSelectable(true, true)
	g.board.Select(cellOf(home, g.flip)).SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEscape {
			g.clearSelection()
			g.render()
		}
	}).SetSelectedFunc(func(row, col int) {
		g.selectSquare(row, col)
		g.render()
	})
	g.board.SetInputCapture(func(ev *tcell.EventKey) *tcell.EventKey {
		switch ev.Rune() {
		case 'q', 'r', 'b', 'n':
			g.promotion = byte(ev.Rune())
			g.msg = "Promote to " + string(ev.Rune())
			g.drawStatus()
			return nil
		}
		return ev
	})
	g.moves.SetBorder(true).SetTitle("Moves")

	g.buttons = []*tview.Button{
		g.button(pkg.ActionUndo, func() { g.report(g.m.Undo()) }),
		g.button(pkg.ActionRedo, func() { g.report(g.m.Redo()) }),
		g.button(pkg.ActionDrawAccept, func() {
			if !g.m.AcceptDraw() {
				g.msg = "No draw to accept"
			}
		}),
		g.button(pkg.ActionDrawReject, func() { g.m.DeclineDraw() }),
		g.button(pkg.ActionNewGameOffer, g.confirmNewGame),
		g.button(pkg.ActionBotMove, g.suggest),
		g.button(pkg.ActionStop, g.m.Abort),
		g.button(pkg.ActionExit, g.app.Stop),
	}
	options := tview.NewGrid().SetColumns(12, 12)
	for i, b := range g.buttons {
		options.AddItem(b, i/2, i%2, 1, 1, 0, 0, false)
	}

	side := tview.NewGrid().
		SetRows(len(g.buttons)/2, 8, -1).
		AddItem(options, 0, 0, 1, 1, 0, 0, false).
		AddItem(g.status, 1, 0, 1, 1, 0, 0, false).
		AddItem(g.moves, 2, 0, 1, 1, 0, 0, false)

	layout := tview.NewGrid().
		SetRows(-1, boardRows+2, -1).
		SetColumns(-1, 3*boardCols+2, 44, -1).
		AddItem(tview.NewBox(), 0, 0, 1, 4, 0, 0, false).
		AddItem(g.board, 1, 1, 1, 1, 0, 0, true).
		AddItem(side, 1, 2, 2, 1, 0, 0, false).
		AddItem(tview.NewBox(), 2, 0, 1, 2, 0, 0, false)

	g.pages = tview.NewPages().AddPage("board", layout, true, true)
	g.app.SetRoot(g.pages, true).SetFocus(g.board).EnableMouse(true)
	g.app.SetInputCapture(g.shortcut)
	g.render()
	return g
}

func (g *Game) button(a pkg.Action, fn func()) *tview.Button {
	return tview.NewButton(string(a)).SetSelectedFunc(func() {
		g.msg = ""
		fn()
		g.clearSelection()
		g.render()
		g.app.SetFocus(g.board)
	})
}

// shortcut maps control keys to the buttons so they work without a mouse.
func (g *Game) shortcut(ev *tcell.EventKey) *tcell.EventKey {
	var fn func()
	switch ev.Key() {
	case tcell.KeyCtrlZ:
		fn = func() { g.report(g.m.Undo()) }
	case tcell.KeyCtrlY:
		fn = func() { g.report(g.m.Redo()) }
	case tcell.KeyCtrlB:
		fn = g.suggest
	case tcell.KeyCtrlN:
		fn = g.confirmNewGame
	case tcell.KeyCtrlS:
		fn = g.m.Abort
	default:
		return ev
	}
	g.msg = ""
	fn()
	g.clearSelection()
	g.render()
	return nil
}

func (g *Game) report(err error) {
	if err != nil {
		g.msg = err.Error()
	}
}

func (g *Game) clearSelection() {
	g.selecting = false
}

func (g *Game) selectSquare(row, col int) {
	sq, ok := squareAt(row, col, g.flip)
	if !ok {
		return
	}
	g.msg = ""
	if g.selecting {
		from := g.selected
		g.selecting = false
		if from == sq {
			return
		}
		if p, ok := g.m.Square(sq); ok && p.Color() == g.m.Turn() {
			g.selecting, g.selected = true, sq
			return
		}
		uci := from.String() + sq.String()
		if p, ok := g.m.Square(from); ok && p.Kind() == engine.Pawn && (sq.Rank == 0 || sq.Rank == 7) {
			uci += string(g.promotion)
		}
		if err := g.m.Move(uci); err != nil {
			g.msg = err.Error()
			return
		}
		g.log.Info().Str("move", uci).Msg("played")
		return
	}
	p, ok := g.m.Square(sq)
	if !ok || p.Color() != g.m.Turn() || !g.m.Player(p.Color()).Human() {
		return
	}
	g.selecting, g.selected = true, sq
}

// suggest plays the move the strongest bot would choose for the side to
// move. The search runs off the ui goroutine.
func (g *Game) suggest() {
	if g.m.Status().Over() {
		return
	}
	fen := g.m.FEN()
	g.msg = "Thinking..."
	go func() {
		uci, err := g.m.Suggest("master", g.m.Depth())
		g.app.QueueUpdateDraw(func() {
			g.msg = ""
			switch {
			case err != nil:
				g.msg = err.Error()
			case uci == "" || g.m.FEN() != fen:
				return
			default:
				g.report(g.m.Move(uci))
			}
			g.render()
		})
	}()
}

func (g *Game) confirmNewGame() {
	modal := tview.NewModal().
		SetText(string(pkg.ActionNewGamePrompt)).
		AddButtons([]string{string(pkg.ActionNewGameAccept), string(pkg.ActionNewGameReject)}).
		SetDoneFunc(func(_ int, label string) {
			if label == string(pkg.ActionNewGameAccept) {
				g.m.Reset()
				g.log.Info().Msg("new game")
			}
			g.pages.RemovePage("newgame")
			g.app.SetFocus(g.board)
			g.render()
		})
	g.pages.AddPage("newgame", modal, false, true)
	g.app.SetFocus(modal)
}

// poll lets bots move and keeps the clocks current until the app stops.
func (g *Game) poll() {
	t := time.NewTicker(pollInterval)
	defer t.Stop()
	for n := 1; ; n++ {
		select {
		case <-g.done:
			return
		case <-t.C:
		}
		if g.m.PollBot() {
			g.app.QueueUpdateDraw(func() {
				g.clearSelection()
				g.render()
			})
			continue
		}
		if n%clockTicks == 0 {
			g.app.QueueUpdateDraw(g.drawStatus)
		}
	}
}

// Run blocks until the player exits.
func (g *Game) Run() error {
	go g.poll()
	defer close(g.done)
	defer g.m.Abort()
	return g.app.Run()
}

func (g *Game) Stop() {
	g.app.Stop()
}
