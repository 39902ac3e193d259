package pkg

import "github.com/qnkhuat/gochess/pkg/engine"

// Action labels the buttons and prompts shown to a player.
type Action string

const (
	ActionDrawPrompt    Action = "Draw?"
	ActionDrawAccept    Action = "Accept"
	ActionDrawReject    Action = "Reject"
	ActionUndo          Action = "Undo"
	ActionRedo          Action = "Redo"
	ActionNewGamePrompt Action = "New Game?"
	ActionNewGameOffer  Action = "New Game"
	ActionNewGameAccept Action = "Yes!"
	ActionNewGameReject Action = "No~"
	ActionBotMove       Action = "Bot Move"
	ActionStop          Action = "Stop"
	ActionExit          Action = "Exit"
	ActionWin           Action = "Win"
	ActionLose          Action = "Lose"
	ActionDraw          Action = "Draw"
)

// Outcome reports how the game ended for color c: ActionWin, ActionLose,
// ActionDraw, or "" while it is still running.
func (m *Match) Outcome(c engine.Color) Action {
	st := m.Status()
	switch {
	case !st.Over():
		return ""
	case st.Draw || c > engine.Black:
		return ActionDraw
	case st.Checkmate[c]:
		return ActionLose
	default:
		return ActionWin
	}
}
