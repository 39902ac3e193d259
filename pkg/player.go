package pkg

import (
	"fmt"

	petname "github.com/dustinkirkland/golang-petname"
	"github.com/qnkhuat/gochess/pkg/bot"
	"github.com/qnkhuat/gochess/pkg/engine"
)

// Player is whoever controls one colour of a match. A nil Bot means a
// human moves for it.
type Player struct {
	Name  string
	Color engine.Color
	Bot   *bot.Bot
}

func NewPlayer(color engine.Color) *Player {
	return &Player{
		Name:  petname.Generate(2, "-"),
		Color: color,
	}
}

func (p *Player) Human() bool {
	return p.Bot == nil
}

func (p *Player) String() string {
	if p.Human() {
		return fmt.Sprintf("%s (%s)", p.Name, p.Color)
	}
	return fmt.Sprintf("%s (%s, %s bot depth %d)", p.Name, p.Color, p.Bot.Strategy(), p.Bot.Depth())
}
