package gui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// Theme colors the board and the side panel.
type Theme struct {
	Name        string
	SquareDark  tcell.Color
	SquareLight tcell.Color
	SquareHigh  tcell.Color
	SquareHint  tcell.Color
	SquareCheck tcell.Color
	SquareLast  tcell.Color
	White       tcell.Color
	Black       tcell.Color
	Rank        tcell.Color
	File        tcell.Color
	Msg         tcell.Color
}

// ThemeBasic is the default theme
var ThemeBasic = Theme{
	Name:        "basic",
	SquareDark:  tcell.Color188,
	SquareLight: tcell.Color230,
	SquareHigh:  tcell.Color226,
	SquareHint:  tcell.Color223,
	SquareCheck: tcell.Color218,
	SquareLast:  tcell.Color151,
	White:       tcell.Color232,
	Black:       tcell.Color232,
	Rank:        tcell.Color247,
	File:        tcell.Color247,
	Msg:         tcell.Color160,
}

var ThemeClassic = Theme{
	Name:        "classic",
	SquareDark:  tcell.ColorBlue,
	SquareLight: tcell.ColorGreen,
	SquareHigh:  tcell.ColorRed,
	SquareHint:  tcell.ColorOrange,
	SquareCheck: tcell.ColorPurple,
	SquareLast:  tcell.ColorTeal,
	White:       tcell.ColorWhite,
	Black:       tcell.ColorBlack,
	Rank:        tcell.ColorYellow,
	File:        tcell.ColorYellow,
	Msg:         tcell.ColorRed,
}

var Themes = []Theme{ThemeBasic, ThemeClassic}

func ThemeByName(name string) (Theme, error) {
	for _, t := range Themes {
		if t.Name == name {
			return t, nil
		}
	}
	return Theme{}, fmt.Errorf("theme: no theme named %q", name)
}
