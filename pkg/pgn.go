package pkg

import (
	"fmt"

	"github.com/notnil/chess"
)

// PGN renders r in portable game notation with SAN moves.
func PGN(r Record) (string, error) {
	game, err := replayNotnil(r)
	if err != nil {
		return "", err
	}
	if r.Event != "" {
		game.AddTagPair("Event", r.Event)
	}
	game.AddTagPair("White", r.White)
	game.AddTagPair("Black", r.Black)
	game.AddTagPair("Result", r.Result)
	if r.FEN != "" && r.FEN != TestPositions[0] {
		game.AddTagPair("SetUp", "1")
		game.AddTagPair("FEN", r.FEN)
	}
	return game.String(), nil
}

// SAN converts the UCI moves of r to standard algebraic notation.
func SAN(r Record) ([]string, error) {
	game, err := replayNotnil(r)
	if err != nil {
		return nil, err
	}
	moves := game.Moves()
	positions := game.Positions()
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = chess.AlgebraicNotation{}.Encode(positions[i], m)
	}
	return out, nil
}

// replayNotnil replays r in a game that prints algebraic notation.
func replayNotnil(r Record) (*chess.Game, error) {
	fen, err := chess.FEN(r.FEN)
	if err != nil {
		return nil, err
	}
	game := chess.NewGame(fen)
	for i, s := range r.Moves {
		m, err := chess.UCINotation{}.Decode(game.Position(), s)
		if err == nil {
			err = game.Move(m)
		}
		if err != nil {
			return nil, fmt.Errorf("move %d (%s): %w", i+1, s, err)
		}
	}
	return game, nil
}
