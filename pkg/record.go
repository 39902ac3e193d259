package pkg

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/qnkhuat/gochess/pkg/engine"
)

const (
	ResultWhite   = "1-0"
	ResultBlack   = "0-1"
	ResultDraw    = "1/2-1/2"
	ResultOngoing = "*"
)

// Record is a finished or running game as saved to disk: the position it
// started from and the moves played, in UCI notation.
type Record struct {
	Event  string   `json:"event,omitempty"`
	White  string   `json:"white"`
	Black  string   `json:"black"`
	FEN    string   `json:"fen"`
	Moves  []string `json:"moves"`
	Result string   `json:"result"`
	Text   string   `json:"text,omitempty"`
}

func (r Record) Encode() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

func DecodeRecord(data []byte) (Record, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return Record{}, fmt.Errorf("decode record: %w", err)
	}
	if r.FEN == "" {
		r.FEN = engine.StartFEN
	}
	return r, nil
}

// Replay plays the record on b from its start position. It stops at the
// first move that does not parse or is not legal.
func (r Record) Replay(b *engine.Board) error {
	if err := b.LoadFEN(r.FEN); err != nil {
		return err
	}
	for i, s := range r.Moves {
		m, err := b.ParseMove(s)
		if err != nil {
			return fmt.Errorf("move %d: %w", i+1, err)
		}
		if !b.AttemptMove(m) {
			return fmt.Errorf("move %d: %s is illegal", i+1, s)
		}
	}
	return nil
}

// ResultOf returns the PGN result token for st.
func ResultOf(st engine.Status) string {
	switch {
	case st.Checkmate[engine.White]:
		return ResultBlack
	case st.Checkmate[engine.Black]:
		return ResultWhite
	case st.Draw:
		return ResultDraw
	}
	return ResultOngoing
}

func (r Record) String() string {
	return fmt.Sprintf("%s vs %s [%s] %s", r.White, r.Black, r.Result, strings.Join(r.Moves, " "))
}
