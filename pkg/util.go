package pkg

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/qnkhuat/gochess/pkg/engine"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

// TestPositions are the positions loaded by "position testpos N".
var TestPositions = [...]string{
	engine.StartFEN,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
	"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
}

// Testpos returns test position i, counted from 1.
func Testpos(i int) (string, error) {
	if i < 1 || i > len(TestPositions) {
		return "", fmt.Errorf("there are only %d test positions", len(TestPositions))
	}
	return TestPositions[i-1], nil
}

// InitLog points the global logger at dest, appending to it, and returns a
// logger tagged with component.
func InitLog(dest, component string) (zerolog.Logger, io.Closer, error) {
	f, err := os.OpenFile(dest, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("error opening log file: %w", err)
	}
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zlog.Logger = zerolog.New(f).With().Timestamp().Logger()
	return zlog.Logger.With().Str("component", component).Logger(), f, nil
}
