package stockfish

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/cricklet/duckchess/internal/evaluation"
	. "github.com/cricklet/duckchess/internal/game"
	. "github.com/cricklet/duckchess/internal/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfoMate(t *testing.T) {
	line := "info depth 31 seldepth 2 multipv 1 score mate 1 nodes 670 nps 670000 tbhits 0 time 1 pv a4e8	"
	move, score, err := MoveAndScoreFromInfoLine(line)
	assert.True(t, err.IsNil(), err)
	assert.Equal(t, "a4e8", move.Value())
	assert.Equal(t, evaluation.WinScore-1, score)

	line = "info depth 31 seldepth 2 multipv 1 score mate -3 nodes 670 nps 670000 tbhits 0 time 1 pv a4e8	"
	move, score, err = MoveAndScoreFromInfoLine(line)
	assert.True(t, err.IsNil(), err)
	assert.Equal(t, "a4e8", move.Value())
	assert.Equal(t, -evaluation.WinScore+3, score)
}

func TestInfoScore(t *testing.T) {
	line := "info depth 1 seldepth 3 multipv 1 score cp 869 nodes 83 nps 83000 tbhits 0 time 1 pv a4e8 f7f6 e6f5 f6f5"
	move, score, err := MoveAndScoreFromInfoLine(line)
	assert.True(t, err.IsNil(), err)
	assert.Equal(t, "a4e8", move.Value())
	assert.Equal(t, 869, score)
}

func TestInfoMissingPv(t *testing.T) {
	line := "info depth 14 seldepth 16 multipv 1 score cp -133 nodes 46884 nps 390700 tbhits 0 time 120"
	move, score, err := MoveAndScoreFromInfoLine(line)
	assert.True(t, err.IsNil(), err)
	assert.True(t, move.IsEmpty())
	assert.Equal(t, -133, score)
}

func TestInfoWithoutScore(t *testing.T) {
	_, _, err := MoveAndScoreFromInfoLine("info string variant duck files 8 ranks 8")
	assert.True(t, err.HasError())

	_, _, err = MoveAndScoreFromInfoLine("info depth 3 score cp")
	assert.True(t, err.HasError())

	_, _, err = MoveAndScoreFromInfoLine("info depth 3 score lowerbound 12 pv e2e4")
	assert.True(t, err.HasError())
}

func TestMissingBinary(t *testing.T) {
	r := NewFairyRunner(WithPath("/nonexistent/fairy-stockfish"), WithLogger(&SilentLogger))
	defer r.Close()

	_, err := r.Evaluate(NewGame())
	assert.True(t, errors.Is(err, ErrEngineUnavailable), err)

	start := time.Now()
	_, err = r.Evaluate(NewGame())
	assert.True(t, errors.Is(err, ErrEngineUnavailable), err)
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestRejectsDuckPhase(t *testing.T) {
	g := NewGame()
	_, err := g.PerformMoveFromString("e2e4")
	require.True(t, IsNil(err), err)

	r := NewFairyRunner(WithPath("/nonexistent/fairy-stockfish"), WithLogger(&SilentLogger))
	_, err = r.Evaluate(g)
	assert.True(t, err.HasError())
	assert.False(t, errors.Is(err, ErrEngineUnavailable), err)
}

// fakeEngine answers just enough UCI for an evaluation and always reports the
// same scores.
const fakeEngine = `#!/bin/sh
while read line; do
  case "$line" in
    uci) echo "id name fake"; echo "uciok";;
    isready) echo "readyok";;
    position*" w "*) best="e2e4,e4d5";;
    position*) best="d7d5,e5c4";;
    go*) echo "info depth 1 score cp 37 pv e2e4"
         echo "info depth 2 score cp 42 pv e2e4 e7e5"
         echo "bestmove $best";;
    quit) exit 0;;
  esac
done
`

func writeFakeEngine(t *testing.T, script string) string {
	path := filepath.Join(t.TempDir(), "fake-engine")
	require.True(t, IsNil(Wrap(os.WriteFile(path, []byte(script), 0755))))
	return path
}

func TestFakeEngine(t *testing.T) {
	r := NewFairyRunner(WithPath(writeFakeEngine(t, fakeEngine)), WithLogger(&SilentLogger), WithDepth(2))
	defer r.Close()

	score, err := r.Evaluate(NewGame())
	assert.True(t, IsNil(err), err)
	assert.Equal(t, 42, score)
	assert.Equal(t, "e2e4", r.LastBestMove.Value().String())

	g := MustGameFromFen("rnbqkbnr/pppppppp/8/4*3/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1 piece")
	score, err = r.Evaluate(g)
	assert.True(t, IsNil(err), err)
	assert.Equal(t, -42, score)

	assert.Equal(t, "d7d5", r.LastBestMove.Value().String())

	assert.Equal(t, 2, r.Evaluations)
	assert.Contains(t, r.binary.Flush(), "in:  position fen rnbqkbnr/pppppppp/8/4*3/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1")
	assert.Contains(t, r.binary.Flush(), "in:  setoption name UCI_Variant value duck")
}

func TestDecodeBestMove(t *testing.T) {
	g := MustGameFromFen("r3k3/8/8/8/8/8/7*/R3K2R w KQq - 0 1 piece")
	position, err := chessPosition(g)
	require.True(t, IsNil(err), err)

	move, err := decodeBestMove(g, position, "bestmove e1g1,h2d4")
	assert.True(t, IsNil(err), err)
	assert.Equal(t, KingsideCastleMove, move.Value().Kind)

	move, err = decodeBestMove(g, position, "bestmove a1a8 ponder e8d8")
	assert.True(t, IsNil(err), err)
	assert.True(t, move.Value().IsCapture())

	move, err = decodeBestMove(g, position, "bestmove (none)")
	assert.True(t, IsNil(err), err)
	assert.True(t, move.IsEmpty())

	for _, line := range []string{"bestmove", "bestmove e1", "bestmove z9a1", "bestmove h1h2"} {
		_, err = decodeBestMove(g, position, line)
		assert.True(t, errors.Is(err, ErrMalformedOutput), line)
	}
}

// garbledEngine scores the position but names a move that does not exist.
const garbledEngine = `#!/bin/sh
while read line; do
  case "$line" in
    uci) echo "uciok";;
    isready) echo "readyok";;
    go*) echo "info depth 1 score cp 12 pv e2e5"
         echo "bestmove e2e5";;
  esac
done
`

func TestGarbledBestMoveFails(t *testing.T) {
	r := NewFairyRunner(WithPath(writeFakeEngine(t, garbledEngine)), WithLogger(&SilentLogger))
	defer r.Close()

	_, err := r.Evaluate(NewGame())
	assert.True(t, errors.Is(err, ErrMalformedOutput), err)
	assert.Equal(t, 0, r.Evaluations)
}

func TestSilentEngineTimesOut(t *testing.T) {
	silent := "#!/bin/sh\nwhile read line; do\n  case \"$line\" in\n    uci) echo uciok;;\n    isready) echo readyok;;\n  esac\ndone\n"
	r := NewFairyRunner(
		WithPath(writeFakeEngine(t, silent)),
		WithLogger(&SilentLogger),
		WithTimeout(100*time.Millisecond))
	defer r.Close()

	_, err := r.Evaluate(NewGame())
	assert.True(t, err.HasError())
}

func TestFairyStockfish(t *testing.T) {
	path, lookErr := exec.LookPath("fairy-stockfish")
	if lookErr != nil {
		t.Skip("fairy-stockfish is not installed")
	}

	r := NewFairyRunner(WithPath(path), WithLogger(&SilentLogger), WithDepth(4))
	defer r.Close()

	// white is a queen up
	g := MustGameFromFen("4k3/8/8/8/8/8/*7/3QK3 w - - 0 1 piece")
	score, err := r.Evaluate(g)
	assert.True(t, IsNil(err), err)
	assert.Greater(t, score, 300)
}
