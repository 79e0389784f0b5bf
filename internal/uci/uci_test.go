package uci

import (
	"strings"
	"testing"

	"github.com/cricklet/duckchess/internal/duckgo"
	. "github.com/cricklet/duckchess/internal/helpers"
	"github.com/cricklet/duckchess/internal/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUciRunner(t *testing.T, args ...string) *UciRunner {
	options, err := search.SearcherOptionsFromArgs(args...)
	require.True(t, IsNil(err), err)
	return NewUciRunner(duckgo.NewDuckGoRunner(&SilentLogger, options))
}

func handleAll(t *testing.T, r *UciRunner, inputs ...string) []string {
	output := []string{}
	for _, input := range inputs {
		result, err := r.HandleInput(input)
		require.True(t, IsNil(err), "%v: %v", input, err)
		output = append(output, result...)
	}
	return output
}

func TestHandshake(t *testing.T) {
	r := newTestUciRunner(t)
	output := handleAll(t, r, "uci", "isready")
	assert.Equal(t, "uciok", output[len(output)-2])
	assert.Equal(t, "readyok", Last(output))
}

func TestPositionWithCompoundMoves(t *testing.T) {
	r := newTestUciRunner(t)

	output := handleAll(t, r, "position startpos moves e2e4,d4 e7e5 d4d3", "fen")
	assert.Equal(t, []string{
		"position fen rnbqkbnr/pppp1ppp/8/4p3/4P3/3*4/PPPP1PPP/RNBQKBNR w KQkq e6 0 2 piece",
	}, output)

	output = handleAll(t, r, "position fen 4k3/8/8/8/8/8/*7/4RK2 w - - 0 1", "fen")
	assert.Equal(t, []string{"position fen 4k3/8/8/8/8/8/*7/4RK2 w - - 0 1 piece"}, output)

	_, err := r.HandleInput("position startpos moves e2e5")
	assert.True(t, err.HasError())

	_, err = r.HandleInput("position somewhere")
	assert.True(t, err.HasError())
}

func TestGo(t *testing.T) {
	r := newTestUciRunner(t, "depth=2", "seed=1")

	output := handleAll(t, r, "position fen 4k3/8/8/8/8/8/*7/4RK2 w - - 0 1", "go depth 1")
	assert.Equal(t, "bestmove e1e8", Last(output))

	output = handleAll(t, r, "ucinewgame", "go depth 1")
	best := strings.TrimPrefix(Last(output), "bestmove ")
	assert.Contains(t, best, ",")

	output = handleAll(t, r, "position startpos moves e2e4", "go depth 1")
	best = strings.TrimPrefix(Last(output), "bestmove ")
	assert.Equal(t, 2, len(best), best)

	_, err := r.HandleInput("go depth x")
	assert.True(t, err.HasError())
}

func TestGameOver(t *testing.T) {
	r := newTestUciRunner(t)
	output := handleAll(t, r, "position fen 4k3/8/8/8/8/8/*7/4RK2 w - - 0 1 moves e1e8", "go")
	assert.Equal(t, "bestmove (none)", Last(output))
}

func TestDisplay(t *testing.T) {
	r := newTestUciRunner(t)
	output := handleAll(t, r, "d", "position startpos", "d")
	assert.Contains(t, strings.Join(output, "\n"), "white to move, piece phase")
}
