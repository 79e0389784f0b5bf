package selfplay

import (
	"context"
	"errors"
	"testing"

	. "github.com/cricklet/duckchess/internal/game"
	. "github.com/cricklet/duckchess/internal/helpers"
	"github.com/cricklet/duckchess/internal/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomFactory(game int) Player {
	return NewRandomPlayer(int64(game))
}

func engineFactory(t *testing.T, args ...string) PlayerFactory {
	options, err := search.SearcherOptionsFromArgs(args...)
	require.True(t, IsNil(err), err)
	return func(game int) Player {
		return NewEnginePlayer(&SilentLogger, options.WithSeed(int64(game)))
	}
}

func TestRandomGame(t *testing.T) {
	result, err := PlayGame(NewRandomPlayer(1), NewRandomPlayer(2), MatchOptions{MaxTurns: 30})
	require.True(t, IsNil(err), err)

	assert.LessOrEqual(t, result.Turns, 30)
	assert.LessOrEqual(t, len(result.Trace), result.Turns)
	assert.NotEmpty(t, result.Notation)
	assert.NotEmpty(t, result.FinalFen)

	if result.Outcome == MoveCap {
		assert.Equal(t, 30, result.Turns)
		// every capped turn was completed by a duck move
		assert.Equal(t, 60, len(result.Notation))
	}
}

func TestRandomGamesAreSeeded(t *testing.T) {
	a, err := PlayGame(NewRandomPlayer(5), NewRandomPlayer(6), MatchOptions{})
	require.True(t, IsNil(err), err)
	b, err := PlayGame(NewRandomPlayer(5), NewRandomPlayer(6), MatchOptions{})
	require.True(t, IsNil(err), err)
	assert.Equal(t, a, b)
	assert.LessOrEqual(t, a.Turns, DefaultMaxTurns)
}

func TestEngineTakesTheKing(t *testing.T) {
	engine := engineFactory(t, "depth=1")(0)
	result, err := PlayGame(engine, NewRandomPlayer(1), MatchOptions{
		StartFen: Some("4k3/8/8/8/8/8/*7/4RK2 w - - 0 1"),
	})
	require.True(t, IsNil(err), err)

	assert.Equal(t, WhiteWins, result.Outcome)
	assert.Equal(t, 1, result.Turns)
	assert.Equal(t, []string{"Rxe8"}, result.Notation)
	assert.Empty(t, result.Trace)
	assert.Equal(t, 1, engine.(*EnginePlayer).Searches)
}

func TestGameWithoutMoves(t *testing.T) {
	result, err := PlayGame(NewRandomPlayer(1), NewRandomPlayer(1), MatchOptions{
		StartFen: Some("k7/8/8/8/p7/P1p5/P*P5/KB6 w - - 0 1"),
	})
	require.True(t, IsNil(err), err)
	assert.Equal(t, Draw, result.Outcome)
	assert.Equal(t, 0, result.Turns)
}

func TestBadStartFen(t *testing.T) {
	_, err := PlayGame(NewRandomPlayer(1), NewRandomPlayer(1), MatchOptions{
		StartFen: Some("8/8/8 w"),
	})
	assert.True(t, errors.Is(err, ErrInvalidFen), err)
}

type illegalPlayer struct{}

func (illegalPlayer) Name() string {
	return "illegal"
}

func (illegalPlayer) ChooseMove(g *GameState) Optional[Move] {
	return Some(Move{From: MustSquare("a1"), To: MustSquare("h8")})
}

func TestIllegalMoveStopsGame(t *testing.T) {
	_, err := PlayGame(illegalPlayer{}, NewRandomPlayer(1), MatchOptions{})
	assert.True(t, errors.Is(err, ErrIllegalMove), err)
}

func TestTournament(t *testing.T) {
	tournament := Tournament{
		Logger:  &SilentLogger,
		White:   engineFactory(t, "depth=2", "duckWidth=3"),
		Black:   randomFactory,
		Games:   6,
		Workers: 3,
		Options: MatchOptions{MaxTurns: 60},
	}

	result, err := tournament.Run(context.Background())
	require.True(t, IsNil(err), err)

	assert.Equal(t, 6, len(result.Played()))
	assert.Equal(t, "random", result.BlackName)
	assert.Contains(t, result.WhiteName, "engine(depth=2")

	total := 0
	for _, outcome := range AllOutcomes {
		total += result.Counts()[outcome]
	}
	assert.Equal(t, 6, total)

	// a two ply search never walks into a king capture it could avoid
	assert.GreaterOrEqual(t, result.Counts()[WhiteWins], result.Counts()[BlackWins])
	assert.GreaterOrEqual(t, result.EloEstimate(800), 800)
	assert.Contains(t, result.String(), "out of 6 games")
	assert.LessOrEqual(t, len(result.AverageTrace()), 60)
}

func TestTournamentCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := Tournament{
		White:   randomFactory,
		Black:   randomFactory,
		Games:   4,
		Workers: 2,
	}.Run(ctx)

	assert.True(t, errors.Is(err, context.Canceled), err)
	assert.Empty(t, result.Played())
	assert.Equal(t, "no games played", result.String())
}

func TestEloEstimate(t *testing.T) {
	white := GameResult{Outcome: WhiteWins}
	black := GameResult{Outcome: BlackWins}
	draw := GameResult{Outcome: Draw}

	result := TournamentResult{Games: []*GameResult{&white, &white, &white, nil}}
	assert.Greater(t, result.EloEstimate(1200), 1200)

	result = TournamentResult{Games: []*GameResult{&black, &black}}
	assert.Less(t, result.EloEstimate(1200), 1200)

	result = TournamentResult{Games: []*GameResult{&draw}}
	assert.Equal(t, 1200, result.EloEstimate(1200))
}

func TestAverageTrace(t *testing.T) {
	a := GameResult{Trace: []int{100, 200, 300}}
	b := GameResult{Trace: []int{300, 100000}}
	result := TournamentResult{Games: []*GameResult{&a, &b}}
	assert.Equal(t, []float64{200, 200, 300}, result.AverageTrace())
}
