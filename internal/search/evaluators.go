package search

import (
	"github.com/cricklet/duckchess/internal/evaluation"
	. "github.com/cricklet/duckchess/internal/game"
	. "github.com/cricklet/duckchess/internal/helpers"
	"github.com/cricklet/duckchess/internal/stockfish"
)

// Evaluator scores a position for White on the scale of evaluation.Evaluate. It must
// leave the game untouched.
type Evaluator interface {
	Evaluate(g *GameState) (int, Error)
}

type StaticEvaluator struct {
}

var _ Evaluator = (*StaticEvaluator)(nil)

func (e StaticEvaluator) Evaluate(g *GameState) (int, Error) {
	return evaluation.Evaluate(g), NilError
}

var _ Evaluator = (*stockfish.FairyRunner)(nil)

// CountingEvaluator wraps another evaluator and records how often it was asked and
// how often it failed.
type CountingEvaluator struct {
	Inner    Evaluator
	Calls    int
	Failures int
}

var _ Evaluator = (*CountingEvaluator)(nil)

func (e *CountingEvaluator) Evaluate(g *GameState) (int, Error) {
	e.Calls++
	score, err := e.Inner.Evaluate(g)
	if !IsNil(err) {
		e.Failures++
	}
	return score, err
}

// EvaluatorForOptions builds the evaluator the options ask for: Fairy-Stockfish when a
// path is configured, the static evaluation otherwise.
func EvaluatorForOptions(logger Logger, options SearcherOptions) Evaluator {
	if options.fairyStockfishPath == "" {
		return StaticEvaluator{}
	}
	return stockfish.NewFairyRunner(
		stockfish.WithPath(options.fairyStockfishPath),
		stockfish.WithDepth(options.fairyStockfishDepth),
		stockfish.WithLogger(logger))
}
