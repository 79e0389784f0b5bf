package selfplay

import (
	"fmt"

	"github.com/cricklet/duckchess/internal/evaluation"
	. "github.com/cricklet/duckchess/internal/game"
	. "github.com/cricklet/duckchess/internal/helpers"
	"github.com/cricklet/duckchess/internal/search"
)

type Outcome int

const (
	WhiteWins Outcome = iota
	BlackWins
	Draw
	MoveCap
)

var AllOutcomes = [4]Outcome{WhiteWins, BlackWins, Draw, MoveCap}

func (o Outcome) String() string {
	switch o {
	case WhiteWins:
		return "white"
	case BlackWins:
		return "black"
	case Draw:
		return "draw"
	case MoveCap:
		return "move cap"
	}
	return "unknown"
}

// Score is the result for White: 1 for a win, 0.5 for a draw or a capped game.
func (o Outcome) Score() float64 {
	switch o {
	case WhiteWins:
		return 1
	case BlackWins:
		return 0
	}
	return 0.5
}

const DefaultMaxTurns = 200

type MatchOptions struct {
	// MaxTurns caps the number of piece moves, both sides counted.
	MaxTurns int
	StartFen Optional[string]

	// TraceEvaluator scores the position after every completed turn. Nil means the
	// static evaluation.
	TraceEvaluator search.Evaluator
}

type GameResult struct {
	Outcome  Outcome
	Turns    int
	Trace    []int
	FinalFen string
	Notation []string
}

func (r GameResult) String() string {
	return fmt.Sprintf("%v after %v turns: %v", r.Outcome, r.Turns, r.FinalFen)
}

func outcomeForGame(g *GameState) Outcome {
	if g.Winner.HasValue() {
		if g.Winner.Value() == White {
			return WhiteWins
		}
		return BlackWins
	}
	return Draw
}

// PlayGame plays one game between white and black. A player that returns no move
// while moves exist plays the first legal move instead.
func PlayGame(white Player, black Player, options MatchOptions) (GameResult, Error) {
	maxTurns := options.MaxTurns
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}

	g := NewGame()
	if options.StartFen.HasValue() {
		var err Error
		g, err = GamestateFromFenString(options.StartFen.Value())
		if !IsNil(err) {
			return GameResult{}, err
		}
	}

	var tracer search.Evaluator = search.StaticEvaluator{}
	if options.TraceEvaluator != nil {
		tracer = options.TraceEvaluator
	}

	players := [2]Player{White: white, Black: black}
	result := GameResult{}

	for !g.GameOver {
		moves := g.LegalMoves()
		if g.Phase == PieceMovePhase {
			if result.Turns >= maxTurns {
				result.Outcome = MoveCap
				result.FinalFen = FenStringForGame(g)
				return result, NilError
			}
			if len(moves) == 0 {
				break
			}
		}

		move := players[g.Player].ChooseMove(g).ValueOr(moves[0])

		applied, err := g.ApplyMove(move)
		if !IsNil(err) {
			return result, Errorf("%v played %v: %w", players[g.Player].Name(), move, err)
		}
		result.Notation = append(result.Notation, applied.Notation())

		if !applied.IsDuckMove() {
			result.Turns++
		}

		if g.Phase == PieceMovePhase && !g.GameOver {
			score, err := tracer.Evaluate(g)
			if !IsNil(err) {
				score = evaluation.Evaluate(g)
			}
			result.Trace = append(result.Trace, score)
		}
	}

	result.Outcome = outcomeForGame(g)
	result.FinalFen = FenStringForGame(g)
	return result, NilError
}
