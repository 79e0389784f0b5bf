package duckgo

import (
	"fmt"
	"strings"

	. "github.com/cricklet/duckchess/internal/game"
	. "github.com/cricklet/duckchess/internal/helpers"
	"github.com/cricklet/duckchess/internal/search"
)

// DuckGoRunner owns the game shown by the websocket bridge and answers its requests:
// legal destinations for a selected square, moves, rewinds and engine turns.
type DuckGoRunner struct {
	Logger Logger

	g       *GameState
	options search.SearcherOptions

	StartFen string
}

func NewDuckGoRunner(logger Logger, options search.SearcherOptions) *DuckGoRunner {
	if logger == nil {
		logger = &SilentLogger
	}
	return &DuckGoRunner{
		Logger:  logger,
		options: options,
	}
}

func (r *DuckGoRunner) Options() search.SearcherOptions {
	return r.options
}

func (r *DuckGoRunner) Reset() {
	r.g = nil
	r.StartFen = ""
}

func (r *DuckGoRunner) IsNew() bool {
	return r.g == nil
}

// SetupPosition loads a duck FEN ("" or "startpos" for the initial position) and
// replays the given moves on top of it.
func (r *DuckGoRunner) SetupPosition(fen string, moves []string) Error {
	r.Reset()

	var g *GameState
	if fen == "" || fen == "startpos" {
		g = NewGame()
	} else {
		var err Error
		g, err = GamestateFromFenString(fen)
		if !IsNil(err) {
			return Errorf("couldn't create game from %v: %w", fen, err)
		}
	}

	r.g = g
	r.StartFen = FenStringForGame(g)

	for _, m := range moves {
		err := r.PerformMoveFromString(m)
		if !IsNil(err) {
			return err
		}
	}

	return NilError
}

func (r *DuckGoRunner) game() (*GameState, Error) {
	if r.g == nil {
		return nil, Errorf("position not setup")
	}
	return r.g, NilError
}

func (r *DuckGoRunner) PerformMoveFromString(s string) Error {
	g, err := r.game()
	if !IsNil(err) {
		return err
	}
	if g.GameOver {
		return Errorf("%v: game is over: %w", s, ErrIllegalMove)
	}
	_, err = g.PerformMoveFromString(s)
	return err
}

// PerformTurn plays whatever part of the turn is still due: the piece move during the
// piece phase, then the duck.
func (r *DuckGoRunner) PerformTurn(turn Turn) Error {
	g, err := r.game()
	if !IsNil(err) {
		return err
	}

	if g.Phase == PieceMovePhase {
		_, err = g.ApplyMove(turn.Piece)
		if !IsNil(err) {
			return err
		}
	}

	if turn.Duck.HasValue() && g.Phase == DuckMovePhase && !g.GameOver {
		_, err = g.ApplyMove(turn.Duck.Value())
		if !IsNil(err) {
			return err
		}
	}

	return NilError
}

// MovesForSelection lists the legal moves starting on the selected square. During the
// duck phase the duck's square is the only useful selection.
func (r *DuckGoRunner) MovesForSelection(selection string) ([]string, Error) {
	g, err := r.game()
	if !IsNil(err) {
		return nil, err
	}

	square, err := SquareFromString(selection)
	if !IsNil(err) {
		return nil, Errorf("failed to parse selection %v: %w", selection, err)
	}

	moves := FilterSlice(g.LegalMoves(), func(m Move) bool {
		return m.From == square
	})
	return MapSlice(moves, func(m Move) string {
		return m.String()
	}), NilError
}

// Rewind undoes up to num half-moves.
func (r *DuckGoRunner) Rewind(num int) Error {
	g, err := r.game()
	if !IsNil(err) {
		return err
	}
	for i := Min(num, g.HistoryLen()); i > 0; i-- {
		g.UndoMove()
	}
	return NilError
}

// Search finds the engine's turn without playing it.
func (r *DuckGoRunner) Search() (Optional[Turn], int, Error) {
	return r.SearchToDepth(r.options.Depth())
}

func (r *DuckGoRunner) SearchToDepth(depth int) (Optional[Turn], int, Error) {
	g, err := r.game()
	if !IsNil(err) {
		return Empty[Turn](), 0, err
	}
	if g.GameOver {
		return Empty[Turn](), 0, NilError
	}

	searcher := search.NewSearcher(r.Logger, g, r.options)
	defer searcher.Close()

	turn, score := searcher.FindBestTurn(depth)
	return turn, score, NilError
}

// Game exposes the position for players that choose moves themselves. Callers must not
// keep it across SetupPosition.
func (r *DuckGoRunner) Game() *GameState {
	return r.g
}

func (r *DuckGoRunner) FenString() string {
	if r.g == nil {
		return ""
	}
	return FenStringForGame(r.g)
}

func (r *DuckGoRunner) Player() Player {
	if r.g == nil {
		return White
	}
	return r.g.Player
}

func (r *DuckGoRunner) Phase() TurnPhase {
	if r.g == nil {
		return PieceMovePhase
	}
	return r.g.Phase
}

func (r *DuckGoRunner) LastMove() Optional[Move] {
	if r.g == nil {
		return Empty[Move]()
	}
	return r.g.LastMove()
}

func (r *DuckGoRunner) Unicode() string {
	if r.g == nil {
		return ""
	}
	return r.g.Unicode()
}

func (r *DuckGoRunner) MoveHistory() []string {
	if r.g == nil {
		return nil
	}
	return MapSlice(r.g.History(), func(m Move) string {
		return m.String()
	})
}

// Status describes the result once the game is over.
func (r *DuckGoRunner) Status() string {
	switch {
	case r.g == nil:
		return ""
	case !r.g.GameOver:
		return fmt.Sprintf("%v to move", r.g.Player)
	case r.g.Winner.HasValue():
		return fmt.Sprintf("%v wins", r.g.Winner.Value())
	}
	return "draw"
}

// NotationHistory numbers the history by full move, continuing from the clock of the
// start position: "1. e4 De6 e5 Dd3 2. ...". A history that starts with black, or
// with a duck move, opens with "N...".
func (r *DuckGoRunner) NotationHistory() string {
	if r.g == nil {
		return ""
	}

	mover, fullMove := White, 1
	if start, err := GamestateFromFenString(r.StartFen); IsNil(err) {
		mover, fullMove = start.Player, start.FullMoveClock
	}

	result := []string{}
	for i, move := range r.g.History() {
		if !move.IsDuckMove() {
			mover = move.Moved.Player()
		}

		whitePiece := mover == White && !move.IsDuckMove()
		if whitePiece && i > 0 {
			fullMove++
		}
		if whitePiece {
			result = append(result, fmt.Sprintf("%v.", fullMove))
		} else if i == 0 {
			result = append(result, fmt.Sprintf("%v...", fullMove))
		}

		result = append(result, move.Notation())

		if move.IsDuckMove() {
			mover = mover.Other()
		}
	}
	return strings.Join(result, " ")
}
