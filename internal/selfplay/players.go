package selfplay

import (
	"io"
	"math/rand"

	. "github.com/cricklet/duckchess/internal/game"
	. "github.com/cricklet/duckchess/internal/helpers"
	"github.com/cricklet/duckchess/internal/search"
)

// Player chooses the half-move to play now: a piece move or, during the duck phase,
// a duck move. It must leave the game untouched.
type Player interface {
	Name() string
	ChooseMove(g *GameState) Optional[Move]
}

// PlayerFactory builds the player for one game, so every game gets its own state.
type PlayerFactory func(game int) Player

type RandomPlayer struct {
	rand *rand.Rand
}

var _ Player = (*RandomPlayer)(nil)

func NewRandomPlayer(seed int64) *RandomPlayer {
	return &RandomPlayer{rand: rand.New(rand.NewSource(seed))}
}

func (p *RandomPlayer) Name() string {
	return "random"
}

func (p *RandomPlayer) ChooseMove(g *GameState) Optional[Move] {
	moves := g.LegalMoves()
	if len(moves) == 0 {
		return Empty[Move]()
	}
	return Some(moves[p.rand.Intn(len(moves))])
}

// EnginePlayer searches every decision. The evaluator is shared across the searches
// of one game so an external engine process is started only once.
type EnginePlayer struct {
	Logger Logger

	options   search.SearcherOptions
	evaluator search.Evaluator

	Searches          int
	EvaluatorFailures int
}

var _ Player = (*EnginePlayer)(nil)

func NewEnginePlayer(logger Logger, options search.SearcherOptions) *EnginePlayer {
	return &EnginePlayer{
		Logger:    logger,
		options:   options,
		evaluator: search.EvaluatorForOptions(logger, options),
	}
}

func (p *EnginePlayer) Name() string {
	return "engine(" + p.options.String() + ")"
}

func (p *EnginePlayer) ChooseMove(g *GameState) Optional[Move] {
	s := search.NewSearcher(p.Logger, g, p.options)
	s.Evaluator = p.evaluator

	move := s.FindBestMove(p.options.Depth())

	p.Searches++
	p.EvaluatorFailures += s.DebugEvaluatorFailures
	return move
}

func (p *EnginePlayer) Close() error {
	if closer, ok := p.evaluator.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func closePlayer(p Player) {
	if closer, ok := p.(io.Closer); ok {
		_ = closer.Close()
	}
}
