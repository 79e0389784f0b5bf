package search

import (
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/cricklet/duckchess/internal/evaluation"
	. "github.com/cricklet/duckchess/internal/game"
	. "github.com/cricklet/duckchess/internal/helpers"
	"github.com/dustin/go-humanize"
)

type debugSearchLine struct {
	DebugString string
	Depth       int
	Alpha       int
	Beta        int
	Score       Optional[int]
}

type debugSearchTree struct {
	CurrentDepth int
	Result       []debugSearchLine
}

// DebugString lists finished nodes shallower than depth, children before parents.
func (s *debugSearchTree) DebugString(depth int) string {
	result := ""
	for i := range s.Result {
		line := s.Result[len(s.Result)-i-1]
		if line.Depth >= depth {
			continue
		}
		if line.Score.HasValue() {
			result += fmt.Sprintf("%v%v (%v %v) %v\n",
				strings.Repeat(" ", line.Depth),
				line.DebugString,
				line.Alpha,
				line.Beta,
				line.Score.Value())
		}
	}
	return result
}

func (s *debugSearchTree) MovePush(move Move, player Player, alpha int, beta int) {
	s.Result = append(s.Result, debugSearchLine{
		DebugString: fmt.Sprintf("> %v (%v)", player, move),
		Depth:       s.CurrentDepth,
		Alpha:       alpha,
		Beta:        beta,
	})
	s.CurrentDepth += 1
}

func (s *debugSearchTree) MovePop(move Move, player Player, alpha int, beta int, result int) {
	s.CurrentDepth -= 1
	s.Result = append(s.Result, debugSearchLine{
		DebugString: fmt.Sprintf("$ %v (%v)", player, move),
		Depth:       s.CurrentDepth,
		Alpha:       alpha,
		Beta:        beta,
		Score:       Some(result),
	})
}

type SearcherOptions struct {
	depth               int
	noShuffle           bool
	seed                Optional[int64]
	orderPieces         bool
	orderDucks          int
	duckWidth           int
	noPruning           bool
	debugSearchTree     *debugSearchTree
	fairyStockfishPath  string
	fairyStockfishDepth int
}

var DefaultSearchOptions = SearcherOptions{
	depth:               2,
	fairyStockfishDepth: 8,
}

var AllSearchOptions = []string{
	"depth",
	"noShuffle",
	"seed",
	"orderPieces",
	"orderDucks",
	"duckWidth",
	"noPruning",
	"debugSearchTree",
	"fairyStockfish",
	"fairyStockfishDepth",
}

func (o SearcherOptions) Depth() int {
	return o.depth
}

// WithSeed returns a copy of the options that shuffles with the given seed.
func (o SearcherOptions) WithSeed(seed int64) SearcherOptions {
	o.seed = Some(seed)
	return o
}

func (o SearcherOptions) String() string {
	args := []string{"depth=" + strconv.Itoa(o.depth)}
	if o.noShuffle {
		args = append(args, "noShuffle")
	}
	if o.seed.HasValue() {
		args = append(args, fmt.Sprint("seed=", o.seed.Value()))
	}
	if o.orderPieces {
		args = append(args, "orderPieces")
	}
	if o.orderDucks > 0 {
		args = append(args, fmt.Sprint("orderDucks=", o.orderDucks))
	}
	if o.duckWidth > 0 {
		args = append(args, fmt.Sprint("duckWidth=", o.duckWidth))
	}
	if o.noPruning {
		args = append(args, "noPruning")
	}
	if o.fairyStockfishPath != "" {
		args = append(args, "fairyStockfish="+o.fairyStockfishPath)
	}
	return strings.Join(args, " ")
}

func parseIntOption(arg string) (int, Error) {
	parts := strings.SplitN(arg, "=", 2)
	if len(parts) != 2 {
		return 0, Errorf("option %v needs a value", arg)
	}
	n, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, Wrap(err)
	}
	return int(n), NilError
}

// SearcherOptionsFromArgs parses options like "depth=3", "noShuffle" or
// "orderDucks=8". Unset options keep their defaults.
func SearcherOptionsFromArgs(args ...string) (SearcherOptions, Error) {
	options := DefaultSearchOptions

	for _, arg := range args {
		var err Error
		if strings.HasPrefix(arg, "depth") {
			options.depth, err = parseIntOption(arg)
			if IsNil(err) && options.depth < 1 {
				err = Errorf("depth must be positive: %v", arg)
			}
		} else if strings.HasPrefix(arg, "noShuffle") {
			options.noShuffle = true
		} else if strings.HasPrefix(arg, "seed") {
			var seed int
			seed, err = parseIntOption(arg)
			options.seed = Some(int64(seed))
		} else if strings.HasPrefix(arg, "orderPieces") {
			options.orderPieces = true
		} else if strings.HasPrefix(arg, "orderDucks") {
			if strings.Contains(arg, "=") {
				options.orderDucks, err = parseIntOption(arg)
			} else {
				options.orderDucks = 64
			}
		} else if strings.HasPrefix(arg, "duckWidth") {
			options.duckWidth, err = parseIntOption(arg)
		} else if strings.HasPrefix(arg, "noPruning") {
			options.noPruning = true
		} else if strings.HasPrefix(arg, "debugSearchTree") {
			options.debugSearchTree = &debugSearchTree{}
		} else if strings.HasPrefix(arg, "fairyStockfishDepth") {
			options.fairyStockfishDepth, err = parseIntOption(arg)
		} else if strings.HasPrefix(arg, "fairyStockfish") {
			parts := strings.SplitN(arg, "=", 2)
			if len(parts) == 2 {
				options.fairyStockfishPath = parts[1]
			} else {
				options.fairyStockfishPath = "fairy-stockfish"
			}
		} else {
			return options, Errorf("unknown option: %s", arg)
		}

		if !IsNil(err) {
			return options, err
		}
	}

	return options, NilError
}

// Searcher owns a game for the duration of a search and restores it before
// returning. It is not safe for concurrent use.
type Searcher struct {
	Logger Logger

	Game      *GameState
	Evaluator Evaluator

	options SearcherOptions
	rand    *rand.Rand

	DebugTotalNodes        int
	DebugTotalEvaluations  int
	DebugEvaluatorFailures int
}

func NewSearcher(logger Logger, game *GameState, options SearcherOptions) *Searcher {
	seed := options.seed.ValueOr(time.Now().UnixNano())
	return &Searcher{
		Logger:    logger,
		Game:      game,
		Evaluator: EvaluatorForOptions(logger, options),
		options:   options,
		rand:      rand.New(rand.NewSource(seed)),
	}
}

func (s *Searcher) Options() SearcherOptions {
	return s.options
}

func (s *Searcher) DebugTree(depth int) string {
	if s.options.debugSearchTree == nil {
		return ""
	}
	return s.options.debugSearchTree.DebugString(depth)
}

func (s *Searcher) Close() {
	if closer, ok := s.Evaluator.(io.Closer); ok {
		_ = closer.Close()
	}
}

// evaluate scores the current position for player. A failing evaluator is replaced by
// the static evaluation for that leaf.
func (s *Searcher) evaluate(player Player) int {
	s.DebugTotalEvaluations++

	if s.Game.GameOver {
		return scoreDirection(player) * evaluation.Evaluate(s.Game)
	}

	score, err := s.Evaluator.Evaluate(s.Game)
	if !IsNil(err) {
		s.DebugEvaluatorFailures++
		if s.DebugEvaluatorFailures == 1 {
			s.Logger.Println("evaluator failed, falling back to static evaluation:", err.Error())
		}
		score = evaluation.Evaluate(s.Game)
	}
	return scoreDirection(player) * score
}

func (s *Searcher) generatePieceMoves(moves *[]Move) {
	s.Game.GenerateLegalMoves(moves)
	if !s.options.noShuffle {
		s.rand.Shuffle(len(*moves), func(i, j int) {
			(*moves)[i], (*moves)[j] = (*moves)[j], (*moves)[i]
		})
	}
	if s.options.orderPieces {
		orderPieceMoves(s.Game, moves)
	}
}

func (s *Searcher) generateDuckMoves(ducks *[]Move) {
	s.Game.GenerateLegalMoves(ducks)

	k := s.options.orderDucks
	if s.options.duckWidth > 0 {
		k = Max(k, s.options.duckWidth)
	}
	orderDuckMoves(s.Game, ducks, k)

	if s.options.duckWidth > 0 && len(*ducks) > s.options.duckWidth {
		*ducks = (*ducks)[:s.options.duckWidth]
	}
}

// searchPieceMoves is one negamax frame. A compound ply (piece move plus duck move)
// is searched inside the frame and counts as one unit of depth.
func (s *Searcher) searchPieceMoves(depth int, alpha int, beta int) (int, Optional[Turn]) {
	s.DebugTotalNodes++
	player := s.Game.Player

	if s.Game.GameOver || depth <= 0 {
		return s.evaluate(player), Empty[Turn]()
	}

	moves := GetMovesBuffer()
	defer ReleaseMovesBuffer(moves)

	s.generatePieceMoves(moves)

	if len(*moves) == 0 {
		// no legal moves is a draw
		return 0, Empty[Turn]()
	}

	for _, move := range *moves {
		if move.CapturesKing() {
			return evaluation.WinScore, Some(Turn{Piece: move})
		}
	}

	best := -Inf
	bestTurn := Empty[Turn]()

	for _, move := range *moves {
		score, duck := s.searchPieceMove(move, depth, alpha, beta)

		if score > best {
			best = score
			bestTurn = Some(Turn{Piece: move, Duck: duck})
		}

		if !s.options.noPruning {
			alpha = Max(alpha, score)
			if alpha >= beta {
				break
			}
		}
	}

	return best, bestTurn
}

func (s *Searcher) searchPieceMove(move Move, depth int, alpha int, beta int) (int, Optional[Move]) {
	player := s.Game.Player
	tree := s.options.debugSearchTree

	if tree != nil {
		tree.MovePush(move, player, alpha, beta)
	}

	s.Game.PerformMove(move)
	score, duck := s.searchDuckMoves(depth, alpha, beta)
	s.Game.UndoMove()

	if tree != nil {
		tree.MovePop(move, player, alpha, beta, score)
	}

	return score, duck
}

// searchDuckMoves finishes the compound ply for the player who just moved a piece and
// scores it from that player's point of view.
func (s *Searcher) searchDuckMoves(depth int, alpha int, beta int) (int, Optional[Move]) {
	player := s.Game.Player

	if s.Game.GameOver {
		return s.evaluate(player), Empty[Move]()
	}

	if s.Game.Phase == PieceMovePhase {
		// the board had no room for the duck and the turn already passed
		score, _ := s.searchPieceMoves(depth-1, -beta, -alpha)
		return -score, Empty[Move]()
	}

	ducks := GetMovesBuffer()
	defer ReleaseMovesBuffer(ducks)

	s.generateDuckMoves(ducks)

	if len(*ducks) == 0 {
		return s.evaluate(player), Empty[Move]()
	}

	tree := s.options.debugSearchTree

	best := -Inf
	bestDuck := Empty[Move]()

	for _, duck := range *ducks {
		if tree != nil {
			tree.MovePush(duck, player, alpha, beta)
		}

		s.Game.PerformMove(duck)
		enemyScore, _ := s.searchPieceMoves(depth-1, -beta, -alpha)
		s.Game.UndoMove()

		score := -enemyScore

		if tree != nil {
			tree.MovePop(duck, player, alpha, beta, score)
		}

		if score > best {
			best = score
			bestDuck = Some(duck)
		}

		if !s.options.noPruning {
			alpha = Max(alpha, score)
			if alpha >= beta {
				break
			}
		}
	}

	return best, bestDuck
}

// FindBestTurn searches depth compound plies and returns the chosen turn with its
// score for the player to move. During the duck phase only the duck half is
// searched, and Piece is the move that was already played.
func (s *Searcher) FindBestTurn(depth int) (Optional[Turn], int) {
	if depth < 1 {
		depth = 1
	}

	if s.Game.GameOver {
		return Empty[Turn](), 0
	}

	startNodes, startEvaluations := s.DebugTotalNodes, s.DebugTotalEvaluations
	start := time.Now()

	var result Optional[Turn]
	var score int

	if s.Game.Phase == DuckMovePhase {
		var duck Optional[Move]
		score, duck = s.searchDuckMoves(depth, -Inf, Inf)
		if duck.HasValue() {
			result = Some(Turn{
				Piece: s.Game.LastMove().ValueOr(Move{}),
				Duck:  duck,
			})
		}
	} else {
		score, result = s.searchPieceMoves(depth, -Inf, Inf)
	}

	bestString := "none"
	if result.HasValue() {
		bestString = result.Value().String()
	}

	s.Logger.Println(
		"searched to depth", depth,
		"- best", bestString,
		"- score", ScoreString(score),
		"- nodes", humanize.Comma(int64(s.DebugTotalNodes-startNodes)),
		"- evaluations", humanize.Comma(int64(s.DebugTotalEvaluations-startEvaluations)),
		"- took", time.Since(start).Round(time.Millisecond))

	return result, score
}

// Search runs FindBestTurn with the configured depth.
func (s *Searcher) Search() (Optional[Turn], int) {
	return s.FindBestTurn(s.options.depth)
}

// FindBestMove returns the move to play now: the piece half of the turn during the
// piece phase, the duck during the duck phase.
func (s *Searcher) FindBestMove(depth int) Optional[Move] {
	turn, _ := s.FindBestTurn(depth)
	if turn.IsEmpty() {
		return Empty[Move]()
	}
	if s.Game.Phase == DuckMovePhase {
		return turn.Value().Duck
	}
	return Some(turn.Value().Piece)
}

// FindBestMove searches g with the default options and no logging.
func FindBestMove(g *GameState, depth int) Optional[Move] {
	s := NewSearcher(&SilentLogger, g, DefaultSearchOptions)
	defer s.Close()
	return s.FindBestMove(depth)
}
