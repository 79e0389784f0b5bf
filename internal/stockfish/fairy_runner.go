package stockfish

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cricklet/duckchess/internal/binary"
	. "github.com/cricklet/duckchess/internal/game"
	. "github.com/cricklet/duckchess/internal/helpers"
	"github.com/notnil/chess"
)

var ErrEngineUnavailable = errors.New("fairy-stockfish unavailable")
var ErrMalformedOutput = errors.New("malformed engine output")

// FairyRunner evaluates duck chess positions with a Fairy-Stockfish process speaking
// UCI. The process is started lazily; a failed start is remembered so later calls
// fail fast. Calls are serialized, so one runner can serve several goroutines.
type FairyRunner struct {
	mutex sync.Mutex

	logger  Logger
	path    string
	depth   int
	timeout time.Duration

	binary   *binary.BinaryRunner
	startErr Error

	Evaluations  int
	LastBestMove Optional[Move]
}

type FairyRunnerOption func(*FairyRunner)

func WithPath(path string) FairyRunnerOption {
	return func(r *FairyRunner) {
		r.path = path
	}
}

func WithDepth(depth int) FairyRunnerOption {
	return func(r *FairyRunner) {
		r.depth = depth
	}
}

func WithTimeout(timeout time.Duration) FairyRunnerOption {
	return func(r *FairyRunner) {
		r.timeout = timeout
	}
}

func WithLogger(logger Logger) FairyRunnerOption {
	return func(r *FairyRunner) {
		r.logger = logger
	}
}

func NewFairyRunner(options ...FairyRunnerOption) *FairyRunner {
	r := &FairyRunner{
		path:    "fairy-stockfish",
		depth:   8,
		timeout: 2 * time.Second,
	}
	for _, o := range options {
		o(r)
	}
	if r.logger == nil {
		r.logger = &DefaultLogger
	}
	if r.depth < 1 {
		r.depth = 1
	}

	return r
}

func (r *FairyRunner) Path() string {
	return r.path
}

func (r *FairyRunner) start() Error {
	if r.binary != nil {
		return NilError
	}
	if r.startErr.HasError() {
		return r.startErr
	}

	b, err := binary.SetupBinaryRunner(r.path, []string{}, binary.WithLogger(r.logger))
	if IsNil(err) {
		err = handshake(b, r.timeout)
		if !IsNil(err) {
			b.Close()
		}
	}
	if !IsNil(err) {
		r.startErr = Errorf("%w: %v", ErrEngineUnavailable, err.Error())
		return r.startErr
	}

	r.binary = b
	return NilError
}

func handshake(b *binary.BinaryRunner, timeout time.Duration) Error {
	_, err := b.Run("uci", Some("uciok"), timeout)
	if !IsNil(err) {
		return err
	}

	err = b.RunAsync("setoption name UCI_Variant value duck")
	if !IsNil(err) {
		return err
	}

	_, err = b.Run("isready", Some("readyok"), timeout)
	if !IsNil(err) {
		return err
	}

	return b.RunAsync("ucinewgame")
}

// restart drops a process that stopped answering; the next evaluation starts a new one.
func (r *FairyRunner) restart() {
	if r.binary != nil {
		r.binary.Close()
		r.binary = nil
	}
}

// duckFen is the six field FEN Fairy-Stockfish reads for the duck variant, with the
// duck as '*'.
func duckFen(g *GameState) string {
	return strings.Join(strings.Fields(FenStringForGame(g))[:6], " ")
}

// chessPosition reads the duck-less board into a notnil/chess position, used to decode
// the engine's moves.
func chessPosition(g *GameState) (*chess.Position, Error) {
	fen, err := chess.FEN(ChessFenForGame(g))
	if err != nil {
		return nil, Errorf("%w: %v", ErrInvalidFen, err)
	}
	return chess.NewGame(fen).Position(), NilError
}

// decodeBestMove checks the piece half of a "bestmove" line against the position. Duck
// variants append the duck after a comma; that half is ignored. An engine with no move
// answers "(none)".
func decodeBestMove(g *GameState, position *chess.Position, line string) (Optional[Move], Error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return Empty[Move](), Errorf("%w: %q", ErrMalformedOutput, line)
	}
	text := strings.SplitN(fields[1], ",", 2)[0]
	if text == "(none)" {
		return Empty[Move](), NilError
	}

	decoded, err := chess.UCINotation{}.Decode(position, text)
	if err != nil {
		return Empty[Move](), Errorf("%w: %v", ErrMalformedOutput, err)
	}

	move, moveErr := g.MoveFromString(decoded.S1().String() + decoded.S2().String())
	if !IsNil(moveErr) {
		return Empty[Move](), Errorf("%w: %v is not legal in %v", ErrMalformedOutput, text, duckFen(g))
	}
	return Some(move), NilError
}

// Evaluate searches the position to the configured depth and returns the engine's
// score converted to White's perspective.
func (r *FairyRunner) Evaluate(g *GameState) (int, Error) {
	if g.GameOver {
		return 0, Errorf("cannot evaluate a finished game: %v", FenStringForGame(g))
	}
	if g.Phase != PieceMovePhase {
		return 0, Errorf("can only evaluate positions awaiting a piece move: %v", FenStringForGame(g))
	}

	position, err := chessPosition(g)
	if !IsNil(err) {
		return 0, err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	err = r.start()
	if !IsNil(err) {
		return 0, err
	}

	err = r.binary.RunAsync("position fen " + duckFen(g))
	if !IsNil(err) {
		r.restart()
		return 0, err
	}

	score := Empty[int]()
	bestMove := ""
	err = r.binary.RunSync(fmt.Sprint("go depth ", r.depth), func(line string) (LoopResult, Error) {
		if strings.HasPrefix(line, "bestmove") {
			bestMove = line
			return LoopBreak, NilError
		}
		if strings.HasPrefix(line, "info") && strings.Contains(line, " score ") {
			// bounds and other score kinds are skipped; the next exact score wins
			_, s, err := MoveAndScoreFromInfoLine(line)
			if IsNil(err) {
				score = Some(s)
			}
		}
		return LoopContinue, NilError
	}, r.timeout)

	if errors.Is(err, binary.ErrTimeout) {
		_, stopErr := r.binary.Run("stop", Some("bestmove"), r.timeout)
		if !IsNil(stopErr) {
			r.restart()
		}
	} else if errors.Is(err, binary.ErrExited) {
		r.restart()
	}
	if !IsNil(err) {
		return 0, err
	}

	if score.IsEmpty() {
		return 0, Errorf("no score before bestmove for %v", duckFen(g))
	}

	r.LastBestMove, err = decodeBestMove(g, position, bestMove)
	if !IsNil(err) {
		return 0, err
	}

	r.Evaluations++
	if g.Player == Black {
		return -score.Value(), NilError
	}
	return score.Value(), NilError
}

func (r *FairyRunner) Close() error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.binary != nil {
		_ = r.binary.RunAsync("quit")
		r.binary.Close()
		r.binary = nil
	}
	return nil
}
