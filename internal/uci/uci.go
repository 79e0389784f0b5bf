package uci

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cricklet/duckchess/internal/duckgo"
	. "github.com/cricklet/duckchess/internal/game"
	. "github.com/cricklet/duckchess/internal/helpers"
)

// UciRunner speaks a UCI dialect over a DuckGoRunner. A turn is written as the
// piece move and the duck square joined by a comma ("e2e4,d5"); position commands
// accept either that form or separate half-moves.
type UciRunner struct {
	Runner *duckgo.DuckGoRunner
}

func NewUciRunner(runner *duckgo.DuckGoRunner) *UciRunner {
	return &UciRunner{Runner: runner}
}

func parseFen(input string) (string, Error) {
	s := strings.TrimPrefix(input, "position ")

	if strings.HasPrefix(s, "fen ") {
		s = strings.TrimPrefix(s, "fen ")
		return strings.TrimSpace(strings.Split(s, " moves")[0]), NilError
	} else if strings.HasPrefix(s, "startpos") {
		return "startpos", NilError
	}

	return "", Errorf("couldn't parse '%v'", s)
}

// parseMoves splits compound turns into half-moves.
func parseMoves(input string) []string {
	result := []string{}
	if strings.Contains(input, " moves ") {
		for _, field := range strings.Fields(strings.SplitN(input, " moves ", 2)[1]) {
			result = append(result, strings.Split(field, ",")...)
		}
	}
	return result
}

func parseDepth(input string) (Optional[int], Error) {
	fields := strings.Fields(input)
	for i, field := range fields {
		if field == "depth" && i+1 < len(fields) {
			depth, err := WrapReturn(strconv.Atoi(fields[i+1]))
			if !IsNil(err) {
				return Empty[int](), err
			}
			return Some(depth), NilError
		}
	}
	return Empty[int](), NilError
}

func (u *UciRunner) HandleInput(input string) ([]string, Error) {
	result := []string{}
	input = strings.TrimSpace(input)

	switch {
	case input == "uci":
		result = append(result, "id name duckgo 1")
		result = append(result, "option name UCI_Variant type combo default duck var duck")
		result = append(result, "uciok")
	case input == "ucinewgame":
		u.Runner.Reset()
	case input == "isready":
		result = append(result, "readyok")
	case strings.HasPrefix(input, "position "):
		fen, err := parseFen(input)
		if !IsNil(err) {
			return result, err
		}
		err = u.Runner.SetupPosition(fen, parseMoves(input))
		if !IsNil(err) {
			return result, err
		}
	case input == "fen":
		result = append(result, "position fen "+u.Runner.FenString())
	case input == "d":
		if !u.Runner.IsNew() {
			result = append(result, strings.Split(u.Runner.Game().PlainUnicode(), "\n")...)
		}
	case strings.HasPrefix(input, "go"):
		if u.Runner.IsNew() {
			err := u.Runner.SetupPosition("startpos", nil)
			if !IsNil(err) {
				return result, err
			}
		}

		depth, err := parseDepth(input)
		if !IsNil(err) {
			return result, err
		}

		turn, score, err := u.Runner.SearchToDepth(depth.ValueOr(u.Runner.Options().Depth()))
		if !IsNil(err) {
			return result, err
		}

		if turn.IsEmpty() {
			result = append(result, "bestmove (none)")
			return result, NilError
		}

		best := turn.Value().String()
		if u.Runner.Phase() == DuckMovePhase {
			// the piece half is already on the board
			best = turn.Value().Duck.Value().To.String()
		}

		result = append(result, fmt.Sprintf("info depth %v score cp %v pv %v",
			depth.ValueOr(u.Runner.Options().Depth()), score, best))
		result = append(result, fmt.Sprintf("bestmove %v", best))
	}
	return result, NilError
}
