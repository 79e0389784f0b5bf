package stockfish

import (
	"strconv"
	"strings"

	"github.com/cricklet/duckchess/internal/evaluation"
	. "github.com/cricklet/duckchess/internal/helpers"
)

// MoveAndScoreFromInfoLine parses a UCI "info" line. The score is from the side to
// move; a mate in n becomes a win score that shrinks with n.
func MoveAndScoreFromInfoLine(line string) (Optional[string], int, Error) {
	fields := strings.Fields(line)

	move := Empty[string]()
	score := Empty[int]()

	for i := 0; i < len(fields); i++ {
		switch fields[i] {
		case "pv":
			if i+1 < len(fields) {
				move = Some(fields[i+1])
			}
			i = len(fields)
		case "score":
			if i+2 >= len(fields) {
				return move, 0, Errorf("truncated score in %q", line)
			}
			value, err := WrapReturn(strconv.Atoi(fields[i+2]))
			if !IsNil(err) {
				return move, 0, err
			}

			switch fields[i+1] {
			case "cp":
				score = Some(value)
			case "mate":
				if value >= 0 {
					score = Some(evaluation.WinScore - value)
				} else {
					score = Some(-evaluation.WinScore - value)
				}
			default:
				return move, 0, Errorf("unknown score kind %q in %q", fields[i+1], line)
			}
			i += 2
		}
	}

	if score.IsEmpty() {
		return move, 0, Errorf("no score in %q", line)
	}

	return move, score.Value(), NilError
}
