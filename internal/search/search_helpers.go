package search

import (
	"fmt"

	"github.com/cricklet/duckchess/internal/evaluation"
	. "github.com/cricklet/duckchess/internal/game"
	. "github.com/cricklet/duckchess/internal/helpers"
)

var Inf int = evaluation.Inf

func IsWin(score int) bool {
	return score >= evaluation.WinScore
}

func IsLoss(score int) bool {
	return score <= -evaluation.WinScore
}

func ScoreString(score int) string {
	if IsWin(score) {
		return "win"
	}
	if IsLoss(score) {
		return "loss"
	}
	return fmt.Sprintf("%+.2f", float64(score)/100)
}

func scoreDirection(player Player) int {
	if player == White {
		return 1
	}
	return -1
}

// Move buffers are shared by every searcher; the pool is safe for concurrent use.
var GetMovesBuffer, ReleaseMovesBuffer, StatsMoveBuffer = CreatePool(
	func() []Move { return make([]Move, 0, 64) },
	func(t *[]Move) { *t = (*t)[:0] })
