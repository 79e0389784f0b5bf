package search

import (
	"sort"

	"github.com/bluele/psort"
	"github.com/cricklet/duckchess/internal/evaluation"
	. "github.com/cricklet/duckchess/internal/game"
	. "github.com/cricklet/duckchess/internal/helpers"
)

type orderedMove struct {
	move  Move
	score int
}

var getOrderedBuffer, releaseOrderedBuffer, _ = CreatePool(
	func() []orderedMove { return make([]orderedMove, 0, 64) },
	func(t *[]orderedMove) { *t = (*t)[:0] })

type ray struct {
	dRow     int
	dCol     int
	diagonal bool
}

var _rays = [8]ray{
	{-1, 0, false}, {1, 0, false}, {0, -1, false}, {0, 1, false},
	{-1, -1, true}, {-1, 1, true}, {1, -1, true}, {1, 1, true},
}

func blockScore(p PieceType, diagonal bool) int {
	switch {
	case p == Queen:
		return 300
	case p == Rook && !diagonal:
		return 200
	case p == Bishop && diagonal:
		return 100
	}
	return 0
}

// DuckOrderingScore rates a duck destination for the player placing it: cutting an
// enemy slider's line is good, cutting one of our own lines is bad, and the centre is
// preferred.
func DuckOrderingScore(g *GameState, to Square) int {
	player := g.Player
	score := evaluation.DuckTable[to.Row][to.Col] * 10

	for _, r := range _rays {
		for s := to.Offset(r.dRow, r.dCol); s.InBounds(); s = s.Offset(r.dRow, r.dCol) {
			p := g.Board.At(s)
			if p == XX || p == DD {
				// the duck is leaving its current square
				continue
			}
			if p.BelongsTo(player) {
				score -= 100
			} else {
				score += blockScore(p.PieceType(), r.diagonal)
			}
			break
		}
	}

	return score
}

// orderDuckMoves moves the best k duck moves to the front, best first. The order of
// the remainder is unspecified but deterministic.
func orderDuckMoves(g *GameState, ducks *[]Move, k int) {
	if k <= 0 || len(*ducks) == 0 {
		return
	}
	k = Min(k, len(*ducks))

	ordered := getOrderedBuffer()
	defer releaseOrderedBuffer(ordered)

	for _, m := range *ducks {
		*ordered = append(*ordered, orderedMove{m, DuckOrderingScore(g, m.To)})
	}

	psort.Slice(*ordered, func(i, j int) bool {
		return (*ordered)[i].score > (*ordered)[j].score
	}, k)

	for i := range *ordered {
		(*ducks)[i] = (*ordered)[i].move
	}
}

// orderPieceMoves puts captures and improving moves first. The sort is stable so a
// prior shuffle still breaks ties.
func orderPieceMoves(g *GameState, moves *[]Move) {
	sort.SliceStable(*moves, func(i, j int) bool {
		return evaluation.EvaluateMove(g, (*moves)[i]) > evaluation.EvaluateMove(g, (*moves)[j])
	})
}
