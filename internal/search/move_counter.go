package search

import (
	. "github.com/cricklet/duckchess/internal/game"
)

// MoveCounter walks every line to a fixed number of half-moves, for checking the
// generator against known totals.
type MoveCounter struct {
	movesSearched int
}

func (c *MoveCounter) Reset() {
	c.movesSearched = 0
}

func (c *MoveCounter) NumMoves() int {
	return c.movesSearched
}

// CountLeaves returns the number of lines of exactly halfMoves half-moves. Finished
// games end a line early and are not counted.
func (c *MoveCounter) CountLeaves(g *GameState, halfMoves int) int {
	if halfMoves == 0 {
		return 1
	}
	if g.GameOver {
		return 0
	}

	moves := GetMovesBuffer()
	defer ReleaseMovesBuffer(moves)
	g.GenerateLegalMoves(moves)

	leaves := 0
	for _, move := range *moves {
		c.movesSearched++
		g.PerformMove(move)
		leaves += c.CountLeaves(g, halfMoves-1)
		g.UndoMove()
	}
	return leaves
}
