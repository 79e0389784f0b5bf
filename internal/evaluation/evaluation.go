package evaluation

import (
	. "github.com/cricklet/duckchess/internal/game"
)

// Scores are in hundredths of a pawn, from White's point of view.
const (
	WinScore = 100000
	Inf      = 999999
)

var _pieceScores = [7]int{
	Rook:   500,
	Knight: 300,
	Bishop: 300,
	King:   0,
	Queen:  900,
	Pawn:   100,
	Duck:   0,
}

func PieceScore(p Piece) int {
	if !p.IsPlayerPiece() {
		return 0
	}
	return _pieceScores[p.PieceType()]
}

// Square tables are written from White's side with row 0 as rank 8. Black reads them
// mirrored top to bottom.
var KnightTable = [8][8]int{
	{0, 10, 20, 20, 20, 20, 10, 0},
	{10, 30, 50, 50, 50, 50, 30, 10},
	{20, 50, 60, 65, 65, 60, 50, 20},
	{20, 55, 65, 70, 70, 65, 55, 20},
	{20, 50, 65, 70, 70, 65, 50, 20},
	{20, 55, 60, 65, 65, 60, 55, 20},
	{10, 30, 50, 55, 55, 50, 30, 10},
	{0, 10, 20, 20, 20, 20, 10, 0},
}

var BishopTable = [8][8]int{
	{0, 20, 20, 20, 20, 20, 20, 0},
	{20, 40, 40, 40, 40, 40, 40, 20},
	{20, 40, 50, 60, 60, 50, 40, 20},
	{20, 50, 50, 60, 60, 50, 50, 20},
	{20, 40, 60, 60, 60, 60, 40, 20},
	{20, 60, 60, 60, 60, 60, 60, 20},
	{20, 50, 40, 40, 40, 40, 50, 20},
	{0, 20, 20, 20, 20, 20, 20, 0},
}

var RookTable = [8][8]int{
	{25, 25, 25, 25, 25, 25, 25, 25},
	{50, 75, 75, 75, 75, 75, 75, 50},
	{0, 25, 25, 25, 25, 25, 25, 0},
	{0, 25, 25, 25, 25, 25, 25, 0},
	{0, 25, 25, 25, 25, 25, 25, 0},
	{0, 25, 25, 25, 25, 25, 25, 0},
	{0, 25, 25, 25, 25, 25, 25, 0},
	{25, 25, 25, 50, 50, 25, 25, 25},
}

var QueenTable = [8][8]int{
	{0, 20, 20, 30, 30, 20, 20, 0},
	{20, 40, 40, 40, 40, 40, 40, 20},
	{20, 40, 50, 50, 50, 50, 40, 20},
	{30, 40, 50, 50, 50, 50, 40, 30},
	{40, 40, 50, 50, 50, 50, 40, 30},
	{20, 50, 50, 50, 50, 50, 40, 20},
	{20, 40, 50, 40, 40, 40, 40, 20},
	{0, 20, 20, 30, 30, 20, 20, 0},
}

var PawnTable = [8][8]int{
	{80, 80, 80, 80, 80, 80, 80, 80},
	{70, 70, 70, 70, 70, 70, 70, 70},
	{30, 30, 40, 50, 50, 40, 30, 30},
	{25, 25, 30, 45, 45, 30, 25, 25},
	{20, 20, 20, 40, 40, 20, 20, 20},
	{25, 15, 10, 20, 20, 10, 15, 25},
	{25, 30, 30, 0, 0, 30, 30, 25},
	{20, 20, 20, 20, 20, 20, 20, 20},
}

var DuckTable = [8][8]int{
	{10, 10, 10, 10, 10, 10, 10, 10},
	{10, 20, 20, 20, 20, 20, 20, 10},
	{10, 20, 30, 30, 30, 30, 20, 10},
	{10, 20, 30, 40, 40, 30, 20, 10},
	{10, 20, 30, 40, 40, 30, 20, 10},
	{10, 20, 30, 30, 30, 30, 20, 10},
	{10, 20, 20, 20, 20, 20, 20, 10},
	{10, 10, 10, 10, 10, 10, 10, 10},
}

var _tables = [6]*[8][8]int{
	Rook:   &RookTable,
	Knight: &KnightTable,
	Bishop: &BishopTable,
	Queen:  &QueenTable,
	Pawn:   &PawnTable,
}

// duckBonusPercent scales the duck table for the side that placed the duck.
const duckBonusPercent = 30

func SquareScore(p Piece, s Square) int {
	if !p.IsPlayerPiece() {
		return 0
	}
	table := _tables[p.PieceType()]
	if table == nil {
		return 0
	}
	if p.IsBlack() {
		return table[7-s.Row][s.Col]
	}
	return table[s.Row][s.Col]
}

func DuckScore(s Square) int {
	return DuckTable[s.Row][s.Col] * duckBonusPercent / 100
}

func sign(p Player) int {
	if p == White {
		return 1
	}
	return -1
}

// Evaluate scores the position for White. A finished game scores +/-WinScore for the
// winner and zero for a draw. The duck bonus goes to the side that placed the duck
// rather than always to White, so a colour-mirrored position scores the exact negation.
func Evaluate(g *GameState) int {
	if g.GameOver {
		if g.Winner.HasValue() {
			return sign(g.Winner.Value()) * WinScore
		}
		return 0
	}

	score := 0
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			p := g.Board[row][col]
			if !p.IsPlayerPiece() {
				continue
			}
			s := Square{Row: row, Col: col}
			score += sign(p.Player()) * (PieceScore(p) + SquareScore(p, s))
		}
	}

	// the duck was last placed by the side not to move
	score += sign(g.Player.Other()) * DuckScore(g.DuckLocation)

	return score
}

// EvaluateFor is Evaluate from the given player's point of view.
func EvaluateFor(g *GameState, player Player) int {
	return sign(player) * Evaluate(g)
}

// EvaluateMove is a cheap ordering hint: material captured plus the square table
// improvement of the moved piece.
func EvaluateMove(g *GameState, m Move) int {
	if m.IsDuckMove() {
		return DuckScore(m.To)
	}
	score := PieceScore(m.Captured)
	if m.CapturesKing() {
		score += WinScore
	}
	if m.IsPromotion() {
		score += PieceScore(PieceForPlayer[m.Moved.Player()][Queen]) - PieceScore(m.Moved)
	}
	score += SquareScore(m.Moved, m.To) - SquareScore(m.Moved, m.From)
	return score
}
