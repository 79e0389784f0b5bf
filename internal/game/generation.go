package game

type direction struct {
	dRow int
	dCol int
}

var rookDirections = []direction{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
var bishopDirections = []direction{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
var queenDirections = append(append([]direction{}, rookDirections...), bishopDirections...)
var kingDirections = queenDirections

var knightJumps = []direction{
	{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2},
	{1, -2}, {1, 2}, {2, -1}, {2, 1},
}

// LegalMoves lists every legal move for the current player and phase. A finished
// game has none.
func (g *GameState) LegalMoves() []Move {
	moves := []Move{}
	g.GenerateLegalMoves(&moves)
	return moves
}

// GenerateLegalMoves appends into a caller-owned buffer, which the search recycles.
func (g *GameState) GenerateLegalMoves(moves *[]Move) {
	if g.GameOver {
		return
	}
	if g.Phase == DuckMovePhase {
		g.generateDuckMoves(moves)
	} else {
		g.generatePieceMoves(moves)
	}
}

func (g *GameState) generateDuckMoves(moves *[]Move) {
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			if g.Board[row][col] != XX {
				continue
			}
			*moves = append(*moves, Move{
				Kind:  DuckMove,
				From:  g.DuckLocation,
				To:    Square{row, col},
				Moved: DD,
			})
		}
	}
}

func (g *GameState) generatePieceMoves(moves *[]Move) {
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			piece := g.Board[row][col]
			if !piece.BelongsTo(g.Player) {
				continue
			}
			from := Square{row, col}
			switch piece.PieceType() {
			case Pawn:
				g.generatePawnMoves(from, moves)
			case Knight:
				g.generateJumps(from, knightJumps, moves)
			case Bishop:
				g.generateRays(from, bishopDirections, moves)
			case Rook:
				g.generateRays(from, rookDirections, moves)
			case Queen:
				g.generateRays(from, queenDirections, moves)
			case King:
				g.generateJumps(from, kingDirections, moves)
				g.generateCastles(from, moves)
			}
		}
	}
}

// canLandOn is true for empty squares and enemy pieces. The duck and allies block.
func (g *GameState) canLandOn(s Square) bool {
	target := g.Board.At(s)
	return target == XX || target.BelongsTo(g.Player.Other())
}

func (g *GameState) newMove(from Square, to Square) Move {
	return Move{
		Kind:     NormalMove,
		From:     from,
		To:       to,
		Moved:    g.Board.At(from),
		Captured: g.Board.At(to),
	}
}

func (g *GameState) generateJumps(from Square, jumps []direction, moves *[]Move) {
	for _, d := range jumps {
		to := from.Offset(d.dRow, d.dCol)
		if to.InBounds() && g.canLandOn(to) {
			*moves = append(*moves, g.newMove(from, to))
		}
	}
}

func (g *GameState) generateRays(from Square, directions []direction, moves *[]Move) {
	for _, d := range directions {
		for to := from.Offset(d.dRow, d.dCol); to.InBounds(); to = to.Offset(d.dRow, d.dCol) {
			target := g.Board.At(to)
			if target == XX {
				*moves = append(*moves, g.newMove(from, to))
				continue
			}
			if target.BelongsTo(g.Player.Other()) {
				*moves = append(*moves, g.newMove(from, to))
			}
			break
		}
	}
}

func (g *GameState) generatePawnMoves(from Square, moves *[]Move) {
	forward := pawnDirection(g.Player)

	var addPawnMove = func(m Move) {
		if m.To.Row == promotionRow(g.Player) {
			m.Kind = PromotionMove
		}
		*moves = append(*moves, m)
	}

	single := from.Offset(forward, 0)
	if single.InBounds() && g.Board.IsEmpty(single) {
		addPawnMove(g.newMove(from, single))

		double := single.Offset(forward, 0)
		if from.Row == pawnStartRow(g.Player) && g.Board.IsEmpty(double) {
			addPawnMove(g.newMove(from, double))
		}
	}

	for _, dCol := range [2]int{-1, 1} {
		to := from.Offset(forward, dCol)
		if !to.InBounds() {
			continue
		}
		if g.Board.At(to).BelongsTo(g.Player.Other()) {
			addPawnMove(g.newMove(from, to))
		} else if g.EnPassantTarget.HasValue() && g.EnPassantTarget.Value() == to && g.Board.IsEmpty(to) {
			passed := Square{from.Row, to.Col}
			if g.Board.At(passed) == PieceForPlayer[g.Player.Other()][Pawn] {
				*moves = append(*moves, Move{
					Kind:     EnPassantMove,
					From:     from,
					To:       to,
					Moved:    g.Board.At(from),
					Captured: g.Board.At(passed),
				})
			}
		}
	}
}

func (g *GameState) generateCastles(from Square, moves *[]Move) {
	if from != kingHome[g.Player] {
		return
	}
	row := homeRow(g.Player)
	rook := PieceForPlayer[g.Player][Rook]

	if g.CanCastle(g.Player, Kingside) &&
		g.Board.At(rookCorner(g.Player, Kingside)) == rook &&
		g.Board.IsEmpty(Square{row, 5}) && g.Board.IsEmpty(Square{row, 6}) {
		*moves = append(*moves, Move{
			Kind:  KingsideCastleMove,
			From:  from,
			To:    Square{row, 6},
			Moved: g.Board.At(from),
		})
	}

	if g.CanCastle(g.Player, Queenside) &&
		g.Board.At(rookCorner(g.Player, Queenside)) == rook &&
		g.Board.IsEmpty(Square{row, 1}) && g.Board.IsEmpty(Square{row, 2}) && g.Board.IsEmpty(Square{row, 3}) {
		*moves = append(*moves, Move{
			Kind:  QueensideCastleMove,
			From:  from,
			To:    Square{row, 2},
			Moved: g.Board.At(from),
		})
	}
}
