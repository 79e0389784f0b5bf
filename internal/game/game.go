package game

import (
	"errors"
	"fmt"

	. "github.com/cricklet/duckchess/internal/helpers"
)

type TurnPhase int

const (
	PieceMovePhase TurnPhase = iota
	DuckMovePhase
)

func (p TurnPhase) String() string {
	if p == DuckMovePhase {
		return "duck"
	}
	return "piece"
}

// NoProgressLimit is the number of piece moves without a capture or pawn move that
// ends the game in a draw.
const NoProgressLimit = 50

var StartingDuckSquare = Square{3, 4}

var ErrIllegalMove = errors.New("illegal move")

type GameState struct {
	Board           Board
	Player          Player
	Phase           TurnPhase
	DuckLocation    Square
	KingLocations   [2]Square
	CastlingRights  CastlingRights
	EnPassantTarget Optional[Square]
	NoProgressCount int
	FullMoveClock   int
	GameOver        bool
	Winner          Optional[Player]

	history []HistoryEntry
}

// HistoryEntry is everything a move superseded, so UndoMove can restore it exactly.
type HistoryEntry struct {
	Move Move

	PrevPlayer          Player
	PrevPhase           TurnPhase
	PrevCastlingRights  CastlingRights
	PrevEnPassantTarget Optional[Square]
	PrevNoProgressCount int
	PrevFullMoveClock   int
	PrevKingLocations   [2]Square
	PrevGameOver        bool
	PrevWinner          Optional[Player]
}

var _startingBoard = Board{
	{BR, BN, BB, BQ, BK, BB, BN, BR},
	{BP, BP, BP, BP, BP, BP, BP, BP},
	{XX, XX, XX, XX, XX, XX, XX, XX},
	{XX, XX, XX, XX, XX, XX, XX, XX},
	{XX, XX, XX, XX, XX, XX, XX, XX},
	{XX, XX, XX, XX, XX, XX, XX, XX},
	{WP, WP, WP, WP, WP, WP, WP, WP},
	{WR, WN, WB, WQ, WK, WB, WN, WR},
}

func NewGame() *GameState {
	g := &GameState{
		Board:          _startingBoard,
		Player:         White,
		Phase:          PieceMovePhase,
		DuckLocation:   StartingDuckSquare,
		KingLocations:  kingHome,
		CastlingRights: AllCastlingRights,
		FullMoveClock:  1,
	}
	g.Board.Set(StartingDuckSquare, DD)
	return g
}

func (g *GameState) Enemy() Player {
	return g.Player.Other()
}

func (g *GameState) History() []Move {
	return MapSlice(g.history, func(h HistoryEntry) Move {
		return h.Move
	})
}

func (g *GameState) HistoryLen() int {
	return len(g.history)
}

func (g *GameState) LastMove() Optional[Move] {
	if len(g.history) == 0 {
		return Empty[Move]()
	}
	return Some(Last(g.history).Move)
}

func (g *GameState) CanCastle(player Player, side CastlingSide) bool {
	return g.CastlingRights[player][side]
}

// Winner is only meaningful once GameOver is set. A finished game without a winner
// is a draw.
func (g *GameState) IsDraw() bool {
	return g.GameOver && g.Winner.IsEmpty()
}

func (g *GameState) hasEmptySquare() bool {
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			if g.Board[row][col] == XX {
				return true
			}
		}
	}
	return false
}

func (g *GameState) clearCastlingFor(square Square) {
	for _, player := range [2]Player{White, Black} {
		for _, side := range AllCastlingSides {
			if square == rookCorner(player, side) || square == kingHome[player] {
				g.CastlingRights[player][side] = false
			}
		}
	}
}

// PerformMove applies a move without checking it against the legal move set. It is
// the apply half of the search's apply/undo discipline; callers taking moves from
// outside should use ApplyMove.
func (g *GameState) PerformMove(move Move) {
	if g.GameOver {
		panic(fmt.Sprintf("perform %v: game is over", move))
	}

	g.history = append(g.history, HistoryEntry{
		Move:                move,
		PrevPlayer:          g.Player,
		PrevPhase:           g.Phase,
		PrevCastlingRights:  g.CastlingRights,
		PrevEnPassantTarget: g.EnPassantTarget,
		PrevNoProgressCount: g.NoProgressCount,
		PrevFullMoveClock:   g.FullMoveClock,
		PrevKingLocations:   g.KingLocations,
		PrevGameOver:        g.GameOver,
		PrevWinner:          g.Winner,
	})

	if move.IsDuckMove() {
		g.performDuckMove(move)
	} else {
		g.performPieceMove(move)
	}
}

func (g *GameState) performDuckMove(move Move) {
	if g.Phase != DuckMovePhase {
		panic(fmt.Sprintf("duck move %v during the piece phase", move))
	}
	if g.Board.At(move.From) != DD || move.From != g.DuckLocation {
		panic(fmt.Sprintf("duck move %v: duck is at %v\n%v", move, g.DuckLocation, g.Board))
	}

	g.Board.Set(move.From, XX)
	g.Board.Set(move.To, DD)
	g.DuckLocation = move.To

	g.endTurn()
	g.Phase = PieceMovePhase
}

func (g *GameState) endTurn() {
	if g.Player == Black {
		g.FullMoveClock++
	}
	g.Player = g.Player.Other()
}

func (g *GameState) performPieceMove(move Move) {
	if g.Phase != PieceMovePhase {
		panic(fmt.Sprintf("piece move %v during the duck phase", move))
	}
	if !move.Moved.BelongsTo(g.Player) || g.Board.At(move.From) != move.Moved {
		panic(fmt.Sprintf("piece move %v: %v is not a %v piece\n%v", move, move.From, g.Player, g.Board))
	}

	g.Board.Set(move.From, XX)
	g.Board.Set(move.To, move.Moved)

	switch move.Kind {
	case EnPassantMove:
		g.Board.Set(Square{move.From.Row, move.To.Col}, XX)
	case KingsideCastleMove:
		g.Board.Set(Square{move.To.Row, 7}, XX)
		g.Board.Set(Square{move.To.Row, 5}, PieceForPlayer[g.Player][Rook])
	case QueensideCastleMove:
		g.Board.Set(Square{move.To.Row, 0}, XX)
		g.Board.Set(Square{move.To.Row, 3}, PieceForPlayer[g.Player][Rook])
	case PromotionMove:
		g.Board.Set(move.To, PieceForPlayer[g.Player][Queen])
	}

	if move.Moved.PieceType() == King {
		g.KingLocations[g.Player] = move.To
	}

	if move.CapturesKing() {
		g.GameOver = true
		g.Winner = Some(g.Player)
		return
	}

	g.clearCastlingFor(move.From)
	g.clearCastlingFor(move.To)

	g.EnPassantTarget = Empty[Square]()
	if move.Moved.PieceType() == Pawn && AbsDiff(move.From.Row, move.To.Row) == 2 {
		g.EnPassantTarget = Some(Square{(move.From.Row + move.To.Row) / 2, move.From.Col})
	}

	if move.IsCapture() || move.Moved.PieceType() == Pawn {
		g.NoProgressCount = 0
	} else {
		g.NoProgressCount++
		if g.NoProgressCount >= NoProgressLimit {
			g.GameOver = true
			g.Winner = Empty[Player]()
			return
		}
	}

	if g.hasEmptySquare() {
		g.Phase = DuckMovePhase
	} else {
		// nowhere for the duck to go: the turn passes without a duck move
		g.endTurn()
	}
}

// UndoMove reverts the most recent move. Undoing with no history does nothing.
func (g *GameState) UndoMove() {
	if len(g.history) == 0 {
		return
	}

	entry := Last(g.history)
	g.history = g.history[:len(g.history)-1]

	move := entry.Move
	if move.IsDuckMove() {
		g.Board.Set(move.To, XX)
		g.Board.Set(move.From, DD)
		g.DuckLocation = move.From
	} else {
		switch move.Kind {
		case EnPassantMove:
			g.Board.Set(move.To, XX)
			g.Board.Set(Square{move.From.Row, move.To.Col}, move.Captured)
		case KingsideCastleMove:
			g.Board.Set(Square{move.To.Row, 5}, XX)
			g.Board.Set(Square{move.To.Row, 7}, PieceForPlayer[entry.PrevPlayer][Rook])
			g.Board.Set(move.To, XX)
		case QueensideCastleMove:
			g.Board.Set(Square{move.To.Row, 3}, XX)
			g.Board.Set(Square{move.To.Row, 0}, PieceForPlayer[entry.PrevPlayer][Rook])
			g.Board.Set(move.To, XX)
		default:
			g.Board.Set(move.To, move.Captured)
		}
		g.Board.Set(move.From, move.Moved)
	}

	g.Player = entry.PrevPlayer
	g.Phase = entry.PrevPhase
	g.CastlingRights = entry.PrevCastlingRights
	g.EnPassantTarget = entry.PrevEnPassantTarget
	g.NoProgressCount = entry.PrevNoProgressCount
	g.FullMoveClock = entry.PrevFullMoveClock
	g.KingLocations = entry.PrevKingLocations
	g.GameOver = entry.PrevGameOver
	g.Winner = entry.PrevWinner
}

// MatchLegalMove finds the legal move with the same From/To as the candidate. The
// candidate's contents and kind are ignored; the returned move is authoritative.
func (g *GameState) MatchLegalMove(candidate Move) (Move, Error) {
	legal := FindInSlice(g.LegalMoves(), func(m Move) bool {
		return m.From == candidate.From && m.To == candidate.To
	})
	if legal.IsEmpty() {
		return Move{}, Errorf("%v for %v in the %v phase: %w", candidate, g.Player, g.Phase, ErrIllegalMove)
	}
	return legal.Value(), NilError
}

// ApplyMove applies a move only if it is in the current legal move set. Nothing is
// mutated when the move is rejected.
func (g *GameState) ApplyMove(candidate Move) (Move, Error) {
	move, err := g.MatchLegalMove(candidate)
	if !IsNil(err) {
		return Move{}, err
	}
	g.PerformMove(move)
	return move, NilError
}

// MoveFromString parses "e2e4" style input against the legal moves. A bare square
// ("d4") is accepted during the duck phase.
func (g *GameState) MoveFromString(s string) (Move, Error) {
	if g.Phase == DuckMovePhase && len(s) == 2 {
		to, err := SquareFromString(s)
		if !IsNil(err) {
			return Move{}, err
		}
		return g.MatchLegalMove(Move{From: g.DuckLocation, To: to})
	}

	if len(s) != 4 && len(s) != 5 {
		return Move{}, Errorf("invalid move string %q", s)
	}
	from, err := SquareFromString(s[0:2])
	if !IsNil(err) {
		return Move{}, err
	}
	to, err := SquareFromString(s[2:4])
	if !IsNil(err) {
		return Move{}, err
	}
	return g.MatchLegalMove(Move{From: from, To: to})
}

func (g *GameState) PerformMoveFromString(s string) (Move, Error) {
	move, err := g.MoveFromString(s)
	if !IsNil(err) {
		return Move{}, err
	}
	g.PerformMove(move)
	return move, NilError
}
