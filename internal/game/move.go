package game

import (
	"strings"

	. "github.com/cricklet/duckchess/internal/helpers"
)

type MoveKind int

const (
	NormalMove MoveKind = iota
	EnPassantMove
	KingsideCastleMove
	QueensideCastleMove
	DuckMove
	PromotionMove
)

func (k MoveKind) String() string {
	switch k {
	case NormalMove:
		return "NormalMove"
	case EnPassantMove:
		return "EnPassantMove"
	case KingsideCastleMove:
		return "KingsideCastleMove"
	case QueensideCastleMove:
		return "QueensideCastleMove"
	case DuckMove:
		return "DuckMove"
	case PromotionMove:
		return "PromotionMove"
	}
	return "Invalid"
}

// Move is a half-move: either a piece move or the duck teleporting. Moved and
// Captured record the square contents before the move; for en passant Captured is
// the passed pawn.
type Move struct {
	Kind     MoveKind
	From     Square
	To       Square
	Moved    Piece
	Captured Piece
}

func (m Move) IsDuckMove() bool {
	return m.Kind == DuckMove
}

func (m Move) IsEnPassant() bool {
	return m.Kind == EnPassantMove
}

func (m Move) IsCastle() bool {
	return m.Kind == KingsideCastleMove || m.Kind == QueensideCastleMove
}

func (m Move) IsPromotion() bool {
	return m.Kind == PromotionMove
}

func (m Move) IsCapture() bool {
	return m.Captured != XX
}

func (m Move) CapturesKing() bool {
	return m.Captured.PieceType() == King
}

// Matches compares the identity of two moves, ignoring the recorded square contents.
func (m Move) Matches(o Move) bool {
	return m.From == o.From && m.To == o.To && m.Kind == o.Kind
}

func (m Move) String() string {
	if m.Kind == PromotionMove {
		return m.From.String() + m.To.String() + "q"
	}
	return m.From.String() + m.To.String()
}

// Notation is the short human-readable form shown in move logs.
func (m Move) Notation() string {
	switch m.Kind {
	case DuckMove:
		return "D" + m.To.String()
	case KingsideCastleMove:
		return "O-O"
	case QueensideCastleMove:
		return "O-O-O"
	case EnPassantMove:
		return m.From.File() + "x" + m.To.String() + " e.p."
	case PromotionMove:
		if m.IsCapture() {
			return m.From.File() + "x" + m.To.String() + "Q"
		}
		return m.To.String() + "Q"
	}

	letter := ""
	if m.Moved.PieceType() != Pawn {
		letter = strings.ToUpper(m.Moved.String())
	}

	if m.IsCapture() {
		if letter == "" {
			return m.From.File() + "x" + m.To.String()
		}
		return letter + "x" + m.To.String()
	}
	return letter + m.To.String()
}

// Turn is one compound move: a piece move and the duck move that completes it. Duck
// is empty when the piece move ended the game or no duck move was possible.
type Turn struct {
	Piece Move
	Duck  Optional[Move]
}

func (t Turn) String() string {
	if t.Duck.HasValue() {
		return t.Piece.String() + "," + t.Duck.Value().To.String()
	}
	return t.Piece.String()
}
