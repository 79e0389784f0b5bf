package game

import (
	. "github.com/cricklet/duckchess/internal/helpers"
)

type Player uint

const (
	White Player = iota
	Black
)

var _playerStrings = [2]string{
	"white", "black",
}

func (p Player) String() string {
	return _playerStrings[p]
}

func (p Player) Other() Player {
	return 1 - p
}

func PlayerFromString(c string) (Player, Error) {
	switch c {
	case "w", "white":
		return White, NilError
	case "b", "black":
		return Black, NilError
	default:
		return White, Errorf("invalid player %q", c)
	}
}

type PieceType uint

const (
	Rook PieceType = iota
	Knight
	Bishop
	King
	Queen
	Pawn
	Duck
	InvalidPiece
)

func (p PieceType) String() string {
	return [8]string{
		"r", "n", "b", "k", "q", "p", "*", "?",
	}[p]
}

// Piece is the content of one board square: empty, the duck, or a coloured piece.
type Piece uint

const (
	XX Piece = iota
	WR
	WN
	WB
	WK
	WQ
	WP
	BR
	BN
	BB
	BK
	BQ
	BP
	DD
)

var _pieceTypeLookup = [14]PieceType{
	XX: InvalidPiece,
	WR: Rook, WN: Knight, WB: Bishop, WK: King, WQ: Queen, WP: Pawn,
	BR: Rook, BN: Knight, BB: Bishop, BK: King, BQ: Queen, BP: Pawn,
	DD: Duck,
}

func (p Piece) PieceType() PieceType {
	return _pieceTypeLookup[p]
}

func (p Piece) IsWhite() bool {
	return p >= WR && p <= WP
}

func (p Piece) IsBlack() bool {
	return p >= BR && p <= BP
}

// IsPlayerPiece is false for the empty square and the duck.
func (p Piece) IsPlayerPiece() bool {
	return p >= WR && p <= BP
}

func (p Piece) Player() Player {
	if p.IsBlack() {
		return Black
	}
	return White
}

func (p Piece) BelongsTo(player Player) bool {
	return p.IsPlayerPiece() && p.Player() == player
}

var PieceForPlayer = [2][6]Piece{
	White: {Rook: WR, Knight: WN, Bishop: WB, King: WK, Queen: WQ, Pawn: WP},
	Black: {Rook: BR, Knight: BN, Bishop: BB, King: BK, Queen: BQ, Pawn: BP},
}

func (p Piece) String() string {
	return [14]string{
		" ",
		"R", "N", "B", "K", "Q", "P",
		"r", "n", "b", "k", "q", "p",
		"*",
	}[p]
}

func PieceFromString(c rune) (Piece, Error) {
	switch c {
	case 'R':
		return WR, NilError
	case 'N':
		return WN, NilError
	case 'B':
		return WB, NilError
	case 'K':
		return WK, NilError
	case 'Q':
		return WQ, NilError
	case 'P':
		return WP, NilError
	case 'r':
		return BR, NilError
	case 'n':
		return BN, NilError
	case 'b':
		return BB, NilError
	case 'k':
		return BK, NilError
	case 'q':
		return BQ, NilError
	case 'p':
		return BP, NilError
	case '*':
		return DD, NilError
	default:
		return XX, Errorf("invalid piece %q", c)
	}
}

// Square is a board coordinate. Row 0 is rank 8, row 7 is rank 1.
type Square struct {
	Row int
	Col int
}

func (s Square) InBounds() bool {
	return s.Row >= 0 && s.Row < 8 && s.Col >= 0 && s.Col < 8
}

func (s Square) Offset(dRow int, dCol int) Square {
	return Square{s.Row + dRow, s.Col + dCol}
}

func (s Square) File() string {
	return string(rune('a' + s.Col))
}

func (s Square) Rank() string {
	return string(rune('8' - s.Row))
}

func (s Square) String() string {
	return s.File() + s.Rank()
}

func SquareFromString(s string) (Square, Error) {
	if len(s) != 2 {
		return Square{}, Errorf("invalid square %q", s)
	}
	square := Square{Row: int('8' - s[1]), Col: int(s[0] - 'a')}
	if !square.InBounds() {
		return Square{}, Errorf("invalid square %q", s)
	}
	return square, NilError
}

func MustSquare(s string) Square {
	square, err := SquareFromString(s)
	if !IsNil(err) {
		panic(err)
	}
	return square
}

type Board [8][8]Piece

func (b *Board) At(s Square) Piece {
	return b[s.Row][s.Col]
}

func (b *Board) Set(s Square, p Piece) {
	b[s.Row][s.Col] = p
}

func (b *Board) IsEmpty(s Square) bool {
	return b[s.Row][s.Col] == XX
}

func (b *Board) FindAll(p Piece) []Square {
	result := []Square{}
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			if b[row][col] == p {
				result = append(result, Square{row, col})
			}
		}
	}
	return result
}

func (b Board) String() string {
	result := ""
	for row := 0; row < 8; row++ {
		for _, p := range b[row] {
			if p == XX {
				result += "."
			} else {
				result += p.String()
			}
		}
		if row != 7 {
			result += "\n"
		}
	}
	return result
}

type CastlingSide int

const (
	Kingside CastlingSide = iota
	Queenside
)

var AllCastlingSides = [2]CastlingSide{Kingside, Queenside}

// CastlingRights is indexed by player then side. Rights are only ever cleared.
type CastlingRights [2][2]bool

var AllCastlingRights = CastlingRights{{true, true}, {true, true}}

func homeRow(player Player) int {
	if player == White {
		return 7
	}
	return 0
}

func pawnStartRow(player Player) int {
	if player == White {
		return 6
	}
	return 1
}

func pawnDirection(player Player) int {
	if player == White {
		return -1
	}
	return 1
}

func promotionRow(player Player) int {
	if player == White {
		return 0
	}
	return 7
}

func rookCorner(player Player, side CastlingSide) Square {
	if side == Kingside {
		return Square{homeRow(player), 7}
	}
	return Square{homeRow(player), 0}
}

var kingHome = [2]Square{White: {7, 4}, Black: {0, 4}}
