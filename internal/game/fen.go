package game

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	. "github.com/cricklet/duckchess/internal/helpers"
)

var ErrInvalidFen = errors.New("invalid fen")

func FenStringForPlayer(p Player) string {
	if p == White {
		return "w"
	} else {
		return "b"
	}
}

var fenStringForCastling = [2][2]string{
	{"K", "Q"},
	{"k", "q"},
}

func fenStringForCastlingAllowed(rights CastlingRights) string {
	s := ""
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			if rights[i][j] {
				s += fenStringForCastling[i][j]
			}
		}
	}
	if len(s) == 0 {
		s += "-"
	}
	return s
}

func fenStringForEnPassant(enPassant Optional[Square]) string {
	if enPassant.IsEmpty() {
		return "-"
	}
	return enPassant.Value().String()
}

// FenStringForBoard writes the placement field. When includeDuck is false the duck's
// square is written as empty, which is what a standard chess parser expects.
func FenStringForBoard(b Board, includeDuck bool) string {
	s := ""
	for row := 0; row < 8; row++ {
		numSpaces := 0
		for col := 0; col < 8; col++ {
			piece := b[row][col]
			if piece == XX || (piece == DD && !includeDuck) {
				numSpaces++
				continue
			}
			if numSpaces > 0 {
				s += fmt.Sprint(numSpaces)
				numSpaces = 0
			}
			s += piece.String()
		}
		if numSpaces > 0 {
			s += fmt.Sprint(numSpaces)
		}
		if row != 7 {
			s += "/"
		}
	}
	return s
}

// FenStringForGame is the duck-aware FEN: the duck is '*' in the placement field
// and a seventh field records the turn phase.
func FenStringForGame(g *GameState) string {
	return fmt.Sprintf("%v %v %v %v %v %v %v",
		FenStringForBoard(g.Board, true),
		FenStringForPlayer(g.Player),
		fenStringForCastlingAllowed(g.CastlingRights),
		fenStringForEnPassant(g.EnPassantTarget),
		g.NoProgressCount,
		g.FullMoveClock,
		g.Phase)
}

// ChessFenForGame drops the duck and the phase field.
func ChessFenForGame(g *GameState) string {
	return fmt.Sprintf("%v %v %v %v %v %v",
		FenStringForBoard(g.Board, false),
		FenStringForPlayer(g.Player),
		fenStringForCastlingAllowed(g.CastlingRights),
		fenStringForEnPassant(g.EnPassantTarget),
		g.NoProgressCount,
		g.FullMoveClock)
}

func invalidFen(s string, format string, args ...any) (*GameState, Error) {
	return &GameState{}, Errorf("%v in '%v': %w", fmt.Sprintf(format, args...), s, ErrInvalidFen)
}

// GamestateFromFenString parses the duck-aware FEN. The board must hold exactly one
// duck. A position missing a king is loaded as already won by the other side.
func GamestateFromFenString(s string) (*GameState, Error) {
	ss := strings.Fields(s)
	if len(ss) != 7 && len(ss) != 6 && len(ss) != 4 && len(ss) != 2 {
		return invalidFen(s, "wrong num %v of fields", len(ss))
	}

	boardStr, playerString := ss[0], ss[1]

	var board Board
	row, col := 0, 0
	for _, c := range boardStr {
		if c == '/' {
			if col != 8 {
				return invalidFen(s, "not enough squares in row %v", row)
			}
			row++
			col = 0
		} else if c >= '0' && c <= '9' {
			if c == '0' || c == '9' {
				return invalidFen(s, "bad empty square count '%c' in row %v", c, row)
			}
			col += int(c - '0')
		} else if p, err := PieceFromString(c); IsNil(err) {
			if row > 7 || col > 7 {
				return invalidFen(s, "too many squares")
			}
			board[row][col] = p
			col++
		} else {
			return invalidFen(s, "unknown character '%c'", c)
		}
		if col > 8 {
			return invalidFen(s, "too many squares in row %v", row)
		}
	}
	if row != 7 || col != 8 {
		return invalidFen(s, "board is not 8x8")
	}

	player, err := PlayerFromString(playerString)
	if !IsNil(err) {
		return invalidFen(s, "invalid player '%v'", playerString)
	}

	castlingRightsString, enPassantTargetString := "-", "-"
	if len(ss) >= 4 {
		castlingRightsString, enPassantTargetString = ss[2], ss[3]
	}

	noProgressString, fullMoveString := "0", "1"
	if len(ss) >= 6 {
		noProgressString, fullMoveString = ss[4], ss[5]
	}

	phase := PieceMovePhase
	if len(ss) == 7 {
		switch ss[6] {
		case PieceMovePhase.String():
		case DuckMovePhase.String():
			phase = DuckMovePhase
		default:
			return invalidFen(s, "invalid phase '%v'", ss[6])
		}
	}

	var rights CastlingRights
	for _, c := range castlingRightsString {
		switch c {
		case '-':
			continue
		case 'K':
			rights[White][Kingside] = true
		case 'Q':
			rights[White][Queenside] = true
		case 'k':
			rights[Black][Kingside] = true
		case 'q':
			rights[Black][Queenside] = true
		default:
			return invalidFen(s, "invalid castling rights '%v'", castlingRightsString)
		}
	}

	enPassantTarget := Empty[Square]()
	if enPassantTargetString != "-" {
		if v, err := SquareFromString(enPassantTargetString); IsNil(err) {
			enPassantTarget = Some(v)
		} else {
			return invalidFen(s, "invalid en-passant target '%v'", enPassantTargetString)
		}
	}

	noProgress, parseErr := strconv.Atoi(noProgressString)
	if parseErr != nil || noProgress < 0 {
		return invalidFen(s, "invalid no-progress count '%v'", noProgressString)
	}
	fullMove, parseErr := strconv.Atoi(fullMoveString)
	if parseErr != nil || fullMove < 1 {
		return invalidFen(s, "invalid full move clock '%v'", fullMoveString)
	}

	ducks := board.FindAll(DD)
	if len(ducks) != 1 {
		return invalidFen(s, "expected one duck, found %v", len(ducks))
	}

	g := &GameState{
		Board:           board,
		Player:          player,
		Phase:           phase,
		DuckLocation:    ducks[0],
		CastlingRights:  rights,
		EnPassantTarget: enPassantTarget,
		NoProgressCount: noProgress,
		FullMoveClock:   fullMove,
	}

	for _, p := range [2]Player{White, Black} {
		kings := board.FindAll(PieceForPlayer[p][King])
		if len(kings) > 1 {
			return invalidFen(s, "%v has %v kings", p, len(kings))
		}
		if len(kings) == 0 {
			g.GameOver = true
			g.Winner = Some(p.Other())
			continue
		}
		g.KingLocations[p] = kings[0]
	}

	// rights for pieces that have left their home squares are dropped
	for _, p := range [2]Player{White, Black} {
		for _, side := range AllCastlingSides {
			if board.At(kingHome[p]) != PieceForPlayer[p][King] ||
				board.At(rookCorner(p, side)) != PieceForPlayer[p][Rook] {
				g.CastlingRights[p][side] = false
			}
		}
	}

	if g.NoProgressCount >= NoProgressLimit && !g.GameOver {
		g.GameOver = true
	}

	return g, NilError
}

func MustGameFromFen(s string) *GameState {
	g, err := GamestateFromFenString(s)
	if !IsNil(err) {
		panic(err)
	}
	return g
}
