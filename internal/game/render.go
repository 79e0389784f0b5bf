package game

import (
	"github.com/acarl005/stripansi"
)

const _hintForeground = "\033[38;5;244m"
const _whiteForeground = "\033[38;5;255m"
const _blackForeground = "\033[38;5;232m"
const _duckForeground = "\033[38;5;220m"
const _lightBackground = "\033[48;5;244m"
const _darkBackground = "\033[48;5;243m"
const _highlightBackground = "\033[48;5;137m"
const _resetColors = "\x1b[0m"

var _unicodePieces = [7]string{
	Rook: "♜", Knight: "♞", Bishop: "♝", King: "♚", Queen: "♛", Pawn: "♟", Duck: "◆",
}

func (p Piece) Unicode() string {
	if p == XX {
		return " "
	}
	return _unicodePieces[p.PieceType()]
}

// Unicode renders the board with terminal colours. Squares touched by the last move
// are highlighted.
func (g *GameState) Unicode() string {
	highlight := map[Square]bool{}
	if last := g.LastMove(); last.HasValue() {
		highlight[last.Value().From] = true
		highlight[last.Value().To] = true
	}

	result := "  "
	for col := 0; col < 8; col++ {
		result += _hintForeground + " " + Square{0, col}.File() + " " + _resetColors
	}
	result += "\n"

	for row := 0; row < 8; row++ {
		result += _hintForeground + Square{row, 0}.Rank() + " " + _resetColors
		for col := 0; col < 8; col++ {
			square := Square{row, col}
			piece := g.Board.At(square)

			if highlight[square] {
				result += _highlightBackground
			} else if (row+col)%2 == 0 {
				result += _lightBackground
			} else {
				result += _darkBackground
			}

			if piece == DD {
				result += _duckForeground
			} else if piece.IsWhite() {
				result += _whiteForeground
			} else {
				result += _blackForeground
			}

			result += " " + piece.Unicode() + " " + _resetColors
		}
		result += "\n"
	}

	result += _hintForeground + g.Player.String() + " to move, " + g.Phase.String() + " phase" + _resetColors
	return result
}

// PlainUnicode is Unicode without escape codes, for logs and files.
func (g *GameState) PlainUnicode() string {
	return stripansi.Strip(g.Unicode())
}
