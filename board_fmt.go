package main

import (
	"database/sql/driver"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// coordName renders a square as file letter and rank number, e.g. "e4".
func coordName(square int) string {
	mustSquare(square)
	return fmt.Sprintf("%c%d", 'a'+square%8, square/8+1)
}

// parseCoord is the inverse of coordName.
func parseCoord(s string) (int, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return noSquare, errors.Errorf("invalid coordinate %q", s)
	}
	return int(s[1]-'1')*8 + int(s[0]-'a'), nil
}

var drawNames = map[uint8]string{
	drawOffer:      "offer draw",
	drawAccept:     "accept draw",
	drawReject:     "reject draw",
	drawFiftyMoves: "claim draw (fifty moves)",
	drawRepetition: "claim draw (repetition)",
}

func (m Move) String() string {
	if m.isDraw() {
		return drawNames[m.Draw]
	}
	var sb strings.Builder
	if m.Promotion == empty {
		sb.WriteByte(valueToLetter[kindOf(m.Piece)])
	}
	sb.WriteString(coordName(m.From))
	if m.isCapture() {
		sb.WriteByte('x')
	} else {
		sb.WriteByte('-')
	}
	sb.WriteString(coordName(m.To))
	if m.Promotion != empty {
		sb.WriteByte(valueToLetter[m.Promotion])
	}
	return sb.String()
}

// uci renders the move in long algebraic form ("e2e4", "e7e8q").
func (m Move) uci() string {
	if m.isDraw() {
		return ""
	}
	s := coordName(m.From) + coordName(m.To)
	if m.Promotion != empty {
		s += strings.ToLower(string(valueToLetter[m.Promotion]))
	}
	return s
}

func (m Move) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// findMove picks the move from moves whose text matches s. Both the display
// form and the long algebraic form are accepted.
func findMove(moves []Move, s string) (Move, error) {
	s = strings.TrimSpace(s)
	for _, m := range moves {
		if strings.EqualFold(m.String(), s) || (!m.isDraw() && m.uci() == strings.ToLower(s)) {
			return m, nil
		}
	}
	return Move{}, errors.Errorf("invalid move %q", s)
}

func pieceRune(piece uint8) rune {
	if piece == empty {
		return ' '
	}
	if colorOf(piece) == black {
		return valueToPieceBlack[kindOf(piece)]
	}
	return valueToPieceWhite[kindOf(piece)]
}

// rows renders the board top rank first.
func (board chessState) rows() []string {
	rows := make([]string, 0, 8)
	for row := 7; row >= 0; row-- {
		var sb strings.Builder
		for col := 0; col < 8; col++ {
			piece := board[row*8+col]
			if piece == empty {
				sb.WriteRune('·')
			} else {
				sb.WriteRune(pieceRune(piece))
			}
		}
		rows = append(rows, sb.String())
	}
	return rows
}

func (board chessState) String() string {
	var sb strings.Builder
	sb.WriteString("   ╔════════════════════════╗\n")
	for i, row := range board.rows() {
		fmt.Fprintf(&sb, " %d ║", 8-i)
		for _, r := range row {
			fmt.Fprintf(&sb, " %c ", r)
		}
		sb.WriteString("║\n")
	}
	sb.WriteString("   ╚════════════════════════╝\n")
	sb.WriteString("     a  b  c  d  e  f  g  h")
	return sb.String()
}

func (board chessState) Value() (driver.Value, error) {
	return hex.EncodeToString(board[:]), nil
}

func (board *chessState) Scan(cell interface{}) error {
	switch cell := cell.(type) {
	case string:
		return board.decode(cell)
	case []byte:
		return board.decode(string(cell))
	default:
		return fmt.Errorf("invalid format scaning %#v", cell)
	}
}

func (board *chessState) decode(s string) error {
	src, err := hex.DecodeString(s)
	if err != nil {
		return err
	}
	if len(src) != len(board) {
		return errors.Errorf("board is not length %d: %d", len(board), len(src))
	}
	copy(board[:], src)
	return nil
}
