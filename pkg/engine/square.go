package engine

import (
	"errors"
	"fmt"
	"strings"
)

// Size is the number of rows and columns on the board
const Size = 8

// Square identifies a cell on the board by row and column (0-7)
type Square struct {
	Row int
	Col int
}

// ErrInvalidSquare is returned when square notation cannot be parsed
var ErrInvalidSquare = errors.New("invalid square")

// OnBoard reports whether the square lies within the 8x8 grid
func (s Square) OnBoard() bool {
	return onBoard(s.Row, s.Col)
}

// String returns the square in column-letter/row-number notation,
// e.g. row 5 col 2 is "C6"
func (s Square) String() string {
	if !s.OnBoard() {
		return fmt.Sprintf("(%d,%d)", s.Row, s.Col)
	}
	return fmt.Sprintf("%c%d", 'A'+s.Col, s.Row+1)
}

// ParseSquare parses notation such as "C6" or "c6"
func ParseSquare(s string) (Square, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) != 2 {
		return Square{}, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}
	col := int(s[0]) - 'A'
	row := int(s[1]) - '1'
	sq := Square{Row: row, Col: col}
	if !sq.OnBoard() {
		return Square{}, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}
	return sq, nil
}

func onBoard(row, col int) bool {
	return row >= 0 && row < Size && col >= 0 && col < Size
}
