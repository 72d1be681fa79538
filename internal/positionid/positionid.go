// Package positionid implements position encoding/decoding for checkers boards.
//
// Only the 32 dark squares of the 8x8 grid can hold a piece, so a position
// is fully described by the contents of those squares. Two encodings are
// provided:
//
//   - PositionKey: a compact binary key (4 bits per dark square) used for
//     hashing and cache lookups.
//   - Position ID: a readable string of eight '/'-separated groups, one per
//     row (row 0 first), each with four characters for the row's dark
//     squares from left to right. '.' is empty, 'w'/'W' a white man/king,
//     'r'/'R' a red man/king.
package positionid

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// Size is the number of rows and columns of the grid
	Size = 8
	// NumSquares is the number of playable (dark) squares
	NumSquares = 32
	// PositionIDLength is the length of a position ID string
	PositionIDLength = NumSquares + Size - 1
)

// Board is the signed value grid of a checkers position, indexed [row][col].
// 0 is empty, +1/+2 a white man/king, -1/-2 a red man/king.
type Board [Size][Size]int8

// PositionKey is a compact binary representation of a board position
// Uses 4 uint32s to encode the position (4 bits per dark square)
type PositionKey struct {
	Data [4]uint32
}

// Square codes stored in a key nibble
const (
	codeEmpty uint32 = iota
	codeWhiteMan
	codeWhiteKing
	codeRedMan
	codeRedKing
)

var codeChars = [...]byte{'.', 'w', 'W', 'r', 'R'}

// IsDark reports whether (row, col) is a playable square
func IsDark(row, col int) bool {
	return (row+col)%2 == 1
}

// SquareAt returns the grid coordinates of dark square index i (0-31)
func SquareAt(i int) (row, col int) {
	row = i / 4
	col = 2*(i%4) + (1 - row%2)
	return row, col
}

func valueToCode(v int8) uint32 {
	switch v {
	case 1:
		return codeWhiteMan
	case 2:
		return codeWhiteKing
	case -1:
		return codeRedMan
	case -2:
		return codeRedKing
	}
	return codeEmpty
}

// MakePositionKey creates a compact key from a board position
func MakePositionKey(board Board) PositionKey {
	var key PositionKey
	for i := 0; i < NumSquares; i++ {
		row, col := SquareAt(i)
		key.Data[i/8] |= valueToCode(board[row][col]) << (4 * uint(i%8))
	}
	return key
}

// PositionID generates a position ID string from a board
func PositionID(board Board) string {
	return PositionIDFromKey(MakePositionKey(board))
}

// PositionIDFromKey generates a position ID string from a position key
func PositionIDFromKey(key PositionKey) string {
	var sb strings.Builder
	sb.Grow(PositionIDLength)
	for i := 0; i < NumSquares; i++ {
		if i > 0 && i%4 == 0 {
			sb.WriteByte('/')
		}
		c := (key.Data[i/8] >> (4 * uint(i%8))) & 0x0f
		if int(c) >= len(codeChars) {
			c = codeEmpty
		}
		sb.WriteByte(codeChars[c])
	}
	return sb.String()
}

// ErrInvalidPositionID is returned when a position ID is invalid
var ErrInvalidPositionID = errors.New("invalid position ID")

// BoardFromPositionID decodes a position ID string to a board
func BoardFromPositionID(posID string) (Board, error) {
	var board Board

	rows := strings.Split(strings.TrimSpace(posID), "/")
	if len(rows) != Size {
		return board, fmt.Errorf("%w: want %d rows, got %d", ErrInvalidPositionID, Size, len(rows))
	}

	for r, group := range rows {
		if len(group) != 4 {
			return board, fmt.Errorf("%w: row %d has %d squares", ErrInvalidPositionID, r+1, len(group))
		}
		for k := 0; k < 4; k++ {
			var v int8
			switch group[k] {
			case '.':
				v = 0
			case 'w':
				v = 1
			case 'W':
				v = 2
			case 'r':
				v = -1
			case 'R':
				v = -2
			default:
				return board, fmt.Errorf("%w: unexpected %q in row %d", ErrInvalidPositionID, group[k], r+1)
			}
			row, col := SquareAt(r*4 + k)
			board[row][col] = v
		}
	}

	if !CheckPosition(board) {
		return board, fmt.Errorf("%w: illegal position", ErrInvalidPositionID)
	}
	return board, nil
}

// CheckPosition validates that a board position is legal: pieces only on
// dark squares, at most 12 per side, and no man resting on the row where
// it would have been crowned
func CheckPosition(board Board) bool {
	var white, red int
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			v := board[row][col]
			if v == 0 {
				continue
			}
			if !IsDark(row, col) || v > 2 || v < -2 {
				return false
			}
			if v == 1 && row == Size-1 {
				return false
			}
			if v == -1 && row == 0 {
				return false
			}
			if v > 0 {
				white++
			} else {
				red++
			}
		}
	}
	return white <= 12 && red <= 12
}

// EqualKeys returns true if two position keys are identical
func EqualKeys(k1, k2 PositionKey) bool {
	return k1.Data == k2.Data
}
