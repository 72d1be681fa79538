package positionid

import (
	"errors"
	"testing"
)

// startingBoard returns the standard checkers starting position:
// white men on rows 0-2, red men on rows 5-7, dark squares only
func startingBoard() Board {
	var board Board
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if !IsDark(row, col) {
				continue
			}
			if row < 3 {
				board[row][col] = 1
			} else if row > 4 {
				board[row][col] = -1
			}
		}
	}
	return board
}

// Known position ID for the starting position
const startingPositionID = "wwww/wwww/wwww/..../..../rrrr/rrrr/rrrr"

func TestPositionIDStartingPosition(t *testing.T) {
	board := startingBoard()
	posID := PositionID(board)

	if posID != startingPositionID {
		t.Errorf("PositionID mismatch: got %s, want %s", posID, startingPositionID)
	}
	if len(posID) != PositionIDLength {
		t.Errorf("PositionID length = %d, want %d", len(posID), PositionIDLength)
	}
}

func TestPositionIDFromKey(t *testing.T) {
	board := startingBoard()
	board[4][3] = 2
	board[1][2] = 0
	board[3][2] = -2

	id := PositionIDFromKey(MakePositionKey(board))
	if id != PositionID(board) {
		t.Errorf("PositionIDFromKey = %s, want %s", id, PositionID(board))
	}
	decoded, err := BoardFromPositionID(id)
	if err != nil {
		t.Fatalf("BoardFromPositionID(%q) error: %v", id, err)
	}
	if decoded != board {
		t.Errorf("Key round trip failed:\n got  %v\n want %v", decoded, board)
	}
}

func TestPositionIDRoundTrip(t *testing.T) {
	tests := []string{
		startingPositionID,
		"..../..../..../..../..../..../..../....",
		".W../..r./..../w.../..../.R../r.../....",
	}

	for _, id := range tests {
		board, err := BoardFromPositionID(id)
		if err != nil {
			t.Fatalf("BoardFromPositionID(%q) error: %v", id, err)
		}
		if got := PositionID(board); got != id {
			t.Errorf("round trip: got %q, want %q", got, id)
		}
	}
}

func TestBoardFromPositionIDInvalid(t *testing.T) {
	tests := []struct {
		name string
		id   string
	}{
		{"empty", ""},
		{"too few rows", "wwww/wwww/wwww"},
		{"short row", "www/wwww/wwww/..../..../rrrr/rrrr/rrrr"},
		{"bad char", "wwxw/wwww/wwww/..../..../rrrr/rrrr/rrrr"},
		{"white man on last row", "..../..../..../..../..../..../..../w..."},
		{"red man on first row", "r.../..../..../..../..../..../..../...."},
		{"thirteen white", "wwww/wwww/wwww/w.../..../..../..../...."},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := BoardFromPositionID(tc.id)
			if !errors.Is(err, ErrInvalidPositionID) {
				t.Errorf("BoardFromPositionID(%q) error = %v, want ErrInvalidPositionID", tc.id, err)
			}
		})
	}
}

func TestSquareAt(t *testing.T) {
	seen := make(map[[2]int]bool)
	for i := 0; i < NumSquares; i++ {
		row, col := SquareAt(i)
		if !IsDark(row, col) {
			t.Errorf("SquareAt(%d) = (%d,%d) is not a dark square", i, row, col)
		}
		if row != i/4 {
			t.Errorf("SquareAt(%d) row = %d, want %d", i, row, i/4)
		}
		if seen[[2]int{row, col}] {
			t.Errorf("SquareAt(%d) = (%d,%d) repeats an earlier square", i, row, col)
		}
		seen[[2]int{row, col}] = true
	}
}

func TestEqualKeys(t *testing.T) {
	board := startingBoard()
	k1 := MakePositionKey(board)
	k2 := MakePositionKey(board)
	if !EqualKeys(k1, k2) {
		t.Error("Expected equal keys for identical boards")
	}

	board[3][0] = 1
	board[2][1] = 0
	if EqualKeys(k1, MakePositionKey(board)) {
		t.Error("Expected different keys after a move")
	}
}
