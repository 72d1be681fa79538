package engine

import (
	"fmt"
	"strings"

	"github.com/yourusername/checkers/internal/positionid"
)

// Board is the 8x8 grid of optional pieces.
// A piece's stored coordinates always equal the cell holding it.
type Board struct {
	cells [Size][Size]*Piece
}

// EmptyBoard returns a board with no pieces
func EmptyBoard() *Board {
	return &Board{}
}

// NewBoard returns the starting position: white men on rows 0-2,
// red men on rows 5-7, dark squares only
func NewBoard() *Board {
	b := &Board{}
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if !positionid.IsDark(row, col) {
				continue
			}
			switch {
			case row < 3:
				b.cells[row][col] = NewPiece(row, col, White)
			case row > 4:
				b.cells[row][col] = NewPiece(row, col, Red)
			}
		}
	}
	return b
}

// Place puts a new piece on an empty dark square and returns it
func (b *Board) Place(side Side, row, col int, king bool) *Piece {
	mustOnBoard(row, col)
	if !positionid.IsDark(row, col) {
		panic(fmt.Sprintf("engine: place on light square %v", Square{row, col}))
	}
	if b.cells[row][col] != nil {
		panic(fmt.Sprintf("engine: place on occupied square %v", Square{row, col}))
	}
	p := NewPiece(row, col, side)
	if king {
		p.crown()
	}
	b.cells[row][col] = p
	return p
}

// Occupant returns the piece at (row, col), or nil if the cell is empty
func (b *Board) Occupant(row, col int) *Piece {
	mustOnBoard(row, col)
	return b.cells[row][col]
}

// At returns the piece on a square, or nil
func (b *Board) At(sq Square) *Piece {
	return b.Occupant(sq.Row, sq.Col)
}

// ApplyJump moves p to (toRow, toCol), crowning it when it reaches the
// far row. Captured pieces are removed separately with RemovePieces.
func (b *Board) ApplyJump(p *Piece, toRow, toCol int) {
	mustOnBoard(toRow, toCol)
	if p == nil || b.cells[p.Row][p.Col] != p {
		panic("engine: apply jump for a piece not on this board")
	}
	if b.cells[toRow][toCol] != nil {
		panic(fmt.Sprintf("engine: jump destination %v is occupied", Square{toRow, toCol}))
	}

	b.cells[p.Row][p.Col], b.cells[toRow][toCol] = nil, p
	p.MoveTo(toRow, toCol)

	if !p.King && (toRow == 0 || toRow == Size-1) {
		p.crown()
	}
}

// RemovePieces clears the cell at each piece's stored coordinates
func (b *Board) RemovePieces(pieces []*Piece) {
	for _, p := range pieces {
		mustOnBoard(p.Row, p.Col)
		occupant := b.cells[p.Row][p.Col]
		if occupant == nil || occupant.Side != p.Side {
			panic(fmt.Sprintf("engine: no %s piece to remove at %v", p.Side, p.Square()))
		}
		b.cells[p.Row][p.Col] = nil
	}
}

// Play applies a legal move of the piece on from: the jump itself and the
// removal of everything it captured
func (b *Board) Play(from Square, j Jump) {
	p := b.At(from)
	b.ApplyJump(p, j.To.Row, j.To.Col)
	b.RemovePieces(j.Captured)
}

// PiecesOf returns the pieces of a side in row-major order
func (b *Board) PiecesOf(side Side) []*Piece {
	pieces := make([]*Piece, 0, 12)
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if p := b.cells[row][col]; p != nil && p.Side == side {
				pieces = append(pieces, p)
			}
		}
	}
	return pieces
}

// Count returns the number of pieces a side has on the board
func (b *Board) Count(side Side) int {
	n := 0
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if p := b.cells[row][col]; p != nil && p.Side == side {
				n++
			}
		}
	}
	return n
}

// Winner returns RED when WHITE has no pieces left and WHITE when RED has
// none. ok is false while both sides have pieces.
func (b *Board) Winner() (winner Side, ok bool) {
	white, red := b.Count(White), b.Count(Red)
	switch {
	case white == 0 && red > 0:
		return Red, true
	case red == 0 && white > 0:
		return White, true
	}
	return Red, false
}

// Evaluate returns the material balance: the sum of all piece values,
// positive when WHITE is ahead
func (b *Board) Evaluate() int {
	score := 0
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if p := b.cells[row][col]; p != nil {
				score += p.Value
			}
		}
	}
	return score
}

// Clone returns a deep copy; the copy's pieces are new values
func (b *Board) Clone() *Board {
	c := &Board{}
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if p := b.cells[row][col]; p != nil {
				cp := *p
				c.cells[row][col] = &cp
			}
		}
	}
	return c
}

// Cells returns the signed value grid of the position
func (b *Board) Cells() positionid.Board {
	var grid positionid.Board
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if p := b.cells[row][col]; p != nil {
				grid[row][col] = int8(p.Value)
			}
		}
	}
	return grid
}

// Key returns the compact position key
func (b *Board) Key() positionid.PositionKey {
	return positionid.MakePositionKey(b.Cells())
}

// ID returns the position ID string
func (b *Board) ID() string {
	return positionid.PositionID(b.Cells())
}

// ParseBoard decodes a position ID
func ParseBoard(id string) (*Board, error) {
	grid, err := positionid.BoardFromPositionID(id)
	if err != nil {
		return nil, err
	}
	return boardFromCells(grid), nil
}

func boardFromCells(grid positionid.Board) *Board {
	b := &Board{}
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			switch v := grid[row][col]; {
			case v > 0:
				b.Place(White, row, col, v > 1)
			case v < 0:
				b.Place(Red, row, col, v < -1)
			}
		}
	}
	return b
}

// String renders the board as a text diagram, row 1 at the top
func (b *Board) String() string {
	var sb strings.Builder
	sb.WriteString("   ")
	for col := 0; col < Size; col++ {
		fmt.Fprintf(&sb, " %c ", 'A'+col)
	}
	sb.WriteByte('\n')
	for row := 0; row < Size; row++ {
		fmt.Fprintf(&sb, "%d  ", row+1)
		for col := 0; col < Size; col++ {
			if p := b.cells[row][col]; p != nil {
				fmt.Fprintf(&sb, "[%c]", p.symbol())
			} else {
				sb.WriteString("[ ]")
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func mustOnBoard(row, col int) {
	if !onBoard(row, col) {
		panic(fmt.Sprintf("engine: square (%d,%d) is off the board", row, col))
	}
}
