package engine

// Jump is one legal destination of a piece together with the pieces
// taken on the way, first jumped first. Captured is empty for a slide.
type Jump struct {
	To       Square
	Captured []*Piece
}

// IsCapture reports whether the move takes at least one piece
func (j Jump) IsCapture() bool {
	return len(j.Captured) > 0
}

// CaptureMap is the ordered set of destinations reachable by one piece.
// Order is discovery order, which is also the order search explores.
type CaptureMap []Jump

// Lookup returns the move ending on sq
func (m CaptureMap) Lookup(sq Square) (Jump, bool) {
	for _, j := range m {
		if j.To == sq {
			return j, true
		}
	}
	return Jump{}, false
}

// Destinations returns the destination squares in order
func (m CaptureMap) Destinations() []Square {
	squares := make([]Square, len(m))
	for i, j := range m {
		squares[i] = j.To
	}
	return squares
}

// record adds a destination, or replaces an existing one in place when the
// new chain captures strictly more pieces
func (m *CaptureMap) record(to Square, captured []*Piece) {
	for i := range *m {
		if (*m)[i].To == to {
			if len(captured) > len((*m)[i].Captured) {
				(*m)[i].Captured = captured
			}
			return
		}
	}
	*m = append(*m, Jump{To: to, Captured: captured})
}

// colSteps is the diagonal order: left before right
var colSteps = [2]int{-1, 1}

// LegalJumps returns every capture destination of p, including each stop
// of a multi-jump chain. Men capture forward only, kings both ways.
func (b *Board) LegalJumps(p *Piece) CaptureMap {
	if p == nil || b.Occupant(p.Row, p.Col) != p {
		panic("engine: legal jumps for a piece not on this board")
	}

	var jumps CaptureMap
	for _, dr := range p.rowSteps() {
		for _, dc := range colSteps {
			b.scanJumps(p.Side, p.Row, p.Col, dr, dc, nil, &jumps)
		}
	}
	return jumps
}

// scanJumps tries a single hop from (row, col) along (dr, dc). On success it
// records the landing and continues from there in the same row direction.
// Each hop gets its own copy of the path.
func (b *Board) scanJumps(side Side, row, col, dr, dc int, path []*Piece, jumps *CaptureMap) {
	toRow, toCol := row+2*dr, col+2*dc
	if !onBoard(toRow, toCol) {
		return
	}
	victim := b.cells[row+dr][col+dc]
	if victim == nil || victim.Side == side || b.cells[toRow][toCol] != nil {
		return
	}

	captured := make([]*Piece, len(path)+1)
	copy(captured, path)
	captured[len(path)] = victim
	jumps.record(Square{toRow, toCol}, captured)

	for _, next := range colSteps {
		b.scanJumps(side, toRow, toCol, dr, next, captured, jumps)
	}
}

// slides returns the one-square diagonal moves of p into empty cells
func (b *Board) slides(p *Piece) CaptureMap {
	var moves CaptureMap
	for _, dr := range p.rowSteps() {
		for _, dc := range colSteps {
			row, col := p.Row+dr, p.Col+dc
			if onBoard(row, col) && b.cells[row][col] == nil {
				moves = append(moves, Jump{To: Square{row, col}})
			}
		}
	}
	return moves
}
