package engine

// Side is one of the two players
type Side int8

const (
	Red   Side = iota // Moves toward row 0, plays first
	White             // Moves toward row 7
)

// Opponent returns the other side
func (s Side) Opponent() Side {
	if s == Red {
		return White
	}
	return Red
}

// String returns "RED" or "WHITE"
func (s Side) String() string {
	if s == Red {
		return "RED"
	}
	return "WHITE"
}

// Forward returns the row step a man of this side moves along
func (s Side) Forward() int {
	if s == Red {
		return -1
	}
	return 1
}

// Piece is a single checker on the board.
// Value is the evaluation weight: +1 for a white man, +2 for a white king,
// and the negated values for red.
type Piece struct {
	Row   int
	Col   int
	Side  Side
	King  bool
	Value int
}

// NewPiece creates an uncrowned piece at (row, col)
func NewPiece(row, col int, side Side) *Piece {
	value := 1
	if side == Red {
		value = -1
	}
	return &Piece{Row: row, Col: col, Side: side, Value: value}
}

// MoveTo updates the piece's coordinates. Promotion is applied by the board.
func (p *Piece) MoveTo(row, col int) {
	p.Row = row
	p.Col = col
}

// Square returns the square the piece stands on
func (p *Piece) Square() Square {
	return Square{Row: p.Row, Col: p.Col}
}

// crown promotes the piece, doubling the magnitude of its value
func (p *Piece) crown() {
	p.King = true
	p.Value *= 2
}

// rowSteps returns the row directions the piece may move and capture in.
// Toward row 0 comes first.
func (p *Piece) rowSteps() []int {
	if p.King {
		return []int{-1, 1}
	}
	return []int{p.Side.Forward()}
}

// symbol returns the single-letter code used in diagrams and position IDs
func (p *Piece) symbol() byte {
	switch {
	case p.Side == White && p.King:
		return 'W'
	case p.Side == White:
		return 'w'
	case p.King:
		return 'R'
	default:
		return 'r'
	}
}
