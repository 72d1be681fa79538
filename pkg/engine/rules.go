package engine

// Rules selects the move generator variant.
// The zero value generates captures only.
type Rules struct {
	Slides           bool // Allow one-square diagonal moves into empty cells
	MandatoryCapture bool // No slides for a side that has a capture available
}

// DefaultRules returns the rules used by the front ends: captures and slides,
// capturing optional
func DefaultRules() Rules {
	return Rules{Slides: true}
}

// String returns a short description for logs
func (r Rules) String() string {
	switch {
	case !r.Slides:
		return "captures-only"
	case r.MandatoryCapture:
		return "mandatory-capture"
	default:
		return "standard"
	}
}

// PieceMoves pairs a piece with its legal moves
type PieceMoves struct {
	Piece *Piece
	Moves CaptureMap
}

// LegalMoves returns the legal moves of p under rules: captures first,
// then slides
func (b *Board) LegalMoves(p *Piece, rules Rules) CaptureMap {
	moves := b.LegalJumps(p)
	if !rules.Slides {
		return moves
	}
	if rules.MandatoryCapture && (len(moves) > 0 || b.HasCapture(p.Side)) {
		return moves
	}
	return append(moves, b.slides(p)...)
}

// HasCapture reports whether any piece of side can capture
func (b *Board) HasCapture(side Side) bool {
	for _, p := range b.PiecesOf(side) {
		if len(b.LegalJumps(p)) > 0 {
			return true
		}
	}
	return false
}

// SideMoves returns the legal moves of every piece of side that has one,
// pieces in row-major order
func (b *Board) SideMoves(side Side, rules Rules) []PieceMoves {
	pieces := b.PiecesOf(side)
	all := make([]PieceMoves, 0, len(pieces))
	anyCapture := false
	for _, p := range pieces {
		jumps := b.LegalJumps(p)
		if len(jumps) > 0 {
			anyCapture = true
		}
		all = append(all, PieceMoves{Piece: p, Moves: jumps})
	}

	if rules.Slides && !(rules.MandatoryCapture && anyCapture) {
		for i := range all {
			all[i].Moves = append(all[i].Moves, b.slides(all[i].Piece)...)
		}
	}

	out := all[:0]
	for _, pm := range all {
		if len(pm.Moves) > 0 {
			out = append(out, pm)
		}
	}
	return out
}

// SideHasMoves reports whether side has at least one legal move
func (b *Board) SideHasMoves(side Side, rules Rules) bool {
	for _, p := range b.PiecesOf(side) {
		if len(b.LegalJumps(p)) > 0 {
			return true
		}
		if rules.Slides && len(b.slides(p)) > 0 {
			return true
		}
	}
	return false
}

// Successors returns one board per legal move of side, in generation order.
// The receiver is left unchanged.
func (b *Board) Successors(side Side, rules Rules) []*Board {
	var children []*Board
	for _, pm := range b.SideMoves(side, rules) {
		for _, j := range pm.Moves {
			child := b.Clone()
			child.Play(pm.Piece.Square(), j)
			children = append(children, child)
		}
	}
	return children
}
