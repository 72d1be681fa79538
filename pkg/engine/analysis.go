package engine

import (
	"errors"
	"fmt"
	"sort"
)

// MaxDepth is the deepest search accepted by the analysis functions
const MaxDepth = 32

// ErrInvalidDepth is returned for a depth outside 1..MaxDepth
var ErrInvalidDepth = errors.New("invalid search depth")

// RankedMove is a legal move together with its search score
type RankedMove struct {
	From     Square
	To       Square
	Captured []Square
	Score    int    // Score of the resulting position, positive favours WHITE
	Position string // Position ID after the move
}

// AnalysisResult contains the result of move analysis
type AnalysisResult struct {
	Side     Side
	Depth    int
	Moves    []RankedMove // All moves, best first for Side
	NumMoves int
}

// Best returns the top ranked move; ok is false when there are no moves
func (r *AnalysisResult) Best() (RankedMove, bool) {
	if len(r.Moves) == 0 {
		return RankedMove{}, false
	}
	return r.Moves[0], true
}

func checkDepth(depth int) error {
	if depth < 1 || depth > MaxDepth {
		return fmt.Errorf("%w: %d (want 1-%d)", ErrInvalidDepth, depth, MaxDepth)
	}
	return nil
}

// ScorePosition returns the alpha-beta score of b with sideToMove to play,
// consulting the analysis cache
func (e *Engine) ScorePosition(b *Board, sideToMove Side, depth int) int {
	if e.cache == nil {
		score, _ := e.Search(b, depth, sideToMove == White, -ScoreInf, ScoreInf)
		return score
	}

	key := b.Key()
	ctx := MakeSearchContext(depth, sideToMove, e.rules)
	if score, slot := e.cache.Lookup(key, ctx); slot == CacheHit {
		return score
	} else {
		score, _ = e.Search(b, depth, sideToMove == White, -ScoreInf, ScoreInf)
		e.cache.Add(key, ctx, score, slot)
		return score
	}
}

// AnalyzePosition scores every legal move of side, searching depth-1 plies
// below each resulting position, and ranks them best first
func (e *Engine) AnalyzePosition(b *Board, side Side, depth int) (*AnalysisResult, error) {
	if err := checkDepth(depth); err != nil {
		return nil, err
	}

	result := &AnalysisResult{Side: side, Depth: depth}
	for _, pm := range b.SideMoves(side, e.rules) {
		from := pm.Piece.Square()
		for _, j := range pm.Moves {
			child := b.Clone()
			child.Play(from, j)

			captured := make([]Square, len(j.Captured))
			for i, p := range j.Captured {
				captured[i] = p.Square()
			}

			result.Moves = append(result.Moves, RankedMove{
				From:     from,
				To:       j.To,
				Captured: captured,
				Score:    e.ScorePosition(child, side.Opponent(), depth-1),
				Position: child.ID(),
			})
		}
	}
	result.NumMoves = len(result.Moves)

	// Best first for the side to move; ties keep generation order
	sort.SliceStable(result.Moves, func(i, j int) bool {
		if side == White {
			return result.Moves[i].Score > result.Moves[j].Score
		}
		return result.Moves[i].Score < result.Moves[j].Score
	})

	return result, nil
}

// RankMoves returns every legal move of side ranked best first
func (e *Engine) RankMoves(b *Board, side Side, depth int) ([]RankedMove, error) {
	analysis, err := e.AnalyzePosition(b, side, depth)
	if err != nil {
		return nil, err
	}
	return analysis.Moves, nil
}
