package engine

import (
	"fmt"
)

// SkillType represents the skill rating of a move.
type SkillType int

const (
	SkillVeryBad  SkillType = iota // Blunder: loses two or more material points
	SkillBad                       // Error: loses one material point
	SkillNone                      // Good or best move
)

// String returns the display name of the skill type.
func (s SkillType) String() string {
	return [...]string{"Very Bad", "Bad", "None"}[s]
}

// Abbr returns the abbreviated notation (??, ?).
func (s SkillType) Abbr() string {
	return [...]string{"??", "?", ""}[s]
}

// SkillThresholds are the score loss thresholds for skill ratings, in
// material points (a man is worth 1, a king 2).
var SkillThresholds = [2]int{
	2, // blunder
	1, // error
}

// ClassifySkill returns the skill rating based on score loss.
// loss is positive for moves worse than best.
func ClassifySkill(loss int) SkillType {
	if loss >= SkillThresholds[0] {
		return SkillVeryBad
	} else if loss >= SkillThresholds[1] {
		return SkillBad
	}
	return SkillNone
}

// MoveReview is the tutor's verdict on a single played move.
type MoveReview struct {
	Played   RankedMove   // The move that was played
	Best     RankedMove   // The best move according to analysis
	Loss     int          // Score lost against the best move, for the mover
	Skill    SkillType    // Skill rating
	IsForced bool         // True if only one legal move
	TopMoves []RankedMove // Top moves for context (up to 3)
}

// ReviewMove rates side's move from->to in position b against the best
// move found at depth.
func (e *Engine) ReviewMove(b *Board, side Side, from, to Square, depth int) (*MoveReview, error) {
	analysis, err := e.AnalyzePosition(b, side, depth)
	if err != nil {
		return nil, fmt.Errorf("analyzing position: %w", err)
	}

	best, ok := analysis.Best()
	if !ok {
		return nil, fmt.Errorf("%w: %s has no legal move", ErrIllegalMove, side)
	}

	review := &MoveReview{
		Best:     best,
		IsForced: analysis.NumMoves == 1,
		TopMoves: analysis.Moves[:min(3, len(analysis.Moves))],
	}

	found := false
	for _, m := range analysis.Moves {
		if m.From == from && m.To == to {
			review.Played = m
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: %s-%s", ErrIllegalMove, from, to)
	}

	review.Loss = best.Score - review.Played.Score
	if side == Red {
		review.Loss = -review.Loss
	}
	review.Skill = ClassifySkill(review.Loss)

	return review, nil
}
