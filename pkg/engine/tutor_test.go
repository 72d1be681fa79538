package engine

import (
	"errors"
	"testing"
)

func TestClassifySkill(t *testing.T) {
	tests := []struct {
		loss int
		want SkillType
	}{
		{-1, SkillNone},
		{0, SkillNone},
		{1, SkillBad},
		{2, SkillVeryBad},
		{4, SkillVeryBad},
	}

	for _, tc := range tests {
		got := ClassifySkill(tc.loss)
		if got != tc.want {
			t.Errorf("ClassifySkill(%d) = %v, want %v", tc.loss, got, tc.want)
		}
	}
}

func TestSkillNotation(t *testing.T) {
	if SkillVeryBad.Abbr() != "??" || SkillBad.Abbr() != "?" || SkillNone.Abbr() != "" {
		t.Error("unexpected skill abbreviations")
	}
	if SkillVeryBad.String() != "Very Bad" {
		t.Errorf("String() = %q", SkillVeryBad.String())
	}
}

func TestReviewMove(t *testing.T) {
	e := NewEngine(EngineOptions{Rules: DefaultRules(), Workers: 1, CacheSize: 1024})
	b := captureOrSlide()
	before := b.ID()

	review, err := e.ReviewMove(b, Red, Square{5, 2}, Square{4, 1}, 1)
	if err != nil {
		t.Fatalf("ReviewMove error: %v", err)
	}
	if review.Loss != 1 || review.Skill != SkillBad {
		t.Errorf("slide: loss %d skill %v, want 1 and Bad", review.Loss, review.Skill)
	}
	if review.Best.To != (Square{3, 4}) {
		t.Errorf("best = %v, want the capture to (3,4)", review.Best.To)
	}
	if review.IsForced {
		t.Error("two legal moves reported as forced")
	}
	if len(review.TopMoves) != 2 {
		t.Errorf("top moves = %d, want 2", len(review.TopMoves))
	}
	if b.ID() != before {
		t.Error("ReviewMove modified the board")
	}

	review, err = e.ReviewMove(b, Red, Square{5, 2}, Square{3, 4}, 1)
	if err != nil {
		t.Fatalf("ReviewMove error: %v", err)
	}
	if review.Loss != 0 || review.Skill != SkillNone {
		t.Errorf("capture: loss %d skill %v, want 0 and None", review.Loss, review.Skill)
	}
}

func TestReviewMoveIllegal(t *testing.T) {
	e := NewEngine(EngineOptions{Rules: DefaultRules(), Workers: 1, CacheSize: -1})

	_, err := e.ReviewMove(captureOrSlide(), Red, Square{5, 2}, Square{4, 3}, 1)
	if !errors.Is(err, ErrIllegalMove) {
		t.Errorf("occupied destination: err = %v, want ErrIllegalMove", err)
	}

	b := EmptyBoard()
	b.Place(Red, 5, 2, false)
	_, err = e.ReviewMove(b, White, Square{5, 2}, Square{4, 1}, 1)
	if !errors.Is(err, ErrIllegalMove) {
		t.Errorf("side without moves: err = %v, want ErrIllegalMove", err)
	}
}
