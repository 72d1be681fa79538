package engine

import (
	"context"
	"testing"
	"time"
)

func TestMatchDefaultOptions(t *testing.T) {
	opts := DefaultMatchOptions()
	if opts.Games != 10 {
		t.Errorf("Default Games = %d, want 10", opts.Games)
	}
	if opts.MaxPlies != DefaultMatchMaxPlies {
		t.Errorf("Default MaxPlies = %d, want %d", opts.MaxPlies, DefaultMatchMaxPlies)
	}
}

func TestPlayMatch(t *testing.T) {
	e := NewEngine(EngineOptions{Rules: DefaultRules(), CacheSize: 1 << 12})
	opts := MatchOptions{
		Games:       4,
		WhiteDepth:  1,
		RedDepth:    2,
		RandomPlies: 2,
		Seed:        12345,
		Workers:     2,
		MaxPlies:    60,
	}

	var updates []MatchProgress
	start := time.Now()
	result, err := e.PlayMatch(context.Background(), opts, func(p MatchProgress) {
		updates = append(updates, p)
	})
	if err != nil {
		t.Fatalf("PlayMatch failed: %v", err)
	}
	t.Logf("Match completed in %v: white=%d red=%d draws=%d material=%.2f ± %.2f",
		time.Since(start), result.WhiteWins, result.RedWins, result.Draws,
		result.MeanMaterial, result.MaterialCI)

	if result.Games != opts.Games {
		t.Errorf("Games = %d, want %d", result.Games, opts.Games)
	}
	if result.WhiteWins+result.RedWins+result.Draws != opts.Games {
		t.Errorf("outcomes do not add up: %+v", result)
	}
	if len(updates) != opts.Games {
		t.Fatalf("progress updates = %d, want %d", len(updates), opts.Games)
	}
	if last := updates[len(updates)-1]; last.GamesCompleted != opts.Games || last.Percent != 100 {
		t.Errorf("last progress = %+v", last)
	}

	for i, rec := range result.Records {
		if rec.Index != i {
			t.Errorf("record %d has index %d", i, rec.Index)
		}
		if !rec.Status.Over() {
			t.Errorf("record %d did not finish: %+v", i, rec.Status)
		}
		if rec.Plies < opts.RandomPlies || rec.Plies > opts.MaxPlies {
			t.Errorf("record %d plies = %d", i, rec.Plies)
		}
	}
	if result.MeanPlies <= 0 {
		t.Errorf("MeanPlies = %f", result.MeanPlies)
	}
	if result.MaterialStdDev < 0 || result.MaterialCI < 0 {
		t.Errorf("negative spread: sd=%f ci=%f", result.MaterialStdDev, result.MaterialCI)
	}
}

func TestPlayMatchDeterministic(t *testing.T) {
	e := NewEngine(EngineOptions{Rules: DefaultRules(), CacheSize: -1})
	opts := MatchOptions{Games: 2, WhiteDepth: 1, RedDepth: 1, RandomPlies: 4, Seed: 99, Workers: 2, MaxPlies: 40}

	a, err := e.PlayMatch(context.Background(), opts, nil)
	if err != nil {
		t.Fatalf("PlayMatch failed: %v", err)
	}
	b, err := e.PlayMatch(context.Background(), opts, nil)
	if err != nil {
		t.Fatalf("PlayMatch failed: %v", err)
	}
	for i := range a.Records {
		if a.Records[i] != b.Records[i] {
			t.Errorf("game %d differs between runs: %+v vs %+v", i, a.Records[i], b.Records[i])
		}
	}
}

func TestPlayMatchCapturesOnly(t *testing.T) {
	e := NewEngine(EngineOptions{CacheSize: -1})
	if _, err := e.PlayMatch(context.Background(), MatchOptions{Games: 1}, nil); err == nil {
		t.Error("expected an error for captures-only rules")
	}
}

func TestPlayMatchCancelled(t *testing.T) {
	e := NewEngine(EngineOptions{Rules: DefaultRules(), CacheSize: -1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := e.PlayMatch(ctx, MatchOptions{Games: 3, Seed: 1, Workers: 1}, nil); err == nil {
		t.Error("expected an error for a cancelled context")
	}
}
