package engine

import (
	"testing"
)

func TestNewAnalysisCacheSize(t *testing.T) {
	tests := []struct {
		requested uint32
		want      uint32
	}{
		{0, 2},
		{3, 4},
		{1000, 1024},
		{1 << 16, 1 << 16},
	}
	for _, tc := range tests {
		if got := NewAnalysisCache(tc.requested).Stats().Size; got != tc.want {
			t.Errorf("NewAnalysisCache(%d) size = %d, want %d", tc.requested, got, tc.want)
		}
	}
}

func TestAnalysisCacheLookupAdd(t *testing.T) {
	cache := NewAnalysisCache(1024)
	key := NewBoard().Key()
	ctx := MakeSearchContext(3, Red, DefaultRules())

	_, slot := cache.Lookup(key, ctx)
	if slot == CacheHit {
		t.Fatal("empty cache reported a hit")
	}
	cache.Add(key, ctx, -5, slot)

	score, slot := cache.Lookup(key, ctx)
	if slot != CacheHit || score != -5 {
		t.Errorf("Lookup after Add = (%d, %d), want (-5, CacheHit)", score, slot)
	}

	// Same position, different context
	if _, slot := cache.Lookup(key, MakeSearchContext(3, White, DefaultRules())); slot == CacheHit {
		t.Error("hit for a different side to move")
	}
	if _, slot := cache.Lookup(key, MakeSearchContext(3, Red, Rules{})); slot == CacheHit {
		t.Error("hit for different rules")
	}

	stats := cache.Stats()
	if stats.Lookups != 4 || stats.Hits != 1 || stats.Adds != 1 {
		t.Errorf("stats = %+v, want 4 lookups, 1 hit, 1 add", stats)
	}
	if stats.HitRate != 25 {
		t.Errorf("hit rate = %.1f, want 25", stats.HitRate)
	}

	cache.Flush()
	if _, slot := cache.Lookup(key, ctx); slot == CacheHit {
		t.Error("hit after Flush")
	}
	if stats := cache.Stats(); stats.Lookups != 1 || stats.Hits != 0 {
		t.Errorf("stats after Flush = %+v", stats)
	}
}

func TestAnalysisCacheSecondarySlot(t *testing.T) {
	cache := NewAnalysisCache(2) // a single node: every key shares the slot
	ctx := MakeSearchContext(1, Red, DefaultRules())

	first := NewBoard().Key()
	second := EmptyBoard().Key()

	_, slot := cache.Lookup(first, ctx)
	cache.Add(first, ctx, 1, slot)
	_, slot = cache.Lookup(second, ctx)
	cache.Add(second, ctx, 2, slot)

	if score, slot := cache.Lookup(first, ctx); slot != CacheHit || score != 1 {
		t.Errorf("evicted entry not found in the secondary slot: (%d, %d)", score, slot)
	}
	if score, slot := cache.Lookup(second, ctx); slot != CacheHit || score != 2 {
		t.Errorf("primary entry = (%d, %d)", score, slot)
	}
}

func TestMakeSearchContext(t *testing.T) {
	seen := make(map[int32]bool)
	for depth := 0; depth <= 4; depth++ {
		for _, side := range []Side{Red, White} {
			for _, rules := range []Rules{{}, DefaultRules(), {Slides: true, MandatoryCapture: true}} {
				ctx := MakeSearchContext(depth, side, rules)
				if seen[ctx] {
					t.Errorf("duplicate context %d for depth=%d side=%s rules=%s", ctx, depth, side, rules)
				}
				seen[ctx] = true
			}
		}
	}
}

func TestScorePositionUsesCache(t *testing.T) {
	e := NewEngine(EngineOptions{Rules: DefaultRules(), Workers: 1, CacheSize: 1024})
	b := NewBoard()

	first := e.ScorePosition(b, Red, 3)
	second := e.ScorePosition(b, Red, 3)
	if first != second {
		t.Errorf("cached score %d differs from searched score %d", second, first)
	}
	want, _ := e.Search(b, 3, false, -ScoreInf, ScoreInf)
	if first != want {
		t.Errorf("ScorePosition = %d, want %d", first, want)
	}

	stats := e.Cache().Stats()
	if stats.Hits != 1 || stats.Adds != 1 {
		t.Errorf("stats = %+v, want 1 hit and 1 add", stats)
	}
}

func TestSetCacheDisables(t *testing.T) {
	e := NewEngine(EngineOptions{Rules: DefaultRules(), Workers: 1, CacheSize: 64})
	e.SetCache(nil)
	if e.Cache() != nil {
		t.Fatal("cache still set")
	}

	// No capture is reachable within two plies of the opening
	if got := e.ScorePosition(NewBoard(), Red, 2); got != 0 {
		t.Errorf("ScorePosition without cache = %d, want 0", got)
	}
}
