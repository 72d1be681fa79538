// Package engine implements checkers rules, board search and game play.
package engine

import (
	"io"
	"log"
	"runtime"
)

// DefaultDepth is the search depth used when none is configured
const DefaultDepth = 4

var discardLogger = log.New(io.Discard, "", 0)

// Engine is the move search engine
type Engine struct {
	depth   int
	rules   Rules
	workers int

	// Analysis cache (nil when disabled)
	cache *AnalysisCache

	logger *log.Logger
}

// EngineOptions configures the engine
type EngineOptions struct {
	Depth     int         // Search depth in plies (0 = DefaultDepth)
	Rules     Rules       // Move generation rules (zero value = captures only)
	Workers   int         // Root-parallel workers (0 = GOMAXPROCS, 1 = sequential)
	CacheSize int         // Analysis cache size (0 = default, negative = disabled)
	Logger    *log.Logger // Search log (nil = silent)
}

// NewEngine creates a new search engine with the given options
func NewEngine(opts EngineOptions) *Engine {
	e := &Engine{
		depth:   opts.Depth,
		rules:   opts.Rules,
		workers: opts.Workers,
		logger:  opts.Logger,
	}
	if e.depth <= 0 {
		e.depth = DefaultDepth
	}
	if e.workers <= 0 {
		e.workers = runtime.GOMAXPROCS(0)
	}
	if e.logger == nil {
		e.logger = discardLogger
	}

	cacheSize := opts.CacheSize
	if cacheSize == 0 {
		cacheSize = DefaultCacheSize
	}
	if cacheSize > 0 {
		e.cache = NewAnalysisCache(uint32(cacheSize))
	}

	return e
}

// Depth returns the configured search depth
func (e *Engine) Depth() int {
	return e.depth
}

// Rules returns the move generation rules
func (e *Engine) Rules() Rules {
	return e.rules
}

// Workers returns the number of root-parallel workers
func (e *Engine) Workers() int {
	return e.workers
}

// Cache returns the analysis cache (may be nil if disabled)
func (e *Engine) Cache() *AnalysisCache {
	return e.cache
}

// SetCache sets the analysis cache (use nil to disable caching)
func (e *Engine) SetCache(cache *AnalysisCache) {
	e.cache = cache
}

// WithDepth returns an engine that shares rules, cache and logger but
// searches to a different depth
func (e *Engine) WithDepth(depth int) *Engine {
	c := *e
	if depth > 0 {
		c.depth = depth
	}
	return &c
}

// WithRules returns an engine that shares depth, cache and logger but
// generates moves under different rules
func (e *Engine) WithRules(rules Rules) *Engine {
	c := *e
	c.rules = rules
	return &c
}
