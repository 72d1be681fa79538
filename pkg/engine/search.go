package engine

import (
	"context"
	"math"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// ScoreInf bounds every reachable score; use -ScoreInf, ScoreInf as the
// initial alpha-beta window
const ScoreInf = math.MaxInt32

// SearchResult is the outcome of a root search
type SearchResult struct {
	Side    Side          // Side that moved
	Score   int           // Minimax score, positive favours WHITE
	Board   *Board        // Position after the chosen move (input board if none)
	Moved   bool          // False when the side had no move to make
	Depth   int           // Search depth in plies
	Nodes   int64         // Positions visited
	Elapsed time.Duration // Wall time
}

// cancelPollInterval is how many nodes a search visits between checks of
// its context
const cancelPollInterval = 1024

// searcher counts nodes for one root search; safe for concurrent use.
// Once ctx is done every pending node returns at once and the scores it
// produced are garbage; callers must check interrupted.
type searcher struct {
	ctx     context.Context
	rules   Rules
	nodes   int64
	stopped atomic.Bool
}

func (e *Engine) newSearcher(ctx context.Context) *searcher {
	return &searcher{ctx: ctx, rules: e.rules}
}

// visit counts a node and reports whether the search must unwind
func (s *searcher) visit() bool {
	n := atomic.AddInt64(&s.nodes, 1)
	if n%cancelPollInterval == 0 && s.ctx.Err() != nil {
		s.stopped.Store(true)
	}
	return s.stopped.Load()
}

// interrupted returns the context error if the search was cut short
func (s *searcher) interrupted() error {
	if s.stopped.Load() {
		return s.ctx.Err()
	}
	return nil
}

// Search runs minimax with alpha-beta pruning. WHITE maximizes.
// It returns the score and the chosen child position; at depth 0, on a
// decided position, or when the side has no move it returns the static
// evaluation and b itself.
func (e *Engine) Search(b *Board, depth int, maximizing bool, alpha, beta int) (int, *Board) {
	return e.newSearcher(context.Background()).alphaBeta(b, depth, maximizing, alpha, beta)
}

// Minimax runs the same search without pruning
func (e *Engine) Minimax(b *Board, depth int, maximizing bool) (int, *Board) {
	return e.newSearcher(context.Background()).minimax(b, depth, maximizing)
}

// AllConfigs returns every position reachable in one move by WHITE
// (forWhite) or RED, pieces in row-major order
func (e *Engine) AllConfigs(b *Board, forWhite bool) []*Board {
	return b.Successors(sideFor(forWhite), e.rules)
}

func sideFor(maximizing bool) Side {
	if maximizing {
		return White
	}
	return Red
}

func (s *searcher) alphaBeta(b *Board, depth int, maximizing bool, alpha, beta int) (int, *Board) {
	if s.visit() {
		return 0, b
	}

	if depth <= 0 {
		return b.Evaluate(), b
	}
	if _, over := b.Winner(); over {
		return b.Evaluate(), b
	}

	children := b.Successors(sideFor(maximizing), s.rules)
	if len(children) == 0 {
		return b.Evaluate(), b
	}

	var best *Board
	if maximizing {
		bestScore := math.MinInt
		for _, child := range children {
			score, _ := s.alphaBeta(child, depth-1, false, alpha, beta)
			if score > bestScore {
				bestScore, best = score, child
			}
			alpha = max(alpha, score)
			if beta <= alpha {
				break
			}
		}
		return bestScore, best
	}

	bestScore := math.MaxInt
	for _, child := range children {
		score, _ := s.alphaBeta(child, depth-1, true, alpha, beta)
		if score < bestScore {
			bestScore, best = score, child
		}
		beta = min(beta, score)
		if beta <= alpha {
			break
		}
	}
	return bestScore, best
}

func (s *searcher) minimax(b *Board, depth int, maximizing bool) (int, *Board) {
	atomic.AddInt64(&s.nodes, 1)

	if depth <= 0 {
		return b.Evaluate(), b
	}
	if _, over := b.Winner(); over {
		return b.Evaluate(), b
	}

	children := b.Successors(sideFor(maximizing), s.rules)
	if len(children) == 0 {
		return b.Evaluate(), b
	}

	var best *Board
	bestScore := math.MinInt
	if !maximizing {
		bestScore = math.MaxInt
	}
	for _, child := range children {
		score, _ := s.minimax(child, depth-1, !maximizing)
		if (maximizing && score > bestScore) || (!maximizing && score < bestScore) {
			bestScore, best = score, child
		}
	}
	return bestScore, best
}

// SearchParallel searches the root children concurrently, each with a full
// window on its own board. The score and the chosen child match Search.
func (e *Engine) SearchParallel(ctx context.Context, b *Board, depth int, maximizing bool) (int, *Board, error) {
	return e.newSearcher(ctx).parallel(ctx, b, depth, maximizing, e.workers)
}

func (s *searcher) parallel(ctx context.Context, b *Board, depth int, maximizing bool, workers int) (int, *Board, error) {
	atomic.AddInt64(&s.nodes, 1)

	if depth <= 0 {
		return b.Evaluate(), b, nil
	}
	if _, over := b.Winner(); over {
		return b.Evaluate(), b, nil
	}

	children := b.Successors(sideFor(maximizing), s.rules)
	if len(children) == 0 {
		return b.Evaluate(), b, nil
	}

	scores := make([]int, len(children))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i, child := range children {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			scores[i], _ = s.alphaBeta(child, depth-1, !maximizing, -ScoreInf, ScoreInf)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, nil, err
	}
	if err := s.interrupted(); err != nil {
		return 0, nil, err
	}

	best := 0
	for i, score := range scores {
		if (maximizing && score > scores[best]) || (!maximizing && score < scores[best]) {
			best = i
		}
	}
	return scores[best], children[best], nil
}

// BestMove searches for side's move at the engine depth
func (e *Engine) BestMove(ctx context.Context, b *Board, side Side) (*SearchResult, error) {
	return e.bestMove(ctx, b, side, e.depth)
}

func (e *Engine) bestMove(ctx context.Context, b *Board, side Side, depth int) (*SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	s := e.newSearcher(ctx)
	maximizing := side == White

	var score int
	var next *Board
	if e.workers > 1 {
		var err error
		score, next, err = s.parallel(ctx, b, depth, maximizing, e.workers)
		if err != nil {
			return nil, err
		}
	} else {
		score, next = s.alphaBeta(b, depth, maximizing, -ScoreInf, ScoreInf)
		if err := s.interrupted(); err != nil {
			return nil, err
		}
	}

	res := &SearchResult{
		Side:    side,
		Score:   score,
		Board:   next,
		Moved:   next != b,
		Depth:   depth,
		Nodes:   atomic.LoadInt64(&s.nodes),
		Elapsed: time.Since(start),
	}
	e.logger.Printf("search side=%s depth=%d rules=%s score=%d nodes=%d elapsed=%v",
		side, depth, e.rules, res.Score, res.Nodes, res.Elapsed)
	return res, nil
}
