package api

import (
	"context"
	"sync/atomic"
	"time"
)

// Lane selects which semaphore a request waits on.
type Lane int

const (
	Fast Lane = iota // Evaluate, jumps, human moves, game state
	Slow             // Engine search, analysis, self-play
)

// String returns the lane name.
func (l Lane) String() string {
	if l == Slow {
		return "slow"
	}
	return "fast"
}

// lane is a counting semaphore with statistics.
type lane struct {
	sem    chan struct{}
	queued int64 // Requests waiting for a slot
	active int64 // Requests holding a slot
	total  int64 // Requests completed
}

// WorkerPool bounds concurrent request processing. Cheap board operations
// and engine searches have separate limits so a burst of searches cannot
// starve the cheap requests.
type WorkerPool struct {
	lanes        [2]lane
	queueTimeout time.Duration
}

// PoolConfig configures the worker pool.
type PoolConfig struct {
	MaxFastWorkers int           // Max concurrent fast operations (default: 100)
	MaxSlowWorkers int           // Max concurrent searches (default: 4)
	QueueTimeout   time.Duration // Max wait for a slot, negative = no limit (default: 30s)
}

// DefaultPoolConfig returns a PoolConfig with sensible defaults.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MaxFastWorkers: 100,
		MaxSlowWorkers: 4,
		QueueTimeout:   30 * time.Second,
	}
}

// NewWorkerPool creates a new worker pool with the given configuration.
func NewWorkerPool(config PoolConfig) *WorkerPool {
	def := DefaultPoolConfig()
	if config.MaxFastWorkers <= 0 {
		config.MaxFastWorkers = def.MaxFastWorkers
	}
	if config.MaxSlowWorkers <= 0 {
		config.MaxSlowWorkers = def.MaxSlowWorkers
	}
	if config.QueueTimeout == 0 {
		config.QueueTimeout = def.QueueTimeout
	}

	p := &WorkerPool{queueTimeout: config.QueueTimeout}
	p.lanes[Fast].sem = make(chan struct{}, config.MaxFastWorkers)
	p.lanes[Slow].sem = make(chan struct{}, config.MaxSlowWorkers)
	return p
}

// Acquire waits for a slot in the lane.
// Returns an error if the context is cancelled while waiting.
func (p *WorkerPool) Acquire(ctx context.Context, l Lane) error {
	ln := &p.lanes[l]
	atomic.AddInt64(&ln.queued, 1)
	defer atomic.AddInt64(&ln.queued, -1)

	select {
	case ln.sem <- struct{}{}:
		atomic.AddInt64(&ln.active, 1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryAcquire takes a slot without blocking.
// Returns true if acquired, false if the lane is full.
func (p *WorkerPool) TryAcquire(l Lane) bool {
	ln := &p.lanes[l]
	select {
	case ln.sem <- struct{}{}:
		atomic.AddInt64(&ln.active, 1)
		return true
	default:
		return false
	}
}

// AcquireWithTimeout waits at most timeout for a slot, or until ctx is
// done. A non-positive timeout waits on ctx alone.
func (p *WorkerPool) AcquireWithTimeout(ctx context.Context, l Lane, timeout time.Duration) error {
	if timeout <= 0 {
		return p.Acquire(ctx, l)
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return p.Acquire(ctx, l)
}

// Wait takes a slot with the configured queue timeout.
func (p *WorkerPool) Wait(ctx context.Context, l Lane) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.TryAcquire(l) {
		return nil
	}
	return p.AcquireWithTimeout(ctx, l, p.queueTimeout)
}

// Release returns a slot to the lane.
func (p *WorkerPool) Release(l Lane) {
	ln := &p.lanes[l]
	atomic.AddInt64(&ln.active, -1)
	atomic.AddInt64(&ln.total, 1)
	<-ln.sem
}

// PoolStats is a snapshot of pool usage.
type PoolStats struct {
	ActiveFast int64 `json:"active_fast"`
	ActiveSlow int64 `json:"active_slow"`
	QueuedFast int64 `json:"queued_fast"`
	QueuedSlow int64 `json:"queued_slow"`
	TotalFast  int64 `json:"total_fast"`
	TotalSlow  int64 `json:"total_slow"`
	MaxFast    int   `json:"max_fast"`
	MaxSlow    int   `json:"max_slow"`
}

// Stats returns current pool statistics.
func (p *WorkerPool) Stats() PoolStats {
	fast, slow := &p.lanes[Fast], &p.lanes[Slow]
	return PoolStats{
		ActiveFast: atomic.LoadInt64(&fast.active),
		ActiveSlow: atomic.LoadInt64(&slow.active),
		QueuedFast: atomic.LoadInt64(&fast.queued),
		QueuedSlow: atomic.LoadInt64(&slow.queued),
		TotalFast:  atomic.LoadInt64(&fast.total),
		TotalSlow:  atomic.LoadInt64(&slow.total),
		MaxFast:    cap(fast.sem),
		MaxSlow:    cap(slow.sem),
	}
}
