package api

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestWorkerPoolBasic(t *testing.T) {
	pool := NewWorkerPool(PoolConfig{
		MaxFastWorkers: 2,
		MaxSlowWorkers: 1,
	})

	ctx := context.Background()
	if err := pool.Acquire(ctx, Fast); err != nil {
		t.Fatalf("Failed to acquire fast slot: %v", err)
	}

	stats := pool.Stats()
	if stats.ActiveFast != 1 || stats.ActiveSlow != 0 {
		t.Errorf("Expected 1 active fast and 0 active slow, got %d and %d", stats.ActiveFast, stats.ActiveSlow)
	}

	pool.Release(Fast)
	stats = pool.Stats()
	if stats.ActiveFast != 0 {
		t.Errorf("Expected 0 active fast after release, got %d", stats.ActiveFast)
	}
	if stats.TotalFast != 1 {
		t.Errorf("Expected 1 total fast request, got %d", stats.TotalFast)
	}
}

func TestWorkerPoolSlowLaneIsBounded(t *testing.T) {
	pool := NewWorkerPool(PoolConfig{
		MaxFastWorkers: 10,
		MaxSlowWorkers: 2,
	})

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if err := pool.Acquire(ctx, Slow); err != nil {
			t.Fatalf("Failed to acquire slow slot %d: %v", i+1, err)
		}
	}

	if pool.TryAcquire(Slow) {
		t.Error("Should not be able to acquire a third slow slot")
	}
	// The fast lane is independent
	if !pool.TryAcquire(Fast) {
		t.Error("Full slow lane blocked the fast lane")
	}
	pool.Release(Fast)

	pool.Release(Slow)
	pool.Release(Slow)

	if stats := pool.Stats(); stats.TotalSlow != 2 {
		t.Errorf("Expected 2 total slow requests, got %d", stats.TotalSlow)
	}
}

func TestWorkerPoolContextCancellation(t *testing.T) {
	pool := NewWorkerPool(PoolConfig{
		MaxFastWorkers: 1,
		MaxSlowWorkers: 1,
	})

	if err := pool.Acquire(context.Background(), Fast); err != nil {
		t.Fatalf("Failed to acquire fast slot: %v", err)
	}

	cancelCtx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := pool.Acquire(cancelCtx, Fast); err != context.Canceled {
		t.Errorf("Expected context.Canceled, got %v", err)
	}

	pool.Release(Fast)
}

func TestWorkerPoolConcurrency(t *testing.T) {
	pool := NewWorkerPool(PoolConfig{
		MaxFastWorkers: 5,
		MaxSlowWorkers: 2,
	})

	var wg sync.WaitGroup
	var running, peak int64
	ctx := context.Background()

	// Launch 10 searches - only 2 should run concurrently
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := pool.Acquire(ctx, Slow); err != nil {
				t.Errorf("Failed to acquire slow slot: %v", err)
				return
			}
			n := atomic.AddInt64(&running, 1)
			for {
				p := atomic.LoadInt64(&peak)
				if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt64(&running, -1)
			pool.Release(Slow)
		}()
	}

	wg.Wait()

	if peak > 2 {
		t.Errorf("Peak concurrency %d exceeds the slow limit 2", peak)
	}
	if stats := pool.Stats(); stats.TotalSlow != 10 {
		t.Errorf("Expected 10 total slow requests, got %d", stats.TotalSlow)
	}
}

func TestWorkerPoolTimeout(t *testing.T) {
	pool := NewWorkerPool(PoolConfig{
		MaxFastWorkers: 1,
		MaxSlowWorkers: 1,
	})

	if err := pool.Acquire(context.Background(), Slow); err != nil {
		t.Fatalf("Failed to acquire slow slot: %v", err)
	}

	if err := pool.AcquireWithTimeout(context.Background(), Slow, 10*time.Millisecond); err != context.DeadlineExceeded {
		t.Errorf("Expected context.DeadlineExceeded, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := pool.AcquireWithTimeout(ctx, Slow, time.Hour); err != context.Canceled {
		t.Errorf("Expected context.Canceled from the caller's context, got %v", err)
	}

	pool.Release(Slow)
}

func TestWorkerPoolQueueTimeout(t *testing.T) {
	pool := NewWorkerPool(PoolConfig{
		MaxSlowWorkers: 1,
		QueueTimeout:   10 * time.Millisecond,
	})

	if err := pool.Wait(context.Background(), Slow); err != nil {
		t.Fatalf("Failed to acquire slow slot: %v", err)
	}

	start := time.Now()
	if err := pool.Wait(context.Background(), Slow); err != context.DeadlineExceeded {
		t.Errorf("Expected context.DeadlineExceeded, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Wait blocked %v past its queue timeout", elapsed)
	}

	pool.Release(Slow)
	if err := pool.Wait(context.Background(), Slow); err != nil {
		t.Errorf("Wait after release: %v", err)
	}
	pool.Release(Slow)

	// A finished request never takes a free slot
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := pool.Wait(ctx, Slow); err != context.Canceled {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if stats := pool.Stats(); stats.ActiveSlow != 0 {
		t.Errorf("Cancelled Wait holds %d slots", stats.ActiveSlow)
	}
}

func TestWorkerPoolDefaults(t *testing.T) {
	stats := NewWorkerPool(PoolConfig{}).Stats()
	def := DefaultPoolConfig()
	if stats.MaxFast != def.MaxFastWorkers || stats.MaxSlow != def.MaxSlowWorkers {
		t.Errorf("Expected defaults %d/%d, got %d/%d", def.MaxFastWorkers, def.MaxSlowWorkers, stats.MaxFast, stats.MaxSlow)
	}
}

func TestLaneString(t *testing.T) {
	if Fast.String() != "fast" || Slow.String() != "slow" {
		t.Errorf("Lane names = %q, %q", Fast.String(), Slow.String())
	}
}
