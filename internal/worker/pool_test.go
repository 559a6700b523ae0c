package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// mockResult implements Result
type mockResult struct {
	err error
}

func (r *mockResult) GetError() error {
	return r.err
}

// mockJob implements Job
type mockJob struct {
	duration  time.Duration
	shouldErr bool
	executed  *int32 // atomic counter
}

func (j *mockJob) Execute(ctx context.Context) Result {
	if j.executed != nil {
		atomic.AddInt32(j.executed, 1)
	}
	if j.duration > 0 {
		select {
		case <-time.After(j.duration):
		case <-ctx.Done():
			return &mockResult{err: ctx.Err()}
		}
	}
	if j.shouldErr {
		return &mockResult{err: errors.New("job error")}
	}
	return &mockResult{err: nil}
}

func TestNewPool(t *testing.T) {
	p1 := NewPool(context.Background(), 5, 10)
	if p1.workers != 5 {
		t.Errorf("expected 5 workers, got %d", p1.workers)
	}

	p2 := NewPool(context.Background(), 0, 10)
	if p2.workers != 1 {
		t.Errorf("expected default 1 worker for 0 input, got %d", p2.workers)
	}

	p3 := NewPool(context.Background(), -1, 10)
	if p3.workers != 1 {
		t.Errorf("expected default 1 worker for negative input, got %d", p3.workers)
	}
}

func TestPool_Execution(t *testing.T) {
	count := 10
	pool := NewPool(context.Background(), 2, count)
	pool.Start()

	var executed int32
	for i := 0; i < count; i++ {
		pool.Submit(&mockJob{executed: &executed})
	}

	results := pool.Wait()

	if len(results) != count {
		t.Errorf("expected %d results, got %d", count, len(results))
	}

	if atomic.LoadInt32(&executed) != int32(count) {
		t.Errorf("expected %d executed jobs, got %d", count, executed)
	}
}

// concurrencyJob tracks max concurrent executions
type concurrencyJob struct {
	start    func()
	end      func()
	duration time.Duration
}

func (j *concurrencyJob) Execute(ctx context.Context) Result {
	if j.start != nil {
		j.start()
	}
	time.Sleep(j.duration)
	if j.end != nil {
		j.end()
	}
	return &mockResult{}
}

func TestPool_BoundedConcurrency(t *testing.T) {
	workers := 4
	totalJobs := 20
	pool := NewPool(context.Background(), workers, totalJobs)
	pool.Start()

	var current int32
	var maxConcurrent int32
	var mu sync.Mutex

	for i := 0; i < totalJobs; i++ {
		pool.Submit(&concurrencyJob{
			start: func() {
				curr := atomic.AddInt32(&current, 1)
				mu.Lock()
				if curr > maxConcurrent {
					maxConcurrent = curr
				}
				mu.Unlock()
			},
			end: func() {
				atomic.AddInt32(&current, -1)
			},
			duration: 5 * time.Millisecond,
		})
	}

	results := pool.Wait()

	if len(results) != totalJobs {
		t.Errorf("expected %d results, got %d", totalJobs, len(results))
	}

	mu.Lock()
	observed := maxConcurrent
	mu.Unlock()
	if observed > int32(workers) {
		t.Errorf("expected at most %d concurrent jobs, observed %d", workers, observed)
	}
}

func TestPool_SingleWorkerIsSequential(t *testing.T) {
	totalJobs := 5
	pool := NewPool(context.Background(), 1, totalJobs)
	pool.Start()

	var current int32
	var overlapped int32

	for i := 0; i < totalJobs; i++ {
		pool.Submit(&concurrencyJob{
			start: func() {
				if atomic.AddInt32(&current, 1) > 1 {
					atomic.StoreInt32(&overlapped, 1)
				}
			},
			end: func() {
				atomic.AddInt32(&current, -1)
			},
			duration: 2 * time.Millisecond,
		})
	}

	results := pool.Wait()

	if len(results) != totalJobs {
		t.Errorf("expected %d results, got %d", totalJobs, len(results))
	}
	if atomic.LoadInt32(&overlapped) != 0 {
		t.Error("expected no overlapping execution with a single worker")
	}
}

func TestPool_ErrorsSurfaceInResults(t *testing.T) {
	pool := NewPool(context.Background(), 2, 4)
	pool.Start()

	pool.Submit(&mockJob{shouldErr: true})
	pool.Submit(&mockJob{})

	results := pool.Wait()

	failed := 0
	for _, r := range results {
		if r.GetError() != nil {
			failed++
		}
	}
	if failed != 1 {
		t.Errorf("expected 1 failed result, got %d", failed)
	}
}

func TestPool_WaitReleasesContext(t *testing.T) {
	pool := NewPool(context.Background(), 2, 4)
	pool.Start()

	pool.Submit(&mockJob{})
	pool.Submit(&mockJob{})
	pool.Wait()

	select {
	case <-pool.ctx.Done():
	default:
		t.Error("expected the pool context to be canceled after Wait")
	}
}

func TestPool_Shutdown(t *testing.T) {
	pool := NewPool(context.Background(), 1, 8)
	pool.Start()

	for i := 0; i < 8; i++ {
		pool.Submit(&mockJob{duration: 50 * time.Millisecond})
	}

	pool.Shutdown()
	// Shutdown must return with workers stopped and not panic on a
	// closed results channel.
}
