package worker

import (
	"context"
	"runtime"

	"github.com/synsheet/synsheet/internal/model"
)

// Resolver resolves one input line into a lookup record.
type Resolver interface {
	Resolve(ctx context.Context, line string) (model.LookupResult, error)
}

// LineResult pairs a resolved record with its original input position.
// A failed line carries its error here; the record keeps the original
// line and stays otherwise empty.
type LineResult struct {
	Index  int
	Line   string
	Record model.LookupResult
	Err    error
}

// GetError returns the error from the line resolution.
func (r *LineResult) GetError() error {
	return r.Err
}

// lookupJob resolves a single line and remembers which slot of the
// final result set belongs to it.
type lookupJob struct {
	index    int
	line     string
	resolver Resolver
}

// Execute runs the lookup job.
func (j *lookupJob) Execute(ctx context.Context) Result {
	record, err := j.resolver.Resolve(ctx, j.line)
	if err != nil {
		return &LineResult{
			Index:  j.index,
			Line:   j.line,
			Record: model.LookupResult{Line: j.line},
			Err:    err,
		}
	}
	return &LineResult{
		Index:  j.index,
		Line:   j.line,
		Record: record,
	}
}

// BatchProcessor resolves many input lines concurrently while keeping
// the output aligned with the input order.
type BatchProcessor struct {
	resolver    Resolver
	concurrency int
}

// NewBatchProcessor creates a batch processor. concurrency <= 0 falls
// back to one worker per CPU; 1 is legal and yields sequential,
// ordering-identical execution.
func NewBatchProcessor(resolver Resolver, concurrency int) *BatchProcessor {
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}
	return &BatchProcessor{
		resolver:    resolver,
		concurrency: concurrency,
	}
}

// ResolveLines resolves every line and returns exactly one LineResult
// per line, index-aligned with lines. Completion order never influences
// result order: each job writes into the slot reserved for its input
// position. A single line's failure is recorded in place and never
// aborts the batch.
func (b *BatchProcessor) ResolveLines(ctx context.Context, lines []string) []*LineResult {
	if len(lines) == 0 {
		return []*LineResult{}
	}

	pool := NewPool(ctx, b.concurrency, len(lines))
	pool.Start()

	for i, line := range lines {
		pool.Submit(&lookupJob{index: i, line: line, resolver: b.resolver})
	}

	slots := make([]*LineResult, len(lines))
	for _, result := range pool.Wait() {
		lineResult := result.(*LineResult)
		slots[lineResult.Index] = lineResult
	}

	// Cancellation can leave jobs unexecuted; fill their slots so the
	// alignment invariant holds even on early shutdown.
	for i, slot := range slots {
		if slot == nil {
			slots[i] = &LineResult{
				Index:  i,
				Line:   lines[i],
				Record: model.LookupResult{Line: lines[i]},
				Err:    ctx.Err(),
			}
		}
	}

	return slots
}
