package sentiment

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// WorkerPoolConfig configures the scoring worker pool.
type WorkerPoolConfig struct {
	MaxConcurrent int // Maximum concurrent classifier calls (default: 8)
}

// DefaultWorkerPoolConfig returns sensible defaults.
func DefaultWorkerPoolConfig() WorkerPoolConfig {
	return WorkerPoolConfig{MaxConcurrent: 8}
}

// WorkerPool manages concurrent classifier calls with bounded parallelism.
// A semaphore limits outstanding requests; results are collected as they
// complete and re-assembled by item identity, so completion order never
// matters.
type WorkerPool struct {
	config WorkerPoolConfig
	logger *zap.Logger
}

// NewWorkerPool creates a new scoring worker pool.
func NewWorkerPool(config WorkerPoolConfig, logger *zap.Logger) *WorkerPool {
	if config.MaxConcurrent < 1 {
		config.MaxConcurrent = 8
	}
	return &WorkerPool{
		config: config,
		logger: logger.Named("score-pool"),
	}
}

// WorkItem represents a unit of work to be processed.
type WorkItem[T any] struct {
	ID      string                               // For re-assembly and logging
	Execute func(ctx context.Context) (T, error) // The work to be executed
}

// WorkResult represents the result of a work item.
type WorkResult[T any] struct {
	ID     string
	Result T
	Err    error
}

// Process executes all work items with bounded parallelism. Results come
// back in completion order (not submission order); callers re-key by ID.
// Processing continues through individual failures.
func Process[T any](
	ctx context.Context,
	pool *WorkerPool,
	items []WorkItem[T],
	onProgress func(completed, total int),
) []WorkResult[T] {
	if len(items) == 0 {
		return nil
	}

	results := make([]WorkResult[T], 0, len(items))
	resultsChan := make(chan WorkResult[T], len(items))
	sem := make(chan struct{}, pool.config.MaxConcurrent)

	var wg sync.WaitGroup

	for _, item := range items {
		wg.Add(1)
		go func(item WorkItem[T]) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				var zero T
				resultsChan <- WorkResult[T]{ID: item.ID, Result: zero, Err: ctx.Err()}
				return
			}

			result, err := item.Execute(ctx)
			resultsChan <- WorkResult[T]{ID: item.ID, Result: result, Err: err}
		}(item)
	}

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	completed := 0
	for result := range resultsChan {
		results = append(results, result)
		completed++
		if onProgress != nil {
			onProgress(completed, len(items))
		}
	}

	return results
}
