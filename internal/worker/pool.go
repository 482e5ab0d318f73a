package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// ErrPanic is wrapped into the outcome of a task that panicked.
var ErrPanic = errors.New("task panicked")

// Task is a unit of work. It should watch ctx for cancellation.
type Task[T any] func(ctx context.Context) (T, error)

// Outcome is the result of the task at Index in the submitted slice.
type Outcome[T any] struct {
	Index int
	Value T
	Err   error
}

// Run executes tasks on numWorkers goroutines and returns one outcome per
// task, in submission order. Once ctx is cancelled, tasks that have not
// started are not executed and report ctx.Err(). Run returns only after
// every worker has exited.
//
// Example:
//
//	outcomes := worker.Run(ctx, 4, []worker.Task[string]{
//	    func(ctx context.Context) (string, error) { return "a", nil },
//	}, logger)
func Run[T any](
	ctx context.Context,
	numWorkers int,
	tasks []Task[T],
	logger *slog.Logger,
) []Outcome[T] {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	if numWorkers > len(tasks) {
		numWorkers = len(tasks)
	}
	if logger == nil {
		logger = slog.Default()
	}

	outcomes := make([]Outcome[T], len(tasks))
	queue := make(chan int, len(tasks))
	for i := range tasks {
		outcomes[i].Index = i
		queue <- i
	}
	close(queue)

	wg := &sync.WaitGroup{}
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			logger.Debug("Worker started",
				"worker_id", workerID,
				"total_workers", numWorkers,
			)

			for i := range queue {
				if err := ctx.Err(); err != nil {
					outcomes[i].Err = err
					continue
				}
				outcomes[i].Value, outcomes[i].Err = execute(ctx, tasks[i], workerID, logger)
			}

			logger.Debug("Worker exiting",
				"worker_id", workerID,
				"reason", "queue_drained",
			)
		}(w)
	}

	logger.Debug("Worker pool spawned",
		"num_workers", numWorkers,
		"tasks", len(tasks),
	)

	wg.Wait()
	return outcomes
}

func execute[T any](ctx context.Context, task Task[T], workerID int, logger *slog.Logger) (value T, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Task panicked",
				"worker_id", workerID,
				"panic", fmt.Sprintf("%v", r),
			)
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()

	value, err = task(ctx)
	if err != nil {
		logger.Debug("Task failed",
			"worker_id", workerID,
			"error", err,
		)
	}
	return value, err
}
