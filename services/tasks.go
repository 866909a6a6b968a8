package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

const taskTimeout = 30 * time.Second

type task struct {
	name string
	fn   func(ctx context.Context) error
}

// Tasks runs best-effort side effects off the request path. A failing task
// is logged and never reported back to the caller.
type Tasks struct {
	log    *zap.Logger
	queue  chan task
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
}

func NewTasks(log *zap.Logger, workers, buffer int) *Tasks {
	if workers < 1 {
		workers = 1
	}
	t := &Tasks{log: log, queue: make(chan task, buffer)}
	for i := 0; i < workers; i++ {
		t.wg.Add(1)
		go t.worker()
	}
	return t
}

// Go schedules fn. If the queue is full the task gets its own goroutine
// instead of blocking the caller.
func (t *Tasks) Go(name string, fn func(ctx context.Context) error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.closed {
		t.log.Warn("task dropped after shutdown", zap.String("task", name))
		return
	}

	tk := task{name: name, fn: fn}
	select {
	case t.queue <- tk:
	default:
		t.wg.Add(1)
		go func() {
			defer t.wg.Done()
			t.run(tk)
		}()
	}
}

// Close stops accepting tasks and waits for the queued ones to finish.
func (t *Tasks) Close() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	close(t.queue)
	t.mu.Unlock()

	t.wg.Wait()
}

func (t *Tasks) worker() {
	defer t.wg.Done()
	for tk := range t.queue {
		t.run(tk)
	}
}

func (t *Tasks) run(tk task) {
	ctx, cancel := context.WithTimeout(context.Background(), taskTimeout)
	defer cancel()

	start := time.Now()
	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		return tk.fn(ctx)
	}()

	if err != nil {
		t.log.Error("background task failed",
			zap.String("task", tk.name),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
		return
	}
	t.log.Debug("background task done", zap.String("task", tk.name), zap.Duration("duration", time.Since(start)))
}
