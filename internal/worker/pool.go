// Package worker provides the bounded task pool that runs settlement and
// webhook delivery jobs off the request path.
package worker

import (
	"context"
	"errors"
	"log/slog"
	"runtime/debug"
	"sync"
)

// ErrQueueFull is returned by Submit when the pool cannot accept more work.
// Callers decide whether saturation is fatal; the request path logs it and
// moves on.
var ErrQueueFull = errors.New("worker pool queue is full")

var ErrPoolStopped = errors.New("worker pool is stopped")

// Task is one unit of background work. The context is the pool's run
// context; it is cancelled on shutdown.
type Task func(ctx context.Context)

// Pool is a fixed-size worker pool over a buffered queue. Backpressure is
// explicit: Submit never blocks.
type Pool struct {
	workers int
	tasks   chan Task
	wg      sync.WaitGroup
	logger  *slog.Logger

	mu      sync.Mutex
	stopped bool
}

func NewPool(workers, queueSize int, logger *slog.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{
		workers: workers,
		tasks:   make(chan Task, queueSize),
		logger:  logger,
	}
}

// Start launches the workers. Each worker drains the queue until it is
// closed, then exits. Tasks observe cancellation through ctx.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run(ctx)
	}
}

func (p *Pool) run(ctx context.Context) {
	defer p.wg.Done()
	for task := range p.tasks {
		p.execute(ctx, task)
	}
}

func (p *Pool) execute(ctx context.Context, task Task) {
	defer func() {
		if rec := recover(); rec != nil {
			p.logger.Error("task panic recovered",
				"panic", rec,
				"stack", string(debug.Stack()),
			)
		}
	}()
	task(ctx)
}

// Submit enqueues a task without blocking.
func (p *Pool) Submit(task Task) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return ErrPoolStopped
	}

	select {
	case p.tasks <- task:
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop closes the queue and waits for in-flight tasks to finish. Queued
// tasks still run; cancel the run context to make them bail early.
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.tasks)
	p.mu.Unlock()

	p.wg.Wait()
}
