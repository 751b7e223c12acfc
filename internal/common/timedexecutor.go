package common

import (
	"context"
	"sync"
	"time"
)

// Give the timed executor a task and an interval.
// Once started, the task runs every time the interval elapses until the
// executor is stopped or the parent context is done.
// Stop can be called any number of times, the cancellation happens once
type TimedExecutor struct {
	interval time.Duration
	task     func(ctx context.Context)
	cancel   context.CancelFunc
	done     chan struct{}
	start    sync.Once
	stop     sync.Once
}

// Create a timed executor provided an interval and a task
func NewTimedExecutor(interval time.Duration, task func(ctx context.Context)) *TimedExecutor {
	return &TimedExecutor{interval: interval, task: task, done: make(chan struct{})}
}

// Start running the task in the background
func (te *TimedExecutor) Start(parent context.Context) {
	te.start.Do(func() {
		ctx, cancel := context.WithCancel(parent)
		te.cancel = cancel
		go te.run(ctx)
	})
}

func (te *TimedExecutor) run(ctx context.Context) {
	defer close(te.done)
	ticker := time.NewTicker(te.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			te.task(ctx)
		}
	}
}

// Cancel the executor. A task that is currently running sees its context
// cancelled; Stop does not wait for it
func (te *TimedExecutor) Stop() {
	te.stop.Do(func() {
		// An executor that never started cannot start anymore
		started := true
		te.start.Do(func() { started = false })
		if started {
			te.cancel()
		} else {
			close(te.done)
		}
	})
}

// Done is closed when the background goroutine has exited
func (te *TimedExecutor) Done() <-chan struct{} {
	return te.done
}
