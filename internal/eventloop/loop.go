// Package eventloop runs callbacks one at a time on a single goroutine.
//
// Every piece of presentation state is owned by exactly one Loop. Input
// handlers, timers and background probes never touch that state directly;
// they post a callback and the loop runs it in order. This gives the
// single-actor semantics of a browser event loop without any locking in
// the state machines themselves.
package eventloop

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/atomic"
)

// ErrStopped is returned by Call when the loop is no longer running.
var ErrStopped = errors.New("event loop stopped")

// DefaultQueueSize is the task buffer used when New is given a size <= 0.
const DefaultQueueSize = 64

// Scheduler arms one-shot timers. The returned cancel function is idempotent
// and reports nothing; a timer that already fired is simply not re-run.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) (cancel func())
}

// Loop serializes callbacks on one goroutine started by Run.
type Loop struct {
	tasks    chan func()
	done     chan struct{}
	stopOnce sync.Once
	sched    Scheduler
	running  atomic.Bool
}

// New creates a Loop. A nil scheduler uses wall-clock timers.
func New(queueSize int, sched Scheduler) *Loop {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	if sched == nil {
		sched = Real{}
	}
	return &Loop{
		tasks: make(chan func(), queueSize),
		done:  make(chan struct{}),
		sched: sched,
	}
}

// Run processes posted callbacks until ctx is cancelled or Stop is called.
// It must be called exactly once.
func (l *Loop) Run(ctx context.Context) error {
	l.running.Store(true)
	defer l.running.Store(false)
	for {
		select {
		case <-ctx.Done():
			l.Stop()
			return ctx.Err()
		case <-l.done:
			return nil
		case f := <-l.tasks:
			f()
		}
	}
}

// Stop terminates the loop. Pending callbacks are dropped.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.done) })
}

// Done is closed once the loop has been stopped.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Running reports whether Run is currently executing.
func (l *Loop) Running() bool {
	return l.running.Load()
}

// Post enqueues f. It returns false if the loop has stopped.
func (l *Loop) Post(f func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.tasks <- f:
		return true
	case <-l.done:
		return false
	}
}

// Call runs f on the loop and waits for it to return.
func (l *Loop) Call(ctx context.Context, f func()) error {
	finished := make(chan struct{})
	if !l.Post(func() {
		defer close(finished)
		f()
	}) {
		return ErrStopped
	}
	select {
	case <-finished:
		return nil
	case <-l.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// AfterFunc arms a timer whose callback runs on the loop. Cancelling after
// the timer fired but before the callback ran still suppresses it.
func (l *Loop) AfterFunc(d time.Duration, f func()) (cancel func()) {
	var cancelled atomic.Bool
	stop := l.sched.AfterFunc(d, func() {
		if cancelled.Load() {
			return
		}
		l.Post(func() {
			if !cancelled.Load() {
				f()
			}
		})
	})
	return func() {
		cancelled.Store(true)
		stop()
	}
}

// Compile-time interface check.
var _ Scheduler = (*Loop)(nil)
