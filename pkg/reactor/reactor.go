// Package reactor provides the single-threaded, ordered work-scheduling
// primitive result delivery runs on. The transport may complete calls from
// any goroutine; scheduling the delivery here serializes all of them.
package reactor

import (
	"sync"
)

// Scheduler is the contract the dispatch layer needs: enqueue one unit of
// work to run later, FIFO, on a single logical thread. Schedule must never
// block the caller.
type Scheduler interface {
	Schedule(fn func())
}

// Reactor drains an unbounded FIFO queue of units on one goroutine, in
// submission order.
type Reactor struct {
	mu     sync.Mutex
	queue  []func()
	closed bool

	// wake has capacity 1 so Schedule never blocks on a busy drain loop.
	wake chan struct{}
	quit chan struct{}
	done chan struct{}
}

// New starts the drain goroutine and returns the running reactor.
func New() *Reactor {
	r := &Reactor{
		wake: make(chan struct{}, 1),
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
	go r.run()
	return r
}

// Schedule enqueues fn to run after all previously scheduled units.
// Scheduling on a closed reactor is a programming error and panics.
func (r *Reactor) Schedule(fn func()) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		panic("reactor: schedule called after close")
	}
	r.queue = append(r.queue, fn)
	r.mu.Unlock()

	select {
	case r.wake <- struct{}{}:
	default:
	}
}

// Close stops the reactor after draining everything already scheduled.
// It is safe to call exactly once and blocks until the drain goroutine exits.
func (r *Reactor) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		<-r.done
		return
	}
	r.closed = true
	r.mu.Unlock()

	close(r.quit)
	<-r.done
}

func (r *Reactor) run() {
	defer close(r.done)
	for {
		select {
		case <-r.wake:
			r.drain()
		case <-r.quit:
			// Run whatever was scheduled before Close, then stop.
			r.drain()
			return
		}
	}
}

// drain pops and runs units one at a time so that work scheduled from inside
// a unit still runs in FIFO order after everything already queued.
func (r *Reactor) drain() {
	for {
		r.mu.Lock()
		if len(r.queue) == 0 {
			r.mu.Unlock()
			return
		}
		fn := r.queue[0]
		r.queue = r.queue[1:]
		r.mu.Unlock()

		fn()
	}
}

// Inline is a Scheduler that runs every unit immediately on the caller's
// goroutine. It exists so tests (and other deterministic callers) can
// substitute the real reactor.
type Inline struct{}

func (Inline) Schedule(fn func()) {
	fn()
}
