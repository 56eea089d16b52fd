// Package handle implements the callable object returned to the caller for
// every asynchronous operation. A handle feeds the one terminal result bundle
// to both consumption styles: node-style (single error-first callback) and
// deferred-style (success/failure subscribers with promise semantics).
package handle

import (
	"context"
	"sync"

	"github.com/mikekulinski/zkasync/pkg/opkind"
	"github.com/mikekulinski/zkasync/pkg/reactor"
	"github.com/mikekulinski/zkasync/pkg/result"
)

// Observer is the node-style callback: on failure it receives the error and
// no values, on success a nil error followed by the operation's values.
type Observer func(err error, values ...any)

// Handle tracks one in-flight asynchronous call. The operation kind and the
// observer are fixed at construction. The deferred state transitions exactly
// once, from pending to the terminal outcome, inside a reactor-scheduled
// unit, so delivery never runs on the transport's goroutine and never races
// another delivery.
type Handle struct {
	kind     opkind.Kind
	sched    reactor.Scheduler
	observer Observer

	mu        sync.Mutex
	xid       int64
	hasXid    bool
	ctxValue  any
	delivered bool
	resolved  bool
	outcome   opkind.Outcome
	onSuccess []func(values ...any)
	onFailure []func(err error)
	done      chan struct{}
}

func newHandle(kind opkind.Kind, sched reactor.Scheduler, observer Observer) *Handle {
	return &Handle{
		kind:     kind,
		sched:    sched,
		observer: observer,
		done:     make(chan struct{}),
	}
}

// Kind returns the operation kind this handle was created for.
func (h *Handle) Kind() opkind.Kind {
	return h.kind
}

// RequestID returns the request id the transport assigned at submission time.
// The second return value is false until the submission status has been seen.
func (h *Handle) RequestID() (int64, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.xid, h.hasXid
}

// SetContext attaches an opaque caller value to the handle, typically to
// correlate deliveries with the originating request. The library never
// interprets it.
func (h *Handle) SetContext(v any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ctxValue = v
}

// Context returns the value set with SetContext, or nil.
func (h *Handle) Context() any {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.ctxValue
}

// OnSubmissionResult records the request id from the submission-status bundle
// and, if the submission itself failed (e.g. the transport rejected the call
// before queueing it), delivers that bundle as the terminal result. A call
// that failed synchronously is then indistinguishable from one that failed
// asynchronously.
func (h *Handle) OnSubmissionResult(b *result.Bundle) {
	h.mu.Lock()
	h.xid = b.Xid
	h.hasXid = true
	h.mu.Unlock()

	if !opkind.Classify(h.kind, b).Succeeded {
		h.deliver(b)
	}
}

// OnCompletion is the entry point the transport invokes once the call's true
// asynchronous result is known. It always triggers delivery.
func (h *Handle) OnCompletion(b *result.Bundle) {
	h.deliver(b)
}

// deliver schedules the one delivery unit for this handle. The first bundle
// wins; in practice the submission-failure path and the completion path are
// mutually exclusive, but a second bundle is dropped rather than trusted.
func (h *Handle) deliver(b *result.Bundle) {
	h.mu.Lock()
	if h.delivered {
		h.mu.Unlock()
		return
	}
	h.delivered = true
	h.mu.Unlock()

	h.sched.Schedule(func() {
		// Classify once; the same outcome feeds both consumption styles.
		out := opkind.Classify(h.kind, b)

		h.mu.Lock()
		h.outcome = out
		h.resolved = true
		successFns := h.onSuccess
		failureFns := h.onFailure
		h.onSuccess = nil
		h.onFailure = nil
		h.mu.Unlock()

		close(h.done)

		if out.Succeeded {
			for _, fn := range successFns {
				fn(out.Values...)
			}
		} else {
			for _, fn := range failureFns {
				fn(out.Err)
			}
		}
		if h.observer != nil {
			if out.Succeeded {
				h.observer(nil, out.Values...)
			} else {
				h.observer(out.Err)
			}
		}
	})
}

// OnSuccess attaches a deferred-style success subscriber. A subscriber
// attached after delivery still fires, once, with the resolved values; it is
// scheduled on the reactor so it never interleaves with a running delivery.
func (h *Handle) OnSuccess(fn func(values ...any)) {
	h.mu.Lock()
	if !h.resolved {
		h.onSuccess = append(h.onSuccess, fn)
		h.mu.Unlock()
		return
	}
	out := h.outcome
	h.mu.Unlock()

	if out.Succeeded {
		h.sched.Schedule(func() {
			fn(out.Values...)
		})
	}
}

// OnFailure attaches a deferred-style failure subscriber, with the same
// late-attachment semantics as OnSuccess.
func (h *Handle) OnFailure(fn func(err error)) {
	h.mu.Lock()
	if !h.resolved {
		h.onFailure = append(h.onFailure, fn)
		h.mu.Unlock()
		return
	}
	out := h.outcome
	h.mu.Unlock()

	if !out.Succeeded {
		h.sched.Schedule(func() {
			fn(out.Err)
		})
	}
}

// Done is closed once the terminal outcome has been recorded.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until delivery or until the context is cancelled, and returns
// the delivered values or error.
func (h *Handle) Wait(ctx context.Context) ([]any, error) {
	select {
	case <-h.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.outcome.Succeeded {
		return nil, h.outcome.Err
	}
	return h.outcome.Values, nil
}
