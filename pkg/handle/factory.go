package handle

import (
	"github.com/mikekulinski/zkasync/pkg/opkind"
	"github.com/mikekulinski/zkasync/pkg/reactor"
	"github.com/mikekulinski/zkasync/pkg/result"
)

// SubmitFunc performs the actual network call for one operation. It receives
// the handle so it can register OnCompletion as the completion target, and
// returns the synchronous submission-status bundle. It must not block waiting
// for the asynchronous result.
type SubmitFunc func(h *Handle) *result.Bundle

// newForKind is the shared factory body: construct the handle, run the
// submission closure, feed its status back, and hand the handle to the caller.
func newForKind(kind opkind.Kind, sched reactor.Scheduler, observer Observer, submit SubmitFunc) *Handle {
	h := newHandle(kind, sched, observer)
	h.OnSubmissionResult(submit(h))
	return h
}

// Get returns the handle for a data read. Delivered values: (data, stat).
func Get(sched reactor.Scheduler, observer Observer, submit SubmitFunc) *Handle {
	return newForKind(opkind.Get, sched, observer, submit)
}

// Children returns the handle for a child listing. Delivered values: (children, stat).
func Children(sched reactor.Scheduler, observer Observer, submit SubmitFunc) *Handle {
	return newForKind(opkind.Children, sched, observer, submit)
}

// Create returns the handle for a node creation. Delivered values: (path).
func Create(sched reactor.Scheduler, observer Observer, submit SubmitFunc) *Handle {
	return newForKind(opkind.Create, sched, observer, submit)
}

// Stat returns the handle for a metadata read. Delivered values: (stat),
// where a missing node is a success carrying a nil stat, not an error.
func Stat(sched reactor.Scheduler, observer Observer, submit SubmitFunc) *Handle {
	return newForKind(opkind.Stat, sched, observer, submit)
}

// Exists returns the handle for an existence check. Delivered values: (exists).
func Exists(sched reactor.Scheduler, observer Observer, submit SubmitFunc) *Handle {
	return newForKind(opkind.Exists, sched, observer, submit)
}

// Set returns the handle for a data write. Delivered values: (stat).
func Set(sched reactor.Scheduler, observer Observer, submit SubmitFunc) *Handle {
	return newForKind(opkind.Set, sched, observer, submit)
}

// Delete returns the handle for a node deletion. No delivered values.
func Delete(sched reactor.Scheduler, observer Observer, submit SubmitFunc) *Handle {
	return newForKind(opkind.Delete, sched, observer, submit)
}

// SetACL returns the handle for an ACL write. No delivered values.
func SetACL(sched reactor.Scheduler, observer Observer, submit SubmitFunc) *Handle {
	return newForKind(opkind.SetACL, sched, observer, submit)
}

// GetACL returns the handle for an ACL read. Delivered values: (acl, stat).
func GetACL(sched reactor.Scheduler, observer Observer, submit SubmitFunc) *Handle {
	return newForKind(opkind.GetACL, sched, observer, submit)
}
