// Package transport defines the boundary between the dispatch layer and
// whatever actually carries calls to the coordination service, plus a net/rpc
// implementation of it.
package transport

import (
	"github.com/mikekulinski/zkasync/pkg/opkind"
	"github.com/mikekulinski/zkasync/pkg/result"
	"github.com/mikekulinski/zkasync/pkg/wire"
)

// Request carries one operation's arguments to the coordination service.
// Only the fields relevant to the operation kind are consulted.
type Request struct {
	ClientID string
	Op       opkind.Kind
	Path     string
	Data     []byte
	Version  int32
	Flags    []wire.Flag
	ACL      []result.ACL
}

// CompletionFunc receives the one completion bundle for a submitted call.
type CompletionFunc func(b *result.Bundle)

// Transport submits operations and manages the session they run under.
//
// Submit returns the submission-status bundle synchronously. If (and only if)
// that bundle classifies as success, the transport later invokes complete
// exactly once with the completion bundle, from an arbitrary goroutine.
type Transport interface {
	Connect(clientID string) error
	Submit(req *Request, complete CompletionFunc) *result.Bundle
	Close(clientID string) error
}
