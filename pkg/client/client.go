// Package client is the high-level asynchronous client for the coordination
// service. Every operation returns a handle immediately; results are
// delivered through the handle's node-style observer and deferred-style
// subscribers, always on the client's reactor.
package client

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mikekulinski/zkasync/pkg/handle"
	"github.com/mikekulinski/zkasync/pkg/opkind"
	"github.com/mikekulinski/zkasync/pkg/reactor"
	"github.com/mikekulinski/zkasync/pkg/result"
	"github.com/mikekulinski/zkasync/pkg/transport"
	"github.com/mikekulinski/zkasync/pkg/wire"
)

type Client struct {
	transport transport.Transport
	sched     reactor.Scheduler
	clientID  string
	log       *zap.Logger

	// ownedReactor is non-nil when the client built its own reactor and is
	// responsible for shutting it down. guard fronts it so a completion
	// racing Close is dropped instead of scheduling onto a closed reactor.
	ownedReactor *reactor.Reactor
	guard        *closingScheduler
}

// closingScheduler forwards units to the inner scheduler until close, then
// silently drops them. Tearing down the transport terminates every in-flight
// call, and those completions arrive on the rpc client's goroutines after the
// owned reactor is gone; dropping them leaves their handles pending, which is
// the documented fate of calls still in flight at Close.
type closingScheduler struct {
	mu     sync.Mutex
	closed bool
	inner  reactor.Scheduler
}

func (s *closingScheduler) Schedule(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.inner.Schedule(fn)
}

func (s *closingScheduler) close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

type Option func(*Client)

// WithScheduler substitutes the scheduler deliveries run on. The caller owns
// its lifecycle.
func WithScheduler(sched reactor.Scheduler) Option {
	return func(c *Client) {
		c.sched = sched
	}
}

// WithLogger replaces the default no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// NewClient establishes a session with the coordination server reachable
// through the given transport. Unless WithScheduler is used, the client
// starts its own reactor and stops it on Close.
func NewClient(t transport.Transport, opts ...Option) (*Client, error) {
	c := &Client{
		transport: t,
		clientID:  uuid.New().String(),
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.sched == nil {
		c.ownedReactor = reactor.New()
		c.guard = &closingScheduler{inner: c.ownedReactor}
		c.sched = c.guard
	}

	// Initiate the session with the coordination server.
	if err := t.Connect(c.clientID); err != nil {
		if c.ownedReactor != nil {
			c.ownedReactor.Close()
		}
		return nil, fmt.Errorf("error connecting to the coordination server: %w", err)
	}
	c.log.Info("connected", zap.String("client_id", c.clientID))
	return c, nil
}

// ClientID returns the session id this client connected with.
func (c *Client) ClientID() string {
	return c.clientID
}

// Close terminates the session. Pending handles are not cancelled; a handle
// whose completion never arrives stays pending, and completions that arrive
// after Close are dropped. With WithScheduler the caller owns the scheduler's
// lifecycle and must keep it alive for any deliveries it still wants.
func (c *Client) Close() error {
	err := c.transport.Close(c.clientID)
	if c.ownedReactor != nil {
		c.guard.close()
		c.ownedReactor.Close()
	}
	if err != nil {
		return fmt.Errorf("error closing the session: %w", err)
	}
	c.log.Info("closed", zap.String("client_id", c.clientID))
	return nil
}

// submit builds the one submission closure every factory needs: send the
// request with the handle's completion entry point as the completion target.
func (c *Client) submit(req *transport.Request) handle.SubmitFunc {
	req.ClientID = c.clientID
	return func(h *handle.Handle) *result.Bundle {
		return c.transport.Submit(req, h.OnCompletion)
	}
}

// Get reads the node's data. Delivered values: (data []byte, stat *result.Stat).
func (c *Client) Get(path string, observer handle.Observer) *handle.Handle {
	return handle.Get(c.sched, observer, c.submit(&transport.Request{
		Op:   opkind.Get,
		Path: path,
	}))
}

// GetChildren lists the names of the node's children.
// Delivered values: (children []string, stat *result.Stat).
func (c *Client) GetChildren(path string, observer handle.Observer) *handle.Handle {
	return handle.Children(c.sched, observer, c.submit(&transport.Request{
		Op:   opkind.Children,
		Path: path,
	}))
}

// Create creates a node at the given path. Delivered values: (path string),
// the full path of the new node including any sequence suffix.
func (c *Client) Create(path string, data []byte, acl []result.ACL, observer handle.Observer, flags ...wire.Flag) *handle.Handle {
	return handle.Create(c.sched, observer, c.submit(&transport.Request{
		Op:    opkind.Create,
		Path:  path,
		Data:  data,
		ACL:   acl,
		Flags: flags,
	}))
}

// Stat reads the node's metadata. Delivered values: (stat *result.Stat),
// where a missing node is a success carrying a nil stat, not an error.
func (c *Client) Stat(path string, observer handle.Observer) *handle.Handle {
	return handle.Stat(c.sched, observer, c.submit(&transport.Request{
		Op:   opkind.Stat,
		Path: path,
	}))
}

// Exists checks whether the node exists. Delivered values: (exists bool).
func (c *Client) Exists(path string, observer handle.Observer) *handle.Handle {
	return handle.Exists(c.sched, observer, c.submit(&transport.Request{
		Op:   opkind.Exists,
		Path: path,
	}))
}

// Set writes the node's data if the version matches.
// Delivered values: (stat *result.Stat).
func (c *Client) Set(path string, data []byte, version int32, observer handle.Observer) *handle.Handle {
	return handle.Set(c.sched, observer, c.submit(&transport.Request{
		Op:      opkind.Set,
		Path:    path,
		Data:    data,
		Version: version,
	}))
}

// Delete deletes the node if the version matches. No delivered values.
func (c *Client) Delete(path string, version int32, observer handle.Observer) *handle.Handle {
	return handle.Delete(c.sched, observer, c.submit(&transport.Request{
		Op:      opkind.Delete,
		Path:    path,
		Version: version,
	}))
}

// GetACL reads the node's access control list.
// Delivered values: (acl []result.ACL, stat *result.Stat).
func (c *Client) GetACL(path string, observer handle.Observer) *handle.Handle {
	return handle.GetACL(c.sched, observer, c.submit(&transport.Request{
		Op:   opkind.GetACL,
		Path: path,
	}))
}

// SetACL replaces the node's access control list if the ACL version matches.
// No delivered values.
func (c *Client) SetACL(path string, acl []result.ACL, version int32, observer handle.Observer) *handle.Handle {
	return handle.SetACL(c.sched, observer, c.submit(&transport.Request{
		Op:      opkind.SetACL,
		Path:    path,
		ACL:     acl,
		Version: version,
	}))
}
