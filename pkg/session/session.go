// Package session tracks the server-side state for each connected client,
// most importantly which ephemeral nodes a session owns so they can be
// deleted when the session ends.
package session

import (
	"fmt"
	"sync"
	"time"
)

type Session struct {
	ClientID  string
	CreatedAt time.Time
	// EphemeralNodes is the set of full paths of ephemeral nodes created by
	// this session. Guarded by the registry lock.
	EphemeralNodes map[string]struct{}
}

// Registry is the set of sessions currently connected to the server.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: map[string]*Session{},
	}
}

// Start registers a new session for the given client ID.
func (r *Registry) Start(clientID string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[clientID]; ok {
		return nil, fmt.Errorf("session already exists for that clientID")
	}
	sess := &Session{
		ClientID:       clientID,
		CreatedAt:      time.Now(),
		EphemeralNodes: map[string]struct{}{},
	}
	r.sessions[clientID] = sess
	return sess, nil
}

// End removes the session and returns the ephemeral node paths it owned, so
// the caller can delete them from the tree.
func (r *Registry) End(clientID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[clientID]
	if !ok {
		return nil
	}
	delete(r.sessions, clientID)

	paths := make([]string, 0, len(sess.EphemeralNodes))
	for path := range sess.EphemeralNodes {
		paths = append(paths, path)
	}
	return paths
}

// Active reports whether the client currently has a session.
func (r *Registry) Active(clientID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sessions[clientID]
	return ok
}

// TrackEphemeral records an ephemeral node under its owning session. It is a
// no-op if the session is gone, which can happen if the client disconnected
// while the create was in flight.
func (r *Registry) TrackEphemeral(clientID, path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sess, ok := r.sessions[clientID]; ok {
		sess.EphemeralNodes[path] = struct{}{}
	}
}

// ForgetEphemeral removes the bookkeeping entry for a deleted ephemeral node.
func (r *Registry) ForgetEphemeral(clientID, path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sess, ok := r.sessions[clientID]; ok {
		delete(sess.EphemeralNodes, path)
	}
}
