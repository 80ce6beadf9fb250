package bridge

import (
	"context"
	"sync"

	"github.com/dmitrymomot/supakit/pkg/authsdk"
	"github.com/dmitrymomot/supakit/pkg/broadcast"
)

// SessionStore holds the current session and notifies subscribers on every
// change. It is the UI-facing view of the auth state: Get for the current
// value, Subscribe for updates.
type SessionStore struct {
	mu      sync.RWMutex
	current *authsdk.Session
	events  *broadcast.Memory[*authsdk.Session]
}

// NewSessionStore creates an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		events: broadcast.NewMemory[*authsdk.Session](8),
	}
}

// Get returns the current session, nil when signed out.
func (s *SessionStore) Get() *authsdk.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Set replaces the current session and broadcasts the new value. A nil
// session means signed out.
func (s *SessionStore) Set(ctx context.Context, session *authsdk.Session) {
	s.mu.Lock()
	s.current = session
	s.mu.Unlock()

	_ = s.events.Broadcast(ctx, broadcast.Message[*authsdk.Session]{Data: session})
}

// Subscribe registers an observer for session changes. The subscription is
// torn down when ctx is cancelled.
func (s *SessionStore) Subscribe(ctx context.Context) broadcast.Subscriber[*authsdk.Session] {
	return s.events.Subscribe(ctx)
}

// Close shuts down the store's event stream.
func (s *SessionStore) Close() error {
	return s.events.Close()
}
