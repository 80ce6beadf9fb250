package authsdk

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrymomot/supakit/pkg/broadcast"
)

// FakeClient is an in-memory Client for tests and demos. It persists its
// session through the provided Storage, so the cookie round-trip the real SDK
// performs is exercised for real.
type FakeClient struct {
	storage    Storage
	storageKey string
	events     *broadcast.Memory[Event]

	mu      sync.Mutex
	session *Session
	byCode  map[string]*Session
	byOtp   map[string]*Session
}

// NewFakeClient creates a fake SDK client persisting through storage under
// storageKey.
func NewFakeClient(storage Storage, storageKey string) *FakeClient {
	return &FakeClient{
		storage:    storage,
		storageKey: storageKey,
		events:     broadcast.NewMemory[Event](16),
		byCode:     make(map[string]*Session),
		byOtp:      make(map[string]*Session),
	}
}

// SeedExchange registers a session to be returned for an OAuth code.
func (c *FakeClient) SeedExchange(code string, s *Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byCode[code] = s
}

// SeedOtp registers a session to be returned for an OTP token hash.
func (c *FakeClient) SeedOtp(tokenHash string, s *Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byOtp[tokenHash] = s
}

// Emit pushes an arbitrary event into the state change stream. Test hook.
func (c *FakeClient) Emit(ctx context.Context, e Event) {
	_ = c.events.Broadcast(ctx, broadcast.Message[Event]{Data: e})
}

// Close tears down the event stream.
func (c *FakeClient) Close() error {
	return c.events.Close()
}

func (c *FakeClient) GetSession(ctx context.Context) (*Session, error) {
	c.mu.Lock()
	if c.session != nil {
		s := c.session
		c.mu.Unlock()
		return s, nil
	}
	c.mu.Unlock()

	value, err := c.storage.GetItem(ctx, c.storageKey)
	if err != nil || value == "" {
		return nil, ErrNoSession
	}

	session, err := ParseSession(value)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.session = session
	c.mu.Unlock()
	return session, nil
}

func (c *FakeClient) SetSession(ctx context.Context, session *Session) (*Session, error) {
	if session == nil {
		return nil, ErrNoSession
	}

	c.mu.Lock()
	c.session = session
	c.mu.Unlock()

	value, err := session.Encode()
	if err != nil {
		return nil, err
	}
	if err := c.storage.SetItem(ctx, c.storageKey, value); err != nil {
		return nil, err
	}

	// The real SDK raises its own SIGNED_IN after setSession; the bridge's
	// de-duplication depends on this duplicate carrying the same expires_at.
	c.Emit(ctx, Event{Type: EventSignedIn, Session: session})

	return session, nil
}

func (c *FakeClient) ExchangeCodeForSession(ctx context.Context, code string) (*Session, error) {
	c.mu.Lock()
	session, ok := c.byCode[code]
	c.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCode, code)
	}
	return c.SetSession(ctx, session)
}

func (c *FakeClient) VerifyOtp(ctx context.Context, tokenHash, otpType string) (*Session, error) {
	c.mu.Lock()
	session, ok := c.byOtp[tokenHash]
	c.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: type %s", ErrOtpVerification, otpType)
	}
	return c.SetSession(ctx, session)
}

func (c *FakeClient) SignOut(ctx context.Context) error {
	c.mu.Lock()
	c.session = nil
	c.mu.Unlock()

	if err := c.storage.RemoveItem(ctx, c.storageKey); err != nil {
		return err
	}

	c.Emit(ctx, Event{Type: EventSignedOut})
	return nil
}

func (c *FakeClient) OnAuthStateChange(ctx context.Context) broadcast.Subscriber[Event] {
	return c.events.Subscribe(ctx)
}

var _ Client = (*FakeClient)(nil)
