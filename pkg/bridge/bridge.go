package bridge

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/supakit/pkg/authsdk"
)

// Callback is invoked after the bridge has finished persisting the effect of
// an auth event. Cookie writes are complete by the time it runs, so a
// navigation triggered from it sees the new auth state server-side.
type Callback func(ctx context.Context, e authsdk.Event)

// SignInHook runs once per bridge lifetime, on the first sign-in. Typical use
// is dropping a short-lived marker cookie so the next server render can tell
// a fresh login from a returning session.
type SignInHook func(ctx context.Context, s *authsdk.Session)

// Bridge keeps cookies and the session store synchronized with the SDK's auth
// event stream. Create one per tab/client lifetime and drive it with Run.
type Bridge struct {
	client     authsdk.Client
	storage    authsdk.Storage
	store      *SessionStore
	storageKey string
	log        *slog.Logger
	callback   Callback
	signInHook SignInHook

	// Run-loop-only state, no locking needed.
	lastExpiresAt int64
	haveCached    bool
	signedIn      bool
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithLogger overrides the bridge logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Bridge) {
		if l != nil {
			b.log = l
		}
	}
}

// WithCallback sets the post-persist event callback.
func WithCallback(cb Callback) Option {
	return func(b *Bridge) { b.callback = cb }
}

// WithSignInHook sets the once-per-lifetime first sign-in hook.
func WithSignInHook(hook SignInHook) Option {
	return func(b *Bridge) { b.signInHook = hook }
}

// New creates a Bridge wiring the SDK client's events to storage and store.
func New(client authsdk.Client, storage authsdk.Storage, store *SessionStore, storageKey string, opts ...Option) *Bridge {
	b := &Bridge{
		client:     client,
		storage:    storage,
		store:      store,
		storageKey: storageKey,
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Store returns the observable session store the bridge maintains.
func (b *Bridge) Store() *SessionStore {
	return b.store
}

// Run consumes the SDK's auth event stream until ctx is cancelled or the
// stream closes. Events are handled sequentially: each cookie write completes
// before the next event is taken.
func (b *Bridge) Run(ctx context.Context) error {
	sub := b.client.OnAuthStateChange(ctx)
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-sub.Receive(ctx):
			if !ok {
				return nil
			}
			b.handle(ctx, msg.Data)
		}
	}
}

func (b *Bridge) handle(ctx context.Context, e authsdk.Event) {
	switch e.Type {
	case authsdk.EventSignedOut:
		if err := b.storage.RemoveItem(ctx, b.storageKey); err != nil {
			b.log.ErrorContext(ctx, "cookie removal failed", slog.Any("error", err))
		}
		b.lastExpiresAt = 0
		b.haveCached = false
		b.store.Set(ctx, nil)

	case authsdk.EventInitialSession:
		if e.Session == nil {
			b.store.Set(ctx, nil)
			break
		}
		// Re-registering the restored session lets the SDK pick up its
		// refresh schedule. The duplicate SIGNED_IN it raises carries the
		// same expires_at and is suppressed below.
		if _, err := b.client.SetSession(ctx, e.Session); err != nil {
			b.log.ErrorContext(ctx, "initial session registration failed", slog.Any("error", err))
			break
		}
		b.lastExpiresAt = e.Session.ExpiresAt
		b.haveCached = true
		b.store.Set(ctx, e.Session)

	case authsdk.EventSignedIn, authsdk.EventTokenRefreshed, authsdk.EventUserUpdated:
		if e.Session == nil {
			break
		}
		// The SDK raises SIGNED_IN liberally (tab focus, setSession echo).
		// Only a changed expiry means new credentials; a duplicate skips
		// both the cookie write and the store notification. Refresh and
		// profile updates always carry fresh payloads.
		duplicate := e.Type == authsdk.EventSignedIn &&
			b.haveCached && e.Session.ExpiresAt == b.lastExpiresAt
		if !duplicate {
			if err := b.persist(ctx, e.Session); err != nil {
				b.log.ErrorContext(ctx, "cookie write failed", slog.Any("error", err))
				break
			}
			b.lastExpiresAt = e.Session.ExpiresAt
			b.haveCached = true
			b.store.Set(ctx, e.Session)
		}

		if e.Type == authsdk.EventSignedIn && !b.signedIn {
			b.signedIn = true
			if b.signInHook != nil {
				b.signInHook(ctx, e.Session)
			}
		}
	}

	if b.callback != nil {
		b.callback(ctx, e)
	}
}

func (b *Bridge) persist(ctx context.Context, session *authsdk.Session) error {
	value, err := session.Encode()
	if err != nil {
		return err
	}
	return b.storage.SetItem(ctx, b.storageKey, value)
}
