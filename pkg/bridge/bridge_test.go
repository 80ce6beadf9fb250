package bridge_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/supakit/pkg/authsdk"
	"github.com/dmitrymomot/supakit/pkg/bridge"
	"github.com/dmitrymomot/supakit/pkg/broadcast"
)

const storageKey = "sb-project-auth-token"

type countingStorage struct {
	mu      sync.Mutex
	items   map[string]string
	sets    int
	removes int
}

func newCountingStorage() *countingStorage {
	return &countingStorage{items: make(map[string]string)}
}

func (s *countingStorage) GetItem(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items[key], nil
}

func (s *countingStorage) SetItem(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = value
	s.sets++
	return nil
}

func (s *countingStorage) RemoveItem(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	s.removes++
	return nil
}

func (s *countingStorage) setCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sets
}

func (s *countingStorage) value(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items[key]
}

// harness runs a bridge in the background and exposes a channel signalling
// each fully handled event.
type harness struct {
	client  *authsdk.FakeClient
	storage *countingStorage
	store   *bridge.SessionStore
	handled chan authsdk.EventType
}

func startBridge(t *testing.T, opts ...bridge.Option) *harness {
	t.Helper()

	h := &harness{
		storage: newCountingStorage(),
		store:   bridge.NewSessionStore(),
		handled: make(chan authsdk.EventType, 16),
	}
	h.client = authsdk.NewFakeClient(h.storage, storageKey)

	opts = append(opts, bridge.WithCallback(func(_ context.Context, e authsdk.Event) {
		h.handled <- e.Type
	}))
	b := bridge.New(h.client, h.storage, h.store, storageKey, opts...)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = b.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
		_ = h.client.Close()
		_ = h.store.Close()
	})

	return h
}

func (h *harness) emit(t *testing.T, e authsdk.Event) {
	t.Helper()
	h.client.Emit(context.Background(), e)
	select {
	case got := <-h.handled:
		require.Equal(t, e.Type, got)
	case <-time.After(2 * time.Second):
		t.Fatalf("event %s was not handled", e.Type)
	}
}

func sessionWithExpiry(exp int64) *authsdk.Session {
	return &authsdk.Session{AccessToken: "at", RefreshToken: "rt", ExpiresAt: exp}
}

// drainUpdates counts the store notifications already buffered. Events are
// handled sequentially, so by the time emit returns every notification for
// that event has been broadcast.
func drainUpdates(ctx context.Context, sub broadcast.Subscriber[*authsdk.Session]) int {
	n := 0
	for {
		select {
		case _, ok := <-sub.Receive(ctx):
			if !ok {
				return n
			}
			n++
		default:
			return n
		}
	}
}

func TestBridgeSignIn(t *testing.T) {
	t.Parallel()

	t.Run("persists session and updates store", func(t *testing.T) {
		t.Parallel()
		h := startBridge(t)
		session := sessionWithExpiry(1000)

		h.emit(t, authsdk.Event{Type: authsdk.EventSignedIn, Session: session})

		assert.Equal(t, 1, h.storage.setCount())
		assert.Contains(t, h.storage.value(storageKey), `"access_token":"at"`)
		require.NotNil(t, h.store.Get())
		assert.Equal(t, int64(1000), h.store.Get().ExpiresAt)
	})

	t.Run("duplicate expiry writes and notifies once", func(t *testing.T) {
		t.Parallel()
		h := startBridge(t)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		sub := h.store.Subscribe(ctx)
		session := sessionWithExpiry(1000)

		h.emit(t, authsdk.Event{Type: authsdk.EventSignedIn, Session: session})
		h.emit(t, authsdk.Event{Type: authsdk.EventSignedIn, Session: session})

		assert.Equal(t, 1, h.storage.setCount())
		assert.Equal(t, 1, drainUpdates(ctx, sub), "duplicate sign-in must not notify subscribers again")
	})

	t.Run("expiry-less duplicate is still suppressed", func(t *testing.T) {
		t.Parallel()
		h := startBridge(t)
		session := &authsdk.Session{AccessToken: "at", RefreshToken: "rt"}

		h.emit(t, authsdk.Event{Type: authsdk.EventSignedIn, Session: session})
		h.emit(t, authsdk.Event{Type: authsdk.EventSignedIn, Session: session})

		assert.Equal(t, 1, h.storage.setCount())
	})

	t.Run("changed expiry writes again", func(t *testing.T) {
		t.Parallel()
		h := startBridge(t)

		h.emit(t, authsdk.Event{Type: authsdk.EventSignedIn, Session: sessionWithExpiry(1000)})
		h.emit(t, authsdk.Event{Type: authsdk.EventSignedIn, Session: sessionWithExpiry(2000)})

		assert.Equal(t, 2, h.storage.setCount())
	})

	t.Run("token refresh always writes", func(t *testing.T) {
		t.Parallel()
		h := startBridge(t)
		session := sessionWithExpiry(1000)

		h.emit(t, authsdk.Event{Type: authsdk.EventSignedIn, Session: session})
		h.emit(t, authsdk.Event{Type: authsdk.EventTokenRefreshed, Session: session})

		assert.Equal(t, 2, h.storage.setCount())
	})

	t.Run("sign-in hook fires once per lifetime", func(t *testing.T) {
		t.Parallel()
		var mu sync.Mutex
		calls := 0
		h := startBridge(t, bridge.WithSignInHook(func(context.Context, *authsdk.Session) {
			mu.Lock()
			calls++
			mu.Unlock()
		}))

		h.emit(t, authsdk.Event{Type: authsdk.EventSignedIn, Session: sessionWithExpiry(1000)})
		h.emit(t, authsdk.Event{Type: authsdk.EventSignedIn, Session: sessionWithExpiry(2000)})

		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, 1, calls)
	})
}

func TestBridgeSignOut(t *testing.T) {
	t.Parallel()
	h := startBridge(t)

	h.emit(t, authsdk.Event{Type: authsdk.EventSignedIn, Session: sessionWithExpiry(1000)})
	h.emit(t, authsdk.Event{Type: authsdk.EventSignedOut})

	assert.Empty(t, h.storage.value(storageKey))
	assert.Nil(t, h.store.Get())

	// The expiry cache was cleared: the same session signing in again is a
	// fresh login, not a duplicate.
	h.emit(t, authsdk.Event{Type: authsdk.EventSignedIn, Session: sessionWithExpiry(1000)})
	assert.Equal(t, 2, h.storage.setCount())
}

func TestBridgeInitialSession(t *testing.T) {
	t.Parallel()

	t.Run("registers restored session with the client", func(t *testing.T) {
		t.Parallel()
		h := startBridge(t)
		session := sessionWithExpiry(1000)

		h.emit(t, authsdk.Event{Type: authsdk.EventInitialSession, Session: session})

		// The fake echoes SetSession as a SIGNED_IN with the same expiry,
		// which the bridge must swallow without a second write.
		select {
		case got := <-h.handled:
			require.Equal(t, authsdk.EventSignedIn, got)
		case <-time.After(2 * time.Second):
			t.Fatal("echoed sign-in was not handled")
		}

		assert.Equal(t, 1, h.storage.setCount())
		restored, err := h.client.GetSession(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(1000), restored.ExpiresAt)
	})

	t.Run("expiry-less restored session echo is suppressed", func(t *testing.T) {
		t.Parallel()
		h := startBridge(t)
		session := &authsdk.Session{AccessToken: "at", RefreshToken: "rt"}

		h.emit(t, authsdk.Event{Type: authsdk.EventInitialSession, Session: session})

		select {
		case got := <-h.handled:
			require.Equal(t, authsdk.EventSignedIn, got)
		case <-time.After(2 * time.Second):
			t.Fatal("echoed sign-in was not handled")
		}

		assert.Equal(t, 1, h.storage.setCount())
	})

	t.Run("nil session clears the store", func(t *testing.T) {
		t.Parallel()
		h := startBridge(t)
		h.store.Set(context.Background(), sessionWithExpiry(1000))

		h.emit(t, authsdk.Event{Type: authsdk.EventInitialSession})

		assert.Nil(t, h.store.Get())
		assert.Zero(t, h.storage.setCount())
	})
}

func TestBridgeCallbackOrdering(t *testing.T) {
	t.Parallel()

	storage := newCountingStorage()
	client := authsdk.NewFakeClient(storage, storageKey)
	store := bridge.NewSessionStore()

	// The callback must observe the cookie write already applied.
	sawValue := make(chan string, 1)
	b := bridge.New(client, storage, store, storageKey,
		bridge.WithCallback(func(ctx context.Context, e authsdk.Event) {
			if e.Type == authsdk.EventSignedIn {
				sawValue <- storage.value(storageKey)
			}
		}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = b.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
		_ = client.Close()
		_ = store.Close()
	})

	client.Emit(context.Background(), authsdk.Event{Type: authsdk.EventSignedIn, Session: sessionWithExpiry(1000)})

	select {
	case value := <-sawValue:
		assert.Contains(t, value, `"refresh_token":"rt"`)
	case <-time.After(2 * time.Second):
		t.Fatal("callback never fired")
	}
}

func TestSessionStore(t *testing.T) {
	t.Parallel()

	t.Run("get reflects last set", func(t *testing.T) {
		t.Parallel()
		store := bridge.NewSessionStore()
		t.Cleanup(func() { _ = store.Close() })

		assert.Nil(t, store.Get())
		store.Set(context.Background(), sessionWithExpiry(1000))
		require.NotNil(t, store.Get())
		store.Set(context.Background(), nil)
		assert.Nil(t, store.Get())
	})

	t.Run("subscribers observe changes", func(t *testing.T) {
		t.Parallel()
		store := bridge.NewSessionStore()
		t.Cleanup(func() { _ = store.Close() })

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		sub := store.Subscribe(ctx)

		store.Set(context.Background(), sessionWithExpiry(1000))

		select {
		case msg := <-sub.Receive(ctx):
			require.NotNil(t, msg.Data)
			assert.Equal(t, int64(1000), msg.Data.ExpiresAt)
		case <-time.After(2 * time.Second):
			t.Fatal("subscriber did not receive update")
		}
	})
}
