package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/dmitrymomot/supakit/pkg/authsdk"
	"github.com/dmitrymomot/supakit/pkg/cookie"
	"github.com/dmitrymomot/supakit/pkg/csrf"
)

// HeaderStorageKey carries the requested cookie key on credential reads.
const HeaderStorageKey = "x-storage-key"

// Browser implements authsdk.Storage by proxying to the server's cookie
// endpoint. One instance corresponds to one browser tab: the CSRF pair and
// the primary-credential cache live for the adapter's lifetime.
type Browser struct {
	cookieURL  string
	client     *http.Client
	guard      *csrf.Guard
	storageKey string
	log        *slog.Logger

	mu     sync.Mutex
	cache  string
	cached bool
}

// BrowserOption configures a Browser adapter.
type BrowserOption func(*Browser)

// WithHTTPClient overrides the HTTP client used for credential I/O.
func WithHTTPClient(c *http.Client) BrowserOption {
	return func(b *Browser) {
		if c != nil {
			b.client = c
		}
	}
}

// WithLogger overrides the adapter's logger.
func WithLogger(l *slog.Logger) BrowserOption {
	return func(b *Browser) {
		if l != nil {
			b.log = l
		}
	}
}

// WithGuard supplies a shared CSRF guard, e.g. when several adapters live in
// the same tab.
func WithGuard(g *csrf.Guard) BrowserOption {
	return func(b *Browser) {
		if g != nil {
			b.guard = g
		}
	}
}

// NewBrowser creates a browser-side adapter talking to the supakit endpoints
// mounted under baseURL (e.g. "https://app.example.com/supakit").
func NewBrowser(baseURL, storageKey string, opts ...BrowserOption) *Browser {
	b := &Browser{
		cookieURL:  baseURL + "/cookie",
		client:     http.DefaultClient,
		storageKey: storageKey,
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.guard == nil {
		b.guard = csrf.NewGuard(baseURL+"/csrf",
			csrf.WithHTTPClient(b.client),
			csrf.WithLogger(b.log),
		)
	}
	return b
}

// GetItem fetches the cookie value for key. Reads of the primary credential
// are served from the in-memory cache when populated. Network failures after
// a successful handshake degrade to an empty read; a failed handshake
// propagates.
func (b *Browser) GetItem(ctx context.Context, key string) (string, error) {
	if b.isPrimary(key) {
		b.mu.Lock()
		if b.cached {
			value := b.cache
			b.mu.Unlock()
			return value, nil
		}
		b.mu.Unlock()
	}

	pair, err := b.guard.Ensure(ctx)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.cookieURL, nil)
	if err != nil {
		return "", err
	}
	pair.Attach(req)
	req.Header.Set(HeaderStorageKey, key)

	resp, err := b.client.Do(req)
	if err != nil {
		b.log.ErrorContext(ctx, "cookie read failed", slog.String("key", key), slog.Any("error", err))
		return "", nil
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		b.log.WarnContext(ctx, "cookie read rejected", slog.String("key", key), slog.Int("status", resp.StatusCode))
		return "", nil
	}

	var body struct {
		Cookie *string `json:"cookie"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		b.log.ErrorContext(ctx, "cookie response decode failed", slog.Any("error", err))
		return "", nil
	}

	var value string
	if body.Cookie != nil {
		value = *body.Cookie
	}

	if b.isPrimary(key) {
		b.mu.Lock()
		b.cache = value
		b.cached = true
		b.mu.Unlock()
	}

	return value, nil
}

// SetItem persists the value. The primary credential is cached write-through
// before the network call so concurrent reads in the same tick see the new
// value immediately.
func (b *Browser) SetItem(ctx context.Context, key, value string) error {
	if b.isPrimary(key) {
		b.mu.Lock()
		b.cache = value
		b.cached = true
		b.mu.Unlock()
	}

	pair, err := b.guard.Ensure(ctx)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(map[string]string{"key": key, "value": value})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.cookieURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	pair.Attach(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		b.log.ErrorContext(ctx, "cookie write failed", slog.String("key", key), slog.Any("error", err))
		return nil
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		b.log.WarnContext(ctx, "cookie write rejected", slog.String("key", key), slog.Int("status", resp.StatusCode))
	}

	return nil
}

// RemoveItem deletes the cookie and clears the cache for the primary key.
func (b *Browser) RemoveItem(ctx context.Context, key string) error {
	if b.isPrimary(key) {
		b.mu.Lock()
		b.cache = ""
		b.cached = false
		b.mu.Unlock()
	}

	pair, err := b.guard.Ensure(ctx)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(map[string]string{"key": key})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, b.cookieURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	pair.Attach(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		b.log.ErrorContext(ctx, "cookie delete failed", slog.String("key", key), slog.Any("error", err))
		return nil
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		b.log.WarnContext(ctx, "cookie delete rejected", slog.String("key", key), slog.Int("status", resp.StatusCode))
	}

	return nil
}

func (b *Browser) isPrimary(key string) bool {
	return cookie.IsAuthToken(key, b.storageKey)
}

var _ authsdk.Storage = (*Browser)(nil)
