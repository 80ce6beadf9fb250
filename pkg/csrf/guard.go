package csrf

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
)

// State tracks the guard's registration progress.
type State int

const (
	// StateNoToken means no pair has been generated yet.
	StateNoToken State = iota
	// StatePending means a pair was generated and registration is in flight.
	StatePending
	// StateReady means the pair was accepted by the server and is reusable for
	// the rest of the guard's lifetime.
	StateReady
)

// Guard holds the browser-side half of the handshake: one pair per tab
// lifetime, registered lazily on first credential operation.
//
// Ensure serializes concurrent first-callers with a mutex, so at most one
// registration round-trip happens per Guard. Registration itself is
// idempotent on the server, so a second Guard racing in the same cookie jar
// is harmless.
type Guard struct {
	endpoint string
	client   *http.Client
	log      *slog.Logger

	mu    sync.Mutex
	state State
	pair  Pair
}

// GuardOption configures a Guard.
type GuardOption func(*Guard)

// WithHTTPClient overrides the HTTP client used for registration.
func WithHTTPClient(c *http.Client) GuardOption {
	return func(g *Guard) {
		if c != nil {
			g.client = c
		}
	}
}

// WithLogger overrides the guard's logger.
func WithLogger(l *slog.Logger) GuardOption {
	return func(g *Guard) {
		if l != nil {
			g.log = l
		}
	}
}

// NewGuard creates a guard registering against the given CSRF endpoint URL.
func NewGuard(endpoint string, opts ...GuardOption) *Guard {
	g := &Guard{
		endpoint: endpoint,
		client:   http.DefaultClient,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// State returns the current registration state.
func (g *Guard) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Ensure returns the registered pair, performing the registration round-trip
// on first use. A registration failure resets the guard so a later call can
// retry with a fresh pair.
func (g *Guard) Ensure(ctx context.Context) (Pair, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state == StateReady {
		return g.pair, nil
	}

	pair := NewPair()
	g.state = StatePending
	g.pair = pair

	if err := g.register(ctx, pair); err != nil {
		g.state = StateNoToken
		g.pair = Pair{}
		g.log.ErrorContext(ctx, "csrf registration failed", slog.Any("error", err))
		return Pair{}, err
	}

	g.state = StateReady
	return pair, nil
}

// Attach adds the pair's headers to an outgoing request.
func (p Pair) Attach(r *http.Request) {
	r.Header.Set(HeaderToken, p.Token)
	r.Header.Set(HeaderName, p.Name)
}

func (g *Guard) register(ctx context.Context, pair Pair) error {
	body, err := json.Marshal(pair)
	if err != nil {
		return errors.Join(ErrRegistrationFail, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return errors.Join(ErrRegistrationFail, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return errors.Join(ErrRegistrationFail, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status %d", ErrRegistrationFail, resp.StatusCode)
	}

	return nil
}
