package supakit

import (
	"context"

	"github.com/dmitrymomot/supakit/pkg/authsdk"
)

type sessionContextKey struct{}
type clientContextKey struct{}

// WithSession adds the reconstructed session view to the context.
func WithSession(ctx context.Context, session *authsdk.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, session)
}

// SessionFromContext retrieves the session view injected by the middleware.
// Returns nil for unauthenticated requests.
func SessionFromContext(ctx context.Context) *authsdk.Session {
	session, _ := ctx.Value(sessionContextKey{}).(*authsdk.Session)
	return session
}

// WithClient adds the request-scoped SDK client to the context.
func WithClient(ctx context.Context, client authsdk.Client) context.Context {
	return context.WithValue(ctx, clientContextKey{}, client)
}

// ClientFromContext retrieves the authenticated SDK client injected by the
// middleware, or nil when no session was found.
func ClientFromContext(ctx context.Context) authsdk.Client {
	client, _ := ctx.Value(clientContextKey{}).(authsdk.Client)
	return client
}
