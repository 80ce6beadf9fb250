package authsdk

import (
	"context"

	"github.com/dmitrymomot/supakit/pkg/broadcast"
)

// Storage is the SDK's pluggable credential storage capability. The browser
// adapter proxies it over HTTP; the server adapter binds it to the
// request-scoped cookie jar.
type Storage interface {
	GetItem(ctx context.Context, key string) (string, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}

// Client is the black-box capability set consumed from the auth SDK.
type Client interface {
	// GetSession returns the current session or ErrNoSession.
	GetSession(ctx context.Context) (*Session, error)

	// SetSession installs a session on the client, persisting it through the
	// client's storage. The SDK fires its own SIGNED_IN event as a side
	// effect; the returned session may carry refreshed tokens.
	SetSession(ctx context.Context, session *Session) (*Session, error)

	// ExchangeCodeForSession completes the OAuth PKCE flow.
	ExchangeCodeForSession(ctx context.Context, code string) (*Session, error)

	// VerifyOtp verifies an email/OTP token hash of the given type.
	VerifyOtp(ctx context.Context, tokenHash, otpType string) (*Session, error)

	// SignOut destroys the current session.
	SignOut(ctx context.Context) error

	// OnAuthStateChange subscribes to the push-based state change stream.
	OnAuthStateChange(ctx context.Context) broadcast.Subscriber[Event]
}
