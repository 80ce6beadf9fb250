package storage

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrymomot/supakit/pkg/authsdk"
	"github.com/dmitrymomot/supakit/pkg/cookie"
)

// Server implements authsdk.Storage directly against the framework's
// request-scoped cookie jar. It runs in the same process as the HTTP handler,
// so there is no network hop and no CSRF handshake.
type Server struct {
	w          http.ResponseWriter
	r          *http.Request
	cookies    *cookie.Manager
	storageKey string
}

// NewServer binds the storage capability to one request/response pair.
func NewServer(w http.ResponseWriter, r *http.Request, cookies *cookie.Manager, storageKey string) *Server {
	return &Server{
		w:          w,
		r:          r,
		cookies:    cookies,
		storageKey: storageKey,
	}
}

// GetItem reads the cookie as-is. A missing cookie yields an empty value, not
// an error: the SDK treats absent credentials as a signed-out state.
func (s *Server) GetItem(ctx context.Context, key string) (string, error) {
	value, err := s.cookies.Get(s.r, key)
	if err != nil {
		if errors.Is(err, cookie.ErrCookieNotFound) {
			return "", nil
		}
		return "", err
	}
	return value, nil
}

// SetItem writes the cookie with the profile its classification demands.
// Credential-family cookies become session cookies unless the remember-me
// flag cookie opts the browser in to long-lived storage.
func (s *Server) SetItem(ctx context.Context, key, value string) error {
	class := cookie.Classify(key)
	if cookie.IsAuthToken(key, s.storageKey) {
		class = cookie.ClassAuthToken
	}

	profile := cookie.ProfileForKey(class, s.cookies.RememberMe(s.r))
	s.cookies.SetWithProfile(s.w, key, value, profile)
	return nil
}

// RemoveItem expires the cookie. Removing the primary credential cascades to
// the derived provider-token cookies: they have no independent lifecycle.
func (s *Server) RemoveItem(ctx context.Context, key string) error {
	s.cookies.Delete(s.w, key)

	if cookie.IsAuthToken(key, s.storageKey) {
		for _, name := range []string{cookie.ProviderTokenCookie, cookie.ProviderRefreshTokenCookie} {
			if _, err := s.cookies.Get(s.r, name); err == nil {
				s.cookies.Delete(s.w, name)
			}
		}
	}

	return nil
}

var _ authsdk.Storage = (*Server)(nil)
