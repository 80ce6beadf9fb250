package supakit

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/supakit/pkg/authsdk"
)

// withSession is the fallthrough half of the middleware: rebuild the session
// from cookies, authenticate a request-scoped client with it, and expose both
// on the context.
func (h *Handler) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := h.primaryKey(r)
		if key == "" {
			next.ServeHTTP(w, r)
			return
		}

		value, err := h.cookies.Get(r, key)
		if err != nil || value == "" {
			next.ServeHTTP(w, r)
			return
		}

		session, err := authsdk.ParseSession(value)
		if err != nil {
			h.log.WarnContext(r.Context(), "credential cookie is not a session blob",
				slog.String("key", key), slog.Any("error", err))
			next.ServeHTTP(w, r)
			return
		}

		// Expiry bookkeeping comes from the unverified token claims; the
		// httpOnly cookie is the trust anchor, the claims are not used for
		// authorization.
		now := time.Now()
		if claims, err := authsdk.DecodeAccessToken(session.AccessToken); err == nil && claims.ExpiresAt > 0 {
			session.ApplyExpiry(claims.ExpiresAt, now)
		}

		client := h.factory(h.serverStorage(w, r))

		// Eager SetSession so downstream handler code gets an already
		// authenticated client. SDK failures are fatal to the request: no
		// partial session is registered.
		current, err := client.SetSession(r.Context(), session)
		if err != nil {
			h.log.ErrorContext(r.Context(), "session restore failed", slog.Any("error", err))
			http.Error(w, "session restore failed", http.StatusInternalServerError)
			return
		}

		// Near-expiry sessions go back through the SDK, whose refresh flow
		// rewrites the cookies via the attached server storage.
		if current.ExpiresWithin(now, h.cfg.RefreshThreshold) {
			if refreshed, err := client.GetSession(r.Context()); err == nil && refreshed != nil {
				current = refreshed
			} else if err != nil {
				h.log.WarnContext(r.Context(), "token refresh failed", slog.Any("error", err))
			}
		}

		ctx := WithSession(r.Context(), current)
		ctx = WithClient(ctx, client)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
