package supakit

import (
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrymomot/supakit/pkg/authsdk"
	"github.com/dmitrymomot/supakit/pkg/cookie"
	"github.com/dmitrymomot/supakit/pkg/csrf"
	"github.com/dmitrymomot/supakit/pkg/storage"
)

// ConfigCookie delivers the resolved client options to the browser so it can
// bootstrap without a fetch. Readable by client script, short-lived.
const ConfigCookie = "supakit-config"

// handleCallback completes the OAuth PKCE flow: exchange the code through the
// SDK, then redirect to the next target with the cookie jar propagated.
func (h *Handler) handleCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	next := r.URL.Query().Get("next")
	if next == "" {
		next = "/"
	}

	if code != "" {
		client := h.factory(h.serverStorage(w, r))
		if _, err := client.ExchangeCodeForSession(r.Context(), code); err != nil {
			h.log.ErrorContext(r.Context(), "oauth code exchange failed", slog.Any("error", err))
			http.Error(w, "code exchange failed", http.StatusInternalServerError)
			return
		}
	}

	h.propagateCookies(w, r)
	http.Redirect(w, r, next, http.StatusSeeOther)
}

// handleConfirm verifies an OTP / email-link token hash. Structurally the
// same as the callback: verify, propagate cookies, redirect.
func (h *Handler) handleConfirm(w http.ResponseWriter, r *http.Request) {
	tokenHash := r.URL.Query().Get("token_hash")
	otpType := r.URL.Query().Get("type")
	next := r.URL.Query().Get("next")
	if next == "" {
		next = "/"
	}

	if tokenHash != "" {
		client := h.factory(h.serverStorage(w, r))
		if _, err := client.VerifyOtp(r.Context(), tokenHash, otpType); err != nil {
			h.log.ErrorContext(r.Context(), "otp verification failed", slog.Any("error", err))
			http.Error(w, "otp verification failed", http.StatusInternalServerError)
			return
		}
	}

	h.propagateCookies(w, r)
	http.Redirect(w, r, next, http.StatusSeeOther)
}

// handleCSRF registers a double-submit pair: the name half is stored as a
// cookie, the token half stays in the browser tab's memory.
func (h *Handler) handleCSRF(w http.ResponseWriter, r *http.Request) {
	if err := csrf.CheckOrigin(r); err != nil {
		h.log.WarnContext(r.Context(), "csrf origin check failed", slog.Any("error", err))
		csrf.WriteForbidden(w, r)
		return
	}

	var pair csrf.Pair
	if err := json.NewDecoder(r.Body).Decode(&pair); err != nil || !pair.Valid() {
		http.Error(w, "Invalid body.", http.StatusBadRequest)
		return
	}

	// The pair lives for one tab lifetime; its cookie dies with the browser
	// session regardless of the remember-me policy.
	h.cookies.SetWithProfile(w, csrf.CookieName(pair.Name), pair.Token, cookie.ProfileSession)
	w.WriteHeader(http.StatusOK)
}

// handleCookieGet serves a single cookie value to the browser adapter.
func (h *Handler) handleCookieGet(w http.ResponseWriter, r *http.Request) {
	if !h.validateCSRF(w, r) {
		return
	}

	key := r.Header.Get(storage.HeaderStorageKey)
	value, err := h.cookies.Get(r, key)

	var payload struct {
		Cookie *string `json:"cookie"`
	}
	if err == nil && key != "" {
		payload.Cookie = &value
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.log.ErrorContext(r.Context(), "cookie response encoding failed", slog.Any("error", err))
	}
}

// handleCookiePost writes a credential cookie, plus the derived
// provider-token cookies when the posted session carries them.
func (h *Handler) handleCookiePost(w http.ResponseWriter, r *http.Request) {
	if !h.validateCSRF(w, r) {
		return
	}

	var body struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Key == "" {
		http.Error(w, "Invalid body.", http.StatusBadRequest)
		return
	}

	store := h.serverStorage(w, r)
	if err := store.SetItem(r.Context(), body.Key, body.Value); err != nil {
		h.log.ErrorContext(r.Context(), "cookie write failed", slog.String("key", body.Key), slog.Any("error", err))
		http.Error(w, "cookie write failed", http.StatusInternalServerError)
		return
	}

	// Derived provider-token cookies piggyback on primary credential writes.
	if cookie.IsAuthToken(body.Key, h.cfg.StorageKey) {
		if session, err := authsdk.ParseSession(body.Value); err == nil {
			if session.ProviderToken != "" {
				_ = store.SetItem(r.Context(), cookie.ProviderTokenCookie, session.ProviderToken)
			}
			if session.ProviderRefreshToken != "" {
				_ = store.SetItem(r.Context(), cookie.ProviderRefreshTokenCookie, session.ProviderRefreshToken)
			}
		}
	}

	w.WriteHeader(http.StatusOK)
}

// handleCookieDelete expires a credential cookie, cascading to the provider
// tokens when the primary credential is removed.
func (h *Handler) handleCookieDelete(w http.ResponseWriter, r *http.Request) {
	if !h.validateCSRF(w, r) {
		return
	}

	var body struct {
		Key string `json:"key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Key == "" {
		// Fall back to the configured primary key: sign-out must work even
		// when the caller omits the body.
		body.Key = h.primaryKey(r)
	}

	store := h.serverStorage(w, r)
	if err := store.RemoveItem(r.Context(), body.Key); err != nil {
		h.log.ErrorContext(r.Context(), "cookie delete failed", slog.String("key", body.Key), slog.Any("error", err))
		http.Error(w, "cookie delete failed", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleConfig serves the resolved client/cookie options so a browser client
// can bootstrap without access to server env. The payload cannot change
// within a running process, so clients cache it; the companion cookie lets
// same-origin scripts skip even the one fetch.
func (h *Handler) handleConfig(w http.ResponseWriter, r *http.Request) {
	payload := struct {
		ClientOptions any `json:"client_options"`
		CookieOptions any `json:"cookie_options"`
	}{
		ClientOptions: h.cfg.ClientOptions(),
		CookieOptions: h.cfg.Cookie,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		h.log.ErrorContext(r.Context(), "config encoding failed", slog.Any("error", err))
		http.Error(w, "config encoding failed", http.StatusInternalServerError)
		return
	}

	encoded := base64.RawURLEncoding.EncodeToString(data)
	h.cookies.SetWithProfile(w, ConfigCookie, encoded, cookie.ProfileConfig)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_, _ = w.Write(data)
}

func (h *Handler) validateCSRF(w http.ResponseWriter, r *http.Request) bool {
	if err := csrf.Validate(r); err != nil {
		h.log.WarnContext(r.Context(), "csrf validation failed", slog.Any("error", err))
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return false
	}
	return true
}

// primaryKey resolves the primary credential cookie name for this request:
// the configured storage key, or the first cookie matching the naming
// convention.
func (h *Handler) primaryKey(r *http.Request) string {
	if h.cfg.StorageKey != "" {
		return h.cfg.StorageKey
	}
	for _, c := range r.Cookies() {
		if cookie.IsAuthToken(c.Name, "") {
			return c.Name
		}
	}
	return ""
}

// propagateCookies copies the request cookies onto a custom redirect response
// (the jar does not auto-propagate there), force-expiring single-use CSRF and
// PKCE code-verifier cookies so they cannot survive past the redirect.
func (h *Handler) propagateCookies(w http.ResponseWriter, r *http.Request) {
	written := responseCookieNames(w)
	rememberMe := h.cookies.RememberMe(r)

	for _, c := range r.Cookies() {
		class := cookie.Classify(c.Name)
		switch class {
		case cookie.ClassCSRF, cookie.ClassCodeVerifier:
			h.cookies.Delete(w, c.Name)
			continue
		}

		// Cookies the exchange already rewrote must not be clobbered with
		// their stale request values.
		if _, ok := written[c.Name]; ok {
			continue
		}

		if cookie.IsAuthToken(c.Name, h.cfg.StorageKey) {
			class = cookie.ClassAuthToken
		}
		// Wire values arrive escaped; decode before the manager re-escapes.
		value := c.Value
		if decoded, err := url.QueryUnescape(value); err == nil {
			value = decoded
		}
		h.cookies.SetWithProfile(w, c.Name, value, cookie.ProfileForKey(class, rememberMe))
	}
}

func responseCookieNames(w http.ResponseWriter) map[string]struct{} {
	names := make(map[string]struct{})
	for _, line := range w.Header().Values("Set-Cookie") {
		if name, _, ok := strings.Cut(line, "="); ok {
			names[name] = struct{}{}
		}
	}
	return names
}
