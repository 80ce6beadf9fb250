package cookie

import (
	"errors"
	"net/http"
	"net/url"
	"time"
)

// Manager writes and reads cookies with a fixed set of default options.
// Writes go through a Profile so every cookie carries the attribute shape
// its semantic class requires.
type Manager struct {
	defaults Options
}

func New(opts ...Option) *Manager {
	defaults := Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}

	defaults = applyOptions(defaults, opts)

	return &Manager{defaults: defaults}
}

// Defaults returns a copy of the manager's base options.
func (m *Manager) Defaults() Options {
	return applyOptions(m.defaults, nil)
}

func (m *Manager) Set(w http.ResponseWriter, name, value string, opts ...Option) {
	options := applyOptions(m.defaults, opts)
	http.SetCookie(w, newCookie(name, value, options))
}

// SetWithProfile writes a cookie with the attribute shape of the given profile
// derived from the manager's defaults.
func (m *Manager) SetWithProfile(w http.ResponseWriter, name, value string, profile Profile) {
	options := Apply(profile, m.defaults)
	http.SetCookie(w, newCookie(name, value, options))
}

func (m *Manager) Get(r *http.Request, name string) (string, error) {
	cookie, err := r.Cookie(name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", ErrCookieNotFound
		}
		return "", err
	}
	// Values set outside the manager may be unescaped; return them as-is.
	if decoded, err := url.QueryUnescape(cookie.Value); err == nil {
		return decoded, nil
	}
	return cookie.Value, nil
}

// Delete expires the named cookie immediately.
func (m *Manager) Delete(w http.ResponseWriter, name string) {
	options := Apply(ProfileExpire, m.defaults)
	http.SetCookie(w, newCookie(name, "", options))
}

// RememberMe reads the remember-me flag cookie, defaulting to true when absent.
func (m *Manager) RememberMe(r *http.Request) bool {
	value, err := m.Get(r, RememberMeCookie)
	if err != nil {
		return true
	}
	return ParseRememberMe(value)
}

// newCookie escapes the value so session blobs (JSON, quotes and commas)
// survive the Set-Cookie header. The escaping is encodeURIComponent-compatible
// for browser-side readers of non-httpOnly cookies.
func newCookie(name, value string, options Options) *http.Cookie {
	c := &http.Cookie{
		Name:     name,
		Value:    url.QueryEscape(value),
		Path:     options.Path,
		Domain:   options.Domain,
		MaxAge:   options.MaxAge,
		Secure:   options.Secure,
		HttpOnly: options.HttpOnly,
		SameSite: options.SameSite,
	}
	if !options.Expires.IsZero() {
		c.Expires = options.Expires
	}
	// MaxAge -1 alone is enough for net/http, but an explicit epoch Expires
	// keeps clients that ignore Max-Age from resurrecting the cookie.
	if options.MaxAge < 0 {
		c.Expires = time.Unix(0, 0)
	}
	return c
}
