package storage_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/supakit/pkg/cookie"
	"github.com/dmitrymomot/supakit/pkg/storage"
)

const storageKey = "sb-project-auth-token"

func newManager() *cookie.Manager {
	return cookie.NewFromConfig(cookie.DefaultConfig())
}

func findCookie(t *testing.T, cookies []*http.Cookie, name string) *http.Cookie {
	t.Helper()
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %q not found", name)
	return nil
}

func TestServer_GetItem(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: storageKey, Value: "blob"})
	s := storage.NewServer(httptest.NewRecorder(), r, newManager(), storageKey)

	got, err := s.GetItem(context.Background(), storageKey)
	require.NoError(t, err)
	assert.Equal(t, "blob", got)

	// Absent cookies read as empty, not as an error.
	got, err = s.GetItem(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestServer_SetItem_RememberMePolicy(t *testing.T) {
	t.Parallel()

	t.Run("no remember-me cookie defaults to long-lived", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", nil)
		s := storage.NewServer(w, r, newManager(), storageKey)

		require.NoError(t, s.SetItem(context.Background(), storageKey, "blob"))

		c := findCookie(t, w.Result().Cookies(), storageKey)
		assert.Equal(t, 31536000, c.MaxAge)
		assert.True(t, c.HttpOnly)
	})

	t.Run("remember-me false writes a session cookie", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", nil)
		r.AddCookie(&http.Cookie{Name: cookie.RememberMeCookie, Value: "false"})
		s := storage.NewServer(w, r, newManager(), storageKey)

		require.NoError(t, s.SetItem(context.Background(), storageKey, "blob"))

		c := findCookie(t, w.Result().Cookies(), storageKey)
		assert.Zero(t, c.MaxAge)
		assert.True(t, c.Expires.IsZero())
		assert.True(t, c.HttpOnly)
	})

	t.Run("provider tokens follow the same policy", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", nil)
		r.AddCookie(&http.Cookie{Name: cookie.RememberMeCookie, Value: "false"})
		s := storage.NewServer(w, r, newManager(), storageKey)

		require.NoError(t, s.SetItem(context.Background(), cookie.ProviderTokenCookie, "pt"))

		c := findCookie(t, w.Result().Cookies(), cookie.ProviderTokenCookie)
		assert.Zero(t, c.MaxAge)
	})

	t.Run("remember-me flag cookie is script readable", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", nil)
		s := storage.NewServer(w, r, newManager(), storageKey)

		require.NoError(t, s.SetItem(context.Background(), cookie.RememberMeCookie, "true"))

		c := findCookie(t, w.Result().Cookies(), cookie.RememberMeCookie)
		assert.False(t, c.HttpOnly)
		assert.Greater(t, c.MaxAge, 31536000)
	})

	t.Run("custom storage key classifies as auth token", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", nil)
		r.AddCookie(&http.Cookie{Name: cookie.RememberMeCookie, Value: "false"})
		s := storage.NewServer(w, r, newManager(), "my-session")

		require.NoError(t, s.SetItem(context.Background(), "my-session", "blob"))

		c := findCookie(t, w.Result().Cookies(), "my-session")
		assert.Zero(t, c.MaxAge)
	})

	t.Run("unclassified keys keep base options", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", nil)
		s := storage.NewServer(w, r, newManager(), storageKey)

		require.NoError(t, s.SetItem(context.Background(), "theme", "dark"))

		c := findCookie(t, w.Result().Cookies(), "theme")
		assert.Equal(t, 31536000, c.MaxAge)
		assert.True(t, c.HttpOnly)
	})
}

func TestServer_RemoveItem_CascadingDelete(t *testing.T) {
	t.Parallel()

	t.Run("with provider cookies present expires all three", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodDelete, "/", nil)
		r.AddCookie(&http.Cookie{Name: storageKey, Value: "blob"})
		r.AddCookie(&http.Cookie{Name: cookie.ProviderTokenCookie, Value: "pt"})
		r.AddCookie(&http.Cookie{Name: cookie.ProviderRefreshTokenCookie, Value: "prt"})
		s := storage.NewServer(w, r, newManager(), storageKey)

		require.NoError(t, s.RemoveItem(context.Background(), storageKey))

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 3)
		for _, c := range cookies {
			assert.Negative(t, c.MaxAge, "cookie %s must be expiring", c.Name)
		}
	})

	t.Run("without provider cookies expires only the credential", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodDelete, "/", nil)
		r.AddCookie(&http.Cookie{Name: storageKey, Value: "blob"})
		s := storage.NewServer(w, r, newManager(), storageKey)

		require.NoError(t, s.RemoveItem(context.Background(), storageKey))

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, storageKey, cookies[0].Name)
	})

	t.Run("removing a non-credential key does not cascade", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodDelete, "/", nil)
		r.AddCookie(&http.Cookie{Name: cookie.ProviderTokenCookie, Value: "pt"})
		s := storage.NewServer(w, r, newManager(), storageKey)

		require.NoError(t, s.RemoveItem(context.Background(), "theme"))

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "theme", cookies[0].Name)
	})
}
