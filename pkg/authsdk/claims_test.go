package authsdk_test

import (
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/supakit/pkg/authsdk"
)

// makeToken builds a structurally valid JWT with the given claims and a junk
// signature. Signature validity is irrelevant: decoding never verifies it.
func makeToken(t *testing.T, claims authsdk.Claims) string {
	t.Helper()

	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payload, err := json.Marshal(claims)
	require.NoError(t, err)

	return header + "." + base64.RawURLEncoding.EncodeToString(payload) + ".junk-signature"
}

func TestDecodeAccessToken(t *testing.T) {
	t.Parallel()

	t.Run("decodes claims without verifying signature", func(t *testing.T) {
		t.Parallel()
		want := authsdk.Claims{
			Subject:   "user-1",
			ExpiresAt: 1700000000,
			IssuedAt:  1699996400,
			Role:      "authenticated",
		}

		got, err := authsdk.DecodeAccessToken(makeToken(t, want))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("accepts padded base64url payload", func(t *testing.T) {
		t.Parallel()
		payload := base64.URLEncoding.EncodeToString([]byte(`{"sub":"user-2","exp":42}`))
		token := "eyJhbGciOiJIUzI1NiJ9." + payload + ".sig"

		got, err := authsdk.DecodeAccessToken(token)
		require.NoError(t, err)
		assert.Equal(t, "user-2", got.Subject)
		assert.EqualValues(t, 42, got.ExpiresAt)
	})

	t.Run("rejects malformed token", func(t *testing.T) {
		t.Parallel()
		for _, token := range []string{"", "one.two", "a.b.c.d", "x.!!!.y"} {
			_, err := authsdk.DecodeAccessToken(token)
			assert.ErrorIs(t, err, authsdk.ErrInvalidToken, "token %q", token)
		}
	})

	t.Run("rejects non-json payload", func(t *testing.T) {
		t.Parallel()
		payload := base64.RawURLEncoding.EncodeToString([]byte("not json"))
		_, err := authsdk.DecodeAccessToken("h." + payload + ".s")
		assert.ErrorIs(t, err, authsdk.ErrInvalidToken)
	})
}

func TestSession_RoundTrip(t *testing.T) {
	t.Parallel()

	original := `{"user":{"id":"u1","email":"u1@example.com"},"access_token":"at","refresh_token":"rt","provider_token":"pt","expires_at":1700000000,"expires_in":3600,"token_type":"bearer"}`

	session, err := authsdk.ParseSession(original)
	require.NoError(t, err)

	encoded, err := session.Encode()
	require.NoError(t, err)

	// Field semantics must survive the round-trip untouched.
	assert.JSONEq(t, original, encoded)
}

func TestSession_ApplyExpiry(t *testing.T) {
	t.Parallel()

	now := time.Unix(1700000000, 0)
	s := &authsdk.Session{AccessToken: "at"}
	s.ApplyExpiry(1700003600, now)

	assert.EqualValues(t, 1700003600, s.ExpiresAt)
	assert.EqualValues(t, 3600, s.ExpiresIn)
}

func TestSession_ExpiresWithin(t *testing.T) {
	t.Parallel()

	now := time.Unix(1700000000, 0)

	s := &authsdk.Session{ExpiresAt: now.Add(30 * time.Second).Unix()}
	assert.True(t, s.ExpiresWithin(now, time.Minute))
	assert.False(t, s.ExpiresWithin(now, 10*time.Second))

	// Unknown expiry is never treated as expiring.
	assert.False(t, (&authsdk.Session{}).ExpiresWithin(now, time.Hour))
}

func TestParseSession_Empty(t *testing.T) {
	t.Parallel()
	_, err := authsdk.ParseSession("")
	assert.ErrorIs(t, err, authsdk.ErrNoSession)
}
