package authsdk

import (
	"encoding/json"
	"time"
)

// Session is the SDK's credential blob. This layer persists and retrieves it
// byte-for-byte: fields are decoded only to classify derived cookies and to
// recompute expiry bookkeeping, never to change their meaning.
type Session struct {
	User                 json.RawMessage `json:"user,omitempty"`
	AccessToken          string          `json:"access_token"`
	RefreshToken         string          `json:"refresh_token"`
	ProviderToken        string          `json:"provider_token,omitempty"`
	ProviderRefreshToken string          `json:"provider_refresh_token,omitempty"`
	ExpiresAt            int64           `json:"expires_at,omitempty"`
	ExpiresIn            int64           `json:"expires_in,omitempty"`
	TokenType            string          `json:"token_type,omitempty"`
}

// ParseSession decodes a persisted session blob.
func ParseSession(value string) (*Session, error) {
	if value == "" {
		return nil, ErrNoSession
	}
	var s Session
	if err := json.Unmarshal([]byte(value), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Encode serializes the session back to its storage representation.
func (s *Session) Encode() (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ApplyExpiry recomputes the bookkeeping fields from an absolute expiry
// timestamp (typically the unverified access-token exp claim).
func (s *Session) ApplyExpiry(expiresAt int64, now time.Time) {
	s.ExpiresAt = expiresAt
	s.ExpiresIn = expiresAt - now.Unix()
}

// ExpiresWithin reports whether the session expires within d of now.
func (s *Session) ExpiresWithin(now time.Time, d time.Duration) bool {
	if s.ExpiresAt == 0 {
		return false
	}
	return time.Unix(s.ExpiresAt, 0).Sub(now) <= d
}
