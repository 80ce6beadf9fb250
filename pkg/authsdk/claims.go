package authsdk

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

// Claims are the registered JWT claims this layer cares about, all Unix
// timestamps for temporal fields.
type Claims struct {
	Subject   string `json:"sub,omitempty"`
	Issuer    string `json:"iss,omitempty"`
	Audience  string `json:"aud,omitempty"`
	ExpiresAt int64  `json:"exp,omitempty"`
	IssuedAt  int64  `json:"iat,omitempty"`
	SessionID string `json:"session_id,omitempty"`
	Role      string `json:"role,omitempty"`
}

// DecodeAccessToken extracts the claims from a JWT access token WITHOUT
// verifying the signature. The httpOnly cookie transport is the trust anchor
// here; the decoded claims are used only for expiry bookkeeping.
func DecodeAccessToken(token string) (Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return Claims{}, fmt.Errorf("%w: expected 3 segments, got %d", ErrInvalidToken, len(parts))
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		// Some issuers pad their segments; accept both encodings.
		payload, err = base64.URLEncoding.DecodeString(parts[1])
		if err != nil {
			return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
	}

	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	return claims, nil
}
