package cookie

import (
	"net/http"
	"time"
)

// Profile selects one of the fixed attribute shapes a cookie write can take.
type Profile int

const (
	// ProfileNormal leaves the base options unchanged.
	ProfileNormal Profile = iota
	// ProfileSession strips MaxAge/Expires so the cookie dies with the browser session.
	ProfileSession
	// ProfileRememberMe is for the remember-me flag cookie itself: readable by
	// client script and effectively permanent, independent of the main policy.
	ProfileRememberMe
	// ProfileExpire forces immediate expiry (logout / removeItem).
	ProfileExpire
	// ProfileConfig is for the config delivery cookie: readable by client script
	// with a short capped lifetime.
	ProfileConfig
)

// rememberMeMaxAge is roughly 100 years in seconds.
const rememberMeMaxAge = 100 * 365 * 24 * 60 * 60

// configDeliveryMaxAge caps the config delivery cookie lifetime.
const configDeliveryMaxAge = 300

// Apply derives the exact attribute set for a profile from the base options.
// It is a pure function of (profile, base); callers get a fresh copy every time.
func Apply(profile Profile, base Options) Options {
	out := applyOptions(base, nil)

	switch profile {
	case ProfileSession:
		out.MaxAge = 0
		out.Expires = time.Time{}
	case ProfileRememberMe:
		out.HttpOnly = false
		out.SameSite = http.SameSiteLaxMode
		out.MaxAge = rememberMeMaxAge
		out.Expires = time.Time{}
	case ProfileExpire:
		out.MaxAge = -1
		out.Expires = time.Unix(0, 0)
	case ProfileConfig:
		out.HttpOnly = false
		if out.MaxAge <= 0 || out.MaxAge > configDeliveryMaxAge {
			out.MaxAge = configDeliveryMaxAge
		}
	}

	return out
}

// ProfileForKey decides which profile a write for the given class should use.
// Credential-family cookies become session cookies unless remember-me is on;
// the remember-me flag cookie always uses its own profile.
func ProfileForKey(class Class, rememberMe bool) Profile {
	switch class {
	case ClassAuthToken, ClassProviderToken:
		if rememberMe {
			return ProfileNormal
		}
		return ProfileSession
	case ClassRememberMe:
		return ProfileRememberMe
	default:
		return ProfileNormal
	}
}

// ParseRememberMe interprets the remember-me cookie value. An absent cookie is
// passed as the empty string and defaults to true: remember-me is opt-out.
func ParseRememberMe(value string) bool {
	return value != "false"
}
