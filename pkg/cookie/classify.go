package cookie

import "regexp"

// Class identifies the semantic family a cookie key belongs to.
// Classification drives which option profile is applied on write.
type Class int

const (
	ClassOther Class = iota
	ClassAuthToken
	ClassProviderToken
	ClassCSRF
	ClassCodeVerifier
	ClassRememberMe
)

// Well-known cookie names shared between the browser and server adapters.
const (
	ProviderTokenCookie        = "sb-provider-token"
	ProviderRefreshTokenCookie = "sb-provider-refresh-token"
	RememberMeCookie           = "supakit-rememberme"
)

var (
	authTokenRe     = regexp.MustCompile(`^sb-.*-auth-token$`)
	providerTokenRe = regexp.MustCompile(`^sb-provider.*token$`)
	csrfRe          = regexp.MustCompile(`^.*-csrf$`)
	codeVerifierRe  = regexp.MustCompile(`^.*-code-verifier$`)
)

// Classify maps a cookie key to its semantic class. It is a pure function:
// the same key always yields the same class.
func Classify(key string) Class {
	switch {
	case key == RememberMeCookie:
		return ClassRememberMe
	case providerTokenRe.MatchString(key):
		return ClassProviderToken
	case authTokenRe.MatchString(key):
		return ClassAuthToken
	case codeVerifierRe.MatchString(key):
		return ClassCodeVerifier
	case csrfRe.MatchString(key):
		return ClassCSRF
	default:
		return ClassOther
	}
}

// IsAuthToken reports whether key names the primary credential cookie,
// either by matching the configured storage key or the naming convention.
func IsAuthToken(key, storageKey string) bool {
	if storageKey != "" && key == storageKey {
		return true
	}
	return authTokenRe.MatchString(key)
}

// IsProviderToken reports whether key names one of the derived provider-token cookies.
func IsProviderToken(key string) bool {
	return providerTokenRe.MatchString(key)
}

func (c Class) String() string {
	switch c {
	case ClassAuthToken:
		return "auth_token"
	case ClassProviderToken:
		return "provider_token"
	case ClassCSRF:
		return "csrf"
	case ClassCodeVerifier:
		return "code_verifier"
	case ClassRememberMe:
		return "remember_me"
	default:
		return "other"
	}
}
