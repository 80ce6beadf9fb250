package authsdk

// EventType tags an auth state change notification.
type EventType string

const (
	EventInitialSession EventType = "INITIAL_SESSION"
	EventSignedIn       EventType = "SIGNED_IN"
	EventSignedOut      EventType = "SIGNED_OUT"
	EventTokenRefreshed EventType = "TOKEN_REFRESHED"
	EventUserUpdated    EventType = "USER_UPDATED"
)

// Event is one auth state transition. Session is nil for SIGNED_OUT and may
// be nil for INITIAL_SESSION when no previous session exists.
type Event struct {
	Type    EventType
	Session *Session
}
