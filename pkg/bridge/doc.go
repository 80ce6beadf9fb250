// Package bridge connects an SDK client's auth event stream to cookie
// storage and an observable session store.
//
// The SDK announces sign-ins, sign-outs and token refreshes through its event
// stream; the bridge translates those into cookie writes through a storage
// adapter and keeps a SessionStore current for UI consumers. Redundant
// SIGNED_IN events (same expires_at as the last persisted session) are
// suppressed so every network round-trip corresponds to an actual credential
// change.
package bridge
