// Package authsdk defines the boundary with the underlying auth SDK.
//
// The SDK itself (token refresh algorithm, PKCE internals, JWT verification)
// is a black box consumed through the Client interface; this package owns only
// what the synchronization layer needs from it: the Session credential blob,
// the tagged auth state change events, the pluggable Storage capability the
// SDK persists credentials through, and unverified access-token claims
// decoding for expiry bookkeeping.
//
// # Trust boundary
//
// DecodeAccessToken reads the JWT payload without verifying the signature.
// That is deliberate: trust is anchored in the httpOnly cookie transport, not
// the token content. Decoded claims feed expires_at/expires_in bookkeeping
// and must never drive authorization decisions.
//
// FakeClient is an in-memory Client used by tests and the demo server. It
// persists sessions through whatever Storage it is constructed with, which is
// exactly how the real SDK exercises the adapters in this module.
package authsdk
