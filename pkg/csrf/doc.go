// Package csrf implements the double-submit token handshake that protects the
// credential cookie endpoint.
//
// The browser half is Guard: a per-tab state machine (no token, registration
// pending, token ready) that lazily generates a random token/name pair and
// registers it with the server exactly once per Guard lifetime. The name half
// comes back to the server on every request as a cookie (sb-{name}-csrf), the
// token half as a header, and the server compares the two.
//
// The server half is Validate, which checks the header token against the
// named cookie in constant time, and CheckOrigin, which rejects cross-site
// form-encoded submissions before any token inspection.
//
// A failed registration has no degraded mode: credential I/O must not proceed
// without a usable pair, so Ensure propagates the error instead of swallowing
// it the way the storage adapter does for ordinary network failures.
package csrf
