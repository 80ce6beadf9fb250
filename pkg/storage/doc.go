// Package storage provides the two implementations of the SDK's pluggable
// credential storage capability (authsdk.Storage), selected at construction
// time:
//
//   - Browser proxies every operation over HTTP to the server's cookie
//     endpoint, performing the CSRF handshake lazily and caching the primary
//     credential in memory so SDK-internal re-reads within one page lifetime
//     cost no round-trip.
//   - Server binds the capability directly to the request-scoped cookie jar,
//     applying the cookie policy per key classification with no network hop.
//
// Browser network failures degrade to empty reads and silent non-persists:
// the SDK has its own refresh loop and will naturally re-attempt. The one
// exception is CSRF registration failure, which propagates because no
// credential I/O is safe without a registered pair.
package storage
