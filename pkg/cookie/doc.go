// Package cookie implements the cookie policy layer shared by the browser and
// server storage adapters.
//
// It has two halves:
//
//   - A small Manager wrapping net/http cookie reads and writes with a fixed
//     set of default Options, built once from configuration.
//   - Pure classification and policy functions: Classify maps a cookie key to
//     its semantic class (auth token, provider token, csrf, code verifier,
//     remember-me flag), and Apply derives the exact attribute set a write
//     should carry for a given Profile.
//
// The split keeps every Set-Cookie decision deterministic and testable:
// profile derivation never touches the network or any storage, so calling it
// twice with the same inputs yields identical options.
//
// # Remember-me
//
// Credential-family cookies (the primary auth token and the derived provider
// tokens) are written as browser-session cookies unless the remember-me flag
// cookie says otherwise. The flag defaults to true when absent: remember-me
// is opt-out, and the helper ParseRememberMe documents that choice in one
// place.
package cookie
