// Package broadcast provides a minimal generic publish/subscribe primitive
// used for the auth state change stream: a single producer (the SDK client)
// fanning tagged events out to subscribers (the auth-state bridge, UI stores).
//
// Delivery is best effort: a subscriber whose buffer is full is dropped
// rather than allowed to block the publisher.
package broadcast
