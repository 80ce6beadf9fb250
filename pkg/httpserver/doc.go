// Package httpserver is a thin graceful wrapper around net/http used by the
// supakit demo server. Run blocks until the context is cancelled or a
// SIGINT/SIGTERM arrives, then drains in-flight requests within the
// configured shutdown timeout.
package httpserver
