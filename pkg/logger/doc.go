// Package logger is a small slog factory used across supakit.
//
// It produces JSON output by default, switches to text for local development
// and reads its defaults from SUPAKIT_LOG_LEVEL / SUPAKIT_LOG_FORMAT. Every
// supakit component accepts a *slog.Logger option; this package is how the
// demo and the tests build one.
package logger
