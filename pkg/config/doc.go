// Package config resolves the process-wide supakit configuration.
//
// Resolution order: documented defaults, then environment variables (with an
// optional .env file loaded once via godotenv), then an optional YAML override
// file applied with an explicit field-by-field merge. The resolved Config is
// cached for the process lifetime and treated as immutable afterwards; the
// browser-facing subset is exposed through ClientOptions for the /config
// endpoint.
package config
