package config

import (
	"time"

	"github.com/dmitrymomot/supakit/pkg/cookie"
)

// Config is the process-wide supakit configuration: resolved once at startup
// and read-only afterwards.
type Config struct {
	// BasePath is the route prefix the supakit endpoints are mounted under.
	BasePath string `env:"SUPAKIT_BASE_PATH" envDefault:"/supakit" yaml:"base_path" json:"base_path"`

	// StorageKey names the primary credential cookie. When empty, the
	// sb-*-auth-token naming convention is used to recognize it.
	StorageKey string `env:"SUPAKIT_STORAGE_KEY" envDefault:"" yaml:"storage_key" json:"storage_key,omitempty"`

	// RefreshThreshold is how close to expiry a session must be before the
	// middleware refreshes it during fallthrough reconstruction.
	RefreshThreshold time.Duration `env:"SUPAKIT_REFRESH_THRESHOLD" envDefault:"60s" yaml:"refresh_threshold" json:"-"`

	Cookie    cookie.Config `yaml:"cookie" json:"-"`
	Redirects Redirects     `yaml:"redirects" json:"redirects"`
}

// Redirects are post-auth navigation targets for consumers of the auth-state
// bridge. Empty values mean "stay where you are".
type Redirects struct {
	Login  string `env:"SUPAKIT_LOGIN_REDIRECT" envDefault:"" yaml:"login" json:"login,omitempty"`
	Logout string `env:"SUPAKIT_LOGOUT_REDIRECT" envDefault:"" yaml:"logout" json:"logout,omitempty"`
}

// ClientOptions is the subset of the server configuration a browser-side
// client needs to bootstrap itself, served by the /config endpoint.
type ClientOptions struct {
	BasePath   string    `json:"base_path"`
	StorageKey string    `json:"storage_key,omitempty"`
	Redirects  Redirects `json:"redirects"`
}

// Default returns the documented defaults.
func Default() Config {
	return Config{
		BasePath:         "/supakit",
		RefreshThreshold: time.Minute,
		Cookie:           cookie.DefaultConfig(),
	}
}

// ClientOptions derives the browser-facing view of the config.
func (c Config) ClientOptions() ClientOptions {
	return ClientOptions{
		BasePath:   c.BasePath,
		StorageKey: c.StorageKey,
		Redirects:  c.Redirects,
	}
}
