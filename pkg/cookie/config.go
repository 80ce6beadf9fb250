package cookie

import "net/http"

// Config holds cookie manager configuration
type Config struct {
	Path     string        `env:"SUPAKIT_COOKIE_PATH" envDefault:"/" yaml:"path" json:"path"`
	Domain   string        `env:"SUPAKIT_COOKIE_DOMAIN" envDefault:"" yaml:"domain" json:"domain,omitempty"`
	MaxAge   int           `env:"SUPAKIT_COOKIE_MAX_AGE" envDefault:"31536000" yaml:"max_age" json:"max_age"`
	Secure   bool          `env:"SUPAKIT_COOKIE_SECURE" envDefault:"true" yaml:"secure" json:"secure"`
	HttpOnly bool          `env:"SUPAKIT_COOKIE_HTTP_ONLY" envDefault:"true" yaml:"http_only" json:"http_only"`
	SameSite http.SameSite `env:"SUPAKIT_COOKIE_SAME_SITE" envDefault:"2" yaml:"same_site" json:"same_site"` // 2 = SameSiteLaxMode
}

// DefaultConfig returns default cookie configuration.
// One year MaxAge matches the default credential cookie lifetime when
// remember-me is on.
func DefaultConfig() Config {
	return Config{
		Path:     "/",
		Domain:   "",
		MaxAge:   31536000,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// NewFromConfig creates a new Manager from the provided Config.
// Only non-zero values from the config are applied.
func NewFromConfig(cfg Config, opts ...Option) *Manager {
	configOpts := make([]Option, 0, 6)

	if cfg.Path != "" {
		configOpts = append(configOpts, WithPath(cfg.Path))
	}
	if cfg.Domain != "" {
		configOpts = append(configOpts, WithDomain(cfg.Domain))
	}
	if cfg.MaxAge != 0 {
		configOpts = append(configOpts, WithMaxAge(cfg.MaxAge))
	}
	configOpts = append(configOpts,
		WithSecure(cfg.Secure),
		WithHTTPOnly(cfg.HttpOnly),
	)
	if cfg.SameSite != 0 {
		configOpts = append(configOpts, WithSameSite(cfg.SameSite))
	}

	configOpts = append(configOpts, opts...)

	return New(configOpts...)
}
