package config

import (
	"net/http"
	"time"
)

// Override mirrors Config with optional fields for the YAML override file.
// Only fields the user actually set are applied; explicit per-field merging
// keeps missing-field bugs visible, unlike a reflective deep merge.
type Override struct {
	BasePath         *string        `yaml:"base_path"`
	StorageKey       *string        `yaml:"storage_key"`
	RefreshThreshold *time.Duration `yaml:"refresh_threshold"`
	Cookie           CookieOverride `yaml:"cookie"`
	Redirects        struct {
		Login  *string `yaml:"login"`
		Logout *string `yaml:"logout"`
	} `yaml:"redirects"`
}

// CookieOverride holds optional cookie option overrides.
type CookieOverride struct {
	Path     *string `yaml:"path"`
	Domain   *string `yaml:"domain"`
	MaxAge   *int    `yaml:"max_age"`
	Secure   *bool   `yaml:"secure"`
	HttpOnly *bool   `yaml:"http_only"`
	SameSite *int    `yaml:"same_site"`
}

// Merge applies the override onto base field by field and returns the result.
// Base is not modified.
func Merge(base Config, o Override) Config {
	out := base

	if o.BasePath != nil {
		out.BasePath = *o.BasePath
	}
	if o.StorageKey != nil {
		out.StorageKey = *o.StorageKey
	}
	if o.RefreshThreshold != nil {
		out.RefreshThreshold = *o.RefreshThreshold
	}
	if o.Redirects.Login != nil {
		out.Redirects.Login = *o.Redirects.Login
	}
	if o.Redirects.Logout != nil {
		out.Redirects.Logout = *o.Redirects.Logout
	}

	if o.Cookie.Path != nil {
		out.Cookie.Path = *o.Cookie.Path
	}
	if o.Cookie.Domain != nil {
		out.Cookie.Domain = *o.Cookie.Domain
	}
	if o.Cookie.MaxAge != nil {
		out.Cookie.MaxAge = *o.Cookie.MaxAge
	}
	if o.Cookie.Secure != nil {
		out.Cookie.Secure = *o.Cookie.Secure
	}
	if o.Cookie.HttpOnly != nil {
		out.Cookie.HttpOnly = *o.Cookie.HttpOnly
	}
	if o.Cookie.SameSite != nil {
		out.Cookie.SameSite = http.SameSite(*o.Cookie.SameSite)
	}

	return out
}
