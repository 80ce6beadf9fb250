package supakit

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/supakit/pkg/authsdk"
	"github.com/dmitrymomot/supakit/pkg/config"
	"github.com/dmitrymomot/supakit/pkg/cookie"
	"github.com/dmitrymomot/supakit/pkg/storage"
)

// ClientFactory builds a request-scoped SDK client on top of the given
// storage. The middleware calls it once per request that needs a client.
type ClientFactory func(s authsdk.Storage) authsdk.Client

// Handler is the server half of the synchronization protocol: the endpoint
// router plus the fallthrough session reconstruction middleware.
type Handler struct {
	cfg     config.Config
	cookies *cookie.Manager
	factory ClientFactory
	log     *slog.Logger
	router  chi.Router
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger overrides the handler's logger.
func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.log = l
		}
	}
}

// WithCookieManager overrides the cookie manager built from the config.
func WithCookieManager(m *cookie.Manager) Option {
	return func(h *Handler) {
		if m != nil {
			h.cookies = m
		}
	}
}

// New creates a Handler for the given configuration and SDK client factory.
func New(cfg config.Config, factory ClientFactory, opts ...Option) *Handler {
	if factory == nil {
		panic("supakit: client factory is required")
	}
	if cfg.BasePath == "" {
		cfg.BasePath = config.Default().BasePath
	}

	h := &Handler{
		cfg:     cfg,
		factory: factory,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.cookies == nil {
		h.cookies = cookie.NewFromConfig(cfg.Cookie)
	}

	router := chi.NewRouter()
	router.Route(cfg.BasePath, func(r chi.Router) {
		r.Get("/callback", h.handleCallback)
		r.Get("/confirm", h.handleConfirm)
		r.Post("/csrf", h.handleCSRF)
		r.Get("/cookie", h.handleCookieGet)
		r.Post("/cookie", h.handleCookiePost)
		r.Delete("/cookie", h.handleCookieDelete)
		r.Get("/config", h.handleConfig)
	})
	h.router = router

	return h
}

// Middleware serves the supakit endpoints and, on all other paths, performs
// fallthrough session reconstruction before handing off to next. Endpoint
// routing must run first: the cookie/CSRF/callback routes are not ordinary
// pages and some of them run before any session exists.
func (h *Handler) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.isEndpointPath(r.URL.Path) {
			h.router.ServeHTTP(w, r)
			return
		}
		h.withSession(next).ServeHTTP(w, r)
	})
}

// Routes exposes the endpoint router alone, for callers that compose their
// own chain (the "lite" mode: endpoints without session reconstruction).
func (h *Handler) Routes() http.Handler {
	return h.router
}

func (h *Handler) isEndpointPath(path string) bool {
	base := strings.TrimSuffix(h.cfg.BasePath, "/")
	if !strings.HasPrefix(path, base) {
		return false
	}
	rest := path[len(base):]
	return rest == "" || strings.HasPrefix(rest, "/")
}

// serverStorage binds the SDK storage capability to the current request.
func (h *Handler) serverStorage(w http.ResponseWriter, r *http.Request) authsdk.Storage {
	return storage.NewServer(w, r, h.cookies, h.cfg.StorageKey)
}
