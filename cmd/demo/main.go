// Command demo runs a small server showing the full cookie synchronization
// flow against the in-memory fake SDK client: visit /, follow the sign-in
// link through /supakit/callback, and the session is reconstructed from
// cookies on every page load afterwards.
package main

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/caarlos0/env/v11"

	supakit "github.com/dmitrymomot/supakit"
	"github.com/dmitrymomot/supakit/pkg/authsdk"
	"github.com/dmitrymomot/supakit/pkg/config"
	"github.com/dmitrymomot/supakit/pkg/httpserver"
	"github.com/dmitrymomot/supakit/pkg/logger"
)

const demoCode = "demo-code"

var page = template.Must(template.New("home").Parse(`<!doctype html>
<html>
<body>
<h1>supakit demo</h1>
{{if .Session}}
<p>Signed in. Token expires at {{.ExpiresAt}}.</p>
{{else}}
<p>Signed out.</p>
<p><a href="/supakit/callback?code=` + demoCode + `&next=/">Sign in</a></p>
{{end}}
</body>
</html>`))

func main() {
	log := logger.NewFromEnv(logger.WithComponent("demo"))
	logger.SetAsDefault(log)

	if err := run(log); err != nil {
		log.Error("demo server failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	cfg, err = config.LoadFile(cfg, "supakit.yaml")
	if err != nil {
		return err
	}
	if cfg.StorageKey == "" {
		cfg.StorageKey = "sb-demo-auth-token"
	}
	// The demo runs over plain http.
	cfg.Cookie.Secure = false

	demoSession := &authsdk.Session{
		User:         []byte(`{"id":"demo-user","email":"demo@example.com"}`),
		AccessToken:  "demo-access-token",
		RefreshToken: "demo-refresh-token",
		ExpiresAt:    time.Now().Add(time.Hour).Unix(),
	}

	handler := supakit.New(cfg, func(s authsdk.Storage) authsdk.Client {
		client := authsdk.NewFakeClient(s, cfg.StorageKey)
		client.SeedExchange(demoCode, demoSession)
		return client
	}, supakit.WithLogger(log))

	mux := http.NewServeMux()
	mux.Handle("GET /healthz", httpserver.Healthcheck())
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		session := supakit.SessionFromContext(r.Context())
		data := struct {
			Session   *authsdk.Session
			ExpiresAt string
		}{Session: session}
		if session != nil {
			data.ExpiresAt = time.Unix(session.ExpiresAt, 0).Format(time.RFC3339)
		}
		if err := page.Execute(w, data); err != nil {
			log.ErrorContext(r.Context(), "page render failed", slog.Any("error", err))
		}
	})

	srvCfg, err := env.ParseAs[httpserver.Config]()
	if err != nil {
		return fmt.Errorf("http server config: %w", err)
	}

	srv := httpserver.New(srvCfg, httpserver.WithLogger(log))
	return srv.Run(context.Background(), handler.Middleware(mux))
}
