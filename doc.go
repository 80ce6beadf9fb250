// Package supakit keeps a single-page application's auth session synchronized
// between a browser-side SDK client and a server-rendered request pipeline,
// using httpOnly cookies as the source of truth instead of browser storage.
//
// The server half is Handler: a middleware chain that serves the supakit
// endpoints (CSRF registration, the credential cookie endpoint, OAuth
// callback, OTP confirmation, config delivery) under a configurable prefix,
// and on every other request reconstructs an authenticated SDK client from
// the cookies present and injects it, together with a derived session view,
// into the request context.
//
// The browser half lives in pkg/storage (the Browser adapter plugged into the
// SDK's storage capability) and pkg/bridge (the auth-state bridge pushing SDK
// state transitions back through the cookie endpoint).
//
// A minimal server wiring:
//
//	cfg := config.MustLoad()
//	h := supakit.New(cfg, func(s authsdk.Storage) authsdk.Client {
//		return newSDKClient(s) // your SDK adapter
//	})
//
//	mux := http.NewServeMux()
//	mux.Handle("/", appHandler)
//	http.ListenAndServe(":8080", h.Middleware(mux))
//
// Handlers downstream of the middleware read the reconstructed state with
// supakit.SessionFromContext and supakit.ClientFromContext.
package supakit
