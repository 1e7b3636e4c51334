// Package middleware holds the HTTP middleware applied to the trakaido
// router: request IDs, logging, panic recovery, CORS, and JWT auth.
package middleware

import "net/http"

// Middleware wraps an http.Handler with cross-cutting behavior.
type Middleware func(http.Handler) http.Handler

// Chain folds several middleware into one. Order matters here: the router
// lists recovery first so it stays outermost, and Chain(mw1, mw2)(h)
// yields mw1(mw2(h)) to preserve that.
func Chain(mws ...Middleware) Middleware {
	return func(final http.Handler) http.Handler {
		for i := len(mws) - 1; i >= 0; i-- {
			final = mws[i](final)
		}
		return final
	}
}
