// ABOUTME: Middleware chaining utility for composing HTTP middleware
// ABOUTME: Used by the route table to weave auth, RBAC, and limiters per route

package middleware

import "net/http"

// Chain wraps a handler with middleware, first entry outermost. The route
// table relies on this ordering: Chain(h.Proxy, limit, Authn, role) runs the
// limiter before authentication and the role check after it.
func Chain(h http.HandlerFunc, middlewares ...func(http.HandlerFunc) http.HandlerFunc) http.HandlerFunc {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
