package httpx

import (
	"net/http"
	"slices"
	"strings"
)

// Middleware wraps an http.Handler with extra behaviour.
type Middleware func(http.Handler) http.Handler

// Chain applies middlewares to h so that the first middleware listed is the
// outermost one.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// AllowMethods answers any request whose method is not listed with 405 and
// the standard failure envelope, and sets the Allow header.
func AllowMethods(methods ...string) Middleware {
	allow := strings.Join(methods, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if slices.Contains(methods, r.Method) {
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Set("Allow", allow)
			WriteJSON(w, http.StatusMethodNotAllowed, Failure{Message: "Method not allowed"})
		})
	}
}
