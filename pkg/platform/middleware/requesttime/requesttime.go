// Package requesttime pins one "now" per request so every timestamp written
// by a request agrees: transition history, tracker updates and audit events.
package requesttime

import (
	"net/http"
	"time"

	"wasl/pkg/requestcontext"
)

// Middleware pins the wall clock in UTC.
func Middleware(next http.Handler) http.Handler {
	return New(nil)(next)
}

// New pins now() instead of the wall clock. A nil now uses time.Now.
// Results are always stored in UTC.
func New(now func() time.Time) func(http.Handler) http.Handler {
	if now == nil {
		now = time.Now
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := requestcontext.WithTime(r.Context(), now().UTC())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
