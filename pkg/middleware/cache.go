package middleware

import (
	"fmt"
	"net/http"
)

// CacheControl returns a middleware that marks GET responses as publicly
// cacheable for maxAge seconds. Requests carrying an Authorization header are
// left uncached so shared caches never store per-user responses.
func CacheControl(maxAge int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet && r.Header.Get("Authorization") == "" {
				w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", maxAge))
			}
			next.ServeHTTP(w, r)
		})
	}
}
