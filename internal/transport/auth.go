package transport

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
)

// ErrUnauthorized indicates invalid or missing credentials.
var ErrUnauthorized = errors.New("unauthorized")

// AuthMiddleware enforces a static bearer token. An empty token disables the
// check.
func AuthMiddleware(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if token == "" {
			return next
		}
		want := []byte(token)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			got, ok := strings.CutPrefix(auth, "Bearer ")
			got = strings.TrimSpace(got)
			if !ok || got == "" {
				WriteError(w, http.StatusUnauthorized, nil, ErrUnauthorizedCode, "missing bearer token", nil)
				return
			}
			if subtle.ConstantTimeCompare([]byte(got), want) != 1 {
				WriteError(w, http.StatusUnauthorized, nil, ErrUnauthorizedCode, "invalid bearer token", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
