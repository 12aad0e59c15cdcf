package api

import (
	"crypto/subtle"
	"net/http"
	"os"
	"strings"

	"go.uber.org/zap"
)

// APIKeyAuth authenticates requests against a bearer token read from the
// environment. Missing configuration fails closed: with no key set, every
// request is rejected. Tokens are only accepted from the Authorization
// header, never query parameters, which leak into logs and proxies.
func APIKeyAuth(envVar string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			expected := os.Getenv(envVar)
			if expected == "" {
				logger.Warn("api key not configured, rejecting request",
					zap.String("env_var", envVar),
				)
				unauthorized(w)
				return
			}

			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				unauthorized(w)
				return
			}

			token := strings.TrimPrefix(auth, "Bearer ")
			if subtle.ConstantTimeCompare([]byte(token), []byte(expected)) != 1 {
				unauthorized(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"unauthorized"}`))
}
