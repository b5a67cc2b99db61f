package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
)

type contextKey string

const MerchantKey contextKey = "merchant"

var publicPaths = map[string]bool{
	"/health":  true,
	"/healthz": true,
	"/readyz":  true,
	"/metrics": true,
}

// APIKeyAuth validates the API key from the Authorization header and puts the
// merchant it belongs to in the request context. keys maps merchant -> key.
// With no keys configured every request acts as defaultMerchant.
func APIKeyAuth(keys map[string]string, defaultMerchant string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if publicPaths[r.URL.Path] || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			if len(keys) == 0 {
				ctx := context.WithValue(r.Context(), MerchantKey, defaultMerchant)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			auth := r.Header.Get("Authorization")
			if auth == "" {
				writeError(w, http.StatusUnauthorized, "missing Authorization header")
				return
			}

			// Support both "Bearer <key>" and "<key>" formats
			apiKey := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			if apiKey == "" {
				writeError(w, http.StatusUnauthorized, "invalid Authorization header format")
				return
			}

			// constant-time comparison
			var merchant string
			for m, key := range keys {
				if subtle.ConstantTimeCompare([]byte(apiKey), []byte(key)) == 1 {
					merchant = m
					break
				}
			}
			if merchant == "" {
				writeError(w, http.StatusUnauthorized, "invalid API key")
				return
			}

			ctx := context.WithValue(r.Context(), MerchantKey, merchant)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// MerchantFromContext returns the authenticated merchant, or "".
func MerchantFromContext(ctx context.Context) string {
	if m, ok := ctx.Value(MerchantKey).(string); ok {
		return m
	}
	return ""
}

// WithMerchant is used by tests and background work that act for a merchant.
func WithMerchant(ctx context.Context, merchant string) context.Context {
	return context.WithValue(ctx, MerchantKey, merchant)
}
