package api

import (
	"crypto/subtle"
	"fmt"
	"net/http"

	"github.com/FocuswithJustin/correctir/internal/logging"
)

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	Enabled bool
	APIKey  string
}

// AuthMiddleware checks for API key authentication when enabled.
// Requests must carry the key in the X-API-Key header; websocket clients
// that cannot set headers may pass it as the api_key query parameter.
// The health endpoint always bypasses authentication.
func AuthMiddleware(authCfg AuthConfig, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Skip authentication for public endpoints, or everything when
		// auth is disabled
		if !authCfg.Enabled || isPublicEndpoint(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		apiKey := r.Header.Get("X-API-Key")
		// Browsers cannot set headers on a websocket handshake
		if apiKey == "" && r.URL.Path == pathWebSocket {
			apiKey = r.URL.Query().Get("api_key")
		}
		if apiKey == "" {
			logging.RequestRejected(r.Context(), "missing API key", "path", r.URL.Path)
			respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing X-API-Key header")
			return
		}
		// Compare in constant time so the key cannot be guessed byte by byte
		if !constantTimeCompare(apiKey, authCfg.APIKey) {
			logging.RequestRejected(r.Context(), "invalid API key", "path", r.URL.Path)
			respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid API key")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// isPublicEndpoint returns true if the endpoint should always be accessible
// without authentication (health checks).
func isPublicEndpoint(path string) bool {
	return path == pathHealth
}

// ValidateAuthConfig validates the authentication configuration.
func ValidateAuthConfig(cfg AuthConfig) error {
	if cfg.Enabled && cfg.APIKey == "" {
		return fmt.Errorf("API key is required when authentication is enabled")
	}
	if cfg.Enabled && len(cfg.APIKey) < 16 {
		return fmt.Errorf("API key must be at least 16 characters (got %d)", len(cfg.APIKey))
	}
	return nil
}

// constantTimeCompare performs a constant-time comparison of two strings.
// Keys of different length compare unequal immediately; only the length
// leaks.
func constantTimeCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
