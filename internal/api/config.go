package api

import (
	"time"
)

// Config holds server configuration.
type Config struct {
	Port              int
	Version           string        // Reported by the health endpoint
	MaxBodyBytes      int64         // Largest accepted request body or websocket message
	CacheTTL          time.Duration // How long a result stays cached (0 = caching disabled)
	CacheEntries      int           // Cache capacity (0 = unbounded)
	RateLimitRequests int           // Requests per minute (0 = disabled)
	RateLimitBurst    int           // Burst size
	TrustedProxies    []string      // Proxy IPs or CIDRs whose forwarding headers are believed
	Auth              AuthConfig    // Authentication configuration
	TLS               TLSConfig     // TLS configuration
	AllowedOrigins    []string      // CORS and websocket allowed origins (empty = allow all)
}

// TLSConfig holds TLS/HTTPS configuration.
type TLSConfig struct {
	Enabled  bool   // Enable HTTPS
	CertFile string // Path to TLS certificate file
	KeyFile  string // Path to TLS private key file
}

// DefaultConfig returns the configuration used when no flags are given.
func DefaultConfig() Config {
	return Config{
		Port:         8080,
		Version:      "dev",
		MaxBodyBytes: 1 << 20,
		CacheTTL:     10 * time.Minute,
		CacheEntries: 1024,
	}
}
