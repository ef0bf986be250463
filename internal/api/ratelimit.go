package api

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync"
	"time"

	"github.com/FocuswithJustin/correctir/core/errors"
	"github.com/FocuswithJustin/correctir/internal/cache"
	"github.com/FocuswithJustin/correctir/internal/logging"
)

// RateLimiterConfig holds rate limiter configuration.
type RateLimiterConfig struct {
	RequestsPerMinute int
	BurstSize         int

	// TrustedProxies are the peers whose X-Forwarded-For and X-Real-IP
	// headers are believed. Requests from anyone else are limited by
	// their RemoteAddr.
	TrustedProxies []netip.Prefix
}

// tokenBucket implements a token bucket rate limiter.
type tokenBucket struct {
	tokens         float64
	capacity       float64
	refillRate     float64 // tokens per second
	lastRefillTime time.Time
	mu             sync.Mutex
}

func newTokenBucket(capacity, refillRate float64, now time.Time) *tokenBucket {
	return &tokenBucket{
		tokens:         capacity,
		capacity:       capacity,
		refillRate:     refillRate,
		lastRefillTime: now,
	}
}

// refill adds the tokens earned since the last refill. Callers hold tb.mu.
func (tb *tokenBucket) refill(now time.Time) {
	elapsed := now.Sub(tb.lastRefillTime).Seconds()
	tb.tokens = min(tb.capacity, tb.tokens+elapsed*tb.refillRate)
	tb.lastRefillTime = now
}

// allow takes a token if one is available.
func (tb *tokenBucket) allow(now time.Time) bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill(now)

	// Check if we have a token available
	if tb.tokens >= 1.0 {
		tb.tokens--
		return true
	}
	return false
}

// state returns the whole tokens left and the time the bucket is full again.
func (tb *tokenBucket) state(now time.Time) (int, time.Time) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill(now)
	if tb.tokens >= tb.capacity {
		return int(tb.tokens), now
	}
	tokensNeeded := tb.capacity - tb.tokens
	secondsUntilFull := tokensNeeded / tb.refillRate
	return int(tb.tokens), now.Add(time.Duration(secondsUntilFull * float64(time.Second)))
}

// maxTrackedClients bounds the number of per-IP buckets kept at once.
const maxTrackedClients = 10000

// RateLimiter manages per-IP rate limiting. Idle buckets expire from the
// underlying cache after a few minutes.
type RateLimiter struct {
	buckets *cache.TTLCache[string, *tokenBucket]
	config  RateLimiterConfig
	mu      sync.Mutex
	now     func() time.Time
}

// NewRateLimiter creates a new rate limiter with the given configuration.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	if config.BurstSize <= 0 {
		config.BurstSize = 10
	}
	return &RateLimiter{
		buckets: cache.New[string, *tokenBucket](5*time.Minute, maxTrackedClients),
		config:  config,
		now:     time.Now,
	}
}

// getBucket returns the bucket for ip, creating it if necessary. Every
// access refreshes the bucket's expiry.
func (rl *RateLimiter) getBucket(ip string) *tokenBucket {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	bucket, ok := rl.buckets.Get(ip)
	if !ok {
		// Convert requests per minute to tokens per second
		refillRate := float64(rl.config.RequestsPerMinute) / 60.0
		bucket = newTokenBucket(float64(rl.config.BurstSize), refillRate, rl.now())
	}
	rl.buckets.Set(ip, bucket)
	return bucket
}

// Allow checks if a request from the given IP should be allowed.
func (rl *RateLimiter) Allow(ip string) bool {
	return rl.getBucket(ip).allow(rl.now())
}

// Middleware returns an HTTP middleware that applies rate limiting.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := getClientIP(r, rl.config.TrustedProxies)
		bucket := rl.getBucket(ip)
		now := rl.now()
		allowed := bucket.allow(now)
		remaining, reset := bucket.state(now)

		// Set rate limit headers
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", rl.config.RequestsPerMinute))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", reset.Unix()))

		if !allowed {
			retryAfter := int(reset.Sub(now).Seconds()) + 1
			w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
			logging.RequestRejected(r.Context(), "rate limit exceeded", "client_ip", ip)
			respondError(w, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED",
				fmt.Sprintf("Rate limit exceeded. Try again in %d seconds.", retryAfter))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// getClientIP extracts the client IP address from the request.
// Forwarding headers are only read when the direct peer is a trusted proxy;
// otherwise any client could pick its own bucket by sending a fresh
// X-Forwarded-For on every request.
func getClientIP(r *http.Request, trusted []netip.Prefix) string {
	// RemoteAddr is in format "IP:port", strip the port
	peer, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// RemoteAddr may be a bare IP without port
		peer = r.RemoteAddr
	}
	if !isValidIP(peer) {
		return "unknown"
	}
	if !isTrusted(peer, trusted) {
		return peer
	}

	// Format: X-Forwarded-For: client, proxy1, proxy2
	// Walk from the right, skipping our own proxies; the first hop we do
	// not trust is the client.
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		hops := strings.Split(forwarded, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop := strings.TrimSpace(hops[i])
			if !isValidIP(hop) {
				break
			}
			if !isTrusted(hop, trusted) || i == 0 {
				return hop
			}
		}
	}

	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" && isValidIP(realIP) {
		return realIP
	}
	return peer
}

// isValidIP checks if a string is a valid IPv4 or IPv6 address.
func isValidIP(ipStr string) bool {
	return net.ParseIP(ipStr) != nil
}

// isTrusted reports whether ip falls in one of the trusted prefixes.
func isTrusted(ip string, trusted []netip.Prefix) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// ParseTrustedProxies parses proxy addresses given as single IPs or CIDR
// prefixes.
func ParseTrustedProxies(specs []string) ([]netip.Prefix, error) {
	out := make([]netip.Prefix, 0, len(specs))
	for _, spec := range specs {
		spec = strings.TrimSpace(spec)
		if spec == "" {
			continue
		}
		if strings.Contains(spec, "/") {
			p, err := netip.ParsePrefix(spec)
			if err != nil {
				return nil, errors.NewValidation("trusted_proxies", fmt.Sprintf("invalid prefix %q", spec))
			}
			out = append(out, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(spec)
		if err != nil {
			return nil, errors.NewValidation("trusted_proxies", fmt.Sprintf("invalid address %q", spec))
		}
		addr = addr.Unmap()
		out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return out, nil
}
