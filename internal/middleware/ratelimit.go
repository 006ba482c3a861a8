package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerMinute int
	BurstSize         int
}

// ClientLimiter keeps one token bucket per client IP
type ClientLimiter struct {
	mu        sync.Mutex
	clients   map[string]*clientEntry
	limit     rate.Limit
	burst     int
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type clientEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewClientLimiter(cfg RateLimitConfig) *ClientLimiter {
	burst := cfg.BurstSize
	if burst <= 0 {
		burst = 1
	}
	limit := rate.Inf
	if cfg.RequestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(cfg.RequestsPerMinute))
	}
	return &ClientLimiter{
		clients: make(map[string]*clientEntry),
		limit:   limit,
		burst:   burst,
		idleTTL: 10 * time.Minute,
		now:     time.Now,
	}
}

// Allow reports whether clientIP may make a request now
func (l *ClientLimiter) Allow(clientIP string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	entry, exists := l.clients[clientIP]
	if !exists {
		entry = &clientEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[clientIP] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}

// sweep drops clients idle longer than idleTTL, at most once per idleTTL
func (l *ClientLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.idleTTL {
		return
	}
	for ip, entry := range l.clients {
		if now.Sub(entry.lastSeen) > l.idleTTL {
			delete(l.clients, ip)
		}
	}
	l.lastSweep = now
}

// RateLimit rejects clients that exceed cfg with 429. A zero rate disables limiting.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	if cfg.RequestsPerMinute <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	limiter := NewClientLimiter(cfg)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientIP := getClientIP(r)

			if !limiter.Allow(clientIP) {
				zerolog.Ctx(r.Context()).Warn().
					Str("client_ip", clientIP).
					Msg("Rate limit exceeded")

				w.Header().Set("Retry-After", "60")
				writeError(w, r, http.StatusTooManyRequests, "RATE_LIMIT", "Rate limit exceeded. Please try again later.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// getClientIP extracts the real client IP address
func getClientIP(r *http.Request) string {
	if forwardedFor := r.Header.Get("X-Forwarded-For"); forwardedFor != "" {
		first, _, _ := strings.Cut(forwardedFor, ",")
		return strings.TrimSpace(first)
	}

	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
