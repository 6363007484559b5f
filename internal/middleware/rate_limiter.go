// internal/middleware/rate_limiter.go
package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"archnet/internal/apperrors"
	"archnet/internal/config"
	"archnet/internal/response"
)

// RateLimiter applies a fixed-window per-client request cap.
type RateLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	config  *config.SecurityConfig
	builder *response.Builder
	logger  *zap.Logger
}

type window struct {
	count   int
	resetAt time.Time
}

// NewRateLimiter creates a rate limiter.
func NewRateLimiter(cfg *config.SecurityConfig, builder *response.Builder, logger *zap.Logger) *RateLimiter {
	rl := &RateLimiter{
		windows: make(map[string]*window),
		config:  cfg,
		builder: builder,
		logger:  logger,
	}
	go rl.sweep()
	return rl
}

// Handler enforces the limit, keyed by client IP.
func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	if !rl.config.RateLimitEnabled {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientIP(r)
		if !rl.allow(key) {
			rl.logger.Warn("Rate limit exceeded",
				zap.String("client", key),
				zap.String("path", r.URL.Path))
			rl.builder.Error(w, r, apperrors.NewRateLimitError(
				"Too many requests, slow down",
				map[string]interface{}{"retry_after": rl.config.RateLimitWindow.Seconds()},
			))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	win, ok := rl.windows[key]
	if !ok || now.After(win.resetAt) {
		rl.windows[key] = &window{count: 1, resetAt: now.Add(rl.config.RateLimitWindow)}
		return true
	}
	if win.count >= rl.config.RateLimitRequests {
		return false
	}
	win.count++
	return true
}

func (rl *RateLimiter) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for key, win := range rl.windows {
			if now.After(win.resetAt) {
				delete(rl.windows, key)
			}
		}
		rl.mu.Unlock()
	}
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
