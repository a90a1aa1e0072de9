package httpserver

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"forum/backend/internal/config"
	"forum/backend/internal/logging"

	"golang.org/x/time/rate"
)

const limiterSweepInterval = 5 * time.Minute

// rateLimiter keeps one token bucket per client key.
type rateLimiter struct {
	limiters  sync.Map // map[string]*rate.Limiter
	limit     rate.Limit
	burst     int
	cfg       config.RateLimit
	mu        sync.Mutex
	lastSweep time.Time
}

// newRateLimiter returns nil when cfg disables limiting.
func newRateLimiter(cfg config.RateLimit) *rateLimiter {
	if cfg.Requests <= 0 || cfg.Window <= 0 {
		return nil
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = cfg.Requests
	}
	return &rateLimiter{
		limit:     rate.Limit(float64(cfg.Requests) / cfg.Window.Seconds()),
		burst:     burst,
		cfg:       cfg,
		lastSweep: time.Now(),
	}
}

func (rl *rateLimiter) limiterFor(key string) *rate.Limiter {
	if l, ok := rl.limiters.Load(key); ok {
		return l.(*rate.Limiter)
	}
	actual, _ := rl.limiters.LoadOrStore(key, rate.NewLimiter(rl.limit, rl.burst))
	rl.sweep()
	return actual.(*rate.Limiter)
}

// sweep drops limiters whose bucket has refilled.
func (rl *rateLimiter) sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if time.Since(rl.lastSweep) < limiterSweepInterval {
		return
	}
	rl.lastSweep = time.Now()
	rl.limiters.Range(func(key, value any) bool {
		if value.(*rate.Limiter).Tokens() >= float64(rl.burst) {
			rl.limiters.Delete(key)
		}
		return true
	})
}

// retryAfter reports how long until the next token, rounded up to a second.
func (rl *rateLimiter) retryAfter(l *rate.Limiter) int {
	reservation := l.Reserve()
	delay := reservation.Delay()
	reservation.Cancel()
	return max(int(delay.Seconds()), 1)
}

func (s *Server) withRateLimit(next http.Handler) http.Handler {
	rl := s.limiter
	if rl == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientIP(r, rl.cfg.TrustProxyHeaders)
		limiter := rl.limiterFor(key)
		if !limiter.Allow() {
			wait := rl.retryAfter(limiter)
			w.Header().Set("Retry-After", strconv.Itoa(wait))
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.cfg.Requests))
			w.Header().Set("X-RateLimit-Window", rl.cfg.Window.String())

			logging.FromContext(r.Context()).Warn("rate limit exceeded",
				"key", key,
				"path", r.URL.Path,
				"retry_after", wait,
			)
			s.metrics.observeAuth("rate_limit", "rejected")
			writeMessage(w, http.StatusTooManyRequests, "too many requests, try again later")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP returns the socket address host. Proxy headers are consulted
// first only when trustProxy is set.
func clientIP(r *http.Request, trustProxy bool) string {
	if !trustProxy {
		return remoteHost(r)
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	return remoteHost(r)
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
