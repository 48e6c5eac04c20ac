package httpx

import (
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig defines the limiting parameters for one endpoint class.
type RateLimitConfig struct {
	RequestsPerWindow int
	Window            time.Duration
	Burst             int
}

// Endpoint-class profiles. Overridable through RATELIMIT_{CLASS}_{FIELD}
// environment variables so test environments can loosen them.
var (
	// StrictLimit for credential-bearing endpoints (login, register).
	StrictLimit = RateLimitConfig{RequestsPerWindow: 5, Window: time.Minute, Burst: 5}

	// ModerateLimit for authenticated admin operations.
	ModerateLimit = RateLimitConfig{RequestsPerWindow: 20, Window: time.Minute, Burst: 20}

	// LenientLimit for health checks and low-risk reads.
	LenientLimit = RateLimitConfig{RequestsPerWindow: 100, Window: time.Minute, Burst: 100}
)

func init() {
	StrictLimit = limitFromEnv("STRICT", StrictLimit)
	ModerateLimit = limitFromEnv("MODERATE", ModerateLimit)
	LenientLimit = limitFromEnv("LENIENT", LenientLimit)
}

func limitFromEnv(class string, def RateLimitConfig) RateLimitConfig {
	cfg := def
	if v := os.Getenv("RATELIMIT_" + class + "_REQUESTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RequestsPerWindow = n
		}
	}
	if v := os.Getenv("RATELIMIT_" + class + "_WINDOW_SEC"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Window = time.Duration(n) * time.Second
		}
	}
	if v := os.Getenv("RATELIMIT_" + class + "_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Burst = n
		}
	}
	return cfg
}

// clientIP extracts the caller address, honouring proxy headers.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i >= 0 {
			return strings.TrimSpace(xff[:i])
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

type limiterPool struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	cfg      RateLimitConfig
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newLimiterPool(cfg RateLimitConfig) *limiterPool {
	p := &limiterPool{
		limiters: make(map[string]*limiterEntry),
		cfg:      cfg,
	}
	go p.evictStale()
	return p
}

func (p *limiterPool) get(key string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()

	e, ok := p.limiters[key]
	if !ok {
		limit := rate.Every(p.cfg.Window / time.Duration(p.cfg.RequestsPerWindow))
		e = &limiterEntry{limiter: rate.NewLimiter(limit, p.cfg.Burst)}
		p.limiters[key] = e
	}
	e.lastSeen = time.Now()
	return e.limiter
}

// evictStale drops limiters idle for several windows to bound memory.
func (p *limiterPool) evictStale() {
	ticker := time.NewTicker(p.cfg.Window)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-3 * p.cfg.Window)
		p.mu.Lock()
		for key, e := range p.limiters {
			if e.lastSeen.Before(cutoff) {
				delete(p.limiters, key)
			}
		}
		p.mu.Unlock()
	}
}

// RateLimitByIP returns middleware enforcing cfg per client IP.
func RateLimitByIP(cfg RateLimitConfig) Middleware {
	pool := newLimiterPool(cfg)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !pool.get(clientIP(r)).Allow() {
				w.Header().Set("Retry-After", strconv.Itoa(int(cfg.Window.Seconds())))
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
