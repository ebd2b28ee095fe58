package rest

import (
	"context"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"cosmossdk.io/log"
	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/rs/cors"
	"golang.org/x/time/rate"
)

// RequestIDHeader carries the id assigned to every request.
const RequestIDHeader = "X-Request-ID"

const (
	defaultIdleTimeout = 10 * time.Minute
	sweepInterval      = time.Minute
)

// MiddlewareConfig configures the HTTP middleware chain.
type MiddlewareConfig struct {
	// AllowedOrigins enables CORS for the listed origins; empty disables it.
	AllowedOrigins []string
	// RequestsPerSecond and Burst bound requests per client IP; a zero rate
	// disables limiting.
	RequestsPerSecond float64
	Burst             int
	// IdleTimeout drops a client's bucket after this long without requests.
	// Zero means ten minutes.
	IdleTimeout time.Duration
}

// Wrap applies request ids, access logging, panic recovery, per-IP rate
// limiting and CORS to next. Idle rate-limit buckets are swept until ctx is
// done.
func Wrap(ctx context.Context, next http.Handler, cfg MiddlewareConfig, logger log.Logger) http.Handler {
	h := next
	if cfg.RequestsPerSecond > 0 {
		idle := cfg.IdleTimeout
		if idle <= 0 {
			idle = defaultIdleTimeout
		}
		rl := NewRateLimiter(cfg.RequestsPerSecond, cfg.Burst, idle)
		go rl.Run(ctx, sweepInterval)
		h = rl.Middleware(h)
	}
	if len(cfg.AllowedOrigins) > 0 {
		h = cors.New(cors.Options{
			AllowedOrigins: cfg.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type", RequestIDHeader},
		}).Handler(h)
	}
	h = handlers.RecoveryHandler(handlers.PrintRecoveryStack(false))(h)
	return requestID(accessLog(h, logger))
}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
			r.Header.Set(RequestIDHeader, id)
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

func accessLog(next http.Handler, logger log.Logger) http.Handler {
	return handlers.CustomLoggingHandler(nil, next, func(_ io.Writer, params handlers.LogFormatterParams) {
		logger.Debug("http request",
			"method", params.Request.Method,
			"path", params.URL.Path,
			"status", params.StatusCode,
			"size", params.Size,
			"request_id", params.Request.Header.Get(RequestIDHeader),
		)
	})
}

// RateLimiter hands out a token bucket per client IP and forgets clients
// that stay idle longer than its idle timeout.
type RateLimiter struct {
	limiters map[string]*clientLimiter
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
	idle     time.Duration
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(rps float64, burst int, idle time.Duration) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		limiters: make(map[string]*clientLimiter),
		rate:     rate.Limit(rps),
		burst:    burst,
		idle:     idle,
	}
}

// GetLimiter returns the limiter for key, creating it on first use.
func (rl *RateLimiter) GetLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cl, exists := rl.limiters[key]
	if !exists {
		cl = &clientLimiter{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[key] = cl
	}
	cl.lastSeen = time.Now()
	return cl.limiter
}

// Len returns the number of clients currently tracked.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limiters)
}

// Sweep drops clients not seen within the idle timeout before now and
// returns how many were dropped.
func (rl *RateLimiter) Sweep(now time.Time) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	removed := 0
	for key, cl := range rl.limiters {
		if now.Sub(cl.lastSeen) > rl.idle {
			delete(rl.limiters, key)
			removed++
		}
	}
	return removed
}

// Run sweeps idle clients every interval until ctx is done.
func (rl *RateLimiter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.Sweep(time.Now())
		case <-ctx.Done():
			return
		}
	}
}

// Middleware rejects requests over the client's budget with 429.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.GetLimiter(clientIP(r)).Allow() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"rate limit exceeded"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
