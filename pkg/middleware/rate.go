// Package middleware holds the HTTP middleware shared by the REST and
// GraphQL endpoints.
package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/shashiranjanraj/lojinha/pkg/response"
)

type client struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// limiter keeps one token bucket per client: max tokens, refilled evenly
// over window.
type limiter struct {
	mu      sync.Mutex
	max     int
	window  time.Duration
	clients map[string]*client
	sweepAt time.Time
	now     func() time.Time
}

func newLimiter(max int, window time.Duration) *limiter {
	if max <= 0 {
		max = 1
	}
	return &limiter{
		max:     max,
		window:  window,
		clients: make(map[string]*client),
		now:     time.Now,
	}
}

func (l *limiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.After(l.sweepAt) {
		for k, c := range l.clients {
			if now.Sub(c.lastSeen) > l.window {
				delete(l.clients, k)
			}
		}
		l.sweepAt = now.Add(l.window)
	}

	c, ok := l.clients[key]
	if !ok {
		c = &client{lim: rate.NewLimiter(rate.Every(l.window/time.Duration(l.max)), l.max)}
		l.clients[key] = c
	}
	c.lastSeen = now
	return c.lim.AllowN(now, 1)
}

// RateLimit limits each client IP to max requests per window.
//
//	r.Use(middleware.RateLimit(200, time.Minute))
func RateLimit(max int, window time.Duration) func(http.Handler) http.Handler {
	l := newLimiter(max, window)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.allow(clientIP(r)) {
				response.Error(w, http.StatusTooManyRequests, "Muitas requisições")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.SplitN(fwd, ",", 2)[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
