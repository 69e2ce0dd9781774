package fx

import (
	"errors"
	"net"
	"net/http"
	"sync"

	"pricewatch/internal/pkg/render"

	"golang.org/x/time/rate"
)

var errRateLimited = errors.New("too many requests")

// ipLimiters hands out one token bucket per client IP. Buckets are never
// evicted; the set is bounded by maxClients and new IPs beyond it share one
// overflow bucket.
type ipLimiters struct {
	mu         sync.Mutex
	limit      rate.Limit
	burst      int
	maxClients int
	byIP       map[string]*rate.Limiter
	overflow   *rate.Limiter
}

func newIPLimiters(rps float64, burst, maxClients int) *ipLimiters {
	return &ipLimiters{
		limit:      rate.Limit(rps),
		burst:      burst,
		maxClients: maxClients,
		byIP:       make(map[string]*rate.Limiter),
		overflow:   rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func (l *ipLimiters) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if lim, ok := l.byIP[ip]; ok {
		return lim
	}
	if len(l.byIP) >= l.maxClients {
		return l.overflow
	}
	lim := rate.NewLimiter(l.limit, l.burst)
	l.byIP[ip] = lim
	return lim
}

// rateLimit answers 429 with Retry-After once a client IP drains its bucket.
// It runs after middleware.RealIP, so RemoteAddr is the forwarded address
// when a proxy set one.
func rateLimit(l *ipLimiters) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.get(clientIP(r)).Allow() {
				w.Header().Set("Retry-After", "1")
				render.ChiErr(w, r, http.StatusTooManyRequests, errRateLimited)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
