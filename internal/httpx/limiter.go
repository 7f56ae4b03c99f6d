package httpx

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// IPLimiter throttles requests per client address. RealIP runs before it, so
// RemoteAddr already holds the forwarded address when a proxy sets one.
type IPLimiter struct {
	mu      sync.Mutex
	clients map[string]*visitor
	rate    rate.Limit
	burst   int
	idle    time.Duration
}

type visitor struct {
	lim  *rate.Limiter
	seen time.Time
}

func NewIPLimiter(perSecond float64, burst int) *IPLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &IPLimiter{
		clients: map[string]*visitor{},
		rate:    rate.Limit(perSecond),
		burst:   burst,
		idle:    10 * time.Minute,
	}
}

func (l *IPLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	v, ok := l.clients[ip]
	if !ok {
		v = &visitor{lim: rate.NewLimiter(l.rate, l.burst)}
		l.clients[ip] = v
	}
	v.seen = now

	// bersihkan visitor lama sekalian
	if len(l.clients) > 1024 {
		for k, c := range l.clients {
			if now.Sub(c.seen) > l.idle {
				delete(l.clients, k)
			}
		}
	}
	return v.lim.Allow()
}

func (l *IPLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		if !l.allow(ip) {
			w.Header().Set("Retry-After", "1")
			writeJSON(w, http.StatusTooManyRequests, ErrorResponse{Error: "too many login attempts"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
