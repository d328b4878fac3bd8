package api

import (
	"crypto/subtle"
	"net"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"github.com/tallybook/tally/pkg/config"
)

// CORS wraps an http.Handler with CORS headers for cross-origin requests.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-API-Key, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// KeyMatcher reports whether a presented API key is valid.
type KeyMatcher func(presented string) bool

// MatchKey returns a KeyMatcher for a configured key. A key starting
// with "$2" is treated as a bcrypt hash.
func MatchKey(key string) KeyMatcher {
	if strings.HasPrefix(key, "$2") {
		hash := []byte(key)
		return func(presented string) bool {
			return presented != "" && bcrypt.CompareHashAndPassword(hash, []byte(presented)) == nil
		}
	}
	want := []byte(key)
	return func(presented string) bool {
		return presented != "" && subtle.ConstantTimeCompare([]byte(presented), want) == 1
	}
}

// HashKey returns the bcrypt hash of an API key, for use as server.api_key.
func HashKey(key string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	return string(b), err
}

// APIKeyAuth returns middleware that validates the X-API-Key header.
// If key is empty, the middleware is a no-op (all requests pass through).
func APIKeyAuth(key string) func(http.Handler) http.Handler {
	return Auth(key, "")
}

// Auth returns middleware that accepts either a valid X-API-Key header or
// an "Authorization: Bearer" token signed with jwtSecret. With neither
// configured every request passes. /healthz is always public.
func Auth(key, jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if key == "" && jwtSecret == "" {
			return next
		}
		var match KeyMatcher
		if key != "" {
			match = MatchKey(key)
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/healthz" {
				next.ServeHTTP(w, r)
				return
			}
			if match != nil && match(r.Header.Get("X-API-Key")) {
				next.ServeHTTP(w, r)
				return
			}
			if jwtSecret != "" {
				if token, ok := bearerToken(r); ok {
					if _, err := ParseToken(jwtSecret, token); err == nil {
						next.ServeHTTP(w, r)
						return
					}
				}
			}
			http.Error(w, "unauthorized", http.StatusUnauthorized)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(h[len(prefix):]), true
}

// IPRateLimiter keeps one token bucket per client IP.
type IPRateLimiter struct {
	mu  sync.Mutex
	ips map[string]*rate.Limiter
	r   rate.Limit
	b   int
}

// NewIPRateLimiter allows r requests per second with bursts of b per IP.
func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	if b <= 0 {
		b = 1
	}
	return &IPRateLimiter{
		ips: make(map[string]*rate.Limiter),
		r:   r,
		b:   b,
	}
}

func (i *IPRateLimiter) limiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	l, ok := i.ips[ip]
	if !ok {
		l = rate.NewLimiter(i.r, i.b)
		i.ips[ip] = l
	}
	return l
}

// Middleware rejects requests over the limit with 429.
func (i *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !i.limiter(clientIP(r)).Allow() {
			writeError(w, http.StatusTooManyRequests, "too many requests, try again later")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RateLimit returns per-IP rate limiting middleware. A non-positive rps
// disables it.
func RateLimit(rps float64, burst int) func(http.Handler) http.Handler {
	if rps <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return NewIPRateLimiter(rate.Limit(rps), burst).Middleware
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Wrap applies the standard middleware stack for cfg: CORS outermost,
// then rate limiting, then authentication.
func Wrap(h http.Handler, cfg config.ServerConfig) http.Handler {
	h = Auth(cfg.APIKey, cfg.JWTSecret)(h)
	h = RateLimit(cfg.RateLimit, cfg.RateBurst)(h)
	return CORS(h)
}
