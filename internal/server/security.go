package server

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/PotSettle_Go/internal/logger"
)

// GuardLimits bounds per-client traffic over a fixed window
type GuardLimits struct {
	Window          time.Duration
	MaxRequests     int64
	FailedAuthAlert int64
	MaxClients      int
}

// DefaultGuardLimits allows 1000 requests per client every five minutes
func DefaultGuardLimits() GuardLimits {
	return GuardLimits{
		Window:          DefaultGuardWindow,
		MaxRequests:     DefaultGuardMaxRequests,
		FailedAuthAlert: DefaultGuardFailedAuthAlert,
		MaxClients:      DefaultGuardMaxClients,
	}
}

// ClientGuard resolves client addresses and counts requests and failed
// authentications per address. A client's window starts with its first
// request and its counters vanish when the window expires.
type ClientGuard struct {
	limits   GuardLimits
	trusted  []netip.Prefix
	mu       sync.Mutex
	requests *expirable.LRU[string, *atomic.Int64]
	failures *expirable.LRU[string, *atomic.Int64]
}

// NewClientGuard builds a guard. Trusted proxies may be single addresses or
// CIDR ranges; unparsable entries are logged and ignored.
func NewClientGuard(limits GuardLimits, trustedProxies []string) *ClientGuard {
	g := &ClientGuard{
		limits:   limits,
		requests: expirable.NewLRU[string, *atomic.Int64](limits.MaxClients, nil, limits.Window),
		failures: expirable.NewLRU[string, *atomic.Int64](limits.MaxClients, nil, limits.Window),
	}
	for _, raw := range trustedProxies {
		prefix, err := parseProxy(raw)
		if err != nil {
			slog.Warn(LogMsgBadTrustedProxy, "proxy", raw, "error", err)
			continue
		}
		g.trusted = append(g.trusted, prefix)
	}
	return g
}

func parseProxy(raw string) (netip.Prefix, error) {
	raw = strings.TrimSpace(raw)
	if strings.Contains(raw, "/") {
		return netip.ParsePrefix(raw)
	}
	addr, err := netip.ParseAddr(raw)
	if err != nil {
		return netip.Prefix{}, err
	}
	return netip.PrefixFrom(addr, addr.BitLen()), nil
}

func (g *ClientGuard) isTrusted(raw string) bool {
	addr, err := netip.ParseAddr(raw)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range g.trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// ClientIP returns the address of the client behind any trusted proxies.
// X-Forwarded-For is read right to left and only while each hop is trusted.
func (g *ClientGuard) ClientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	if !g.isTrusted(ip) {
		return ip
	}

	hops := strings.Split(r.Header.Get(HeaderForwardedFor), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop == "" {
			continue
		}
		ip = hop
		if !g.isTrusted(hop) {
			break
		}
	}
	return ip
}

func (g *ClientGuard) counter(cache *expirable.LRU[string, *atomic.Int64], ip string) *atomic.Int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	c, ok := cache.Get(ip)
	if !ok {
		c = new(atomic.Int64)
		cache.Add(ip, c)
	}
	return c
}

// Allow counts a request and reports whether the client is within its limit
func (g *ClientGuard) Allow(ip string) bool {
	n := g.counter(g.requests, ip).Add(1)
	if n <= g.limits.MaxRequests {
		return true
	}
	if over := n - g.limits.MaxRequests; over == 1 || over%100 == 0 {
		slog.Warn(SecurityAlertHighRate, "ip", ip, "count_in_window", n)
	}
	return false
}

// FailedAuth counts a rejected API key and returns the count in the window
func (g *ClientGuard) FailedAuth(ip string) int64 {
	n := g.counter(g.failures, ip).Add(1)
	if n >= g.limits.FailedAuthAlert {
		slog.Warn(SecurityAlertFailedAuth, "ip", ip, "count", n)
	}
	return n
}

type clientIPKey struct{}

// clientIPFrom returns the address stored by RateLimitMiddleware
func clientIPFrom(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey{}).(string)
	return ip
}

// RateLimitMiddleware rejects clients over their window limit and stores
// the resolved client address on the request context
func RateLimitMiddleware(guard *ClientGuard) func(http.Handler) http.Handler {
	retryAfter := strconv.Itoa(int(guard.limits.Window.Seconds()))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := guard.ClientIP(r)
			if !guard.Allow(ip) {
				w.Header().Set(HeaderRetryAfter, retryAfter)
				http.Error(w, ErrMsgTooManyRequests, http.StatusTooManyRequests)
				return
			}
			ctx := context.WithValue(r.Context(), clientIPKey{}, ip)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func isPublicPath(path string) bool {
	for _, prefix := range PublicPaths {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// AuthMiddleware requires the API key on every non-public path
func AuthMiddleware(apiKey string, guard *ClientGuard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublicPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			provided := r.Header.Get(HeaderAPIKey)
			if apiKey == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
				ip := clientIPFrom(r.Context())
				if ip == "" {
					ip = guard.ClientIP(r)
				}
				failures := guard.FailedAuth(ip)
				logger.FromContext(r.Context()).Warn(LogMsgAuthFailed,
					"path", r.URL.Path,
					"has_key", provided != "",
					"ip", ip,
					"failures_in_window", failures)
				http.Error(w, ErrMsgUnauthorized, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequestSizeLimitMiddleware caps request bodies at maxBytes
func RequestSizeLimitMiddleware(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				http.Error(w, ErrMsgBodyTooLarge, http.StatusRequestEntityTooLarge)
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// SecurityHeadersMiddleware sets the response hardening headers
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			for name, value := range SecurityHeaders {
				h.Set(name, value)
			}
			next.ServeHTTP(w, r)
		})
	}
}
