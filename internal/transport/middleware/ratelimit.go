package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/heartmarshall/catalog-compliance/pkg/ctxutil"
)

const idleLimiterTTL = 10 * time.Minute

// RateLimiter applies a token bucket per tenant, or per client IP for
// unauthenticated routes.
type RateLimiter struct {
	limiters sync.Map // map[string]*keyLimiter
	stop     chan struct{}
	once     sync.Once
}

type keyLimiter struct {
	limiter  *rate.Limiter
	mu       sync.Mutex
	lastSeen time.Time
}

// NewRateLimiter creates a rate limiter with background cleanup.
// Call Stop() on shutdown.
func NewRateLimiter(cleanupInterval time.Duration) *RateLimiter {
	rl := &RateLimiter{stop: make(chan struct{})}
	go rl.cleanup(cleanupInterval)
	return rl
}

// Stop terminates the background cleanup goroutine.
func (rl *RateLimiter) Stop() {
	rl.once.Do(func() { close(rl.stop) })
}

// Limit returns middleware that allows maxPerMinute requests per key with a
// burst of the same size.
func (rl *RateLimiter) Limit(maxPerMinute int) Middleware {
	every := rate.Every(time.Minute / time.Duration(max(maxPerMinute, 1)))
	retryAfter := strconv.Itoa(int(math.Ceil(60.0/float64(max(maxPerMinute, 1)))))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.get(limitKey(r), every, maxPerMinute).Allow() {
				w.Header().Set("Retry-After", retryAfter)
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func limitKey(r *http.Request) string {
	if tenantID, ok := ctxutil.TenantIDFromCtx(r.Context()); ok {
		return "tenant:" + tenantID
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}

func (rl *RateLimiter) get(key string, every rate.Limit, burst int) *rate.Limiter {
	val, _ := rl.limiters.LoadOrStore(key, &keyLimiter{limiter: rate.NewLimiter(every, max(burst, 1))})
	kl := val.(*keyLimiter)
	kl.mu.Lock()
	kl.lastSeen = time.Now()
	kl.mu.Unlock()
	return kl.limiter
}

func (rl *RateLimiter) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			now := time.Now()
			rl.limiters.Range(func(key, value any) bool {
				kl := value.(*keyLimiter)
				kl.mu.Lock()
				idle := now.Sub(kl.lastSeen)
				kl.mu.Unlock()
				if idle > idleLimiterTTL {
					rl.limiters.Delete(key)
				}
				return true
			})
		}
	}
}
