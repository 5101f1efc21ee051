package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/metrics"
	"github.com/vmonroyc-dev/faltantes-chmh-version-2/pkg/response"

	"github.com/juju/ratelimit"
)

const rateLimitCleanupInterval = 30 * time.Minute

// RateLimiter keeps one token bucket per client.
type RateLimiter struct {
	clients map[string]*ratelimit.Bucket
	mu      sync.RWMutex

	rate     float64
	capacity int64

	stopChan chan struct{}
	stopOnce sync.Once
}

func NewRateLimiter(rate float64, capacity int64) *RateLimiter {
	rl := &RateLimiter{
		clients:  make(map[string]*ratelimit.Bucket),
		rate:     rate,
		capacity: capacity,
		stopChan: make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

func (rl *RateLimiter) getBucket(key string) *ratelimit.Bucket {
	rl.mu.RLock()
	bucket, exists := rl.clients[key]
	rl.mu.RUnlock()

	if !exists {
		rl.mu.Lock()
		if bucket, exists = rl.clients[key]; !exists {
			bucket = ratelimit.NewBucketWithRate(rl.rate, rl.capacity)
			rl.clients[key] = bucket
			metrics.RateLimiterBucketsTotal.Set(float64(len(rl.clients)))
		}
		rl.mu.Unlock()
	}

	return bucket
}

// cleanupLoop drops buckets that have refilled completely.
func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rateLimitCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stopChan:
			return
		case <-ticker.C:
			rl.mu.Lock()
			for key, bucket := range rl.clients {
				if bucket.Available() == bucket.Capacity() {
					delete(rl.clients, key)
				}
			}
			metrics.RateLimiterBucketsTotal.Set(float64(len(rl.clients)))
			rl.mu.Unlock()
		}
	}
}

func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopChan) })
}

// Limit rejects a request with 429 when the client has no token left.
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		bucket := rl.getBucket(limitKey(r))

		w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(rl.capacity, 10))
		if bucket.TakeAvailable(1) == 0 {
			response.TooManyRequests(w, "Too many requests, please retry shortly")
			return
		}
		w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(bucket.Available(), 10))

		next.ServeHTTP(w, r)
	})
}

// limitKey is the client cookie id, or the remote host when the client did not
// present a cookie.
func limitKey(r *http.Request) string {
	clientID, ok := GetClientIDFromContext(r.Context())
	if !ok || clientID == "" || IsClientIDIssued(r.Context()) {
		return "ip:" + remoteHost(r)
	}
	return "client:" + clientID
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
