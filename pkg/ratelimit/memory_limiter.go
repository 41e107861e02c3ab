package ratelimit

import (
	"context"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"
)

// MemoryRateLimiter implements RateLimiter with per-process token buckets.
type MemoryRateLimiter struct {
	config       *Config
	total        atomic.Int64
	blocked      atomic.Int64
	customLimits customLimits
	buckets      map[string]*TokenBucket
	mu           sync.Mutex
	now          func() time.Time
	stop         chan struct{}
	stopOnce     sync.Once
}

// NewMemoryRateLimiter creates a new in-memory rate limiter
func NewMemoryRateLimiter(config *Config) *MemoryRateLimiter {
	if config == nil {
		config = DefaultConfig()
	}

	limiter := &MemoryRateLimiter{
		config:       config,
		customLimits: make(customLimits),
		buckets:      make(map[string]*TokenBucket),
		now:          time.Now,
		stop:         make(chan struct{}),
	}

	go limiter.cleanupLoop()

	return limiter
}

func (r *MemoryRateLimiter) Allow(_ context.Context, clientID, endpoint string) (bool, time.Duration, error) {
	if !r.config.Enabled {
		return true, 0, nil
	}
	r.total.Add(1)

	limit := r.LimitFor(clientID, endpoint)
	key := fmt.Sprintf("%s:%s", clientID, endpoint)
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	bucket := r.bucket(key, limit, now)

	elapsed := now.Sub(bucket.LastRefill).Seconds()
	if elapsed > 0 {
		bucket.Tokens = math.Min(bucket.Capacity, bucket.Tokens+elapsed*bucket.RefillRate)
		bucket.LastRefill = now
	}

	if bucket.Tokens >= 1 {
		bucket.Tokens--
		return true, 0, nil
	}

	r.blocked.Add(1)
	missing := 1 - bucket.Tokens
	wait := time.Duration(missing / bucket.RefillRate * float64(time.Second))
	return false, max(wait, time.Millisecond), nil
}

func (r *MemoryRateLimiter) bucket(key string, limit RateLimit, now time.Time) *TokenBucket {
	if b, ok := r.buckets[key]; ok {
		return b
	}
	rpm := limit.RequestsPerMinute
	if rpm <= 0 {
		rpm = 1
	}
	b := &TokenBucket{
		Capacity:   float64(limit.BurstSize),
		Tokens:     float64(limit.BurstSize),
		RefillRate: float64(rpm) / 60,
		LastRefill: now,
	}
	r.buckets[key] = b
	return b
}

// LimitFor returns the custom limit of the client if set, else the category limit.
func (r *MemoryRateLimiter) LimitFor(clientID, endpoint string) RateLimit {
	r.mu.Lock()
	limit, ok := r.customLimits.lookup(clientID, endpoint)
	r.mu.Unlock()
	if ok {
		return limit
	}
	return r.config.Limit(endpoint)
}

func (r *MemoryRateLimiter) SetCustomLimit(_ context.Context, clientID, endpoint string, limit RateLimit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.customLimits.set(clientID, endpoint, limit)
	delete(r.buckets, fmt.Sprintf("%s:%s", clientID, endpoint))
	return nil
}

func (r *MemoryRateLimiter) GetStats() RateLimiterStats {
	r.mu.Lock()
	active := len(r.buckets)
	r.mu.Unlock()

	stats := RateLimiterStats{
		TotalRequests:   r.total.Load(),
		BlockedRequests: r.blocked.Load(),
		ActiveClients:   active,
	}
	stats.BlockedRatio = blockedRatio(stats)
	return stats
}

// Close stops the cleanup goroutine.
func (r *MemoryRateLimiter) Close() error {
	r.stopOnce.Do(func() { close(r.stop) })
	return nil
}

// cleanupLoop drops buckets idle for more than an hour.
func (r *MemoryRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(r.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			r.evictIdle(time.Hour)
		}
	}
}

func (r *MemoryRateLimiter) evictIdle(idle time.Duration) {
	now := r.now()
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, bucket := range r.buckets {
		if now.Sub(bucket.LastRefill) > idle {
			delete(r.buckets, key)
		}
	}
}
