package ratelimit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// fixedWindowScript counts requests in a window of ARGV[2] milliseconds.
// Returns {allowed, milliseconds until the window resets}.
var fixedWindowScript = redis.NewScript(`
	local key = KEYS[1]
	local burst_size = tonumber(ARGV[1])
	local window_size = tonumber(ARGV[2])
	local now = tonumber(ARGV[3])

	local count = tonumber(redis.call('HGET', key, 'count')) or 0
	local window_start = tonumber(redis.call('HGET', key, 'window_start')) or now

	if now - window_start >= window_size then
		count = 0
		window_start = now
	end

	local allowed = count < burst_size
	if allowed then
		count = count + 1
	end

	local reset_ms = 0
	if not allowed then
		reset_ms = (window_start + window_size) - now
	end

	redis.call('HSET', key, 'count', count, 'window_start', window_start)
	redis.call('PEXPIRE', key, window_size)

	return {allowed and 1 or 0, reset_ms}
`)

// RedisRateLimiter implements RateLimiter with a fixed window counter shared
// by every replica through Redis.
type RedisRateLimiter struct {
	client       *redis.Client
	config       *Config
	total        atomic.Int64
	blocked      atomic.Int64
	customLimits customLimits
	mu           sync.RWMutex
	now          func() time.Time
}

// NewRedisRateLimiter creates a new Redis-backed rate limiter
func NewRedisRateLimiter(client *redis.Client, config *Config) *RedisRateLimiter {
	if config == nil {
		config = DefaultConfig()
	}

	return &RedisRateLimiter{
		client:       client,
		config:       config,
		customLimits: make(customLimits),
		now:          time.Now,
	}
}

func (r *RedisRateLimiter) Allow(ctx context.Context, clientID, endpoint string) (bool, time.Duration, error) {
	if !r.config.Enabled {
		return true, 0, nil
	}
	r.total.Add(1)

	limit := r.LimitFor(clientID, endpoint)
	key := fmt.Sprintf("%s%s:%s", r.config.RedisKeyPrefix, clientID, endpoint)

	res, err := fixedWindowScript.Run(ctx, r.client, []string{key},
		limit.BurstSize,
		limit.WindowSize.Milliseconds(),
		r.now().UnixMilli(),
	).Int64Slice()
	if err != nil {
		return false, 0, fmt.Errorf("rate limit check failed: %w", err)
	}
	if len(res) != 2 {
		return false, 0, fmt.Errorf("unexpected rate limit script result: %v", res)
	}

	if res[0] == 1 {
		return true, 0, nil
	}
	r.blocked.Add(1)
	return false, time.Duration(res[1]) * time.Millisecond, nil
}

func (r *RedisRateLimiter) LimitFor(clientID, endpoint string) RateLimit {
	r.mu.RLock()
	limit, ok := r.customLimits.lookup(clientID, endpoint)
	r.mu.RUnlock()
	if ok {
		return limit
	}
	return r.config.Limit(endpoint)
}

// SetCustomLimit overrides the limit for one client and persists it for a day
// so other replicas pick it up through LoadCustomLimits.
func (r *RedisRateLimiter) SetCustomLimit(ctx context.Context, clientID, endpoint string, limit RateLimit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.customLimits.set(clientID, endpoint, limit)

	data, err := json.Marshal(r.customLimits[clientID])
	if err != nil {
		return fmt.Errorf("failed to marshal custom limits: %w", err)
	}
	if err := r.client.Set(ctx, r.customKey(clientID), data, 24*time.Hour).Err(); err != nil {
		return fmt.Errorf("failed to persist custom limits: %w", err)
	}
	return nil
}

// LoadCustomLimits reads persisted custom limits, typically at startup.
func (r *RedisRateLimiter) LoadCustomLimits(ctx context.Context) error {
	prefix := r.customKey("")
	iter := r.client.Scan(ctx, 0, prefix+"*", 100).Iterator()

	r.mu.Lock()
	defer r.mu.Unlock()

	for iter.Next(ctx) {
		key := iter.Val()
		data, err := r.client.Get(ctx, key).Bytes()
		if err != nil {
			continue
		}
		var limits map[string]RateLimit
		if err := json.Unmarshal(data, &limits); err != nil {
			continue
		}
		r.customLimits[strings.TrimPrefix(key, prefix)] = limits
	}
	return iter.Err()
}

func (r *RedisRateLimiter) customKey(clientID string) string {
	return fmt.Sprintf("%scustom:%s", r.config.RedisKeyPrefix, clientID)
}

func (r *RedisRateLimiter) GetStats() RateLimiterStats {
	r.mu.RLock()
	active := len(r.customLimits)
	r.mu.RUnlock()

	stats := RateLimiterStats{
		TotalRequests:   r.total.Load(),
		BlockedRequests: r.blocked.Load(),
		ActiveClients:   active,
	}
	stats.BlockedRatio = blockedRatio(stats)
	return stats
}

// Close is a no-op; the Redis client is owned by the caller.
func (r *RedisRateLimiter) Close() error {
	return nil
}
