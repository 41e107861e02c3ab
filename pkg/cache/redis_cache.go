package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"gps-monitor/internal/models"
	"gps-monitor/pkg/metrics"

	goredis "github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const (
	unitsKey    = "units"
	alertsKey   = "alerts"
	snapshotTag = "snapshot"
)

// ClientSource yields the current go-redis client. *redis.Client from
// gps-monitor/pkg/redis satisfies it and swaps the client on reconnect.
type ClientSource interface {
	GetClient() *goredis.Client
}

// RedisSnapshotCache implements SnapshotCache using Redis
type RedisSnapshotCache struct {
	source ClientSource
	config CacheConfig
	stats  *cacheStats
}

type cacheStats struct {
	mu            sync.RWMutex
	totalHits     int64
	totalMisses   int64
	evictionCount int64
}

func NewRedisSnapshotCache(source ClientSource, config CacheConfig) *RedisSnapshotCache {
	return &RedisSnapshotCache{
		source: source,
		config: config,
		stats:  &cacheStats{},
	}
}

func (r *RedisSnapshotCache) GetUnits(ctx context.Context) ([]models.Unit, bool, error) {
	var units []models.Unit
	ok, err := r.get(ctx, unitsKey, &units)
	return units, ok, err
}

func (r *RedisSnapshotCache) SetUnits(ctx context.Context, units []models.Unit) error {
	return r.set(ctx, unitsKey, units)
}

func (r *RedisSnapshotCache) GetAlerts(ctx context.Context) ([]models.Alert, bool, error) {
	var alerts []models.Alert
	ok, err := r.get(ctx, alertsKey, &alerts)
	return alerts, ok, err
}

func (r *RedisSnapshotCache) SetAlerts(ctx context.Context, alerts []models.Alert) error {
	return r.set(ctx, alertsKey, alerts)
}

func (r *RedisSnapshotCache) InvalidateSnapshot(ctx context.Context) error {
	return r.invalidateByTag(ctx, snapshotTag)
}

func (r *RedisSnapshotCache) get(ctx context.Context, name string, dest interface{}) (bool, error) {
	key := r.buildKey(name)

	data, err := r.source.GetClient().Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			r.recordMiss(name)
			return false, nil
		}
		return false, fmt.Errorf("failed to get %s from cache: %w", name, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cached %s: %w", name, err)
	}

	r.recordHit(name)
	return true, nil
}

func (r *RedisSnapshotCache) set(ctx context.Context, name string, value interface{}) error {
	key := r.buildKey(name)

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}

	if err := r.source.GetClient().Set(ctx, key, data, r.config.SnapshotTTL).Err(); err != nil {
		return fmt.Errorf("failed to set %s in cache: %w", name, err)
	}

	if err := r.tagKey(ctx, key, snapshotTag); err != nil {
		// the value is cached, only tag-based invalidation is degraded
		log.WithError(err).WithField("key", key).Warn("failed to tag cache key")
	}
	return nil
}

// tagKey associates tags with a cache key so a tag can invalidate all of them.
func (r *RedisSnapshotCache) tagKey(ctx context.Context, key string, tags ...string) error {
	pipe := r.source.GetClient().Pipeline()

	keyTagsKey := r.buildTagKey("key_tags", key)
	pipe.SAdd(ctx, keyTagsKey, tags)
	pipe.Expire(ctx, keyTagsKey, r.config.tagTTL())

	for _, tag := range tags {
		tagKeysKey := r.buildTagKey("tag_keys", tag)
		pipe.SAdd(ctx, tagKeysKey, key)
		pipe.Expire(ctx, tagKeysKey, r.config.tagTTL())
	}

	_, err := pipe.Exec(ctx)
	return err
}

func (r *RedisSnapshotCache) invalidateByTag(ctx context.Context, tag string) error {
	client := r.source.GetClient()
	tagKeysKey := r.buildTagKey("tag_keys", tag)

	keys, err := client.SMembers(ctx, tagKeysKey).Result()
	if err != nil {
		return fmt.Errorf("failed to get keys for tag %s: %w", tag, err)
	}
	if len(keys) == 0 {
		return nil
	}

	pipe := client.Pipeline()
	for _, key := range keys {
		pipe.Del(ctx, key)
		pipe.Del(ctx, r.buildTagKey("key_tags", key))
	}
	pipe.Del(ctx, tagKeysKey)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to invalidate keys for tag %s: %w", tag, err)
	}

	r.stats.mu.Lock()
	r.stats.evictionCount += int64(len(keys))
	r.stats.mu.Unlock()
	return nil
}

func (r *RedisSnapshotCache) GetCacheStats(ctx context.Context) CacheStats {
	r.stats.mu.RLock()
	stats := CacheStats{
		TotalHits:     r.stats.totalHits,
		TotalMisses:   r.stats.totalMisses,
		EvictionCount: r.stats.evictionCount,
	}
	r.stats.mu.RUnlock()

	if total := stats.TotalHits + stats.TotalMisses; total > 0 {
		stats.HitRate = float64(stats.TotalHits) / float64(total)
		stats.MissRate = float64(stats.TotalMisses) / float64(total)
	}

	if keys, err := r.source.GetClient().Keys(ctx, r.config.KeyPrefix+"*").Result(); err == nil {
		stats.KeyCount = len(keys)
	}
	return stats
}

func (r *RedisSnapshotCache) HealthCheck(ctx context.Context) error {
	return r.source.GetClient().Ping(ctx).Err()
}

func (r *RedisSnapshotCache) buildKey(name string) string {
	return fmt.Sprintf("%s%s", r.config.KeyPrefix, name)
}

func (r *RedisSnapshotCache) buildTagKey(keyType, identifier string) string {
	return fmt.Sprintf("%s%s:%s", r.config.TagPrefix, keyType, identifier)
}

func (r *RedisSnapshotCache) recordHit(name string) {
	r.stats.mu.Lock()
	r.stats.totalHits++
	r.stats.mu.Unlock()
	metrics.RecordCacheLookup(name, true)
}

func (r *RedisSnapshotCache) recordMiss(name string) {
	r.stats.mu.Lock()
	r.stats.totalMisses++
	r.stats.mu.Unlock()
	metrics.RecordCacheLookup(name, false)
}
