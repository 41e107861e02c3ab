package cache

import "time"

// CacheConfig holds TTL and key naming for the snapshot cache.
type CacheConfig struct {
	SnapshotTTL time.Duration `json:"snapshotTTL"`
	KeyPrefix   string        `json:"keyPrefix"`
	TagPrefix   string        `json:"tagPrefix"`
}

// DefaultCacheConfig returns default cache configuration
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		SnapshotTTL: 30 * time.Second,
		KeyPrefix:   "gps:",
		TagPrefix:   "gps_tag:",
	}
}

// tagTTL keeps tag bookkeeping alive at least as long as the data it indexes.
func (c CacheConfig) tagTTL() time.Duration {
	return c.SnapshotTTL * 2
}
