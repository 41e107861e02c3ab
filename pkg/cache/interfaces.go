package cache

import (
	"context"

	"gps-monitor/internal/models"
)

// SnapshotCache caches the provider's unit and alert collections.
// Lookups report a miss with ok == false and a nil error.
type SnapshotCache interface {
	GetUnits(ctx context.Context) (units []models.Unit, ok bool, err error)
	SetUnits(ctx context.Context, units []models.Unit) error
	GetAlerts(ctx context.Context) (alerts []models.Alert, ok bool, err error)
	SetAlerts(ctx context.Context, alerts []models.Alert) error

	// InvalidateSnapshot drops every cached collection.
	InvalidateSnapshot(ctx context.Context) error

	GetCacheStats(ctx context.Context) CacheStats
	HealthCheck(ctx context.Context) error
}

// CacheStats provides cache performance metrics
type CacheStats struct {
	HitRate       float64 `json:"hitRate"`
	MissRate      float64 `json:"missRate"`
	KeyCount      int     `json:"keyCount"`
	EvictionCount int64   `json:"evictionCount"`
	TotalHits     int64   `json:"totalHits"`
	TotalMisses   int64   `json:"totalMisses"`
}
