package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"gps-monitor/internal/dashboard"
	"gps-monitor/internal/models"
	"gps-monitor/internal/repository"
	"gps-monitor/pkg/cache"
	"gps-monitor/pkg/logger"
	"gps-monitor/pkg/metrics"
	"gps-monitor/pkg/telemetry"

	log "github.com/sirupsen/logrus"
)

// Refresh triggers
const (
	TriggerManual = "manual"
	TriggerAuto   = "auto"
)

// Notifier receives dashboard change events. The websocket hub implements it.
type Notifier interface {
	BroadcastRefresh(stats models.DashboardStats, lastUpdated string, changes []telemetry.UnitChange)
	BroadcastAlertAcknowledged(alertID, unitID string, status models.UnitStatus, stats models.DashboardStats)
}

// Snapshot is one consistent read of the provider with alerts attached to
// their units.
type Snapshot struct {
	Units    []models.Unit
	Alerts   []models.Alert
	Stats    models.DashboardStats
	Dangling []models.Alert
}

// Overview is the header of the dashboard: counters, alert banner and the
// time of the last refresh.
type Overview struct {
	Stats         models.DashboardStats `json:"stats"`
	AlertBanner   dashboard.AlertBanner `json:"alertBanner"`
	LastUpdated   string                `json:"lastUpdated"`
	LastUpdatedAt time.Time             `json:"lastUpdatedAt"`
	// Set on refresh only
	Changes []telemetry.UnitChange `json:"changes,omitempty"`
}

type DashboardService struct {
	provider  repository.Provider
	formatter *dashboard.Formatter
	cache     cache.SnapshotCache
	notifier  Notifier
	tracker   *telemetry.DeltaTracker
	now       func() time.Time

	mu          sync.RWMutex
	lastUpdated time.Time

	log *log.Entry
}

func NewDashboardService(provider repository.Provider, formatter *dashboard.Formatter) *DashboardService {
	return &DashboardService{
		provider:    provider,
		formatter:   formatter,
		tracker:     telemetry.NewDeltaTracker(),
		now:         time.Now,
		lastUpdated: time.Now(),
		log:         logger.Component("dashboard"),
	}
}

// SetCache enables cache-first reads through the snapshot cache
func (s *DashboardService) SetCache(c cache.SnapshotCache) {
	s.cache = c
}

// SetNotifier allows setting the receiver of refresh and acknowledgement events
func (s *DashboardService) SetNotifier(n Notifier) {
	s.notifier = n
}

// SetChangeDistance sets how far a unit must move between refreshes to be
// reported as changed.
func (s *DashboardService) SetChangeDistance(meters float64) {
	s.tracker.SetThresholds(telemetry.DeltaThresholds{LocationMeters: meters})
}

// SetClock replaces time.Now, for tests.
func (s *DashboardService) SetClock(now func() time.Time) {
	s.now = now
	s.mu.Lock()
	s.lastUpdated = now()
	s.mu.Unlock()
}

func (s *DashboardService) Formatter() *dashboard.Formatter {
	return s.formatter
}

func (s *DashboardService) Now() time.Time {
	return s.now()
}

func (s *DashboardService) LastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUpdated
}

// Snapshot reads units and alerts, cache first, and attaches alerts to units.
func (s *DashboardService) Snapshot(ctx context.Context) (*Snapshot, error) {
	units, err := s.units(ctx)
	if err != nil {
		return nil, err
	}
	alerts, err := s.alerts(ctx)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Units:    dashboard.AttachAlerts(units, alerts),
		Alerts:   alerts,
		Stats:    dashboard.ComputeStats(units, alerts),
		Dangling: dashboard.DanglingAlerts(units, alerts),
	}
	for _, alert := range snap.Dangling {
		s.log.WithFields(log.Fields{"alert": alert.ID, "unit": alert.UnitID}).
			Warn("alert references an unknown unit")
	}
	s.tracker.Prime(snap.Units)
	recordSnapshot(snap)
	return snap, nil
}

func recordSnapshot(snap *Snapshot) {
	counts := make(map[models.UnitStatus]int, len(models.UnitStatuses))
	for _, unit := range snap.Units {
		counts[unit.Status]++
	}
	for _, status := range models.UnitStatuses {
		metrics.UnitsByStatus.WithLabelValues(string(status)).Set(float64(counts[status]))
	}
	metrics.UnacknowledgedAlerts.Set(float64(snap.Stats.AlertsCount))
}

func (s *DashboardService) units(ctx context.Context) ([]models.Unit, error) {
	if s.cache != nil {
		units, ok, err := s.cache.GetUnits(ctx)
		if err != nil {
			s.log.WithError(err).Warn("cache read failed for units")
		} else if ok {
			return units, nil
		}
	}

	start := time.Now()
	units, err := s.provider.ListUnits(ctx)
	metrics.RecordProviderCall("list_units", err, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("%w: list units: %w", ErrProviderUnavailable, err)
	}

	if s.cache != nil {
		if err := s.cache.SetUnits(ctx, units); err != nil {
			s.log.WithError(err).Warn("failed to cache units")
		}
	}
	return units, nil
}

func (s *DashboardService) alerts(ctx context.Context) ([]models.Alert, error) {
	if s.cache != nil {
		alerts, ok, err := s.cache.GetAlerts(ctx)
		if err != nil {
			s.log.WithError(err).Warn("cache read failed for alerts")
		} else if ok {
			return alerts, nil
		}
	}

	start := time.Now()
	alerts, err := s.provider.ListAlerts(ctx)
	metrics.RecordProviderCall("list_alerts", err, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("%w: list alerts: %w", ErrProviderUnavailable, err)
	}

	if s.cache != nil {
		if err := s.cache.SetAlerts(ctx, alerts); err != nil {
			s.log.WithError(err).Warn("failed to cache alerts")
		}
	}
	return alerts, nil
}

func (s *DashboardService) Overview(ctx context.Context) (*Overview, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return s.OverviewFor(snap), nil
}

// OverviewFor builds the overview of an already loaded snapshot.
func (s *DashboardService) OverviewFor(snap *Snapshot) *Overview {
	updated := s.LastUpdated()
	return &Overview{
		Stats:         snap.Stats,
		AlertBanner:   dashboard.BuildAlertBanner(snap.Alerts, dashboard.DefaultBannerLimit),
		LastUpdated:   s.formatter.Medium(updated),
		LastUpdatedAt: updated,
	}
}

// ListUnits returns the units matching query and filter, alerts attached.
func (s *DashboardService) ListUnits(ctx context.Context, query string, filter dashboard.StatusFilter) ([]models.Unit, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return dashboard.FilterUnits(snap.Units, query, filter), nil
}

// ListAlerts returns all alerts, or only the unacknowledged ones. Without a
// cache the unacknowledged filter runs in the store when it supports it.
func (s *DashboardService) ListAlerts(ctx context.Context, unacknowledgedOnly bool) ([]models.Alert, error) {
	if lister, ok := s.provider.(repository.UnacknowledgedAlertLister); ok && unacknowledgedOnly && s.cache == nil {
		start := time.Now()
		alerts, err := lister.ListUnacknowledgedAlerts(ctx)
		metrics.RecordProviderCall("list_unacknowledged_alerts", err, time.Since(start))
		if err != nil {
			return nil, fmt.Errorf("%w: list unacknowledged alerts: %w", ErrProviderUnavailable, err)
		}
		return alerts, nil
	}

	alerts, err := s.alerts(ctx)
	if err != nil {
		return nil, err
	}
	if unacknowledgedOnly {
		return dashboard.UnacknowledgedAlerts(alerts), nil
	}
	return alerts, nil
}

func (s *DashboardService) UnitDetail(ctx context.Context, unitID string) (*dashboard.UnitDetail, error) {
	unit, err := s.findUnit(ctx, unitID)
	if err != nil {
		return nil, err
	}
	return dashboard.BuildUnitDetail(unit, s.formatter), nil
}

// findUnit returns one unit with its alerts. Without a cache, stores that
// support point reads are queried directly instead of loading a snapshot.
func (s *DashboardService) findUnit(ctx context.Context, unitID string) (*models.Unit, error) {
	if getter, ok := s.provider.(repository.UnitGetter); ok && s.cache == nil {
		start := time.Now()
		unit, err := getter.GetUnit(ctx, unitID)
		metrics.RecordProviderCall("get_unit", err, time.Since(start))
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, fmt.Errorf("%w: %s", ErrUnitNotFound, unitID)
		case err != nil:
			return nil, fmt.Errorf("%w: get unit: %w", ErrProviderUnavailable, err)
		}
		return unit, nil
	}

	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	unit := dashboard.FindUnit(snap.Units, unitID)
	if unit == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnitNotFound, unitID)
	}
	return unit, nil
}

// Refresh stamps the last-updated time, drops cached data, reloads from the
// provider and notifies connected dashboards.
func (s *DashboardService) Refresh(ctx context.Context, trigger string) (*Overview, error) {
	s.mu.Lock()
	s.lastUpdated = s.now()
	s.mu.Unlock()

	s.invalidate(ctx)

	snap, err := s.Snapshot(ctx)
	metrics.RecordRefresh(trigger, err)
	if err != nil {
		return nil, err
	}

	overview := s.OverviewFor(snap)
	overview.Changes = s.tracker.Diff(snap.Units)
	if s.notifier != nil {
		s.notifier.BroadcastRefresh(overview.Stats, overview.LastUpdated, overview.Changes)
	}
	s.log.WithFields(log.Fields{
		"trigger": trigger,
		"units":   overview.Stats.TotalUnits,
		"changes": len(overview.Changes),
	}).Debug("dashboard refreshed")
	return overview, nil
}

func (s *DashboardService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateSnapshot(ctx); err != nil {
		s.log.WithError(err).Warn("failed to invalidate snapshot cache")
	}
}

// AcknowledgeAlert forwards the acknowledgement to the provider when it
// supports it.
func (s *DashboardService) AcknowledgeAlert(ctx context.Context, alertID string) error {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return err
	}

	var target *models.Alert
	for i := range snap.Alerts {
		if snap.Alerts[i].ID == alertID {
			target = &snap.Alerts[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("%w: %s", ErrAlertNotFound, alertID)
	}

	acknowledger, ok := s.provider.(repository.AlertAcknowledger)
	if !ok {
		return ErrAcknowledgeUnsupported
	}
	if err := acknowledger.AcknowledgeAlert(ctx, alertID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrAlertNotFound, alertID)
		}
		return fmt.Errorf("%w: acknowledge alert: %w", ErrProviderUnavailable, err)
	}

	s.invalidate(ctx)
	s.log.WithFields(log.Fields{"alert": alertID, "unit": target.UnitID}).Info("alert acknowledged")

	if s.notifier != nil {
		stats := snap.Stats
		if !target.Acknowledged && stats.AlertsCount > 0 {
			stats.AlertsCount--
		}
		var status models.UnitStatus
		if unit := dashboard.FindUnit(snap.Units, target.UnitID); unit != nil {
			status = unit.Status
		}
		s.notifier.BroadcastAlertAcknowledged(alertID, target.UnitID, status, stats)
	}
	return nil
}

// ContactDriver is the boundary of the driver messaging integration, which
// this service does not provide.
func (s *DashboardService) ContactDriver(ctx context.Context, unitID string) error {
	unit, err := s.findUnit(ctx, unitID)
	if err != nil {
		return err
	}
	if !unit.HasDriver() {
		return fmt.Errorf("%w: %s", ErrNoDriver, unit.UnitCode)
	}
	return ErrContactDriverUnsupported
}

// ExportCSV writes the units matching query and filter as CSV.
func (s *DashboardService) ExportCSV(ctx context.Context, w io.Writer, query string, filter dashboard.StatusFilter) error {
	units, err := s.ListUnits(ctx, query, filter)
	if err != nil {
		return err
	}
	return dashboard.WriteUnitsCSV(w, units, s.formatter)
}

// ComponentHealth is the status of one dependency.
type ComponentHealth struct {
	Status string           `json:"status"`
	Error  string           `json:"error,omitempty"`
	Cache  *cache.CacheStats `json:"cache,omitempty"`
}

// Health checks the provider (when remote) and the cache.
func (s *DashboardService) Health(ctx context.Context) map[string]ComponentHealth {
	report := map[string]ComponentHealth{"provider": {Status: "healthy"}}

	if pinger, ok := s.provider.(repository.Pinger); ok {
		if err := pinger.Ping(ctx); err != nil {
			report["provider"] = ComponentHealth{Status: "unhealthy", Error: err.Error()}
		}
	}
	if s.cache != nil {
		if err := s.cache.HealthCheck(ctx); err != nil {
			report["cache"] = ComponentHealth{Status: "unhealthy", Error: err.Error()}
		} else {
			stats := s.cache.GetCacheStats(ctx)
			report["cache"] = ComponentHealth{Status: "healthy", Cache: &stats}
		}
	}
	return report
}
