package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"gps-monitor/internal/dashboard"
	"gps-monitor/internal/models"
	"gps-monitor/internal/repository"
	"gps-monitor/pkg/cache"
	"gps-monitor/pkg/telemetry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var wib = time.FixedZone("WIB", 7*60*60)

// MockSnapshotCache is a mock implementation of cache.SnapshotCache
type MockSnapshotCache struct {
	mock.Mock
}

func (m *MockSnapshotCache) GetUnits(ctx context.Context) ([]models.Unit, bool, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]models.Unit), args.Bool(1), args.Error(2)
}

func (m *MockSnapshotCache) SetUnits(ctx context.Context, units []models.Unit) error {
	return m.Called(ctx, units).Error(0)
}

func (m *MockSnapshotCache) GetAlerts(ctx context.Context) ([]models.Alert, bool, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]models.Alert), args.Bool(1), args.Error(2)
}

func (m *MockSnapshotCache) SetAlerts(ctx context.Context, alerts []models.Alert) error {
	return m.Called(ctx, alerts).Error(0)
}

func (m *MockSnapshotCache) InvalidateSnapshot(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockSnapshotCache) GetCacheStats(ctx context.Context) cache.CacheStats {
	return m.Called(ctx).Get(0).(cache.CacheStats)
}

func (m *MockSnapshotCache) HealthCheck(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// fakeProvider serves the seed data and records acknowledgements.
type fakeProvider struct {
	mu           sync.Mutex
	units        []models.Unit
	alerts       []models.Alert
	err          error
	unitCalls    int
	acknowledged []string
}

func newFakeProvider(now time.Time) *fakeProvider {
	return &fakeProvider{units: repository.SeedUnits(now), alerts: repository.SeedAlerts()}
}

func (p *fakeProvider) ListUnits(ctx context.Context) ([]models.Unit, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.unitCalls++
	if p.err != nil {
		return nil, p.err
	}
	return append([]models.Unit(nil), p.units...), nil
}

func (p *fakeProvider) ListAlerts(ctx context.Context) ([]models.Alert, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return nil, p.err
	}
	return append([]models.Alert(nil), p.alerts...), nil
}

// ackProvider adds acknowledgement support to fakeProvider.
type ackProvider struct {
	*fakeProvider
	ackErr error
}

func (p *ackProvider) AcknowledgeAlert(ctx context.Context, id string) error {
	if p.ackErr != nil {
		return p.ackErr
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.alerts {
		if p.alerts[i].ID == id {
			p.alerts[i].Acknowledged = true
			p.acknowledged = append(p.acknowledged, id)
			return nil
		}
	}
	return repository.ErrNotFound
}

// storeProvider adds point reads and server side filtering to fakeProvider.
type storeProvider struct {
	*fakeProvider
	getCalls     int
	unackedCalls int
	getErr       error
}

func (p *storeProvider) GetUnit(ctx context.Context, id string) (*models.Unit, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.getCalls++
	if p.getErr != nil {
		return nil, p.getErr
	}
	attached := dashboard.AttachAlerts(p.units, p.alerts)
	if unit := dashboard.FindUnit(attached, id); unit != nil {
		return unit, nil
	}
	return nil, repository.ErrNotFound
}

func (p *storeProvider) ListUnacknowledgedAlerts(ctx context.Context) ([]models.Alert, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.unackedCalls++
	return dashboard.UnacknowledgedAlerts(p.alerts), nil
}

type recordingNotifier struct {
	refreshes []models.DashboardStats
	changes   [][]telemetry.UnitChange
	acked     []string
	ackStats  []models.DashboardStats
	statuses  []models.UnitStatus
	updated   []string
}

func (n *recordingNotifier) BroadcastRefresh(stats models.DashboardStats, lastUpdated string, changes []telemetry.UnitChange) {
	n.refreshes = append(n.refreshes, stats)
	n.changes = append(n.changes, changes)
	n.updated = append(n.updated, lastUpdated)
}

func (n *recordingNotifier) BroadcastAlertAcknowledged(alertID, unitID string, status models.UnitStatus, stats models.DashboardStats) {
	n.acked = append(n.acked, alertID)
	n.statuses = append(n.statuses, status)
	n.ackStats = append(n.ackStats, stats)
}

func newTestService(t *testing.T, provider repository.Provider) *DashboardService {
	t.Helper()
	now := time.Date(2024, 1, 15, 17, 0, 0, 0, wib)
	formatter := dashboard.NewFormatter(wib, dashboard.EnglishLocale())
	svc := NewDashboardService(provider, formatter)
	svc.SetClock(func() time.Time { return now })
	return svc
}

func TestSnapshot_AttachesAlertsAndComputesStats(t *testing.T) {
	svc := newTestService(t, newFakeProvider(time.Now()))

	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)

	assert.Len(t, snap.Units, 7)
	assert.Equal(t, models.DashboardStats{
		TotalUnits: 7, ActiveUnits: 3, OfflineUnits: 2, MaintenanceUnits: 1, AlertsCount: 2,
	}, snap.Stats)
	assert.Len(t, snap.Units[0].Alerts, 1)
	assert.Empty(t, snap.Units[1].Alerts)
	assert.Empty(t, snap.Dangling)
}

func TestSnapshot_ReportsDanglingAlerts(t *testing.T) {
	provider := newFakeProvider(time.Now())
	provider.alerts = append(provider.alerts, models.Alert{ID: "9", UnitID: "99", Type: models.AlertTypeRouteDeviation, Priority: models.PriorityLow})
	svc := newTestService(t, provider)

	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Dangling, 1)
	assert.Equal(t, "9", snap.Dangling[0].ID)
	assert.Equal(t, 3, snap.Stats.AlertsCount)
}

func TestSnapshot_ProviderError(t *testing.T) {
	provider := newFakeProvider(time.Now())
	provider.err = errors.New("connection refused")
	svc := newTestService(t, provider)

	_, err := svc.Snapshot(context.Background())
	assert.ErrorIs(t, err, ErrProviderUnavailable)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestSnapshot_CacheHitSkipsProvider(t *testing.T) {
	provider := newFakeProvider(time.Now())
	svc := newTestService(t, provider)

	mockCache := new(MockSnapshotCache)
	mockCache.On("GetUnits", mock.Anything).Return(provider.units, true, nil)
	mockCache.On("GetAlerts", mock.Anything).Return(provider.alerts, true, nil)
	svc.SetCache(mockCache)

	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Len(t, snap.Units, 7)
	assert.Zero(t, provider.unitCalls)
	mockCache.AssertExpectations(t)
}

func TestSnapshot_CacheMissStoresResult(t *testing.T) {
	provider := newFakeProvider(time.Now())
	svc := newTestService(t, provider)

	mockCache := new(MockSnapshotCache)
	mockCache.On("GetUnits", mock.Anything).Return(nil, false, nil)
	mockCache.On("GetAlerts", mock.Anything).Return(nil, false, nil)
	mockCache.On("SetUnits", mock.Anything, mock.AnythingOfType("[]models.Unit")).Return(nil)
	mockCache.On("SetAlerts", mock.Anything, mock.AnythingOfType("[]models.Alert")).Return(nil)
	svc.SetCache(mockCache)

	_, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, provider.unitCalls)
	mockCache.AssertExpectations(t)
}

func TestSnapshot_CacheErrorsFallBackToProvider(t *testing.T) {
	provider := newFakeProvider(time.Now())
	svc := newTestService(t, provider)

	mockCache := new(MockSnapshotCache)
	mockCache.On("GetUnits", mock.Anything).Return(nil, false, errors.New("redis down"))
	mockCache.On("GetAlerts", mock.Anything).Return(nil, false, errors.New("redis down"))
	mockCache.On("SetUnits", mock.Anything, mock.Anything).Return(errors.New("redis down"))
	mockCache.On("SetAlerts", mock.Anything, mock.Anything).Return(errors.New("redis down"))
	svc.SetCache(mockCache)

	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, snap.Stats.TotalUnits)
}

func TestOverview(t *testing.T) {
	svc := newTestService(t, newFakeProvider(time.Now()))

	overview, err := svc.Overview(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, overview.AlertBanner.Total)
	assert.Len(t, overview.AlertBanner.Alerts, 2)
	assert.Zero(t, overview.AlertBanner.Remaining)
	assert.Equal(t, "15 Jan 2024, 17:00", overview.LastUpdated)
}

func TestListUnits_FiltersByQueryAndStatus(t *testing.T) {
	svc := newTestService(t, newFakeProvider(time.Now()))

	units, err := svc.ListUnits(context.Background(), "van", dashboard.StatusAll)
	require.NoError(t, err)
	require.Len(t, units, 3)
	for _, unit := range units {
		assert.True(t, strings.HasPrefix(unit.UnitCode, "VAN"))
	}

	units, err = svc.ListUnits(context.Background(), "", dashboard.StatusFilter(models.StatusOffline))
	require.NoError(t, err)
	assert.Len(t, units, 2)

	units, err = svc.ListUnits(context.Background(), "nowhere", dashboard.StatusAll)
	require.NoError(t, err)
	assert.Empty(t, units)
}

func TestListAlerts(t *testing.T) {
	svc := newTestService(t, newFakeProvider(time.Now()))

	all, err := svc.ListAlerts(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	pending, err := svc.ListAlerts(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "1", pending[0].ID)
	assert.Equal(t, "3", pending[1].ID)
}

func TestUnitDetail(t *testing.T) {
	svc := newTestService(t, newFakeProvider(time.Now()))

	detail, err := svc.UnitDetail(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "TRK001", detail.UnitCode)
	assert.Len(t, detail.Alerts, 1)

	_, err = svc.UnitDetail(context.Background(), "404")
	assert.ErrorIs(t, err, ErrUnitNotFound)
}

func TestRefresh_InvalidatesAndNotifies(t *testing.T) {
	provider := newFakeProvider(time.Now())
	svc := newTestService(t, provider)

	later := time.Date(2024, 1, 15, 17, 5, 0, 0, wib)
	svc.SetClock(func() time.Time { return later })

	mockCache := new(MockSnapshotCache)
	mockCache.On("InvalidateSnapshot", mock.Anything).Return(nil).Once()
	mockCache.On("GetUnits", mock.Anything).Return(nil, false, nil)
	mockCache.On("GetAlerts", mock.Anything).Return(nil, false, nil)
	mockCache.On("SetUnits", mock.Anything, mock.Anything).Return(nil)
	mockCache.On("SetAlerts", mock.Anything, mock.Anything).Return(nil)
	svc.SetCache(mockCache)

	notifier := &recordingNotifier{}
	svc.SetNotifier(notifier)

	overview, err := svc.Refresh(context.Background(), TriggerManual)
	require.NoError(t, err)

	assert.Equal(t, later, svc.LastUpdated())
	assert.Equal(t, "15 Jan 2024, 17:05", overview.LastUpdated)
	require.Len(t, notifier.refreshes, 1)
	assert.Equal(t, 7, notifier.refreshes[0].TotalUnits)
	assert.Equal(t, "15 Jan 2024, 17:05", notifier.updated[0])
	mockCache.AssertExpectations(t)
}

func TestRefresh_ReportsChangedUnits(t *testing.T) {
	provider := newFakeProvider(time.Now())
	svc := newTestService(t, provider)
	notifier := &recordingNotifier{}
	svc.SetNotifier(notifier)

	_, err := svc.Overview(context.Background())
	require.NoError(t, err)

	provider.mu.Lock()
	provider.units[0].Status = models.StatusActive
	provider.mu.Unlock()

	overview, err := svc.Refresh(context.Background(), TriggerManual)
	require.NoError(t, err)
	require.Len(t, overview.Changes, 1)
	assert.Equal(t, "TRK001", overview.Changes[0].UnitCode)
	assert.Equal(t, models.StatusOffline, overview.Changes[0].PreviousStatus)
	require.Len(t, notifier.changes, 1)
	assert.Equal(t, overview.Changes, notifier.changes[0])

	overview, err = svc.Refresh(context.Background(), TriggerManual)
	require.NoError(t, err)
	assert.Empty(t, overview.Changes)
}

func TestRefresh_ChangeDistance(t *testing.T) {
	provider := newFakeProvider(time.Now())
	svc := newTestService(t, provider)
	svc.SetChangeDistance(5000)

	_, err := svc.Overview(context.Background())
	require.NoError(t, err)

	provider.mu.Lock()
	provider.units[1].Location.Lat += 0.01 // about 1.1 km
	provider.mu.Unlock()

	overview, err := svc.Refresh(context.Background(), TriggerManual)
	require.NoError(t, err)
	assert.Empty(t, overview.Changes)

	svc.SetChangeDistance(100)
	provider.mu.Lock()
	provider.units[1].Location.Lat += 0.01
	provider.mu.Unlock()

	overview, err = svc.Refresh(context.Background(), TriggerManual)
	require.NoError(t, err)
	require.Len(t, overview.Changes, 1)
	assert.Equal(t, "VAN002", overview.Changes[0].UnitCode)
}

func TestRefresh_ProviderErrorSkipsNotification(t *testing.T) {
	provider := newFakeProvider(time.Now())
	provider.err = errors.New("timeout")
	svc := newTestService(t, provider)
	notifier := &recordingNotifier{}
	svc.SetNotifier(notifier)

	_, err := svc.Refresh(context.Background(), TriggerAuto)
	assert.ErrorIs(t, err, ErrProviderUnavailable)
	assert.Empty(t, notifier.refreshes)
}

func TestAcknowledgeAlert(t *testing.T) {
	provider := &ackProvider{fakeProvider: newFakeProvider(time.Now())}
	svc := newTestService(t, provider)
	notifier := &recordingNotifier{}
	svc.SetNotifier(notifier)

	require.NoError(t, svc.AcknowledgeAlert(context.Background(), "1"))

	assert.Equal(t, []string{"1"}, provider.acknowledged)
	require.Len(t, notifier.acked, 1)
	assert.Equal(t, models.StatusOffline, notifier.statuses[0])
	assert.Equal(t, 1, notifier.ackStats[0].AlertsCount)

	pending, err := svc.ListAlerts(context.Background(), true)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestAcknowledgeAlert_Errors(t *testing.T) {
	t.Run("unknown alert", func(t *testing.T) {
		svc := newTestService(t, &ackProvider{fakeProvider: newFakeProvider(time.Now())})
		err := svc.AcknowledgeAlert(context.Background(), "42")
		assert.ErrorIs(t, err, ErrAlertNotFound)
	})

	t.Run("provider without acknowledgement", func(t *testing.T) {
		svc := newTestService(t, newFakeProvider(time.Now()))
		err := svc.AcknowledgeAlert(context.Background(), "1")
		assert.ErrorIs(t, err, ErrAcknowledgeUnsupported)
	})

	t.Run("unknown alert without acknowledgement", func(t *testing.T) {
		svc := newTestService(t, newFakeProvider(time.Now()))
		err := svc.AcknowledgeAlert(context.Background(), "42")
		assert.ErrorIs(t, err, ErrAlertNotFound)
	})

	t.Run("store lost the alert", func(t *testing.T) {
		provider := &ackProvider{fakeProvider: newFakeProvider(time.Now()), ackErr: repository.ErrNotFound}
		svc := newTestService(t, provider)
		err := svc.AcknowledgeAlert(context.Background(), "1")
		assert.ErrorIs(t, err, ErrAlertNotFound)
	})

	t.Run("store failure", func(t *testing.T) {
		provider := &ackProvider{fakeProvider: newFakeProvider(time.Now()), ackErr: errors.New("write conflict")}
		svc := newTestService(t, provider)
		err := svc.AcknowledgeAlert(context.Background(), "1")
		assert.ErrorIs(t, err, ErrProviderUnavailable)
	})
}

func TestContactDriver(t *testing.T) {
	provider := newFakeProvider(time.Now())
	provider.units[6].Driver = ""
	svc := newTestService(t, provider)

	assert.ErrorIs(t, svc.ContactDriver(context.Background(), "1"), ErrContactDriverUnsupported)
	assert.ErrorIs(t, svc.ContactDriver(context.Background(), "7"), ErrNoDriver)
	assert.ErrorIs(t, svc.ContactDriver(context.Background(), "77"), ErrUnitNotFound)
}

func TestExportCSV(t *testing.T) {
	svc := newTestService(t, newFakeProvider(time.Now()))

	var buf bytes.Buffer
	require.NoError(t, svc.ExportCSV(context.Background(), &buf, "", dashboard.StatusFilter(models.StatusMaintenance)))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "VAN003,"))
}

func TestHealth(t *testing.T) {
	svc := newTestService(t, newFakeProvider(time.Now()))
	report := svc.Health(context.Background())
	assert.Equal(t, "healthy", report["provider"].Status)
	assert.NotContains(t, report, "cache")

	mockCache := new(MockSnapshotCache)
	mockCache.On("HealthCheck", mock.Anything).Return(errors.New("redis down"))
	svc.SetCache(mockCache)

	report = svc.Health(context.Background())
	assert.Equal(t, "unhealthy", report["cache"].Status)
	assert.Equal(t, "redis down", report["cache"].Error)
	assert.Nil(t, report["cache"].Cache)

	healthyCache := new(MockSnapshotCache)
	healthyCache.On("HealthCheck", mock.Anything).Return(nil)
	healthyCache.On("GetCacheStats", mock.Anything).Return(cache.CacheStats{TotalHits: 3, TotalMisses: 1, HitRate: 0.75})
	svc.SetCache(healthyCache)

	report = svc.Health(context.Background())
	assert.Equal(t, "healthy", report["cache"].Status)
	require.NotNil(t, report["cache"].Cache)
	assert.Equal(t, 0.75, report["cache"].Cache.HitRate)
}

func TestUnitDetail_PointRead(t *testing.T) {
	provider := &storeProvider{fakeProvider: newFakeProvider(time.Now())}
	svc := newTestService(t, provider)

	detail, err := svc.UnitDetail(context.Background(), "3")
	require.NoError(t, err)
	assert.Equal(t, "VAN003", detail.UnitCode)
	require.Len(t, detail.Alerts, 1)
	assert.Equal(t, 1, provider.getCalls)
	assert.Zero(t, provider.unitCalls, "no snapshot load")

	_, err = svc.UnitDetail(context.Background(), "99")
	assert.ErrorIs(t, err, ErrUnitNotFound)

	provider.getErr = errors.New("connection reset")
	_, err = svc.UnitDetail(context.Background(), "3")
	assert.ErrorIs(t, err, ErrProviderUnavailable)
}

func TestUnitDetail_CacheBypassesPointRead(t *testing.T) {
	provider := &storeProvider{fakeProvider: newFakeProvider(time.Now())}
	svc := newTestService(t, provider)

	mockCache := new(MockSnapshotCache)
	mockCache.On("GetUnits", mock.Anything).Return(repository.SeedUnits(time.Now()), true, nil)
	mockCache.On("GetAlerts", mock.Anything).Return(repository.SeedAlerts(), true, nil)
	svc.SetCache(mockCache)

	detail, err := svc.UnitDetail(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "TRK001", detail.UnitCode)
	assert.Zero(t, provider.getCalls)
}

func TestContactDriver_PointRead(t *testing.T) {
	provider := &storeProvider{fakeProvider: newFakeProvider(time.Now())}
	provider.units[6].Driver = ""
	svc := newTestService(t, provider)

	assert.ErrorIs(t, svc.ContactDriver(context.Background(), "7"), ErrNoDriver)
	assert.ErrorIs(t, svc.ContactDriver(context.Background(), "2"), ErrContactDriverUnsupported)
	assert.Equal(t, 2, provider.getCalls)
}

func TestListAlerts_UnacknowledgedInStore(t *testing.T) {
	provider := &storeProvider{fakeProvider: newFakeProvider(time.Now())}
	svc := newTestService(t, provider)

	alerts, err := svc.ListAlerts(context.Background(), true)
	require.NoError(t, err)
	assert.Len(t, alerts, 2)
	assert.Equal(t, 1, provider.unackedCalls)

	all, err := svc.ListAlerts(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, 1, provider.unackedCalls)
}
