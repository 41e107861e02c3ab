// Package telemetry tracks how units change between dashboard refreshes.
package telemetry

import (
	"math"
	"sort"
	"sync"
	"time"

	"gps-monitor/internal/models"
)

// DeltaTracker remembers the last observed state of every unit and reports
// significant changes against it.
type DeltaTracker struct {
	lastStates map[string]UnitSnapshot
	thresholds DeltaThresholds
	primed     bool
	mu         sync.Mutex
}

type UnitSnapshot struct {
	UnitCode      string
	Location      models.Location
	Status        models.UnitStatus
	LastGPSActive time.Time
}

type DeltaThresholds struct {
	LocationMeters float64 // movement below this is GPS jitter
}

// UnitChange describes one unit that differs from the previous refresh.
type UnitChange struct {
	UnitID         string            `json:"unitId"`
	UnitCode       string            `json:"unitCode"`
	Status         models.UnitStatus `json:"status,omitempty"`
	PreviousStatus models.UnitStatus `json:"previousStatus,omitempty"`
	DistanceMoved  float64           `json:"distanceMoved,omitempty"`
	Added          bool              `json:"added,omitempty"`
	Removed        bool              `json:"removed,omitempty"`
}

func NewDeltaTracker() *DeltaTracker {
	return &DeltaTracker{
		lastStates: make(map[string]UnitSnapshot),
		thresholds: DeltaThresholds{LocationMeters: 100},
	}
}

// Prime records units as the baseline unless a baseline already exists.
func (dt *DeltaTracker) Prime(units []models.Unit) {
	dt.mu.Lock()
	defer dt.mu.Unlock()
	if dt.primed {
		return
	}
	dt.record(units)
}

// Diff compares units with the previous observation, records them as the new
// baseline and returns the changes in input order, removed units last. The
// first call only records.
func (dt *DeltaTracker) Diff(units []models.Unit) []UnitChange {
	dt.mu.Lock()
	defer dt.mu.Unlock()

	if !dt.primed {
		dt.record(units)
		return nil
	}

	var changes []UnitChange
	seen := make(map[string]bool, len(units))
	for i := range units {
		unit := &units[i]
		seen[unit.ID] = true

		last, exists := dt.lastStates[unit.ID]
		if !exists {
			changes = append(changes, UnitChange{UnitID: unit.ID, UnitCode: unit.UnitCode, Status: unit.Status, Added: true})
			continue
		}

		change := UnitChange{UnitID: unit.ID, UnitCode: unit.UnitCode, Status: unit.Status}
		significant := false

		// Status change (always significant)
		if unit.Status != last.Status {
			change.PreviousStatus = last.Status
			significant = true
		}

		if distance := distanceMeters(last.Location, unit.Location); distance >= dt.thresholds.LocationMeters {
			change.DistanceMoved = math.Round(distance)
			significant = true
		}

		if significant {
			changes = append(changes, change)
		}
	}

	var removed []UnitChange
	for id, last := range dt.lastStates {
		if !seen[id] {
			removed = append(removed, UnitChange{UnitID: id, UnitCode: last.UnitCode, PreviousStatus: last.Status, Removed: true})
		}
	}
	sort.Slice(removed, func(i, j int) bool { return removed[i].UnitCode < removed[j].UnitCode })

	dt.record(units)
	return append(changes, removed...)
}

func (dt *DeltaTracker) record(units []models.Unit) {
	states := make(map[string]UnitSnapshot, len(units))
	for _, unit := range units {
		states[unit.ID] = UnitSnapshot{
			UnitCode:      unit.UnitCode,
			Location:      unit.Location,
			Status:        unit.Status,
			LastGPSActive: unit.LastGPSActive,
		}
	}
	dt.lastStates = states
	dt.primed = true
}

// SetThresholds allows customizing delta thresholds
func (dt *DeltaTracker) SetThresholds(thresholds DeltaThresholds) {
	dt.mu.Lock()
	defer dt.mu.Unlock()
	dt.thresholds = thresholds
}

// distanceMeters is the haversine distance between two fixes.
func distanceMeters(a, b models.Location) float64 {
	const earthRadius = 6371000

	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadius * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}
