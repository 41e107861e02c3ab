package websocket

import (
	"slices"
	"sync"
	"time"

	"gps-monitor/internal/models"
	"gps-monitor/pkg/telemetry"

	"github.com/gorilla/websocket"
)

// Event types pushed to dashboard clients
const (
	EventRefresh           = "refresh"
	EventAlertAcknowledged = "alert_acknowledged"
)

// Message types read from clients
const (
	MessageTypeUpdateFilters = "update_filters"
)

// Event tells connected dashboards that what they display changed.
type Event struct {
	Type        string                 `json:"type"`
	Timestamp   time.Time              `json:"timestamp"`
	Stats       *models.DashboardStats `json:"stats,omitempty"`
	LastUpdated string                 `json:"lastUpdated,omitempty"`
	AlertID     string                 `json:"alertId,omitempty"`
	UnitID      string                 `json:"unitId,omitempty"`
	// Units that changed since the previous refresh
	Changes []telemetry.UnitChange `json:"changes,omitempty"`
	// Statuses of the units the event concerns. Empty means every unit.
	Statuses []models.UnitStatus `json:"statuses,omitempty"`
}

// EventFilters restricts which events a client receives.
type EventFilters struct {
	Statuses []models.UnitStatus `json:"statuses,omitempty"`
}

// Accepts reports whether an event passes the filters. Events that concern
// the whole fleet always pass.
func (f EventFilters) Accepts(e Event) bool {
	if len(f.Statuses) == 0 || len(e.Statuses) == 0 {
		return true
	}
	for _, s := range e.Statuses {
		if slices.Contains(f.Statuses, s) {
			return true
		}
	}
	return false
}

// Client is one connected dashboard.
type Client struct {
	ID   string
	Conn *websocket.Conn
	Send chan Event

	mu       sync.RWMutex
	filters  EventFilters
	lastPong time.Time
}

func (c *Client) Filters() EventFilters {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.filters
}

func (c *Client) setFilters(f EventFilters) {
	c.mu.Lock()
	c.filters = f
	c.mu.Unlock()
}

func (c *Client) touch(t time.Time) {
	c.mu.Lock()
	c.lastPong = t
	c.mu.Unlock()
}

func (c *Client) lastSeen() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastPong
}

// ClientStats provides statistics about connected clients
type ClientStats struct {
	TotalClients int   `json:"totalClients"`
	Broadcasts   int64 `json:"broadcasts"`
	Dropped      int64 `json:"dropped"`
}
