package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gps-monitor/internal/models"
	"gps-monitor/pkg/telemetry"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T, filters EventFilters) (*Hub, *httptest.Server) {
	t.Helper()
	hub := NewHub(nil)
	hub.Start()
	t.Cleanup(hub.Stop)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.ServeWS(w, r, filters)
	}))
	t.Cleanup(server.Close)
	return hub, server
}

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return hub.ConnectedClients() == n }, time.Second, 10*time.Millisecond)
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	var event Event
	require.NoError(t, conn.ReadJSON(&event))
	return event
}

func TestHub_BroadcastRefresh(t *testing.T) {
	hub, server := startHub(t, EventFilters{})
	conn := dial(t, server)
	waitForClients(t, hub, 1)

	hub.BroadcastRefresh(models.DashboardStats{TotalUnits: 7, AlertsCount: 2}, "15 Jan 2024, 17:00",
		[]telemetry.UnitChange{{UnitID: "1", UnitCode: "TRK001", Status: models.StatusActive, PreviousStatus: models.StatusOffline}})

	event := readEvent(t, conn)
	assert.Equal(t, EventRefresh, event.Type)
	require.NotNil(t, event.Stats)
	assert.Equal(t, 7, event.Stats.TotalUnits)
	assert.Equal(t, "15 Jan 2024, 17:00", event.LastUpdated)
	assert.False(t, event.Timestamp.IsZero())
	require.Len(t, event.Changes, 1)
	assert.Equal(t, models.StatusOffline, event.Changes[0].PreviousStatus)
}

func TestHub_StatusFilter(t *testing.T) {
	hub, server := startHub(t, EventFilters{Statuses: []models.UnitStatus{models.StatusMaintenance}})
	conn := dial(t, server)
	waitForClients(t, hub, 1)

	// filtered out
	hub.BroadcastAlertAcknowledged("1", "1", models.StatusOffline, models.DashboardStats{})
	// delivered
	hub.BroadcastAlertAcknowledged("2", "3", models.StatusMaintenance, models.DashboardStats{})

	event := readEvent(t, conn)
	assert.Equal(t, EventAlertAcknowledged, event.Type)
	assert.Equal(t, "2", event.AlertID)
	assert.Equal(t, "3", event.UnitID)
}

func TestHub_UpdateFilters(t *testing.T) {
	hub, server := startHub(t, EventFilters{Statuses: []models.UnitStatus{models.StatusActive}})
	conn := dial(t, server)
	waitForClients(t, hub, 1)

	require.NoError(t, conn.WriteJSON(map[string]interface{}{
		"type":    MessageTypeUpdateFilters,
		"filters": map[string]interface{}{"statuses": []string{"offline"}},
	}))

	require.Eventually(t, func() bool {
		hub.mutex.RLock()
		defer hub.mutex.RUnlock()
		for _, c := range hub.clients {
			f := c.Filters()
			return len(f.Statuses) == 1 && f.Statuses[0] == models.StatusOffline
		}
		return false
	}, time.Second, 10*time.Millisecond)

	hub.BroadcastAlertAcknowledged("1", "1", models.StatusOffline, models.DashboardStats{})
	assert.Equal(t, "1", readEvent(t, conn).AlertID)
}

func TestHub_ClientDisconnect(t *testing.T) {
	hub, server := startHub(t, EventFilters{})
	conn := dial(t, server)
	waitForClients(t, hub, 1)

	require.NoError(t, conn.Close())
	waitForClients(t, hub, 0)
}

func TestHub_StopClosesClients(t *testing.T) {
	hub, server := startHub(t, EventFilters{})
	conn := dial(t, server)
	waitForClients(t, hub, 1)

	hub.Stop()
	hub.Stop()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
	assert.Zero(t, hub.ConnectedClients())
}

func TestEventFilters_Accepts(t *testing.T) {
	fleetWide := Event{Type: EventRefresh}
	offline := Event{Type: EventAlertAcknowledged, Statuses: []models.UnitStatus{models.StatusOffline}}

	assert.True(t, EventFilters{}.Accepts(offline))
	assert.True(t, EventFilters{Statuses: []models.UnitStatus{models.StatusActive}}.Accepts(fleetWide))
	assert.False(t, EventFilters{Statuses: []models.UnitStatus{models.StatusActive}}.Accepts(offline))
	assert.True(t, EventFilters{Statuses: []models.UnitStatus{models.StatusActive, models.StatusOffline}}.Accepts(offline))
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"http://dash.test"})

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	assert.True(t, check(req))

	req.Header.Set("Origin", "http://dash.test")
	assert.True(t, check(req))

	req.Header.Set("Origin", "http://evil.test")
	assert.False(t, check(req))
}
