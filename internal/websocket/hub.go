package websocket

import (
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"gps-monitor/internal/models"
	"gps-monitor/pkg/logger"
	"gps-monitor/pkg/metrics"
	"gps-monitor/pkg/telemetry"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	staleAfter     = 90 * time.Second
	sendBufferSize = 64
)

var ErrHubStopped = errors.New("websocket hub stopped")

// Hub fans dashboard events out to connected clients.
type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan Event
	mutex      sync.RWMutex
	upgrader   websocket.Upgrader
	done       chan struct{}
	stopped    chan struct{}
	stopOnce   sync.Once
	broadcasts atomic.Int64
	dropped    atomic.Int64
	log        *log.Entry
}

// NewHub creates a hub accepting connections from allowedOrigins. An empty
// list or "*" accepts any origin.
func NewHub(allowedOrigins []string) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Event, 100),
		upgrader: websocket.Upgrader{
			CheckOrigin:     originChecker(allowedOrigins),
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		log:     logger.Component("websocket"),
	}
}

func originChecker(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 || slices.Contains(allowed, "*") {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		// non-browser clients send no Origin
		return origin == "" || slices.Contains(allowed, origin)
	}
}

// Start runs the event loop in its own goroutine.
func (h *Hub) Start() {
	go h.run()
	h.log.Info("websocket hub started")
}

// Stop closes every client connection and waits for the loop to exit.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.done)
		<-h.stopped
		h.log.Info("websocket hub stopped")
	})
}

func (h *Hub) run() {
	defer close(h.stopped)

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client.ID] = client
			count := len(h.clients)
			h.mutex.Unlock()
			metrics.WebSocketClients.Set(float64(count))
			h.log.WithField("client", client.ID).Debug("client registered")

		case client := <-h.unregister:
			h.remove(client.ID)

		case event := <-h.broadcast:
			h.deliver(event)

		case <-ticker.C:
			h.evictStale(time.Now())

		case <-h.done:
			h.mutex.Lock()
			for id, client := range h.clients {
				delete(h.clients, id)
				close(client.Send)
			}
			h.mutex.Unlock()
			metrics.WebSocketClients.Set(0)
			return
		}
	}
}

// remove drops the client and closes its send channel. Only the run loop
// calls it, so each channel is closed once.
func (h *Hub) remove(id string) {
	h.mutex.Lock()
	client, ok := h.clients[id]
	if ok {
		delete(h.clients, id)
		close(client.Send)
	}
	count := len(h.clients)
	h.mutex.Unlock()

	if ok {
		metrics.WebSocketClients.Set(float64(count))
		h.log.WithField("client", id).Debug("client unregistered")
	}
}

// ServeWS upgrades the request and serves the connection until it closes.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, filters EventFilters) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	client := &Client{
		ID:       uuid.NewString(),
		Conn:     conn,
		Send:     make(chan Event, sendBufferSize),
		filters:  filters,
		lastPong: time.Now(),
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return ErrHubStopped
	}

	go h.writePump(client)
	h.readPump(client)
	return nil
}

// Broadcast queues an event for delivery. It never blocks; when the queue
// is full the event is dropped and counted.
func (h *Hub) Broadcast(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case h.broadcast <- event:
	default:
		h.dropped.Add(1)
		h.log.WithField("type", event.Type).Warn("broadcast queue full, dropping event")
	}
}

// BroadcastRefresh announces a full refresh of the dashboard data and the
// units that changed with it.
func (h *Hub) BroadcastRefresh(stats models.DashboardStats, lastUpdated string, changes []telemetry.UnitChange) {
	h.Broadcast(Event{Type: EventRefresh, Stats: &stats, LastUpdated: lastUpdated, Changes: changes})
}

// BroadcastAlertAcknowledged announces an acknowledgement on a unit.
func (h *Hub) BroadcastAlertAcknowledged(alertID, unitID string, status models.UnitStatus, stats models.DashboardStats) {
	event := Event{Type: EventAlertAcknowledged, AlertID: alertID, UnitID: unitID, Stats: &stats}
	if status != "" {
		event.Statuses = []models.UnitStatus{status}
	}
	h.Broadcast(event)
}

func (h *Hub) deliver(event Event) {
	h.broadcasts.Add(1)

	h.mutex.RLock()
	defer h.mutex.RUnlock()

	for _, client := range h.clients {
		if !client.Filters().Accepts(event) {
			continue
		}
		select {
		case client.Send <- event:
		default:
			h.dropped.Add(1)
			h.log.WithField("client", client.ID).Warn("client send buffer full, dropping event")
		}
	}
}

func (h *Hub) ConnectedClients() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

func (h *Hub) Stats() ClientStats {
	return ClientStats{
		TotalClients: h.ConnectedClients(),
		Broadcasts:   h.broadcasts.Load(),
		Dropped:      h.dropped.Load(),
	}
}

func (h *Hub) readPump(client *Client) {
	defer func() {
		select {
		case h.unregister <- client:
		case <-h.done:
		}
		client.Conn.Close()
	}()

	client.Conn.SetReadLimit(4096)
	_ = client.Conn.SetReadDeadline(time.Now().Add(pongWait))
	client.Conn.SetPongHandler(func(string) error {
		client.touch(time.Now())
		return client.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var message struct {
			Type    string       `json:"type"`
			Filters EventFilters `json:"filters"`
		}
		_, data, err := client.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.WithError(err).WithField("client", client.ID).Debug("websocket read failed")
			}
			return
		}
		client.touch(time.Now())

		if err := json.Unmarshal(data, &message); err != nil {
			continue
		}
		if message.Type == MessageTypeUpdateFilters {
			client.setFilters(message.Filters)
			h.log.WithField("client", client.ID).Debug("client filters updated")
		}
	}
}

func (h *Hub) writePump(client *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.Conn.Close()
	}()

	for {
		select {
		case event, ok := <-client.Send:
			_ = client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = client.Conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := client.Conn.WriteJSON(event); err != nil {
				h.log.WithError(err).WithField("client", client.ID).Debug("websocket write failed")
				return
			}

		case <-ticker.C:
			_ = client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// evictStale removes clients that have not answered a ping in time.
func (h *Hub) evictStale(now time.Time) {
	h.mutex.RLock()
	var stale []string
	for id, client := range h.clients {
		if now.Sub(client.lastSeen()) > staleAfter {
			stale = append(stale, id)
		}
	}
	h.mutex.RUnlock()

	for _, id := range stale {
		h.log.WithField("client", id).Info("client timed out")
		h.remove(id)
	}
}
