package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gps-monitor/internal/config"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const (
	healthCheckInterval = 30 * time.Second
	maxReconnectBackoff = 30 * time.Second
)

// Client wraps a go-redis client with periodic health checks and
// reconnection with exponential backoff.
type Client struct {
	client        *redis.Client
	config        config.RedisConfig
	mu            sync.RWMutex
	isConnected   bool
	reconnectChan chan struct{}
	ctx           context.Context
	cancel        context.CancelFunc
	log           *log.Entry
}

type HealthStatus struct {
	IsConnected    bool          `json:"isConnected"`
	LastPing       time.Time     `json:"lastPing"`
	ResponseTime   time.Duration `json:"responseTime"`
	ConnectionInfo string        `json:"connectionInfo"`
	Error          string        `json:"error,omitempty"`
}

// NewClient creates the client and starts its background loops. The initial
// connection failing is not fatal; the reconnect loop keeps trying.
func NewClient(cfg config.RedisConfig) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	c := &Client{
		config:        cfg,
		reconnectChan: make(chan struct{}, 1),
		ctx:           ctx,
		cancel:        cancel,
		log:           log.WithField("component", "redis"),
	}

	c.connect()
	go c.healthCheckLoop()
	go c.reconnectLoop()

	return c
}

func (c *Client) options() *redis.Options {
	if c.config.URL != "" {
		opt, err := redis.ParseURL(c.config.URL)
		if err == nil {
			c.applyPool(opt)
			return opt
		}
		c.log.WithError(err).Warn("failed to parse REDIS_URL, falling back to host:port")
	}

	opt := &redis.Options{
		Addr:     c.address(),
		Password: c.config.Password,
		DB:       c.config.DB,
	}
	c.applyPool(opt)
	return opt
}

func (c *Client) applyPool(opt *redis.Options) {
	if c.config.PoolSize > 0 {
		opt.PoolSize = c.config.PoolSize
	}
	opt.MinIdleConns = c.config.MinIdleConns
	opt.MaxRetries = c.config.MaxRetries
	opt.MinRetryBackoff = c.config.RetryDelay
	opt.DialTimeout = c.config.DialTimeout
	opt.ReadTimeout = c.config.ReadTimeout
	opt.WriteTimeout = c.config.WriteTimeout
	opt.PoolTimeout = c.config.PoolTimeout
}

func (c *Client) address() string {
	return fmt.Sprintf("%s:%s", c.config.Host, c.config.Port)
}

func (c *Client) connect() {
	client := redis.NewClient(c.options())

	c.mu.Lock()
	c.client = client
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(c.ctx, 5*time.Second)
	defer cancel()

	err := client.Ping(ctx).Err()
	c.setConnected(err == nil)
	if err != nil {
		c.log.WithError(err).WithField("addr", c.address()).Warn("redis connection test failed")
		return
	}
	c.log.WithField("addr", c.address()).Info("redis connected")
}

func (c *Client) setConnected(ok bool) {
	c.mu.Lock()
	c.isConnected = ok
	c.mu.Unlock()
}

// GetClient returns the underlying go-redis client.
func (c *Client) GetClient() *redis.Client {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.client
}

func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isConnected
}

// HealthCheck pings Redis and schedules a reconnect on failure.
func (c *Client) HealthCheck(ctx context.Context) HealthStatus {
	client := c.GetClient()

	status := HealthStatus{
		IsConnected:    c.IsConnected(),
		ConnectionInfo: c.address(),
	}
	if client == nil {
		status.Error = "redis client not initialized"
		return status
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	start := time.Now()
	err := client.Ping(ctx).Err()
	status.ResponseTime = time.Since(start)
	status.LastPing = time.Now()

	if err != nil {
		status.IsConnected = false
		status.Error = err.Error()
		c.setConnected(false)
		c.triggerReconnect()
		return status
	}

	c.setConnected(true)
	status.IsConnected = true
	return status
}

func (c *Client) triggerReconnect() {
	select {
	case c.reconnectChan <- struct{}{}:
	default:
		// already pending
	}
}

func (c *Client) healthCheckLoop() {
	ticker := time.NewTicker(healthCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			if status := c.HealthCheck(c.ctx); !status.IsConnected {
				c.log.WithField("error", status.Error).Warn("redis health check failed")
			}
		}
	}
}

func (c *Client) reconnectLoop() {
	backoff := time.Second

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-c.reconnectChan:
			if c.IsConnected() {
				continue
			}

			c.log.Info("attempting to reconnect to redis")
			if old := c.GetClient(); old != nil {
				_ = old.Close()
			}
			c.connect()

			if c.IsConnected() {
				c.log.Info("reconnected to redis")
				backoff = time.Second
				continue
			}

			c.log.WithField("backoff", backoff).Warn("redis reconnection failed")
			select {
			case <-c.ctx.Done():
				return
			case <-time.After(backoff):
			}
			backoff *= 2
			if backoff > maxReconnectBackoff {
				backoff = maxReconnectBackoff
			}
			c.triggerReconnect()
		}
	}
}

// Close stops the background loops and closes the connection pool.
func (c *Client) Close() error {
	c.cancel()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// GetConnectionStats returns connection pool statistics.
func (c *Client) GetConnectionStats() map[string]interface{} {
	client := c.GetClient()
	if client == nil {
		return map[string]interface{}{
			"error": "redis client not initialized",
		}
	}

	stats := client.PoolStats()
	return map[string]interface{}{
		"hits":        stats.Hits,
		"misses":      stats.Misses,
		"timeouts":    stats.Timeouts,
		"totalConns":  stats.TotalConns,
		"idleConns":   stats.IdleConns,
		"staleConns":  stats.StaleConns,
		"isConnected": c.IsConnected(),
	}
}
