package redis

import (
	"context"
	"testing"
	"time"

	"gps-monitor/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(mr *miniredis.Miniredis) config.RedisConfig {
	return config.RedisConfig{
		Host:         mr.Host(),
		Port:         mr.Port(),
		PoolSize:     5,
		MaxRetries:   1,
		RetryDelay:   10 * time.Millisecond,
		DialTimeout:  time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
		PoolTimeout:  time.Second,
	}
}

func TestNewClient(t *testing.T) {
	mr := miniredis.RunT(t)

	client := NewClient(testConfig(mr))
	defer client.Close()

	require.NotNil(t, client.GetClient())
	assert.True(t, client.IsConnected())

	require.NoError(t, client.GetClient().Set(context.Background(), "k", "v", 0).Err())
	got, err := mr.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestNewClient_URL(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(mr)
	cfg.URL = "redis://" + mr.Addr() + "/0"

	client := NewClient(cfg)
	defer client.Close()

	assert.True(t, client.IsConnected())
}

func TestHealthCheck(t *testing.T) {
	mr := miniredis.RunT(t)

	client := NewClient(testConfig(mr))
	defer client.Close()

	status := client.HealthCheck(context.Background())
	assert.True(t, status.IsConnected)
	assert.Equal(t, mr.Addr(), status.ConnectionInfo)
	assert.False(t, status.LastPing.IsZero())
	assert.Empty(t, status.Error)

	mr.Close()

	status = client.HealthCheck(context.Background())
	assert.False(t, status.IsConnected)
	assert.NotEmpty(t, status.Error)
	assert.False(t, client.IsConnected())
}

func TestGetConnectionStats(t *testing.T) {
	mr := miniredis.RunT(t)

	client := NewClient(testConfig(mr))
	defer client.Close()

	stats := client.GetConnectionStats()
	for _, key := range []string{"hits", "misses", "timeouts", "totalConns", "idleConns", "staleConns", "isConnected"} {
		assert.Contains(t, stats, key)
	}
}
