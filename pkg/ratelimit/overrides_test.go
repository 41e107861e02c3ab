package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOverrides(t *testing.T) {
	overrides, err := ParseOverrides(" api:ops@GET:/api/v1/units/export=120/30 , anon:10.0.0.1:42@POST:/api/v1/dashboard/refresh=5/1,")
	require.NoError(t, err)
	require.Len(t, overrides, 2)

	assert.Equal(t, Override{
		ClientID: "api:ops",
		Endpoint: "GET:/api/v1/units/export",
		Limit:    RateLimit{RequestsPerMinute: 120, BurstSize: 30, WindowSize: time.Minute},
	}, overrides[0])
	assert.Equal(t, "anon:10.0.0.1:42", overrides[1].ClientID)
	assert.Equal(t, "POST:/api/v1/dashboard/refresh", overrides[1].Endpoint)

	empty, err := ParseOverrides("")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestParseOverrides_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"missing limits", "api:ops@GET:/api/v1/units"},
		{"missing client", "@GET:/api/v1/units=1/1"},
		{"missing endpoint", "api:ops=1/1"},
		{"missing burst", "api:ops@GET:/api/v1/units=10"},
		{"zero rpm", "api:ops@GET:/api/v1/units=0/1"},
		{"bad burst", "api:ops@GET:/api/v1/units=10/x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOverrides(tt.raw)
			assert.Error(t, err)
		})
	}
}

func TestApplyOverrides(t *testing.T) {
	limiter, _ := newTestMemoryLimiter(t, nil)
	ctx := context.Background()

	overrides, err := ParseOverrides("api:ops@GET:/api/v1/alerts=1/1")
	require.NoError(t, err)
	require.NoError(t, ApplyOverrides(ctx, limiter, overrides))

	assert.Equal(t, 1, limiter.LimitFor("api:ops", "GET:/api/v1/alerts").BurstSize)

	allowed, _, _ := limiter.Allow(ctx, "api:ops", "GET:/api/v1/alerts")
	assert.True(t, allowed)
	allowed, _, _ = limiter.Allow(ctx, "api:ops", "GET:/api/v1/alerts")
	assert.False(t, allowed)
}
