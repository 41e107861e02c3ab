package repository

import (
	"context"
	"time"

	"gps-monitor/internal/models"
)

// StaticProvider serves the seed dataset from memory. It does not implement
// AlertAcknowledger: acknowledgements belong to the alerting system.
type StaticProvider struct {
	now func() time.Time
}

// NewStaticProvider returns a provider whose active units report clock() as
// their last fix. A nil clock means time.Now.
func NewStaticProvider(clock func() time.Time) *StaticProvider {
	if clock == nil {
		clock = time.Now
	}
	return &StaticProvider{now: clock}
}

func (p *StaticProvider) ListUnits(ctx context.Context) ([]models.Unit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return SeedUnits(p.now()), nil
}

func (p *StaticProvider) ListAlerts(ctx context.Context) ([]models.Alert, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return SeedAlerts(), nil
}
