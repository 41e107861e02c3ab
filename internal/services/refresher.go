package services

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Refresher periodically refreshes the dashboard.
type Refresher struct {
	service  *DashboardService
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
	once     sync.Once
}

func NewRefresher(service *DashboardService, interval time.Duration) *Refresher {
	return &Refresher{
		service:  service,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start blocks until Stop is called; run it in a goroutine.
func (r *Refresher) Start() {
	defer close(r.done)
	log.WithField("interval", r.interval).Info("starting dashboard auto refresh")

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.refresh()
		case <-r.stop:
			log.Info("stopping dashboard auto refresh")
			return
		}
	}
}

// Stop ends the loop and waits for an in-flight refresh to finish.
func (r *Refresher) Stop() {
	r.once.Do(func() {
		close(r.stop)
		<-r.done
	})
}

func (r *Refresher) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), r.interval)
	defer cancel()

	if _, err := r.service.Refresh(ctx, TriggerAuto); err != nil {
		log.WithError(err).Warn("auto refresh failed")
	}
}
