package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRefresher_RefreshesOnTick(t *testing.T) {
	provider := newFakeProvider(time.Now())
	svc := newTestService(t, provider)
	notifier := &recordingNotifier{}
	svc.SetNotifier(notifier)

	refresher := NewRefresher(svc, 10*time.Millisecond)
	go refresher.Start()

	assert.Eventually(t, func() bool {
		provider.mu.Lock()
		defer provider.mu.Unlock()
		return provider.unitCalls >= 2
	}, time.Second, 5*time.Millisecond)

	refresher.Stop()
	refresher.Stop()
}
