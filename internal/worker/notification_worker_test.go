package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Shukladev7/escalation-tracker/internal/config"
	"github.com/Shukladev7/escalation-tracker/internal/domain"
	"github.com/Shukladev7/escalation-tracker/internal/notification"
)

type fakeOutbox struct {
	mu      sync.Mutex
	pending []domain.PendingNotification

	delivered []struct {
		id     string
		status domain.OutboxStatus
	}
	failed []struct {
		id       string
		attempts int
		next     time.Time
		lastErr  string
		terminal bool
	}
}

func (o *fakeOutbox) Enqueue(_ context.Context, n *domain.PendingNotification) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.pending = append(o.pending, *n)
	return nil
}

func (o *fakeOutbox) ListDue(_ context.Context, _ time.Time, limit int) ([]domain.PendingNotification, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if limit > 0 && len(o.pending) > limit {
		return append([]domain.PendingNotification{}, o.pending[:limit]...), nil
	}
	return append([]domain.PendingNotification{}, o.pending...), nil
}

func (o *fakeOutbox) MarkDelivered(_ context.Context, id string, status domain.OutboxStatus, _ time.Time) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.delivered = append(o.delivered, struct {
		id     string
		status domain.OutboxStatus
	}{id, status})
	return nil
}

func (o *fakeOutbox) MarkFailed(_ context.Context, id string, attempts int, next time.Time, lastErr string, terminal bool) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.failed = append(o.failed, struct {
		id       string
		attempts int
		next     time.Time
		lastErr  string
		terminal bool
	}{id, attempts, next, lastErr, terminal})
	return nil
}

type stubDeliverer struct {
	result notification.SendResult
	err    error
}

func (d *stubDeliverer) Deliver(context.Context, domain.PendingNotification) (notification.SendResult, error) {
	return d.result, d.err
}

func workerConfig() config.OutboxConfig {
	return config.OutboxConfig{PollIntervalSeconds: 1, MaxAttempts: 3, BackoffSeconds: 30, BatchSize: 10}
}

func TestProcessBatchMarksSent(t *testing.T) {
	outbox := &fakeOutbox{pending: []domain.PendingNotification{{ID: "n1", Kind: domain.NotificationNewEscalation}}}
	w := NewNotificationWorker(outbox, &stubDeliverer{result: notification.SendResult{Success: true}}, workerConfig(), zap.NewNop())

	w.processBatch(context.Background())

	require.Len(t, outbox.delivered, 1)
	assert.Equal(t, "n1", outbox.delivered[0].id)
	assert.Equal(t, domain.OutboxSent, outbox.delivered[0].status)
	assert.Empty(t, outbox.failed)
}

func TestProcessBatchMarksSkipped(t *testing.T) {
	outbox := &fakeOutbox{pending: []domain.PendingNotification{{ID: "n1"}}}
	w := NewNotificationWorker(outbox, &stubDeliverer{result: notification.SendResult{Success: true, Skipped: true}}, workerConfig(), zap.NewNop())

	w.processBatch(context.Background())

	require.Len(t, outbox.delivered, 1)
	assert.Equal(t, domain.OutboxSkipped, outbox.delivered[0].status)
}

func TestProcessBatchRetriesWithBackoff(t *testing.T) {
	outbox := &fakeOutbox{pending: []domain.PendingNotification{{ID: "n1", Attempts: 0}}}
	w := NewNotificationWorker(outbox, &stubDeliverer{err: errors.New("smtp down")}, workerConfig(), zap.NewNop())

	before := time.Now()
	w.processBatch(context.Background())

	require.Len(t, outbox.failed, 1)
	failure := outbox.failed[0]
	assert.Equal(t, 1, failure.attempts)
	assert.False(t, failure.terminal)
	assert.Equal(t, "smtp down", failure.lastErr)
	assert.WithinDuration(t, before.Add(30*time.Second), failure.next, 2*time.Second)
}

func TestProcessBatchParksAfterMaxAttempts(t *testing.T) {
	outbox := &fakeOutbox{pending: []domain.PendingNotification{{ID: "n1", Attempts: 2}}}
	w := NewNotificationWorker(outbox, &stubDeliverer{err: errors.New("smtp down")}, workerConfig(), zap.NewNop())

	w.processBatch(context.Background())

	require.Len(t, outbox.failed, 1)
	assert.Equal(t, 3, outbox.failed[0].attempts)
	assert.True(t, outbox.failed[0].terminal)
}

func TestStartStopDrainsCleanly(t *testing.T) {
	outbox := &fakeOutbox{}
	w := NewNotificationWorker(outbox, &stubDeliverer{result: notification.SendResult{Success: true}}, workerConfig(), zap.NewNop())

	w.Start(context.Background())
	w.Stop()
	// A second Stop is harmless.
	w.Stop()
}
