package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Shukladev7/escalation-tracker/internal/config"
	"github.com/Shukladev7/escalation-tracker/internal/domain"
	"github.com/Shukladev7/escalation-tracker/internal/notification"
	"github.com/Shukladev7/escalation-tracker/internal/repository"
)

// Deliverer sends one composed pending notification.
type Deliverer interface {
	Deliver(ctx context.Context, pending domain.PendingNotification) (notification.SendResult, error)
}

// NotificationWorker drains the notification outbox. Failed sends are retried
// with linear backoff until MaxAttempts, then parked as FAILED. Delivery never
// feeds back into the escalation records that enqueued the notification.
type NotificationWorker struct {
	outbox    repository.OutboxRepository
	deliverer Deliverer
	cfg       config.OutboxConfig
	logger    *zap.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewNotificationWorker constructs the worker.
func NewNotificationWorker(outbox repository.OutboxRepository, deliverer Deliverer, cfg config.OutboxConfig, logger *zap.Logger) *NotificationWorker {
	if cfg.PollIntervalSeconds <= 0 {
		cfg.PollIntervalSeconds = 5
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.BackoffSeconds <= 0 {
		cfg.BackoffSeconds = 30
	}
	return &NotificationWorker{
		outbox:    outbox,
		deliverer: deliverer,
		cfg:       cfg,
		logger:    logger,
	}
}

// Start launches the polling loop.
func (w *NotificationWorker) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)
	w.wg.Add(1)
	go w.run(ctx)
}

// Stop halts the loop and waits for the in-flight batch.
func (w *NotificationWorker) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}

func (w *NotificationWorker) run(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(time.Duration(w.cfg.PollIntervalSeconds) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.processBatch(ctx)
		}
	}
}

func (w *NotificationWorker) processBatch(ctx context.Context) {
	due, err := w.outbox.ListDue(ctx, time.Now(), w.cfg.BatchSize)
	if err != nil {
		w.logger.Error("failed to list due notifications", zap.Error(err))
		return
	}
	for _, pending := range due {
		if ctx.Err() != nil {
			return
		}
		w.processOne(ctx, pending)
	}
}

func (w *NotificationWorker) processOne(ctx context.Context, pending domain.PendingNotification) {
	result, err := w.deliverer.Deliver(ctx, pending)
	if err != nil {
		w.recordFailure(ctx, pending, err)
		return
	}

	status := domain.OutboxSent
	if result.Skipped {
		status = domain.OutboxSkipped
	}
	if err := w.outbox.MarkDelivered(ctx, pending.ID, status, time.Now()); err != nil {
		w.logger.Error("failed to mark notification delivered",
			zap.String("notification_id", pending.ID), zap.Error(err))
		return
	}
	w.logger.Info("notification processed",
		zap.String("notification_id", pending.ID),
		zap.String("kind", string(pending.Kind)),
		zap.String("status", string(status)))
}

func (w *NotificationWorker) recordFailure(ctx context.Context, pending domain.PendingNotification, sendErr error) {
	attempts := pending.Attempts + 1
	terminal := attempts >= w.cfg.MaxAttempts
	backoff := time.Duration(attempts*w.cfg.BackoffSeconds) * time.Second

	if err := w.outbox.MarkFailed(ctx, pending.ID, attempts, time.Now().Add(backoff), sendErr.Error(), terminal); err != nil {
		w.logger.Error("failed to record notification failure",
			zap.String("notification_id", pending.ID), zap.Error(err))
		return
	}
	if terminal {
		w.logger.Error("notification permanently failed",
			zap.String("notification_id", pending.ID),
			zap.Int("attempts", attempts),
			zap.Error(sendErr))
		return
	}
	w.logger.Warn("notification delivery failed; will retry",
		zap.String("notification_id", pending.ID),
		zap.Int("attempts", attempts),
		zap.Duration("backoff", backoff),
		zap.Error(sendErr))
}
