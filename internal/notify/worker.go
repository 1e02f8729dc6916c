// internal/notify/worker.go
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"leadcredit/internal/metrics"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// MaxTries is how often a notice is attempted before it is parked.
const MaxTries = 3

// Worker drains the notification queue and mails each notice.
type Worker struct {
	client     *redis.Client
	mailer     Mailer
	logger     *zap.Logger
	pollWait   time.Duration
	retryDelay time.Duration
}

// NewWorker creates a Worker.
func NewWorker(client *redis.Client, mailer Mailer, logger *zap.Logger) *Worker {
	return &Worker{
		client:     client,
		mailer:     mailer,
		logger:     logger,
		pollWait:   2 * time.Second,
		retryDelay: 5 * time.Second,
	}
}

// Run processes notices until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info("notification worker started")
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("notification worker stopped")
			return nil
		default:
			w.ProcessNext(ctx)
		}
	}
}

// ProcessNext handles at most one notice. It reports whether one was taken.
func (w *Worker) ProcessNext(ctx context.Context) bool {
	result, err := w.client.BRPop(ctx, w.pollWait, QueueKey).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
			w.logger.Warn("failed to read notification queue", zap.Error(err))
			// Avoid spinning against an unreachable server.
			sleep(ctx, w.pollWait)
		}
		return false
	}

	var notice AllocationNotice
	if err := json.Unmarshal([]byte(result[1]), &notice); err != nil {
		w.logger.Error("dropping malformed notification", zap.Error(err))
		metrics.NotificationsTotal.WithLabelValues(metrics.NotificationFailed).Inc()
		return true
	}

	notice.Tries++
	if err := w.mailer.Send(ctx, notice.Email, notice.Subject(), notice.Body()); err != nil {
		w.handleFailure(ctx, notice, err)
		return true
	}

	metrics.NotificationsTotal.WithLabelValues(metrics.NotificationSent).Inc()
	w.logger.Info("allocation notice sent",
		zap.Int64("allocation_id", notice.AllocationID),
		zap.String("to", notice.Email),
	)
	return true
}

func (w *Worker) handleFailure(ctx context.Context, notice AllocationNotice, sendErr error) {
	w.logger.Warn("failed to send allocation notice",
		zap.Int64("allocation_id", notice.AllocationID),
		zap.Int("tries", notice.Tries),
		zap.Error(sendErr),
	)

	if notice.Tries < MaxTries {
		sleep(ctx, w.retryDelay)
		data, _ := json.Marshal(notice)
		if err := w.client.LPush(context.WithoutCancel(ctx), QueueKey, data).Err(); err != nil {
			w.logger.Error("failed to requeue notice", zap.Error(err))
		}
		metrics.NotificationsTotal.WithLabelValues(metrics.NotificationRetried).Inc()
		return
	}

	failed := map[string]interface{}{
		"notice": notice,
		"error":  sendErr.Error(),
		"time":   time.Now().UTC(),
	}
	data, _ := json.Marshal(failed)
	if err := w.client.LPush(context.WithoutCancel(ctx), FailedQueueKey, data).Err(); err != nil {
		w.logger.Error("failed to park notice", zap.Error(err))
	}
	metrics.NotificationsTotal.WithLabelValues(metrics.NotificationFailed).Inc()
	w.logger.Error("allocation notice moved to failed queue",
		zap.Int64("allocation_id", notice.AllocationID),
	)
}

func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
