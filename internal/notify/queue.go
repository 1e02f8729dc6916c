// internal/notify/queue.go
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"leadcredit/internal/metrics"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisQueue enqueues notices for the Worker.
type RedisQueue struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisQueue creates a RedisQueue on an existing client.
func NewRedisQueue(client *redis.Client, logger *zap.Logger) *RedisQueue {
	return &RedisQueue{client: client, logger: logger}
}

// NotifyAllocation pushes the notice onto the queue.
func (q *RedisQueue) NotifyAllocation(ctx context.Context, notice AllocationNotice) error {
	data, err := json.Marshal(notice)
	if err != nil {
		return fmt.Errorf("notify: failed to marshal notice: %w", err)
	}
	if err := q.client.LPush(ctx, QueueKey, data).Err(); err != nil {
		return fmt.Errorf("notify: failed to queue notice for allocation %d: %w", notice.AllocationID, err)
	}
	metrics.NotificationsTotal.WithLabelValues(metrics.NotificationQueued).Inc()
	q.logger.Debug("allocation notice queued",
		zap.Int64("allocation_id", notice.AllocationID),
		zap.String("buyer_id", notice.BuyerID),
	)
	return nil
}

// QueueLength returns the number of pending notices.
func (q *RedisQueue) QueueLength(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, QueueKey).Result()
}
