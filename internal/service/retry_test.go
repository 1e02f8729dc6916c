package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"leadcredit/internal/util"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

var fastRetry = RetryPolicy{MaxAttempts: 3, MinDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}

func TestWithRetry_RecoversFromConflict(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), fastRetry, "purchase", zap.NewNop(), func() error {
		calls++
		if calls < 3 {
			return fmt.Errorf("purchase: %w", &pq.Error{Code: "40P01"})
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetry_GivesUp(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), fastRetry, "purchase", zap.NewNop(), func() error {
		calls++
		return &pq.Error{Code: "40001"}
	})

	assert.ErrorIs(t, err, util.ErrTransientStoreFailure)
	assert.True(t, util.IsRetryable(err))
	assert.Equal(t, 3, calls)
}

func TestWithRetry_BusinessErrorsAreNotRetried(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), fastRetry, "purchase", zap.NewNop(), func() error {
		calls++
		return util.ErrCapacityExceeded
	})

	assert.Equal(t, util.ErrCapacityExceeded, err)
	assert.Equal(t, 1, calls)
}

func TestWithRetry_TimeoutIsTransient(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), fastRetry, "purchase", zap.NewNop(), func() error {
		calls++
		return fmt.Errorf("query: %w", context.DeadlineExceeded)
	})

	assert.ErrorIs(t, err, util.ErrTransientStoreFailure)
	assert.Equal(t, 1, calls)
}

func TestWithRetry_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := withRetry(ctx, fastRetry, "purchase", zap.NewNop(), func() error {
		return errors.New("driver: bad connection")
	})

	assert.ErrorIs(t, err, util.ErrTransientStoreFailure)
}
