// internal/service/retry.go
package service

import (
	"context"
	"fmt"
	"time"

	"leadcredit/internal/metrics"
	"leadcredit/internal/util"

	"github.com/jpillora/backoff"
	"go.uber.org/zap"
)

// RetryPolicy bounds how often a unit of work is re-run after a lock or
// serialization conflict.
type RetryPolicy struct {
	MaxAttempts int
	MinDelay    time.Duration
	MaxDelay    time.Duration
}

// DefaultRetryPolicy is used when no policy is configured.
var DefaultRetryPolicy = RetryPolicy{
	MaxAttempts: 3,
	MinDelay:    10 * time.Millisecond,
	MaxDelay:    200 * time.Millisecond,
}

func (p RetryPolicy) withDefaults() RetryPolicy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = DefaultRetryPolicy.MaxAttempts
	}
	if p.MinDelay <= 0 {
		p.MinDelay = DefaultRetryPolicy.MinDelay
	}
	if p.MaxDelay < p.MinDelay {
		p.MaxDelay = p.MinDelay
	}
	return p
}

// withRetry runs fn until it succeeds, fails with a non-retryable error or the
// attempts are used up. Conflicts and timeouts surface as ErrTransientStoreFailure.
func withRetry(ctx context.Context, policy RetryPolicy, op string, logger *zap.Logger, fn func() error) error {
	policy = policy.withDefaults()
	b := &backoff.Backoff{
		Min:    policy.MinDelay,
		Max:    policy.MaxDelay,
		Factor: 2,
		Jitter: true,
	}

	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		if util.IsTimeout(err) || ctx.Err() != nil {
			return fmt.Errorf("%s: %w: %w", op, util.ErrTransientStoreFailure, err)
		}
		if !util.IsRetryable(err) {
			return err
		}
		if attempt >= policy.MaxAttempts {
			logger.Warn("giving up after store conflicts",
				zap.String("op", op),
				zap.Int("attempts", attempt),
				zap.Error(err),
			)
			return fmt.Errorf("%s: %w: %w", op, util.ErrTransientStoreFailure, err)
		}

		metrics.PurchaseRetriesTotal.Inc()
		delay := b.Duration()
		logger.Debug("retrying after store conflict",
			zap.String("op", op),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)

		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return fmt.Errorf("%s: %w: %w", op, util.ErrTransientStoreFailure, ctx.Err())
		case <-t.C:
		}
	}
}
