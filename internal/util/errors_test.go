package util

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestNotFoundVariantsMatchErrNotFound(t *testing.T) {
	for _, err := range []error{ErrWalletNotFound, ErrLeadNotFound, ErrBuyerNotFound} {
		wrapped := fmt.Errorf("purchase: failed to load: %w", err)
		assert.True(t, IsError(wrapped, ErrNotFound), err.Error())
		assert.True(t, IsError(wrapped, err))
	}
	assert.False(t, IsError(ErrLeadNotFound, ErrWalletNotFound))
}

func TestIsRetryable(t *testing.T) {
	cases := map[string]bool{
		"40001": true,
		"40P01": true,
		"55P03": true,
		"23505": false,
		"42P01": false,
	}
	for code, want := range cases {
		err := fmt.Errorf("exec: %w", &pq.Error{Code: pq.ErrorCode(code)})
		assert.Equal(t, want, IsRetryable(err), code)
	}
	assert.False(t, IsRetryable(errors.New("boom")))
}

func TestIsUniqueViolation(t *testing.T) {
	err := &pq.Error{Code: "23505", Constraint: "allocations_buyer_idempotency_key"}

	assert.True(t, IsUniqueViolation(err, ""))
	assert.True(t, IsUniqueViolation(err, "allocations_buyer_idempotency_key"))
	assert.False(t, IsUniqueViolation(err, "allocations_lead_buyer_key"))
	assert.False(t, IsUniqueViolation(&pq.Error{Code: "23514"}, ""))
	assert.True(t, IsCheckViolation(&pq.Error{Code: "23514"}))
}

func TestIsTimeout(t *testing.T) {
	assert.True(t, IsTimeout(fmt.Errorf("query: %w", context.DeadlineExceeded)))
	assert.True(t, IsTimeout(context.Canceled))
	assert.False(t, IsTimeout(ErrNotFound))
}
