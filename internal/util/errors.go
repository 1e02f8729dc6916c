// internal/util/errors.go
package util

import (
	"context"
	"errors"

	"github.com/lib/pq"
)

// Common application-specific errors.
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input provided")
	ErrDuplicateEntry = errors.New("duplicate entry")

	// ErrWalletNotFound, ErrLeadNotFound and ErrBuyerNotFound all match ErrNotFound via errors.Is.
	ErrWalletNotFound = notFound("wallet not found")
	ErrLeadNotFound   = notFound("lead not found")
	ErrBuyerNotFound  = notFound("buyer not found")

	ErrInvalidCompetitionLevel = errors.New("invalid competition level")
	ErrInsufficientBalance     = errors.New("insufficient balance")
	ErrCapacityExceeded        = errors.New("lead capacity exceeded")
	ErrAlreadyExclusive        = errors.New("lead is already allocated exclusively")
	ErrAlreadyAllocated        = errors.New("buyer already holds an allocation on this lead")
	ErrIdempotencyKeyReused    = errors.New("idempotency key already used for a different purchase")
	ErrTransientStoreFailure   = errors.New("transient store failure, safe to retry")
	ErrLedgerMismatch          = errors.New("ledger does not reconcile with wallet balance")
)

type notFoundError struct{ msg string }

func notFound(msg string) error { return &notFoundError{msg: msg} }

func (e *notFoundError) Error() string { return e.msg }

func (e *notFoundError) Is(target error) bool { return target == ErrNotFound }

// IsError reports whether err matches target anywhere in its chain.
func IsError(err, target error) bool {
	return errors.Is(err, target)
}

// Postgres SQLSTATE codes the store layer reacts to.
const (
	pqSerializationFailure = "40001"
	pqDeadlockDetected     = "40P01"
	pqLockNotAvailable     = "55P03"
	pqUniqueViolation      = "23505"
	pqCheckViolation       = "23514"
)

func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

// IsRetryable reports whether err is a lock or serialization conflict that a
// fresh attempt of the whole unit of work may resolve.
func IsRetryable(err error) bool {
	switch pqCode(err) {
	case pqSerializationFailure, pqDeadlockDetected, pqLockNotAvailable:
		return true
	}
	return false
}

// IsUniqueViolation reports whether err is a unique constraint violation,
// optionally restricted to the named constraint.
func IsUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || string(pqErr.Code) != pqUniqueViolation {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}

// IsCheckViolation reports whether err is a CHECK constraint violation.
func IsCheckViolation(err error) bool {
	return pqCode(err) == pqCheckViolation
}

// IsTimeout reports whether err was caused by the context deadline or cancellation.
func IsTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}
