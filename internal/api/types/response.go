// internal/api/types/response.go
package types

// PaginatedResponse defines a generic structure for paginated API responses.
// T represents the type of data contained in the 'Data' slice.
type PaginatedResponse[T any] struct {
	Data       []T   `json:"data"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
	TotalCount int64 `json:"total_count"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string       `json:"error"`
	Code    string       `json:"code"`
	Details []FieldError `json:"details,omitempty"`
}

// FieldError describes one failed validation rule of a request.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// Error codes carried in ErrorResponse.Code.
const (
	CodeInvalidInput            = "INVALID_INPUT"
	CodeInvalidCompetitionLevel = "INVALID_COMPETITION_LEVEL"
	CodeUnauthorized            = "UNAUTHORIZED"
	CodeNotFound                = "NOT_FOUND"
	CodeInsufficientBalance     = "INSUFFICIENT_BALANCE"
	CodeCapacityExceeded        = "CAPACITY_EXCEEDED"
	CodeAlreadyExclusive        = "ALREADY_EXCLUSIVE"
	CodeAlreadyAllocated        = "ALREADY_ALLOCATED"
	CodeIdempotencyKeyReused    = "IDEMPOTENCY_KEY_REUSED"
	CodeDuplicateEntry          = "DUPLICATE_ENTRY"
	CodeRateLimited             = "RATE_LIMITED"
	CodeTransientStoreFailure   = "TRANSIENT_STORE_FAILURE"
	CodeLedgerMismatch          = "LEDGER_MISMATCH"
	CodeInternal                = "INTERNAL"
)
