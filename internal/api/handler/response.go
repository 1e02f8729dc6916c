// internal/api/handler/response.go
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"leadcredit/internal/api/types"
	"leadcredit/internal/util"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// DefaultTimeout bounds every request, including the purchase retries.
const DefaultTimeout = 10 * time.Second

var validate = validator.New(validator.WithRequiredStructEnabled())

// responder carries the JSON helpers shared by all handlers.
type responder struct {
	logger *zap.Logger
}

// respondWithJSON writes payload with the given status code.
func (h responder) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("failed to marshal JSON response", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// respondWithError maps a service error onto its HTTP status and error code.
func (h responder) respondWithError(w http.ResponseWriter, err error) {
	status, code := StatusFor(err)
	message := err.Error()

	switch status {
	case http.StatusInternalServerError:
		if code == types.CodeInternal {
			h.logger.Error("unhandled service error", zap.Error(err))
			message = "internal server error"
		}
	case http.StatusServiceUnavailable:
		w.Header().Set("Retry-After", "1")
		message = util.ErrTransientStoreFailure.Error()
	case http.StatusNotFound:
		message = "resource not found"
	}

	h.respondWithJSON(w, status, types.ErrorResponse{Error: message, Code: code})
}

// StatusFor returns the HTTP status and error code for err.
func StatusFor(err error) (int, string) {
	switch {
	case util.IsError(err, util.ErrInvalidCompetitionLevel):
		return http.StatusBadRequest, types.CodeInvalidCompetitionLevel
	case util.IsError(err, util.ErrInvalidInput):
		return http.StatusBadRequest, types.CodeInvalidInput
	case util.IsError(err, util.ErrNotFound):
		return http.StatusNotFound, types.CodeNotFound
	case util.IsError(err, util.ErrInsufficientBalance):
		return http.StatusPaymentRequired, types.CodeInsufficientBalance
	case util.IsError(err, util.ErrCapacityExceeded):
		return http.StatusConflict, types.CodeCapacityExceeded
	case util.IsError(err, util.ErrAlreadyExclusive):
		return http.StatusConflict, types.CodeAlreadyExclusive
	case util.IsError(err, util.ErrAlreadyAllocated):
		return http.StatusConflict, types.CodeAlreadyAllocated
	case util.IsError(err, util.ErrIdempotencyKeyReused):
		return http.StatusConflict, types.CodeIdempotencyKeyReused
	case util.IsError(err, util.ErrDuplicateEntry):
		return http.StatusConflict, types.CodeDuplicateEntry
	case util.IsError(err, util.ErrTransientStoreFailure):
		return http.StatusServiceUnavailable, types.CodeTransientStoreFailure
	case util.IsError(err, util.ErrLedgerMismatch):
		return http.StatusInternalServerError, types.CodeLedgerMismatch
	}
	return http.StatusInternalServerError, types.CodeInternal
}

// decodeAndValidate decodes a JSON body into dst and runs its validate tags.
// It writes the 400 response itself and reports whether the handler may go on.
func (h responder) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		h.respondWithJSON(w, http.StatusBadRequest, types.ErrorResponse{
			Error: "malformed request body",
			Code:  types.CodeInvalidInput,
		})
		return false
	}
	return h.validateStruct(w, dst)
}

func (h responder) validateStruct(w http.ResponseWriter, v interface{}) bool {
	err := validate.Struct(v)
	if err == nil {
		return true
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		h.respondWithError(w, err)
		return false
	}
	details := make([]types.FieldError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		details = append(details, types.FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Message: fieldMessage(fe),
		})
	}
	h.respondWithJSON(w, http.StatusBadRequest, types.ErrorResponse{
		Error:   "validation failed",
		Code:    types.CodeInvalidInput,
		Details: details,
	})
	return false
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email address"
	case "uuid":
		return fe.Field() + " must be a UUID"
	case "max":
		return fe.Field() + " must be at most " + fe.Param() + " characters"
	case "gt", "gte", "lte", "ne":
		return fe.Field() + " must be " + fe.Tag() + " " + fe.Param()
	}
	return fe.Field() + " is invalid"
}

// queryInt reads a non-negative integer query parameter, falling back to def
// when it is absent.
func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, util.ErrInvalidInput
	}
	return n, nil
}
