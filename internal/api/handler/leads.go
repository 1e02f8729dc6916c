// internal/api/handler/leads.go
package handler

import (
	"net/http"
	"strconv"

	"leadcredit/internal/api/types"
	"leadcredit/internal/service"
	"leadcredit/internal/util"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// IdempotencyKeyHeader carries the client generated key of a purchase.
const IdempotencyKeyHeader = "Idempotency-Key"

// LeadHandler serves quotes, the lead board and purchases.
type LeadHandler struct {
	responder
	allocations service.AllocationService
	reports     service.ReportService
}

// NewLeadHandler creates a new LeadHandler.
func NewLeadHandler(allocations service.AllocationService, reports service.ReportService, logger *zap.Logger) *LeadHandler {
	return &LeadHandler{
		responder:   responder{logger: logger},
		allocations: allocations,
		reports:     reports,
	}
}

// QuoteQuery is the query string of GET /quote.
type QuoteQuery struct {
	ProjectValue     string `validate:"required,numeric"`
	CompetitionLevel int
	Exclusive        bool
}

// Quote prices an allocation without buying it.
// GET /quote?project_value=39000&competition_level=2&exclusive=false
func (h *LeadHandler) Quote(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := QuoteQuery{ProjectValue: q.Get("project_value")}
	if !h.validateStruct(w, &query) {
		return
	}

	value, err := decimal.NewFromString(query.ProjectValue)
	if err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}
	if raw := q.Get("competition_level"); raw != "" {
		if query.CompetitionLevel, err = strconv.Atoi(raw); err != nil {
			h.respondWithError(w, util.ErrInvalidCompetitionLevel)
			return
		}
	}
	if raw := q.Get("exclusive"); raw != "" {
		if query.Exclusive, err = strconv.ParseBool(raw); err != nil {
			h.respondWithError(w, util.ErrInvalidInput)
			return
		}
	}

	quote, err := h.allocations.Quote(r.Context(), service.QuoteRequest{
		ProjectValue:     value,
		CompetitionLevel: query.CompetitionLevel,
		Exclusive:        query.Exclusive,
	})
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, quote)
}

// ListLeads returns the lead board.
// GET /leads?limit=20&offset=0
func (h *LeadHandler) ListLeads(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 20)
	if err != nil || limit == 0 {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	offers, total, err := h.reports.AvailableLeads(r.Context(), limit, offset)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, types.PaginatedResponse[service.LeadOffer]{
		Data:       offers,
		Limit:      limit,
		Offset:     offset,
		TotalCount: total,
	})
}

// PurchaseRequest is the body of POST /leads/{leadID}/purchase.
type PurchaseRequest struct {
	CompetitionLevel int  `json:"competition_level"`
	Exclusive        bool `json:"exclusive"`
}

type purchaseKey struct {
	IdempotencyKey string `validate:"omitempty,uuid"`
}

// Purchase allocates a lead to the calling buyer.
// POST /leads/{leadID}/purchase
func (h *LeadHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	buyerID, ok := BuyerIDFromContext(r.Context())
	if !ok {
		h.respondWithJSON(w, http.StatusUnauthorized, types.ErrorResponse{Error: "missing buyer identity", Code: types.CodeUnauthorized})
		return
	}

	leadID, err := strconv.ParseInt(chi.URLParam(r, "leadID"), 10, 64)
	if err != nil || leadID <= 0 {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	key := purchaseKey{IdempotencyKey: r.Header.Get(IdempotencyKeyHeader)}
	if !h.validateStruct(w, &key) {
		return
	}

	var req PurchaseRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	res, err := h.allocations.Purchase(r.Context(), service.PurchaseRequest{
		BuyerID:          buyerID,
		LeadID:           leadID,
		CompetitionLevel: req.CompetitionLevel,
		Exclusive:        req.Exclusive,
		IdempotencyKey:   key.IdempotencyKey,
	})
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	status := http.StatusCreated
	if res.Replayed {
		status = http.StatusOK
	}
	h.respondWithJSON(w, status, res)
}
