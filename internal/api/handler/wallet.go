// internal/api/handler/wallet.go
package handler

import (
	"net/http"
	"time"

	"leadcredit/internal/api/types"
	"leadcredit/internal/domain"
	"leadcredit/internal/service"
	"leadcredit/internal/util"

	"go.uber.org/zap"
)

// WalletHandler handles HTTP requests a buyer makes about their own wallet.
type WalletHandler struct {
	responder
	service service.WalletService
	reports service.ReportService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(svc service.WalletService, reports service.ReportService, logger *zap.Logger) *WalletHandler {
	return &WalletHandler{
		responder: responder{logger: logger},
		service:   svc,
		reports:   reports,
	}
}

func (h *WalletHandler) buyer(w http.ResponseWriter, r *http.Request) (string, bool) {
	buyerID, ok := BuyerIDFromContext(r.Context())
	if !ok {
		h.respondWithJSON(w, http.StatusUnauthorized, types.ErrorResponse{Error: "missing buyer identity", Code: types.CodeUnauthorized})
	}
	return buyerID, ok
}

// GetWalletBalance handles the get wallet balance request.
// GET /wallet/balance
func (h *WalletHandler) GetWalletBalance(w http.ResponseWriter, r *http.Request) {
	buyerID, ok := h.buyer(w, r)
	if !ok {
		return
	}

	wallet, err := h.service.GetBalance(r.Context(), buyerID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"wallet_id": wallet.ID,
		"owner_id":  wallet.OwnerID,
		"balance":   wallet.Balance,
	})
}

// GetTransactionHistory handles the get transaction history request.
// GET /wallet/transactions?since=2026-01-02T15:04:05Z&limit=10&offset=0
func (h *WalletHandler) GetTransactionHistory(w http.ResponseWriter, r *http.Request) {
	buyerID, ok := h.buyer(w, r)
	if !ok {
		return
	}

	limit, err := queryInt(r, "limit", 10)
	if err != nil || limit == 0 {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	var since time.Time
	if raw := r.URL.Query().Get("since"); raw != "" {
		if since, err = time.Parse(time.RFC3339, raw); err != nil {
			h.respondWithError(w, util.ErrInvalidInput)
			return
		}
	}

	transactions, total, err := h.service.GetTransactionHistory(r.Context(), buyerID, since, limit, offset)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, types.PaginatedResponse[domain.Transaction]{
		Data:       transactions,
		Limit:      limit,
		Offset:     offset,
		TotalCount: total,
	})
}

// GetDashboard summarizes the buyer's activity over the last days.
// GET /wallet/dashboard?days=30
func (h *WalletHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	buyerID, ok := h.buyer(w, r)
	if !ok {
		return
	}

	days, err := queryInt(r, "days", 30)
	if err != nil || days == 0 || days > 366 {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}
	since := time.Now().UTC().AddDate(0, 0, -days)

	dashboard, err := h.reports.Dashboard(r.Context(), buyerID, since)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, dashboard)
}
