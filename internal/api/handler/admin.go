// internal/api/handler/admin.go
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

// AdminHandler serves the operator routes behind basic auth.
type AdminHandler struct {
	responder
	wallets service.WalletService
	leads   service.LeadService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(wallets service.WalletService, leads service.LeadService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		responder: responder{logger: logger},
		wallets:   wallets,
		leads:     leads,
	}
}

// CreateBuyerRequest represents the request body for registering a buyer.
type CreateBuyerRequest struct {
	BuyerID     string  `json:"buyer_id" validate:"required,max=64"`
	Email       string  `json:"email" validate:"required,email"`
	CompanyName *string `json:"company_name" validate:"omitempty,max=255"`
}

// CreateBuyer registers a buyer and its empty wallet.
// POST /admin/buyers
func (h *AdminHandler) CreateBuyer(w http.ResponseWriter, r *http.Request) {
	var req CreateBuyerRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	buyer, wallet, err := h.wallets.CreateBuyerAndWallet(r.Context(), req.BuyerID, req.Email, req.CompanyName)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"buyer":  buyer,
		"wallet": wallet,
	})
}

// RechargeRequest represents the request body for a recharge.
type RechargeRequest struct {
	Amount      int64   `json:"amount" validate:"gt=0"`
	Description *string `json:"description" validate:"omitempty,max=255"`
}

// AdjustRequest represents the request body for a manual correction.
type AdjustRequest struct {
	Amount      int64   `json:"amount" validate:"ne=0"`
	Description *string `json:"description" validate:"required,max=255"`
}

// Recharge credits a buyer's wallet.
// POST /admin/wallets/{ownerID}/recharge
func (h *AdminHandler) Recharge(w http.ResponseWriter, r *http.Request) {
	var req RechargeRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	wallet, entry, err := h.wallets.Recharge(r.Context(), chi.URLParam(r, "ownerID"), req.Amount, req.Description)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"wallet_id":      wallet.ID,
		"new_balance":    wallet.Balance,
		"transaction_id": entry.ID,
	})
}

// Adjust applies a signed correction to a buyer's wallet.
// POST /admin/wallets/{ownerID}/adjust
func (h *AdminHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	var req AdjustRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	wallet, entry, err := h.wallets.Adjust(r.Context(), chi.URLParam(r, "ownerID"), req.Amount, req.Description)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"wallet_id":      wallet.ID,
		"new_balance":    wallet.Balance,
		"transaction_id": entry.ID,
	})
}

// VerifyLedger replays a wallet's ledger. A mismatch answers 500 with the report.
// GET /admin/wallets/{ownerID}/verify
func (h *AdminHandler) VerifyLedger(w http.ResponseWriter, r *http.Request) {
	report, err := h.wallets.VerifyLedger(r.Context(), chi.URLParam(r, "ownerID"))
	if err != nil && report != nil && util.IsError(err, util.ErrLedgerMismatch) {
		h.respondWithJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"error":  err.Error(),
			"code":   types.CodeLedgerMismatch,
			"report": report,
		})
		return
	}
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, report)
}

// CreateLeadRequest represents the request body for publishing a lead.
type CreateLeadRequest struct {
	Title                string          `json:"title" validate:"required,max=255"`
	ProjectValue         decimal.Decimal `json:"project_value"`
	MaxSharedAllocations int             `json:"max_shared_allocations" validate:"gte=0"`
}

// CreateLead publishes a lead.
// POST /admin/leads
func (h *AdminHandler) CreateLead(w http.ResponseWriter, r *http.Request) {
	var req CreateLeadRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	lead, err := h.leads.CreateLead(r.Context(), req.Title, req.ProjectValue, req.MaxSharedAllocations)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusCreated, lead)
}

// HideLead takes a lead off the board. Purchases on it fail with not found.
// POST /admin/leads/{leadID}/hide
func (h *AdminHandler) HideLead(w http.ResponseWriter, r *http.Request) {
	h.setHidden(w, r, true)
}

// ShowLead publishes a hidden lead again.
// POST /admin/leads/{leadID}/show
func (h *AdminHandler) ShowLead(w http.ResponseWriter, r *http.Request) {
	h.setHidden(w, r, false)
}

func (h *AdminHandler) setHidden(w http.ResponseWriter, r *http.Request, hidden bool) {
	leadID, err := strconv.ParseInt(chi.URLParam(r, "leadID"), 10, 64)
	if err != nil || leadID <= 0 {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	lead, err := h.leads.SetHidden(r.Context(), leadID, hidden)
	if err != nil {
		h.respondWithError(w, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, lead)
}
