package handlers

import (
	"net/http"

	"zorgmatch/internal/app"
	"zorgmatch/internal/common"
	"zorgmatch/internal/http/middleware"
	"zorgmatch/internal/http/response"
)

type BillingHandler struct {
	billing *app.BillingService
	ledger  *app.LedgerService
}

func NewBillingHandler(billing *app.BillingService, ledger *app.LedgerService) *BillingHandler {
	return &BillingHandler{billing: billing, ledger: ledger}
}

type paymentIntentRequest struct {
	Credits int     `json:"credits"`
	Price   float64 `json:"price"`
}

type confirmPaymentRequest struct {
	PaymentIntentID string `json:"payment_intent_id"`
}

func (h *BillingHandler) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	var req paymentIntentRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	result, err := h.billing.CreatePaymentIntent(r.Context(), userID, req.Credits, req.Price)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

func (h *BillingHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	var req confirmPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if req.PaymentIntentID == "" {
		response.Error(w, common.NewError(common.CodeValidation, "payment_intent_id is required", nil))
		return
	}
	account, err := h.billing.ConfirmPayment(r.Context(), userID, req.PaymentIntentID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]any{"success": true, "credits": account.Credits})
}

func (h *BillingHandler) PurchaseVacancyCredit(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	result, err := h.billing.PurchaseVacancyCredit(r.Context(), userID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

func (h *BillingHandler) ConfirmVacancyPayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	var req confirmPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if req.PaymentIntentID == "" {
		response.Error(w, common.NewError(common.CodeValidation, "payment_intent_id is required", nil))
		return
	}
	account, err := h.billing.ConfirmVacancyPayment(r.Context(), userID, req.PaymentIntentID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]any{"success": true, "credits": account.Credits})
}

func (h *BillingHandler) CreateSubscription(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	result, err := h.billing.CreateSubscription(r.Context(), userID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

func (h *BillingHandler) CancelSubscription(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	result, err := h.billing.CancelSubscription(r.Context(), userID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

func (h *BillingHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	items, err := h.ledger.Transactions(r.Context(), userID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}
