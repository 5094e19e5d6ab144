package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"fintrack/internal/log"
	"fintrack/internal/middleware"
	"fintrack/internal/services"
	"fintrack/internal/validator"

	"github.com/go-chi/chi/v5"
)

type createTransactionRequest struct {
	AccountID       string          `json:"accountId"`
	Type            string          `json:"type"`
	Category        string          `json:"category"`
	Amount          json.RawMessage `json:"amount"`
	Description     *string         `json:"description"`
	ClientRequestID *string         `json:"clientRequestId"`
}

func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var req createTransactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.AccountID) == "" || req.Type == "" || req.Category == "" || len(req.Amount) == 0 {
		respondError(w, http.StatusBadRequest, "accountId, type, category and amount are required")
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Amount must be a positive whole number")
		return
	}
	description, err := validator.Description(req.Description)
	if err != nil {
		respondError(w, http.StatusBadRequest, capitalize(err.Error()))
		return
	}

	txn, err := h.ledger.CreateTransaction(r.Context(), services.CreateTransactionRequest{
		UserID:          userID,
		AccountID:       strings.TrimSpace(req.AccountID),
		Type:            req.Type,
		Category:        req.Category,
		Amount:          amount,
		Description:     description,
		ClientRequestID: clientRequestID(req.ClientRequestID),
	})
	if err != nil {
		respondServiceError(w, r, err, log.OpCreateTransaction)
		return
	}
	respondJSON(w, http.StatusCreated, txn)
}

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	txns, err := h.reports.History(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err, "list_transactions")
		return
	}
	respondJSON(w, http.StatusOK, txns)
}

func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	txn, err := h.reports.GetTransaction(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err, "get_transaction")
		return
	}
	if txn == nil {
		respondError(w, http.StatusNotFound, "Transaction not found")
		return
	}
	respondJSON(w, http.StatusOK, txn)
}

func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	deleted, err := h.ledger.DeleteTransaction(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err, log.OpDeleteTransaction)
		return
	}
	if deleted == nil {
		respondError(w, http.StatusNotFound, "Transaction not found")
		return
	}
	respondMessage(w, http.StatusOK, "Transaction deleted and balance updated")
}

type transferRequest struct {
	FromAccountID   string          `json:"fromAccountId"`
	ToAccountID     string          `json:"toAccountId"`
	Amount          json.RawMessage `json:"amount"`
	Description     *string         `json:"description"`
	ClientRequestID *string         `json:"clientRequestId"`
}

func (h *Handler) Transfer(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var req transferRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	from, to := strings.TrimSpace(req.FromAccountID), strings.TrimSpace(req.ToAccountID)
	if from == "" || to == "" || len(req.Amount) == 0 {
		respondError(w, http.StatusBadRequest, "fromAccountId, toAccountId and amount are required")
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Amount must be a positive whole number")
		return
	}
	description, err := validator.Description(req.Description)
	if err != nil {
		respondError(w, http.StatusBadRequest, capitalize(err.Error()))
		return
	}

	result, err := h.ledger.CreateTransfer(r.Context(), services.TransferRequest{
		UserID:          userID,
		FromAccountID:   from,
		ToAccountID:     to,
		Amount:          amount,
		Description:     description,
		ClientRequestID: clientRequestID(req.ClientRequestID),
	})
	if err != nil {
		respondServiceError(w, r, err, log.OpCreateTransfer)
		return
	}
	respondJSON(w, http.StatusCreated, result)
}

func clientRequestID(raw *string) *string {
	if raw == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
