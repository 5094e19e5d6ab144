package handlers

import (
	"net/http"

	"fintrack/internal/middleware"
	"fintrack/internal/validator"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type createAccountRequest struct {
	Name string `json:"name"`
}

func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var req createAccountRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	name, err := validator.AccountName(req.Name)
	if err != nil {
		respondError(w, http.StatusBadRequest, capitalize(err.Error()))
		return
	}
	ctx, cancel := h.dbContext(r)
	defer cancel()
	account, err := h.accounts.Create(ctx, uuid.NewString(), userID, name)
	if err != nil {
		respondServiceError(w, r, err, "create_account")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"message": "Account created successfully",
		"account": account,
	})
}

func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	accounts, err := h.reports.Accounts(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err, "list_accounts")
		return
	}
	respondJSON(w, http.StatusOK, accounts)
}

func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	ctx, cancel := h.dbContext(r)
	defer cancel()
	deleted, err := h.accounts.DeleteForUser(ctx, userID, chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err, "delete_account")
		return
	}
	if !deleted {
		respondError(w, http.StatusNotFound, "Account not found")
		return
	}
	respondMessage(w, http.StatusOK, "Account deleted")
}

// SelfCheck compares each stored balance with the sum of its transactions.
func (h *Handler) SelfCheck(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	rows, err := h.reports.SelfCheck(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err, "self_check")
		return
	}
	respondJSON(w, http.StatusOK, rows)
}
