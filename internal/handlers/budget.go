package handlers

import (
	"encoding/json"
	"net/http"

	"fintrack/internal/middleware"
)

type budgetResponse struct {
	Limit int64 `json:"limit"`
	Spent int64 `json:"spent"`
}

func (h *Handler) GetBudget(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	summary, err := h.budgets.Summary(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err, "get_budget")
		return
	}
	respondJSON(w, http.StatusOK, budgetResponse{Limit: summary.TotalBudget, Spent: summary.TotalSpent})
}

type setBudgetRequest struct {
	Amount json.RawMessage `json:"amount"`
}

func (h *Handler) SetBudget(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var req setBudgetRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid amount")
		return
	}
	budget, err := h.budgets.UpsertBudget(r.Context(), userID, amount)
	if err != nil {
		respondServiceError(w, r, err, "set_budget")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"message": "Budget updated", "budget": budget})
}
