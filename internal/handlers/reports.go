package handlers

import (
	"net/http"

	"fintrack/internal/middleware"
)

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	dashboard, err := h.reports.Dashboard(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err, "dashboard")
		return
	}
	respondJSON(w, http.StatusOK, dashboard)
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	txns, err := h.reports.History(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err, "history")
		return
	}
	respondJSON(w, http.StatusOK, txns)
}

func (h *Handler) HistoryAccounts(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	accounts, err := h.reports.Accounts(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err, "history_accounts")
		return
	}
	respondJSON(w, http.StatusOK, accounts)
}

func (h *Handler) HistoryCategories(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.reports.Categories())
}

// Charts defaults to the previous calendar month when month and year are
// both absent.
func (h *Handler) Charts(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	selected, err := parsePeriod(r.URL.Query())
	if err != nil {
		respondError(w, http.StatusBadRequest, capitalize(err.Error()))
		return
	}
	charts, err := h.reports.Charts(r.Context(), userID, selected)
	if err != nil {
		respondServiceError(w, r, err, "charts")
		return
	}
	respondJSON(w, http.StatusOK, charts)
}
