package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"fintrack/internal/db"
	"fintrack/internal/log"
	"fintrack/internal/services"
)

const maxBodyBytes = 1 << 20

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondMessage(w, status, message)
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"message": message})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dest any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return false
	}
	return true
}

// respondServiceError maps the service error taxonomy onto HTTP. Only
// validation messages reach the client verbatim.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error, op string) {
	switch {
	case errors.Is(err, services.ErrValidation):
		respondError(w, http.StatusBadRequest, validationMessage(err))
	case errors.Is(err, services.ErrInsufficientBalance):
		respondError(w, http.StatusBadRequest, "Insufficient balance")
	case errors.Is(err, services.ErrAccountNotFound):
		respondError(w, http.StatusNotFound, "Account not found")
	case errors.Is(err, services.ErrUserNotFound):
		respondError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, services.ErrDuplicateRequest):
		respondError(w, http.StatusConflict, "Request already processed")
	case errors.Is(err, services.ErrTransient), db.IsTransient(err):
		log.FromContext(r.Context()).WarnContext(r.Context(), "transient failure",
			log.FieldOperation, op, log.FieldError, err)
		respondError(w, http.StatusInternalServerError, "Temporary failure, please retry")
	default:
		log.FromContext(r.Context()).ErrorContext(r.Context(), "request failed",
			log.FieldOperation, op, log.FieldError, err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func validationMessage(err error) string {
	return capitalize(strings.TrimPrefix(err.Error(), services.ErrValidation.Error()+": "))
}

func capitalize(msg string) string {
	if msg == "" {
		return msg
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}
