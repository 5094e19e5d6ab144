package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"fintrack/internal/auth"
	"fintrack/internal/db"
	"fintrack/internal/middleware"
	"fintrack/internal/validator"

	"github.com/google/uuid"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Email = validator.NormalizeEmail(req.Email)
	if err := validator.ValidateUsername(req.Username); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validator.ValidateEmail(req.Email); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validator.ValidatePassword(req.Password); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondServiceError(w, r, err, "hash_password")
		return
	}

	ctx, cancel := h.dbContext(r)
	defer cancel()
	user, err := h.users.Create(ctx, uuid.NewString(), req.Username, req.Email, passwordHash)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			respondError(w, http.StatusConflict, "Username or email already exists")
			return
		}
		respondServiceError(w, r, err, "register")
		return
	}
	if _, ok := h.issueSession(w, r, user.ID); !ok {
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"user": user})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	ctx, cancel := h.dbContext(r)
	defer cancel()
	user, err := h.users.GetByEmail(ctx, validator.NormalizeEmail(req.Email))
	if errors.Is(err, sql.ErrNoRows) {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		respondServiceError(w, r, err, "login")
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	token, ok := h.issueSession(w, r, user.ID)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"user": user, "token": token})
}

func (h *Handler) Logout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	respondMessage(w, http.StatusOK, "Logged out")
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	ctx, cancel := h.dbContext(r)
	defer cancel()
	user, err := h.users.GetByID(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		respondServiceError(w, r, err, "me")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

func (h *Handler) issueSession(w http.ResponseWriter, r *http.Request, userID string) (string, bool) {
	token, err := auth.GenerateToken(h.cfg.JWTSecret, userID, h.cfg.TokenTTL)
	if err != nil {
		respondServiceError(w, r, err, "generate_token")
		return "", false
	}
	http.SetCookie(w, sessionCookie(token, h.cfg.TokenTTL, h.cfg.CookieSecure))
	return token, true
}

func sessionCookie(token string, ttl time.Duration, secure bool) *http.Cookie {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}
