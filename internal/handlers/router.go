package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"fintrack/internal/config"
	"fintrack/internal/db"
	"fintrack/internal/log"
	"fintrack/internal/middleware"
	"fintrack/internal/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	gorillaws "github.com/gorilla/websocket"
)

type Deps struct {
	Config   config.Config
	Logger   *log.Logger
	Users    UserStore
	Accounts AccountStore
	Ledger   Ledger
	Reports  Reports
	Budgets  Budgets
	Hub      *websocket.Hub
	DB       Pinger
}

type Handler struct {
	cfg      config.Config
	logger   *log.Logger
	users    UserStore
	accounts AccountStore
	ledger   Ledger
	reports  Reports
	budgets  Budgets
	hub      *websocket.Hub
	upgrader *gorillaws.Upgrader
	db       Pinger
}

func New(deps Deps) *Handler {
	logger := deps.Logger
	if logger == nil {
		logger = log.Nop()
	}
	hub := deps.Hub
	if hub == nil {
		hub = websocket.NewHub(logger)
	}
	return &Handler{
		cfg:      deps.Config,
		logger:   logger,
		users:    deps.Users,
		accounts: deps.Accounts,
		ledger:   deps.Ledger,
		reports:  deps.Reports,
		budgets:  deps.Budgets,
		hub:      hub,
		upgrader: websocket.Upgrader(deps.Config.AllowedOrigins),
		db:       deps.DB,
	}
}

func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(log.Middleware(h.logger))
	router.Use(chimiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   splitOrigins(h.cfg.AllowedOrigins),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Route("/api", func(api chi.Router) {
		api.Get("/health", h.Health)
		api.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)
			r.Post("/logout", h.Logout)
			r.With(middleware.Auth(h.cfg.JWTSecret)).Get("/me", h.Me)
		})

		api.Group(func(r chi.Router) {
			r.Use(middleware.Auth(h.cfg.JWTSecret))

			r.Route("/accounts", func(r chi.Router) {
				r.Post("/", h.CreateAccount)
				r.Get("/", h.ListAccounts)
				r.Get("/self-check", h.SelfCheck)
				r.Delete("/{id}", h.DeleteAccount)
			})
			r.Route("/transactions", func(r chi.Router) {
				r.Post("/", h.CreateTransaction)
				r.Get("/", h.ListTransactions)
				r.Post("/transfer", h.Transfer)
				r.Get("/{id}", h.GetTransaction)
				r.Delete("/{id}", h.DeleteTransaction)
			})
			r.Get("/dashboard", h.Dashboard)
			r.Route("/history", func(r chi.Router) {
				r.Get("/", h.History)
				r.Get("/accounts", h.HistoryAccounts)
				r.Get("/categories", h.HistoryCategories)
				r.Get("/charts", h.Charts)
			})
			r.Get("/budget", h.GetBudget)
			r.Post("/budget", h.SetBudget)
			r.Get("/ws/balances", h.WSBalances)
		})
	})
	return router
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.Ping(ctx, h.db); err != nil {
			log.FromContext(r.Context()).WarnContext(r.Context(), "health check failed", log.FieldError, err)
			respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) WSBalances(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	websocket.ServeWS(w, r, h.upgrader, h.hub, userID)
}

// dbContext bounds direct store calls made by handlers.
func (h *Handler) dbContext(r *http.Request) (context.Context, context.CancelFunc) {
	timeout := h.cfg.DBTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return context.WithTimeout(r.Context(), timeout)
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
