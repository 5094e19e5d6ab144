package handlers

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"fintrack/internal/auth"
	"fintrack/internal/config"
	"fintrack/internal/models"
	"fintrack/internal/services"
	"fintrack/internal/store"
)

const testSecret = "secret"

type stubUserStore struct {
	createFn     func(ctx context.Context, id, username, email, passwordHash string) (models.User, error)
	getByEmailFn func(ctx context.Context, email string) (models.User, error)
	getByIDFn    func(ctx context.Context, userID string) (models.User, error)
}

func (s stubUserStore) Create(ctx context.Context, id, username, email, passwordHash string) (models.User, error) {
	if s.createFn == nil {
		return models.User{ID: id, Username: username, Email: email}, nil
	}
	return s.createFn(ctx, id, username, email, passwordHash)
}

func (s stubUserStore) GetByEmail(ctx context.Context, email string) (models.User, error) {
	if s.getByEmailFn == nil {
		return models.User{}, nil
	}
	return s.getByEmailFn(ctx, email)
}

func (s stubUserStore) GetByID(ctx context.Context, userID string) (models.User, error) {
	if s.getByIDFn == nil {
		return models.User{ID: userID}, nil
	}
	return s.getByIDFn(ctx, userID)
}

type stubAccountStore struct {
	createFn func(ctx context.Context, id, userID, name string) (models.Account, error)
	deleteFn func(ctx context.Context, userID, accountID string) (bool, error)
}

func (s stubAccountStore) Create(ctx context.Context, id, userID, name string) (models.Account, error) {
	if s.createFn == nil {
		return models.Account{ID: id, UserID: userID, Name: name}, nil
	}
	return s.createFn(ctx, id, userID, name)
}

func (s stubAccountStore) DeleteForUser(ctx context.Context, userID, accountID string) (bool, error) {
	if s.deleteFn == nil {
		return true, nil
	}
	return s.deleteFn(ctx, userID, accountID)
}

type stubLedger struct {
	createFn   func(ctx context.Context, req services.CreateTransactionRequest) (models.Transaction, error)
	deleteFn   func(ctx context.Context, userID, id string) (*models.Transaction, error)
	transferFn func(ctx context.Context, req services.TransferRequest) (services.TransferResult, error)
}

func (s stubLedger) CreateTransaction(ctx context.Context, req services.CreateTransactionRequest) (models.Transaction, error) {
	if s.createFn == nil {
		return models.Transaction{}, nil
	}
	return s.createFn(ctx, req)
}

func (s stubLedger) DeleteTransaction(ctx context.Context, userID, id string) (*models.Transaction, error) {
	if s.deleteFn == nil {
		return nil, nil
	}
	return s.deleteFn(ctx, userID, id)
}

func (s stubLedger) CreateTransfer(ctx context.Context, req services.TransferRequest) (services.TransferResult, error) {
	if s.transferFn == nil {
		return services.TransferResult{}, nil
	}
	return s.transferFn(ctx, req)
}

type stubReports struct {
	historyFn    func(ctx context.Context, userID string) ([]models.Transaction, error)
	getFn        func(ctx context.Context, userID, id string) (*models.Transaction, error)
	accountsFn   func(ctx context.Context, userID string) ([]models.Account, error)
	categoriesFn func() services.CategoriesView
	selfCheckFn  func(ctx context.Context, userID string) ([]store.AccountBalanceSummary, error)
	dashboardFn  func(ctx context.Context, userID string) (services.Dashboard, error)
	chartsFn     func(ctx context.Context, userID string, selected *services.Period) (services.ChartData, error)
}

func (s stubReports) History(ctx context.Context, userID string) ([]models.Transaction, error) {
	if s.historyFn == nil {
		return []models.Transaction{}, nil
	}
	return s.historyFn(ctx, userID)
}

func (s stubReports) GetTransaction(ctx context.Context, userID, id string) (*models.Transaction, error) {
	if s.getFn == nil {
		return nil, nil
	}
	return s.getFn(ctx, userID, id)
}

func (s stubReports) Accounts(ctx context.Context, userID string) ([]models.Account, error) {
	if s.accountsFn == nil {
		return []models.Account{}, nil
	}
	return s.accountsFn(ctx, userID)
}

func (s stubReports) Categories() services.CategoriesView {
	if s.categoriesFn == nil {
		return services.CategoriesView{}
	}
	return s.categoriesFn()
}

func (s stubReports) SelfCheck(ctx context.Context, userID string) ([]store.AccountBalanceSummary, error) {
	if s.selfCheckFn == nil {
		return []store.AccountBalanceSummary{}, nil
	}
	return s.selfCheckFn(ctx, userID)
}

func (s stubReports) Dashboard(ctx context.Context, userID string) (services.Dashboard, error) {
	if s.dashboardFn == nil {
		return services.Dashboard{}, nil
	}
	return s.dashboardFn(ctx, userID)
}

func (s stubReports) Charts(ctx context.Context, userID string, selected *services.Period) (services.ChartData, error) {
	if s.chartsFn == nil {
		return services.ChartData{}, nil
	}
	return s.chartsFn(ctx, userID, selected)
}

type stubBudgets struct {
	summaryFn func(ctx context.Context, userID string) (services.BudgetSummary, error)
	upsertFn  func(ctx context.Context, userID string, amount int64) (models.Budget, error)
}

func (s stubBudgets) Summary(ctx context.Context, userID string) (services.BudgetSummary, error) {
	if s.summaryFn == nil {
		return services.BudgetSummary{}, nil
	}
	return s.summaryFn(ctx, userID)
}

func (s stubBudgets) UpsertBudget(ctx context.Context, userID string, amount int64) (models.Budget, error) {
	if s.upsertFn == nil {
		return models.Budget{UserID: userID, Amount: amount}, nil
	}
	return s.upsertFn(ctx, userID, amount)
}

type stubPinger struct {
	err error
}

func (s stubPinger) PingContext(context.Context) error {
	return s.err
}

// newTestHandler fills every dependency left empty with a permissive stub.
func newTestHandler(deps Deps) *Handler {
	deps.Config = config.Config{
		AppEnv:         "test",
		Port:           "0",
		JWTSecret:      testSecret,
		TokenTTL:       time.Minute,
		AllowedOrigins: "*",
		DBTimeout:      time.Second,
	}
	if deps.Users == nil {
		deps.Users = stubUserStore{}
	}
	if deps.Accounts == nil {
		deps.Accounts = stubAccountStore{}
	}
	if deps.Ledger == nil {
		deps.Ledger = stubLedger{}
	}
	if deps.Reports == nil {
		deps.Reports = stubReports{}
	}
	if deps.Budgets == nil {
		deps.Budgets = stubBudgets{}
	}
	return New(deps)
}

// serve routes the request through the full router, authenticated as userID
// unless userID is empty.
func serve(t *testing.T, h *Handler, method, path, body, userID string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		token, err := auth.GenerateToken(testSecret, userID, time.Minute)
		if err != nil {
			t.Fatalf("failed to generate token: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.Routes().ServeHTTP(rr, req)
	return rr
}

func stringPtr(value string) *string {
	return &value
}
