package handlers

import (
	"context"

	"fintrack/internal/db"
	"fintrack/internal/models"
	"fintrack/internal/services"
	"fintrack/internal/store"
)

type UserStore interface {
	Create(ctx context.Context, id, username, email, passwordHash string) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, userID string) (models.User, error)
}

type AccountStore interface {
	Create(ctx context.Context, id, userID, name string) (models.Account, error)
	DeleteForUser(ctx context.Context, userID, accountID string) (bool, error)
}

type Ledger interface {
	CreateTransaction(ctx context.Context, req services.CreateTransactionRequest) (models.Transaction, error)
	DeleteTransaction(ctx context.Context, userID, id string) (*models.Transaction, error)
	CreateTransfer(ctx context.Context, req services.TransferRequest) (services.TransferResult, error)
}

type Reports interface {
	History(ctx context.Context, userID string) ([]models.Transaction, error)
	GetTransaction(ctx context.Context, userID, id string) (*models.Transaction, error)
	Accounts(ctx context.Context, userID string) ([]models.Account, error)
	Categories() services.CategoriesView
	SelfCheck(ctx context.Context, userID string) ([]store.AccountBalanceSummary, error)
	Dashboard(ctx context.Context, userID string) (services.Dashboard, error)
	Charts(ctx context.Context, userID string, selected *services.Period) (services.ChartData, error)
}

type Budgets interface {
	Summary(ctx context.Context, userID string) (services.BudgetSummary, error)
	UpsertBudget(ctx context.Context, userID string, amount int64) (models.Budget, error)
}

// Pinger reports database reachability for the health check.
type Pinger = db.Pinger
