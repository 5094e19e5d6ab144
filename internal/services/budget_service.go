package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fintrack/internal/models"

	"github.com/google/uuid"
)

type BudgetStore interface {
	GetForMonth(ctx context.Context, userID string, month, year int) (models.Budget, error)
	Upsert(ctx context.Context, id, userID string, amount int64, month, year int) (models.Budget, error)
	SpentBetween(ctx context.Context, userID string, from, to time.Time) (int64, error)
}

type BudgetService struct {
	store    BudgetStore
	calendar Calendar
	timeout  time.Duration
}

type BudgetSummary struct {
	TotalBudget int64 `json:"totalBudget"`
	TotalSpent  int64 `json:"totalSpent"`
}

func NewBudgetService(store BudgetStore, calendar Calendar, timeout time.Duration) *BudgetService {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &BudgetService{store: store, calendar: calendar, timeout: timeout}
}

// GetCurrentBudget returns nil when no budget is set for the current month.
func (s *BudgetService) GetCurrentBudget(ctx context.Context, userID string) (*models.Budget, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	p := s.calendar.Current()
	budget, err := s.store.GetForMonth(ctx, userID, int(p.Month), p.Year)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, classify(err)
	}
	return &budget, nil
}

func (s *BudgetService) UpsertBudget(ctx context.Context, userID string, amount int64) (models.Budget, error) {
	if amount <= 0 {
		return models.Budget{}, ErrInvalidAmount
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	p := s.calendar.Current()
	budget, err := s.store.Upsert(ctx, uuid.NewString(), userID, amount, int(p.Month), p.Year)
	if err != nil {
		return models.Budget{}, classify(err)
	}
	return budget, nil
}

func (s *BudgetService) GetMonthlySpent(ctx context.Context, userID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	from, to := s.calendar.Current().Range(s.calendar.loc())
	spent, err := s.store.SpentBetween(ctx, userID, from, to)
	if err != nil {
		return 0, classify(err)
	}
	return spent, nil
}

// Summary is the current month's limit, zero when unset, and spending.
func (s *BudgetService) Summary(ctx context.Context, userID string) (BudgetSummary, error) {
	budget, err := s.GetCurrentBudget(ctx, userID)
	if err != nil {
		return BudgetSummary{}, err
	}
	spent, err := s.GetMonthlySpent(ctx, userID)
	if err != nil {
		return BudgetSummary{}, err
	}
	summary := BudgetSummary{TotalSpent: spent}
	if budget != nil {
		summary.TotalBudget = budget.Amount
	}
	return summary, nil
}
