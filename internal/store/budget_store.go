package store

import (
	"context"
	"time"

	"fintrack/internal/models"
)

type BudgetStore struct {
	db DB
}

const budgetColumns = `id, user_id, amount, month, year, created_at`

func NewBudgetStore(db DB) *BudgetStore {
	return &BudgetStore{db: db}
}

func (s *BudgetStore) GetForMonth(ctx context.Context, userID string, month, year int) (models.Budget, error) {
	var row models.Budget
	err := s.db.GetContext(ctx, &row, `
		SELECT `+budgetColumns+`
		FROM budgets
		WHERE user_id = $1 AND month = $2 AND year = $3
	`, userID, month, year)
	return row, err
}

// Upsert keeps one budget per user and month; the id is used only on insert.
func (s *BudgetStore) Upsert(ctx context.Context, id, userID string, amount int64, month, year int) (models.Budget, error) {
	var row models.Budget
	err := s.db.GetContext(ctx, &row, `
		INSERT INTO budgets (id, user_id, amount, month, year)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, month, year)
		DO UPDATE SET amount = EXCLUDED.amount
		RETURNING `+budgetColumns, id, userID, amount, month, year)
	return row, err
}

// SpentBetween sums expense amounts in [from, to).
func (s *BudgetStore) SpentBetween(ctx context.Context, userID string, from, to time.Time) (int64, error) {
	var spent int64
	err := s.db.GetContext(ctx, &spent, `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE user_id = $1 AND type = 'expense'
		  AND created_at >= $2 AND created_at < $3
	`, userID, from, to)
	return spent, err
}
