package store

import (
	"context"
	"time"

	"fintrack/internal/models"

	"github.com/lib/pq"
)

type TransactionStore struct {
	db DB
}

type TransactionInput struct {
	ID              string
	UserID          string
	AccountID       string
	Type            string
	Category        string
	Amount          int64
	Description     *string
	TransferGroupID *string
	ClientRequestID *string
}

type TypeTotal struct {
	Type  string `db:"type"`
	Total int64  `db:"total"`
}

type CategoryTotal struct {
	Category string `db:"category"`
	Total    int64  `db:"total"`
}

type DatedAmount struct {
	Type      string    `db:"type"`
	Amount    int64     `db:"amount"`
	CreatedAt time.Time `db:"created_at"`
}

const transactionColumns = `id, user_id, account_id, type, category, amount, description, transfer_group_id, client_request_id, created_at`

const joinedTransactionColumns = `t.id, t.user_id, t.account_id, t.type, t.category, t.amount, t.description,
		       t.transfer_group_id, t.created_at, a.name AS account_name`

func NewTransactionStore(db DB) *TransactionStore {
	return &TransactionStore{db: db}
}

func (s *TransactionStore) Insert(ctx context.Context, tx Getter, input TransactionInput) (models.Transaction, error) {
	var row models.Transaction
	err := tx.GetContext(ctx, &row, `
		INSERT INTO transactions (id, user_id, account_id, type, category, amount, description, transfer_group_id, client_request_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+transactionColumns,
		input.ID, input.UserID, input.AccountID, input.Type, input.Category, input.Amount,
		input.Description, input.TransferGroupID, input.ClientRequestID,
	)
	return row, err
}

// LockForUser row-locks a single transaction owned by userID.
func (s *TransactionStore) LockForUser(ctx context.Context, tx Getter, userID, id string) (models.Transaction, error) {
	var row models.Transaction
	err := tx.GetContext(ctx, &row, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE id = $1 AND user_id = $2
		FOR UPDATE
	`, id, userID)
	return row, err
}

func (s *TransactionStore) LockGroup(ctx context.Context, tx Selecter, userID, groupID string) ([]models.Transaction, error) {
	rows := []models.Transaction{}
	err := tx.SelectContext(ctx, &rows, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE transfer_group_id = $1 AND user_id = $2
		ORDER BY id
		FOR UPDATE
	`, groupID, userID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *TransactionStore) DeleteByIDs(ctx context.Context, tx Execer, userID string, ids []string) (int64, error) {
	res, err := tx.ExecContext(ctx, `DELETE FROM transactions WHERE id = ANY($1) AND user_id = $2`, pq.Array(ids), userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *TransactionStore) GetForUser(ctx context.Context, userID, id string) (models.Transaction, error) {
	var row models.Transaction
	err := s.db.GetContext(ctx, &row, `
		SELECT `+joinedTransactionColumns+`
		FROM transactions t
		JOIN accounts a ON a.id = t.account_id
		WHERE t.id = $1 AND t.user_id = $2
	`, id, userID)
	return row, err
}

// ListByUser returns the newest transactions first; limit <= 0 returns all.
func (s *TransactionStore) ListByUser(ctx context.Context, userID string, limit int) ([]models.Transaction, error) {
	rows := []models.Transaction{}
	query := `
		SELECT ` + joinedTransactionColumns + `
		FROM transactions t
		JOIN accounts a ON a.id = t.account_id
		WHERE t.user_id = $1
		ORDER BY t.created_at DESC, t.id DESC
	`
	args := []any{userID}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	return rows, nil
}

// TypeTotalsBetween sums income and expense amounts in [from, to).
func (s *TransactionStore) TypeTotalsBetween(ctx context.Context, userID string, from, to time.Time) ([]TypeTotal, error) {
	rows := []TypeTotal{}
	err := s.db.SelectContext(ctx, &rows, `
		SELECT type, COALESCE(SUM(amount), 0) AS total
		FROM transactions
		WHERE user_id = $1 AND type IN ('income', 'expense')
		  AND created_at >= $2 AND created_at < $3
		GROUP BY type
	`, userID, from, to)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *TransactionStore) ExpenseByCategory(ctx context.Context, userID string, from, to time.Time) ([]CategoryTotal, error) {
	rows := []CategoryTotal{}
	err := s.db.SelectContext(ctx, &rows, `
		SELECT category, SUM(amount) AS total
		FROM transactions
		WHERE user_id = $1 AND type = 'expense'
		  AND created_at >= $2 AND created_at < $3
		GROUP BY category
		ORDER BY total DESC, category ASC
	`, userID, from, to)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// AmountsBetween lists income and expense amounts in [from, to), oldest first.
func (s *TransactionStore) AmountsBetween(ctx context.Context, userID string, from, to time.Time) ([]DatedAmount, error) {
	rows := []DatedAmount{}
	err := s.db.SelectContext(ctx, &rows, `
		SELECT type, amount, created_at
		FROM transactions
		WHERE user_id = $1 AND type <> 'transfer'
		  AND created_at >= $2 AND created_at < $3
		ORDER BY created_at ASC
	`, userID, from, to)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
