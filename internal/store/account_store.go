package store

import (
	"context"
	"time"

	"fintrack/internal/models"

	"github.com/lib/pq"
)

type AccountStore struct {
	db DB
}

// AccountBalanceSummary compares the materialized balance with the signed
// sum of the account's transactions.
type AccountBalanceSummary struct {
	ID                string    `db:"id" json:"id"`
	Name              string    `db:"name" json:"name"`
	StoredBalance     int64     `db:"stored_balance" json:"storedBalance"`
	CalculatedBalance int64     `db:"calculated_balance" json:"calculatedBalance"`
	Difference        int64     `db:"difference" json:"difference"`
	CreatedAt         time.Time `db:"created_at" json:"createdAt"`
}

const accountColumns = `id, user_id, name, balance, created_at`

func NewAccountStore(db DB) *AccountStore {
	return &AccountStore{db: db}
}

func (s *AccountStore) Create(ctx context.Context, id, userID, name string) (models.Account, error) {
	var row models.Account
	err := s.db.GetContext(ctx, &row, `
		INSERT INTO accounts (id, user_id, name, balance)
		VALUES ($1, $2, $3, 0)
		RETURNING `+accountColumns, id, userID, name)
	return row, err
}

func (s *AccountStore) ListByUser(ctx context.Context, userID string) ([]models.Account, error) {
	rows := []models.Account{}
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE user_id = $1
		ORDER BY created_at ASC, id ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *AccountStore) DeleteForUser(ctx context.Context, userID, accountID string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1 AND user_id = $2`, accountID, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// LockForUser row-locks the user's accounts among ids in id order. Accounts
// owned by someone else are simply not returned.
func (s *AccountStore) LockForUser(ctx context.Context, tx Selecter, userID string, ids []string) ([]models.Account, error) {
	rows := []models.Account{}
	err := tx.SelectContext(ctx, &rows, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE id = ANY($1) AND user_id = $2
		ORDER BY id
		FOR UPDATE
	`, pq.Array(ids), userID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// AdjustBalance applies delta and returns the new balance. sql.ErrNoRows
// means the account does not exist for this user.
func (s *AccountStore) AdjustBalance(ctx context.Context, tx Getter, userID, accountID string, delta int64) (int64, error) {
	var balance int64
	err := tx.GetContext(ctx, &balance, `
		UPDATE accounts
		SET balance = balance + $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3
		RETURNING balance
	`, delta, accountID, userID)
	return balance, err
}

// Debit subtracts amount only while the balance covers it. sql.ErrNoRows
// means the guard rejected the update or the account is not the user's.
func (s *AccountStore) Debit(ctx context.Context, tx Getter, userID, accountID string, amount int64) (int64, error) {
	var balance int64
	err := tx.GetContext(ctx, &balance, `
		UPDATE accounts
		SET balance = balance - $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3 AND balance >= $1
		RETURNING balance
	`, amount, accountID, userID)
	return balance, err
}

func (s *AccountStore) SelfCheck(ctx context.Context, userID string) ([]AccountBalanceSummary, error) {
	rows := []AccountBalanceSummary{}
	err := s.db.SelectContext(ctx, &rows, `
		SELECT a.id,
		       a.name,
		       a.balance AS stored_balance,
		       COALESCE(SUM(CASE
		           WHEN t.type = 'income' THEN t.amount
		           WHEN t.type = 'expense' THEN -t.amount
		           WHEN t.category = 'transfer_out' THEN -t.amount
		           WHEN t.category = 'transfer_in' THEN t.amount
		           ELSE 0 END), 0) AS calculated_balance,
		       a.balance - COALESCE(SUM(CASE
		           WHEN t.type = 'income' THEN t.amount
		           WHEN t.type = 'expense' THEN -t.amount
		           WHEN t.category = 'transfer_out' THEN -t.amount
		           WHEN t.category = 'transfer_in' THEN t.amount
		           ELSE 0 END), 0) AS difference,
		       a.created_at
		FROM accounts a
		LEFT JOIN transactions t ON t.account_id = a.id
		WHERE a.user_id = $1
		GROUP BY a.id, a.name, a.balance, a.created_at
		ORDER BY a.created_at ASC, a.id ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
