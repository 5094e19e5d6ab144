package services

import (
	"context"
	"sync"
	"time"

	"fintrack/internal/catalog"
	"fintrack/internal/models"
	"fintrack/internal/store"

	"github.com/jmoiron/sqlx"
)

type fakeTxRunner struct {
	err error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.err != nil {
		return f.err
	}
	return fn(nil)
}

type stubAccountStore struct {
	lockFn   func(ctx context.Context, userID string, ids []string) ([]models.Account, error)
	adjustFn func(ctx context.Context, userID, accountID string, delta int64) (int64, error)
	debitFn  func(ctx context.Context, userID, accountID string, amount int64) (int64, error)
}

func (s stubAccountStore) LockForUser(ctx context.Context, _ store.Selecter, userID string, ids []string) ([]models.Account, error) {
	if s.lockFn == nil {
		return nil, nil
	}
	return s.lockFn(ctx, userID, ids)
}

func (s stubAccountStore) AdjustBalance(ctx context.Context, _ store.Getter, userID, accountID string, delta int64) (int64, error) {
	if s.adjustFn == nil {
		return 0, nil
	}
	return s.adjustFn(ctx, userID, accountID, delta)
}

func (s stubAccountStore) Debit(ctx context.Context, _ store.Getter, userID, accountID string, amount int64) (int64, error) {
	if s.debitFn == nil {
		return 0, nil
	}
	return s.debitFn(ctx, userID, accountID, amount)
}

type stubTransactionStore struct {
	insertFn    func(ctx context.Context, input store.TransactionInput) (models.Transaction, error)
	lockFn      func(ctx context.Context, userID, id string) (models.Transaction, error)
	lockGroupFn func(ctx context.Context, userID, groupID string) ([]models.Transaction, error)
	deleteFn    func(ctx context.Context, userID string, ids []string) (int64, error)
}

func (s stubTransactionStore) Insert(ctx context.Context, _ store.Getter, input store.TransactionInput) (models.Transaction, error) {
	if s.insertFn == nil {
		return models.Transaction{ID: input.ID, AccountID: input.AccountID, Type: input.Type, Category: input.Category, Amount: input.Amount}, nil
	}
	return s.insertFn(ctx, input)
}

func (s stubTransactionStore) LockForUser(ctx context.Context, _ store.Getter, userID, id string) (models.Transaction, error) {
	return s.lockFn(ctx, userID, id)
}

func (s stubTransactionStore) LockGroup(ctx context.Context, _ store.Selecter, userID, groupID string) ([]models.Transaction, error) {
	return s.lockGroupFn(ctx, userID, groupID)
}

func (s stubTransactionStore) DeleteByIDs(ctx context.Context, _ store.Execer, userID string, ids []string) (int64, error) {
	if s.deleteFn == nil {
		return int64(len(ids)), nil
	}
	return s.deleteFn(ctx, userID, ids)
}

type recordingHub struct {
	mu      sync.Mutex
	updates []models.BalanceUpdate
}

func (h *recordingHub) BroadcastBalance(_ string, update models.BalanceUpdate) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.updates = append(h.updates, update)
}

func (h *recordingHub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.updates)
}

func fixedCalendar(t time.Time) Calendar {
	return Calendar{Location: time.UTC, Now: func() time.Time { return t }}
}

func testCatalog() *catalog.Catalog {
	return catalog.Default()
}
