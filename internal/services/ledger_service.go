package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"fintrack/internal/db"
	"fintrack/internal/log"
	"fintrack/internal/models"
	"fintrack/internal/store"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const DefaultTimeout = 5 * time.Second

type LedgerAccountStore interface {
	LockForUser(ctx context.Context, tx store.Selecter, userID string, ids []string) ([]models.Account, error)
	AdjustBalance(ctx context.Context, tx store.Getter, userID, accountID string, delta int64) (int64, error)
	Debit(ctx context.Context, tx store.Getter, userID, accountID string, amount int64) (int64, error)
}

type LedgerTransactionStore interface {
	Insert(ctx context.Context, tx store.Getter, input store.TransactionInput) (models.Transaction, error)
	LockForUser(ctx context.Context, tx store.Getter, userID, id string) (models.Transaction, error)
	LockGroup(ctx context.Context, tx store.Selecter, userID, groupID string) ([]models.Transaction, error)
	DeleteByIDs(ctx context.Context, tx store.Execer, userID string, ids []string) (int64, error)
}

type CategoryValidator interface {
	Valid(key, txType string) bool
}

// LedgerService owns every balance mutation. Each operation is one database
// transaction; balances are broadcast only after it committed.
type LedgerService struct {
	txRunner   db.TxRunner
	accounts   LedgerAccountStore
	txns       LedgerTransactionStore
	categories CategoryValidator
	hub        BalanceHub
	logger     *log.Logger
	timeout    time.Duration
}

type LedgerOption func(*LedgerService)

func WithLedgerLogger(logger *log.Logger) LedgerOption {
	return func(s *LedgerService) {
		if logger != nil {
			s.logger = logger.WithComponent(log.ComponentLedger)
		}
	}
}

func WithLedgerTimeout(d time.Duration) LedgerOption {
	return func(s *LedgerService) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func NewLedgerService(txRunner db.TxRunner, accounts LedgerAccountStore, txns LedgerTransactionStore, categories CategoryValidator, hub BalanceHub, opts ...LedgerOption) *LedgerService {
	if hub == nil {
		hub = noopHub{}
	}
	s := &LedgerService{
		txRunner:   txRunner,
		accounts:   accounts,
		txns:       txns,
		categories: categories,
		hub:        hub,
		logger:     log.Nop().WithComponent(log.ComponentLedger),
		timeout:    DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type CreateTransactionRequest struct {
	UserID          string
	AccountID       string
	Type            string
	Category        string
	Amount          int64
	Description     *string
	ClientRequestID *string
}

func (s *LedgerService) CreateTransaction(ctx context.Context, req CreateTransactionRequest) (models.Transaction, error) {
	if req.AccountID == "" {
		return models.Transaction{}, ErrMissingAccount
	}
	if req.Amount <= 0 {
		return models.Transaction{}, ErrInvalidAmount
	}
	if req.Type != models.TypeIncome && req.Type != models.TypeExpense {
		return models.Transaction{}, ErrInvalidType
	}
	if !s.categories.Valid(req.Category, req.Type) {
		return models.Transaction{}, ErrInvalidCategory
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var created models.Transaction
	var balance int64
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		// The ownership check is the update predicate itself.
		newBalance, err := s.accounts.AdjustBalance(ctx, tx, req.UserID, req.AccountID, models.SignedAmount(req.Type, req.Category, req.Amount))
		if errors.Is(err, sql.ErrNoRows) {
			return ErrAccountNotFound
		}
		if err != nil {
			return fmt.Errorf("adjust balance: %w", err)
		}
		row, err := s.txns.Insert(ctx, tx, store.TransactionInput{
			ID:              uuid.NewString(),
			UserID:          req.UserID,
			AccountID:       req.AccountID,
			Type:            req.Type,
			Category:        req.Category,
			Amount:          req.Amount,
			Description:     req.Description,
			ClientRequestID: req.ClientRequestID,
		})
		if err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}
		created, balance = row, newBalance
		return nil
	})
	if err != nil {
		return models.Transaction{}, s.fail(ctx, log.OpCreateTransaction, req.UserID, err)
	}
	s.broadcast(req.UserID, models.BalanceUpdate{AccountID: req.AccountID, Balance: balance})
	return created, nil
}

// DeleteTransaction reverses and removes the user's transaction. A transfer
// half takes its sibling with it. A nil result with a nil error means there
// was nothing to delete.
func (s *LedgerService) DeleteTransaction(ctx context.Context, userID, id string) (*models.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var deleted *models.Transaction
	var updates []models.BalanceUpdate
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		deleted, updates = nil, nil
		row, err := s.txns.LockForUser(ctx, tx, userID, id)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("lock transaction: %w", err)
		}
		rows := []models.Transaction{row}
		if row.TransferGroupID != nil {
			rows, err = s.txns.LockGroup(ctx, tx, userID, *row.TransferGroupID)
			if err != nil {
				return fmt.Errorf("lock transfer group: %w", err)
			}
		}

		deltas := make(map[string]int64, len(rows))
		ids := make([]string, 0, len(rows))
		for _, r := range rows {
			deltas[r.AccountID] -= r.SignedAmount()
			ids = append(ids, r.ID)
		}
		accountIDs := make([]string, 0, len(deltas))
		for accountID := range deltas {
			accountIDs = append(accountIDs, accountID)
		}
		sort.Strings(accountIDs)
		if len(accountIDs) > 1 {
			if _, err := s.accounts.LockForUser(ctx, tx, userID, accountIDs); err != nil {
				return fmt.Errorf("lock accounts: %w", err)
			}
		}
		for _, accountID := range accountIDs {
			balance, err := s.accounts.AdjustBalance(ctx, tx, userID, accountID, deltas[accountID])
			if errors.Is(err, sql.ErrNoRows) {
				return ErrAccountNotFound
			}
			if err != nil {
				return fmt.Errorf("reverse balance: %w", err)
			}
			updates = append(updates, models.BalanceUpdate{AccountID: accountID, Balance: balance})
		}

		removed, err := s.txns.DeleteByIDs(ctx, tx, userID, ids)
		if err != nil {
			return fmt.Errorf("delete transactions: %w", err)
		}
		if removed != int64(len(ids)) {
			return fmt.Errorf("delete transactions: removed %d of %d rows", removed, len(ids))
		}
		deleted = &row
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, log.OpDeleteTransaction, userID, err)
	}
	for _, update := range updates {
		s.broadcast(userID, update)
	}
	return deleted, nil
}

type TransferRequest struct {
	UserID          string
	FromAccountID   string
	ToAccountID     string
	Amount          int64
	Description     *string
	ClientRequestID *string
}

type TransactionStub struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

type TransferResult struct {
	ExpenseTxn      TransactionStub `json:"expenseTxn"`
	IncomeTxn       TransactionStub `json:"incomeTxn"`
	TransferGroupID string          `json:"transferGroupId"`
	FromAccountID   string          `json:"fromAccountId"`
	ToAccountID     string          `json:"toAccountId"`
	Amount          int64           `json:"amount"`
	Description     *string         `json:"description"`
}

func (s *LedgerService) CreateTransfer(ctx context.Context, req TransferRequest) (TransferResult, error) {
	if req.FromAccountID == "" || req.ToAccountID == "" {
		return TransferResult{}, ErrMissingAccount
	}
	if req.FromAccountID == req.ToAccountID {
		return TransferResult{}, ErrSameAccountTransfer
	}
	if req.Amount <= 0 {
		return TransferResult{}, ErrInvalidAmount
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var result TransferResult
	var fromBalance, toBalance int64
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		locked, err := s.accounts.LockForUser(ctx, tx, req.UserID, []string{req.FromAccountID, req.ToAccountID})
		if err != nil {
			return fmt.Errorf("lock accounts: %w", err)
		}
		if len(locked) < 2 {
			return ErrAccountNotFound
		}
		var from models.Account
		for _, acc := range locked {
			if acc.ID == req.FromAccountID {
				from = acc
			}
		}
		if from.Balance < req.Amount {
			return ErrInsufficientBalance
		}

		groupID := uuid.NewString()
		out, err := s.txns.Insert(ctx, tx, store.TransactionInput{
			ID:              uuid.NewString(),
			UserID:          req.UserID,
			AccountID:       req.FromAccountID,
			Type:            models.TypeTransfer,
			Category:        models.CategoryTransferOut,
			Amount:          req.Amount,
			Description:     req.Description,
			TransferGroupID: &groupID,
			ClientRequestID: req.ClientRequestID,
		})
		if err != nil {
			return fmt.Errorf("insert transfer out: %w", err)
		}
		in, err := s.txns.Insert(ctx, tx, store.TransactionInput{
			ID:              uuid.NewString(),
			UserID:          req.UserID,
			AccountID:       req.ToAccountID,
			Type:            models.TypeTransfer,
			Category:        models.CategoryTransferIn,
			Amount:          req.Amount,
			Description:     req.Description,
			TransferGroupID: &groupID,
		})
		if err != nil {
			return fmt.Errorf("insert transfer in: %w", err)
		}

		fromBalance, err = s.accounts.Debit(ctx, tx, req.UserID, req.FromAccountID, req.Amount)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrInsufficientBalance
		}
		if err != nil {
			return fmt.Errorf("debit: %w", err)
		}
		toBalance, err = s.accounts.AdjustBalance(ctx, tx, req.UserID, req.ToAccountID, req.Amount)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrAccountNotFound
		}
		if err != nil {
			return fmt.Errorf("credit: %w", err)
		}

		result = TransferResult{
			ExpenseTxn:      TransactionStub{ID: out.ID, CreatedAt: out.CreatedAt},
			IncomeTxn:       TransactionStub{ID: in.ID, CreatedAt: in.CreatedAt},
			TransferGroupID: groupID,
			FromAccountID:   req.FromAccountID,
			ToAccountID:     req.ToAccountID,
			Amount:          req.Amount,
			Description:     req.Description,
		}
		return nil
	})
	if err != nil {
		return TransferResult{}, s.fail(ctx, log.OpCreateTransfer, req.UserID, err)
	}
	s.broadcast(req.UserID, models.BalanceUpdate{AccountID: req.FromAccountID, Balance: fromBalance})
	s.broadcast(req.UserID, models.BalanceUpdate{AccountID: req.ToAccountID, Balance: toBalance})
	return result, nil
}

func (s *LedgerService) fail(ctx context.Context, op, userID string, err error) error {
	classified := classify(err)
	if !errors.Is(classified, ErrValidation) && !errors.Is(classified, ErrAccountNotFound) &&
		!errors.Is(classified, ErrInsufficientBalance) && !errors.Is(classified, ErrDuplicateRequest) {
		s.logger.WarnContext(ctx, "ledger operation rolled back",
			log.FieldOperation, op,
			log.FieldUserID, userID,
			log.FieldError, err,
		)
	}
	return classified
}

func (s *LedgerService) broadcast(userID string, update models.BalanceUpdate) {
	s.hub.BroadcastBalance(userID, update)
}
