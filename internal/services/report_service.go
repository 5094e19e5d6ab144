package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fintrack/internal/catalog"
	"fintrack/internal/models"
	"fintrack/internal/store"

	"golang.org/x/sync/errgroup"
)

var ErrUserNotFound = errors.New("user not found")

const (
	recentTransactionLimit = 5
	chartTrailingMonths    = 6
)

type ReportAccountStore interface {
	ListByUser(ctx context.Context, userID string) ([]models.Account, error)
	SelfCheck(ctx context.Context, userID string) ([]store.AccountBalanceSummary, error)
}

type ReportTransactionStore interface {
	GetForUser(ctx context.Context, userID, id string) (models.Transaction, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]models.Transaction, error)
	TypeTotalsBetween(ctx context.Context, userID string, from, to time.Time) ([]store.TypeTotal, error)
	ExpenseByCategory(ctx context.Context, userID string, from, to time.Time) ([]store.CategoryTotal, error)
	AmountsBetween(ctx context.Context, userID string, from, to time.Time) ([]store.DatedAmount, error)
}

type UserReader interface {
	GetByID(ctx context.Context, userID string) (models.User, error)
}

type BudgetSummarizer interface {
	Summary(ctx context.Context, userID string) (BudgetSummary, error)
}

type CategorySource interface {
	Grouped() catalog.Grouped
}

// ReportService answers the read-only views. It never takes row locks.
type ReportService struct {
	accounts   ReportAccountStore
	txns       ReportTransactionStore
	users      UserReader
	budgets    BudgetSummarizer
	categories CategorySource
	calendar   Calendar
	timeout    time.Duration
}

func NewReportService(accounts ReportAccountStore, txns ReportTransactionStore, users UserReader, budgets BudgetSummarizer, categories CategorySource, calendar Calendar, timeout time.Duration) *ReportService {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &ReportService{
		accounts:   accounts,
		txns:       txns,
		users:      users,
		budgets:    budgets,
		categories: categories,
		calendar:   calendar,
		timeout:    timeout,
	}
}

type MonthSummary struct {
	Income  int64 `json:"income"`
	Expense int64 `json:"expense"`
}

type Dashboard struct {
	User               models.User          `json:"user"`
	Accounts           []models.Account     `json:"accounts"`
	TotalBalance       int64                `json:"totalBalance"`
	Summary            MonthSummary         `json:"summary"`
	RecentTransactions []models.Transaction `json:"recentTransactions"`
	Categories         catalog.Grouped      `json:"categories"`
	Budget             BudgetSummary        `json:"budget"`
}

type CategoryAmount struct {
	Category string `json:"category"`
	Amount   int64  `json:"amount"`
}

type SelectedMonth struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

type ChartData struct {
	ExpenseCategories []CategoryAmount `json:"expenseCategories"`
	MonthlyData       []MonthlyTotal   `json:"monthlyData"`
	SelectedMonth     SelectedMonth    `json:"selectedMonth"`
}

type CategoriesView struct {
	Categories catalog.Grouped `json:"categories"`
}

func (s *ReportService) History(ctx context.Context, userID string) ([]models.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	rows, err := s.txns.ListByUser(ctx, userID, 0)
	if err != nil {
		return nil, classify(err)
	}
	return rows, nil
}

// GetTransaction returns nil when the transaction does not exist for userID.
func (s *ReportService) GetTransaction(ctx context.Context, userID, id string) (*models.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	row, err := s.txns.GetForUser(ctx, userID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, classify(err)
	}
	return &row, nil
}

func (s *ReportService) Accounts(ctx context.Context, userID string) ([]models.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	rows, err := s.accounts.ListByUser(ctx, userID)
	if err != nil {
		return nil, classify(err)
	}
	return rows, nil
}

func (s *ReportService) Categories() CategoriesView {
	return CategoriesView{Categories: s.categories.Grouped()}
}

// SelfCheck lists every account whose stored balance is compared with its
// transaction log. A healthy ledger reports zero difference everywhere.
func (s *ReportService) SelfCheck(ctx context.Context, userID string) ([]store.AccountBalanceSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	rows, err := s.accounts.SelfCheck(ctx, userID)
	if err != nil {
		return nil, classify(err)
	}
	return rows, nil
}

func (s *ReportService) Dashboard(ctx context.Context, userID string) (Dashboard, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	out := Dashboard{Categories: s.categories.Grouped()}
	from, to := s.calendar.Current().Range(s.calendar.loc())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		user, err := s.users.GetByID(gctx, userID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserNotFound
		}
		out.User = user
		return err
	})
	g.Go(func() error {
		accounts, err := s.accounts.ListByUser(gctx, userID)
		if err != nil {
			return err
		}
		out.Accounts = accounts
		for _, acc := range accounts {
			out.TotalBalance += acc.Balance
		}
		return nil
	})
	g.Go(func() error {
		totals, err := s.txns.TypeTotalsBetween(gctx, userID, from, to)
		if err != nil {
			return err
		}
		for _, t := range totals {
			switch t.Type {
			case models.TypeIncome:
				out.Summary.Income = t.Total
			case models.TypeExpense:
				out.Summary.Expense = t.Total
			}
		}
		return nil
	})
	g.Go(func() error {
		recent, err := s.txns.ListByUser(gctx, userID, recentTransactionLimit)
		out.RecentTransactions = recent
		return err
	})
	g.Go(func() error {
		budget, err := s.budgets.Summary(gctx, userID)
		out.Budget = budget
		return err
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, classify(err)
	}
	return out, nil
}

// Charts reports expenses by category for the selected month, the previous
// month when selected is nil, and the income/expense series of the trailing
// full months.
func (s *ReportService) Charts(ctx context.Context, userID string, selected *Period) (ChartData, error) {
	target := s.calendar.Previous()
	if selected != nil {
		target = *selected
	}
	if target.Month < time.January || target.Month > time.December {
		return ChartData{}, ErrInvalidPeriod
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	loc := s.calendar.loc()
	monthFrom, monthTo := target.Range(loc)
	seriesFrom, seriesTo := s.calendar.Trailing(chartTrailingMonths)

	var categories []store.CategoryTotal
	var amounts []store.DatedAmount
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		categories, err = s.txns.ExpenseByCategory(gctx, userID, monthFrom, monthTo)
		return err
	})
	g.Go(func() error {
		var err error
		amounts, err = s.txns.AmountsBetween(gctx, userID, seriesFrom, seriesTo)
		return err
	})
	if err := g.Wait(); err != nil {
		return ChartData{}, classify(err)
	}

	out := ChartData{
		ExpenseCategories: make([]CategoryAmount, 0, len(categories)),
		MonthlyData:       s.calendar.BinMonthly(amounts),
		SelectedMonth:     SelectedMonth{Month: int(target.Month), Year: target.Year},
	}
	for _, c := range categories {
		out.ExpenseCategories = append(out.ExpenseCategories, CategoryAmount{Category: c.Category, Amount: c.Total})
	}
	return out, nil
}
