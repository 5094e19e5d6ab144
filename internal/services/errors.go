package services

import (
	"context"
	"errors"
	"fmt"

	"fintrack/internal/db"
)

var ErrValidation = errors.New("validation failed")

var (
	ErrInvalidAmount       = fmt.Errorf("%w: amount must be a positive integer", ErrValidation)
	ErrInvalidType         = fmt.Errorf("%w: type must be income or expense", ErrValidation)
	ErrInvalidCategory     = fmt.Errorf("%w: unknown category for transaction type", ErrValidation)
	ErrSameAccountTransfer = fmt.Errorf("%w: cannot transfer to same account", ErrValidation)
	ErrMissingAccount      = fmt.Errorf("%w: account id is required", ErrValidation)
	ErrInvalidPeriod       = fmt.Errorf("%w: month must be between 1 and 12", ErrValidation)
)

var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrDuplicateRequest    = errors.New("duplicate client request id")
	ErrTransient           = errors.New("temporary storage failure")
)

const clientRequestConstraint = "transactions_client_request_key"

// classify maps storage failures onto the service taxonomy. Errors that are
// already part of it pass through unchanged.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrAccountNotFound),
		errors.Is(err, ErrInsufficientBalance),
		errors.Is(err, ErrDuplicateRequest),
		errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrTransient):
		return err
	case db.IsUniqueViolation(err, clientRequestConstraint):
		return ErrDuplicateRequest
	case errors.Is(err, context.Canceled):
		return err
	case db.IsTransient(err):
		return fmt.Errorf("%w: %w", ErrTransient, err)
	default:
		return err
	}
}
