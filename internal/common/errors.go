// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Error kinds returned by the ledger, goal, credit, category and bill engines.
// Callers match them with errors.Is; the wrapping message carries the detail.
var (
	// ErrValidation reports malformed or out-of-range input.
	ErrValidation = errors.New("validation failed")
	// ErrReference reports a reference to an entity that does not exist.
	ErrReference = errors.New("unknown reference")
	// ErrInsufficientFunds reports a balance, goal or credit line too low for a debit.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrDuplicate reports an entry that already exists.
	ErrDuplicate = errors.New("duplicate entry")
	// ErrNotFound reports a missing target of a delete, reverse or update.
	ErrNotFound = errors.New("not found")
	// ErrStorage reports a persistence failure.
	ErrStorage = errors.New("storage failure")
)

// Configuration errors.
var (
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Validationf returns an ErrValidation with a formatted detail.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Referencef returns an ErrReference with a formatted detail.
func Referencef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrReference, fmt.Sprintf(format, args...))
}

// InsufficientFundsf returns an ErrInsufficientFunds with a formatted detail.
func InsufficientFundsf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInsufficientFunds, fmt.Sprintf(format, args...))
}

// Duplicatef returns an ErrDuplicate with a formatted detail.
func Duplicatef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrDuplicate, fmt.Sprintf(format, args...))
}

// NotFoundf returns an ErrNotFound with a formatted detail.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// StorageError wraps a persistence failure so that it matches both ErrStorage
// and the underlying driver error.
func StorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// Describe wraps err in a UserError whose message names its kind.
// Errors of unknown kind are returned unchanged.
func Describe(err error) error {
	if err == nil {
		return nil
	}

	var userErr *UserError
	if errors.As(err, &userErr) {
		return err
	}

	switch {
	case errors.Is(err, ErrInsufficientFunds):
		return NewUserError("Insufficient funds", err)
	case errors.Is(err, ErrDuplicate):
		return NewUserError("Already exists", err)
	case errors.Is(err, ErrNotFound):
		return NewUserError("Not found", err)
	case errors.Is(err, ErrReference):
		return NewUserError("Unknown reference", err)
	case errors.Is(err, ErrValidation):
		return NewUserError("Invalid input", err)
	case errors.Is(err, ErrStorage):
		return NewUserError("Could not save your data", err)
	}
	return err
}
