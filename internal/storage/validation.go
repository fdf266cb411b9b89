package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/finance-flex/internal/service"
)

// Validation errors.
var (
	ErrNilContext        = errors.New("context cannot be nil")
	ErrEmptyString       = errors.New("string parameter cannot be empty")
	ErrUnknownCollection = errors.New("unknown collection")
	ErrEmptyDocument     = errors.New("document cannot be empty")
	ErrMalformedDocument = errors.New("malformed collection document")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateCollection ensures c is one of the known collections.
func validateCollection(c service.Collection) error {
	for _, known := range service.AllCollections {
		if c == known {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownCollection, c)
}
