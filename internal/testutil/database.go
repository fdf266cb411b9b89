// Package testutil provides store fixtures shared by the engine tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Veraticus/finance-flex/internal/model"
	"github.com/Veraticus/finance-flex/internal/service"
	"github.com/Veraticus/finance-flex/internal/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// SetupTestStore creates a migrated in-memory store that is closed when the test ends.
func SetupTestStore(t *testing.T) *storage.SQLiteStorage {
	t.Helper()
	return setup(t, storage.MemoryPath)
}

// SetupFileStore creates a migrated store backed by a file in a temporary directory.
func SetupFileStore(t *testing.T) *storage.SQLiteStorage {
	t.Helper()
	return setup(t, filepath.Join(t.TempDir(), "flex.db"))
}

func setup(t *testing.T, path string) *storage.SQLiteStorage {
	t.Helper()

	store, err := storage.NewSQLiteStorage(path)
	require.NoError(t, err, "failed to create test database")

	require.NoError(t, store.Migrate(context.Background()), "failed to run migrations")

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}

// Account builds an account with a balance given as a decimal string.
func Account(id, name, balance string) model.Account {
	return model.Account{
		ID:       id,
		Name:     name,
		Type:     "Digital",
		Balance:  decimal.RequireFromString(balance),
		Currency: "BRL",
	}
}

// Seed writes items to a collection.
func Seed[T any](t *testing.T, store service.Store, c service.Collection, items ...T) {
	t.Helper()

	err := store.Update(context.Background(), func(w service.Writer) error {
		return storage.Save(context.Background(), w, c, items)
	})
	require.NoError(t, err, "failed to seed %s", c)
}

// MustLoad reads a collection or fails the test.
func MustLoad[T any](t *testing.T, store service.Store, c service.Collection) []T {
	t.Helper()

	var items []T
	err := store.View(context.Background(), func(r service.Reader) error {
		var err error
		items, err = storage.Load[T](context.Background(), r, c)
		return err
	})
	require.NoError(t, err, "failed to load %s", c)
	return items
}

// Balances returns account balances keyed by account ID.
func Balances(t *testing.T, store service.Store) map[string]decimal.Decimal {
	t.Helper()

	balances := make(map[string]decimal.Decimal)
	for _, acc := range MustLoad[model.Account](t, store, service.CollectionAccounts) {
		balances[acc.ID] = acc.Balance
	}
	return balances
}

// Dec parses a decimal literal.
func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
