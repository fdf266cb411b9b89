package backup

import (
	"context"

	"github.com/Veraticus/finance-flex/internal/bills"
	"github.com/Veraticus/finance-flex/internal/category"
	"github.com/Veraticus/finance-flex/internal/model"
	"github.com/Veraticus/finance-flex/internal/service"
	"github.com/Veraticus/finance-flex/internal/storage"
	"github.com/shopspring/decimal"
)

// DefaultAccounts are the accounts created on first run.
func DefaultAccounts(currency string) []model.Account {
	return []model.Account{
		{ID: "acc1", Name: "Mercado Pago", Type: "Digital", Balance: decimal.Zero, Currency: currency},
		{ID: "acc2", Name: "Dinheiro", Type: "Físico", Balance: decimal.Zero, Currency: currency},
	}
}

// Seeded lists the collections written by Init.
type Seeded struct {
	Accounts   bool
	Categories bool
	Bills      bool
}

// Any reports whether Init wrote anything.
func (s Seeded) Any() bool {
	return s.Accounts || s.Categories || s.Bills
}

// Init seeds the default accounts, categories and bills where their
// collections have never been written. Existing data is never touched.
func (s *Service) Init(ctx context.Context, currency string) (Seeded, error) {
	var seeded Seeded
	err := s.store.Update(ctx, func(w service.Writer) error {
		exists, err := storage.Exists(ctx, w, service.CollectionAccounts)
		if err != nil {
			return err
		}
		if !exists {
			if err := storage.Save(ctx, w, service.CollectionAccounts, DefaultAccounts(currency)); err != nil {
				return err
			}
			if err := storage.Save(ctx, w, service.CollectionTransactions, []model.Transaction{}); err != nil {
				return err
			}
			seeded.Accounts = true
		}

		if seeded.Categories, err = category.Seed(ctx, w); err != nil {
			return err
		}
		seeded.Bills, err = bills.Seed(ctx, w)
		return err
	})
	return seeded, err
}

// ValuesHidden reports whether money amounts should be masked in output.
func (s *Service) ValuesHidden(ctx context.Context) (bool, error) {
	var hidden bool
	err := s.store.View(ctx, func(r service.Reader) error {
		var err error
		hidden, err = storage.LoadFlag(ctx, r, service.CollectionValuesHidden)
		return err
	})
	return hidden, err
}

// SetValuesHidden stores the masking preference.
func (s *Service) SetValuesHidden(ctx context.Context, hidden bool) error {
	return s.store.Update(ctx, func(w service.Writer) error {
		return storage.SaveFlag(ctx, w, service.CollectionValuesHidden, hidden)
	})
}
