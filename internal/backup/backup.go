// Package backup exports and imports the whole dataset as one JSON document,
// resets the store and seeds first-run defaults.
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/Veraticus/finance-flex/internal/common"
	"github.com/Veraticus/finance-flex/internal/model"
	"github.com/Veraticus/finance-flex/internal/service"
	"github.com/Veraticus/finance-flex/internal/storage"
)

// Checkpointer snapshots the store before destructive operations.
type Checkpointer interface {
	Create(ctx context.Context, tag, description string, isAuto bool) (*storage.CheckpointMetadata, error)
}

// Service implements export, import, reset and first-run seeding.
type Service struct {
	store        service.Store
	checkpointer Checkpointer
	now          func() time.Time
	version      string
}

// Option configures a Service.
type Option func(*Service)

// WithCheckpointer takes an automatic checkpoint before import and reset.
func WithCheckpointer(c Checkpointer) Option {
	return func(s *Service) {
		s.checkpointer = c
	}
}

// WithClock sets the clock used for the export date.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New creates a backup service. version is written as the document's appVersion.
func New(store service.Store, version string, opts ...Option) *Service {
	s := &Service{
		store:   store,
		version: version,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Export reads every collection into a backup document. Absent collections
// export as empty lists.
func (s *Service) Export(ctx context.Context) (*model.Backup, error) {
	doc := &model.Backup{
		ExportDate: s.now().UTC(),
		AppVersion: s.version,
	}

	err := s.store.View(ctx, func(r service.Reader) error {
		var err error
		if doc.Accounts, err = storage.Load[model.Account](ctx, r, service.CollectionAccounts); err != nil {
			return err
		}
		if doc.Transactions, err = storage.Load[model.Transaction](ctx, r, service.CollectionTransactions); err != nil {
			return err
		}
		if doc.Categories, err = storage.Load[string](ctx, r, service.CollectionCategories); err != nil {
			return err
		}
		if doc.RecurringBills, err = storage.Load[model.RecurringBill](ctx, r, service.CollectionRecurringBills); err != nil {
			return err
		}
		if doc.PiggyBanks, err = storage.Load[model.PiggyBank](ctx, r, service.CollectionPiggyBanks); err != nil {
			return err
		}
		if doc.CreditCards, err = storage.Load[model.CreditCard](ctx, r, service.CollectionCreditCards); err != nil {
			return err
		}
		if doc.CreditCardPurchases, err = storage.Load[model.CreditCardPurchase](ctx, r, service.CollectionCreditCardPurchases); err != nil {
			return err
		}
		hidden, err := storage.LoadFlag(ctx, r, service.CollectionValuesHidden)
		if err != nil {
			return err
		}
		doc.ValuesHidden = fmt.Sprint(hidden)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// ExportTo writes the backup document as indented JSON.
func (s *Service) ExportTo(ctx context.Context, w io.Writer) (*model.Backup, error) {
	doc, err := s.Export(ctx)
	if err != nil {
		return nil, err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to write backup: %w", err)
	}
	return doc, nil
}

// Decode parses and validates a backup document. It must carry
// financeAccounts and every collection present must decode into its record type.
func Decode(r io.Reader) (*model.Backup, error) {
	var doc model.Backup
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, common.Validationf("invalid backup: %v", err)
	}
	if err := validate(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// validate checks the records of a decoded document against the rules the
// ledger keeps for them: known accounts, positive amounts and complete
// transfer legs and installment schedules.
func validate(doc *model.Backup) error {
	if doc == nil || doc.Accounts == nil {
		return common.Validationf("invalid backup: missing financeAccounts")
	}

	accounts := make(map[string]bool, len(doc.Accounts))
	for _, acc := range doc.Accounts {
		if acc.ID == "" {
			return common.Validationf("invalid backup: account %q has no id", acc.Name)
		}
		if accounts[acc.ID] {
			return common.Validationf("invalid backup: duplicate account id %q", acc.ID)
		}
		accounts[acc.ID] = true
	}

	for _, t := range doc.Transactions {
		if !t.Type.Valid() {
			return common.Validationf("invalid backup: transaction %q has unknown type %q", t.ID, t.Type)
		}
		if !t.Amount.IsPositive() {
			return common.Validationf("invalid backup: transaction %q has non-positive amount %s", t.ID, t.Amount)
		}
		if !accounts[t.Account] {
			return common.Validationf("invalid backup: transaction %q references unknown account %q", t.ID, t.Account)
		}
		if !t.IsTransfer() {
			continue
		}
		if !accounts[t.ToAccount] || t.ToAccount == t.Account {
			return common.Validationf("invalid backup: transfer %q has invalid counterpart account %q", t.ID, t.ToAccount)
		}
		if t.Direction != model.DirectionIn && t.Direction != model.DirectionOut {
			return common.Validationf("invalid backup: transfer %q has invalid direction %q", t.ID, t.Direction)
		}
	}

	for _, p := range doc.CreditCardPurchases {
		if p.InstallmentsCount < 1 {
			return common.Validationf("invalid backup: purchase %q has %d installments", p.ID, p.InstallmentsCount)
		}
		if len(p.Installments) != p.InstallmentsCount {
			return common.Validationf("invalid backup: purchase %q lists %d of %d installments",
				p.ID, len(p.Installments), p.InstallmentsCount)
		}
	}
	return nil
}

// ImportFrom decodes a backup document and imports it.
func (s *Service) ImportFrom(ctx context.Context, r io.Reader) (*model.Backup, error) {
	doc, err := Decode(r)
	if err != nil {
		return nil, err
	}
	if err := s.Import(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Import replaces every collection with the document's contents; nothing is
// merged. Accounts, transactions and categories are always written. The
// optional collections and the valuesHidden preference are removed when the
// document does not carry them.
func (s *Service) Import(ctx context.Context, doc *model.Backup) error {
	if err := validate(doc); err != nil {
		return err
	}
	if err := s.checkpoint(ctx, "before import"); err != nil {
		return err
	}

	return s.store.Update(ctx, func(w service.Writer) error {
		if err := storage.Save(ctx, w, service.CollectionAccounts, doc.Accounts); err != nil {
			return err
		}
		if err := storage.Save(ctx, w, service.CollectionTransactions, doc.Transactions); err != nil {
			return err
		}
		if err := storage.Save(ctx, w, service.CollectionCategories, doc.Categories); err != nil {
			return err
		}
		if err := saveOrRemove(ctx, w, service.CollectionRecurringBills, doc.RecurringBills); err != nil {
			return err
		}
		if err := saveOrRemove(ctx, w, service.CollectionPiggyBanks, doc.PiggyBanks); err != nil {
			return err
		}
		if err := saveOrRemove(ctx, w, service.CollectionCreditCards, doc.CreditCards); err != nil {
			return err
		}
		if err := saveOrRemove(ctx, w, service.CollectionCreditCardPurchases, doc.CreditCardPurchases); err != nil {
			return err
		}
		if doc.ValuesHidden == "" {
			return w.Remove(ctx, service.CollectionValuesHidden)
		}
		return storage.SaveFlag(ctx, w, service.CollectionValuesHidden, doc.ValuesHidden == "true")
	})
}

func saveOrRemove[T any](ctx context.Context, w service.Writer, c service.Collection, items []T) error {
	if items == nil {
		return w.Remove(ctx, c)
	}
	return storage.Save(ctx, w, c, items)
}

// Reset removes every collection, returning the store to its first-run state.
func (s *Service) Reset(ctx context.Context) error {
	if err := s.checkpoint(ctx, "before reset"); err != nil {
		return err
	}
	return s.store.Clear(ctx)
}

func (s *Service) checkpoint(ctx context.Context, description string) error {
	if s.checkpointer == nil {
		return nil
	}
	if _, err := s.checkpointer.Create(ctx, "", description, true); err != nil {
		return fmt.Errorf("failed to create checkpoint %s: %w", description, err)
	}
	return nil
}
