// Package bills is the recurring bill checklist. Bills carry no amount and
// never touch the ledger.
package bills

import (
	"context"
	"strings"

	"github.com/Veraticus/finance-flex/internal/common"
	"github.com/Veraticus/finance-flex/internal/model"
	"github.com/Veraticus/finance-flex/internal/service"
	"github.com/Veraticus/finance-flex/internal/storage"
	"github.com/google/uuid"
)

// Defaults is the checklist seeded on first run.
var Defaults = []model.RecurringBill{
	{ID: "bill1", Name: "Dentista"},
	{ID: "bill2", Name: "Internet"},
	{ID: "bill3", Name: "Celular"},
}

// Tracker manages the recurring bill checklist.
type Tracker struct {
	store service.Store
	newID func() string
}

// New creates a tracker over store.
func New(store service.Store) *Tracker {
	return &Tracker{store: store, newID: uuid.NewString}
}

// List returns the bills in insertion order.
func (t *Tracker) List(ctx context.Context) ([]model.RecurringBill, error) {
	var bills []model.RecurringBill
	err := t.store.View(ctx, func(r service.Reader) error {
		var err error
		bills, err = storage.Load[model.RecurringBill](ctx, r, service.CollectionRecurringBills)
		return err
	})
	return bills, err
}

// Add appends an unchecked bill.
func (t *Tracker) Add(ctx context.Context, name string) (*model.RecurringBill, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, common.Validationf("bill name is required")
	}

	bill := model.RecurringBill{ID: t.newID(), Name: name}
	err := t.mutate(ctx, func(bills []model.RecurringBill) ([]model.RecurringBill, error) {
		return append(bills, bill), nil
	})
	if err != nil {
		return nil, err
	}
	return &bill, nil
}

// Remove deletes a bill.
func (t *Tracker) Remove(ctx context.Context, id string) error {
	return t.mutate(ctx, func(bills []model.RecurringBill) ([]model.RecurringBill, error) {
		i := find(bills, id)
		if i < 0 {
			return nil, common.NotFoundf("bill %q", id)
		}
		return append(bills[:i], bills[i+1:]...), nil
	})
}

// Toggle flips a bill's paid flag and returns the new state.
func (t *Tracker) Toggle(ctx context.Context, id string) (bool, error) {
	var checked bool
	err := t.mutate(ctx, func(bills []model.RecurringBill) ([]model.RecurringBill, error) {
		i := find(bills, id)
		if i < 0 {
			return nil, common.NotFoundf("bill %q", id)
		}
		bills[i].Checked = !bills[i].Checked
		checked = bills[i].Checked
		return bills, nil
	})
	return checked, err
}

// ResetPeriod unchecks every bill for a new period and returns how many were checked.
func (t *Tracker) ResetPeriod(ctx context.Context) (int, error) {
	n := 0
	err := t.mutate(ctx, func(bills []model.RecurringBill) ([]model.RecurringBill, error) {
		for i := range bills {
			if bills[i].Checked {
				bills[i].Checked = false
				n++
			}
		}
		return bills, nil
	})
	return n, err
}

// SeedDefaults writes the default checklist when none has been written.
func (t *Tracker) SeedDefaults(ctx context.Context) (bool, error) {
	seeded := false
	err := t.store.Update(ctx, func(w service.Writer) error {
		var err error
		seeded, err = Seed(ctx, w)
		return err
	})
	return seeded, err
}

// Seed writes the default checklist inside an existing update when the
// collection is absent.
func Seed(ctx context.Context, w service.Writer) (bool, error) {
	exists, err := storage.Exists(ctx, w, service.CollectionRecurringBills)
	if err != nil || exists {
		return false, err
	}
	return true, storage.Save(ctx, w, service.CollectionRecurringBills, Defaults)
}

func (t *Tracker) mutate(ctx context.Context, fn func([]model.RecurringBill) ([]model.RecurringBill, error)) error {
	return t.store.Update(ctx, func(w service.Writer) error {
		bills, err := storage.Load[model.RecurringBill](ctx, w, service.CollectionRecurringBills)
		if err != nil {
			return err
		}
		bills, err = fn(bills)
		if err != nil {
			return err
		}
		return storage.Save(ctx, w, service.CollectionRecurringBills, bills)
	})
}

func find(bills []model.RecurringBill, id string) int {
	for i := range bills {
		if bills[i].ID == id {
			return i
		}
	}
	return -1
}
