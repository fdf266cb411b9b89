package ledger

import (
	"context"

	"github.com/Veraticus/finance-flex/internal/model"
	"github.com/Veraticus/finance-flex/internal/service"
	"github.com/shopspring/decimal"
)

// AccountCheck compares an account's stored balance with the net effect of
// the transactions recorded against it. Opening balances and goal seeds are
// not backed by transactions, so they show up in Implied.
type AccountCheck struct {
	Balance decimal.Decimal
	Net     decimal.Decimal
	// Implied is Balance minus Net: the part of the balance no transaction explains.
	Implied   decimal.Decimal
	AccountID string
	Name      string
}

// Report is the result of Reconcile.
type Report struct {
	Accounts []AccountCheck
	// Orphans are transactions whose account no longer exists.
	Orphans []model.Transaction
	// Unpaired are transfer legs whose twin is missing.
	Unpaired []model.Transaction
}

// Clean reports whether the log has no orphans and no unpaired transfer legs.
func (r *Report) Clean() bool {
	return len(r.Orphans) == 0 && len(r.Unpaired) == 0
}

// Reconcile walks the transaction log and reports, per account, the net
// balance effect it records, plus any dangling records.
func (l *Ledger) Reconcile(ctx context.Context) (*Report, error) {
	var report *Report
	err := l.store.View(ctx, func(r service.Reader) error {
		book, err := LoadBook(ctx, r)
		if err != nil {
			return err
		}
		report = book.Reconcile()
		return nil
	})
	return report, err
}

// Reconcile reports the net effect of the book's transactions per account.
func (b *Book) Reconcile() *Report {
	net := make(map[string]decimal.Decimal, len(b.Accounts))
	report := &Report{}

	for i, t := range b.Transactions {
		if model.FindAccount(b.Accounts, t.Account) < 0 {
			report.Orphans = append(report.Orphans, t)
			continue
		}
		for _, effect := range t.Effects() {
			net[effect.AccountID] = net[effect.AccountID].Add(effect.Delta)
		}
		if t.IsTransfer() && b.Twin(i) < 0 {
			report.Unpaired = append(report.Unpaired, t)
		}
	}

	for _, acc := range b.Accounts {
		report.Accounts = append(report.Accounts, AccountCheck{
			AccountID: acc.ID,
			Name:      acc.Name,
			Balance:   acc.Balance,
			Net:       net[acc.ID],
			Implied:   acc.Balance.Sub(net[acc.ID]),
		})
	}
	return report
}
