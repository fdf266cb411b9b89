package ledger

import (
	"context"
	"strings"

	"github.com/Veraticus/finance-flex/internal/common"
	"github.com/Veraticus/finance-flex/internal/model"
	"github.com/Veraticus/finance-flex/internal/service"
	"github.com/Veraticus/finance-flex/internal/storage"
	"github.com/shopspring/decimal"
)

// AccountRequest describes an account to create.
type AccountRequest struct {
	OpeningBalance decimal.Decimal
	Name           string
	Type           string
	Currency       string
}

// CreateAccount adds an account. The opening balance is not backed by any
// transaction and may not be negative.
func (l *Ledger) CreateAccount(ctx context.Context, req AccountRequest) (*model.Account, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, common.Validationf("account name is required")
	}
	if req.OpeningBalance.IsNegative() {
		return nil, common.Validationf("opening balance cannot be negative")
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = l.policy.DefaultCurrency
	}

	account := model.Account{
		ID:       l.newID(),
		Name:     name,
		Type:     strings.TrimSpace(req.Type),
		Balance:  req.OpeningBalance,
		Currency: currency,
	}

	err := l.store.Update(ctx, func(w service.Writer) error {
		accounts, err := storage.Load[model.Account](ctx, w, service.CollectionAccounts)
		if err != nil {
			return err
		}
		accounts = append(accounts, account)
		return storage.Save(ctx, w, service.CollectionAccounts, accounts)
	})
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// ListAccounts returns every account in creation order.
func (l *Ledger) ListAccounts(ctx context.Context) ([]model.Account, error) {
	var accounts []model.Account
	err := l.store.View(ctx, func(r service.Reader) error {
		var err error
		accounts, err = storage.Load[model.Account](ctx, r, service.CollectionAccounts)
		return err
	})
	return accounts, err
}

// GetAccount returns one account.
func (l *Ledger) GetAccount(ctx context.Context, id string) (*model.Account, error) {
	accounts, err := l.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}
	i := model.FindAccount(accounts, id)
	if i < 0 {
		return nil, common.NotFoundf("account %q", id)
	}
	return &accounts[i], nil
}

// RenameAccount changes an account's name and, when accountType is not
// empty, its type. The balance is never touched.
func (l *Ledger) RenameAccount(ctx context.Context, id, name, accountType string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return common.Validationf("account name is required")
	}

	return l.store.Update(ctx, func(w service.Writer) error {
		accounts, err := storage.Load[model.Account](ctx, w, service.CollectionAccounts)
		if err != nil {
			return err
		}
		i := model.FindAccount(accounts, id)
		if i < 0 {
			return common.NotFoundf("account %q", id)
		}
		accounts[i].Name = name
		if t := strings.TrimSpace(accountType); t != "" {
			accounts[i].Type = t
		}
		return storage.Save(ctx, w, service.CollectionAccounts, accounts)
	})
}

// DeleteAccount removes an account together with every transaction that
// references it. Under the strict policy the removed transactions' effects on
// the surviving accounts are reversed first, so a deleted transfer source no
// longer leaves money credited to its destination. Savings goals linked to
// the account are unlinked.
func (l *Ledger) DeleteAccount(ctx context.Context, id string) error {
	return l.store.Update(ctx, func(w service.Writer) error {
		book, err := LoadBook(ctx, w)
		if err != nil {
			return err
		}
		i := model.FindAccount(book.Accounts, id)
		if i < 0 {
			return common.NotFoundf("account %q", id)
		}

		var doomed []int
		for j, t := range book.Transactions {
			if t.Touches(id) {
				doomed = append(doomed, j)
			}
		}
		book.Remove(doomed, l.policy.StrictAccountDelete, id)
		book.Accounts = append(book.Accounts[:i], book.Accounts[i+1:]...)

		if err := book.Save(ctx, w); err != nil {
			return err
		}
		return unlinkGoals(ctx, w, id)
	})
}

func unlinkGoals(ctx context.Context, w service.Writer, accountID string) error {
	exists, err := storage.Exists(ctx, w, service.CollectionPiggyBanks)
	if err != nil || !exists {
		return err
	}
	goals, err := storage.Load[model.PiggyBank](ctx, w, service.CollectionPiggyBanks)
	if err != nil {
		return err
	}

	changed := false
	for i := range goals {
		if goals[i].Account == accountID {
			goals[i].Account = ""
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return storage.Save(ctx, w, service.CollectionPiggyBanks, goals)
}
