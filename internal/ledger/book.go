package ledger

import (
	"context"

	"github.com/Veraticus/finance-flex/internal/common"
	"github.com/Veraticus/finance-flex/internal/model"
	"github.com/Veraticus/finance-flex/internal/service"
	"github.com/Veraticus/finance-flex/internal/storage"
	"github.com/shopspring/decimal"
)

// Book is the in-memory working copy of the accounts and transactions
// collections during one store update. Engines that move money load a Book,
// post or remove records, and save it back in the same update.
type Book struct {
	Accounts     []model.Account
	Transactions []model.Transaction
}

// LoadBook reads the accounts and transactions collections.
func LoadBook(ctx context.Context, r service.Reader) (*Book, error) {
	accounts, err := storage.Load[model.Account](ctx, r, service.CollectionAccounts)
	if err != nil {
		return nil, err
	}
	transactions, err := storage.Load[model.Transaction](ctx, r, service.CollectionTransactions)
	if err != nil {
		return nil, err
	}
	return &Book{Accounts: accounts, Transactions: transactions}, nil
}

// Save writes both collections back.
func (b *Book) Save(ctx context.Context, w service.Writer) error {
	if err := storage.Save(ctx, w, service.CollectionAccounts, b.Accounts); err != nil {
		return err
	}
	return storage.Save(ctx, w, service.CollectionTransactions, b.Transactions)
}

// Account returns the account with id, or an ErrReference.
func (b *Book) Account(id string) (*model.Account, error) {
	if i := model.FindAccount(b.Accounts, id); i >= 0 {
		return &b.Accounts[i], nil
	}
	return nil, common.Referencef("account %q does not exist", id)
}

// Post appends records and applies their balance effects. Every referenced
// account must exist and no debit may take an account below zero; on error
// the book is left unchanged.
func (b *Book) Post(records ...model.Transaction) error {
	for _, rec := range records {
		if !rec.Amount.IsPositive() {
			return common.Validationf("amount must be greater than zero, got %s", rec.Amount)
		}
		for _, effect := range rec.Effects() {
			if _, err := b.Account(effect.AccountID); err != nil {
				return err
			}
		}
	}

	// Check debits before touching any balance.
	debits := make(map[string]decimal.Decimal)
	var order []string
	for _, rec := range records {
		for _, effect := range rec.Effects() {
			if !effect.Delta.IsNegative() {
				continue
			}
			if _, seen := debits[effect.AccountID]; !seen {
				order = append(order, effect.AccountID)
			}
			debits[effect.AccountID] = debits[effect.AccountID].Add(effect.Delta.Neg())
		}
	}
	for _, id := range order {
		acc, _ := b.Account(id)
		if acc.Balance.LessThan(debits[id]) {
			return common.InsufficientFundsf("account %q has %s, needs %s",
				acc.Name, acc.Balance.StringFixed(2), debits[id].StringFixed(2))
		}
	}

	for _, rec := range records {
		b.apply(rec.Effects(), false, "")
		b.Transactions = append(b.Transactions, rec)
	}
	return nil
}

// Remove deletes the records at the given indexes. When undo is set, their
// balance effects are reversed on every account except skipAccount; effects
// on accounts that no longer exist are ignored.
func (b *Book) Remove(indexes []int, undo bool, skipAccount string) {
	drop := make(map[int]bool, len(indexes))
	for _, i := range indexes {
		drop[i] = true
		if undo {
			b.apply(b.Transactions[i].Effects(), true, skipAccount)
		}
	}

	kept := b.Transactions[:0]
	for i, rec := range b.Transactions {
		if !drop[i] {
			kept = append(kept, rec)
		}
	}
	b.Transactions = kept
}

// Twin returns the index of the opposite leg of the transfer at index i, or -1.
func (b *Book) Twin(i int) int {
	leg := b.Transactions[i]
	for j, other := range b.Transactions {
		if leg.IsTwinOf(other) {
			return j
		}
	}
	return -1
}

func (b *Book) apply(effects []model.Effect, reverse bool, skipAccount string) {
	for _, effect := range effects {
		if effect.AccountID == skipAccount {
			continue
		}
		i := model.FindAccount(b.Accounts, effect.AccountID)
		if i < 0 {
			continue
		}
		delta := effect.Delta
		if reverse {
			delta = delta.Neg()
		}
		b.Accounts[i].Balance = b.Accounts[i].Balance.Add(delta)
	}
}
