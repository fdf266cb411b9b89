// Package ledger keeps account balances and the transaction log consistent.
// Every mutation is one read-modify-write of the accounts and transactions
// collections: it either applies completely or returns an error and writes nothing.
package ledger

import (
	"context"
	"strings"
	"time"

	"github.com/Veraticus/finance-flex/internal/common"
	"github.com/Veraticus/finance-flex/internal/model"
	"github.com/Veraticus/finance-flex/internal/service"
	"github.com/Veraticus/finance-flex/internal/storage"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Default labels for transfer legs created without a description or category.
const (
	TransferCategory       = "Transferência"
	TransferOutDescription = "Transferência enviada"
	TransferInDescription  = "Transferência recebida"
)

// Ledger is the ledger core.
type Ledger struct {
	store  service.Store
	now    func() time.Time
	newID  func() string
	policy service.LedgerPolicy
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock sets the clock used for transactions created without a date.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

// WithIDGenerator sets the function generating record IDs.
func WithIDGenerator(newID func() string) Option {
	return func(l *Ledger) {
		l.newID = newID
	}
}

// New creates a ledger over store.
func New(store service.Store, policy service.LedgerPolicy, opts ...Option) *Ledger {
	l := &Ledger{
		store:  store,
		policy: policy,
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// TransactionRequest describes a transaction to apply.
type TransactionRequest struct {
	Date        time.Time
	Amount      decimal.Decimal
	Type        model.TransactionType
	Account     string
	ToAccount   string
	Description string
	Category    string
}

// ApplyTransaction records a transaction and applies its balance effects.
// Income and expense produce one record; a transfer produces its out leg
// followed by its in leg.
func (l *Ledger) ApplyTransaction(ctx context.Context, req TransactionRequest) ([]model.Transaction, error) {
	records, err := l.build(req)
	if err != nil {
		return nil, err
	}

	err = l.store.Update(ctx, func(w service.Writer) error {
		book, err := LoadBook(ctx, w)
		if err != nil {
			return err
		}
		if err := book.Post(records...); err != nil {
			return err
		}
		return book.Save(ctx, w)
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (l *Ledger) build(req TransactionRequest) ([]model.Transaction, error) {
	if !req.Type.Valid() {
		return nil, common.Validationf("unknown transaction type %q", req.Type)
	}
	if !req.Amount.IsPositive() {
		return nil, common.Validationf("amount must be greater than zero, got %s", req.Amount)
	}
	if strings.TrimSpace(req.Account) == "" {
		return nil, common.Referencef("transaction needs an account")
	}

	date := req.Date
	if date.IsZero() {
		date = model.NewDay(l.now()).Time
	}
	stamp := model.At(date)

	if req.Type != model.TypeTransfer {
		return []model.Transaction{{
			ID:          l.newID(),
			Type:        req.Type,
			Amount:      req.Amount,
			Description: req.Description,
			Category:    req.Category,
			Account:     req.Account,
			Date:        stamp,
		}}, nil
	}

	if req.Account == req.ToAccount {
		return nil, common.Validationf("transfer needs two different accounts")
	}
	if strings.TrimSpace(req.ToAccount) == "" {
		return nil, common.Referencef("transfer needs a destination account")
	}

	category := req.Category
	if category == "" {
		category = TransferCategory
	}
	outDesc, inDesc := req.Description, req.Description
	if req.Description == "" {
		outDesc, inDesc = TransferOutDescription, TransferInDescription
	}

	transferID := l.newID()
	out := model.Transaction{
		ID:          l.newID(),
		Type:        model.TypeTransfer,
		Amount:      req.Amount,
		Description: outDesc,
		Category:    category,
		Account:     req.Account,
		ToAccount:   req.ToAccount,
		Date:        stamp,
		Direction:   model.DirectionOut,
		TransferID:  transferID,
	}
	in := out
	in.ID = l.newID()
	in.Description = inDesc
	in.Account, in.ToAccount = req.ToAccount, req.Account
	in.Direction = model.DirectionIn

	return []model.Transaction{out, in}, nil
}

// ReverseTransaction removes a transaction and undoes its balance effects.
// Reversing either leg of a transfer removes and undoes both legs.
func (l *Ledger) ReverseTransaction(ctx context.Context, transactionID string) error {
	return l.store.Update(ctx, func(w service.Writer) error {
		book, err := LoadBook(ctx, w)
		if err != nil {
			return err
		}

		i := model.FindTransaction(book.Transactions, transactionID)
		if i < 0 {
			return common.NotFoundf("transaction %q", transactionID)
		}

		indexes := []int{i}
		if book.Transactions[i].IsTransfer() {
			if twin := book.Twin(i); twin >= 0 {
				indexes = append(indexes, twin)
			}
		}

		book.Remove(indexes, true, "")
		return book.Save(ctx, w)
	})
}

// TransactionFilter narrows ListTransactions. Zero fields match everything.
type TransactionFilter struct {
	From      time.Time
	To        time.Time
	Type      model.TransactionType
	Category  string
	AccountID string
}

func (f TransactionFilter) matches(t model.Transaction) bool {
	if f.Type != "" && t.Type != f.Type {
		return false
	}
	if f.Category != "" && t.Category != f.Category {
		return false
	}
	if f.AccountID != "" && t.Account != f.AccountID {
		return false
	}
	if !f.From.IsZero() && t.Date.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && !t.Date.Before(f.To) {
		return false
	}
	return true
}

// ListTransactions returns matching transactions, newest first.
func (l *Ledger) ListTransactions(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error) {
	var result []model.Transaction
	err := l.store.View(ctx, func(r service.Reader) error {
		transactions, err := storage.Load[model.Transaction](ctx, r, service.CollectionTransactions)
		if err != nil {
			return err
		}
		for _, t := range transactions {
			if filter.matches(t) {
				result = append(result, t)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sortNewestFirst(result)
	return result, nil
}

// TransactionsOn returns the transactions dated on the given calendar day.
func (l *Ledger) TransactionsOn(ctx context.Context, day model.Day) ([]model.Transaction, error) {
	return l.ListTransactions(ctx, TransactionFilter{
		From: day.Time,
		To:   day.AddDate(0, 0, 1),
	})
}
