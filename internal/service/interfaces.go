// Package service defines the contracts shared by the storage layer and the
// ledger, savings, credit, category and bill engines.
package service

import (
	"context"
	"time"
)

// Collection names a JSON document held by the store.
type Collection string

// Persisted collections. The names match the keys of the backup document.
const (
	CollectionAccounts            Collection = "financeAccounts"
	CollectionTransactions        Collection = "financeTransactions"
	CollectionCategories          Collection = "financeCategories"
	CollectionRecurringBills      Collection = "recurringBills"
	CollectionPiggyBanks          Collection = "piggyBanks"
	CollectionCreditCards         Collection = "financeCreditCards"
	CollectionCreditCardPurchases Collection = "creditCardTransactions"
	CollectionValuesHidden        Collection = "valuesHidden"
)

// AllCollections lists every collection the store may hold.
var AllCollections = []Collection{
	CollectionAccounts,
	CollectionTransactions,
	CollectionCategories,
	CollectionRecurringBills,
	CollectionPiggyBanks,
	CollectionCreditCards,
	CollectionCreditCardPurchases,
	CollectionValuesHidden,
}

// Reader reads whole collections.
type Reader interface {
	// Read returns the raw JSON document, or nil when the collection is absent.
	Read(ctx context.Context, c Collection) ([]byte, error)
}

// Writer reads and replaces whole collections inside an Update.
type Writer interface {
	Reader
	Write(ctx context.Context, c Collection, data []byte) error
	Remove(ctx context.Context, c Collection) error
}

// Store is the persistence contract. Update is an atomic read-modify-write:
// either every Write/Remove issued by fn becomes visible or none does.
type Store interface {
	View(ctx context.Context, fn func(r Reader) error) error
	Update(ctx context.Context, fn func(w Writer) error) error
	Clear(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// LedgerPolicy configures account deletion.
type LedgerPolicy struct {
	DefaultCurrency string
	// StrictAccountDelete reverses the effects of every deleted transaction on
	// surviving accounts. When false, only the records are removed.
	StrictAccountDelete bool
}

// CreditPolicy configures credit card purchases.
type CreditPolicy struct {
	// EnforceLimit rejects purchases larger than the card's available limit.
	EnforceLimit bool
	// AbsorbRemainder rounds installments to cents and lets the last one absorb
	// the difference, so installments always add up to the total.
	AbsorbRemainder bool
}

// DefaultLedgerPolicy returns the ledger policy used when nothing is configured.
func DefaultLedgerPolicy() LedgerPolicy {
	return LedgerPolicy{
		DefaultCurrency:     "BRL",
		StrictAccountDelete: true,
	}
}

// DefaultCreditPolicy returns the credit policy used when nothing is configured.
func DefaultCreditPolicy() CreditPolicy {
	return CreditPolicy{
		EnforceLimit:    false,
		AbsorbRemainder: true,
	}
}
