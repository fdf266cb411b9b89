package model

import (
	"github.com/shopspring/decimal"
)

// TransactionType is the kind of ledger movement a transaction records.
type TransactionType string

const (
	// TypeIncome credits a single account.
	TypeIncome TransactionType = "income"
	// TypeExpense debits a single account.
	TypeExpense TransactionType = "expense"
	// TypeTransfer is one leg of a movement between two accounts.
	TypeTransfer TransactionType = "transfer"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	switch t {
	case TypeIncome, TypeExpense, TypeTransfer:
		return true
	}
	return false
}

// Direction tells which side of a transfer a leg records.
type Direction string

const (
	// DirectionOut is the debit leg on the source account.
	DirectionOut Direction = "out"
	// DirectionIn is the credit leg on the destination account.
	DirectionIn Direction = "in"
)

// Transaction is a single ledger record. Transfers are stored as two legs that
// share TransferID, Amount and Date and name each other's account in ToAccount.
// ToAccount, Direction and TransferID are only set on transfer legs.
type Transaction struct {
	Date        Timestamp       `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	ID          string          `json:"id"`
	Type        TransactionType `json:"type"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Account     string          `json:"account"`
	ToAccount   string          `json:"toAccount,omitempty"`
	Direction   Direction       `json:"direction,omitempty"`
	TransferID  string          `json:"transferId,omitempty"`
}

// Effect is a signed change to one account's balance.
type Effect struct {
	Delta     decimal.Decimal
	AccountID string
}

// Effects returns the balance changes this record applied when it was created.
// A transfer leg only reports the change on its own account; the pair together
// describes the whole movement.
func (t Transaction) Effects() []Effect {
	switch t.Type {
	case TypeIncome:
		return []Effect{{AccountID: t.Account, Delta: t.Amount}}
	case TypeExpense:
		return []Effect{{AccountID: t.Account, Delta: t.Amount.Neg()}}
	case TypeTransfer:
		if t.Direction == DirectionIn {
			return []Effect{{AccountID: t.Account, Delta: t.Amount}}
		}
		return []Effect{{AccountID: t.Account, Delta: t.Amount.Neg()}}
	}
	return nil
}

// IsTransfer reports whether t is a transfer leg.
func (t Transaction) IsTransfer() bool {
	return t.Type == TypeTransfer
}

// Touches reports whether t references the account as source or counterpart.
func (t Transaction) Touches(accountID string) bool {
	return t.Account == accountID || t.ToAccount == accountID
}

// IsTwinOf reports whether other is the opposite leg of the transfer t.
// Legs written with a TransferID are linked by it. Legs without one (older
// backups) fall back to matching mirrored accounts, opposite direction,
// amount and date.
func (t Transaction) IsTwinOf(other Transaction) bool {
	if !t.IsTransfer() || !other.IsTransfer() || other.ID == t.ID {
		return false
	}
	if t.TransferID != "" && other.TransferID != "" {
		return t.TransferID == other.TransferID
	}
	return other.Account == t.ToAccount &&
		other.ToAccount == t.Account &&
		other.Direction != t.Direction &&
		other.Amount.Equal(t.Amount) &&
		other.Date.Equal(t.Date.Time)
}

// FindTransaction returns the index of the transaction with id, or -1.
func FindTransaction(transactions []Transaction, id string) int {
	for i := range transactions {
		if transactions[i].ID == id {
			return i
		}
	}
	return -1
}
