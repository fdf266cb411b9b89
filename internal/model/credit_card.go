package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreditCard is a credit line with a limit and monthly due/closing days.
type CreditCard struct {
	CreatedAt   time.Time       `json:"createdAt"`
	Limit       decimal.Decimal `json:"limit"`
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Color       string          `json:"color"`
	DueDate     int             `json:"dueDate"`
	ClosingDate int             `json:"closingDate"`
}

// Installment is one monthly share of a credit card purchase.
type Installment struct {
	DueDate Day             `json:"dueDate"`
	Amount  decimal.Decimal `json:"amount"`
	Number  int             `json:"number"`
	Paid    bool            `json:"paid"`
}

// CreditCardPurchase is an installment purchase charged to a card.
type CreditCardPurchase struct {
	PurchaseDate      Day             `json:"purchaseDate"`
	FirstDueDate      Day             `json:"firstDueDate"`
	TotalAmount       decimal.Decimal `json:"totalAmount"`
	InstallmentValue  decimal.Decimal `json:"installmentValue"`
	ID                string          `json:"id"`
	CardID            string          `json:"cardId"`
	Description       string          `json:"description"`
	Category          string          `json:"category"`
	Installments      []Installment   `json:"installments"`
	InstallmentsCount int             `json:"installmentsCount"`
	InstallmentsPaid  int             `json:"installmentsPaid"`
}

// Outstanding returns the sum of the purchase's unpaid installments.
func (p CreditCardPurchase) Outstanding() decimal.Decimal {
	total := decimal.Zero
	for _, inst := range p.Installments {
		if !inst.Paid {
			total = total.Add(inst.Amount)
		}
	}
	return total
}

// Settled reports whether every installment has been paid.
func (p CreditCardPurchase) Settled() bool {
	for _, inst := range p.Installments {
		if !inst.Paid {
			return false
		}
	}
	return true
}
