package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SavingsCategory tags the synthetic transactions written by goal deposits and withdrawals.
const SavingsCategory = "Economias"

// PiggyBank is a savings goal, optionally linked to the account that funds it.
type PiggyBank struct {
	CreatedAt  time.Time       `json:"createdAt"`
	TargetDate Day             `json:"targetDate"`
	Target     decimal.Decimal `json:"target"`
	Current    decimal.Decimal `json:"current"`
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Account    string          `json:"account"`
	Color      string          `json:"color"`
}

var hundred = decimal.NewFromInt(100)

// Percentage returns progress toward the target as a whole percentage capped at 100.
// A non-positive target yields 0.
func (p PiggyBank) Percentage() int {
	if !p.Target.IsPositive() {
		return 0
	}
	pct := p.Current.Div(p.Target).Mul(hundred).Round(0)
	if pct.GreaterThan(hundred) {
		return 100
	}
	return int(pct.IntPart())
}

// Remaining returns how much is still missing to reach the target, never negative.
func (p PiggyBank) Remaining() decimal.Decimal {
	remaining := p.Target.Sub(p.Current)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}
