package model

import "github.com/shopspring/decimal"

// Account is a bank account, wallet or cash holding.
type Account struct {
	Balance  decimal.Decimal `json:"balance"`
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Type     string          `json:"type"`
	Currency string          `json:"currency"`
}

// FindAccount returns the index of the account with id, or -1.
func FindAccount(accounts []Account, id string) int {
	for i := range accounts {
		if accounts[i].ID == id {
			return i
		}
	}
	return -1
}
