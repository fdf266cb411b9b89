package model

import "time"

// Backup is the interchange document produced by export and accepted by import.
// A nil collection means the key was absent from the document.
type Backup struct {
	ExportDate          time.Time            `json:"exportDate"`
	ValuesHidden        string               `json:"valuesHidden,omitempty"`
	AppVersion          string               `json:"appVersion,omitempty"`
	Accounts            []Account            `json:"financeAccounts"`
	Transactions        []Transaction        `json:"financeTransactions"`
	CreditCards         []CreditCard         `json:"financeCreditCards"`
	RecurringBills      []RecurringBill      `json:"recurringBills"`
	PiggyBanks          []PiggyBank          `json:"piggyBanks"`
	Categories          []string             `json:"financeCategories"`
	CreditCardPurchases []CreditCardPurchase `json:"creditCardTransactions"`
}
