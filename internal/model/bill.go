package model

// RecurringBill is a checklist entry for a bill paid every period.
type RecurringBill struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Checked bool   `json:"checked"`
}
