package ledger

import (
	"context"
	"sort"
	"time"

	"github.com/Veraticus/finance-flex/internal/model"
	"github.com/shopspring/decimal"
)

// MonthSummary totals income and expense for one calendar month.
// Transfers move money between accounts and are not counted.
type MonthSummary struct {
	Income      decimal.Decimal
	Expense     decimal.Decimal
	Savings     decimal.Decimal
	Year        int
	Month       time.Month
	SavingsRate int
	Count       int
}

// MonthlySummary returns the income, expense and savings of a month.
func (l *Ledger) MonthlySummary(ctx context.Context, year int, month time.Month) (*MonthSummary, error) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	transactions, err := l.ListTransactions(ctx, TransactionFilter{
		From: from,
		To:   from.AddDate(0, 1, 0),
	})
	if err != nil {
		return nil, err
	}
	return Summarize(year, month, transactions), nil
}

// Summarize totals the given transactions as a MonthSummary.
func Summarize(year int, month time.Month, transactions []model.Transaction) *MonthSummary {
	s := &MonthSummary{Year: year, Month: month}
	for _, t := range transactions {
		switch t.Type {
		case model.TypeIncome:
			s.Income = s.Income.Add(t.Amount)
		case model.TypeExpense:
			s.Expense = s.Expense.Add(t.Amount)
		default:
			continue
		}
		s.Count++
	}

	s.Savings = s.Income.Sub(s.Expense)
	if s.Income.IsPositive() {
		s.SavingsRate = int(s.Savings.Div(s.Income).Mul(decimal.NewFromInt(100)).Round(0).IntPart())
	}
	return s
}

func sortNewestFirst(transactions []model.Transaction) {
	sort.SliceStable(transactions, func(i, j int) bool {
		return transactions[i].Date.After(transactions[j].Date.Time)
	})
}
