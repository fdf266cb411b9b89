package savings

import (
	"context"
	"fmt"
	"time"

	"github.com/Veraticus/finance-flex/internal/common"
	"github.com/Veraticus/finance-flex/internal/ledger"
	"github.com/Veraticus/finance-flex/internal/model"
	"github.com/Veraticus/finance-flex/internal/service"
	"github.com/Veraticus/finance-flex/internal/storage"
	"github.com/shopspring/decimal"
)

// Movement moves money into or out of a goal. When AccountID is empty the
// goal's linked account is used; a goal with no account only changes its
// current amount.
type Movement struct {
	Date      time.Time
	Amount    decimal.Decimal
	GoalID    string
	AccountID string
}

// Result is the outcome of a deposit or withdrawal.
type Result struct {
	// Transaction is the synthetic ledger record, nil when no account was involved.
	Transaction *model.Transaction
	Goal        model.PiggyBank
}

// Deposit debits the funding account and credits the goal.
func (e *Engine) Deposit(ctx context.Context, m Movement) (*Result, error) {
	return e.move(ctx, m, true)
}

// Withdraw debits the goal and credits the funding account.
func (e *Engine) Withdraw(ctx context.Context, m Movement) (*Result, error) {
	return e.move(ctx, m, false)
}

func (e *Engine) move(ctx context.Context, m Movement, deposit bool) (*Result, error) {
	if !m.Amount.IsPositive() {
		return nil, common.Validationf("amount must be greater than zero, got %s", m.Amount)
	}

	date := m.Date
	if date.IsZero() {
		date = model.NewDay(e.now()).Time
	}

	result := &Result{}
	err := e.store.Update(ctx, func(w service.Writer) error {
		goals, err := storage.Load[model.PiggyBank](ctx, w, service.CollectionPiggyBanks)
		if err != nil {
			return err
		}
		i := findGoal(goals, m.GoalID)
		if i < 0 {
			return common.NotFoundf("goal %q", m.GoalID)
		}
		goal := &goals[i]

		if deposit {
			goal.Current = goal.Current.Add(m.Amount)
		} else {
			if goal.Current.LessThan(m.Amount) {
				return common.InsufficientFundsf("goal %q holds %s, needs %s",
					goal.Name, goal.Current.StringFixed(2), m.Amount.StringFixed(2))
			}
			goal.Current = goal.Current.Sub(m.Amount)
		}

		accountID := m.AccountID
		if accountID == "" {
			accountID = goal.Account
		}
		if accountID != "" {
			rec := e.synthetic(*goal, accountID, m.Amount, date, deposit)
			book, err := ledger.LoadBook(ctx, w)
			if err != nil {
				return err
			}
			if err := book.Post(rec); err != nil {
				return err
			}
			if err := book.Save(ctx, w); err != nil {
				return err
			}
			result.Transaction = &rec
		}

		result.Goal = *goal
		return storage.Save(ctx, w, service.CollectionPiggyBanks, goals)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (e *Engine) synthetic(goal model.PiggyBank, accountID string, amount decimal.Decimal, date time.Time, deposit bool) model.Transaction {
	rec := model.Transaction{
		ID:       e.newID(),
		Amount:   amount,
		Category: model.SavingsCategory,
		Account:  accountID,
		Date:     model.At(date),
	}
	if deposit {
		rec.Type = model.TypeExpense
		rec.Description = fmt.Sprintf("Depósito no cofrinho: %s", goal.Name)
	} else {
		rec.Type = model.TypeIncome
		rec.Description = fmt.Sprintf("Retirada do cofrinho: %s", goal.Name)
	}
	return rec
}
