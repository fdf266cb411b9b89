// Package savings tracks savings goals and moves money between goals and
// their funding accounts through synthetic ledger transactions.
package savings

import (
	"context"
	"strings"
	"time"

	"github.com/Veraticus/finance-flex/internal/common"
	"github.com/Veraticus/finance-flex/internal/ledger"
	"github.com/Veraticus/finance-flex/internal/model"
	"github.com/Veraticus/finance-flex/internal/service"
	"github.com/Veraticus/finance-flex/internal/storage"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultColor is used for goals created without a color.
const DefaultColor = "#00b0ff"

// Engine manages savings goals.
type Engine struct {
	store service.Store
	now   func() time.Time
	newID func() string
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the clock used for creation times and undated movements.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithIDGenerator sets the function generating goal and transaction IDs.
func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) {
		e.newID = newID
	}
}

// New creates a savings engine over store.
func New(store service.Store, opts ...Option) *Engine {
	e := &Engine{
		store: store,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// GoalRequest holds the editable fields of a goal.
type GoalRequest struct {
	TargetDate model.Day
	Target     decimal.Decimal
	Current    decimal.Decimal
	Name       string
	Account    string
	Color      string
}

func (r GoalRequest) validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return common.Validationf("goal name is required")
	}
	if !r.Target.IsPositive() {
		return common.Validationf("goal target must be greater than zero")
	}
	if r.Current.IsNegative() {
		return common.Validationf("goal current amount cannot be negative")
	}
	if r.Current.GreaterThan(r.Target) {
		return common.Validationf("current amount %s exceeds target %s",
			r.Current.StringFixed(2), r.Target.StringFixed(2))
	}
	return nil
}

func (r GoalRequest) apply(goal *model.PiggyBank) {
	goal.Name = strings.TrimSpace(r.Name)
	goal.Target = r.Target
	goal.Current = r.Current
	goal.Account = r.Account
	goal.TargetDate = r.TargetDate
	goal.Color = r.Color
	if goal.Color == "" {
		goal.Color = DefaultColor
	}
}

// CreateGoal adds a goal. The current amount may be seeded without any
// backing transaction but may not exceed the target.
func (e *Engine) CreateGoal(ctx context.Context, req GoalRequest) (*model.PiggyBank, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	goal := model.PiggyBank{
		ID:        e.newID(),
		CreatedAt: e.now().UTC(),
	}
	req.apply(&goal)

	err := e.store.Update(ctx, func(w service.Writer) error {
		if err := checkAccount(ctx, w, req.Account); err != nil {
			return err
		}
		goals, err := storage.Load[model.PiggyBank](ctx, w, service.CollectionPiggyBanks)
		if err != nil {
			return err
		}
		goals = append(goals, goal)
		return storage.Save(ctx, w, service.CollectionPiggyBanks, goals)
	})
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

// EditGoal replaces a goal's editable fields, with the same checks as CreateGoal.
// Past synthetic transactions are left as they are.
func (e *Engine) EditGoal(ctx context.Context, id string, req GoalRequest) (*model.PiggyBank, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	var edited model.PiggyBank
	err := e.store.Update(ctx, func(w service.Writer) error {
		if err := checkAccount(ctx, w, req.Account); err != nil {
			return err
		}
		goals, err := storage.Load[model.PiggyBank](ctx, w, service.CollectionPiggyBanks)
		if err != nil {
			return err
		}
		i := findGoal(goals, id)
		if i < 0 {
			return common.NotFoundf("goal %q", id)
		}
		req.apply(&goals[i])
		edited = goals[i]
		return storage.Save(ctx, w, service.CollectionPiggyBanks, goals)
	})
	if err != nil {
		return nil, err
	}
	return &edited, nil
}

// DeleteGoal removes a goal without reversing its past deposits or withdrawals.
func (e *Engine) DeleteGoal(ctx context.Context, id string) error {
	return e.store.Update(ctx, func(w service.Writer) error {
		goals, err := storage.Load[model.PiggyBank](ctx, w, service.CollectionPiggyBanks)
		if err != nil {
			return err
		}
		i := findGoal(goals, id)
		if i < 0 {
			return common.NotFoundf("goal %q", id)
		}
		goals = append(goals[:i], goals[i+1:]...)
		return storage.Save(ctx, w, service.CollectionPiggyBanks, goals)
	})
}

// ListGoals returns every goal in creation order.
func (e *Engine) ListGoals(ctx context.Context) ([]model.PiggyBank, error) {
	var goals []model.PiggyBank
	err := e.store.View(ctx, func(r service.Reader) error {
		var err error
		goals, err = storage.Load[model.PiggyBank](ctx, r, service.CollectionPiggyBanks)
		return err
	})
	return goals, err
}

// GetGoal returns one goal.
func (e *Engine) GetGoal(ctx context.Context, id string) (*model.PiggyBank, error) {
	goals, err := e.ListGoals(ctx)
	if err != nil {
		return nil, err
	}
	i := findGoal(goals, id)
	if i < 0 {
		return nil, common.NotFoundf("goal %q", id)
	}
	return &goals[i], nil
}

func findGoal(goals []model.PiggyBank, id string) int {
	for i := range goals {
		if goals[i].ID == id {
			return i
		}
	}
	return -1
}

func checkAccount(ctx context.Context, r service.Reader, accountID string) error {
	if accountID == "" {
		return nil
	}
	book, err := ledger.LoadBook(ctx, r)
	if err != nil {
		return err
	}
	_, err = book.Account(accountID)
	return err
}
