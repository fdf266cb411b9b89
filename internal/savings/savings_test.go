package savings

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Veraticus/finance-flex/internal/common"
	"github.com/Veraticus/finance-flex/internal/model"
	"github.com/Veraticus/finance-flex/internal/service"
	"github.com/Veraticus/finance-flex/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T) (*Engine, service.Store) {
	t.Helper()
	store := testutil.SetupTestStore(t)
	n := 0
	e := New(store,
		WithClock(func() time.Time { return now }),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}))
	return e, store
}

func TestEngine_CreateGoal(t *testing.T) {
	tests := []struct {
		wantErr error
		name    string
		req     GoalRequest
	}{
		{
			name: "valid goal",
			req:  GoalRequest{Name: "Férias", Target: testutil.Dec("5000"), Current: testutil.Dec("1200")},
		},
		{
			name: "current equal to target",
			req:  GoalRequest{Name: "Feito", Target: testutil.Dec("10"), Current: testutil.Dec("10")},
		},
		{
			name:    "current above target",
			req:     GoalRequest{Name: "Demais", Target: testutil.Dec("10"), Current: testutil.Dec("10.01")},
			wantErr: common.ErrValidation,
		},
		{
			name:    "zero target",
			req:     GoalRequest{Name: "Zero", Target: testutil.Dec("0")},
			wantErr: common.ErrValidation,
		},
		{
			name:    "negative current",
			req:     GoalRequest{Name: "Neg", Target: testutil.Dec("10"), Current: testutil.Dec("-1")},
			wantErr: common.ErrValidation,
		},
		{
			name:    "blank name",
			req:     GoalRequest{Name: " ", Target: testutil.Dec("10")},
			wantErr: common.ErrValidation,
		},
		{
			name:    "unknown account",
			req:     GoalRequest{Name: "Carro", Target: testutil.Dec("10"), Account: "nope"},
			wantErr: common.ErrReference,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, store := newTestEngine(t)

			goal, err := e.CreateGoal(context.Background(), tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, testutil.MustLoad[model.PiggyBank](t, store, service.CollectionPiggyBanks))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "id-1", goal.ID)
			assert.Equal(t, DefaultColor, goal.Color)
			assert.True(t, goal.CreatedAt.Equal(now))

			goals := testutil.MustLoad[model.PiggyBank](t, store, service.CollectionPiggyBanks)
			require.Len(t, goals, 1)
			assert.True(t, goals[0].Current.Equal(tt.req.Current))
		})
	}
}

func TestEngine_EditAndDeleteGoal(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)

	goal, err := e.CreateGoal(ctx, GoalRequest{Name: "Notebook", Target: testutil.Dec("3500"), Current: testutil.Dec("500")})
	require.NoError(t, err)

	due := model.NewDay(time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC))
	edited, err := e.EditGoal(ctx, goal.ID, GoalRequest{
		Name: "Notebook Novo", Target: testutil.Dec("4000"), Current: testutil.Dec("600"), TargetDate: due, Color: "#ff3d00",
	})
	require.NoError(t, err)
	assert.Equal(t, "Notebook Novo", edited.Name)
	assert.Equal(t, goal.ID, edited.ID)
	assert.True(t, edited.CreatedAt.Equal(goal.CreatedAt))

	got, err := e.GetGoal(ctx, goal.ID)
	require.NoError(t, err)
	assert.Equal(t, "2025-01-31", got.TargetDate.String())
	assert.Equal(t, 15, got.Percentage())

	_, err = e.EditGoal(ctx, goal.ID, GoalRequest{Name: "x", Target: testutil.Dec("1"), Current: testutil.Dec("2")})
	assert.ErrorIs(t, err, common.ErrValidation)
	_, err = e.EditGoal(ctx, "missing", GoalRequest{Name: "x", Target: testutil.Dec("1")})
	assert.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, e.DeleteGoal(ctx, goal.ID))
	assert.ErrorIs(t, e.DeleteGoal(ctx, goal.ID), common.ErrNotFound)

	goals, err := e.ListGoals(ctx)
	require.NoError(t, err)
	assert.Empty(t, goals)
}

func TestEngine_DepositScenario(t *testing.T) {
	ctx := context.Background()
	e, store := newTestEngine(t)
	testutil.Seed(t, store, service.CollectionAccounts, testutil.Account("C", "Conta C", "500"))

	goal, err := e.CreateGoal(ctx, GoalRequest{Name: "Viagem", Target: testutil.Dec("1000"), Current: testutil.Dec("200"), Account: "C"})
	require.NoError(t, err)

	res, err := e.Deposit(ctx, Movement{GoalID: goal.ID, Amount: testutil.Dec("300"), AccountID: "C"})
	require.NoError(t, err)
	assert.True(t, res.Goal.Current.Equal(testutil.Dec("500")))
	assert.True(t, testutil.Balances(t, store)["C"].Equal(testutil.Dec("200")))

	transactions := testutil.MustLoad[model.Transaction](t, store, service.CollectionTransactions)
	require.Len(t, transactions, 1)
	tx := transactions[0]
	assert.Equal(t, model.TypeExpense, tx.Type)
	assert.True(t, tx.Amount.Equal(testutil.Dec("300")))
	assert.Equal(t, "C", tx.Account)
	assert.Equal(t, model.SavingsCategory, tx.Category)
	assert.Equal(t, "Depósito no cofrinho: Viagem", tx.Description)
	require.NotNil(t, res.Transaction)
	assert.Equal(t, tx.ID, res.Transaction.ID)
}

func TestEngine_DepositThenWithdrawRoundTrips(t *testing.T) {
	ctx := context.Background()
	e, store := newTestEngine(t)
	testutil.Seed(t, store, service.CollectionAccounts, testutil.Account("C", "Conta C", "500"))

	goal, err := e.CreateGoal(ctx, GoalRequest{Name: "Reserva", Target: testutil.Dec("1000"), Current: testutil.Dec("200")})
	require.NoError(t, err)

	_, err = e.Deposit(ctx, Movement{GoalID: goal.ID, Amount: testutil.Dec("123.45"), AccountID: "C"})
	require.NoError(t, err)
	res, err := e.Withdraw(ctx, Movement{GoalID: goal.ID, Amount: testutil.Dec("123.45"), AccountID: "C"})
	require.NoError(t, err)

	assert.True(t, res.Goal.Current.Equal(testutil.Dec("200")))
	assert.True(t, testutil.Balances(t, store)["C"].Equal(testutil.Dec("500")))

	transactions := testutil.MustLoad[model.Transaction](t, store, service.CollectionTransactions)
	require.Len(t, transactions, 2)
	assert.Equal(t, model.TypeIncome, transactions[1].Type)
	assert.Equal(t, "Retirada do cofrinho: Reserva", transactions[1].Description)
}

func TestEngine_MovementAccountResolution(t *testing.T) {
	tests := []struct {
		name        string
		goalAccount string
		accountID   string
		wantTx      string
	}{
		{name: "explicit account", goalAccount: "A", accountID: "B", wantTx: "B"},
		{name: "linked account", goalAccount: "A", wantTx: "A"},
		{name: "no account"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			e, store := newTestEngine(t)
			testutil.Seed(t, store, service.CollectionAccounts,
				testutil.Account("A", "A", "100"), testutil.Account("B", "B", "100"))

			goal, err := e.CreateGoal(ctx, GoalRequest{Name: "G", Target: testutil.Dec("1000"), Account: tt.goalAccount})
			require.NoError(t, err)

			res, err := e.Deposit(ctx, Movement{GoalID: goal.ID, Amount: testutil.Dec("10"), AccountID: tt.accountID})
			require.NoError(t, err)
			assert.True(t, res.Goal.Current.Equal(testutil.Dec("10")))

			balances := testutil.Balances(t, store)
			if tt.wantTx == "" {
				assert.Nil(t, res.Transaction)
				assert.True(t, balances["A"].Equal(testutil.Dec("100")))
				assert.True(t, balances["B"].Equal(testutil.Dec("100")))
				assert.Empty(t, testutil.MustLoad[model.Transaction](t, store, service.CollectionTransactions))
				return
			}
			require.NotNil(t, res.Transaction)
			assert.Equal(t, tt.wantTx, res.Transaction.Account)
			assert.True(t, balances[tt.wantTx].Equal(testutil.Dec("90")))
		})
	}
}

func TestEngine_MovementRejects(t *testing.T) {
	ctx := context.Background()
	e, store := newTestEngine(t)
	testutil.Seed(t, store, service.CollectionAccounts, testutil.Account("C", "C", "50"))

	goal, err := e.CreateGoal(ctx, GoalRequest{Name: "G", Target: testutil.Dec("1000"), Current: testutil.Dec("20"), Account: "C"})
	require.NoError(t, err)

	_, err = e.Deposit(ctx, Movement{GoalID: goal.ID, Amount: testutil.Dec("50.01")})
	assert.ErrorIs(t, err, common.ErrInsufficientFunds)

	_, err = e.Withdraw(ctx, Movement{GoalID: goal.ID, Amount: testutil.Dec("20.01")})
	assert.ErrorIs(t, err, common.ErrInsufficientFunds)

	_, err = e.Deposit(ctx, Movement{GoalID: goal.ID, Amount: testutil.Dec("0")})
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = e.Deposit(ctx, Movement{GoalID: "missing", Amount: testutil.Dec("1")})
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = e.Deposit(ctx, Movement{GoalID: goal.ID, Amount: testutil.Dec("1"), AccountID: "nope"})
	assert.ErrorIs(t, err, common.ErrReference)

	got, err := e.GetGoal(ctx, goal.ID)
	require.NoError(t, err)
	assert.True(t, got.Current.Equal(testutil.Dec("20")))
	assert.True(t, testutil.Balances(t, store)["C"].Equal(testutil.Dec("50")))
	assert.Empty(t, testutil.MustLoad[model.Transaction](t, store, service.CollectionTransactions))
}
