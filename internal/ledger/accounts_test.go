package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/Veraticus/finance-flex/internal/common"
	"github.com/Veraticus/finance-flex/internal/model"
	"github.com/Veraticus/finance-flex/internal/service"
	"github.com/Veraticus/finance-flex/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedger_CreateAccount(t *testing.T) {
	ctx := context.Background()
	l, store := newTestLedger(t)

	acc, err := l.CreateAccount(ctx, AccountRequest{Name: "  Nubank ", Type: "Digital", OpeningBalance: testutil.Dec("12.34")})
	require.NoError(t, err)
	assert.Equal(t, "id-1", acc.ID)
	assert.Equal(t, "Nubank", acc.Name)
	assert.Equal(t, "BRL", acc.Currency)

	_, err = l.CreateAccount(ctx, AccountRequest{Name: "Wise", Currency: "usd"})
	require.NoError(t, err)

	accounts := testutil.MustLoad[model.Account](t, store, service.CollectionAccounts)
	require.Len(t, accounts, 2)
	assert.True(t, accounts[0].Balance.Equal(testutil.Dec("12.34")))
	assert.Equal(t, "USD", accounts[1].Currency)

	_, err = l.CreateAccount(ctx, AccountRequest{Name: "   "})
	assert.ErrorIs(t, err, common.ErrValidation)
	_, err = l.CreateAccount(ctx, AccountRequest{Name: "Debt", OpeningBalance: testutil.Dec("-1")})
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestLedger_GetAndRenameAccount(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t, testutil.Account("A", "Old", "9"))

	require.NoError(t, l.RenameAccount(ctx, "A", "New", ""))
	acc, err := l.GetAccount(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, "New", acc.Name)
	assert.Equal(t, "Digital", acc.Type)
	assert.True(t, acc.Balance.Equal(testutil.Dec("9")))

	require.NoError(t, l.RenameAccount(ctx, "A", "New", "Físico"))
	acc, err = l.GetAccount(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, "Físico", acc.Type)

	assert.ErrorIs(t, l.RenameAccount(ctx, "Z", "x", ""), common.ErrNotFound)
	assert.ErrorIs(t, l.RenameAccount(ctx, "A", " ", ""), common.ErrValidation)
	_, err = l.GetAccount(ctx, "Z")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestLedger_ListAccountsEmptyStore(t *testing.T) {
	l, _ := newTestLedger(t)

	accounts, err := l.ListAccounts(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, accounts)
	assert.Empty(t, accounts)
}

func TestLedger_ListTransactionsAndSummary(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t, testutil.Account("A", "A", "1000"), testutil.Account("B", "B", "0"))

	march := func(d int) time.Time { return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC) }
	requests := []TransactionRequest{
		{Type: model.TypeIncome, Amount: testutil.Dec("3000"), Account: "A", Category: "Salário", Date: march(5)},
		{Type: model.TypeExpense, Amount: testutil.Dec("750"), Account: "A", Category: "Moradia", Date: march(10)},
		{Type: model.TypeExpense, Amount: testutil.Dec("250"), Account: "A", Category: "Alimentação", Date: march(10)},
		{Type: model.TypeTransfer, Amount: testutil.Dec("500"), Account: "A", ToAccount: "B", Date: march(15)},
		{Type: model.TypeExpense, Amount: testutil.Dec("80"), Account: "A", Category: "Alimentação", Date: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, req := range requests {
		_, err := l.ApplyTransaction(ctx, req)
		require.NoError(t, err)
	}

	all, err := l.ListTransactions(ctx, TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, all, 6)
	assert.Equal(t, time.April, all[0].Date.Month(), "newest first")
	assert.Equal(t, 5, all[5].Date.Day())

	food, err := l.ListTransactions(ctx, TransactionFilter{Category: "Alimentação"})
	require.NoError(t, err)
	assert.Len(t, food, 2)

	onB, err := l.ListTransactions(ctx, TransactionFilter{AccountID: "B"})
	require.NoError(t, err)
	require.Len(t, onB, 1)
	assert.Equal(t, model.DirectionIn, onB[0].Direction)

	onTenth, err := l.TransactionsOn(ctx, model.NewDay(march(10)))
	require.NoError(t, err)
	assert.Len(t, onTenth, 2)

	summary, err := l.MonthlySummary(ctx, 2024, time.March)
	require.NoError(t, err)
	assert.True(t, summary.Income.Equal(testutil.Dec("3000")))
	assert.True(t, summary.Expense.Equal(testutil.Dec("1000")))
	assert.True(t, summary.Savings.Equal(testutil.Dec("2000")))
	assert.Equal(t, 67, summary.SavingsRate)
	assert.Equal(t, 3, summary.Count)
}

func TestSummarize_NoIncome(t *testing.T) {
	s := Summarize(2024, time.May, []model.Transaction{
		{Type: model.TypeExpense, Amount: testutil.Dec("10")},
	})
	assert.Equal(t, 0, s.SavingsRate)
	assert.True(t, s.Savings.Equal(testutil.Dec("-10")))
}

func TestLedger_Reconcile(t *testing.T) {
	ctx := context.Background()
	l, store := newTestLedger(t, testutil.Account("A", "A", "100"), testutil.Account("B", "B", "0"))

	_, err := l.ApplyTransaction(ctx, TransactionRequest{Type: model.TypeExpense, Amount: testutil.Dec("40"), Account: "A"})
	require.NoError(t, err)
	_, err = l.ApplyTransaction(ctx, TransactionRequest{Type: model.TypeTransfer, Amount: testutil.Dec("10"), Account: "A", ToAccount: "B"})
	require.NoError(t, err)

	report, err := l.Reconcile(ctx)
	require.NoError(t, err)
	assert.True(t, report.Clean())
	require.Len(t, report.Accounts, 2)
	assert.True(t, report.Accounts[0].Net.Equal(testutil.Dec("-50")))
	assert.True(t, report.Accounts[0].Implied.Equal(testutil.Dec("100")), "opening balance")
	assert.True(t, report.Accounts[1].Net.Equal(testutil.Dec("10")))
	assert.True(t, report.Accounts[1].Implied.IsZero())

	testutil.Seed(t, store, service.CollectionTransactions,
		model.Transaction{ID: "x", Type: model.TypeIncome, Amount: testutil.Dec("1"), Account: "gone"},
		model.Transaction{ID: "y", Type: model.TypeTransfer, Amount: testutil.Dec("1"), Account: "A", ToAccount: "B", Direction: model.DirectionOut, TransferID: "lonely"},
	)

	report, err = l.Reconcile(ctx)
	require.NoError(t, err)
	assert.False(t, report.Clean())
	require.Len(t, report.Orphans, 1)
	assert.Equal(t, "x", report.Orphans[0].ID)
	require.Len(t, report.Unpaired, 1)
	assert.Equal(t, "y", report.Unpaired[0].ID)
}
