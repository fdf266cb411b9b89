package backup

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/finance-flex/internal/common"
	"github.com/Veraticus/finance-flex/internal/ledger"
	"github.com/Veraticus/finance-flex/internal/model"
	"github.com/Veraticus/finance-flex/internal/service"
	"github.com/Veraticus/finance-flex/internal/storage"
	"github.com/Veraticus/finance-flex/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var exportedAt = time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC)

type mockCheckpointer struct {
	mock.Mock
}

func (m *mockCheckpointer) Create(ctx context.Context, tag, description string, isAuto bool) (*storage.CheckpointMetadata, error) {
	args := m.Called(ctx, tag, description, isAuto)
	meta, _ := args.Get(0).(*storage.CheckpointMetadata)
	return meta, args.Error(1)
}

// legacyBackup is shaped like the documents written by the original app:
// plain numbers, bare dates on manual entries, full timestamps on goal
// movements, empty target dates and no transfer ids.
const legacyBackup = `{
  "financeAccounts": [
    {"id": "acc1", "name": "Mercado Pago", "type": "Digital", "balance": 80, "currency": "BRL"},
    {"id": "acc2", "name": "Dinheiro", "type": "Físico", "balance": 20.5, "currency": "BRL"}
  ],
  "financeTransactions": [
    {"id": "tr1", "type": "transfer", "amount": 20, "description": "Transferência enviada", "category": "Transferência", "account": "acc1", "toAccount": "acc2", "date": "2024-03-10", "direction": "out"},
    {"id": "tr2", "type": "transfer", "amount": 20, "description": "Transferência recebida", "category": "Transferência", "account": "acc2", "toAccount": "acc1", "date": "2024-03-10", "direction": "in"},
    {"id": "tr3", "type": "expense", "amount": 100, "description": "Depósito no cofrinho: Férias", "category": "Economias", "account": "acc1", "date": "2024-03-12T14:22:05.123Z"}
  ],
  "financeCategories": ["Salário", "Moradia"],
  "recurringBills": [{"id": "bill1", "name": "Dentista", "checked": true}],
  "piggyBanks": [{"id": "piggy1", "name": "Férias", "target": 5000, "current": 1200, "account": "", "targetDate": "", "color": "#00b0ff", "createdAt": "2024-01-01T12:00:00.000Z"}],
  "valuesHidden": "true",
  "exportDate": "2024-03-11T08:00:00.000Z",
  "appVersion": "1.0.0"
}`

func TestService_ImportLegacyDocument(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestStore(t)
	testutil.Seed(t, store, service.CollectionCreditCards, model.CreditCard{ID: "old", Name: "Old", Limit: testutil.Dec("1")})
	s := New(store, "test")

	doc, err := s.ImportFrom(ctx, strings.NewReader(legacyBackup))
	require.NoError(t, err)
	assert.Len(t, doc.Accounts, 2)

	balances := testutil.Balances(t, store)
	assert.True(t, balances["acc2"].Equal(testutil.Dec("20.5")))

	transactions := testutil.MustLoad[model.Transaction](t, store, service.CollectionTransactions)
	require.Len(t, transactions, 3)
	assert.True(t, transactions[0].IsTwinOf(transactions[1]))
	assert.Equal(t, "2024-03-10", model.NewDay(transactions[0].Date.Time).String())
	assert.True(t, transactions[2].Date.Equal(time.Date(2024, 3, 12, 14, 22, 5, 123e6, time.UTC)))

	goals := testutil.MustLoad[model.PiggyBank](t, store, service.CollectionPiggyBanks)
	require.Len(t, goals, 1)
	assert.False(t, goals[0].TargetDate.IsSet())
	assert.Equal(t, 24, goals[0].Percentage())

	var cardsExist bool
	require.NoError(t, store.View(ctx, func(r service.Reader) error {
		var err error
		cardsExist, err = storage.Exists(ctx, r, service.CollectionCreditCards)
		return err
	}))
	assert.False(t, cardsExist, "collections missing from the document are removed")

	hidden, err := s.ValuesHidden(ctx)
	require.NoError(t, err)
	assert.True(t, hidden)
}

func TestService_ReverseImportedLegacyTransfer(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestStore(t)
	_, err := New(store, "test").ImportFrom(ctx, strings.NewReader(legacyBackup))
	require.NoError(t, err)

	l := ledger.New(store, service.DefaultLedgerPolicy())
	require.NoError(t, l.ReverseTransaction(ctx, "tr2"))

	balances := testutil.Balances(t, store)
	assert.True(t, balances["acc1"].Equal(testutil.Dec("100")), "acc1 = %s", balances["acc1"])
	assert.True(t, balances["acc2"].Equal(testutil.Dec("0.5")), "acc2 = %s", balances["acc2"])

	remaining := testutil.MustLoad[model.Transaction](t, store, service.CollectionTransactions)
	require.Len(t, remaining, 1)
	assert.Equal(t, "tr3", remaining[0].ID)

	onDay, err := l.TransactionsOn(ctx, model.NewDay(time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	assert.Len(t, onDay, 1)
}

func TestDecode_Rejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "not json", doc: "backup"},
		{name: "missing accounts", doc: `{"financeTransactions": []}`},
		{name: "null accounts", doc: `{"financeAccounts": null}`},
		{name: "malformed account", doc: `{"financeAccounts": [{"id": 1}]}`},
		{name: "malformed amount", doc: `{"financeAccounts": [], "financeTransactions": [{"amount": "lots"}]}`},
		{name: "malformed date", doc: `{"financeAccounts": [], "financeTransactions": [{"date": "10/03/2024"}]}`},
		{name: "duplicate account", doc: `{"financeAccounts": [{"id": "a"}, {"id": "a"}]}`},
		{name: "unknown type", doc: docWith(`{"id": "t", "type": "refund", "amount": 30, "account": "a"}`)},
		{name: "negative amount", doc: docWith(`{"id": "t", "type": "expense", "amount": -30, "account": "a"}`)},
		{name: "zero amount", doc: docWith(`{"id": "t", "type": "income", "amount": 0, "account": "a"}`)},
		{name: "unknown account", doc: docWith(`{"id": "t", "type": "income", "amount": 30, "account": "ghost"}`)},
		{name: "transfer without counterpart", doc: docWith(`{"id": "t", "type": "transfer", "amount": 30, "account": "a", "direction": "out"}`)},
		{name: "transfer to itself", doc: docWith(`{"id": "t", "type": "transfer", "amount": 30, "account": "a", "toAccount": "a", "direction": "out"}`)},
		{name: "transfer without direction", doc: docWith(`{"id": "t", "type": "transfer", "amount": 30, "account": "a", "toAccount": "b"}`)},
		{name: "purchase without installments", doc: `{"financeAccounts": [], "creditCardTransactions": [{"id": "p", "totalAmount": 10, "installmentsCount": 0, "installments": []}]}`},
		{name: "purchase missing installments", doc: `{"financeAccounts": [], "creditCardTransactions": [{"id": "p", "totalAmount": 10, "installmentsCount": 2, "installments": [{"number": 1, "amount": 5}]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.doc))
			assert.ErrorIs(t, err, common.ErrValidation)
		})
	}
}

func docWith(transaction string) string {
	return `{"financeAccounts": [{"id": "a", "balance": 50}, {"id": "b", "balance": 0}], "financeTransactions": [` + transaction + `]}`
}

func TestService_ImportInvalidLeavesStoreUntouched(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestStore(t)
	testutil.Seed(t, store, service.CollectionAccounts, testutil.Account("A", "A", "10"))
	s := New(store, "test")

	_, err := s.ImportFrom(ctx, strings.NewReader(`{"piggyBanks": []}`))
	assert.ErrorIs(t, err, common.ErrValidation)
	assert.ErrorIs(t, s.Import(ctx, &model.Backup{}), common.ErrValidation)
	assert.ErrorIs(t, s.Import(ctx, &model.Backup{
		Accounts:     []model.Account{},
		Transactions: []model.Transaction{{ID: "t", Type: "refund", Amount: testutil.Dec("-30"), Account: "ghost"}},
	}), common.ErrValidation)

	assert.Len(t, testutil.MustLoad[model.Account](t, store, service.CollectionAccounts), 1)
}

func TestService_ExportRoundTrip(t *testing.T) {
	ctx := context.Background()
	source := testutil.SetupTestStore(t)
	s := New(source, "2.0.0", WithClock(func() time.Time { return exportedAt }))

	seeded, err := s.Init(ctx, "BRL")
	require.NoError(t, err)
	assert.True(t, seeded.Any())
	testutil.Seed(t, source, service.CollectionCreditCardPurchases, model.CreditCardPurchase{
		ID: "p1", CardID: "c1", TotalAmount: testutil.Dec("100"), InstallmentsCount: 1,
		Installments: []model.Installment{{Number: 1, Amount: testutil.Dec("100")}},
	})

	var buf bytes.Buffer
	doc, err := s.ExportTo(ctx, &buf)
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", doc.AppVersion)
	assert.Equal(t, "false", doc.ValuesHidden)
	assert.True(t, doc.ExportDate.Equal(exportedAt))
	assert.NotNil(t, doc.PiggyBanks, "absent collections export as empty lists")
	assert.Contains(t, buf.String(), `"piggyBanks": []`)
	assert.Contains(t, buf.String(), `"balance": 0`)

	target := testutil.SetupTestStore(t)
	_, err = New(target, "2.0.0").ImportFrom(ctx, &buf)
	require.NoError(t, err)

	for _, c := range []service.Collection{
		service.CollectionAccounts,
		service.CollectionCategories,
		service.CollectionRecurringBills,
		service.CollectionCreditCardPurchases,
	} {
		assert.Equal(t, raw(t, source, c), raw(t, target, c), "collection %s", c)
	}
}

func TestService_Reset(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestStore(t)
	checkpointer := &mockCheckpointer{}
	checkpointer.On("Create", mock.Anything, "", "before reset", true).Return(&storage.CheckpointMetadata{ID: "auto"}, nil)
	s := New(store, "test", WithCheckpointer(checkpointer))

	_, err := s.Init(ctx, "BRL")
	require.NoError(t, err)
	require.NoError(t, s.SetValuesHidden(ctx, true))

	require.NoError(t, s.Reset(ctx))
	checkpointer.AssertExpectations(t)

	for _, c := range service.AllCollections {
		assert.Nil(t, raw(t, store, c), "collection %s", c)
	}

	seeded, err := s.Init(ctx, "BRL")
	require.NoError(t, err)
	assert.Equal(t, Seeded{Accounts: true, Categories: true, Bills: true}, seeded)
}

func TestService_CheckpointFailureAbortsImport(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestStore(t)
	testutil.Seed(t, store, service.CollectionAccounts, testutil.Account("A", "A", "10"))

	checkpointer := &mockCheckpointer{}
	checkpointer.On("Create", mock.Anything, "", "before import", true).Return(nil, errors.New("disk full"))
	s := New(store, "test", WithCheckpointer(checkpointer))

	err := s.Import(ctx, &model.Backup{Accounts: []model.Account{}})
	require.Error(t, err)
	assert.Len(t, testutil.MustLoad[model.Account](t, store, service.CollectionAccounts), 1)
}

func TestService_InitKeepsExistingData(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestStore(t)
	testutil.Seed(t, store, service.CollectionAccounts, testutil.Account("mine", "Mine", "5"))
	s := New(store, "test")

	seeded, err := s.Init(ctx, "USD")
	require.NoError(t, err)
	assert.False(t, seeded.Accounts)
	assert.True(t, seeded.Categories)
	assert.True(t, seeded.Bills)

	accounts := testutil.MustLoad[model.Account](t, store, service.CollectionAccounts)
	require.Len(t, accounts, 1)
	assert.Equal(t, "mine", accounts[0].ID)

	seeded, err = s.Init(ctx, "USD")
	require.NoError(t, err)
	assert.False(t, seeded.Any())
}

func TestService_ValuesHidden(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestStore(t)
	s := New(store, "test")

	hidden, err := s.ValuesHidden(ctx)
	require.NoError(t, err)
	assert.False(t, hidden)

	require.NoError(t, s.SetValuesHidden(ctx, true))
	hidden, err = s.ValuesHidden(ctx)
	require.NoError(t, err)
	assert.True(t, hidden)

	// The original app stored the preference as the string "true".
	require.NoError(t, store.Update(ctx, func(w service.Writer) error {
		return w.Write(ctx, service.CollectionValuesHidden, []byte(`"false"`))
	}))
	hidden, err = s.ValuesHidden(ctx)
	require.NoError(t, err)
	assert.False(t, hidden)
}

func raw(t *testing.T, store service.Store, c service.Collection) []byte {
	t.Helper()
	var data []byte
	require.NoError(t, store.View(context.Background(), func(r service.Reader) error {
		var err error
		data, err = r.Read(context.Background(), c)
		return err
	}))
	return data
}
