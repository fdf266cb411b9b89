package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestTransaction_Effects(t *testing.T) {
	amount := decimal.NewFromInt(25)
	tests := []struct {
		want map[string]string
		name string
		tx   Transaction
	}{
		{
			name: "income credits",
			tx:   Transaction{Type: TypeIncome, Account: "acc1", Amount: amount},
			want: map[string]string{"acc1": "25"},
		},
		{
			name: "expense debits",
			tx:   Transaction{Type: TypeExpense, Account: "acc1", Amount: amount},
			want: map[string]string{"acc1": "-25"},
		},
		{
			name: "transfer out leg debits its own account",
			tx:   Transaction{Type: TypeTransfer, Direction: DirectionOut, Account: "acc1", ToAccount: "acc2", Amount: amount},
			want: map[string]string{"acc1": "-25"},
		},
		{
			name: "transfer in leg credits its own account",
			tx:   Transaction{Type: TypeTransfer, Direction: DirectionIn, Account: "acc2", ToAccount: "acc1", Amount: amount},
			want: map[string]string{"acc2": "25"},
		},
		{
			name: "unknown type has no effect",
			tx:   Transaction{Type: "refund", Account: "acc1", Amount: amount},
			want: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.tx.Effects()
			if len(got) != len(tt.want) {
				t.Fatalf("Effects() = %v, want %v", got, tt.want)
			}
			for _, e := range got {
				if e.Delta.String() != tt.want[e.AccountID] {
					t.Errorf("delta on %s = %s, want %s", e.AccountID, e.Delta, tt.want[e.AccountID])
				}
			}
		})
	}
}

func TestTransaction_IsTwinOf(t *testing.T) {
	date := time.Date(2026, time.May, 4, 0, 0, 0, 0, time.UTC)
	out := Transaction{ID: "t1", Type: TypeTransfer, Direction: DirectionOut, Account: "acc1", ToAccount: "acc2",
		Amount: decimal.NewFromInt(20), Date: At(date), TransferID: "x"}
	in := Transaction{ID: "t2", Type: TypeTransfer, Direction: DirectionIn, Account: "acc2", ToAccount: "acc1",
		Amount: decimal.NewFromInt(20), Date: At(date), TransferID: "x"}

	if !out.IsTwinOf(in) || !in.IsTwinOf(out) {
		t.Error("legs sharing a transfer id are not twins")
	}
	if out.IsTwinOf(out) {
		t.Error("a leg is its own twin")
	}

	other := in
	other.ID, other.TransferID = "t3", "y"
	if out.IsTwinOf(other) {
		t.Error("legs of different transfers are twins")
	}

	legacyOut, legacyIn := out, in
	legacyOut.TransferID, legacyIn.TransferID = "", ""
	if !legacyOut.IsTwinOf(legacyIn) {
		t.Error("legacy legs with matching account, amount and date are not twins")
	}
	legacyIn.Amount = decimal.NewFromInt(21)
	if legacyOut.IsTwinOf(legacyIn) {
		t.Error("legacy legs with different amounts are twins")
	}

	// An account that both sent and received the same amount on the same day
	// pairs each leg with its own mirror.
	received := Transaction{ID: "t5", Type: TypeTransfer, Direction: DirectionIn, Account: "acc1", ToAccount: "acc3",
		Amount: decimal.NewFromInt(20), Date: At(date)}
	sentBack := Transaction{ID: "t6", Type: TypeTransfer, Direction: DirectionOut, Account: "acc3", ToAccount: "acc1",
		Amount: decimal.NewFromInt(20), Date: At(date)}
	legacyIn.Amount = decimal.NewFromInt(20)
	if !received.IsTwinOf(sentBack) || !sentBack.IsTwinOf(received) {
		t.Error("mirrored legacy legs are not twins")
	}
	if received.IsTwinOf(legacyIn) || legacyIn.IsTwinOf(received) {
		t.Error("legs with the same direction are twins")
	}
	if legacyOut.IsTwinOf(sentBack) {
		t.Error("a leg is paired with a transfer between other accounts")
	}
	sameWay := legacyIn
	sameWay.ID, sameWay.Direction = "t7", DirectionOut
	if legacyOut.IsTwinOf(sameWay) {
		t.Error("legacy legs with the same direction are twins")
	}

	expense := Transaction{ID: "t4", Type: TypeExpense, Account: "acc2", Amount: decimal.NewFromInt(20), Date: At(date)}
	if legacyOut.IsTwinOf(expense) {
		t.Error("an expense is a transfer twin")
	}
}

func TestTransaction_Touches(t *testing.T) {
	tx := Transaction{Account: "acc1", ToAccount: "acc2"}
	if !tx.Touches("acc1") || !tx.Touches("acc2") || tx.Touches("acc3") {
		t.Errorf("Touches gave wrong answers for %+v", tx)
	}
}
