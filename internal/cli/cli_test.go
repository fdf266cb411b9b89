package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoney_Format(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		currency string
		want     string
		hidden   bool
	}{
		{name: "zero", amount: "0", currency: "BRL", want: "R$ 0.00"},
		{name: "cents", amount: "0.5", currency: "BRL", want: "R$ 0.50"},
		{name: "thousands", amount: "1234.567", currency: "BRL", want: "R$ 1,234.57"},
		{name: "millions", amount: "1234567", currency: "USD", want: "$ 1,234,567.00"},
		{name: "exact group", amount: "100000", currency: "EUR", want: "€ 100,000.00"},
		{name: "negative", amount: "-10", currency: "BRL", want: "-R$ 10.00"},
		{name: "unknown currency", amount: "5", currency: "jpy", want: "JPY 5.00"},
		{name: "hidden", amount: "999", currency: "BRL", hidden: true, want: "R$ ••••"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Money{Hidden: tt.hidden}.Format(decimal.RequireFromString(tt.amount), tt.currency)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrompter_Confirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{input: "y\n", want: true},
		{input: "YES\n", want: true},
		{input: "  sim  \n", want: true},
		{input: "n\n", want: false},
		{input: "\n", want: false},
		{input: "", want: false},
		{input: "y", want: true},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			var out bytes.Buffer
			got, err := NewPrompter(strings.NewReader(tt.input), &out).Confirm(context.Background(), "Continue?")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "Continue? [y/N]")
		})
	}
}

func TestPrompter_ConfirmCancelled(t *testing.T) {
	r, w := io.Pipe()
	defer func() { _ = w.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewPrompter(r, io.Discard).Confirm(ctx, "Continue?")
	assert.ErrorIs(t, err, ErrInputCancelled)
}

func TestNewTable(t *testing.T) {
	out := NewTable("NAME", "BALANCE").Row("Dinheiro", "R$ 0.00").String()
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "Dinheiro")
}
