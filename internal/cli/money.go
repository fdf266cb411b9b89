package cli

import (
	"strings"

	"github.com/shopspring/decimal"
)

var currencySymbols = map[string]string{
	"BRL": "R$",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
}

// Money formats amounts for display, masking them when values are hidden.
type Money struct {
	Hidden bool
}

// Format renders amount with its currency symbol and two decimals,
// grouping thousands: "R$ 1,234.56", "-R$ 10.00".
func (m Money) Format(amount decimal.Decimal, currency string) string {
	symbol, ok := currencySymbols[strings.ToUpper(currency)]
	if !ok {
		symbol = strings.ToUpper(currency)
	}
	if m.Hidden {
		return symbol + " ••••"
	}

	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}
	return sign + symbol + " " + group(amount.StringFixed(2))
}

// Signed renders amount styled as income or expense.
func (m Money) Signed(amount decimal.Decimal, currency string, expense bool) string {
	if expense {
		return ExpenseStyle.Render("-" + m.Format(amount, currency))
	}
	return IncomeStyle.Render("+" + m.Format(amount, currency))
}

func group(fixed string) string {
	whole, frac, _ := strings.Cut(fixed, ".")
	if len(whole) <= 3 {
		return fixed
	}

	var b strings.Builder
	lead := len(whole) % 3
	if lead > 0 {
		b.WriteString(whole[:lead])
	}
	for i := lead; i < len(whole); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(whole[i : i+3])
	}
	return b.String() + "." + frac
}
