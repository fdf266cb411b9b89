package main

import (
	"context"
	"fmt"

	"github.com/Veraticus/finance-flex/internal/cli"
	"github.com/spf13/cobra"
)

func summaryCmd() *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show income, expenses and savings rate for a month",
		Long: `Totals income and expense transactions of a month. Transfers between
your own accounts are not counted.`,
		Args: cobra.NoArgs,
		RunE: run(func(ctx context.Context, a *app, _ []string) error {
			year, m, err := parseMonth(month)
			if err != nil {
				return err
			}
			s, err := a.ledger.MonthlySummary(ctx, year, m)
			if err != nil {
				return err
			}

			currency := a.cfg.Ledger.DefaultCurrency
			savings := a.money.Format(s.Savings, currency)
			if s.Savings.IsNegative() {
				savings = cli.ExpenseStyle.Render(savings)
			} else {
				savings = cli.IncomeStyle.Render(savings)
			}

			content := fmt.Sprintf("Income:       %s\nExpenses:     %s\nSavings:      %s\nSavings rate: %d%%\nTransactions: %d",
				cli.IncomeStyle.Render(a.money.Format(s.Income, currency)),
				cli.ExpenseStyle.Render(a.money.Format(s.Expense, currency)),
				savings,
				s.SavingsRate,
				s.Count)
			a.println(cli.RenderBox(fmt.Sprintf("%s %d", s.Month, s.Year), content))
			return nil
		}),
	}

	cmd.Flags().StringVarP(&month, "month", "m", "", "Month as YYYY-MM (default: current month)")

	return cmd
}
