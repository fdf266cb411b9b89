package main

import (
	"context"
	"fmt"

	"github.com/Veraticus/finance-flex/internal/cli"
	"github.com/Veraticus/finance-flex/internal/ledger"
	"github.com/Veraticus/finance-flex/internal/model"
	"github.com/spf13/cobra"
)

func transactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tx",
		Aliases: []string{"transactions"},
		Short:   "Record, list and reverse transactions",
		Example: `  # Spend from an account
  flex tx add expense 30 --account "Mercado Pago" --category Alimentação

  # Move money between accounts
  flex tx add transfer 20 --account "Mercado Pago" --to Dinheiro

  # Undo a transaction (both legs of a transfer)
  flex tx reverse 3f2a9c1b`,
	}

	cmd.AddCommand(addTransactionCmd())
	cmd.AddCommand(listTransactionsCmd())
	cmd.AddCommand(reverseTransactionCmd())
	cmd.AddCommand(dayTransactionsCmd())

	return cmd
}

func addTransactionCmd() *cobra.Command {
	var account, toAccount, description, category, date string

	cmd := &cobra.Command{
		Use:       "add income|expense|transfer AMOUNT",
		Short:     "Record a transaction",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{string(model.TypeIncome), string(model.TypeExpense), string(model.TypeTransfer)},
		RunE: run(func(ctx context.Context, a *app, args []string) error {
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			day, err := parseDay(date)
			if err != nil {
				return err
			}
			from, err := a.accountID(ctx, account)
			if err != nil {
				return err
			}
			to, err := a.accountID(ctx, toAccount)
			if err != nil {
				return err
			}

			records, err := a.ledger.ApplyTransaction(ctx, ledger.TransactionRequest{
				Type:        model.TransactionType(args[0]),
				Amount:      amount,
				Account:     from,
				ToAccount:   to,
				Description: description,
				Category:    category,
				Date:        day.Time,
			})
			if err != nil {
				return err
			}

			for _, rec := range records {
				a.println(cli.FormatSuccess(fmt.Sprintf("Recorded %s %s (%s)", rec.Type, rec.Amount.StringFixed(2), shortID(rec.ID))))
			}
			return nil
		}),
	}

	cmd.Flags().StringVarP(&account, "account", "a", "", "Account (ID or name)")
	cmd.Flags().StringVar(&toAccount, "to", "", "Destination account for transfers")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Description")
	cmd.Flags().StringVarP(&category, "category", "c", "", "Category")
	cmd.Flags().StringVar(&date, "date", "", "Date as YYYY-MM-DD (default: today)")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}

func listTransactionsCmd() *cobra.Command {
	var account, category, txType, from, to string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, a *app, _ []string) error {
			fromDay, err := parseDay(from)
			if err != nil {
				return err
			}
			toDay, err := parseDay(to)
			if err != nil {
				return err
			}
			accountID, err := a.accountID(ctx, account)
			if err != nil {
				return err
			}

			filter := ledger.TransactionFilter{
				Type:      model.TransactionType(txType),
				Category:  category,
				AccountID: accountID,
				From:      fromDay.Time,
			}
			if toDay.IsSet() {
				filter.To = toDay.AddDate(0, 0, 1)
			}

			transactions, err := a.ledger.ListTransactions(ctx, filter)
			if err != nil {
				return err
			}
			if limit > 0 && len(transactions) > limit {
				transactions = transactions[:limit]
			}
			return a.printTransactions(ctx, transactions)
		}),
	}

	cmd.Flags().StringVarP(&account, "account", "a", "", "Only this account")
	cmd.Flags().StringVarP(&category, "category", "c", "", "Only this category")
	cmd.Flags().StringVarP(&txType, "type", "t", "", "Only this type (income, expense, transfer)")
	cmd.Flags().StringVar(&from, "from", "", "First day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Last day (YYYY-MM-DD)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show at most this many transactions")

	return cmd
}

func dayTransactionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "day YYYY-MM-DD",
		Short: "List the transactions of one day",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(ctx context.Context, a *app, args []string) error {
			day, err := parseDay(args[0])
			if err != nil {
				return err
			}
			transactions, err := a.ledger.TransactionsOn(ctx, day)
			if err != nil {
				return err
			}
			return a.printTransactions(ctx, transactions)
		}),
	}
}

func reverseTransactionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reverse TRANSACTION_ID",
		Short: "Remove a transaction and undo its effect on balances",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(ctx context.Context, a *app, args []string) error {
			transactions, err := a.ledger.ListTransactions(ctx, ledger.TransactionFilter{})
			if err != nil {
				return err
			}
			id := resolve(args[0], transactions,
				func(t model.Transaction) string { return t.ID },
				func(model.Transaction) string { return "" })

			if err := a.ledger.ReverseTransaction(ctx, id); err != nil {
				return err
			}
			a.println(cli.FormatSuccess("Reversed transaction " + shortID(id)))
			return nil
		}),
	}
}

func (a *app) printTransactions(ctx context.Context, transactions []model.Transaction) error {
	if len(transactions) == 0 {
		a.println(cli.SubtitleStyle.Render("No transactions found."))
		return nil
	}
	accounts, err := a.accountNames(ctx)
	if err != nil {
		return err
	}

	t := cli.NewTable("ID", "DATE", "DESCRIPTION", "CATEGORY", "ACCOUNT", "AMOUNT")
	for _, tx := range transactions {
		acc, ok := accounts[tx.Account]
		name := acc.Name
		if !ok {
			name = tx.Account + " (deleted)"
		}
		expense := tx.Type == model.TypeExpense || (tx.IsTransfer() && tx.Direction != model.DirectionIn)
		t.Row(shortID(tx.ID), model.NewDay(tx.Date.Time).String(), tx.Description, tx.Category, name,
			a.money.Signed(tx.Amount, acc.Currency, expense))
	}
	a.println(t.String())
	return nil
}
