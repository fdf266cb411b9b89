package main

import (
	"context"

	"github.com/Veraticus/finance-flex/internal/cli"
	"github.com/Veraticus/finance-flex/internal/ledger"
	"github.com/spf13/cobra"
)

func accountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "accounts",
		Aliases: []string{"account", "acc"},
		Short:   "Manage accounts",
		Long: `List, create, rename and delete accounts.

Deleting an account removes every transaction that references it. With
ledger.strict_account_delete (the default) the balances of the other accounts
involved are corrected as well.`,
		Example: `  # Add a wallet with an opening balance
  flex accounts add "Nubank" --type Digital --balance 150.00

  # Check balances against the transaction log
  flex accounts check`,
	}

	cmd.AddCommand(listAccountsCmd())
	cmd.AddCommand(addAccountCmd())
	cmd.AddCommand(renameAccountCmd())
	cmd.AddCommand(deleteAccountCmd())
	cmd.AddCommand(checkAccountsCmd())

	return cmd
}

func listAccountsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts and balances",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, a *app, _ []string) error {
			accounts, err := a.ledger.ListAccounts(ctx)
			if err != nil {
				return err
			}
			if len(accounts) == 0 {
				a.println(cli.SubtitleStyle.Render("No accounts yet. Run 'flex init' or 'flex accounts add'."))
				return nil
			}

			t := cli.NewTable("ID", "NAME", "TYPE", "BALANCE")
			for _, acc := range accounts {
				t.Row(shortID(acc.ID), acc.Name, acc.Type, a.money.Format(acc.Balance, acc.Currency))
			}
			a.println(t.String())
			return nil
		}),
	}
}

func addAccountCmd() *cobra.Command {
	var accountType, balance, currency string

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Create an account",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(ctx context.Context, a *app, args []string) error {
			opening, err := parseAmount(balance)
			if err != nil {
				return err
			}
			acc, err := a.ledger.CreateAccount(ctx, ledger.AccountRequest{
				Name:           args[0],
				Type:           accountType,
				OpeningBalance: opening,
				Currency:       currency,
			})
			if err != nil {
				return err
			}
			a.println(cli.FormatSuccess("Created account " + acc.Name + " (" + shortID(acc.ID) + ")"))
			return nil
		}),
	}

	cmd.Flags().StringVarP(&accountType, "type", "t", "Digital", "Account type (Digital, Físico, ...)")
	cmd.Flags().StringVarP(&balance, "balance", "b", "0", "Opening balance")
	cmd.Flags().StringVarP(&currency, "currency", "c", "", "Currency code (default: ledger.default_currency)")

	return cmd
}

func renameAccountCmd() *cobra.Command {
	var accountType string

	cmd := &cobra.Command{
		Use:   "rename ACCOUNT NEW_NAME",
		Short: "Rename an account",
		Args:  cobra.ExactArgs(2),
		RunE: run(func(ctx context.Context, a *app, args []string) error {
			id, err := a.accountID(ctx, args[0])
			if err != nil {
				return err
			}
			if err := a.ledger.RenameAccount(ctx, id, args[1], accountType); err != nil {
				return err
			}
			a.println(cli.FormatSuccess("Renamed account to " + args[1]))
			return nil
		}),
	}

	cmd.Flags().StringVarP(&accountType, "type", "t", "", "New account type")

	return cmd
}

func deleteAccountCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete ACCOUNT",
		Short: "Delete an account and its transactions",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(ctx context.Context, a *app, args []string) error {
			id, err := a.accountID(ctx, args[0])
			if err != nil {
				return err
			}
			ok, err := a.confirm(ctx, force, "Delete account "+args[0]+" and all of its transactions?")
			if err != nil || !ok {
				return err
			}
			if err := a.ledger.DeleteAccount(ctx, id); err != nil {
				return err
			}
			a.println(cli.FormatSuccess("Deleted account " + args[0]))
			return nil
		}),
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")

	return cmd
}

func checkAccountsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Compare balances with the transaction log",
		Long: `For every account, show the net effect of its recorded transactions and
the part of the balance no transaction explains (opening balance and goal
seeds). Also reports transactions pointing at deleted accounts and transfer
legs missing their counterpart.`,
		Args: cobra.NoArgs,
		RunE: run(func(ctx context.Context, a *app, _ []string) error {
			report, err := a.ledger.Reconcile(ctx)
			if err != nil {
				return err
			}
			accounts, err := a.accountNames(ctx)
			if err != nil {
				return err
			}

			t := cli.NewTable("ACCOUNT", "BALANCE", "FROM LOG", "UNEXPLAINED")
			for _, c := range report.Accounts {
				currency := accounts[c.AccountID].Currency
				t.Row(c.Name,
					a.money.Format(c.Balance, currency),
					a.money.Format(c.Net, currency),
					a.money.Format(c.Implied, currency))
			}
			a.println(t.String())

			if report.Clean() {
				a.println(cli.FormatSuccess("Transaction log is consistent"))
				return nil
			}
			for _, o := range report.Orphans {
				a.println(cli.FormatWarning("Transaction " + shortID(o.ID) + " references missing account " + o.Account))
			}
			for _, u := range report.Unpaired {
				a.println(cli.FormatWarning("Transfer leg " + shortID(u.ID) + " has no counterpart"))
			}
			return nil
		}),
	}
}
