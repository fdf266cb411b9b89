package main

import (
	"context"
	"fmt"

	"github.com/Veraticus/finance-flex/internal/cli"
	"github.com/Veraticus/finance-flex/internal/model"
	"github.com/spf13/cobra"
)

func billsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "bills",
		Aliases: []string{"bill"},
		Short:   "Track recurring bills as a checklist",
		Example: `  # Mark a bill as paid this period
  flex bills toggle Internet

  # Start a new period with every bill unchecked
  flex bills reset`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List bills and whether they are paid",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, a *app, _ []string) error {
			list, err := a.bills.List(ctx)
			if err != nil {
				return err
			}
			if len(list) == 0 {
				a.println(cli.SubtitleStyle.Render("No bills yet."))
				return nil
			}
			t := cli.NewTable("ID", "BILL", "PAID")
			for _, b := range list {
				paid := cli.SubtleStyle.Render("no")
				if b.Checked {
					paid = cli.SuccessStyle.Render(cli.SuccessIcon)
				}
				t.Row(shortID(b.ID), b.Name, paid)
			}
			a.println(t.String())
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add NAME",
		Short: "Add a bill",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(ctx context.Context, a *app, args []string) error {
			b, err := a.bills.Add(ctx, args[0])
			if err != nil {
				return err
			}
			a.println(cli.FormatSuccess(fmt.Sprintf("Added bill %s (%s)", b.Name, shortID(b.ID))))
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove BILL",
		Short: "Remove a bill",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(ctx context.Context, a *app, args []string) error {
			id, err := a.billID(ctx, args[0])
			if err != nil {
				return err
			}
			if err := a.bills.Remove(ctx, id); err != nil {
				return err
			}
			a.println(cli.FormatSuccess("Removed bill " + args[0]))
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "toggle BILL",
		Short: "Flip a bill between paid and unpaid",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(ctx context.Context, a *app, args []string) error {
			id, err := a.billID(ctx, args[0])
			if err != nil {
				return err
			}
			checked, err := a.bills.Toggle(ctx, id)
			if err != nil {
				return err
			}
			state := "unpaid"
			if checked {
				state = "paid"
			}
			a.println(cli.FormatSuccess(fmt.Sprintf("Marked %s as %s", args[0], state)))
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Uncheck every bill for a new period",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, a *app, _ []string) error {
			n, err := a.bills.ResetPeriod(ctx)
			if err != nil {
				return err
			}
			a.println(cli.FormatSuccess(fmt.Sprintf("Unchecked paid bills: %d", n)))
			return nil
		}),
	})

	return cmd
}

func (a *app) billID(ctx context.Context, ref string) (string, error) {
	list, err := a.bills.List(ctx)
	if err != nil {
		return "", err
	}
	return resolve(ref, list,
		func(b model.RecurringBill) string { return b.ID },
		func(b model.RecurringBill) string { return b.Name }), nil
}
