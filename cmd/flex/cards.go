package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Veraticus/finance-flex/internal/cli"
	"github.com/Veraticus/finance-flex/internal/common"
	"github.com/Veraticus/finance-flex/internal/credit"
	"github.com/Veraticus/finance-flex/internal/model"
	"github.com/spf13/cobra"
)

func cardsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "cards",
		Aliases: []string{"card"},
		Short:   "Manage credit cards and installment purchases",
		Long: `Credit cards carry a limit and monthly due and closing days. Purchases are
split into monthly installments due on the first day of each month, starting
with the purchase month. Unpaid installments count against the card's limit.`,
		Example: `  # Add a card
  flex cards add Nubank --limit 3000 --due 10 --closing 3

  # Buy a TV in 10 installments
  flex cards purchase Nubank 1999.90 --installments 10 --description TV

  # What falls due next month
  flex cards statement Nubank --month 2026-11`,
	}

	cmd.AddCommand(listCardsCmd())
	cmd.AddCommand(addCardCmd())
	cmd.AddCommand(editCardCmd())
	cmd.AddCommand(deleteCardCmd())
	cmd.AddCommand(purchaseCmd())
	cmd.AddCommand(listPurchasesCmd())
	cmd.AddCommand(payInstallmentCmd())
	cmd.AddCommand(statementCmd())

	return cmd
}

func listCardsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cards with exposure and available limit",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, a *app, _ []string) error {
			statuses, err := a.cards.CardStatuses(ctx)
			if err != nil {
				return err
			}
			if len(statuses) == 0 {
				a.println(cli.SubtitleStyle.Render("No credit cards yet."))
				return nil
			}

			currency := a.cfg.Ledger.DefaultCurrency
			t := cli.NewTable("ID", "CARD", "LIMIT", "OWED", "AVAILABLE", "USED", "DUE", "CLOSES")
			for _, s := range statuses {
				t.Row(shortID(s.Card.ID), s.Card.Name,
					a.money.Format(s.Card.Limit, currency),
					a.money.Format(s.Exposure, currency),
					a.money.Format(s.Available, currency),
					s.Utilization.StringFixed(0)+"%",
					strconv.Itoa(s.Card.DueDate),
					strconv.Itoa(s.Card.ClosingDate))
			}
			a.println(t.String())
			return nil
		}),
	}
}

type cardFlags struct {
	limit, color string
	due, closing int
}

func (f *cardFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.limit, "limit", "", "Credit limit")
	cmd.Flags().IntVar(&f.due, "due", 10, "Day of the month the bill is due (1-31)")
	cmd.Flags().IntVar(&f.closing, "closing", 3, "Day of the month the bill closes (1-31)")
	cmd.Flags().StringVar(&f.color, "color", "", "Display color (hex)")
}

func (f *cardFlags) request(cmd *cobra.Command, base credit.CardRequest) (credit.CardRequest, error) {
	req := base
	if cmd.Flags().Changed("limit") {
		limit, err := parseAmount(f.limit)
		if err != nil {
			return req, err
		}
		req.Limit = limit
	}
	if cmd.Flags().Changed("due") || req.DueDate == 0 {
		req.DueDate = f.due
	}
	if cmd.Flags().Changed("closing") || req.ClosingDate == 0 {
		req.ClosingDate = f.closing
	}
	if cmd.Flags().Changed("color") {
		req.Color = f.color
	}
	return req, nil
}

func addCardCmd() *cobra.Command {
	var flags cardFlags

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a credit card",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = run(func(ctx context.Context, a *app, args []string) error {
		req, err := flags.request(cmd, credit.CardRequest{Name: args[0]})
		if err != nil {
			return err
		}
		card, err := a.cards.CreateCard(ctx, req)
		if err != nil {
			return err
		}
		a.println(cli.FormatSuccess(fmt.Sprintf("Added card %s (%s)", card.Name, shortID(card.ID))))
		return nil
	})

	flags.register(cmd)
	_ = cmd.MarkFlagRequired("limit")

	return cmd
}

func editCardCmd() *cobra.Command {
	var flags cardFlags
	var name string

	cmd := &cobra.Command{
		Use:   "edit CARD",
		Short: "Change a card's name, limit, days or color",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = run(func(ctx context.Context, a *app, args []string) error {
		id, err := a.cardID(ctx, args[0])
		if err != nil {
			return err
		}
		cards, err := a.cards.ListCards(ctx)
		if err != nil {
			return err
		}
		var current *model.CreditCard
		for i := range cards {
			if cards[i].ID == id {
				current = &cards[i]
			}
		}
		if current == nil {
			return common.NotFoundf("card %q", args[0])
		}

		base := credit.CardRequest{
			Name:        current.Name,
			Limit:       current.Limit,
			Color:       current.Color,
			DueDate:     current.DueDate,
			ClosingDate: current.ClosingDate,
		}
		if name != "" {
			base.Name = name
		}
		req, err := flags.request(cmd, base)
		if err != nil {
			return err
		}
		if _, err := a.cards.EditCard(ctx, id, req); err != nil {
			return err
		}
		a.println(cli.FormatSuccess("Updated card " + req.Name))
		return nil
	})

	flags.register(cmd)
	cmd.Flags().StringVar(&name, "name", "", "New name")

	return cmd
}

func deleteCardCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete CARD",
		Short: "Delete a card and all of its purchases",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(ctx context.Context, a *app, args []string) error {
			id, err := a.cardID(ctx, args[0])
			if err != nil {
				return err
			}
			ok, err := a.confirm(ctx, force, "Delete card "+args[0]+" and all of its purchases?")
			if err != nil || !ok {
				return err
			}
			if err := a.cards.DeleteCard(ctx, id); err != nil {
				return err
			}
			a.println(cli.FormatSuccess("Deleted card " + args[0]))
			return nil
		}),
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")

	return cmd
}

func purchaseCmd() *cobra.Command {
	var description, category, date string
	var installments int

	cmd := &cobra.Command{
		Use:   "purchase CARD AMOUNT",
		Short: "Charge a purchase to a card in installments",
		Args:  cobra.ExactArgs(2),
		RunE: run(func(ctx context.Context, a *app, args []string) error {
			cardID, err := a.cardID(ctx, args[0])
			if err != nil {
				return err
			}
			total, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			day, err := parseDay(date)
			if err != nil {
				return err
			}

			p, err := a.cards.RecordPurchase(ctx, credit.PurchaseRequest{
				CardID:            cardID,
				TotalAmount:       total,
				InstallmentsCount: installments,
				Description:       description,
				Category:          category,
				PurchaseDate:      day,
			})
			if err != nil {
				return err
			}

			currency := a.cfg.Ledger.DefaultCurrency
			a.println(cli.FormatSuccess(fmt.Sprintf("Recorded %s in %dx of %s, first due %s (%s)",
				a.money.Format(p.TotalAmount, currency),
				p.InstallmentsCount,
				a.money.Format(p.InstallmentValue, currency),
				p.FirstDueDate,
				shortID(p.ID))))
			return nil
		}),
	}

	cmd.Flags().IntVarP(&installments, "installments", "n", 1, "Number of monthly installments")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Description")
	cmd.Flags().StringVarP(&category, "category", "c", "", "Category")
	cmd.Flags().StringVar(&date, "date", "", "Purchase date as YYYY-MM-DD (default: today)")

	return cmd
}

func listPurchasesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "purchases [CARD]",
		Short: "List purchases and their installment progress",
		Args:  cobra.MaximumNArgs(1),
		RunE: run(func(ctx context.Context, a *app, args []string) error {
			cardID := ""
			if len(args) == 1 {
				var err error
				if cardID, err = a.cardID(ctx, args[0]); err != nil {
					return err
				}
			}
			purchases, err := a.cards.ListPurchases(ctx, cardID)
			if err != nil {
				return err
			}
			if len(purchases) == 0 {
				a.println(cli.SubtitleStyle.Render("No purchases found."))
				return nil
			}

			currency := a.cfg.Ledger.DefaultCurrency
			t := cli.NewTable("ID", "DATE", "DESCRIPTION", "TOTAL", "PAID", "OUTSTANDING")
			for _, p := range purchases {
				t.Row(shortID(p.ID), p.PurchaseDate.String(), p.Description,
					a.money.Format(p.TotalAmount, currency),
					fmt.Sprintf("%d/%d", p.InstallmentsPaid, p.InstallmentsCount),
					a.money.Format(p.Outstanding(), currency))
			}
			a.println(t.String())
			return nil
		}),
	}
}

func payInstallmentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pay PURCHASE_ID INSTALLMENT",
		Short: "Mark one installment of a purchase as paid",
		Args:  cobra.ExactArgs(2),
		RunE: run(func(ctx context.Context, a *app, args []string) error {
			number, err := strconv.Atoi(args[1])
			if err != nil {
				return common.Validationf("invalid installment number %q", args[1])
			}
			purchases, err := a.cards.ListPurchases(ctx, "")
			if err != nil {
				return err
			}
			id := resolve(args[0], purchases,
				func(p model.CreditCardPurchase) string { return p.ID },
				func(p model.CreditCardPurchase) string { return p.Description })

			p, err := a.cards.MarkInstallmentPaid(ctx, id, number)
			if err != nil {
				return err
			}
			a.println(cli.FormatSuccess(fmt.Sprintf("Paid installment %d of %s (%d/%d paid)",
				number, p.Description, p.InstallmentsPaid, p.InstallmentsCount)))
			return nil
		}),
	}
}

func statementCmd() *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "statement CARD",
		Short: "Show the installments of a card due in a month",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(ctx context.Context, a *app, args []string) error {
			cardID, err := a.cardID(ctx, args[0])
			if err != nil {
				return err
			}
			year, m, err := parseMonth(month)
			if err != nil {
				return err
			}
			st, err := a.cards.CardStatement(ctx, cardID, year, m)
			if err != nil {
				return err
			}

			currency := a.cfg.Ledger.DefaultCurrency
			a.println(cli.FormatTitle(fmt.Sprintf("%s %s %d", st.Card.Name, st.Month, st.Year)))
			if len(st.Lines) == 0 {
				a.println(cli.SubtitleStyle.Render("Nothing due this month."))
				return nil
			}

			t := cli.NewTable("DUE", "DESCRIPTION", "INSTALLMENT", "AMOUNT", "PAID")
			for _, l := range st.Lines {
				paid := ""
				if l.Paid {
					paid = cli.SuccessIcon
				}
				t.Row(l.DueDate.String(), l.Description,
					fmt.Sprintf("%d/%d", l.Number, l.Count),
					a.money.Format(l.Amount, currency),
					paid)
			}
			a.println(t.String())
			a.printf("Total: %s  Unpaid: %s\n",
				a.money.Format(st.Total, currency),
				cli.ExpenseStyle.Render(a.money.Format(st.Unpaid, currency)))
			return nil
		}),
	}

	cmd.Flags().StringVarP(&month, "month", "m", "", "Month as YYYY-MM (default: current month)")

	return cmd
}
