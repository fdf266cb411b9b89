package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Veraticus/finance-flex/internal/cli"
	"github.com/Veraticus/finance-flex/internal/savings"
	"github.com/spf13/cobra"
)

func goalsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "goals",
		Aliases: []string{"goal", "piggy"},
		Short:   "Manage savings goals",
		Long: `Savings goals track money set aside toward a target. Deposits debit an
account and withdrawals credit one, each recorded as a transaction in the
"Economias" category.`,
		Example: `  # Save for a trip, funded from an account
  flex goals add Viagem --target 5000 --account "Mercado Pago" --by 2026-12-01

  # Put money aside
  flex goals deposit Viagem 200`,
	}

	cmd.AddCommand(listGoalsCmd())
	cmd.AddCommand(addGoalCmd())
	cmd.AddCommand(editGoalCmd())
	cmd.AddCommand(deleteGoalCmd())
	cmd.AddCommand(moveGoalCmd("deposit", "Move money from an account into a goal", true))
	cmd.AddCommand(moveGoalCmd("withdraw", "Move money from a goal back to an account", false))

	return cmd
}

func listGoalsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List goals and their progress",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, a *app, _ []string) error {
			goals, err := a.goals.ListGoals(ctx)
			if err != nil {
				return err
			}
			if len(goals) == 0 {
				a.println(cli.SubtitleStyle.Render("No savings goals yet."))
				return nil
			}
			accounts, err := a.accountNames(ctx)
			if err != nil {
				return err
			}

			currency := a.cfg.Ledger.DefaultCurrency
			t := cli.NewTable("ID", "GOAL", "SAVED", "TARGET", "PROGRESS", "BY", "ACCOUNT")
			for _, g := range goals {
				t.Row(shortID(g.ID), g.Name,
					a.money.Format(g.Current, currency),
					a.money.Format(g.Target, currency),
					strconv.Itoa(g.Percentage())+"%",
					g.TargetDate.String(),
					accounts[g.Account].Name)
			}
			a.println(t.String())
			return nil
		}),
	}
}

type goalFlags struct {
	target, current, account, targetDate, color string
}

func (f *goalFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.target, "target", "", "Target amount")
	cmd.Flags().StringVar(&f.current, "current", "0", "Amount already saved")
	cmd.Flags().StringVarP(&f.account, "account", "a", "", "Linked account (ID or name)")
	cmd.Flags().StringVar(&f.targetDate, "by", "", "Target date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.color, "color", "", "Display color (hex)")
}

// request builds a GoalRequest from base, overriding the flags set on cmd.
func (f *goalFlags) request(ctx context.Context, a *app, cmd *cobra.Command, base savings.GoalRequest) (savings.GoalRequest, error) {
	req := base
	var err error
	if cmd.Flags().Changed("target") {
		if req.Target, err = parseAmount(f.target); err != nil {
			return req, err
		}
	}
	if cmd.Flags().Changed("current") {
		if req.Current, err = parseAmount(f.current); err != nil {
			return req, err
		}
	}
	if cmd.Flags().Changed("account") {
		if req.Account, err = a.accountID(ctx, f.account); err != nil {
			return req, err
		}
	}
	if cmd.Flags().Changed("by") {
		if req.TargetDate, err = parseDay(f.targetDate); err != nil {
			return req, err
		}
	}
	if cmd.Flags().Changed("color") {
		req.Color = f.color
	}
	return req, nil
}

func addGoalCmd() *cobra.Command {
	var flags goalFlags

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Create a savings goal",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = run(func(ctx context.Context, a *app, args []string) error {
		req, err := flags.request(ctx, a, cmd, savings.GoalRequest{Name: args[0]})
		if err != nil {
			return err
		}
		goal, err := a.goals.CreateGoal(ctx, req)
		if err != nil {
			return err
		}
		a.println(cli.FormatSuccess(fmt.Sprintf("Created goal %s (%s)", goal.Name, shortID(goal.ID))))
		return nil
	})

	flags.register(cmd)
	_ = cmd.MarkFlagRequired("target")

	return cmd
}

func editGoalCmd() *cobra.Command {
	var flags goalFlags
	var name string

	cmd := &cobra.Command{
		Use:   "edit GOAL",
		Short: "Change a goal's name, target, date, color or account",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = run(func(ctx context.Context, a *app, args []string) error {
		id, err := a.goalID(ctx, args[0])
		if err != nil {
			return err
		}
		goal, err := a.goals.GetGoal(ctx, id)
		if err != nil {
			return err
		}

		base := savings.GoalRequest{
			Name:       goal.Name,
			Target:     goal.Target,
			Current:    goal.Current,
			Account:    goal.Account,
			TargetDate: goal.TargetDate,
			Color:      goal.Color,
		}
		if name != "" {
			base.Name = name
		}
		req, err := flags.request(ctx, a, cmd, base)
		if err != nil {
			return err
		}
		if _, err := a.goals.EditGoal(ctx, id, req); err != nil {
			return err
		}
		a.println(cli.FormatSuccess("Updated goal " + req.Name))
		return nil
	})

	flags.register(cmd)
	cmd.Flags().StringVar(&name, "name", "", "New name")

	return cmd
}

func deleteGoalCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete GOAL",
		Short: "Delete a goal (its past transactions are kept)",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(ctx context.Context, a *app, args []string) error {
			id, err := a.goalID(ctx, args[0])
			if err != nil {
				return err
			}
			ok, err := a.confirm(ctx, force, "Delete goal "+args[0]+"?")
			if err != nil || !ok {
				return err
			}
			if err := a.goals.DeleteGoal(ctx, id); err != nil {
				return err
			}
			a.println(cli.FormatSuccess("Deleted goal " + args[0]))
			return nil
		}),
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")

	return cmd
}

func moveGoalCmd(use, short string, deposit bool) *cobra.Command {
	var account, date string

	cmd := &cobra.Command{
		Use:   use + " GOAL AMOUNT",
		Short: short,
		Long: short + `. Without --account the goal's linked account is used; a goal with
no linked account only changes its saved amount.`,
		Args: cobra.ExactArgs(2),
		RunE: run(func(ctx context.Context, a *app, args []string) error {
			goalID, err := a.goalID(ctx, args[0])
			if err != nil {
				return err
			}
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			accountID, err := a.accountID(ctx, account)
			if err != nil {
				return err
			}
			day, err := parseDay(date)
			if err != nil {
				return err
			}

			m := savings.Movement{GoalID: goalID, AccountID: accountID, Amount: amount, Date: day.Time}
			var result *savings.Result
			if deposit {
				result, err = a.goals.Deposit(ctx, m)
			} else {
				result, err = a.goals.Withdraw(ctx, m)
			}
			if err != nil {
				return err
			}

			currency := a.cfg.Ledger.DefaultCurrency
			a.println(cli.FormatSuccess(fmt.Sprintf("%s now has %s of %s (%d%%)",
				result.Goal.Name,
				a.money.Format(result.Goal.Current, currency),
				a.money.Format(result.Goal.Target, currency),
				result.Goal.Percentage())))
			if result.Transaction != nil {
				a.println(cli.SubtleStyle.Render("  recorded as transaction " + shortID(result.Transaction.ID)))
			}
			return nil
		}),
	}

	cmd.Flags().StringVarP(&account, "account", "a", "", "Account to move money from or to")
	cmd.Flags().StringVar(&date, "date", "", "Date as YYYY-MM-DD (default: today)")

	return cmd
}
