package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Veraticus/finance-flex/internal/cli"
	"github.com/Veraticus/finance-flex/internal/common"
	"github.com/spf13/cobra"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"category", "cat"},
		Short:   "Manage transaction categories",
		Long: `Categories are free-form labels. Removing one leaves transactions that
already use it unchanged.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List categories with their positions",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, a *app, _ []string) error {
			categories, err := a.categories.List(ctx)
			if err != nil {
				return err
			}
			if len(categories) == 0 {
				a.println(cli.SubtitleStyle.Render("No categories yet."))
				return nil
			}
			t := cli.NewTable("#", "CATEGORY")
			for i, c := range categories {
				t.Row(strconv.Itoa(i+1), c)
			}
			a.println(t.String())
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add NAME",
		Short: "Add a category",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(ctx context.Context, a *app, args []string) error {
			name, err := a.categories.Add(ctx, args[0])
			if err != nil {
				return err
			}
			a.println(cli.FormatSuccess("Added category " + name))
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove POSITION",
		Short: "Remove the category at a position shown by 'list'",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(ctx context.Context, a *app, args []string) error {
			position, err := strconv.Atoi(args[0])
			if err != nil {
				return common.Validationf("invalid position %q", args[0])
			}
			name, err := a.categories.Remove(ctx, position-1)
			if err != nil {
				return err
			}
			a.println(cli.FormatSuccess(fmt.Sprintf("Removed category %s", name)))
			return nil
		}),
	})

	return cmd
}
