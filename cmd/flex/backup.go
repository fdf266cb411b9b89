package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/Veraticus/finance-flex/internal/backup"
	"github.com/Veraticus/finance-flex/internal/cli"
	"github.com/Veraticus/finance-flex/internal/common"
	"github.com/spf13/cobra"
)

func backupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export or import all data as a JSON document",
		Long: `Backups are JSON documents holding every collection. Importing replaces all
current data; a checkpoint is taken first so the import can be undone with
'flex checkpoint restore'.`,
		Example: `  # Write today's backup to finance-flex-backup-YYYY-MM-DD.json
  flex backup export

  # Print the backup instead
  flex backup export -o -

  # Replace everything with a backup
  flex backup import finance-flex-backup-2026-10-01.json`,
	}

	cmd.AddCommand(exportCmd())
	cmd.AddCommand(importCmd())

	return cmd
}

func exportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all data",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, a *app, _ []string) error {
			if output == "-" {
				_, err := a.backup.ExportTo(ctx, a.out)
				return err
			}
			if output == "" {
				output = fmt.Sprintf("finance-flex-backup-%s.json", time.Now().Format("2006-01-02"))
			}

			// #nosec G304 - the path is chosen by the user
			f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", output, err)
			}
			doc, err := a.backup.ExportTo(ctx, f)
			if closeErr := f.Close(); err == nil && closeErr != nil {
				err = fmt.Errorf("failed to write %s: %w", output, closeErr)
			}
			if err != nil {
				return err
			}

			a.println(cli.FormatSuccess(fmt.Sprintf("Exported %d accounts and %d transactions to %s",
				len(doc.Accounts), len(doc.Transactions), output)))
			return nil
		}),
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file, or - for stdout")

	return cmd
}

func importCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Replace all data with a backup (FILE may be - for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(ctx context.Context, a *app, args []string) error {
			var r io.Reader = a.in
			if args[0] != "-" {
				// #nosec G304 - the path is chosen by the user
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to open %s: %w", args[0], err)
				}
				defer f.Close()
				r = f
			}

			// Decode before asking so a broken file never prompts.
			doc, err := backup.Decode(r)
			if err != nil {
				return err
			}

			if args[0] == "-" && !force {
				return fmt.Errorf("importing from stdin requires --force")
			}
			ok, err := a.confirm(ctx, force, "Replace all current data with this backup?")
			if err != nil || !ok {
				return err
			}

			if err := a.backup.Import(ctx, doc); err != nil {
				return err
			}
			common.LogInfo("imported backup", common.Fields{
				"file":        args[0],
				"app_version": doc.AppVersion,
				"exported_at": doc.ExportDate,
			})
			a.println(cli.FormatSuccess(fmt.Sprintf("Imported %d accounts and %d transactions",
				len(doc.Accounts), len(doc.Transactions))))
			return nil
		}),
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")

	return cmd
}

func resetCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all data",
		Long: `Reset removes every account, transaction, category, bill, goal and card.
A checkpoint is taken first. Run 'flex init' afterwards to seed the defaults.`,
		Args: cobra.NoArgs,
		RunE: run(func(ctx context.Context, a *app, _ []string) error {
			a.println(cli.FormatWarning("This will permanently delete all of your data."))
			ok, err := a.confirm(ctx, force, "Are you sure you want to continue?")
			if err != nil || !ok {
				if err == nil {
					a.println(cli.SubtitleStyle.Render("Reset cancelled."))
				}
				return err
			}
			if err := a.backup.Reset(ctx); err != nil {
				return err
			}
			common.LogInfo("reset all data", common.Fields{"database": a.cfg.DatabasePath})
			a.println(cli.FormatSuccess("All data deleted"))
			return nil
		}),
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")

	return cmd
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Seed default accounts, categories and bills",
		Long: `Creates the default accounts, categories and recurring bills where none
exist yet. Running it again never overwrites existing data.`,
		Args: cobra.NoArgs,
		RunE: run(func(ctx context.Context, a *app, _ []string) error {
			seeded, err := a.backup.Init(ctx, a.cfg.Ledger.DefaultCurrency)
			if err != nil {
				return err
			}
			if !seeded.Any() {
				a.println(cli.FormatInfo("Already initialized"))
				return nil
			}

			var parts []string
			if seeded.Accounts {
				parts = append(parts, "accounts")
			}
			if seeded.Categories {
				parts = append(parts, "categories")
			}
			if seeded.Bills {
				parts = append(parts, "bills")
			}
			a.println(cli.FormatSuccess("Seeded default " + strings.Join(parts, ", ")))
			return nil
		}),
	}
}

func valuesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "values",
		Short: "Hide or show money amounts in output",
	}

	for _, hide := range []bool{true, false} {
		hide := hide
		use, short := "show", "Show money amounts"
		if hide {
			use, short = "hide", "Mask money amounts"
		}
		cmd.AddCommand(&cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.NoArgs,
			RunE: run(func(ctx context.Context, a *app, _ []string) error {
				if err := a.backup.SetValuesHidden(ctx, hide); err != nil {
					return err
				}
				a.println(cli.FormatSuccess(short))
				return nil
			}),
		})
	}

	return cmd
}
