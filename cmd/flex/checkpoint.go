package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/finance-flex/internal/cli"
	"github.com/Veraticus/finance-flex/internal/service"
	"github.com/Veraticus/finance-flex/internal/storage"
	"github.com/spf13/cobra"
)

func checkpointCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checkpoint",
		Short: "Manage database checkpoints",
		Long: `Create, list, restore, and delete database checkpoints.

Checkpoints are snapshots of the database file. One is taken automatically
before every import and reset.`,
		Example: `  # Create a checkpoint before a cleanup
  flex checkpoint create --tag before-cleanup

  # List all checkpoints
  flex checkpoint list

  # Restore from a checkpoint
  flex checkpoint restore before-cleanup`,
	}

	cmd.AddCommand(createCheckpointCmd())
	cmd.AddCommand(listCheckpointsCmd())
	cmd.AddCommand(restoreCheckpointCmd())
	cmd.AddCommand(deleteCheckpointCmd())

	return cmd
}

func (a *app) checkpointManager() (*storage.CheckpointManager, error) {
	if a.checkpoints == nil {
		return nil, errors.New("checkpoints are not available for in-memory databases")
	}
	return a.checkpoints, nil
}

func (a *app) findCheckpoint(ctx context.Context, id string) (*storage.CheckpointMetadata, error) {
	manager, err := a.checkpointManager()
	if err != nil {
		return nil, err
	}
	checkpoints, err := manager.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range checkpoints {
		if checkpoints[i].ID == id {
			return &checkpoints[i], nil
		}
	}
	return nil, storage.ErrCheckpointNotFound
}

func createCheckpointCmd() *cobra.Command {
	var tag, description string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new checkpoint",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, a *app, _ []string) error {
			manager, err := a.checkpointManager()
			if err != nil {
				return err
			}
			info, err := manager.Create(ctx, tag, description, false)
			if err != nil {
				return fmt.Errorf("failed to create checkpoint: %w", err)
			}

			a.printf("%s Created checkpoint %s (%s)\n",
				cli.SuccessStyle.Render(cli.SuccessIcon),
				cli.InfoStyle.Render(info.ID),
				formatFileSize(info.FileSize))
			if info.Description != "" {
				a.printf("  Description: %s\n", info.Description)
			}
			return nil
		}),
	}

	cmd.Flags().StringVarP(&tag, "tag", "t", "", "Checkpoint tag/name (auto-generated if not provided)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Description of the checkpoint")

	return cmd
}

func listCheckpointsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all checkpoints",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, a *app, _ []string) error {
			manager, err := a.checkpointManager()
			if err != nil {
				return err
			}
			checkpoints, err := manager.List(ctx)
			if err != nil {
				return fmt.Errorf("failed to list checkpoints: %w", err)
			}
			if len(checkpoints) == 0 {
				a.println(cli.SubtitleStyle.Render("No checkpoints found."))
				return nil
			}

			t := cli.NewTable("NAME", "CREATED", "SIZE", "ACCOUNTS", "TRANSACTIONS", "TYPE", "DESCRIPTION")
			for _, cp := range checkpoints {
				typeLabel := "manual"
				if cp.IsAuto {
					typeLabel = "auto"
				}
				t.Row(cp.ID,
					formatRelativeTime(cp.CreatedAt),
					formatFileSize(cp.FileSize),
					fmt.Sprint(cp.ItemCounts[string(service.CollectionAccounts)]),
					fmt.Sprint(cp.ItemCounts[string(service.CollectionTransactions)]),
					typeLabel,
					cp.Description)
			}
			a.println(t.String())
			return nil
		}),
	}
}

func restoreCheckpointCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "restore CHECKPOINT",
		Short: "Restore database from a checkpoint",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(ctx context.Context, a *app, args []string) error {
			info, err := a.findCheckpoint(ctx, args[0])
			if err != nil {
				return err
			}

			if !force {
				a.printf("%s This will replace your current database with checkpoint %s.\n",
					cli.WarningStyle.Render(cli.WarningIcon),
					cli.InfoStyle.Render(info.ID))
				a.printf("  Created: %s\n", info.CreatedAt.Format("2006-01-02 15:04:05"))
				if info.Description != "" {
					a.printf("  Description: %s\n", info.Description)
				}
			}
			ok, err := a.confirm(ctx, force, "Continue?")
			if err != nil || !ok {
				if err == nil {
					a.println(cli.SubtitleStyle.Render("Restore cancelled."))
				}
				return err
			}

			if err := a.checkpoints.Restore(ctx, info.ID); err != nil {
				return fmt.Errorf("failed to restore checkpoint: %w", err)
			}
			a.printf("%s Restored from checkpoint %s\n",
				cli.SuccessStyle.Render(cli.SuccessIcon),
				cli.InfoStyle.Render(info.ID))
			return nil
		}),
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")

	return cmd
}

func deleteCheckpointCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete CHECKPOINT",
		Short: "Delete a checkpoint",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(ctx context.Context, a *app, args []string) error {
			info, err := a.findCheckpoint(ctx, args[0])
			if err != nil {
				return err
			}
			ok, err := a.confirm(ctx, force, fmt.Sprintf("Delete checkpoint %s (%s)?", info.ID, formatFileSize(info.FileSize)))
			if err != nil || !ok {
				return err
			}
			if err := a.checkpoints.Delete(ctx, info.ID); err != nil {
				return fmt.Errorf("failed to delete checkpoint: %w", err)
			}
			a.printf("%s Deleted checkpoint %s\n",
				cli.SuccessStyle.Render(cli.SuccessIcon),
				cli.InfoStyle.Render(info.ID))
			return nil
		}),
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")

	return cmd
}

func formatFileSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}

func formatRelativeTime(t time.Time) string {
	switch d := time.Since(t); {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d.Minutes()), "minute") + " ago"
	case d < 24*time.Hour:
		return plural(int(d.Hours()), "hour") + " ago"
	case d < 48*time.Hour:
		return "yesterday"
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%d days ago", int(d.Hours()/24))
	default:
		return t.Format("2006-01-02 15:04")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
