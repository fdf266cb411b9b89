package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Veraticus/finance-flex/internal/backup"
	"github.com/Veraticus/finance-flex/internal/bills"
	"github.com/Veraticus/finance-flex/internal/category"
	"github.com/Veraticus/finance-flex/internal/cli"
	"github.com/Veraticus/finance-flex/internal/common"
	"github.com/Veraticus/finance-flex/internal/config"
	"github.com/Veraticus/finance-flex/internal/credit"
	"github.com/Veraticus/finance-flex/internal/ledger"
	"github.com/Veraticus/finance-flex/internal/model"
	"github.com/Veraticus/finance-flex/internal/savings"
	"github.com/Veraticus/finance-flex/internal/storage"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// reportError prints the error a command failed with.
func reportError(w io.Writer, err error) {
	fmt.Fprintln(w, cli.FormatError(err.Error()))
}

// app wires the engines over one open store for the duration of a command.
type app struct {
	store       *storage.SQLiteStorage
	checkpoints *storage.CheckpointManager
	cfg         *config.Config
	ledger      *ledger.Ledger
	goals       *savings.Engine
	cards       *credit.Engine
	categories  *category.Registry
	bills       *bills.Tracker
	backup      *backup.Service
	money       cli.Money
	in          io.Reader
	out         io.Writer
}

// initStorage opens and migrates the configured database.
func initStorage(ctx context.Context, cfg *config.Config) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(cfg.DatabasePath, storage.WithRetry(cfg.Retry))
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

func openApp(ctx context.Context, in io.Reader, out io.Writer) (*app, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}

	store, err := initStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	a := &app{
		store:      store,
		cfg:        cfg,
		ledger:     ledger.New(store, cfg.Ledger),
		goals:      savings.New(store),
		cards:      credit.New(store, cfg.Credit),
		categories: category.New(store),
		bills:      bills.New(store),
		in:         in,
		out:        out,
	}

	var opts []backup.Option
	if !store.InMemory() {
		a.checkpoints, err = store.NewCheckpointManager()
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to create checkpoint manager: %w", err)
		}
		opts = append(opts, backup.WithCheckpointer(a.checkpoints))
	}
	a.backup = backup.New(store, version, opts...)

	hidden, err := a.backup.ValuesHidden(ctx)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	a.money = cli.Money{Hidden: hidden}

	return a, nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		common.LogError(err, "failed to close database", common.Fields{"path": a.cfg.DatabasePath})
	}
}

func (a *app) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(a.out, format, args...)
}

func (a *app) println(args ...any) {
	_, _ = fmt.Fprintln(a.out, args...)
}

// run opens the app, runs fn and maps engine errors to user messages.
func run(fn func(ctx context.Context, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
		if err != nil {
			return common.Describe(err)
		}
		defer a.close()

		common.LogDebug("running command", common.Fields{
			"command":  cmd.CommandPath(),
			"database": a.cfg.DatabasePath,
		})
		return common.Describe(fn(ctx, a, args))
	}
}

func parseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, common.Validationf("invalid amount %q", s)
	}
	return amount, nil
}

// parseDay parses an optional YYYY-MM-DD date; empty yields the zero Day.
func parseDay(s string) (model.Day, error) {
	if strings.TrimSpace(s) == "" {
		return model.Day{}, nil
	}
	d, err := model.ParseDay(s)
	if err != nil {
		return model.Day{}, common.Validationf("%v", err)
	}
	return d, nil
}

// parseMonth parses an optional YYYY-MM month; empty yields the current month.
func parseMonth(s string) (int, time.Month, error) {
	if strings.TrimSpace(s) == "" {
		now := time.Now()
		return now.Year(), now.Month(), nil
	}
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return 0, 0, common.Validationf("invalid month %q: expected YYYY-MM", s)
	}
	return t.Year(), t.Month(), nil
}

// resolve maps a reference given on the command line to an ID. References
// match an ID exactly, a name case-insensitively, or a unique ID prefix;
// unknown references are returned unchanged so the engines report them.
func resolve[T any](ref string, items []T, id, name func(T) string) string {
	for _, item := range items {
		if id(item) == ref {
			return ref
		}
	}
	for _, item := range items {
		if strings.EqualFold(name(item), ref) {
			return id(item)
		}
	}

	match := ""
	for _, item := range items {
		if strings.HasPrefix(id(item), ref) {
			if match != "" {
				return ref
			}
			match = id(item)
		}
	}
	if match != "" {
		return match
	}
	return ref
}

func (a *app) accountID(ctx context.Context, ref string) (string, error) {
	if ref == "" {
		return "", nil
	}
	accounts, err := a.ledger.ListAccounts(ctx)
	if err != nil {
		return "", err
	}
	return resolve(ref, accounts,
		func(acc model.Account) string { return acc.ID },
		func(acc model.Account) string { return acc.Name }), nil
}

func (a *app) goalID(ctx context.Context, ref string) (string, error) {
	goals, err := a.goals.ListGoals(ctx)
	if err != nil {
		return "", err
	}
	return resolve(ref, goals,
		func(g model.PiggyBank) string { return g.ID },
		func(g model.PiggyBank) string { return g.Name }), nil
}

func (a *app) cardID(ctx context.Context, ref string) (string, error) {
	cards, err := a.cards.ListCards(ctx)
	if err != nil {
		return "", err
	}
	return resolve(ref, cards,
		func(c model.CreditCard) string { return c.ID },
		func(c model.CreditCard) string { return c.Name }), nil
}

func (a *app) accountNames(ctx context.Context) (map[string]model.Account, error) {
	accounts, err := a.ledger.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]model.Account, len(accounts))
	for _, acc := range accounts {
		byID[acc.ID] = acc
	}
	return byID, nil
}

// confirm asks before a destructive operation unless force is set.
func (a *app) confirm(ctx context.Context, force bool, question string) (bool, error) {
	if force {
		return true, nil
	}
	return cli.NewPrompter(a.in, a.out).Confirm(ctx, question)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
