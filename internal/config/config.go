package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/Veraticus/finance-flex/internal/common"
	"github.com/Veraticus/finance-flex/internal/service"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Configuration keys.
const (
	KeyDatabasePath        = "database.path"
	KeyLogLevel            = "logging.level"
	KeyLogFormat           = "logging.format"
	KeyStrictAccountDelete = "ledger.strict_account_delete"
	KeyDefaultCurrency     = "ledger.default_currency"
	KeyEnforceLimit        = "credit.enforce_limit"
	KeyAbsorbRemainder     = "credit.absorb_remainder"
	KeyRetryAttempts       = "storage.retry_attempts"
)

// DefaultDatabasePath is used when database.path is not configured.
const DefaultDatabasePath = "$HOME/.local/share/flex/flex.db"

// Config is the resolved application configuration.
type Config struct {
	DatabasePath string
	LogLevel     string
	LogFormat    string
	Ledger       service.LedgerPolicy
	Credit       service.CreditPolicy
	Retry        service.RetryOptions
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	ledger := service.DefaultLedgerPolicy()
	credit := service.DefaultCreditPolicy()

	v.SetDefault(KeyDatabasePath, DefaultDatabasePath)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
	v.SetDefault(KeyStrictAccountDelete, ledger.StrictAccountDelete)
	v.SetDefault(KeyDefaultCurrency, ledger.DefaultCurrency)
	v.SetDefault(KeyEnforceLimit, credit.EnforceLimit)
	v.SetDefault(KeyAbsorbRemainder, credit.AbsorbRemainder)
	v.SetDefault(KeyRetryAttempts, 3)
}

// Load resolves the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		DatabasePath: ExpandPath(v.GetString(KeyDatabasePath)),
		LogLevel:     v.GetString(KeyLogLevel),
		LogFormat:    v.GetString(KeyLogFormat),
		Ledger: service.LedgerPolicy{
			DefaultCurrency:     strings.ToUpper(strings.TrimSpace(v.GetString(KeyDefaultCurrency))),
			StrictAccountDelete: v.GetBool(KeyStrictAccountDelete),
		},
		Credit: service.CreditPolicy{
			EnforceLimit:    v.GetBool(KeyEnforceLimit),
			AbsorbRemainder: v.GetBool(KeyAbsorbRemainder),
		},
		Retry: service.RetryOptions{
			MaxAttempts:  v.GetInt(KeyRetryAttempts),
			InitialDelay: 50 * time.Millisecond,
			MaxDelay:     time.Second,
			Multiplier:   2,
		},
	}

	if cfg.DatabasePath == "" {
		return nil, fmt.Errorf("%w: %s", common.ErrMissingConfig, KeyDatabasePath)
	}
	if _, err := common.ParseLevel(cfg.LogLevel); err != nil {
		return nil, err
	}
	if len(cfg.Ledger.DefaultCurrency) != 3 {
		return nil, fmt.Errorf("%w: %s must be a 3-letter code, got %q",
			common.ErrInvalidConfig, KeyDefaultCurrency, cfg.Ledger.DefaultCurrency)
	}
	if cfg.Retry.MaxAttempts < 1 {
		return nil, fmt.Errorf("%w: %s must be at least 1", common.ErrInvalidConfig, KeyRetryAttempts)
	}

	return cfg, nil
}

// LoadDotEnv loads variables from a .env file into the environment without
// overriding variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}
