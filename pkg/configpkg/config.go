// Package configpkg provides parsing functionality for environment variables.
package configpkg

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported store drivers.
const (
	StoreFile     = "file"
	StorePostgres = "postgres"
)

// Config stores all configuration of the application.
//
// The values are read by viper from a config file or environment variables.
type Config struct {
	Environment   string `mapstructure:"GO_ENV"`
	ServerAddress string `mapstructure:"SERVER_ADDRESS"`

	StoreDriver   string `mapstructure:"STORE_DRIVER"`
	DataDir       string `mapstructure:"DATA_DIR"`
	CustomersFile string `mapstructure:"CUSTOMERS_FILE"`
	AccountsFile  string `mapstructure:"ACCOUNTS_FILE"`
	DBDriver      string `mapstructure:"DB_DRIVER"`
	DBSource      string `mapstructure:"DB_SOURCE"`
	MigrationURL  string `mapstructure:"MIGRATION_URL"`

	TokenType           string        `mapstructure:"TOKEN_TYPE"`
	TokenSymmetricKey   string        `mapstructure:"TOKEN_SYMMETRIC_KEY"`
	AccessTokenDuration time.Duration `mapstructure:"ACCESS_TOKEN_DURATION"`

	BranchCode             string `mapstructure:"BRANCH_CODE"`
	WithdrawalLimit        string `mapstructure:"WITHDRAWAL_LIMIT"`
	MaxWithdrawals         int    `mapstructure:"MAX_WITHDRAWALS"`
	WithdrawalPeriod       string `mapstructure:"WITHDRAWAL_PERIOD"`
	MaxAccountsPerCustomer int    `mapstructure:"MAX_ACCOUNTS_PER_CUSTOMER"`

	LoginRateLimit     string   `mapstructure:"LOGIN_RATE_LIMIT"`
	CORSAllowedOrigins []string `mapstructure:"CORS_ALLOWED_ORIGINS"`
}

var defaults = map[string]any{
	"GO_ENV":                    "production",
	"SERVER_ADDRESS":            "0.0.0.0:8080",
	"STORE_DRIVER":              StoreFile,
	"DATA_DIR":                  "./data",
	"CUSTOMERS_FILE":            "customers.json",
	"ACCOUNTS_FILE":             "accounts.json",
	"DB_DRIVER":                 "postgres",
	"DB_SOURCE":                 "",
	"MIGRATION_URL":             "file://db/migration",
	"TOKEN_TYPE":                "paseto",
	"TOKEN_SYMMETRIC_KEY":       "",
	"ACCESS_TOKEN_DURATION":     "30m",
	"BRANCH_CODE":               "0001",
	"WITHDRAWAL_LIMIT":          "500.00",
	"MAX_WITHDRAWALS":           3,
	"WITHDRAWAL_PERIOD":         "daily",
	"MAX_ACCOUNTS_PER_CUSTOMER": 10,
	"LOGIN_RATE_LIMIT":          "10-M",
	"CORS_ALLOWED_ORIGINS":      []string{"*"},
}

// Load reads configuration from path/app.env, an optional .env file and environment variables.
// A missing app.env is not an error; every key has a default.
func Load(path string) (Config, error) {
	var c Config

	// .env is optional, real environment variables take precedence over it.
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return c, err
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}

	return c, c.Validate()
}

// Validate reports configuration values that cannot work together.
func (c Config) Validate() error {
	switch c.StoreDriver {
	case StoreFile:
		if c.DataDir == "" {
			return errors.New("DATA_DIR is required for the file store")
		}
	case StorePostgres:
		if c.DBSource == "" {
			return errors.New("DB_SOURCE is required for the postgres store")
		}
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.StoreDriver)
	}

	if c.MaxWithdrawals < 0 {
		return fmt.Errorf("MAX_WITHDRAWALS must not be negative, got %d", c.MaxWithdrawals)
	}

	if c.MaxAccountsPerCustomer < 1 {
		return fmt.Errorf("MAX_ACCOUNTS_PER_CUSTOMER must be positive, got %d", c.MaxAccountsPerCustomer)
	}

	return nil
}
