// Package bootstrap builds the ledger services from configuration and restores their state.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	_ "github.com/lib/pq" // postgres driver
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-ledger/internal/accountrepo"
	"github.com/go-petr/pet-ledger/internal/accountservice"
	"github.com/go-petr/pet-ledger/internal/customerrepo"
	"github.com/go-petr/pet-ledger/internal/customerservice"
	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/ledgerstate"
	"github.com/go-petr/pet-ledger/internal/transactionservice"
	"github.com/go-petr/pet-ledger/pkg/configpkg"
	"github.com/go-petr/pet-ledger/pkg/dbpkg"
)

type customerStore interface {
	customerservice.Repo
	Load(ctx context.Context) ([]domain.Customer, error)
}

type accountStore interface {
	accountservice.Repo
	Load(ctx context.Context, customers []domain.Customer) ([]*domain.Account, error)
}

// Ledger holds the services sharing one ledger state.
type Ledger struct {
	Customers    *customerservice.Service
	Accounts     *accountservice.Service
	Transactions *transactionservice.Service

	db *sql.DB
}

// AccountConfig returns the rules of new accounts described by config.
func AccountConfig(config configpkg.Config) (domain.AccountConfig, error) {
	limit, err := decimal.NewFromString(config.WithdrawalLimit)
	if err != nil {
		return domain.AccountConfig{}, fmt.Errorf("invalid WITHDRAWAL_LIMIT %q: %w", config.WithdrawalLimit, err)
	}

	if !limit.IsPositive() {
		return domain.AccountConfig{}, fmt.Errorf("WITHDRAWAL_LIMIT must be positive, got %s", limit)
	}

	period, err := domain.ParseWithdrawalPeriod(config.WithdrawalPeriod)
	if err != nil {
		return domain.AccountConfig{}, err
	}

	return domain.AccountConfig{
		WithdrawalLimit: limit,
		MaxWithdrawals:  config.MaxWithdrawals,
		Period:          period,
	}, nil
}

// New opens the configured store, loads customers then accounts, and returns the services.
func New(ctx context.Context, config configpkg.Config) (*Ledger, error) {
	l := zerolog.Ctx(ctx)

	accountConfig, err := AccountConfig(config)
	if err != nil {
		return nil, err
	}

	ledger := &Ledger{}

	var (
		customers customerStore
		accounts  accountStore
	)

	switch config.StoreDriver {
	case configpkg.StorePostgres:
		db, err := dbpkg.Setup(config.DBDriver, config.DBSource)
		if err != nil {
			return nil, fmt.Errorf("cannot connect to db: %w", err)
		}

		if err := dbpkg.Migrate(config.MigrationURL, config.DBSource); err != nil {
			db.Close()
			return nil, err
		}

		ledger.db = db
		customers = customerrepo.NewRepoPGS(db)
		accounts = accountrepo.NewRepoPGS(db, accountConfig.Period)
	default:
		defaults := accountrepo.Defaults{Branch: config.BranchCode, Config: accountConfig}
		customers = customerrepo.NewRepoJSON(filepath.Join(config.DataDir, config.CustomersFile))
		accounts = accountrepo.NewRepoJSON(filepath.Join(config.DataDir, config.AccountsFile), defaults)
	}

	loadedCustomers, err := customers.Load(ctx)
	if err != nil {
		ledger.Close()
		return nil, err
	}

	loadedAccounts, err := accounts.Load(ctx, loadedCustomers)
	if err != nil {
		ledger.Close()
		return nil, err
	}

	l.Info().
		Str("store", config.StoreDriver).
		Int("customers", len(loadedCustomers)).
		Int("accounts", len(loadedAccounts)).
		Msg("ledger state restored")

	state := ledgerstate.New(loadedCustomers, loadedAccounts)

	ledger.Customers = customerservice.New(customers, state)
	ledger.Accounts = accountservice.New(accounts, state, accountservice.Config{
		Branch:      config.BranchCode,
		MaxAccounts: config.MaxAccountsPerCustomer,
		Account:     accountConfig,
	})
	ledger.Transactions = transactionservice.New(accounts, state)

	return ledger, nil
}

// DB returns the database connection of the postgres store, nil for the file store.
func (l *Ledger) DB() *sql.DB {
	return l.db
}

// Close releases the database connection of the postgres store.
func (l *Ledger) Close() error {
	if l.db == nil {
		return nil
	}

	return l.db.Close()
}
