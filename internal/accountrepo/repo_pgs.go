package accountrepo

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/dbpkg"
)

// RepoPGS keeps accounts and their entries in PostgreSQL.
type RepoPGS struct {
	db     dbpkg.SQLInterface
	period domain.WithdrawalPeriod
}

// NewRepoPGS returns account RepoPGS. Restored accounts count withdrawals over period.
func NewRepoPGS(db dbpkg.SQLInterface, period domain.WithdrawalPeriod) *RepoPGS {
	return &RepoPGS{
		db:     db,
		period: period,
	}
}

const listAccountsQuery = `
SELECT
	number, branch, owner_tax_id, balance, withdrawal_limit, max_withdrawals_per_period
FROM accounts
ORDER BY position
`

const listEntriesQuery = `
SELECT
	account_number, kind, amount, created_at
FROM entries
ORDER BY account_number, seq
`

type accountRow struct {
	number     int
	branch     string
	ownerTaxID string
	balance    decimal.Decimal
	config     domain.AccountConfig
}

// Load returns the stored accounts bound to their owners among customers.
// Accounts whose owner is unknown are dropped.
func (r *RepoPGS) Load(ctx context.Context, customers []domain.Customer) ([]*domain.Account, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.loadAccounts(ctx)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, fmt.Errorf("%w: loading accounts: %v", domain.ErrPersistenceUnavailable, err)
	}

	entries, err := r.loadEntries(ctx)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, fmt.Errorf("%w: loading entries: %v", domain.ErrPersistenceUnavailable, err)
	}

	owners := make(map[string]domain.Customer, len(customers))
	for _, c := range customers {
		owners[c.TaxID] = c
	}

	accounts := make([]*domain.Account, 0, len(rows))

	for _, row := range rows {
		owner, ok := owners[row.ownerTaxID]
		if !ok {
			l.Debug().Int("account", row.number).Str("owner", row.ownerTaxID).Msg("dropping account of unknown owner")
			continue
		}

		accounts = append(accounts, domain.RestoreAccount(domain.RestoreAccountParams{
			Owner:   owner,
			Number:  row.number,
			Branch:  row.branch,
			Balance: row.balance,
			Config:  row.config,
			Entries: entries[row.number],
		}))
	}

	return accounts, nil
}

func (r *RepoPGS) loadAccounts(ctx context.Context) ([]accountRow, error) {
	rows, err := r.db.QueryContext(ctx, listAccountsQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []accountRow

	for rows.Next() {
		row := accountRow{config: domain.AccountConfig{Period: r.period}}

		err := rows.Scan(
			&row.number,
			&row.branch,
			&row.ownerTaxID,
			&row.balance,
			&row.config.WithdrawalLimit,
			&row.config.MaxWithdrawals,
		)
		if err != nil {
			return nil, err
		}

		items = append(items, row)
	}

	return items, rows.Err()
}

func (r *RepoPGS) loadEntries(ctx context.Context) (map[int][]domain.Entry, error) {
	rows, err := r.db.QueryContext(ctx, listEntriesQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make(map[int][]domain.Entry)

	for rows.Next() {
		var (
			number int
			kind   string
			e      domain.Entry
		)

		if err := rows.Scan(&number, &kind, &e.Amount, &e.Timestamp); err != nil {
			return nil, err
		}

		e.Kind = domain.EntryKind(kind)
		e.Timestamp = e.Timestamp.In(time.Local)
		entries[number] = append(entries[number], e)
	}

	return entries, rows.Err()
}

const (
	deleteAccountsQuery = `DELETE FROM accounts`

	insertAccountQuery = `
INSERT INTO
	accounts (number, branch, owner_tax_id, balance, withdrawal_limit, max_withdrawals_per_period, position)
VALUES
	($1, $2, $3, $4, $5, $6, $7)
`

	insertEntryQuery = `
INSERT INTO
	entries (account_number, seq, kind, amount, created_at)
VALUES
	($1, $2, $3, $4, $5)
`
)

// Save overwrites the stored accounts and entries with accounts inside one transaction.
func (r *RepoPGS) Save(ctx context.Context, accounts []*domain.Account) error {
	l := zerolog.Ctx(ctx)

	start := time.Now()

	err := dbpkg.RunInTx(ctx, r.db, func(q dbpkg.SQLInterface) error {
		// Entries go with their accounts through ON DELETE CASCADE.
		if _, err := q.ExecContext(ctx, deleteAccountsQuery); err != nil {
			return err
		}

		for i, a := range accounts {
			cfg := a.Config()

			_, err := q.ExecContext(ctx, insertAccountQuery,
				a.Number(), a.Branch(), a.Owner().TaxID, a.Balance(), cfg.WithdrawalLimit, cfg.MaxWithdrawals, i)
			if err != nil {
				return err
			}

			for seq, e := range a.Entries() {
				_, err := q.ExecContext(ctx, insertEntryQuery, a.Number(), seq, string(e.Kind), e.Amount, e.Timestamp)
				if err != nil {
					return err
				}
			}
		}

		return nil
	})
	if err != nil {
		l.Error().Err(err).Send()
		return fmt.Errorf("%w: saving accounts: %v", domain.ErrPersistenceUnavailable, err)
	}

	l.Debug().Int("accounts", len(accounts)).Dur("took", time.Since(start)).Msg("accounts saved")

	return nil
}
