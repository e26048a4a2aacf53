// Package accountrepo manages repository layer of accounts.
package accountrepo

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/datepkg"
	"github.com/go-petr/pet-ledger/pkg/filepkg"
)

type entryRecord struct {
	Kind      string  `json:"kind"`
	Amount    float64 `json:"amount"`
	Timestamp string  `json:"timestamp"`
}

type accountRecord struct {
	Number          int           `json:"account_number"`
	Branch          string        `json:"branch,omitempty"`
	OwnerTaxID      string        `json:"owner_tax_id"`
	Balance         float64       `json:"balance"`
	History         []entryRecord `json:"history"`
	WithdrawalLimit *float64      `json:"withdrawal_limit,omitempty"`
	MaxWithdrawals  *int          `json:"max_withdrawals_per_period,omitempty"`
}

// Money is stored as a JSON number and read back to whole cents.
func toFloat(d decimal.Decimal) float64 {
	return d.Round(domain.AmountPlaces).InexactFloat64()
}

func fromFloat(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f).Round(domain.AmountPlaces)
}

func newRecord(a *domain.Account) accountRecord {
	cfg := a.Config()
	limit := toFloat(cfg.WithdrawalLimit)
	maxWithdrawals := cfg.MaxWithdrawals

	entries := a.Entries()
	history := make([]entryRecord, len(entries))

	for i, e := range entries {
		history[i] = entryRecord{
			Kind:      string(e.Kind),
			Amount:    toFloat(e.Amount),
			Timestamp: datepkg.FormatTimestamp(e.Timestamp),
		}
	}

	return accountRecord{
		Number:          a.Number(),
		Branch:          a.Branch(),
		OwnerTaxID:      a.Owner().TaxID,
		Balance:         toFloat(a.Balance()),
		History:         history,
		WithdrawalLimit: &limit,
		MaxWithdrawals:  &maxWithdrawals,
	}
}

// Defaults fill the fields older account records do not carry.
type Defaults struct {
	Branch string
	Config domain.AccountConfig
}

// RepoJSON keeps accounts with their inlined history in a single JSON document.
type RepoJSON struct {
	path     string
	defaults Defaults
}

// NewRepoJSON returns account RepoJSON storing the document at path.
func NewRepoJSON(path string, defaults Defaults) *RepoJSON {
	return &RepoJSON{
		path:     path,
		defaults: defaults,
	}
}

// Load returns the stored accounts bound to their owners among customers.
// Accounts whose owner is unknown are dropped. An absent, empty or unreadable
// document yields no accounts.
func (r *RepoJSON) Load(ctx context.Context, customers []domain.Customer) ([]*domain.Account, error) {
	l := zerolog.Ctx(ctx)

	var records []accountRecord

	if err := filepkg.ReadJSON(r.path, &records); err != nil {
		if filepkg.IsNoData(err) {
			l.Info().Str("path", r.path).Msg("no stored accounts")
		} else {
			l.Warn().Err(err).Str("path", r.path).Msg("cannot read accounts, starting empty")
		}

		return nil, nil
	}

	owners := make(map[string]domain.Customer, len(customers))
	for _, c := range customers {
		owners[c.TaxID] = c
	}

	accounts := make([]*domain.Account, 0, len(records))

	for _, rec := range records {
		owner, ok := owners[rec.OwnerTaxID]
		if !ok {
			l.Debug().Int("account", rec.Number).Str("owner", rec.OwnerTaxID).Msg("dropping account of unknown owner")
			continue
		}

		a := r.restore(ctx, rec, owner)
		if !a.Reconciles() {
			l.Warn().Int("account", rec.Number).Str("balance", a.Balance().String()).Msg("stored balance does not match history")
		}

		accounts = append(accounts, a)
	}

	return accounts, nil
}

func (r *RepoJSON) restore(ctx context.Context, rec accountRecord, owner domain.Customer) *domain.Account {
	l := zerolog.Ctx(ctx)

	cfg := r.defaults.Config
	if rec.WithdrawalLimit != nil {
		cfg.WithdrawalLimit = fromFloat(*rec.WithdrawalLimit)
	}

	if rec.MaxWithdrawals != nil {
		cfg.MaxWithdrawals = *rec.MaxWithdrawals
	}

	branch := rec.Branch
	if branch == "" {
		branch = r.defaults.Branch
	}

	entries := make([]domain.Entry, 0, len(rec.History))

	for _, h := range rec.History {
		kind := domain.EntryKind(h.Kind)
		if !kind.Valid() {
			l.Warn().Int("account", rec.Number).Str("kind", h.Kind).Msg("skipping entry of unknown kind")
			continue
		}

		// An unparsable timestamp is kept as the zero time.
		ts, _ := datepkg.ParseTimestamp(h.Timestamp)

		entries = append(entries, domain.Entry{
			Kind:      kind,
			Amount:    fromFloat(h.Amount),
			Timestamp: ts,
		})
	}

	return domain.RestoreAccount(domain.RestoreAccountParams{
		Owner:   owner,
		Number:  rec.Number,
		Branch:  branch,
		Balance: fromFloat(rec.Balance),
		Config:  cfg,
		Entries: entries,
	})
}

// Save overwrites the stored accounts with accounts.
func (r *RepoJSON) Save(ctx context.Context, accounts []*domain.Account) error {
	l := zerolog.Ctx(ctx)

	records := make([]accountRecord, len(accounts))
	for i, a := range accounts {
		records[i] = newRecord(a)
	}

	start := time.Now()

	if err := filepkg.WriteJSON(r.path, records); err != nil {
		l.Error().Err(err).Str("path", r.path).Send()
		return fmt.Errorf("%w: saving accounts: %v", domain.ErrPersistenceUnavailable, err)
	}

	l.Debug().Int("accounts", len(records)).Dur("took", time.Since(start)).Msg("accounts saved")

	return nil
}
