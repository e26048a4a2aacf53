// Package customerrepo manages repository layer of customers.
package customerrepo

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/datepkg"
	"github.com/go-petr/pet-ledger/pkg/filepkg"
)

type customerRecord struct {
	Name           string `json:"name"`
	Birthdate      string `json:"birthdate"`
	TaxID          string `json:"tax_id"`
	Address        string `json:"address"`
	HashedPassword string `json:"hashed_password,omitempty"`
	CreatedAt      string `json:"created_at,omitempty"`
}

func newRecord(c domain.Customer) customerRecord {
	r := customerRecord{
		Name:           c.Name,
		Birthdate:      c.Birthdate,
		TaxID:          c.TaxID,
		Address:        c.Address,
		HashedPassword: c.HashedPassword,
	}

	if !c.CreatedAt.IsZero() {
		r.CreatedAt = datepkg.FormatTimestamp(c.CreatedAt)
	}

	return r
}

func (r customerRecord) customer() domain.Customer {
	c := domain.Customer{
		Name:           r.Name,
		Birthdate:      r.Birthdate,
		TaxID:          r.TaxID,
		Address:        r.Address,
		HashedPassword: r.HashedPassword,
	}

	// An unparsable creation time is kept as the zero time.
	if ts, err := datepkg.ParseTimestamp(r.CreatedAt); err == nil {
		c.CreatedAt = ts
	}

	return c
}

// RepoJSON keeps customers in a single JSON document.
type RepoJSON struct {
	path string
}

// NewRepoJSON returns customer RepoJSON storing the document at path.
func NewRepoJSON(path string) *RepoJSON {
	return &RepoJSON{
		path: path,
	}
}

// Load returns the stored customers in stored order.
// An absent, empty or unreadable document yields no customers.
func (r *RepoJSON) Load(ctx context.Context) ([]domain.Customer, error) {
	l := zerolog.Ctx(ctx)

	var records []customerRecord

	if err := filepkg.ReadJSON(r.path, &records); err != nil {
		if filepkg.IsNoData(err) {
			l.Info().Str("path", r.path).Msg("no stored customers")
		} else {
			l.Warn().Err(err).Str("path", r.path).Msg("cannot read customers, starting empty")
		}

		return nil, nil
	}

	customers := make([]domain.Customer, 0, len(records))

	for _, rec := range records {
		if rec.TaxID == "" {
			l.Debug().Str("name", rec.Name).Msg("skipping customer without tax ID")
			continue
		}

		customers = append(customers, rec.customer())
	}

	return customers, nil
}

// Save overwrites the stored customers with customers.
func (r *RepoJSON) Save(ctx context.Context, customers []domain.Customer) error {
	l := zerolog.Ctx(ctx)

	records := make([]customerRecord, len(customers))
	for i, c := range customers {
		records[i] = newRecord(c)
	}

	start := time.Now()

	if err := filepkg.WriteJSON(r.path, records); err != nil {
		l.Error().Err(err).Str("path", r.path).Send()
		return fmt.Errorf("%w: saving customers: %v", domain.ErrPersistenceUnavailable, err)
	}

	l.Debug().Int("customers", len(records)).Dur("took", time.Since(start)).Msg("customers saved")

	return nil
}
