package customerrepo

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/dbpkg"
)

// RepoPGS keeps customers in PostgreSQL.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns customer RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const listQuery = `
SELECT
	name, birthdate, tax_id, address, hashed_password, created_at
FROM customers
ORDER BY position
`

// Load returns the stored customers in registration order.
func (r *RepoPGS) Load(ctx context.Context) ([]domain.Customer, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listQuery)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, fmt.Errorf("%w: loading customers: %v", domain.ErrPersistenceUnavailable, err)
	}
	defer rows.Close()

	var customers []domain.Customer

	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(&c.Name, &c.Birthdate, &c.TaxID, &c.Address, &c.HashedPassword, &c.CreatedAt); err != nil {
			l.Error().Err(err).Send()
			return nil, fmt.Errorf("%w: scanning customer: %v", domain.ErrPersistenceUnavailable, err)
		}

		customers = append(customers, c)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, fmt.Errorf("%w: loading customers: %v", domain.ErrPersistenceUnavailable, err)
	}

	return customers, nil
}

const upsertQuery = `
INSERT INTO
	customers (name, birthdate, tax_id, address, hashed_password, created_at, position)
VALUES
	($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (tax_id) DO UPDATE SET
	name = EXCLUDED.name,
	birthdate = EXCLUDED.birthdate,
	address = EXCLUDED.address,
	hashed_password = EXCLUDED.hashed_password,
	position = EXCLUDED.position
`

// Save writes the full customer set inside one transaction.
// Customers are never deleted, so upserting every customer overwrites the stored set.
func (r *RepoPGS) Save(ctx context.Context, customers []domain.Customer) error {
	l := zerolog.Ctx(ctx)

	err := dbpkg.RunInTx(ctx, r.db, func(q dbpkg.SQLInterface) error {
		for i, c := range customers {
			_, err := q.ExecContext(ctx, upsertQuery,
				c.Name, c.Birthdate, c.TaxID, c.Address, c.HashedPassword, c.CreatedAt, i)
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		l.Error().Err(err).Send()
		return fmt.Errorf("%w: saving customers: %v", domain.ErrPersistenceUnavailable, err)
	}

	return nil
}
