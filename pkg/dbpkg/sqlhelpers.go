// Package dbpkg provides helpers to make db initialization and testing easier.
package dbpkg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // migrate driver
	_ "github.com/golang-migrate/migrate/v4/source/file"       // migration files source
)

// Setup sets up connection with database.
func Setup(driver, source string) (*sql.DB, error) {
	db, err := sql.Open(driver, source)
	if err != nil {
		return nil, err
	}

	if err = db.Ping(); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate applies all pending up migrations found at migrationURL.
func Migrate(migrationURL, source string) error {
	m, err := migrate.New(migrationURL, source)
	if err != nil {
		return fmt.Errorf("cannot create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("cannot run migrations: %w", err)
	}

	return nil
}

// ExecTx executes fn within a database transaction.
// The transaction is rolled back when fn returns an error and committed otherwise.
func ExecTx(ctx context.Context, db TxBeginner, fn func(SQLInterface) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx err: %v, rb err: %v", err, rbErr)
		}
		return err
	}

	return tx.Commit()
}

// RunInTx executes fn within a new transaction when db can begin one.
// Otherwise db is already a transaction and fn runs on it directly.
func RunInTx(ctx context.Context, db SQLInterface, fn func(SQLInterface) error) error {
	if b, ok := db.(TxBeginner); ok {
		return ExecTx(ctx, b, fn)
	}

	return fn(db)
}
