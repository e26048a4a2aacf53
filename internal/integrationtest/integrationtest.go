// Package integrationtest provides db helpers used in integration tests.
package integrationtest

import (
	"context"
	"database/sql"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/cmd/httpserver"
	"github.com/go-petr/pet-ledger/internal/bootstrap"
	"github.com/go-petr/pet-ledger/internal/middleware"
	"github.com/go-petr/pet-ledger/pkg/configpkg"
	"github.com/go-petr/pet-ledger/pkg/dbpkg"
)

// SetupServer returns a test server backed by the postgres store.
// The database is flushed once the test is done.
func SetupServer(t *testing.T, root string) *httpserver.Server {
	t.Helper()

	config, err := configpkg.Load(root + "/configs")
	if err != nil {
		t.Fatalf(`configpkg.Load(%q) returned error: %v`, root+"/configs", err)
	}

	config.StoreDriver = configpkg.StorePostgres
	config.MigrationURL = "file://" + root + "/db/migration"

	zerolog.SetGlobalLevel(zerolog.FatalLevel)

	logger := middleware.GetLogger(config)

	ledger, err := bootstrap.New(context.Background(), config)
	if err != nil {
		t.Fatalf(`bootstrap.New(ctx, config) returned error: %v`, err)
	}

	t.Cleanup(func() {
		Flush(t, ledger.DB())

		if err := ledger.Close(); err != nil {
			t.Fatalf("ledger.Close() failed: %v", err)
		}
	})

	gin.SetMode(gin.ReleaseMode)

	server, err := httpserver.New(ledger, logger, config)
	if err != nil {
		t.Fatalf(`httpserver.New(ledger, logger, config) returned error: %v`, err)
	}

	return server
}

// Flush flushes all ledger tables without droping.
func Flush(t *testing.T, db *sql.DB) {
	t.Helper()

	if _, err := db.Exec(`TRUNCATE TABLE entries, accounts, customers CASCADE`); err != nil {
		t.Fatalf("db cleanup failed. err: %v", err)
	}
}

// SetupTX sets up a database transaction to be used in tests.
//
// Once the tests are done it will rollback the transaction.
func SetupTX(t *testing.T, driver, source string) *sql.Tx {
	t.Helper()

	db, err := dbpkg.Setup(driver, source)
	if err != nil {
		t.Fatalf("db initialization failed. err: %v", err)
	}

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("db.Begin() failed: %v", err)
	}

	t.Cleanup(func() {
		if err := tx.Rollback(); err != nil {
			t.Fatalf("tx.Rollback() failed: %v", err)
		}
		if err := db.Close(); err != nil {
			t.Fatalf("db.Close() failed: %v", err)
		}
	})

	return tx
}
