package test

import (
	"context"
	"testing"

	"github.com/go-petr/pet-ledger/internal/customerrepo"
	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/dbpkg"
)

// SeedCustomer stores a random customer inside a test transaction.
func SeedCustomer(t *testing.T, tx dbpkg.SQLInterface) domain.Customer {
	t.Helper()

	c := RandomCustomer()

	if err := customerrepo.NewRepoPGS(tx).Save(context.Background(), []domain.Customer{c}); err != nil {
		t.Fatalf("customerRepo.Save(context.Background(), %+v) returned error: %v", c, err)
	}

	return c
}
