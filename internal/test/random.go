// Package test provides shared test helpers.
package test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/randompkg"
)

// RandomCustomer returns a random customer without a password.
func RandomCustomer() domain.Customer {
	return domain.Customer{
		Name:      randompkg.Name(),
		Birthdate: randompkg.Birthdate(),
		TaxID:     randompkg.TaxID(),
		Address:   randompkg.Address(),
		CreatedAt: time.Now().Truncate(time.Second),
	}
}

// RandomAccount returns an empty account with the default rules owned by the given owner.
func RandomAccount(t *testing.T, owner domain.Customer, number int) *domain.Account {
	t.Helper()

	a, err := domain.OpenAccount(domain.OpenAccountParams{
		Owner:       owner,
		MaxAccounts: domain.DefaultMaxAccounts,
		Number:      number,
		Branch:      domain.DefaultBranch,
		Config:      domain.DefaultAccountConfig(),
	})
	if err != nil {
		t.Fatalf("domain.OpenAccount(%v) returned error: %v", number, err)
	}

	return a
}

// FundedAccount returns RandomAccount holding a single deposit of amount.
func FundedAccount(t *testing.T, owner domain.Customer, number int, amount string) *domain.Account {
	t.Helper()

	a := RandomAccount(t, owner, number)

	if _, err := a.Deposit(decimal.RequireFromString(amount), time.Now()); err != nil {
		t.Fatalf("a.Deposit(%v) returned error: %v", amount, err)
	}

	return a
}
