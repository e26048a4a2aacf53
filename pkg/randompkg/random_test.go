package randompkg

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-ledger/pkg/datepkg"
	"github.com/go-petr/pet-ledger/pkg/taxidpkg"
)

func TestTaxID(t *testing.T) {
	t.Parallel()

	for i := 0; i < 20; i++ {
		if id := TaxID(); !taxidpkg.IsValid(id) {
			t.Errorf("TaxID() = %q, want valid tax ID", id)
		}
	}
}

func TestBirthdate(t *testing.T) {
	t.Parallel()

	for i := 0; i < 20; i++ {
		if d := Birthdate(); !datepkg.IsValidDate(d) {
			t.Errorf("Birthdate() = %q, want dd-mm-yyyy date", d)
		}
	}
}

func TestMoneyAmountBetween(t *testing.T) {
	t.Parallel()

	min, max := decimal.NewFromInt(10), decimal.NewFromInt(20)

	for i := 0; i < 20; i++ {
		got := MoneyAmountBetween(10, 20)
		if got.LessThan(min) || got.GreaterThan(max) {
			t.Errorf("MoneyAmountBetween(10, 20) = %v, out of range", got)
		}

		if got.Exponent() < -2 {
			t.Errorf("MoneyAmountBetween(10, 20) = %v, want at most 2 decimals", got)
		}
	}
}
