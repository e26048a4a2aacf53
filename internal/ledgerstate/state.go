// Package ledgerstate holds the in-memory customers and accounts of the ledger.
package ledgerstate

import (
	"slices"
	"sync"

	"github.com/go-petr/pet-ledger/internal/domain"
)

// State is the process wide ledger state.
//
// Methods other than Lock and Unlock expect the caller to hold the lock for the
// whole load, mutate and save sequence.
type State struct {
	mu        sync.Mutex
	customers []domain.Customer
	byTaxID   map[string]int
	accounts  []*domain.Account
}

// New returns the state built from previously loaded customers and accounts.
// Customers with a repeated tax ID are ignored after the first one.
func New(customers []domain.Customer, accounts []*domain.Account) *State {
	s := &State{
		byTaxID: make(map[string]int, len(customers)),
	}

	for _, c := range customers {
		if _, ok := s.byTaxID[c.TaxID]; ok {
			continue
		}

		s.byTaxID[c.TaxID] = len(s.customers)
		s.customers = append(s.customers, c)
	}

	for _, a := range accounts {
		if _, ok := s.byTaxID[a.Owner().TaxID]; ok {
			s.accounts = append(s.accounts, a)
		}
	}

	return s
}

// Lock acquires the state lock.
func (s *State) Lock() { s.mu.Lock() }

// Unlock releases the state lock.
func (s *State) Unlock() { s.mu.Unlock() }

// FindCustomer returns the customer with the exact tax ID.
func (s *State) FindCustomer(taxID string) (domain.Customer, bool) {
	i, ok := s.byTaxID[taxID]
	if !ok {
		return domain.Customer{}, false
	}

	return s.customers[i], true
}

// AddCustomer adds c to the state. The returned undo func removes it again.
func (s *State) AddCustomer(c domain.Customer) (undo func(), err error) {
	if _, ok := s.byTaxID[c.TaxID]; ok {
		return nil, domain.ErrCustomerAlreadyExists
	}

	s.byTaxID[c.TaxID] = len(s.customers)
	s.customers = append(s.customers, c)

	undo = func() {
		delete(s.byTaxID, c.TaxID)
		s.customers = s.customers[:len(s.customers)-1]
	}

	return undo, nil
}

// Customers returns all customers in registration order.
func (s *State) Customers() []domain.Customer {
	return slices.Clone(s.customers)
}

// Accounts returns all accounts in opening order.
func (s *State) Accounts() []*domain.Account {
	return slices.Clone(s.accounts)
}

// AccountsOf returns the accounts owned by the customer in opening order.
func (s *State) AccountsOf(taxID string) []*domain.Account {
	var owned []*domain.Account

	for _, a := range s.accounts {
		if a.Owner().TaxID == taxID {
			owned = append(owned, a)
		}
	}

	return owned
}

// FirstAccount returns the first account opened by the customer.
func (s *State) FirstAccount(taxID string) (*domain.Account, error) {
	for _, a := range s.accounts {
		if a.Owner().TaxID == taxID {
			return a, nil
		}
	}

	return nil, domain.ErrAccountNotFound
}

// AddAccount adds a to the state. The returned undo func removes it again.
func (s *State) AddAccount(a *domain.Account) (undo func()) {
	s.accounts = append(s.accounts, a)

	return func() {
		s.accounts = s.accounts[:len(s.accounts)-1]
	}
}

// NextAccountNumber returns the number for a new account, one above the highest in use.
func (s *State) NextAccountNumber() int {
	n := 0
	for _, a := range s.accounts {
		n = max(n, a.Number())
	}

	return n + 1
}
