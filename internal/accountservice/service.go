// Package accountservice manages business logic layer of accounts.
package accountservice

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/ledgerstate"
)

// Repo provides data access layer interface needed by account service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package accountservice
type Repo interface {
	Save(ctx context.Context, accounts []*domain.Account) error
}

// Config holds the rules applied to newly opened accounts.
type Config struct {
	Branch      string
	MaxAccounts int
	Account     domain.AccountConfig
}

// Service facilitates account service layer logic.
type Service struct {
	repo   Repo
	state  *ledgerstate.State
	config Config
}

// New returns account service struct to manage account business logic.
func New(ar Repo, state *ledgerstate.State, config Config) *Service {
	return &Service{
		repo:   ar,
		state:  state,
		config: config,
	}
}

// Open opens a new empty account for the customer and persists the whole account set.
func (s *Service) Open(ctx context.Context, taxID string) (domain.AccountSnapshot, error) {
	l := zerolog.Ctx(ctx)

	s.state.Lock()
	defer s.state.Unlock()

	owner, ok := s.state.FindCustomer(taxID)
	if !ok {
		return domain.AccountSnapshot{}, domain.ErrCustomerNotFound
	}

	account, err := domain.OpenAccount(domain.OpenAccountParams{
		Owner:         owner,
		OwnedAccounts: len(s.state.AccountsOf(taxID)),
		MaxAccounts:   s.config.MaxAccounts,
		Number:        s.state.NextAccountNumber(),
		Branch:        s.config.Branch,
		Config:        s.config.Account,
	})
	if err != nil {
		l.Info().Err(err).Str("tax_id", taxID).Send()
		return domain.AccountSnapshot{}, err
	}

	undo := s.state.AddAccount(account)

	if err := s.repo.Save(ctx, s.state.Accounts()); err != nil {
		undo()
		l.Error().Err(err).Int("account", account.Number()).Msg("account opening discarded")
		return domain.AccountSnapshot{}, domain.ErrPersistenceUnavailable
	}

	l.Info().Str("tax_id", taxID).Str("account", account.DisplayNumber()).Msg("account opened")

	return account.Snapshot(), nil
}

// Get returns the first account of the customer.
func (s *Service) Get(ctx context.Context, taxID string) (domain.AccountSnapshot, error) {
	s.state.Lock()
	defer s.state.Unlock()

	account, err := s.firstAccount(taxID)
	if err != nil {
		return domain.AccountSnapshot{}, err
	}

	return account.Snapshot(), nil
}

// List returns the accounts owned by the customer in opening order.
func (s *Service) List(ctx context.Context, taxID string) ([]domain.AccountSnapshot, error) {
	s.state.Lock()
	defer s.state.Unlock()

	if _, ok := s.state.FindCustomer(taxID); !ok {
		return nil, domain.ErrCustomerNotFound
	}

	return snapshots(s.state.AccountsOf(taxID)), nil
}

// ListAll returns every account in opening order.
func (s *Service) ListAll(ctx context.Context) []domain.AccountSnapshot {
	s.state.Lock()
	defer s.state.Unlock()

	return snapshots(s.state.Accounts())
}

// Statement returns the statement of the first account of the customer.
func (s *Service) Statement(ctx context.Context, taxID string) (domain.Statement, error) {
	s.state.Lock()
	defer s.state.Unlock()

	account, err := s.firstAccount(taxID)
	if err != nil {
		return domain.Statement{}, err
	}

	return account.Statement(), nil
}

func (s *Service) firstAccount(taxID string) (*domain.Account, error) {
	if _, ok := s.state.FindCustomer(taxID); !ok {
		return nil, domain.ErrCustomerNotFound
	}

	return s.state.FirstAccount(taxID)
}

func snapshots(accounts []*domain.Account) []domain.AccountSnapshot {
	result := make([]domain.AccountSnapshot, len(accounts))
	for i, a := range accounts {
		result[i] = a.Snapshot()
	}

	return result
}
