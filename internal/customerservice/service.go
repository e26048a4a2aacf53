// Package customerservice manages business logic layer of customers.
package customerservice

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/ledgerstate"
	"github.com/go-petr/pet-ledger/pkg/datepkg"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
	"github.com/go-petr/pet-ledger/pkg/passpkg"
	"github.com/go-petr/pet-ledger/pkg/taxidpkg"
)

// Repo provides data access layer interface needed by customer service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package customerservice
type Repo interface {
	Save(ctx context.Context, customers []domain.Customer) error
}

// Service facilitates customer service layer logic.
type Service struct {
	repo  Repo
	state *ledgerstate.State
	now   func() time.Time
}

// New returns customer service struct to manage customer business logic.
func New(cr Repo, state *ledgerstate.State) *Service {
	return &Service{
		repo:  cr,
		state: state,
		now:   time.Now,
	}
}

// Register adds a new customer and persists the whole customer set.
func (s *Service) Register(ctx context.Context, arg domain.RegisterCustomerParams) (domain.Customer, error) {
	l := zerolog.Ctx(ctx)

	if !taxidpkg.IsValid(arg.TaxID) {
		l.Info().Str("tax_id", arg.TaxID).Msg("invalid tax ID")
		return domain.Customer{}, domain.ErrInvalidTaxID
	}

	if !datepkg.IsValidDate(arg.Birthdate) {
		l.Info().Str("birthdate", arg.Birthdate).Msg("invalid birthdate")
		return domain.Customer{}, domain.ErrInvalidBirthdate
	}

	c := domain.Customer{
		Name:      arg.Name,
		Birthdate: arg.Birthdate,
		TaxID:     arg.TaxID,
		Address:   arg.Address,
		CreatedAt: s.now(),
	}

	if arg.Password != "" {
		hashedPassword, err := passpkg.Hash(arg.Password)
		if err != nil {
			l.Error().Err(err).Send()
			return domain.Customer{}, errorspkg.ErrInternal
		}

		c.HashedPassword = hashedPassword
	}

	s.state.Lock()
	defer s.state.Unlock()

	undo, err := s.state.AddCustomer(c)
	if err != nil {
		l.Info().Err(err).Str("tax_id", c.TaxID).Send()
		return domain.Customer{}, err
	}

	if err := s.repo.Save(ctx, s.state.Customers()); err != nil {
		undo()
		l.Error().Err(err).Str("tax_id", c.TaxID).Msg("customer registration discarded")
		return domain.Customer{}, domain.ErrPersistenceUnavailable
	}

	l.Info().Str("tax_id", c.TaxID).Msg("customer registered")

	return c, nil
}

// Find returns the customer with the exact tax ID.
func (s *Service) Find(ctx context.Context, taxID string) (domain.Customer, bool) {
	s.state.Lock()
	defer s.state.Unlock()

	return s.state.FindCustomer(taxID)
}

// List returns all customers in registration order.
func (s *Service) List(ctx context.Context) []domain.Customer {
	s.state.Lock()
	defer s.state.Unlock()

	return s.state.Customers()
}

// CheckPassword checks if the password is valid for the given tax ID.
func (s *Service) CheckPassword(ctx context.Context, taxID, pass string) (domain.Customer, error) {
	l := zerolog.Ctx(ctx)

	c, ok := s.Find(ctx, taxID)
	if !ok {
		return domain.Customer{}, domain.ErrCustomerNotFound
	}

	if c.HashedPassword == "" {
		l.Warn().Str("tax_id", taxID).Msg("customer has no password")
		return domain.Customer{}, domain.ErrWrongPassword
	}

	if err := passpkg.Check(pass, c.HashedPassword); err != nil {
		l.Warn().Err(err).Send()
		return domain.Customer{}, domain.ErrWrongPassword
	}

	return c, nil
}
