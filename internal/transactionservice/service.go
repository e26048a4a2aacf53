// Package transactionservice applies deposits and withdrawals to customer accounts.
package transactionservice

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/ledgerstate"
)

// Repo provides data access layer interface needed by transaction service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package transactionservice
type Repo interface {
	Save(ctx context.Context, accounts []*domain.Account) error
}

// Service facilitates transaction service layer logic.
type Service struct {
	repo  Repo
	state *ledgerstate.State
	now   func() time.Time
}

// New returns transaction service struct to manage transaction business logic.
func New(ar Repo, state *ledgerstate.State) *Service {
	return &Service{
		repo:  ar,
		state: state,
		now:   time.Now,
	}
}

// maxAmountLen bounds the textual amount accepted from callers.
const maxAmountLen = 32

// parseAmount rejects malformed amounts before the ledger lock is taken.
func parseAmount(ctx context.Context, amount string) (decimal.Decimal, error) {
	if len(amount) > maxAmountLen {
		zerolog.Ctx(ctx).Info().Int("len", len(amount)).Msg("amount too long")
		return decimal.Zero, domain.ErrInvalidAmount
	}

	d, err := decimal.NewFromString(amount)
	if err != nil {
		zerolog.Ctx(ctx).Info().Err(err).Str("amount", amount).Send()
		return decimal.Zero, domain.ErrInvalidAmount
	}

	if err := domain.CheckAmount(d); err != nil {
		zerolog.Ctx(ctx).Info().Err(err).Str("amount", amount).Send()
		return decimal.Zero, err
	}

	return d, nil
}

// Deposit adds amount to the first account of the customer.
func (s *Service) Deposit(ctx context.Context, taxID, amount string) (domain.TransactionResult, error) {
	d, err := parseAmount(ctx, amount)
	if err != nil {
		return domain.TransactionResult{}, err
	}

	return s.Execute(ctx, taxID, domain.Deposit(d))
}

// Withdraw subtracts amount from the first account of the customer.
func (s *Service) Withdraw(ctx context.Context, taxID, amount string) (domain.TransactionResult, error) {
	d, err := parseAmount(ctx, amount)
	if err != nil {
		return domain.TransactionResult{}, err
	}

	return s.Execute(ctx, taxID, domain.Withdrawal(d))
}

// Execute applies tx to the first account of the customer and persists the whole account set.
//
// A rejected transaction changes and persists nothing. When persisting fails the
// account is returned to its previous state and ErrPersistenceUnavailable is returned.
func (s *Service) Execute(ctx context.Context, taxID string, tx domain.Transaction) (domain.TransactionResult, error) {
	l := zerolog.Ctx(ctx).With().Str("tax_id", taxID).Str("kind", string(tx.Kind)).Logger()

	s.state.Lock()
	defer s.state.Unlock()

	if _, ok := s.state.FindCustomer(taxID); !ok {
		return domain.TransactionResult{}, domain.ErrCustomerNotFound
	}

	// Only the first account of a customer takes part in transactions.
	account, err := s.state.FirstAccount(taxID)
	if err != nil {
		return domain.TransactionResult{}, err
	}

	checkpoint := account.Checkpoint()
	previous := account.Balance()
	at := s.now()

	entry, err := account.Apply(tx, at)
	if err != nil {
		l.Info().Err(err).Str("amount", tx.Amount.String()).Msg("transaction rejected")
		return domain.TransactionResult{}, err
	}

	if err := s.repo.Save(ctx, s.state.Accounts()); err != nil {
		account.Restore(checkpoint)
		l.Error().Err(err).Int("account", account.Number()).Msg("transaction discarded")
		return domain.TransactionResult{}, domain.ErrPersistenceUnavailable
	}

	l.Info().Int("account", account.Number()).Str("amount", tx.Amount.String()).Msg("transaction applied")

	result := domain.TransactionResult{
		Account:              account.Snapshot(),
		Entry:                entry,
		PreviousBalance:      previous,
		Balance:              account.Balance(),
		WithdrawalsRemaining: account.WithdrawalsRemaining(at),
	}

	return result, nil
}
