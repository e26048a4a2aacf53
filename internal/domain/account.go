package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-ledger/pkg/datepkg"
)

var (
	// ErrAccountNotFound indicates that the account is not found.
	ErrAccountNotFound = errors.New("account not found")
	// ErrAccountLimitExceeded indicates that the customer already owns the maximum number of accounts.
	ErrAccountLimitExceeded = errors.New("customer reached the maximum number of accounts")
)

// Defaults of a checking account.
const (
	DefaultBranch         = "0001"
	DefaultMaxWithdrawals = 3
	DefaultMaxAccounts    = 10
)

// DefaultWithdrawalLimit is the default amount allowed per withdrawal.
var DefaultWithdrawalLimit = decimal.NewFromInt(500)

// WithdrawalPeriod is the window over which withdrawals are counted.
type WithdrawalPeriod string

// Withdrawal periods.
const (
	// PeriodDaily counts the withdrawals made on the same calendar day.
	PeriodDaily WithdrawalPeriod = "daily"
	// PeriodUnbounded counts every withdrawal since the account was opened.
	PeriodUnbounded WithdrawalPeriod = "unbounded"
)

// ParseWithdrawalPeriod converts s into a WithdrawalPeriod.
func ParseWithdrawalPeriod(s string) (WithdrawalPeriod, error) {
	switch p := WithdrawalPeriod(s); p {
	case PeriodDaily, PeriodUnbounded:
		return p, nil
	}

	return "", fmt.Errorf("unknown withdrawal period %q", s)
}

// AccountConfig parameterizes the withdrawal rules of an account.
type AccountConfig struct {
	WithdrawalLimit decimal.Decimal
	MaxWithdrawals  int
	Period          WithdrawalPeriod
}

// DefaultAccountConfig returns the checking account defaults.
func DefaultAccountConfig() AccountConfig {
	return AccountConfig{
		WithdrawalLimit: DefaultWithdrawalLimit,
		MaxWithdrawals:  DefaultMaxWithdrawals,
		Period:          PeriodDaily,
	}
}

// Account is a checking account bound to exactly one customer.
//
// The balance only changes through Apply and always equals the sum of recorded
// deposits minus the sum of recorded withdrawals.
type Account struct {
	number  int
	branch  string
	owner   Customer
	balance decimal.Decimal
	config  AccountConfig
	history *History
}

// OpenAccountParams is the input data to open an account.
type OpenAccountParams struct {
	Owner         Customer
	OwnedAccounts int
	MaxAccounts   int
	Number        int
	Branch        string
	Config        AccountConfig
}

// OpenAccount opens an empty account for the owner.
func OpenAccount(arg OpenAccountParams) (*Account, error) {
	if arg.OwnedAccounts >= arg.MaxAccounts {
		return nil, ErrAccountLimitExceeded
	}

	a := &Account{
		number:  arg.Number,
		branch:  arg.Branch,
		owner:   arg.Owner,
		balance: decimal.Zero,
		config:  arg.Config,
		history: NewHistory(),
	}

	return a, nil
}

// RestoreAccountParams holds a previously persisted account.
type RestoreAccountParams struct {
	Owner   Customer
	Number  int
	Branch  string
	Balance decimal.Decimal
	Config  AccountConfig
	Entries []Entry
}

// RestoreAccount rebuilds an account from storage without re-validating its history.
func RestoreAccount(arg RestoreAccountParams) *Account {
	return &Account{
		number:  arg.Number,
		branch:  arg.Branch,
		owner:   arg.Owner,
		balance: arg.Balance,
		config:  arg.Config,
		history: NewHistory(arg.Entries...),
	}
}

// Number returns the account number.
func (a *Account) Number() int { return a.number }

// DisplayNumber returns the zero padded account number.
func (a *Account) DisplayNumber() string { return fmt.Sprintf("%06d", a.number) }

// Branch returns the branch code.
func (a *Account) Branch() string { return a.branch }

// Owner returns the owning customer.
func (a *Account) Owner() Customer { return a.owner }

// Balance returns the current balance.
func (a *Account) Balance() decimal.Decimal { return a.balance }

// Config returns the withdrawal rules of the account.
func (a *Account) Config() AccountConfig { return a.config }

// Entries returns a copy of the account history.
func (a *Account) Entries() []Entry { return a.history.Entries() }

// Deposit adds amount to the balance.
func (a *Account) Deposit(amount decimal.Decimal, at time.Time) (Entry, error) {
	return a.Apply(Deposit(amount), at)
}

// Withdraw subtracts amount from the balance.
func (a *Account) Withdraw(amount decimal.Decimal, at time.Time) (Entry, error) {
	return a.Apply(Withdrawal(amount), at)
}

// Apply validates tx against the account rules, mutates the balance and records
// the entry. Nothing changes when validation fails.
//
// Malformed amounts (see CheckAmount) are rejected first. Withdrawals are then
// checked in this order, the first failure wins: per-operation limit, withdrawal
// count in the period, balance, positive amount.
func (a *Account) Apply(tx Transaction, at time.Time) (Entry, error) {
	if !tx.Kind.Valid() {
		return Entry{}, ErrUnknownTransaction
	}

	err := CheckAmount(tx.Amount)

	switch {
	case err != nil:
	case tx.Kind == EntryDeposit:
		err = a.validateDeposit(tx.Amount)
	default:
		err = a.validateWithdrawal(tx.Amount, at)
	}

	if err != nil {
		return Entry{}, err
	}

	if tx.Kind == EntryDeposit {
		a.balance = a.balance.Add(tx.Amount)
	} else {
		a.balance = a.balance.Sub(tx.Amount)
	}

	entry := Entry{Kind: tx.Kind, Amount: tx.Amount, Timestamp: at}
	a.history.Record(entry)

	return entry, nil
}

func (a *Account) validateDeposit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}

	return nil
}

func (a *Account) validateWithdrawal(amount decimal.Decimal, at time.Time) error {
	switch {
	case amount.GreaterThan(a.config.WithdrawalLimit):
		return ErrLimitExceeded
	case a.WithdrawalsInPeriod(at) >= a.config.MaxWithdrawals:
		return ErrWithdrawalCountExceeded
	case amount.GreaterThan(a.balance):
		return ErrInsufficientFunds
	case !amount.IsPositive():
		return ErrInvalidAmount
	}

	return nil
}

// WithdrawalsInPeriod counts the withdrawals recorded in the period containing at.
func (a *Account) WithdrawalsInPeriod(at time.Time) int {
	n := 0

	for _, e := range a.history.entries {
		if e.Kind != EntryWithdrawal {
			continue
		}

		if a.config.Period == PeriodDaily && !datepkg.SameDay(e.Timestamp, at) {
			continue
		}

		n++
	}

	return n
}

// WithdrawalsRemaining returns how many withdrawals are still allowed in the period containing at.
func (a *Account) WithdrawalsRemaining(at time.Time) int {
	return max(0, a.config.MaxWithdrawals-a.WithdrawalsInPeriod(at))
}

// Reconciles reports whether the balance equals deposits minus withdrawals.
func (a *Account) Reconciles() bool {
	sum := decimal.Zero

	for _, e := range a.history.entries {
		if e.Kind == EntryDeposit {
			sum = sum.Add(e.Amount)
		} else {
			sum = sum.Sub(e.Amount)
		}
	}

	return sum.Equal(a.balance)
}

// Checkpoint marks the account state so that a mutation can be discarded
// when it could not be persisted.
type Checkpoint struct {
	balance decimal.Decimal
	entries int
}

// Checkpoint returns the current state mark.
func (a *Account) Checkpoint() Checkpoint {
	return Checkpoint{balance: a.balance, entries: a.history.Len()}
}

// Restore returns the account to cp, dropping entries recorded after it.
func (a *Account) Restore(cp Checkpoint) {
	a.balance = cp.balance
	a.history.truncate(cp.entries)
}

// AccountSnapshot is a read only copy of an account.
type AccountSnapshot struct {
	Number           int              `json:"number"`
	DisplayNumber    string           `json:"display_number"`
	Branch           string           `json:"branch"`
	OwnerTaxID       string           `json:"owner_tax_id"`
	OwnerName        string           `json:"owner_name"`
	Balance          decimal.Decimal  `json:"balance"`
	WithdrawalLimit  decimal.Decimal  `json:"withdrawal_limit"`
	MaxWithdrawals   int              `json:"max_withdrawals_per_period"`
	WithdrawalPeriod WithdrawalPeriod `json:"withdrawal_period"`
}

// Snapshot returns a read only copy of the account.
func (a *Account) Snapshot() AccountSnapshot {
	return AccountSnapshot{
		Number:           a.number,
		DisplayNumber:    a.DisplayNumber(),
		Branch:           a.branch,
		OwnerTaxID:       a.owner.TaxID,
		OwnerName:        a.owner.Name,
		Balance:          a.balance,
		WithdrawalLimit:  a.config.WithdrawalLimit,
		MaxWithdrawals:   a.config.MaxWithdrawals,
		WithdrawalPeriod: a.config.Period,
	}
}

// Statement holds an account snapshot together with its history.
type Statement struct {
	Account AccountSnapshot `json:"account"`
	Entries []Entry         `json:"entries"`
}

// Statement returns the statement of the account.
func (a *Account) Statement() Statement {
	return Statement{Account: a.Snapshot(), Entries: a.history.Entries()}
}

// Lines returns the rendered statement lines.
func (s Statement) Lines() []string {
	var lines []string
	for line := range NewHistory(s.Entries...).Render() {
		lines = append(lines, line)
	}

	return lines
}
