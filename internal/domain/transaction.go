package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidAmount indicates a non positive or unparsable amount.
	ErrInvalidAmount = errors.New("amount must be greater than zero")
	// ErrInsufficientFunds indicates that the balance does not cover the withdrawal.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrLimitExceeded indicates that the withdrawal is above the per-operation limit.
	ErrLimitExceeded = errors.New("amount exceeds the withdrawal limit per operation")
	// ErrWithdrawalCountExceeded indicates that no more withdrawals are allowed in the current period.
	ErrWithdrawalCountExceeded = errors.New("maximum number of withdrawals for the period reached")
	// ErrUnknownTransaction indicates a transaction kind the ledger does not handle.
	ErrUnknownTransaction = errors.New("unknown transaction kind")
)

// Amount bounds. Amounts carry at most AmountPlaces decimal places and never exceed MaxAmount.
const (
	AmountPlaces = 2

	// Exponents outside this range are rejected before any arithmetic so that a
	// tiny or huge exponent never has to be rescaled.
	minAmountExponent = -18
	maxAmountExponent = 9
)

// MaxAmount is the largest amount a single transaction may move.
var MaxAmount = decimal.New(1, maxAmountExponent)

// CheckAmount returns ErrInvalidAmount when amount has more than AmountPlaces
// decimal places or its magnitude exceeds MaxAmount. The sign is not checked.
func CheckAmount(amount decimal.Decimal) error {
	exp := amount.Exponent()
	if exp < minAmountExponent || exp > maxAmountExponent {
		return ErrInvalidAmount
	}

	if !amount.Equal(amount.Round(AmountPlaces)) {
		return ErrInvalidAmount
	}

	if amount.Abs().GreaterThan(MaxAmount) {
		return ErrInvalidAmount
	}

	return nil
}

// Transaction is a balance change request against an account.
type Transaction struct {
	Kind   EntryKind
	Amount decimal.Decimal
}

// Deposit returns a deposit transaction of amount.
func Deposit(amount decimal.Decimal) Transaction {
	return Transaction{Kind: EntryDeposit, Amount: amount}
}

// Withdrawal returns a withdrawal transaction of amount.
func Withdrawal(amount decimal.Decimal) Transaction {
	return Transaction{Kind: EntryWithdrawal, Amount: amount}
}

// TransactionResult is the outcome of a successfully applied transaction.
type TransactionResult struct {
	Account              AccountSnapshot `json:"account"`
	Entry                Entry           `json:"entry"`
	PreviousBalance      decimal.Decimal `json:"previous_balance"`
	Balance              decimal.Decimal `json:"balance"`
	WithdrawalsRemaining int             `json:"withdrawals_remaining"`
}
