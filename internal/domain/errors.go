package domain

import "errors"

// ErrPersistenceUnavailable indicates that the durable store could not be written or read.
var ErrPersistenceUnavailable = errors.New("persistence unavailable")

// Stable error codes, one per failure kind.
const (
	CodeDuplicateKey            = "DUPLICATE_KEY"
	CodeNotFound                = "NOT_FOUND"
	CodeAccountLimitExceeded    = "ACCOUNT_LIMIT_EXCEEDED"
	CodeInvalidAmount           = "INVALID_AMOUNT"
	CodeInsufficientFunds       = "INSUFFICIENT_FUNDS"
	CodeLimitExceeded           = "LIMIT_EXCEEDED"
	CodeWithdrawalCountExceeded = "WITHDRAWAL_COUNT_EXCEEDED"
	CodePersistenceUnavailable  = "PERSISTENCE_UNAVAILABLE"
	CodeUnauthorized            = "UNAUTHORIZED"
	CodeInvalidInput            = "INVALID_INPUT"
	CodeInternal                = "INTERNAL"
)

var codes = []struct {
	err  error
	code string
}{
	{ErrCustomerAlreadyExists, CodeDuplicateKey},
	{ErrCustomerNotFound, CodeNotFound},
	{ErrAccountNotFound, CodeNotFound},
	{ErrAccountLimitExceeded, CodeAccountLimitExceeded},
	{ErrInvalidAmount, CodeInvalidAmount},
	{ErrUnknownTransaction, CodeInvalidAmount},
	{ErrInsufficientFunds, CodeInsufficientFunds},
	{ErrLimitExceeded, CodeLimitExceeded},
	{ErrWithdrawalCountExceeded, CodeWithdrawalCountExceeded},
	{ErrPersistenceUnavailable, CodePersistenceUnavailable},
	{ErrWrongPassword, CodeUnauthorized},
	{ErrInvalidTaxID, CodeInvalidInput},
	{ErrInvalidBirthdate, CodeInvalidInput},
}

// Code returns the stable code of err so callers can branch on the failure kind.
func Code(err error) string {
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}

	return CodeInternal
}
