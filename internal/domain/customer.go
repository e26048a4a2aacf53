// Package domain provides definitions of all ledger entities and their rules.
package domain

import (
	"errors"
	"time"
)

var (
	// ErrCustomerAlreadyExists indicates that a customer with the given tax ID already exists.
	ErrCustomerAlreadyExists = errors.New("customer with this tax ID already exists")
	// ErrCustomerNotFound indicates that the customer is not found.
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrWrongPassword indicates the wrong tax ID and password combination.
	ErrWrongPassword = errors.New("wrong tax ID or password")
	// ErrInvalidTaxID indicates a tax ID that is not exactly 11 digits.
	ErrInvalidTaxID = errors.New("tax ID must be 11 digits")
	// ErrInvalidBirthdate indicates a birthdate that is not a dd-mm-yyyy calendar date.
	ErrInvalidBirthdate = errors.New("birthdate must be a dd-mm-yyyy date")
)

// Customer holds the identity record of an account holder.
type Customer struct {
	Name           string    `json:"name"`
	Birthdate      string    `json:"birthdate"` // dd-mm-yyyy
	TaxID          string    `json:"tax_id"`
	Address        string    `json:"address"`
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

// RegisterCustomerParams is the input data to register a customer.
// Password is optional; customers registered without one cannot log in over HTTP.
type RegisterCustomerParams struct {
	Name      string
	Birthdate string
	TaxID     string
	Address   string
	Password  string
}
