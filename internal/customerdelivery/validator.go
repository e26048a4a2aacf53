package customerdelivery

import (
	"errors"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/go-petr/pet-ledger/pkg/datepkg"
	"github.com/go-petr/pet-ledger/pkg/taxidpkg"
)

// RegisterValidators registers the taxid and birthdate binding tags.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected binding validator engine")
	}

	if err := v.RegisterValidation("taxid", taxidpkg.ValidTaxID); err != nil {
		return err
	}

	return v.RegisterValidation("birthdate", datepkg.ValidBirthdate)
}
