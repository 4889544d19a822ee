package validation

import (
	validatorv10 "github.com/go-playground/validator/v10"
)

// New returns a configured validator with the custom document and phone
// rules registered.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	// cpf: exactly 11 digits. Formatting (dots, dash) must be stripped
	// by the caller; the API contract is digits only.
	v.RegisterValidation("cpf", func(fl validatorv10.FieldLevel) bool {
		return allDigits(fl.Field().String(), 11, 11)
	})

	// brphone: national number with area code, 10 digits for landlines
	// and 11 for mobiles.
	v.RegisterValidation("brphone", func(fl validatorv10.FieldLevel) bool {
		return allDigits(fl.Field().String(), 10, 11)
	})

	return v
}

func allDigits(s string, min, max int) bool {
	if len(s) < min || len(s) > max {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
