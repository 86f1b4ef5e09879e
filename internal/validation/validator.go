package validation

import (
	validatorv10 "github.com/go-playground/validator/v10"
)

// New returns a configured validator. Request types here only use field
// tags, so no struct-level validations need registering.
func New() *validatorv10.Validate {
	return validatorv10.New()
}
