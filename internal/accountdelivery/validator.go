package accountdelivery

import (
	"github.com/go-playground/validator/v10"

	"github.com/go-petr/pet-ledger/internal/domain"
)

// ValidAccountKind validates whether the field names an account kind.
var ValidAccountKind validator.Func = func(fl validator.FieldLevel) bool {
	if s, ok := fl.Field().Interface().(string); ok {
		_, err := domain.ParseAccountKind(s)
		return err == nil
	}

	return false
}

// ValidAccountStatus validates whether the field names an account status.
var ValidAccountStatus validator.Func = func(fl validator.FieldLevel) bool {
	if s, ok := fl.Field().Interface().(string); ok {
		_, err := domain.ParseAccountStatus(s)
		return err == nil
	}

	return false
}

// RegisterValidators registers the account_kind and account_status tags.
func RegisterValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("account_kind", ValidAccountKind); err != nil {
		return err
	}

	return v.RegisterValidation("account_status", ValidAccountStatus)
}
