package transactiondelivery

import (
	"github.com/go-playground/validator/v10"

	"github.com/go-petr/pet-ledger/internal/domain"
)

// ValidTransactionKind validates whether the field names a transaction kind.
var ValidTransactionKind validator.Func = func(fl validator.FieldLevel) bool {
	if s, ok := fl.Field().Interface().(string); ok {
		_, err := domain.ParseTransactionKind(s)
		return err == nil
	}

	return false
}

// RegisterValidators registers the transaction_kind tag.
func RegisterValidators(v *validator.Validate) error {
	return v.RegisterValidation("transaction_kind", ValidTransactionKind)
}
