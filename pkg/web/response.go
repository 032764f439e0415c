// Package web defines common components for a web application.
package web

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// Response holds the common response type for all APIs.
type Response struct {
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

// Error wraps a given err into json friendly response.
func Error(err error) Response {
	return Response{Error: err.Error()}
}

// Data wraps a given payload into json friendly response.
func Data(data any) Response {
	return Response{Data: data}
}

// BindError converts a binding error into a response naming the first invalid field.
func BindError(err error) Response {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		field := ve[0]
		return Response{Error: field.Field() + GetErrorMsg(field)}
	}

	return Error(err)
}

// GetErrorMsg returns a human readable suffix for the failed validation tag.
func GetErrorMsg(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return " is required"
	case "min":
		return " must be at least " + fe.Param()
	case "max":
		return " must be at most " + fe.Param()
	case "oneof":
		return " must be one of: " + fe.Param()
	case "account_kind":
		return " must be savings or checking"
	case "account_status":
		return " must be active, frozen or closed"
	case "transaction_kind":
		return " must be deposit, withdrawal or transfer"
	}

	return " is invalid"
}
