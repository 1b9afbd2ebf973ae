package services

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// validateInput runs the struct's validate tags. A missing required field
// yields requiredMsg; any other failed rule is looked up in ruleMsgs by
// "Field.tag" and falls back to requiredMsg.
func validateInput(v *validator.Validate, input interface{}, requiredMsg string, ruleMsgs map[string]string) error {
	err := v.Struct(input)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return NewValidationError(requiredMsg)
	}
	for _, e := range validationErrors {
		if e.Tag() == "required" {
			return NewValidationError(requiredMsg)
		}
	}
	for _, e := range validationErrors {
		if msg, ok := ruleMsgs[e.Field()+"."+e.Tag()]; ok {
			return NewValidationError(msg)
		}
	}
	return NewValidationError(requiredMsg)
}
