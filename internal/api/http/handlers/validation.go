package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/spec-kit/supplier-service/pkg/util"
)

var validate = validator.New()

// validateStruct runs validator tags against a request payload and converts
// failures into one ValidationError carrying every violation.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	details := make(map[string]any, len(ve))
	for _, fe := range ve {
		field := strings.ToLower(fe.Field())
		details[field] = fieldError(field, fe)
	}
	return apperrors.NewValidationError("invalid payload", details)
}

// fieldError converts a single violation into a human-readable message.
func fieldError(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
