package middleware

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/kerem/campusact/internal/app/models/dto"
)

// BindingErrorDetail converts a gin binding error into the standard error
// detail. Field-level validator failures get a readable message and the
// offending field name; anything else is reported as a malformed body.
func BindingErrorDetail(err error) *dto.ErrorDetail {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		first := fieldErrs[0]
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, formatValidationError(first))
		return detail.WithField(first.Field())
	}

	detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format")
	return detail.WithDetails(err.Error())
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "email":
		return e.Field() + " must be a valid email address"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
