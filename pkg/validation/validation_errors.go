package validation

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

func requiredMessage(rule FieldRule) string {
	return fmt.Sprintf("%s is required.", rule.Label)
}

func typeMessage(rule FieldRule) string {
	return fmt.Sprintf("%s must be a string.", rule.Label)
}

// formatError converts the first failing validator tag into a user-facing message
func formatError(rule FieldRule, err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return fmt.Sprintf("%s is invalid.", rule.Label)
	}
	return formatSingleError(rule, validationErrors[0])
}

// formatSingleError formats a single validation error to a user-friendly message
func formatSingleError(rule FieldRule, e validator.FieldError) string {
	label := rule.Label
	param := e.Param()

	switch e.Tag() {
	case "required":
		return requiredMessage(rule)

	case "min":
		return fmt.Sprintf("%s must be at least %s characters.", label, param)

	case "max":
		return fmt.Sprintf("%s must be at most %s characters.", label, param)

	case "email":
		return "Please enter a valid email address."

	case "single_line":
		return fmt.Sprintf("%s must not contain line breaks.", label)

	default:
		// Fallback for unknown tags
		return fmt.Sprintf("%s is invalid (%s).", label, e.Tag())
	}
}
