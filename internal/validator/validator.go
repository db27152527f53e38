// Package validator wraps go-playground/validator with the request DTOs and
// the business rules that cannot be expressed as struct tags.
package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/devtrail/bootcamp-service/internal/models"
)

// ValidationError describes a single violated constraint.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors aggregates per-field violations into one error value.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	msgs := make([]string, 0, len(ve))
	for _, e := range ve {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, ", ")
}

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	validate := validator.New()

	// careers entries must come from the fixed enum.
	_ = validate.RegisterValidation("career", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		for _, c := range models.ValidCareers {
			if value == c {
				return true
			}
		}
		return false
	})

	return &Validator{validate: validate}
}

// Validate runs struct-tag validation and returns the aggregated
// violations, or nil when the value is valid.
func (v *Validator) Validate(s interface{}) ValidationErrors {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return ValidationErrors{{Field: "", Message: err.Error()}}
	}

	out := make(ValidationErrors, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		out = append(out, ValidationError{
			Field:   fe.Field(),
			Message: messageFor(fe),
		})
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("Please add a %s", strings.ToLower(fe.Field()))
	case "max":
		return fmt.Sprintf("%s can not be more than %s characters", fe.Field(), fe.Param())
	case "min":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "email":
		return "Please use a valid email address"
	case "url":
		return "Please use a valid URL with HTTP or HTTPS"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case "career":
		return fmt.Sprintf("%v is not a recognized career", fe.Value())
	case "lte":
		return fmt.Sprintf("%s can not be more than %s", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
