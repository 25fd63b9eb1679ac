package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"itinerary-api/internal/models"
)

// newValidator creates a validator that reports fields by their JSON names
func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// nonblank rejects empty and whitespace-only strings
	_ = v.RegisterValidation("nonblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	// jsonvalue rejects absent, null and empty scalar JSON values
	_ = v.RegisterValidation("jsonvalue", func(fl validator.FieldLevel) bool {
		if fl.Field().Kind() != reflect.Slice {
			return false
		}
		return !models.IsMissingJSON(fl.Field().Bytes())
	})

	return v
}

// toValidationError converts validator output into a caller-facing ValidationError
func toValidationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("validation failed: %w", err)
	}

	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required", "nonblank", "jsonvalue":
		return &ValidationError{Field: fe.Field(), Message: "Missing " + fe.Field()}
	case "oneof":
		return &ValidationError{Field: fe.Field(), Message: fmt.Sprintf("Invalid %s: must be one of %s", fe.Field(), fe.Param())}
	default:
		return &ValidationError{Field: fe.Field(), Message: fmt.Sprintf("Invalid %s", fe.Field())}
	}
}
