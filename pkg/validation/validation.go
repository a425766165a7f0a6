package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	dErrors "hrconsole/pkg/domain-errors"
)

var defaultValidator = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	// Report fields by the name the user saw on the form.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		for _, tag := range []string{"form", "json"} {
			name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return field.Name
	})
	return v
}

// Validate validates a struct and returns a validation domain error listing
// every failing field as "field: message", joined by ", ".
func Validate(req any) error {
	if err := defaultValidator.Struct(req); err != nil {
		return dErrors.New(dErrors.CodeValidation, ErrorMessage(err))
	}
	return nil
}

// ErrorMessage converts a validator error into a human-readable message.
func ErrorMessage(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return "invalid input"
	}

	parts := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		parts = append(parts, fieldMessage(fe))
	}
	return strings.Join(parts, ", ")
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.ActualTag() {
	case "required", "notblank":
		return fmt.Sprintf("%s: required", field)
	case "email":
		return fmt.Sprintf("%s: must be a valid email", field)
	case "number", "numeric":
		return fmt.Sprintf("%s: must be a number", field)
	case "min", "gte":
		return fmt.Sprintf("%s: must be at least %s", field, fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s: must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s: must be one of [%s]", field, fe.Param())
	default:
		return fmt.Sprintf("%s: invalid", field)
	}
}
