// Package validate wraps go-playground/validator so request bodies are checked
// through tagged structs at the API boundary instead of ad hoc field probing.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Struct validates a pointer to a tagged request struct. On failure it returns
// one human-readable message per offending field, keyed by the JSON field name
// so clients can match errors to inputs.
func Struct(s any) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	problems := make(map[string]string)

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		problems[""] = "invalid request body"
		return problems
	}

	structType := reflect.TypeOf(s)
	if structType.Kind() == reflect.Pointer {
		structType = structType.Elem()
	}

	for _, fe := range fieldErrs {
		name := fe.StructField()
		if field, ok := structType.FieldByName(fe.StructField()); ok {
			if tag := strings.Split(field.Tag.Get("json"), ",")[0]; tag != "" && tag != "-" {
				name = tag
			}
		}
		problems[name] = message(name, fe)
	}

	return problems
}

// FirstMessage flattens a validation result into a single message suitable for
// the {message} error body.
func FirstMessage(problems map[string]string) string {
	for _, msg := range problems {
		return msg
	}
	return "invalid request body"
}

func message(name string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("the field '%s' is required", name)
	case "email":
		return fmt.Sprintf("the field '%s' must be a valid email address", name)
	case "min":
		return fmt.Sprintf("the field '%s' must be at least %s characters long", name, fe.Param())
	case "max":
		return fmt.Sprintf("the field '%s' must be no longer than %s characters", name, fe.Param())
	default:
		return fmt.Sprintf("the field '%s' is invalid: %s", name, fe.Tag())
	}
}
