package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalid is wrapped by every error Validate returns for a bad value.
var ErrInvalid = errors.New("config validation failed")

// validate reports fields by their koanf key, so messages name the same
// keys that YAML files and APP_ variables use.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		key, _, _ := strings.Cut(f.Tag.Get("koanf"), ",")
		if key == "" || key == "-" {
			return strings.ToLower(f.Name)
		}

		return key
	})

	return v
}

// Validate checks the whole configuration and lists every bad key.
// The service refuses to start on error.
func (c *Config) Validate() error {
	err := validate.Struct(c)

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		problems = append(problems, describe(fe))
	}

	return fmt.Errorf("%w:\n  %s", ErrInvalid, strings.Join(problems, "\n  "))
}

// describe renders one failed rule for the key at fe's namespace.
func describe(fe validator.FieldError) string {
	key := keyOf(fe.Namespace())

	switch fe.Tag() {
	case "required":
		return key + " is required"
	case "required_if":
		field, value, _ := strings.Cut(fe.Param(), " ")
		return fmt.Sprintf("%s is required when %s is %s", key, siblingKey(key, field), value)
	case "excluded_without":
		return fmt.Sprintf("%s requires %s to be set", key, siblingKey(key, fe.Param()))
	case "min":
		return fmt.Sprintf("%s must be at least %s", key, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", key, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", key, fe.Param())
	case "url":
		return key + " must be a valid URL"
	default:
		return fmt.Sprintf("%s failed %q", key, fe.Tag())
	}
}

// keyOf drops the root type from a namespace: "Config.server.port" is "server.port".
func keyOf(namespace string) string {
	_, key, found := strings.Cut(namespace, ".")
	if !found {
		return namespace
	}

	return key
}

// siblingKey names the struct field referenced by a rule parameter as a key
// next to key, e.g. ("records.watch", "Path") is "records.path".
func siblingKey(key, field string) string {
	field = strings.ToLower(field)

	if i := strings.LastIndex(key, "."); i >= 0 {
		return key[:i+1] + field
	}

	return field
}
