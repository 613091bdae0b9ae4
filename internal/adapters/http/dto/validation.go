package dto

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Request decoding failures. MapError turns both into 400 responses.
var (
	ErrBinding    = errors.New("binding failed")
	ErrValidation = errors.New("validation failed")
)

var requestValidator = newRequestValidator()

// newRequestValidator names fields by their json tag so error details use
// the same keys the client sent.
func newRequestValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	return v
}

// Validator returns the validator shared by every request DTO.
func Validator() *validator.Validate {
	return requestValidator
}

// BindAndValidate decodes the JSON body into v, then checks its validate tags.
// An empty body leaves v at its zero value. The result wraps ErrBinding or
// ErrValidation.
func BindAndValidate(c *gin.Context, v any) error {
	if err := c.ShouldBindJSON(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %w", ErrBinding, err)
	}

	return Validate(v)
}

// Validate checks v against its validate tags.
func Validate(v any) error {
	if err := requestValidator.Struct(v); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	return nil
}

// FieldErrors lists the failed fields in err by json name. It returns nil
// when err carries no validator field errors.
func FieldErrors(err error) map[string]string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil
	}

	fields := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields[fe.Field()] = ruleMessage(fe.Tag(), fe.Param(), fe.Kind())
	}

	return fields
}

func ruleMessage(tag, param string, kind reflect.Kind) string {
	unit := ""
	if kind == reflect.String {
		unit = " characters"
	}

	switch tag {
	case "required":
		return "this field is required"
	case "min":
		return "must be at least " + param + unit
	case "max":
		return "must be at most " + param + unit
	case "gte":
		return "must be greater than or equal to " + param
	case "lte":
		return "must be less than or equal to " + param
	case "oneof":
		return "must be one of: " + param
	default:
		return "failed validation: " + tag
	}
}
