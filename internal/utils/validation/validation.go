// Package validation builds the request validator shared by all handlers.
package validation

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// New returns a validator with the project's custom tags registered:
//
//	notblank - string must contain a non-whitespace character
//	trimmed  - string must not start or end with whitespace
//	maxbytes - string must be at most N bytes long (max= counts runes)
//
// Field names in validation errors use the json tag, so messages name
// `username` rather than `Username`.
func New() (*validator.Validate, error) {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		return nil, err
	}
	if err := v.RegisterValidation("trimmed", trimmed); err != nil {
		return nil, err
	}
	if err := v.RegisterValidation("maxbytes", maxBytes); err != nil {
		return nil, err
	}
	return v, nil
}

// MustNew is New for process start-up, where a registration failure is a bug.
func MustNew() *validator.Validate {
	v, err := New()
	if err != nil {
		panic(err)
	}
	return v
}

func trimmed(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return s == strings.TrimSpace(s)
}

func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		panic("maxbytes: bad parameter " + fl.Param())
	}
	return len(fl.Field().String()) <= limit
}
