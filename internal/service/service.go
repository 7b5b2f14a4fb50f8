package service

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/m-mizutani/goerr/v2"
)

// ErrInvalidInput is returned when an entity fails validation.
var ErrInvalidInput = errors.New("invalid input")

var validate = validator.New(validator.WithRequiredStructEnabled())

// check validates v against its struct tags and wraps failures in ErrInvalidInput.
func check(v any) error {
	if err := validate.Struct(v); err != nil {
		var fields validator.ValidationErrors
		if errors.As(err, &fields) && len(fields) > 0 {
			f := fields[0]
			return goerr.Wrap(ErrInvalidInput, f.Field()+" failed on "+f.Tag(), goerr.V("field", f.Field()), goerr.V("rule", f.Tag()))
		}
		return goerr.Wrap(ErrInvalidInput, err.Error())
	}
	return nil
}
