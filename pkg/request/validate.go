package request

import (
	"context"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the struct tags of a request payload.
func Validate(c context.Context, v interface{}) error {
	return validate.StructCtx(c, v)
}
