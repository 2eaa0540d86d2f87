// internal/club/errors.go
package club

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrRateLimited  = errors.New("rate limit exceeded")
)

// ErrUnauthenticated marks a missing or invalid identity. It also matches
// ErrUnauthorized.
var ErrUnauthenticated = fmt.Errorf("unauthenticated: %w", ErrUnauthorized)

var validate = validator.New()

// Validate checks struct tags and reports failures as ErrInvalidInput.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("field %s failed %q: %w", fe.Field(), fe.Tag(), ErrInvalidInput)
	}
	return fmt.Errorf("%v: %w", err, ErrInvalidInput)
}
