package service

import (
	"errors"
	"fmt"

	"github.com/Skotchmaster/catalog_api/internal/validation"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSearchDisabled     = errors.New("search is not configured")
)

// invalidCredentials is reported on the email field whatever part of the pair was wrong.
func invalidCredentials() error {
	return fmt.Errorf("%w: %w", ErrInvalidCredentials, validation.FieldError("email", "Invalid credentials."))
}
