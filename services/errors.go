package services

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrMultipleTenants    = errors.New("user owns more than one restaurant")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrAlreadyOnboarded   = errors.New("restaurant already set up for this account")
)

// ValidationError carries a message that is safe to show to the user.
// Returning one means nothing was written.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
