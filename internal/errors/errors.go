package errors

import (
	"errors"
	"fmt"
)

// Common error types for the console session layer
var (
	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrExchangeFailed     = errors.New("token exchange failed")

	// Token errors
	ErrNoRefreshToken = errors.New("no refresh token")
	ErrNoAccessToken  = errors.New("no access token")
	ErrTokenExpired   = errors.New("token expired")

	// Session errors
	ErrNoSession = errors.New("no active session")

	// Backend errors
	ErrBackendRejected = errors.New("backend rejected request")

	// General errors
	ErrNotFound = errors.New("not found")
	ErrInternal = errors.New("internal error")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
