package common

import (
	"errors"
	"net/http"
)

// Business logic errors
var (
	// General errors
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")

	// Session errors
	ErrNoSession          = errors.New("no valid authentication token found")
	ErrInvalidToken       = errors.New("invalid or expired authentication token")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")

	// Connection errors
	ErrSelfConnection     = errors.New("cannot connect to yourself")
	ErrConnectionExists   = errors.New("a connection already exists between these users")
	ErrConnectionNotFound = errors.New("connection not found")

	// Messaging errors
	ErrNotConnectionParty = errors.New("unauthorized: you are not part of this connection")
	ErrEmptyMessage       = errors.New("message content cannot be empty")
	ErrMessageTooLong     = errors.New("message content is too long")

	// Job errors
	ErrJobNotFound = errors.New("job not found")
)

// StatusFor maps a service error to an HTTP status
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNoSession),
		errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotConnectionParty),
		errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrConnectionNotFound),
		errors.Is(err, ErrJobNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConnectionExists),
		errors.Is(err, ErrUserAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrSelfConnection),
		errors.Is(err, ErrEmptyMessage),
		errors.Is(err, ErrMessageTooLong):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
