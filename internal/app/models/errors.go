package models

import (
	"errors"
	"fmt"
)

// Domain specific errors for the session and the REST backend.
var (
	ErrNoSession       = errors.New("no stored session")
	ErrUnauthenticated = errors.New("authentication required or invalid credentials")
	ErrNotFound        = errors.New("requested item not found")
	ErrForbidden       = errors.New("action forbidden")
	ErrValidation      = errors.New("validation failed")
	ErrMalformedToken  = errors.New("malformed token")
	ErrNetwork         = errors.New("backend unreachable")
)

// NetworkError is returned when the backend could not be reached or the
// request timed out before a response arrived.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }

// HTTPError carries a non-2xx backend response.
type HTTPError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Status)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.Body)
}

func (e *HTTPError) Is(target error) bool {
	switch target {
	case ErrUnauthenticated:
		return e.Status == 401
	case ErrForbidden:
		return e.Status == 403
	case ErrNotFound:
		return e.Status == 404
	}
	return false
}

// AuthError is returned by sign-in when the backend rejects the credentials
// or answers without an access token.
type AuthError struct {
	Status int
	Err    error
}

func (e *AuthError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("sign in rejected (status %d): %v", e.Status, e.Err)
	}
	return fmt.Sprintf("sign in failed: %v", e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

func (e *AuthError) Is(target error) bool { return target == ErrUnauthenticated }

// MalformedTokenError reports a bearer token whose claims segment could not be decoded.
type MalformedTokenError struct {
	Err error
}

func (e *MalformedTokenError) Error() string {
	return fmt.Sprintf("malformed token: %v", e.Err)
}

func (e *MalformedTokenError) Unwrap() error { return e.Err }

func (e *MalformedTokenError) Is(target error) bool { return target == ErrMalformedToken }

// ValidationError is a client-side required-field or format failure raised
// before any request is sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
