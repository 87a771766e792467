// ABOUTME: Classified error types shared by every layer of the application
// ABOUTME: The HTTP boundary maps each kind to a status code without inspecting messages

package errors

import (
	"errors"
	"fmt"
)

// Kind is the closed set of failure classes the response normalizer understands.
type Kind int

const (
	// KindInternal covers anything that is not classified below.
	KindInternal Kind = iota
	KindInvariant
	KindUnauthenticated
	KindAuthorization
	KindNotFound
	KindConflict
	KindPayloadTooLarge
)

// String returns the wire name of the kind, used in logs.
func (k Kind) String() string {
	switch k {
	case KindInvariant:
		return "invariant_violation"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindPayloadTooLarge:
		return "payload_too_large"
	default:
		return "internal"
	}
}

// IsClient reports whether the kind is caused by the caller.
func (k Kind) IsClient() bool {
	return k != KindInternal
}

// StatusCode returns the HTTP status implied by the kind.
func (k Kind) StatusCode() int {
	switch k {
	case KindInvariant, KindConflict:
		return 400
	case KindUnauthenticated:
		return 401
	case KindAuthorization:
		return 403
	case KindNotFound:
		return 404
	case KindPayloadTooLarge:
		return 413
	default:
		return 500
	}
}

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ValidationError represents a broken payload or business invariant
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// ConflictError is returned when a write would break a uniqueness rule
type ConflictError struct {
	Resource string
	Message  string
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	return e.Message
}

// AuthenticationError means the caller did not present usable credentials
type AuthenticationError struct {
	Message string
}

// Error implements the error interface
func (e *AuthenticationError) Error() string {
	return e.Message
}

// AuthorizationError means the caller is known but lacks rights
type AuthorizationError struct {
	Message string
}

// Error implements the error interface
func (e *AuthorizationError) Error() string {
	return e.Message
}

// PayloadTooLargeError is returned when an upload exceeds its byte limit
type PayloadTooLargeError struct {
	Limit int64
}

// Error implements the error interface
func (e *PayloadTooLargeError) Error() string {
	return fmt.Sprintf("payload exceeds the maximum of %d bytes", e.Limit)
}

// IsNotFound checks if an error is a NotFoundError
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr)
}

// IsValidation checks if an error is a ValidationError
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// IsConflict checks if an error is a ConflictError
func IsConflict(err error) bool {
	var conflictErr *ConflictError
	return errors.As(err, &conflictErr)
}

// KindOf classifies err. Anything unrecognised, including context errors, is internal.
func KindOf(err error) Kind {
	if err == nil {
		return KindInternal
	}

	var (
		notFound *NotFoundError
		invalid  *ValidationError
		conflict *ConflictError
		authn    *AuthenticationError
		authz    *AuthorizationError
		tooLarge *PayloadTooLargeError
	)

	switch {
	case errors.As(err, &notFound):
		return KindNotFound
	case errors.As(err, &conflict):
		return KindConflict
	case errors.As(err, &invalid):
		return KindInvariant
	case errors.As(err, &authn):
		return KindUnauthenticated
	case errors.As(err, &authz):
		return KindAuthorization
	case errors.As(err, &tooLarge):
		return KindPayloadTooLarge
	default:
		return KindInternal
	}
}

// ClientMessage returns the message safe to show to the caller for a classified error.
// It returns the innermost classified error's text so wrapping context stays in logs.
func ClientMessage(err error) string {
	var (
		notFound *NotFoundError
		invalid  *ValidationError
		conflict *ConflictError
		authn    *AuthenticationError
		authz    *AuthorizationError
		tooLarge *PayloadTooLargeError
	)

	switch {
	case errors.As(err, &notFound):
		return notFound.Error()
	case errors.As(err, &conflict):
		return conflict.Error()
	case errors.As(err, &invalid):
		return invalid.Error()
	case errors.As(err, &authn):
		return authn.Error()
	case errors.As(err, &authz):
		return authz.Error()
	case errors.As(err, &tooLarge):
		return tooLarge.Error()
	default:
		return ""
	}
}

// WrapError wraps an error with additional context
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
