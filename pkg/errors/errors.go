// Package errors defines structured error types for the mrsa toolkit.
// Each error carries a machine-readable code, an HTTP status for the API layer,
// and optional metadata.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/turtacn/mrsa/pkg/constants"
)

// ================================================================================
// Base Error Interface
// ================================================================================

// MRSAError represents a structured error with additional metadata
type MRSAError interface {
	error

	// Code returns the machine-readable error code
	Code() constants.ErrorCode

	// HTTPStatus returns the HTTP status code
	HTTPStatus() int

	// Description returns a human-readable description
	Description() string

	// Unwrap returns the underlying error for error chain support
	Unwrap() error

	// WithCause adds a cause error to the error chain
	WithCause(cause error) MRSAError

	// WithMetadata adds additional context metadata
	WithMetadata(key string, value interface{}) MRSAError

	// Metadata returns all metadata
	Metadata() map[string]interface{}
}

// ================================================================================
// Base Error Implementation
// ================================================================================

type baseError struct {
	code        constants.ErrorCode
	httpStatus  int
	description string
	message     string
	cause       error
	metadata    map[string]interface{}
}

func (e *baseError) Error() string {
	if e.message != "" {
		return e.message
	}
	return e.description
}

func (e *baseError) Code() constants.ErrorCode { return e.code }

func (e *baseError) HTTPStatus() int { return e.httpStatus }

func (e *baseError) Description() string { return e.description }

func (e *baseError) Unwrap() error { return e.cause }

// Is matches any MRSAError with the same code, so callers can write
// errors.Is(err, errors.ErrInvalidBlock(0, 0)).
func (e *baseError) Is(target error) bool {
	t, ok := target.(MRSAError)
	return ok && t.Code() == e.code
}

func (e *baseError) WithCause(cause error) MRSAError {
	e.cause = cause
	return e
}

func (e *baseError) WithMetadata(key string, value interface{}) MRSAError {
	if e.metadata == nil {
		e.metadata = make(map[string]interface{})
	}
	e.metadata[key] = value
	return e
}

func (e *baseError) Metadata() map[string]interface{} {
	return e.metadata
}

// NewError creates a new MRSAError with the specified parameters
func NewError(code constants.ErrorCode, httpStatus int, description string, message string) MRSAError {
	return &baseError{
		code:        code,
		httpStatus:  httpStatus,
		description: description,
		message:     message,
		metadata:    make(map[string]interface{}),
	}
}

// ================================================================================
// Domain Error Constructors
// ================================================================================

// ErrInvalidBlock reports a cipher input m that is larger than the modulus n.
// The block is never reduced silently because that would break the one-to-one
// mapping over Z_n.
func ErrInvalidBlock(m, n uint64) MRSAError {
	return NewError(
		constants.ErrCodeInvalidBlock,
		http.StatusBadRequest,
		"The input block must not exceed the modulus; re-encode the message into smaller blocks.",
		fmt.Sprintf("block %d exceeds modulus %d", m, n),
	).WithMetadata("block", m).
		WithMetadata("modulus", n)
}

// ErrNoInverse reports that a has no multiplicative inverse modulo m.
func ErrNoInverse(a, m uint64) MRSAError {
	return NewError(
		constants.ErrCodeNoInverse,
		http.StatusBadRequest,
		"The value has no multiplicative inverse for the given modulus.",
		fmt.Sprintf("%d has no inverse modulo %d", a, m),
	).WithMetadata("value", a).
		WithMetadata("modulus", m)
}

// ErrInvalidPrime reports a factor that is not an acceptable prime.
func ErrInvalidPrime(p uint64, reason string) MRSAError {
	return NewError(
		constants.ErrCodeInvalidPrime,
		http.StatusBadRequest,
		"A supplied prime factor was rejected.",
		fmt.Sprintf("invalid prime %d: %s", p, reason),
	).WithMetadata("reason", reason)
}

// ErrInvalidKey reports a key that violates one of its invariants.
func ErrInvalidKey(reason string) MRSAError {
	return NewError(
		constants.ErrCodeInvalidKey,
		http.StatusUnprocessableEntity,
		"The key does not satisfy the mini-RSA key invariants.",
		fmt.Sprintf("invalid key: %s", reason),
	).WithMetadata("reason", reason)
}

// ErrKeyNotFound reports a missing stored key.
func ErrKeyNotFound(id string) MRSAError {
	return NewError(
		constants.ErrCodeKeyNotFound,
		http.StatusNotFound,
		"Key not found",
		fmt.Sprintf("key not found: %s", id),
	).WithMetadata("key_id", id)
}

// ErrKeyRevoked reports use of a revoked key.
func ErrKeyRevoked(id string) MRSAError {
	return NewError(
		constants.ErrCodeKeyRevoked,
		http.StatusConflict,
		"The key has been revoked and can no longer be used.",
		fmt.Sprintf("key revoked: %s", id),
	).WithMetadata("key_id", id)
}

// ErrInvalidRequest creates an invalid_request error
func ErrInvalidRequest(message string) MRSAError {
	return NewError(
		constants.ErrCodeInvalidRequest,
		http.StatusBadRequest,
		"The request is missing a required parameter or includes an invalid parameter value.",
		message,
	)
}

// ErrInvalidConfig creates an invalid_config error
func ErrInvalidConfig(field, reason string) MRSAError {
	return NewError(
		constants.ErrCodeInvalidConfig,
		http.StatusInternalServerError,
		"The configuration is invalid.",
		fmt.Sprintf("invalid config %s: %s", field, reason),
	).WithMetadata("field", field)
}

// ErrServerError creates a server_error error
func ErrServerError(message string) MRSAError {
	return NewError(
		constants.ErrCodeServerError,
		http.StatusInternalServerError,
		"The server encountered an unexpected condition that prevented it from fulfilling the request.",
		message,
	)
}

// ================================================================================
// Error Utilities
// ================================================================================

// AsMRSAError finds the first MRSAError in err's chain
func AsMRSAError(err error) (MRSAError, bool) {
	var target MRSAError
	if stderrors.As(err, &target) {
		return target, true
	}
	return nil, false
}

// HasCode reports whether err's chain contains an MRSAError with the given code
func HasCode(err error, code constants.ErrorCode) bool {
	e, ok := AsMRSAError(err)
	return ok && e.Code() == code
}

// WrapError wraps a generic error into an MRSAError
func WrapError(err error, code constants.ErrorCode, message string) MRSAError {
	var httpStatus int

	switch code {
	case constants.ErrCodeInvalidBlock, constants.ErrCodeNoInverse,
		constants.ErrCodeInvalidPrime, constants.ErrCodeInvalidRequest:
		httpStatus = http.StatusBadRequest
	case constants.ErrCodeKeyNotFound:
		httpStatus = http.StatusNotFound
	case constants.ErrCodeKeyRevoked:
		httpStatus = http.StatusConflict
	default:
		httpStatus = http.StatusInternalServerError
	}

	return NewError(code, httpStatus, err.Error(), message).WithCause(err)
}

// ErrorResponse represents the JSON structure for error responses
type ErrorResponse struct {
	Error            string                 `json:"error"`
	ErrorDescription string                 `json:"error_description"`
	Message          string                 `json:"message,omitempty"`
	Metadata         map[string]interface{} `json:"metadata,omitempty"`
}

// ToErrorResponse converts any error to an ErrorResponse and its HTTP status
func ToErrorResponse(err error) (*ErrorResponse, int) {
	if e, ok := AsMRSAError(err); ok {
		return &ErrorResponse{
			Error:            string(e.Code()),
			ErrorDescription: e.Description(),
			Message:          e.Error(),
			Metadata:         e.Metadata(),
		}, e.HTTPStatus()
	}

	// Fallback to generic server error
	return &ErrorResponse{
		Error:            string(constants.ErrCodeServerError),
		ErrorDescription: "An unexpected error occurred",
	}, http.StatusInternalServerError
}
