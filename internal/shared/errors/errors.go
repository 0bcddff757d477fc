// Package errors provides application-level error types and utilities.
// It defines the settlement failure taxonomy alongside common error types
// such as validation and not-found errors.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation_error"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeConflict   ErrorType = "conflict"
	ErrorTypeInternal   ErrorType = "internal_error"

	// Settlement failure taxonomy. The split matters for callers: transient
	// failures may be retried as a whole request, permanent ones must not.
	ErrorTypeInvalidSettlementRequest ErrorType = "invalid_settlement_request"
	ErrorTypeGatewayUnreachable       ErrorType = "gateway_unreachable"
	ErrorTypeGatewayRejected          ErrorType = "gateway_rejected"
	ErrorTypeCredentialInvalid        ErrorType = "credential_invalid"
	ErrorTypePaymentNotSettled        ErrorType = "payment_not_settled"
	ErrorTypePersistenceFailed        ErrorType = "persistence_failed"
	ErrorTypePartialFulfillment       ErrorType = "partial_fulfillment"
)

// AppError represents an application error with additional context
type AppError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Code    int       `json:"code"`
	Details string    `json:"details,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func newAppError(t ErrorType, code int, message string, details ...string) *AppError {
	detail := ""
	if len(details) > 0 {
		detail = details[0]
	}
	return &AppError{
		Type:    t,
		Message: message,
		Code:    code,
		Details: detail,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeValidation, http.StatusBadRequest, message, details...)
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeNotFound, http.StatusNotFound, message, details...)
}

// NewConflictError creates a new conflict error
func NewConflictError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeConflict, http.StatusConflict, message, details...)
}

// NewInternalError creates a new internal error
func NewInternalError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeInternal, http.StatusInternalServerError, message, details...)
}

// NewInvalidSettlementRequestError reports a malformed settlement request.
// No side effects have occurred; the caller must fix the request.
func NewInvalidSettlementRequestError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeInvalidSettlementRequest, http.StatusBadRequest, message, details...)
}

// NewGatewayUnreachableError reports a transient gateway failure (network
// error, 5xx, timeout). The whole request may be retried by the caller.
func NewGatewayUnreachableError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeGatewayUnreachable, http.StatusBadRequest, message, details...)
}

// NewGatewayRejectedError reports a permanent gateway rejection (4xx).
func NewGatewayRejectedError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeGatewayRejected, http.StatusBadRequest, message, details...)
}

// NewCredentialInvalidError reports a rejected stored billing credential.
func NewCredentialInvalidError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeCredentialInvalid, http.StatusBadRequest, message, details...)
}

// NewPaymentNotSettledError reports a payment the gateway knows about but
// whose status is not Paid. The settlement aborts with no writes.
func NewPaymentNotSettledError(message string, details ...string) *AppError {
	return newAppError(ErrorTypePaymentNotSettled, http.StatusBadRequest, message, details...)
}

// NewPersistenceFailedError reports a database write failure after money has
// moved. This implies a paid-but-unfulfilled state and must be surfaced loudly.
func NewPersistenceFailedError(message string, details ...string) *AppError {
	return newAppError(ErrorTypePersistenceFailed, http.StatusBadRequest, message, details...)
}

// NewPartialFulfillmentError reports that some bundle member grants failed
// while others succeeded. Granted entitlements are kept.
func NewPartialFulfillmentError(message string, details ...string) *AppError {
	return newAppError(ErrorTypePartialFulfillment, http.StatusBadRequest, message, details...)
}

// IsAppError checks if the error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts AppError from error
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsType checks whether err is an AppError of the given type.
func IsType(err error, t ErrorType) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == t
}

// IsRetryable reports whether the error represents a transient condition
// that the caller may retry as a whole request.
func IsRetryable(err error) bool {
	return IsType(err, ErrorTypeGatewayUnreachable)
}

// IsDuplicateError checks if the error is a database duplicate key error
func IsDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	// MySQL duplicate entry error
	if strings.Contains(errStr, "Duplicate entry") || strings.Contains(errStr, "duplicate key") {
		return true
	}
	// PostgreSQL / SQLite unique violation
	if strings.Contains(errStr, "unique constraint") || strings.Contains(errStr, "UNIQUE constraint") {
		return true
	}
	return false
}
