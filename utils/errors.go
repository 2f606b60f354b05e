package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies failures raised by the order engine
type ErrorKind string

const (
	KindValidation       ErrorKind = "VALIDATION"
	KindNotFound         ErrorKind = "NOT_FOUND"
	KindConflict         ErrorKind = "CONFLICT"
	KindForbidden        ErrorKind = "FORBIDDEN"
	KindSignatureInvalid ErrorKind = "SIGNATURE_INVALID"
	KindExternalService  ErrorKind = "EXTERNAL_SERVICE"
	KindInvariant        ErrorKind = "INVARIANT_VIOLATION"
	KindInternal         ErrorKind = "INTERNAL"
)

// Reasons refine a kind so the request layer can tell conflicts apart
const (
	ReasonInsufficientStock  = "INSUFFICIENT_STOCK"
	ReasonVariantNotFound    = "VARIANT_NOT_FOUND"
	ReasonProductUnavailable = "PRODUCT_UNAVAILABLE"
	ReasonInvalidCoupon      = "INVALID_COUPON"
	ReasonCouponMinPurchase  = "COUPON_MIN_PURCHASE"
	ReasonCouponUserLimit    = "COUPON_USER_LIMIT"
	ReasonCouponUsageLimit   = "COUPON_USAGE_LIMIT"
	ReasonCouponExpired      = "COUPON_EXPIRED"
	ReasonCODLimitExceeded   = "COD_LIMIT_EXCEEDED"
	ReasonInvalidTransition  = "INVALID_TRANSITION"
	ReasonRefundFailed       = "REFUND_FAILED"
	ReasonAmountMismatch     = "AMOUNT_MISMATCH"
)

// AppError represents an application error
type AppError struct {
	Code    int       `json:"code"`
	Kind    ErrorKind `json:"kind"`
	Reason  string    `json:"reason,omitempty"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithReason returns the error with its reason set
func (e *AppError) WithReason(reason string) *AppError {
	e.Reason = reason
	return e
}

// NewAppError creates a new AppError
func NewAppError(code int, kind ErrorKind, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// InvalidInputError creates a 422 validation error
func InvalidInputError(message string, err error) *AppError {
	return NewAppError(http.StatusUnprocessableEntity, KindValidation, message, err)
}

// NotFoundError creates a 404 Not Found error
func NotFoundError(message string, err error) *AppError {
	return NewAppError(http.StatusNotFound, KindNotFound, message, err)
}

// ConflictError creates a 409 Conflict error
func ConflictError(reason, message string) *AppError {
	return NewAppError(http.StatusConflict, KindConflict, message, nil).WithReason(reason)
}

// ForbiddenError creates a 403 Forbidden error
func ForbiddenError(message string) *AppError {
	return NewAppError(http.StatusForbidden, KindForbidden, message, nil)
}

// SignatureInvalidError creates a 400 payment trust failure
func SignatureInvalidError(message string) *AppError {
	return NewAppError(http.StatusBadRequest, KindSignatureInvalid, message, nil)
}

// ExternalServiceError creates a 502 error carrying the gateway's reason
func ExternalServiceError(message string, err error) *AppError {
	return NewAppError(http.StatusBadGateway, KindExternalService, message, err)
}

// InvariantViolationError creates a 500 error for computations that must never be persisted
func InvariantViolationError(message string) *AppError {
	return NewAppError(http.StatusInternalServerError, KindInvariant, message, nil)
}

// InternalError wraps an unexpected store failure
func InternalError(message string, err error) *AppError {
	return NewAppError(http.StatusInternalServerError, KindInternal, message, err)
}

// GetAppError returns the AppError anywhere in the chain
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	return GetAppError(err) != nil
}

// IsKind checks whether err classifies as kind
func IsKind(err error, kind ErrorKind) bool {
	if appErr := GetAppError(err); appErr != nil {
		return appErr.Kind == kind
	}
	return false
}

// HasReason checks whether err carries the given reason
func HasReason(err error, reason string) bool {
	if appErr := GetAppError(err); appErr != nil {
		return appErr.Reason == reason
	}
	return false
}

// WrapError wraps an error with additional context
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
