package model

import "errors"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorKind classifies a domain error for the transport layer.
type ErrorKind string

const (
	KindNotFound     ErrorKind = "not_found"
	KindValidation   ErrorKind = "validation"
	KindConflict     ErrorKind = "conflict"
	KindUnauthorized ErrorKind = "unauthorized"
	KindForbidden    ErrorKind = "forbidden"
)

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON        = "INVALID_JSON"
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeProductNotFound    = "PRODUCT_NOT_FOUND"
	ErrCodeCartItemNotFound   = "CART_ITEM_NOT_FOUND"
	ErrCodeOrderNotFound      = "ORDER_NOT_FOUND"
	ErrCodeUserNotFound       = "USER_NOT_FOUND"
	ErrCodeEmptyCart          = "EMPTY_CART"
	ErrCodeInvalidQuantity    = "INVALID_QUANTITY"
	ErrCodeInvalidOrderStatus = "INVALID_ORDER_STATUS"
	ErrCodeEmailTaken         = "EMAIL_TAKEN"
	ErrCodePasswordMismatch   = "PASSWORD_MISMATCH"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeInvalidRecipient   = "INVALID_RECIPIENT"
	ErrCodeIdempotencyReused  = "IDEMPOTENCY_KEY_REUSED"
	ErrCodeUnauthorised       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Kind    ErrorKind
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(kind ErrorKind, code, message string) *DomainError {
	return &DomainError{
		Kind:    kind,
		Code:    code,
		Message: message,
	}
}

// AsDomainError extracts a *DomainError from err's chain.
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// Common domain errors
var (
	ErrProductNotFound    = NewDomainError(KindNotFound, ErrCodeProductNotFound, "Product not found")
	ErrCartItemNotFound   = NewDomainError(KindNotFound, ErrCodeCartItemNotFound, "Cart item not found")
	ErrOrderNotFound      = NewDomainError(KindNotFound, ErrCodeOrderNotFound, "Order not found")
	ErrUserNotFound       = NewDomainError(KindNotFound, ErrCodeUserNotFound, "User not found")
	ErrEmptyCart          = NewDomainError(KindValidation, ErrCodeEmptyCart, "Your cart is empty")
	ErrInvalidQuantity    = NewDomainError(KindValidation, ErrCodeInvalidQuantity, "Quantity must be a whole number no greater than 2147483647")
	ErrInvalidOrderStatus = NewDomainError(KindValidation, ErrCodeInvalidOrderStatus, "Order status must be one of created, in_assembly, ready, delivered")
	ErrPasswordMismatch   = NewDomainError(KindValidation, ErrCodePasswordMismatch, "Passwords do not match")
	ErrEmailTaken         = NewDomainError(KindConflict, ErrCodeEmailTaken, "A user with this email already exists")
	ErrInvalidCredentials = NewDomainError(KindUnauthorized, ErrCodeInvalidCredentials, "Invalid email or password")
	ErrUnauthenticated    = NewDomainError(KindUnauthorized, ErrCodeUnauthorised, "Authentication required")
	ErrInvalidRecipient   = NewDomainError(KindValidation, ErrCodeInvalidRecipient, "Recipient email address is malformed")
)
