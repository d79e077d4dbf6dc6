package model

import "fmt"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON     = "INVALID_JSON"
	ErrCodeMissingField    = "MISSING_FIELD"
	ErrCodeUnauthorised    = "UNAUTHORIZED"
	ErrCodeForbidden       = "FORBIDDEN"
	ErrCodeInternalError   = "INTERNAL_ERROR"
	ErrCodeProductNotFound = "PRODUCT_NOT_FOUND"
	ErrCodeProductInactive = "PRODUCT_INACTIVE"
	ErrCodeInvalidQuantity = "INVALID_QUANTITY"
	ErrCodeOrderNotFound   = "ORDER_NOT_FOUND"
	ErrCodeInvalidStatus   = "INVALID_STATUS"
)

// Checkout error codes. Every failure implies a full rollback: no order
// row, no order items and no stock change from the failed attempt remain.
const (
	ErrCodeEmptyCart            = "EMPTY_CART"
	ErrCodeInvalidPrice         = "INVALID_PRICE"
	ErrCodeOutOfStock           = "OUT_OF_STOCK"
	ErrCodeInvalidTotal         = "INVALID_TOTAL"
	ErrCodeDuplicateOrderNumber = "DUPLICATE_ORDER_NUMBER"
	ErrCodeReferentialIntegrity = "REFERENTIAL_INTEGRITY"
	ErrCodePersistenceFailure   = "PERSISTENCE_FAILURE"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrProductNotFound = NewDomainError(ErrCodeProductNotFound, "Product not found")
	ErrProductInactive = NewDomainError(ErrCodeProductInactive, "Product is not available for sale")
	ErrInvalidQuantity = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrOrderNotFound   = NewDomainError(ErrCodeOrderNotFound, "Order not found")
	ErrInvalidStatus   = NewDomainError(ErrCodeInvalidStatus, "Invalid status value")
	ErrForbidden       = NewDomainError(ErrCodeForbidden, "Not allowed")

	ErrEmptyCart = NewDomainError(ErrCodeEmptyCart, "Cart is empty")
	ErrInvalidPrice = NewDomainError(ErrCodeInvalidPrice,
		"A product in the cart has an invalid price and cannot be ordered")
	ErrInvalidTotal = NewDomainError(ErrCodeInvalidTotal, "Order total must be greater than zero")
	ErrDuplicateOrderNumber = NewDomainError(ErrCodeDuplicateOrderNumber,
		"Order number collision, please retry")
	ErrReferentialIntegrity = NewDomainError(ErrCodeReferentialIntegrity,
		"Order references a user or product that no longer exists")
	ErrPersistenceFailure = NewDomainError(ErrCodePersistenceFailure, "Failed to save the order")
)

// NewOutOfStockError names the offending product so the checkout page can
// show an actionable message.
func NewOutOfStockError(productName string) *DomainError {
	return NewDomainError(ErrCodeOutOfStock,
		fmt.Sprintf("Insufficient stock for %q", productName))
}
