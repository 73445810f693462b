package model

import "fmt"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message,omitempty"`
	Field     string `json:"field,omitempty"`
	Available *int   `json:"available,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON       = "INVALID_JSON"
	ErrCodeValidation        = "VALIDATION"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeForbidden         = "FORBIDDEN"
	ErrCodeInsufficientStock = "INSUFFICIENT_STOCK"
	ErrCodeGateway           = "GATEWAY_ERROR"
	ErrCodeAlreadyPaid       = "ALREADY_PAID"
	ErrCodeUnauthorised      = "UNAUTHORIZED"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// DomainError is a business-rule violation that maps to a client-visible
// HTTP status. Field names the offending request field where one exists.
type DomainError struct {
	Code    string
	Message string
	Field   string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// NewValidationError creates a field-tagged validation error.
func NewValidationError(field, message string) *DomainError {
	return &DomainError{Code: ErrCodeValidation, Message: message, Field: field}
}

// Common domain errors
var (
	ErrCartEmpty            = &DomainError{Code: ErrCodeValidation, Message: "Your cart is empty", Field: "cart"}
	ErrProductNotFound      = &DomainError{Code: ErrCodeNotFound, Message: "Product not found", Field: "productId"}
	ErrOrderNotFound        = &DomainError{Code: ErrCodeNotFound, Message: "Order not found", Field: "orderId"}
	ErrAddressNotFound      = &DomainError{Code: ErrCodeNotFound, Message: "Address not found", Field: "addressId"}
	ErrCartNotFound         = &DomainError{Code: ErrCodeNotFound, Message: "Cart not found", Field: "cart"}
	ErrNotOrderOwner        = &DomainError{Code: ErrCodeForbidden, Message: "Not authorized to access this order"}
	ErrInvalidPaymentMethod = &DomainError{Code: ErrCodeValidation, Message: "Invalid payment method", Field: "paymentMethod"}
	ErrIncompleteAddress    = &DomainError{Code: ErrCodeValidation, Message: "Complete shipping address is required", Field: "shippingAddress"}
	ErrInvalidQuantity      = &DomainError{Code: ErrCodeValidation, Message: "Quantity must be greater than zero", Field: "quantity"}
	ErrInvalidDiscountCode  = &DomainError{Code: ErrCodeValidation, Message: "Invalid discount code", Field: "discountCode"}
	ErrInvalidStatus        = &DomainError{Code: ErrCodeValidation, Message: "Invalid order status", Field: "status"}
	ErrPaymentNotConfirmed  = &DomainError{Code: ErrCodeGateway, Message: "Payment not successful"}
)

// InsufficientStockError reports a product that cannot satisfy the requested
// quantity, carrying the quantity still available so the client can adjust.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Not enough stock for %s. Available: %d", e.ProductName, e.Available)
}

// GatewayError wraps a failure from the payment gateway. Orders must never be
// left in Pending when one of these surfaces from intention creation.
type GatewayError struct {
	Message string
	Err     error
}

func (e *GatewayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}
