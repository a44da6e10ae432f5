package model

import (
	"errors"
	"fmt"
)

// FieldError is one entry of the API's structured error array.
type FieldError struct {
	Attr   string `json:"attr"`
	Detail string `json:"detail"`
}

// String renders the error the way it is shown to the user.
func (e FieldError) String() string {
	if e.Attr == "" {
		return e.Detail
	}
	return fmt.Sprintf("%s - %s", e.Attr, e.Detail)
}

// Standard error codes for client-side failures
const (
	ErrCodeNoIdentity        = "NO_IDENTITY"
	ErrCodeAuthRequired      = "AUTH_REQUIRED"
	ErrCodeOrderIDRequired   = "ORDER_ID_REQUIRED"
	ErrCodeOrderTerminal     = "ORDER_TERMINAL"
	ErrCodeInvalidTransition = "INVALID_TRANSITION"
	ErrCodePaymentRequired   = "PAYMENT_REQUIRED"
	ErrCodeDiscountApplied   = "DISCOUNT_APPLIED"
	ErrCodeEmptyCoupon       = "EMPTY_COUPON"
	ErrCodeInvalidQuantity   = "INVALID_QUANTITY"
	ErrCodeCartNotFound      = "CART_NOT_FOUND"
	ErrCodePriceUnavailable  = "PRICE_UNAVAILABLE"
	ErrCodeInvalidItem       = "INVALID_ITEM"
	ErrCodeTrackingToken     = "INVALID_TRACKING_TOKEN"
	ErrCodeCartEmpty         = "CART_EMPTY"
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
	ErrNoIdentity        = NewDomainError(ErrCodeNoIdentity, "Either user_id or guest_id is required")
	ErrAuthRequired      = NewDomainError(ErrCodeAuthRequired, "Authentication token is required")
	ErrOrderIDRequired   = NewDomainError(ErrCodeOrderIDRequired, "Order ID is required to update status")
	ErrOrderTerminal     = NewDomainError(ErrCodeOrderTerminal, "Order is already at the final stage.")
	ErrInvalidTransition = NewDomainError(ErrCodeInvalidTransition, "You can only advance an order one step at a time")
	ErrPaymentRequired   = NewDomainError(ErrCodePaymentRequired, "Payment must be marked as paid before delivery")
	ErrDiscountApplied   = NewDomainError(ErrCodeDiscountApplied, "A discount is already applied to this cart")
	ErrEmptyCoupon       = NewDomainError(ErrCodeEmptyCoupon, "Coupon code is required")
	ErrInvalidQuantity   = NewDomainError(ErrCodeInvalidQuantity, "Invalid quantity")
	ErrCartNotFound      = NewDomainError(ErrCodeCartNotFound, "Cart not found. Please try again.")
	ErrPriceUnavailable  = NewDomainError(ErrCodePriceUnavailable, "Selected size is no longer available")
	ErrInvalidItem       = NewDomainError(ErrCodeInvalidItem, "Invalid item ID")
	ErrTrackingToken     = NewDomainError(ErrCodeTrackingToken, "Invalid order tracking token")
	ErrCartEmpty         = NewDomainError(ErrCodeCartEmpty, "Your cart is empty")
)

// IsDomainError reports whether err wraps a DomainError with the given code.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}
