package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrUnauthenticated means no principal identity was supplied.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrNotFound covers missing products, cart lines and orders.
	// Order lookups for a foreign owner return it as well, so the
	// response never leaks whether the order exists.
	ErrNotFound = errors.New("not found")

	// ErrForbidden means the resource belongs to a different owner.
	ErrForbidden = errors.New("forbidden")

	ErrEmptyCart = errors.New("cart is empty")

	// ErrOrderNotPayable means the order left the pending state already.
	ErrOrderNotPayable = errors.New("order is not payable")

	// ErrAmountMismatch means the gateway settled a different amount than
	// the order total. The order stays pending and the case needs manual
	// reconciliation, never an automatic retry.
	ErrAmountMismatch = errors.New("settled amount does not match order total")
)

// InsufficientStockError carries the shortfall for user display.
type InsufficientStockError struct {
	ProductID   uuid.UUID
	ProductName string
	Requested   int32
	Available   int32
}

func (e InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product[%s]: requested %d, available %d",
		e.ProductName, e.Requested, e.Available)
}

// ProductUnavailableError names the cart line whose product vanished or
// was deactivated between add-to-cart and checkout.
type ProductUnavailableError struct {
	ProductID   uuid.UUID
	ProductName string
}

func (e ProductUnavailableError) Error() string {
	return fmt.Sprintf("product[%s] is no longer available", e.ProductName)
}

// GatewayError is a non-success response from the payment gateway,
// carrying the gateway's own code and message. Retryable by the user.
type GatewayError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e GatewayError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("payment gateway: %s (%s)", e.Message, e.Code)
	}
	return fmt.Sprintf("payment gateway: http status %d", e.StatusCode)
}
