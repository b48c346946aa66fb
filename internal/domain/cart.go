package domain

import (
	"time"

	"github.com/google/uuid"
)

type Cart struct {
	OwnerID string
	Items   []CartItem
}

// CartItem is one (product, quantity) line in an owner's cart.
// Product is the joined product row and is nil when the product
// has been deleted since the line was added.
type CartItem struct {
	ID        uuid.UUID
	OwnerID   string
	ProductID uuid.UUID
	Quantity  int32
	Product   *Product

	CreatedAt time.Time
	UpdatedAt time.Time
}
