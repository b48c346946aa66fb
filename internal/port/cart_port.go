package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/minshop/storefront/internal/domain"
)

type CartStore interface {
	// GetItem fetches a cart line by id regardless of owner, so the caller
	// can distinguish a missing line from a foreign one.
	GetItem(ctx context.Context, itemID uuid.UUID) (domain.CartItem, error)

	// FindItem returns the owner's line for the product, if any.
	FindItem(ctx context.Context, ownerID string, productID uuid.UUID) (domain.CartItem, bool, error)

	InsertItem(ctx context.Context, ownerID string, productID uuid.UUID, quantity int32) (domain.CartItem, error)
	UpdateQuantity(ctx context.Context, itemID uuid.UUID, quantity int32) (domain.CartItem, error)
	DeleteItem(ctx context.Context, itemID uuid.UUID) (bool, error)

	// ListItems returns the owner's lines newest first, each joined with its
	// product. A line whose product row is gone comes back with a nil Product.
	ListItems(ctx context.Context, ownerID string) ([]domain.CartItem, error)

	CountItems(ctx context.Context, ownerID string) (int64, error)

	// Clear deletes all of the owner's lines and returns how many there were.
	Clear(ctx context.Context, ownerID string) (int64, error)
}
