package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/minshop/storefront/internal/domain"
)

type OrderStore interface {
	// InsertOrder persists the order header only and returns it with the
	// generated id and timestamps.
	InsertOrder(ctx context.Context, order domain.Order) (domain.Order, error)

	InsertOrderItems(ctx context.Context, orderID uuid.UUID, items []domain.OrderItem) ([]domain.OrderItem, error)

	// DeleteOrder removes the header, compensating a failed item insert.
	DeleteOrder(ctx context.Context, orderID uuid.UUID) error

	// GetOrder filters on both id and owner in one lookup; a foreign order
	// surfaces as domain.ErrNotFound.
	GetOrder(ctx context.Context, ownerID string, orderID uuid.UUID) (domain.Order, error)

	GetOrderItems(ctx context.Context, orderID uuid.UUID) ([]domain.OrderItem, error)

	// ListOrders returns the owner's order headers newest first, without items.
	ListOrders(ctx context.Context, ownerID string) ([]domain.Order, error)

	// UpdateStatus transitions the order's status with the same owner
	// filtering as GetOrder. It reports false when no row matched.
	UpdateStatus(ctx context.Context, ownerID string, orderID uuid.UUID, status domain.OrderStatus) (bool, error)
}
