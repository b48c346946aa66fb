package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/minshop/storefront/internal/domain"
)

// CatalogStore is the read path over the product catalog, plus the single
// write the order workflow needs. All reads are filtered to active
// products; inactive products never reach customers.
type CatalogStore interface {
	// GetProduct returns domain.ErrNotFound for a missing or inactive product.
	GetProduct(ctx context.Context, productID uuid.UUID) (domain.Product, error)

	ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	CountProducts(ctx context.Context, filter domain.ProductFilter) (int64, error)

	// DecrementStock subtracts quantity from the product's stock in a single
	// conditional statement. It reports false without error when the product
	// no longer has that much stock, so the caller decides what a failed
	// decrement means.
	DecrementStock(ctx context.Context, productID uuid.UUID, quantity int32) (bool, error)
}
