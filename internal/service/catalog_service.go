package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/minshop/storefront/internal/domain"
	"github.com/minshop/storefront/internal/port"
)

const defaultPageSize = 12

// Catalog is the public browsing surface over the product store. Reads
// need no principal; only active products come back.
type Catalog struct {
	catalog port.CatalogStore
}

func NewCatalog(catalog port.CatalogStore) (*Catalog, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog is nil")
	}

	return &Catalog{catalog: catalog}, nil
}

func (s *Catalog) GetProduct(ctx context.Context, productID uuid.UUID) (domain.Product, error) {
	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return product, fmt.Errorf("catalog.GetProduct: %w", err)
	}

	return product, nil
}

func (s *Catalog) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultPageSize
	}

	products, err := s.catalog.ListProducts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("catalog.ListProducts: %w", err)
	}

	return products, nil
}

func (s *Catalog) CountProducts(ctx context.Context, filter domain.ProductFilter) (int64, error) {
	count, err := s.catalog.CountProducts(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("catalog.CountProducts: %w", err)
	}

	return count, nil
}
