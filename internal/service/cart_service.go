package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/minshop/storefront/internal/domain"
	"github.com/minshop/storefront/internal/port"
	"go.uber.org/zap"
)

// Cart manages one owner's (product, quantity) lines. Stock is checked on
// every mutation against the live product row, but nothing is reserved:
// the order workflow re-validates at checkout.
type Cart struct {
	carts   port.CartStore
	catalog port.CatalogStore
	logger  *zap.Logger
}

func NewCart(carts port.CartStore, catalog port.CatalogStore, logger *zap.Logger) (*Cart, error) {
	if carts == nil {
		return nil, fmt.Errorf("carts is nil")
	}

	if catalog == nil {
		return nil, fmt.Errorf("catalog is nil")
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Cart{carts: carts, catalog: catalog, logger: logger}, nil
}

// AddItem puts quantity units of the product into the owner's cart. A
// second add for the same product merges into the existing line, and the
// stock check runs against the merged total, not just the increment.
func (s *Cart) AddItem(ctx context.Context, ownerID string, productID uuid.UUID, quantity int32) (domain.CartItem, error) {
	var item domain.CartItem

	if ownerID == "" {
		return item, domain.ErrUnauthenticated
	}

	if quantity < 1 {
		return item, fmt.Errorf("quantity[%d] is less than 1", quantity)
	}

	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return item, fmt.Errorf("catalog.GetProduct: %w", err)
	}

	if product.StockQuantity < quantity {
		return item, domain.InsufficientStockError{
			ProductID:   product.ID,
			ProductName: product.Name,
			Requested:   quantity,
			Available:   product.StockQuantity,
		}
	}

	existing, found, err := s.carts.FindItem(ctx, ownerID, productID)
	if err != nil {
		return item, fmt.Errorf("carts.FindItem: %w", err)
	}

	if found {
		merged := existing.Quantity + quantity

		if product.StockQuantity < merged {
			s.logger.Warn("cart merge exceeds stock",
				zap.String("owner_id", ownerID),
				zap.String("product_id", productID.String()),
				zap.Int32("in_cart", existing.Quantity),
				zap.Int32("requested", quantity),
				zap.Int32("available", product.StockQuantity))

			return item, domain.InsufficientStockError{
				ProductID:   product.ID,
				ProductName: product.Name,
				Requested:   merged,
				Available:   product.StockQuantity,
			}
		}

		item, err = s.carts.UpdateQuantity(ctx, existing.ID, merged)
		if err != nil {
			return item, fmt.Errorf("carts.UpdateQuantity: %w", err)
		}
	} else {
		item, err = s.carts.InsertItem(ctx, ownerID, productID, quantity)
		if err != nil {
			return item, fmt.Errorf("carts.InsertItem: %w", err)
		}
	}

	item.Product = &product

	return item, nil
}

func (s *Cart) RemoveItem(ctx context.Context, ownerID string, itemID uuid.UUID) error {
	if ownerID == "" {
		return domain.ErrUnauthenticated
	}

	item, err := s.carts.GetItem(ctx, itemID)
	if err != nil {
		return fmt.Errorf("carts.GetItem: %w", err)
	}

	if item.OwnerID != ownerID {
		return domain.ErrForbidden
	}

	if _, err := s.carts.DeleteItem(ctx, itemID); err != nil {
		return fmt.Errorf("carts.DeleteItem: %w", err)
	}

	return nil
}

// SetQuantity replaces the line's quantity after re-validating against the
// current active product, which may have been restocked or deactivated
// since the line was created.
func (s *Cart) SetQuantity(ctx context.Context, ownerID string, itemID uuid.UUID, quantity int32) (domain.CartItem, error) {
	var item domain.CartItem

	if ownerID == "" {
		return item, domain.ErrUnauthenticated
	}

	if quantity < 1 {
		return item, fmt.Errorf("quantity[%d] is less than 1", quantity)
	}

	existing, err := s.carts.GetItem(ctx, itemID)
	if err != nil {
		return item, fmt.Errorf("carts.GetItem: %w", err)
	}

	if existing.OwnerID != ownerID {
		return item, domain.ErrForbidden
	}

	product, err := s.catalog.GetProduct(ctx, existing.ProductID)
	if err != nil {
		return item, fmt.Errorf("catalog.GetProduct: %w", err)
	}

	if product.StockQuantity < quantity {
		return item, domain.InsufficientStockError{
			ProductID:   product.ID,
			ProductName: product.Name,
			Requested:   quantity,
			Available:   product.StockQuantity,
		}
	}

	item, err = s.carts.UpdateQuantity(ctx, itemID, quantity)
	if err != nil {
		return item, fmt.Errorf("carts.UpdateQuantity: %w", err)
	}

	item.Product = &product

	return item, nil
}

// ListItems returns the owner's lines newest first. A line whose product
// row disappeared is kept with a nil product and logged; it never makes it
// into an order.
func (s *Cart) ListItems(ctx context.Context, ownerID string) ([]domain.CartItem, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthenticated
	}

	items, err := s.carts.ListItems(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("carts.ListItems: %w", err)
	}

	for _, item := range items {
		if item.Product == nil {
			s.logger.Warn("cart line without product",
				zap.String("owner_id", ownerID),
				zap.String("cart_item_id", item.ID.String()),
				zap.String("product_id", item.ProductID.String()))
		}
	}

	return items, nil
}

// Count returns the number of lines, not the summed quantity.
func (s *Cart) Count(ctx context.Context, ownerID string) (int64, error) {
	if ownerID == "" {
		return 0, domain.ErrUnauthenticated
	}

	count, err := s.carts.CountItems(ctx, ownerID)
	if err != nil {
		return 0, fmt.Errorf("carts.CountItems: %w", err)
	}

	return count, nil
}

// Clear deletes all of the owner's lines and returns the pre-deletion count.
func (s *Cart) Clear(ctx context.Context, ownerID string) (int64, error) {
	if ownerID == "" {
		return 0, domain.ErrUnauthenticated
	}

	deleted, err := s.carts.Clear(ctx, ownerID)
	if err != nil {
		return 0, fmt.Errorf("carts.Clear: %w", err)
	}

	return deleted, nil
}
