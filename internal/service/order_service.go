package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/minshop/storefront/internal/domain"
	"github.com/minshop/storefront/internal/port"
	"github.com/minshop/storefront/internal/workflow"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Order converts carts into orders. The store offers no transaction
// spanning several statements, so CreateOrder compensates by hand: the
// order header is deleted again if line insertion fails, and nothing after
// the lines exist is ever rolled back.
type Order struct {
	cart    *Cart
	catalog port.CatalogStore
	orders  port.OrderStore
	logger  *zap.Logger
}

func NewOrder(cart *Cart, catalog port.CatalogStore, orders port.OrderStore, logger *zap.Logger) (*Order, error) {
	if cart == nil {
		return nil, fmt.Errorf("cart is nil")
	}

	if catalog == nil {
		return nil, fmt.Errorf("catalog is nil")
	}

	if orders == nil {
		return nil, fmt.Errorf("orders is nil")
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Order{cart: cart, catalog: catalog, orders: orders, logger: logger}, nil
}

// pricedLine pairs a cart line with the product row read during
// re-validation. Price and stock are frozen here; the snapshot becomes the
// order line.
type pricedLine struct {
	item    domain.CartItem
	product domain.Product
}

// CreateOrder runs the checkout sequence: load cart, re-validate and
// price every line, insert the header, insert the lines, then decrement
// stock and clear the cart. A failure before the lines exist undoes the
// header; a failure after that point is logged and surfaced but the order
// stands.
func (s *Order) CreateOrder(ctx context.Context, ownerID string, address domain.ShippingAddress, orderNote *string) (domain.Order, error) {
	var o domain.Order

	if ownerID == "" {
		return o, domain.ErrUnauthenticated
	}

	if err := address.Validate(); err != nil {
		return o, fmt.Errorf("address.Validate: %w", err)
	}

	logger := s.logger.With(zap.String("owner_id", ownerID))

	// step 1: load cart
	items, err := s.cart.ListItems(ctx, ownerID)
	if err != nil {
		return o, fmt.Errorf("cart.ListItems: %w", err)
	}

	if len(items) == 0 {
		return o, domain.ErrEmptyCart
	}

	// step 2: re-validate stock and price every line
	lines, total, err := s.priceLines(ctx, items)
	if err != nil {
		return o, fmt.Errorf("priceLines: %w", err)
	}

	comp := workflow.NewCompensator(logger)

	// step 3: order header
	header, err := s.orders.InsertOrder(ctx, domain.Order{
		OwnerID:         ownerID,
		TotalAmount:     total,
		Status:          domain.OrderStatusPending,
		ShippingAddress: address,
		OrderNote:       orderNote,
	})
	if err != nil {
		return o, fmt.Errorf("orders.InsertOrder: %w", err)
	}

	comp.Add("delete order header", func(ctx context.Context) error {
		return s.orders.DeleteOrder(ctx, header.ID)
	})

	logger = logger.With(zap.String("order_id", header.ID.String()))

	// step 4: order lines, snapshotting name/price/quantity
	snapshots := lo.Map(lines, func(line pricedLine, _ int) domain.OrderItem {
		return domain.OrderItem{
			OrderID:     header.ID,
			ProductID:   line.product.ID,
			ProductName: line.product.Name,
			Quantity:    line.item.Quantity,
			Price:       line.product.Price,
		}
	})

	inserted, err := s.orders.InsertOrderItems(ctx, header.ID, snapshots)
	if err != nil {
		// No order may stay visible with a header but no lines. The
		// rollback is best-effort: its own failure is logged inside the
		// compensator and the insert error still wins.
		comp.Rollback(ctx)
		return o, fmt.Errorf("orders.InsertOrderItems: %w", err)
	}

	// Lines exist, the order is created. Nothing below voids it.
	comp.Clear()

	header.Items = inserted

	// step 5: decrement stock, then clear the cart. The order persists
	// whatever happens below, so errors surface together with the header.
	for _, line := range lines {
		ok, err := s.catalog.DecrementStock(ctx, line.product.ID, line.item.Quantity)
		if err != nil {
			logger.Error("stock decrement failed",
				zap.String("product_id", line.product.ID.String()),
				zap.Error(err))
			return header, fmt.Errorf("catalog.DecrementStock: %w", err)
		}

		if !ok {
			// A concurrent order won the remaining stock. The sale stands,
			// the shortfall is an operator problem.
			logger.Warn("stock decrement skipped, insufficient remainder",
				zap.String("product_id", line.product.ID.String()),
				zap.Int32("quantity", line.item.Quantity))
		}
	}

	if _, err := s.cart.Clear(ctx, ownerID); err != nil {
		logger.Error("cart clear failed", zap.Error(err))
		return header, fmt.Errorf("cart.Clear: %w", err)
	}

	logger.Info("order created",
		zap.String("total_amount", header.TotalAmount.Amount.String()),
		zap.Int("item_count", len(inserted)))

	return header, nil
}

// priceLines re-reads every product concurrently and fails fast on the
// first unavailable product or stock shortfall. The returned total is
// Σ(current unit price × quantity) over all lines.
func (s *Order) priceLines(ctx context.Context, items []domain.CartItem) ([]pricedLine, domain.Money, error) {
	lines := make([]pricedLine, len(items))

	g, gctx := errgroup.WithContext(ctx)
	for i, item := range items {
		g.Go(func() error {
			product, err := s.catalog.GetProduct(gctx, item.ProductID)
			if err != nil {
				if !errors.Is(err, domain.ErrNotFound) {
					return fmt.Errorf("catalog.GetProduct: %w", err)
				}

				unavailable := domain.ProductUnavailableError{ProductID: item.ProductID}
				if item.Product != nil {
					unavailable.ProductName = item.Product.Name
				}
				return unavailable
			}

			if product.StockQuantity < item.Quantity {
				return domain.InsufficientStockError{
					ProductID:   product.ID,
					ProductName: product.Name,
					Requested:   item.Quantity,
					Available:   product.StockQuantity,
				}
			}

			lines[i] = pricedLine{item: item, product: product}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, domain.Money{}, err
	}

	total := domain.Money{
		Amount:   decimal.Zero,
		Currency: lines[0].product.Price.Currency,
	}
	for _, line := range lines {
		// Money.Add adds raw amounts, so a single order currency is
		// enforced here before totalling.
		if line.product.Price.Currency.String() != total.Currency.String() {
			return nil, domain.Money{}, fmt.Errorf("product[%s] currency[%s] differs from order currency[%s]",
				line.product.ID, line.product.Price.Currency, total.Currency)
		}

		total = total.Add(line.product.Price.Mul(line.item.Quantity))
	}

	return lines, total, nil
}

// GetOrderByID returns the order with its lines. The lookup filters on
// both id and owner, so a foreign order is indistinguishable from a
// missing one.
func (s *Order) GetOrderByID(ctx context.Context, ownerID string, orderID uuid.UUID) (domain.Order, error) {
	var o domain.Order

	if ownerID == "" {
		return o, domain.ErrUnauthenticated
	}

	o, err := s.orders.GetOrder(ctx, ownerID, orderID)
	if err != nil {
		return o, fmt.Errorf("orders.GetOrder: %w", err)
	}

	o.Items, err = s.orders.GetOrderItems(ctx, orderID)
	if err != nil {
		return o, fmt.Errorf("orders.GetOrderItems: %w", err)
	}

	return o, nil
}

// ListOrders returns the owner's orders newest first. A failed line fetch
// degrades that order to an empty item list rather than failing the page.
func (s *Order) ListOrders(ctx context.Context, ownerID string) ([]domain.Order, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthenticated
	}

	orders, err := s.orders.ListOrders(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("orders.ListOrders: %w", err)
	}

	for i := range orders {
		items, err := s.orders.GetOrderItems(ctx, orders[i].ID)
		if err != nil {
			s.logger.Warn("order items fetch failed",
				zap.String("owner_id", ownerID),
				zap.String("order_id", orders[i].ID.String()),
				zap.Error(err))
			continue
		}
		orders[i].Items = items
	}

	return orders, nil
}
