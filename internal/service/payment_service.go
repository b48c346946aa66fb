package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/minshop/storefront/internal/domain"
	"github.com/minshop/storefront/internal/port"
	"go.uber.org/zap"
)

// Payment settles a pending order against the external gateway and
// advances its status. The gateway's settlement record is authoritative;
// the client-supplied amount is never trusted without comparing it to the
// settled total.
type Payment struct {
	gateway port.PaymentGateway
	orders  port.OrderStore
	logger  *zap.Logger
}

func NewPayment(gateway port.PaymentGateway, orders port.OrderStore, logger *zap.Logger) (*Payment, error) {
	if gateway == nil {
		return nil, fmt.Errorf("gateway is nil")
	}

	if orders == nil {
		return nil, fmt.Errorf("orders is nil")
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Payment{gateway: gateway, orders: orders, logger: logger}, nil
}

// ConfirmPayment asks the gateway to settle the charge and returns its
// settlement record verbatim. A non-success response surfaces as
// domain.GatewayError; the order is untouched and the user may retry.
func (s *Payment) ConfirmPayment(ctx context.Context, paymentKey, orderID string, amount domain.Money) (domain.Settlement, error) {
	settlement, err := s.gateway.Confirm(ctx, port.ConfirmRequest{
		PaymentKey: paymentKey,
		OrderID:    orderID,
		Amount:     amount,
	})
	if err != nil {
		return settlement, fmt.Errorf("gateway.Confirm: %w", err)
	}

	return settlement, nil
}

// FinalizeOrder verifies the settled amount against the order total and
// transitions pending → confirmed. On a mismatch the order stays pending
// and domain.ErrAmountMismatch is returned; that case needs manual
// reconciliation, not a retry.
func (s *Payment) FinalizeOrder(ctx context.Context, ownerID string, orderID uuid.UUID, settlement domain.Settlement) error {
	if ownerID == "" {
		return domain.ErrUnauthenticated
	}

	order, err := s.orders.GetOrder(ctx, ownerID, orderID)
	if err != nil {
		return fmt.Errorf("orders.GetOrder: %w", err)
	}

	if !settlement.TotalAmount.Equal(order.TotalAmount) {
		s.logger.Error("settled amount does not match order total",
			zap.String("order_id", orderID.String()),
			zap.String("expected", order.TotalAmount.Amount.String()),
			zap.String("settled", settlement.TotalAmount.Amount.String()),
			zap.String("payment_key", settlement.PaymentKey))

		return domain.ErrAmountMismatch
	}

	updated, err := s.orders.UpdateStatus(ctx, ownerID, orderID, domain.OrderStatusConfirmed)
	if err != nil {
		return fmt.Errorf("orders.UpdateStatus: %w", err)
	}

	if !updated {
		return domain.ErrNotFound
	}

	s.logger.Info("order confirmed",
		zap.String("order_id", orderID.String()),
		zap.String("payment_key", settlement.PaymentKey))

	return nil
}

// GetOrderForPayment is the ownership-checked fetch used by the payment
// page. Only a pending order may be paid; anything else fails with
// domain.ErrOrderNotPayable so a confirmed or cancelled order cannot be
// charged twice.
func (s *Payment) GetOrderForPayment(ctx context.Context, ownerID string, orderID uuid.UUID) (domain.Order, error) {
	var o domain.Order

	if ownerID == "" {
		return o, domain.ErrUnauthenticated
	}

	o, err := s.orders.GetOrder(ctx, ownerID, orderID)
	if err != nil {
		return o, fmt.Errorf("orders.GetOrder: %w", err)
	}

	if o.Status != domain.OrderStatusPending {
		return o, fmt.Errorf("order status[%s]: %w", o.Status, domain.ErrOrderNotPayable)
	}

	return o, nil
}
