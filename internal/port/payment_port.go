package port

import (
	"context"

	"github.com/minshop/storefront/internal/domain"
)

type ConfirmRequest struct {
	PaymentKey string
	OrderID    string
	Amount     domain.Money
}

// PaymentGateway is the hosted payment processor's confirm API. The
// implementation holds the server-side secret; callers never see it.
type PaymentGateway interface {
	Confirm(ctx context.Context, req ConfirmRequest) (domain.Settlement, error)
}
