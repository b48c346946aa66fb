package domain

import "time"

// Settlement is the payment gateway's authoritative confirmation of a
// charge, returned verbatim from its confirm endpoint.
type Settlement struct {
	PaymentKey  string
	OrderID     string
	OrderName   string
	Status      string
	Method      string
	TotalAmount Money
	RequestedAt time.Time
	ApprovedAt  *time.Time
}
