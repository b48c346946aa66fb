package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type Order struct {
	ID              uuid.UUID
	OwnerID         string
	TotalAmount     Money
	Status          OrderStatus
	ShippingAddress ShippingAddress
	OrderNote       *string
	Items           []OrderItem

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderItem is a frozen snapshot of a cart line at order-creation time.
// ProductName and Price are denormalized and never re-derived from the
// live product row.
type OrderItem struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	Quantity    int32
	Price       Money

	CreatedAt time.Time
}

type ShippingAddress struct {
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	Postcode      string `json:"postcode"`
	Address       string `json:"address"`
	DetailAddress string `json:"detailAddress"`
}

func (a ShippingAddress) Validate() error {
	if a.Name == "" {
		return errors.New("name is empty")
	}

	if a.Phone == "" {
		return errors.New("phone is empty")
	}

	if a.Postcode == "" {
		return errors.New("postcode is empty")
	}

	if a.Address == "" {
		return errors.New("address is empty")
	}

	return nil
}
