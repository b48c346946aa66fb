package domain

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID            uuid.UUID
	Name          string
	Description   *string
	Price         Money
	Category      *string
	StockQuantity int32
	IsActive      bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProductFilter has AND semantics across fields.
type ProductFilter struct {
	Category *string
	Limit    int32
	Offset   int32
}
