package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minshop/storefront/internal/domain"
	"github.com/minshop/storefront/internal/port"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type cartRepository struct {
	pool *pgxpool.Pool
}

func NewCart(pool *pgxpool.Pool) port.CartStore {
	return &cartRepository{pool: pool}
}

func (r *cartRepository) GetItem(ctx context.Context, itemID uuid.UUID) (domain.CartItem, error) {
	var item domain.CartItem

	if itemID == uuid.Nil {
		return item, fmt.Errorf("itemID is empty")
	}

	query := `SELECT id, owner_id, product_id, quantity, created_at, updated_at
              FROM cart_items WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, itemID).
		Scan(&item.ID, &item.OwnerID, &item.ProductID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return item, fmt.Errorf("pool.QueryRow: %w", domain.ErrNotFound)
		}
		return item, fmt.Errorf("pool.QueryRow: %w", err)
	}

	return item, nil
}

func (r *cartRepository) FindItem(ctx context.Context, ownerID string, productID uuid.UUID) (domain.CartItem, bool, error) {
	var item domain.CartItem

	if ownerID == "" {
		return item, false, fmt.Errorf("ownerID is empty")
	}

	query := `SELECT id, owner_id, product_id, quantity, created_at, updated_at
              FROM cart_items WHERE owner_id = $1 AND product_id = $2`

	err := r.pool.QueryRow(ctx, query, ownerID, productID).
		Scan(&item.ID, &item.OwnerID, &item.ProductID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return item, false, nil
		}
		return item, false, fmt.Errorf("pool.QueryRow: %w", err)
	}

	return item, true, nil
}

func (r *cartRepository) InsertItem(ctx context.Context, ownerID string, productID uuid.UUID, quantity int32) (domain.CartItem, error) {
	var item domain.CartItem

	if ownerID == "" {
		return item, fmt.Errorf("ownerID is empty")
	}

	query := `INSERT INTO cart_items (owner_id, product_id, quantity)
              VALUES ($1, $2, $3)
              RETURNING id, owner_id, product_id, quantity, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query, ownerID, productID, quantity).
		Scan(&item.ID, &item.OwnerID, &item.ProductID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return item, fmt.Errorf("pool.QueryRow: %w", err)
	}

	return item, nil
}

func (r *cartRepository) UpdateQuantity(ctx context.Context, itemID uuid.UUID, quantity int32) (domain.CartItem, error) {
	var item domain.CartItem

	if itemID == uuid.Nil {
		return item, fmt.Errorf("itemID is empty")
	}

	query := `UPDATE cart_items SET quantity = $2, updated_at = now()
              WHERE id = $1
              RETURNING id, owner_id, product_id, quantity, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query, itemID, quantity).
		Scan(&item.ID, &item.OwnerID, &item.ProductID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return item, fmt.Errorf("pool.QueryRow: %w", domain.ErrNotFound)
		}
		return item, fmt.Errorf("pool.QueryRow: %w", err)
	}

	return item, nil
}

func (r *cartRepository) DeleteItem(ctx context.Context, itemID uuid.UUID) (bool, error) {
	if itemID == uuid.Nil {
		return false, fmt.Errorf("itemID is empty")
	}

	cmdTag, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE id = $1`, itemID)
	if err != nil {
		return false, fmt.Errorf("pool.Exec: %w", err)
	}

	return cmdTag.RowsAffected() > 0, nil
}

func (r *cartRepository) ListItems(ctx context.Context, ownerID string) ([]domain.CartItem, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("ownerID is empty")
	}

	// LEFT JOIN keeps lines whose product row is gone; they surface with
	// a nil Product and the caller decides what to do with them.
	query := `SELECT ci.id, ci.owner_id, ci.product_id, ci.quantity, ci.created_at, ci.updated_at,
                     p.id, p.name, p.description, p.price_amount, p.price_currency,
                     p.category, p.stock_quantity, p.is_active, p.created_at, p.updated_at
              FROM cart_items ci
              LEFT JOIN products p ON p.id = ci.product_id
              WHERE ci.owner_id = $1
              ORDER BY ci.created_at DESC`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("pool.Query: %w", err)
	}
	defer rows.Close()

	var items []domain.CartItem
	for rows.Next() {
		item, err := scanCartItemJoin(rows)
		if err != nil {
			return nil, fmt.Errorf("scanCartItemJoin: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	return items, nil
}

func (r *cartRepository) CountItems(ctx context.Context, ownerID string) (int64, error) {
	if ownerID == "" {
		return 0, fmt.Errorf("ownerID is empty")
	}

	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM cart_items WHERE owner_id = $1`, ownerID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("pool.QueryRow: %w", err)
	}

	return count, nil
}

func (r *cartRepository) Clear(ctx context.Context, ownerID string) (int64, error) {
	if ownerID == "" {
		return 0, fmt.Errorf("ownerID is empty")
	}

	cmdTag, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE owner_id = $1`, ownerID)
	if err != nil {
		return 0, fmt.Errorf("pool.Exec: %w", err)
	}

	return cmdTag.RowsAffected(), nil
}

func scanCartItemJoin(row rowScanner) (domain.CartItem, error) {
	var (
		item domain.CartItem

		productID   *uuid.UUID
		name        *string
		description *string
		priceAmount *decimal.Decimal
		priceCurr   *string
		category    *string
		stock       *int32
		isActive    *bool
		createdAt   *time.Time
		updatedAt   *time.Time
	)

	err := row.Scan(&item.ID, &item.OwnerID, &item.ProductID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt,
		&productID, &name, &description, &priceAmount, &priceCurr,
		&category, &stock, &isActive, &createdAt, &updatedAt)
	if err != nil {
		return item, err
	}

	if productID == nil {
		return item, nil
	}

	parsedCurrency, err := currency.ParseISO(*priceCurr)
	if err != nil {
		return item, fmt.Errorf("currency[%s] is not valid: %w", *priceCurr, err)
	}

	item.Product = &domain.Product{
		ID:            *productID,
		Name:          *name,
		Description:   description,
		Price:         domain.Money{Amount: *priceAmount, Currency: parsedCurrency},
		Category:      category,
		StockQuantity: *stock,
		IsActive:      *isActive,
		CreatedAt:     *createdAt,
		UpdatedAt:     *updatedAt,
	}

	return item, nil
}
