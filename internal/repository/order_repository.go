package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minshop/storefront/internal/domain"
	"github.com/minshop/storefront/internal/port"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

const orderColumns = `id, owner_id, total_amount, total_currency, status, shipping_address, order_note, created_at, updated_at`

type orderRepository struct {
	pool *pgxpool.Pool
}

func NewOrder(pool *pgxpool.Pool) port.OrderStore {
	return &orderRepository{pool: pool}
}

func (r *orderRepository) InsertOrder(ctx context.Context, order domain.Order) (domain.Order, error) {
	var o domain.Order

	if order.OwnerID == "" {
		return o, fmt.Errorf("ownerID is empty")
	}

	address, err := json.Marshal(order.ShippingAddress)
	if err != nil {
		return o, fmt.Errorf("json.Marshal: %w", err)
	}

	query := `INSERT INTO orders (owner_id, total_amount, total_currency, status, shipping_address, order_note)
              VALUES ($1, $2, $3, $4, $5, $6)
              RETURNING ` + orderColumns

	row := r.pool.QueryRow(ctx, query,
		order.OwnerID, order.TotalAmount.Amount, order.TotalAmount.Currency.String(),
		string(order.Status), address, order.OrderNote)

	o, err = scanOrder(row)
	if err != nil {
		return o, fmt.Errorf("scanOrder: %w", err)
	}

	return o, nil
}

func (r *orderRepository) InsertOrderItems(ctx context.Context, orderID uuid.UUID, items []domain.OrderItem) ([]domain.OrderItem, error) {
	if orderID == uuid.Nil {
		return nil, fmt.Errorf("orderID is empty")
	}

	if len(items) == 0 {
		return nil, errors.New("no items in order")
	}

	batch := &pgx.Batch{}
	query := `INSERT INTO order_items (order_id, product_id, product_name, quantity, price_amount, price_currency)
              VALUES ($1, $2, $3, $4, $5, $6)
              RETURNING id, order_id, product_id, product_name, quantity, price_amount, price_currency, created_at`

	for _, item := range items {
		batch.Queue(query, orderID, item.ProductID, item.ProductName,
			item.Quantity, item.Price.Amount, item.Price.Currency.String())
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	inserted := make([]domain.OrderItem, 0, len(items))
	for range items {
		item, err := scanOrderItem(results.QueryRow())
		if err != nil {
			return nil, fmt.Errorf("scanOrderItem: %w", err)
		}
		inserted = append(inserted, item)
	}

	return inserted, nil
}

func (r *orderRepository) DeleteOrder(ctx context.Context, orderID uuid.UUID) error {
	if orderID == uuid.Nil {
		return fmt.Errorf("orderID is empty")
	}

	// order_items cascade with the header
	cmdTag, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, orderID)
	if err != nil {
		return fmt.Errorf("pool.Exec: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("pool.Exec: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *orderRepository) GetOrder(ctx context.Context, ownerID string, orderID uuid.UUID) (domain.Order, error) {
	var o domain.Order

	if ownerID == "" {
		return o, fmt.Errorf("ownerID is empty")
	}

	if orderID == uuid.Nil {
		return o, fmt.Errorf("orderID is empty")
	}

	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 AND owner_id = $2`

	o, err := scanOrder(r.pool.QueryRow(ctx, query, orderID, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return o, fmt.Errorf("scanOrder: %w", domain.ErrNotFound)
		}
		return o, fmt.Errorf("scanOrder: %w", err)
	}

	return o, nil
}

func (r *orderRepository) GetOrderItems(ctx context.Context, orderID uuid.UUID) ([]domain.OrderItem, error) {
	if orderID == uuid.Nil {
		return nil, fmt.Errorf("orderID is empty")
	}

	query := `SELECT id, order_id, product_id, product_name, quantity, price_amount, price_currency, created_at
              FROM order_items WHERE order_id = $1 ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("pool.Query: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		item, err := scanOrderItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanOrderItem: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	return items, nil
}

func (r *orderRepository) ListOrders(ctx context.Context, ownerID string) ([]domain.Order, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("ownerID is empty")
	}

	query := `SELECT ` + orderColumns + ` FROM orders WHERE owner_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("pool.Query: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanOrder: %w", err)
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	return orders, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, ownerID string, orderID uuid.UUID, status domain.OrderStatus) (bool, error) {
	if ownerID == "" {
		return false, fmt.Errorf("ownerID is empty")
	}

	if orderID == uuid.Nil {
		return false, fmt.Errorf("orderID is empty")
	}

	if _, err := domain.ToOrderStatus(string(status)); err != nil {
		return false, fmt.Errorf("domain.ToOrderStatus[%s]: %w", status, err)
	}

	query := `UPDATE orders SET status = $3, updated_at = now()
              WHERE id = $1 AND owner_id = $2`

	cmdTag, err := r.pool.Exec(ctx, query, orderID, ownerID, string(status))
	if err != nil {
		return false, fmt.Errorf("pool.Exec: %w", err)
	}

	return cmdTag.RowsAffected() > 0, nil
}

func scanOrder(row rowScanner) (domain.Order, error) {
	var (
		o           domain.Order
		totalAmount decimal.Decimal
		totalCurr   string
		status      string
		address     []byte
	)

	err := row.Scan(&o.ID, &o.OwnerID, &totalAmount, &totalCurr, &status,
		&address, &o.OrderNote, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return o, err
	}

	parsedCurrency, err := currency.ParseISO(totalCurr)
	if err != nil {
		return o, fmt.Errorf("currency[%s] is not valid: %w", totalCurr, err)
	}
	o.TotalAmount = domain.Money{Amount: totalAmount, Currency: parsedCurrency}

	o.Status, err = domain.ToOrderStatus(status)
	if err != nil {
		return o, fmt.Errorf("domain.ToOrderStatus[%s]: %w", status, err)
	}

	if err := json.Unmarshal(address, &o.ShippingAddress); err != nil {
		return o, fmt.Errorf("json.Unmarshal: %w", err)
	}

	return o, nil
}

func scanOrderItem(row rowScanner) (domain.OrderItem, error) {
	var (
		item        domain.OrderItem
		priceAmount decimal.Decimal
		priceCurr   string
	)

	err := row.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName,
		&item.Quantity, &priceAmount, &priceCurr, &item.CreatedAt)
	if err != nil {
		return item, err
	}

	parsedCurrency, err := currency.ParseISO(priceCurr)
	if err != nil {
		return item, fmt.Errorf("currency[%s] is not valid: %w", priceCurr, err)
	}

	item.Price = domain.Money{Amount: priceAmount, Currency: parsedCurrency}

	return item, nil
}
