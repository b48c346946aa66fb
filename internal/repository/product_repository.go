package repository

import (
	"context"
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

const productColumns = `id, name, description, price_amount, price_currency, category, stock_quantity, is_active, created_at, updated_at`

type productRepository struct {
	pool *pgxpool.Pool
}

func NewProduct(pool *pgxpool.Pool) port.CatalogStore {
	return &productRepository{pool: pool}
}

func (r *productRepository) GetProduct(ctx context.Context, productID uuid.UUID) (domain.Product, error) {
	var p domain.Product

	if productID == uuid.Nil {
		return p, fmt.Errorf("productID is empty")
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 AND is_active`

	row := r.pool.QueryRow(ctx, query, productID)

	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return p, fmt.Errorf("scanProduct: %w", domain.ErrNotFound)
		}
		return p, fmt.Errorf("scanProduct: %w", err)
	}

	return p, nil
}

func (r *productRepository) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE is_active`
	args := []any{}

	if filter.Category != nil {
		args = append(args, *filter.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}

	query += " ORDER BY created_at DESC"

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pool.Query: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanProduct: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	return products, nil
}

func (r *productRepository) CountProducts(ctx context.Context, filter domain.ProductFilter) (int64, error) {
	query := `SELECT COUNT(*) FROM products WHERE is_active`
	args := []any{}

	if filter.Category != nil {
		args = append(args, *filter.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}

	var count int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("pool.QueryRow: %w", err)
	}

	return count, nil
}

func (r *productRepository) DecrementStock(ctx context.Context, productID uuid.UUID, quantity int32) (bool, error) {
	if productID == uuid.Nil {
		return false, fmt.Errorf("productID is empty")
	}

	if quantity < 1 {
		return false, fmt.Errorf("quantity[%d] is less than 1", quantity)
	}

	// Single conditional statement so two concurrent orders cannot
	// over-sell the same product.
	query := `UPDATE products
              SET stock_quantity = stock_quantity - $2, updated_at = now()
              WHERE id = $1 AND stock_quantity >= $2`

	cmdTag, err := r.pool.Exec(ctx, query, productID, quantity)
	if err != nil {
		return false, fmt.Errorf("pool.Exec: %w", err)
	}

	return cmdTag.RowsAffected() > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var (
		p           domain.Product
		priceAmount decimal.Decimal
		priceCurr   string
	)

	err := row.Scan(&p.ID, &p.Name, &p.Description, &priceAmount, &priceCurr,
		&p.Category, &p.StockQuantity, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return p, err
	}

	parsedCurrency, err := currency.ParseISO(priceCurr)
	if err != nil {
		return p, fmt.Errorf("currency[%s] is not valid: %w", priceCurr, err)
	}

	p.Price = domain.Money{Amount: priceAmount, Currency: parsedCurrency}

	return p, nil
}
