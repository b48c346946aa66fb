package repository_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minshop/storefront/internal/domain"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"golang.org/x/text/currency"
)

func startPostgres(ctx context.Context) (*postgres.PostgresContainer, string, error) {
	postgresContainer, err := postgres.Run(ctx, "postgres:17.6-alpine3.22",
		postgres.BasicWaitStrategies(),
		postgres.WithInitScripts(
			"../../migrations/01_products.up.sql",
			"../../migrations/02_cart_items.up.sql",
			"../../migrations/03_orders.up.sql"),
	)
	if err != nil {
		return nil, "", fmt.Errorf("postgres.Run: %w", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", fmt.Errorf("pc.ConnectionString: %w", err)
	}

	return postgresContainer, connStr, nil
}

func krw(amount int64) domain.Money {
	return domain.Money{
		Amount:   decimal.NewFromInt(amount),
		Currency: currency.MustParseISO("KRW"),
	}
}

func fakeProduct() domain.Product {
	return domain.Product{
		Name:          gofakeit.ProductName(),
		Description:   lo.ToPtr(gofakeit.Sentence(5)),
		Price:         krw(int64(gofakeit.Number(1_000, 100_000))),
		Category:      lo.ToPtr(gofakeit.ProductCategory()),
		StockQuantity: int32(gofakeit.Number(1, 100)),
		IsActive:      true,
	}
}

func insertProduct(t *testing.T, pool *pgxpool.Pool, p domain.Product) domain.Product {
	t.Helper()
	ctx := t.Context()

	query := `INSERT INTO products (name, description, price_amount, price_currency, category, stock_quantity, is_active)
              VALUES ($1, $2, $3, $4, $5, $6, $7)
              RETURNING id, created_at, updated_at`

	err := pool.QueryRow(ctx, query,
		p.Name, p.Description, p.Price.Amount, p.Price.Currency.String(),
		p.Category, p.StockQuantity, p.IsActive).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	require.NoError(t, err)

	return p
}

// Custom comparer for currency.Unit fields, which have no Equal method.
// decimal.Decimal compares through its own Equal, so NUMERIC scan scale
// does not matter.
var currencyComparer = cmp.Comparer(func(x, y currency.Unit) bool {
	return x.String() == y.String()
})

func assertProduct(t *testing.T, expected, actual domain.Product) {
	t.Helper()

	opts := cmp.Options{
		cmpopts.IgnoreFields(domain.Product{}, "CreatedAt", "UpdatedAt"),
		cmpopts.EquateEmpty(),
	}

	diff := cmp.Diff(expected, actual, currencyComparer, opts)
	assert.Empty(t, diff)
}
