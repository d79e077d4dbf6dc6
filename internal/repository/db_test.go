package repository

import (
	"context"
	"testing"
	"time"

	"green-grocer/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB creates a PostgreSQL testcontainer and returns a connection pool.
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	createSchema(t, pool)

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

// createSchema creates the necessary database schema for testing.
func createSchema(t *testing.T, pool *pgxpool.Pool) {
	ctx := context.Background()

	schema := `
		CREATE TABLE IF NOT EXISTS products (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			category TEXT NOT NULL,
			image_url TEXT NOT NULL DEFAULT '',
			price DECIMAL(10,2) NOT NULL,
			discount_price DECIMAL(10,2),
			stock_quantity INT NOT NULL DEFAULT 0 CHECK (stock_quantity >= 0),
			status TEXT NOT NULL DEFAULT 'active',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);

		CREATE TABLE IF NOT EXISTS cart_lines (
			user_id UUID NOT NULL,
			product_id TEXT NOT NULL REFERENCES products(id),
			quantity INT NOT NULL CHECK (quantity > 0),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (user_id, product_id)
		);

		CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL,
			order_number TEXT NOT NULL UNIQUE,
			subtotal DECIMAL(10,2) NOT NULL,
			tax DECIMAL(10,2) NOT NULL,
			shipping DECIMAL(10,2) NOT NULL,
			total DECIMAL(10,2) NOT NULL,
			shipping_address TEXT NOT NULL,
			billing_address TEXT NOT NULL,
			payment_method TEXT NOT NULL,
			status TEXT NOT NULL,
			payment_status TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_orders_user_id ON orders(user_id, created_at DESC);

		CREATE TABLE IF NOT EXISTS order_items (
			id UUID PRIMARY KEY,
			order_id UUID NOT NULL REFERENCES orders(id),
			product_id TEXT NOT NULL,
			product_name TEXT NOT NULL,
			product_image TEXT NOT NULL DEFAULT '',
			quantity INT NOT NULL,
			unit_price DECIMAL(10,2) NOT NULL,
			subtotal DECIMAL(10,2) NOT NULL
		);
	`

	_, err := pool.Exec(ctx, schema)
	require.NoError(t, err)
}

// seedProducts inserts test products into the database.
func seedProducts(t *testing.T, pool *pgxpool.Pool, products []model.Product) {
	ctx := context.Background()

	query := `
		INSERT INTO products (id, name, category, image_url, price, discount_price,
				      stock_quantity, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`

	for _, p := range products {
		_, err := pool.Exec(ctx, query,
			p.ID, p.Name, p.Category, p.ImageURL, p.Price, p.DiscountPrice,
			p.StockQuantity, p.Status)
		require.NoError(t, err)
	}
}

// seedCartLine inserts a cart line directly.
func seedCartLine(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID, productID string, quantity int) {
	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		INSERT INTO cart_lines (user_id, product_id, quantity)
		VALUES ($1, $2, $3)
	`, userID, productID, quantity)
	require.NoError(t, err)
}

func testProduct(id, name, price string, stock int) model.Product {
	return model.Product{
		ID:            id,
		Name:          name,
		Category:      "groceries",
		Price:         price,
		StockQuantity: stock,
		Status:        model.ProductStatusActive,
	}
}

func testOrder(userID uuid.UUID, orderNumber string) *model.Order {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &model.Order{
		ID:              uuid.New(),
		UserID:          userID,
		OrderNumber:     orderNumber,
		Subtotal:        "50.00",
		Tax:             "5.00",
		Shipping:        "10.00",
		Total:           "65.00",
		ShippingAddress: "12 Garden Lane",
		BillingAddress:  "12 Garden Lane",
		PaymentMethod:   "card",
		Status:          model.OrderStatusPending,
		PaymentStatus:   model.PaymentStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}
