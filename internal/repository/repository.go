package repository

import (
	"context"
	"errors"

	"green-grocer/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Sentinel errors surfaced by the repositories so the service layer can map
// persistence failures onto the checkout error taxonomy.
var (
	// ErrStockConflict means a guarded stock adjustment matched no row:
	// either the product is gone or the decrement would take stock below
	// zero.
	ErrStockConflict = errors.New("stock adjustment rejected")

	// ErrDuplicateOrderNumber means the generated order number collided
	// with an existing one.
	ErrDuplicateOrderNumber = errors.New("duplicate order number")

	// ErrForeignKeyViolation means an insert referenced a user or product
	// that no longer exists.
	ErrForeignKeyViolation = errors.New("foreign key violation")
)

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// GetAll retrieves active products with pagination support.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by its ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// GetByIDs retrieves multiple products by their IDs.
	GetByIDs(ctx context.Context, ids []string) ([]model.Product, error)

	// GetByIDsForUpdate retrieves products within the transaction, locking
	// their rows (SELECT ... FOR UPDATE) so concurrent checkouts serialise
	// on the stock they compete for.
	GetByIDsForUpdate(ctx context.Context, tx pgx.Tx, ids []string) ([]model.Product, error)

	// AdjustStock applies a stock delta within the transaction. The update
	// is guarded so stock can never go below zero; a rejected adjustment
	// returns ErrStockConflict.
	AdjustStock(ctx context.Context, tx pgx.Tx, id string, delta int) error
}

// CartRepository defines the interface for cart line data access operations.
type CartRepository interface {
	// GetLines retrieves all cart lines for a user.
	GetLines(ctx context.Context, userID uuid.UUID) ([]model.CartLine, error)

	// GetLinesTx retrieves all cart lines for a user within a transaction.
	GetLinesTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) ([]model.CartLine, error)

	// UpsertLine creates or replaces the line for (user, product) with the
	// given absolute quantity.
	UpsertLine(ctx context.Context, userID uuid.UUID, productID string, quantity int) error

	// RemoveLine deletes the line for (user, product) if present.
	RemoveLine(ctx context.Context, userID uuid.UUID, productID string) error

	// Clear deletes all cart lines for a user.
	Clear(ctx context.Context, userID uuid.UUID) error

	// ClearTx deletes all cart lines for a user within a transaction.
	ClearTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) error
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts multiple order items within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order by its ID along with its items.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, []model.OrderItem, error)

	// GetByUser retrieves a user's orders, newest first, with pagination.
	GetByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Order, error)

	// UpdateStatus moves an order from one status to another, optionally
	// forcing the payment status in the same statement. Returns false when
	// the order no longer has the expected current status.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.OrderStatus, paymentStatus *model.PaymentStatus) (bool, error)

	// UpdatePaymentStatus sets the payment status. Returns false when the
	// order does not exist.
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status model.PaymentStatus) (bool, error)
}
