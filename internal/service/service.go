package service

import (
	"context"

	"green-grocer/internal/model"
	"green-grocer/internal/money"

	"github.com/google/uuid"
)

// ProductService defines catalogue read operations.
type ProductService interface {
	// GetAll retrieves active products with pagination.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// GetEffectivePrice returns the price actually charged for a product.
	GetEffectivePrice(product *model.Product) money.Money

	// IsInStock reports whether the product exists, is active and has at
	// least the requested quantity on hand. A missing product is false,
	// never an error.
	IsInStock(ctx context.Context, id string, quantity int) (bool, error)
}

// CartService defines per-user cart operations.
type CartService interface {
	// AddItem adds a quantity of a product to the user's cart, stacking
	// onto any existing line. Rejects inactive products and quantities the
	// current stock cannot cover.
	AddItem(ctx context.Context, userID uuid.UUID, productID string, quantity int) error

	// UpdateQuantity sets the absolute quantity of a cart line. A quantity
	// of zero or less removes the line.
	UpdateQuantity(ctx context.Context, userID uuid.UUID, productID string, quantity int) error

	// RemoveItem removes a product from the cart.
	RemoveItem(ctx context.Context, userID uuid.UUID, productID string) error

	// Clear empties the cart.
	Clear(ctx context.Context, userID uuid.UUID) error

	// GetItems returns the cart lines enriched with live product fields.
	GetItems(ctx context.Context, userID uuid.UUID) ([]model.CartItem, error)

	// GetTotal returns the cart subtotal derived from live product prices.
	// Lines whose price is invalid contribute zero.
	GetTotal(ctx context.Context, userID uuid.UUID) (money.Money, error)

	// GetSummary returns the cart with its estimated price breakdown.
	GetSummary(ctx context.Context, userID uuid.UUID) (*model.CartSummary, error)
}

// OrderService defines order creation and administration.
type OrderService interface {
	// CreateOrder converts the user's cart into a persisted order
	// atomically: order header, line-item snapshots, stock decrements and
	// the cart clear all commit together or not at all.
	CreateOrder(ctx context.Context, userID uuid.UUID, req *model.CheckoutRequest) (*model.OrderResponse, error)

	// GetByID retrieves an order with its items.
	GetByID(ctx context.Context, id uuid.UUID) (*model.OrderResponse, error)

	// GetByUser retrieves a user's orders, newest first.
	GetByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Order, error)

	// UpdateStatus applies an admin status transition. Moving to delivered
	// also forces the payment status to paid.
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status model.OrderStatus) error

	// UpdatePaymentStatus sets an order's payment status.
	UpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, status model.PaymentStatus) error
}
