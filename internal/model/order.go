package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

// Order statuses. Delivered, cancelled and refunded are terminal.
const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusRefunded   OrderStatus = "refunded"
)

// PaymentStatus is the payment state of an order.
type PaymentStatus string

// Payment statuses.
const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// Order represents a persisted customer order. Monetary fields are
// two-decimal strings computed once at creation and never recomputed.
type Order struct {
	ID              uuid.UUID     `json:"id" db:"id"`
	UserID          uuid.UUID     `json:"userId" db:"user_id"`
	OrderNumber     string        `json:"orderNumber" db:"order_number"`
	Subtotal        string        `json:"subtotal" db:"subtotal"`
	Tax             string        `json:"tax" db:"tax"`
	Shipping        string        `json:"shipping" db:"shipping"`
	Total           string        `json:"total" db:"total"`
	ShippingAddress string        `json:"shippingAddress" db:"shipping_address"`
	BillingAddress  string        `json:"billingAddress" db:"billing_address"`
	PaymentMethod   string        `json:"paymentMethod" db:"payment_method"`
	Status          OrderStatus   `json:"status" db:"status"`
	PaymentStatus   PaymentStatus `json:"paymentStatus" db:"payment_status"`
	CreatedAt       time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time     `json:"updatedAt" db:"updated_at"`
}

// OrderItem is an immutable snapshot of one product's contribution to an
// order, intentionally decoupled from later product edits or deletes.
type OrderItem struct {
	ID           uuid.UUID `json:"-" db:"id"`
	OrderID      uuid.UUID `json:"-" db:"order_id"`
	ProductID    string    `json:"productId" db:"product_id"`
	ProductName  string    `json:"productName" db:"product_name"`
	ProductImage string    `json:"productImage" db:"product_image"`
	Quantity     int       `json:"quantity" db:"quantity"`
	UnitPrice    string    `json:"unitPrice" db:"unit_price"`
	Subtotal     string    `json:"subtotal" db:"subtotal"`
}

// CheckoutRequest is the payload for converting the cart into an order.
type CheckoutRequest struct {
	ShippingAddress string  `json:"shippingAddress"`
	PaymentMethod   string  `json:"paymentMethod"`
	BillingAddress  *string `json:"billingAddress,omitempty"`
}

// OrderResponse is an order with its line items.
type OrderResponse struct {
	Order Order       `json:"order"`
	Items []OrderItem `json:"items"`
}

// UpdateOrderStatusRequest is the admin payload for a status transition.
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// ParseOrderStatus validates a status string at the boundary. Unknown
// strings are rejected, never persisted.
func ParseOrderStatus(raw string) (OrderStatus, error) {
	switch OrderStatus(raw) {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled, OrderStatusRefunded:
		return OrderStatus(raw), nil
	}
	return "", fmt.Errorf("unknown order status %q", raw)
}

// ParsePaymentStatus validates a payment status string at the boundary.
func ParsePaymentStatus(raw string) (PaymentStatus, error) {
	switch PaymentStatus(raw) {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed,
		PaymentStatusRefunded:
		return PaymentStatus(raw), nil
	}
	return "", fmt.Errorf("unknown payment status %q", raw)
}

// IsTerminal reports whether no further transitions are allowed.
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderStatusDelivered, OrderStatusCancelled, OrderStatusRefunded:
		return true
	}
	return false
}

// CanTransition reports whether the status machine allows moving from one
// status to another. The forward chain is pending, processing, shipped,
// delivered, in that order;
// cancelled and refunded are reachable from any non-terminal state.
func CanTransition(from, to OrderStatus) bool {
	if from.IsTerminal() || from == to {
		return false
	}

	switch to {
	case OrderStatusCancelled, OrderStatusRefunded:
		return true
	case OrderStatusProcessing:
		return from == OrderStatusPending
	case OrderStatusShipped:
		return from == OrderStatusProcessing
	case OrderStatusDelivered:
		return from == OrderStatusShipped
	}
	return false
}
