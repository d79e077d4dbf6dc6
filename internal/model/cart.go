package model

import (
	"time"

	"green-grocer/internal/money"

	"github.com/google/uuid"
)

// CartLine represents a stored (user, product, quantity) row. It carries no
// price: prices are always re-derived from the current product record.
type CartLine struct {
	UserID    uuid.UUID `json:"-" db:"user_id"`
	ProductID string    `json:"productId" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// CartItem is a cart line enriched with live product fields for display.
type CartItem struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	ImageURL  string `json:"imageUrl"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unitPrice"`
	LineTotal string `json:"lineTotal"`
	InStock   bool   `json:"inStock"`
}

// CartSummary is the cart with its price breakdown as currently displayed.
// The totals are an estimate; checkout recomputes them authoritatively.
type CartSummary struct {
	Items    []CartItem `json:"items"`
	Subtotal string     `json:"subtotal"`
	Tax      string     `json:"tax"`
	Shipping string     `json:"shipping"`
	Total    string     `json:"total"`
}

// AddCartItemRequest is the payload for adding a product to the cart.
type AddCartItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// UpdateCartItemRequest is the payload for setting an absolute quantity.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// NewCartItem builds a display item from a stored line and the live product.
// An invalid effective price renders as 0.00 rather than failing; checkout
// is where an invalid price becomes a hard error.
func NewCartItem(line CartLine, product *Product) CartItem {
	unit := product.EffectivePrice()

	lineTotal := money.Zero()
	if unit.Valid() {
		lineTotal = unit.MulInt(line.Quantity)
	}

	return CartItem{
		ProductID: line.ProductID,
		Name:      product.Name,
		ImageURL:  product.ImageURL,
		Quantity:  line.Quantity,
		UnitPrice: unit.Amount(),
		LineTotal: lineTotal.Amount(),
		InStock:   product.IsActive() && product.StockQuantity >= line.Quantity,
	}
}
