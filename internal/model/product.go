package model

import (
	"time"

	"green-grocer/internal/money"
)

// Product statuses.
const (
	ProductStatusActive   = "active"
	ProductStatusInactive = "inactive"
)

// Product represents a grocery product in the catalogue. Price fields hold
// the raw decimal text read from storage; they are revalidated through
// money.Parse on every use rather than trusted.
type Product struct {
	ID            string    `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Category      string    `json:"category" db:"category"`
	ImageURL      string    `json:"imageUrl" db:"image_url"`
	Price         string    `json:"price" db:"price"`
	DiscountPrice *string   `json:"discountPrice,omitempty" db:"discount_price"`
	StockQuantity int       `json:"stockQuantity" db:"stock_quantity"`
	Status        string    `json:"status" db:"status"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

// IsActive reports whether the product can be sold.
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

// EffectivePrice returns the price actually charged: the discount price when
// it is valid and strictly below the valid regular price, otherwise the
// regular price. If neither field parses as valid money the invalid sentinel
// is returned; callers must treat that as "unavailable", never as free.
func (p *Product) EffectivePrice() money.Money {
	price := money.Parse(p.Price)

	if p.DiscountPrice != nil {
		discount := money.Parse(*p.DiscountPrice)
		if discount.Valid() && price.Valid() && discount.LessThan(price) {
			return discount
		}
	}

	return price
}
