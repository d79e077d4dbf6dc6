// Package pricing holds the single checkout pricing policy shared by the
// cart summary and the order transaction, so the tax and shipping rules
// cannot drift between the two.
package pricing

import (
	"green-grocer/internal/money"

	"github.com/shopspring/decimal"
)

// Policy computes tax and shipping for a given subtotal.
type Policy struct {
	taxRate               decimal.Decimal
	freeShippingThreshold decimal.Decimal
	flatShippingFee       decimal.Decimal
}

// Quote is the price breakdown for one subtotal.
type Quote struct {
	Subtotal money.Money
	Tax      money.Money
	Shipping money.Money
	Total    money.Money
}

// NewPolicy builds a policy from decimal-string configuration values.
// Unparseable values fall back to the defaults (10% tax, free shipping
// above 100, flat fee of 10).
func NewPolicy(taxRate, freeShippingThreshold, flatShippingFee string) Policy {
	return Policy{
		taxRate:               parseOrDefault(taxRate, "0.10"),
		freeShippingThreshold: parseOrDefault(freeShippingThreshold, "100"),
		flatShippingFee:       parseOrDefault(flatShippingFee, "10"),
	}
}

// DefaultPolicy returns the policy with the standard rates.
func DefaultPolicy() Policy {
	return NewPolicy("0.10", "100", "10")
}

// QuoteFor computes tax, shipping and total for a subtotal. Tax is rounded
// to cents. Shipping is waived only when the subtotal strictly exceeds the
// free-shipping threshold. An invalid or zero subtotal yields an all-zero
// quote: an empty cart owes no shipping.
func (p Policy) QuoteFor(subtotal money.Money) Quote {
	if !subtotal.Valid() || subtotal.IsZero() {
		return Quote{
			Subtotal: money.Zero(),
			Tax:      money.Zero(),
			Shipping: money.Zero(),
			Total:    money.Zero(),
		}
	}

	tax := money.FromDecimal(subtotal.Decimal().Mul(p.taxRate).Round(2))

	shipping := money.FromDecimal(decimal.Zero)
	if !subtotal.Decimal().GreaterThan(p.freeShippingThreshold) {
		shipping = money.FromDecimal(p.flatShippingFee)
	}

	return Quote{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: shipping,
		Total:    subtotal.Add(tax).Add(shipping),
	}
}

func parseOrDefault(raw, fallback string) decimal.Decimal {
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		d, _ = decimal.NewFromString(fallback)
	}
	return d
}
