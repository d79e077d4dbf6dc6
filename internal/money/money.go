// Package money provides a validated decimal money type. Values read from
// storage pass through Parse on every use, so a corrupted price column can
// never flow into arithmetic as a silent float.
package money

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxPrice is the upper bound any single monetary value may take.
const MaxPrice = 100000

var (
	maxPrice = decimal.NewFromInt(MaxPrice)

	// After sanitisation the remainder must be plain digits with an
	// optional fractional part. Anything else (two dots, empty string)
	// is rejected.
	amountPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)
)

// Money is a non-negative decimal amount. The zero value is the invalid
// sentinel: callers must branch on Valid before trusting the amount.
type Money struct {
	amount decimal.Decimal
	valid  bool
}

// Zero returns the invalid/zero sentinel. It formats as 0.00.
func Zero() Money {
	return Money{}
}

// Parse validates a raw monetary string. All characters outside [0-9.] are
// stripped first, the remainder must parse as a decimal, and the value must
// lie in (0, MaxPrice]. Any failure returns the invalid sentinel.
func Parse(raw string) Money {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}

	cleaned := b.String()
	if !amountPattern.MatchString(cleaned) {
		return Zero()
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return Zero()
	}

	if !d.IsPositive() || d.GreaterThan(maxPrice) {
		return Zero()
	}

	return Money{amount: d, valid: true}
}

// FromDecimal wraps an already-computed decimal, applying the same bounds
// as Parse. Used for derived values (line totals, tax) rather than storage
// reads.
func FromDecimal(d decimal.Decimal) Money {
	if d.IsNegative() {
		return Zero()
	}
	return Money{amount: d, valid: true}
}

// Valid reports whether the value passed validation.
func (m Money) Valid() bool {
	return m.valid
}

// IsZero reports whether the amount is zero (true for the invalid sentinel).
func (m Money) IsZero() bool {
	return !m.valid || m.amount.IsZero()
}

// Decimal returns the underlying decimal amount. The invalid sentinel
// yields decimal zero.
func (m Money) Decimal() decimal.Decimal {
	if !m.valid {
		return decimal.Zero
	}
	return m.amount
}

// Amount renders the value with exactly two decimal places, e.g. "12.40".
func (m Money) Amount() string {
	return m.Decimal().StringFixed(2)
}

// Format renders the value for display with the currency prefix, e.g. "$12.40".
func (m Money) Format() string {
	return "$" + m.Amount()
}

// Add returns the sum of two values. Invalidity is sticky: if either
// operand is invalid the result is invalid.
func (m Money) Add(other Money) Money {
	if !m.valid || !other.valid {
		return Zero()
	}
	return Money{amount: m.amount.Add(other.amount), valid: true}
}

// MulInt multiplies the value by an integer quantity. Invalid values and
// non-positive quantities yield the invalid sentinel.
func (m Money) MulInt(qty int) Money {
	if !m.valid || qty <= 0 {
		return Zero()
	}
	return Money{amount: m.amount.Mul(decimal.NewFromInt(int64(qty))), valid: true}
}

// LessThan reports whether m is strictly below other. Comparing with an
// invalid operand is always false.
func (m Money) LessThan(other Money) bool {
	if !m.valid || !other.valid {
		return false
	}
	return m.amount.LessThan(other.amount)
}

// Equal reports whether two values have the same validity and amount.
func (m Money) Equal(other Money) bool {
	if m.valid != other.valid {
		return false
	}
	if !m.valid {
		return true
	}
	return m.amount.Equal(other.amount)
}
