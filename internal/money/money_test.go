package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_ValidValues(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{name: "Plain integer", raw: "20", expected: "20.00"},
		{name: "Two decimal places", raw: "12.40", expected: "12.40"},
		{name: "Long fraction preserved", raw: "9.999", expected: "10.00"},
		{name: "Currency prefix stripped", raw: "$15.00", expected: "15.00"},
		{name: "Thousands separator stripped", raw: "1,234.50", expected: "1234.50"},
		{name: "Whitespace stripped", raw: " 42.00 ", expected: "42.00"},
		{name: "At the upper bound", raw: "100000", expected: "100000.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Parse(tt.raw)
			require.True(t, m.Valid())
			assert.Equal(t, tt.expected, m.Amount())
		})
	}
}

func TestParse_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "Empty string", raw: ""},
		{name: "No digits", raw: "abc"},
		{name: "Zero", raw: "0"},
		{name: "Zero with decimals", raw: "0.00"},
		{name: "Two decimal points", raw: "1.2.3"},
		{name: "Leading decimal point", raw: ".50"},
		{name: "Trailing decimal point", raw: "50."},
		{name: "Above the upper bound", raw: "100000.01"},
		{name: "Corrupted storage value", raw: "999999999"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Parse(tt.raw)
			assert.False(t, m.Valid())
			assert.Equal(t, "0.00", m.Amount())
			assert.True(t, m.IsZero())
		})
	}
}

func TestParse_RoundTrip(t *testing.T) {
	// Formatting a parsed value and parsing it again must not change it.
	for _, raw := range []string{"20", "12.40", "0.01", "99999.99", "100000"} {
		first := Parse(raw)
		require.True(t, first.Valid(), raw)

		second := Parse(first.Amount())
		require.True(t, second.Valid(), raw)
		assert.Equal(t, first.Amount(), second.Amount())
	}
}

func TestMoney_Add(t *testing.T) {
	a := Parse("10.50")
	b := Parse("4.50")

	sum := a.Add(b)
	require.True(t, sum.Valid())
	assert.Equal(t, "15.00", sum.Amount())

	// Invalidity is sticky.
	assert.False(t, a.Add(Zero()).Valid())
	assert.False(t, Zero().Add(b).Valid())
}

func TestMoney_MulInt(t *testing.T) {
	m := Parse("19.99")

	total := m.MulInt(3)
	require.True(t, total.Valid())
	assert.Equal(t, "59.97", total.Amount())

	assert.False(t, m.MulInt(0).Valid())
	assert.False(t, m.MulInt(-1).Valid())
	assert.False(t, Zero().MulInt(2).Valid())
}

func TestMoney_LessThan(t *testing.T) {
	low := Parse("5.00")
	high := Parse("10.00")

	assert.True(t, low.LessThan(high))
	assert.False(t, high.LessThan(low))
	assert.False(t, low.LessThan(low))

	// Comparisons involving the invalid sentinel are always false.
	assert.False(t, Zero().LessThan(high))
	assert.False(t, low.LessThan(Zero()))
}

func TestMoney_Format(t *testing.T) {
	assert.Equal(t, "$12.40", Parse("12.4").Format())
	assert.Equal(t, "$0.00", Zero().Format())
}

func TestFromDecimal(t *testing.T) {
	m := FromDecimal(decimal.NewFromFloat(7.5))
	require.True(t, m.Valid())
	assert.Equal(t, "7.50", m.Amount())

	assert.False(t, FromDecimal(decimal.NewFromInt(-1)).Valid())
}
