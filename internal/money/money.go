// Package money handles monetary values crossing the store boundary. Amounts
// travel as decimal strings with exactly two fraction digits and live in
// memory as decimals, so reconciliation comparisons never ride on floats.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ToWire renders an amount in the store's wire format, e.g. "1900.00".
func ToWire(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FromWire parses a wire amount. Blank or malformed input yields zero; the
// report path treats garbage amounts as 0 rather than failing a whole page.
func FromWire(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseUserAmount interprets free-form projection input as a whole amount:
// every non-digit rune is stripped and the remainder parsed as an integer.
// Blank or fully non-numeric input counts as 0.
func ParseUserAmount(raw string) decimal.Decimal {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(b.String())
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseDecimalInput parses a movement amount entered by the user. Comma is
// accepted as the decimal separator.
func ParseDecimalInput(raw string) (decimal.Decimal, bool) {
	cleaned := strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
	if cleaned == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
