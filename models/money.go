package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Cents is a monetary amount in hundredths of a unit. Balances are
// stored and compared as integers; decimal parsing happens only at the
// edge where user input enters the system.
type Cents int64

var centsScale = decimal.NewFromInt(100)

// ParseCents parses a user-entered decimal amount such as "1234.5" into
// Cents, rounding to two decimal places. Negative amounts are rejected.
func ParseCents(s string) (Cents, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("amount must not be negative")
	}
	return Cents(d.Round(2).Mul(centsScale).IntPart()), nil
}

// Format renders the amount with thousand separators and two decimal
// places, e.g. 123450 -> "1,234.50".
func (c Cents) Format() string {
	sign := ""
	v := int64(c)
	if v < 0 {
		sign = "-"
		v = -v
	}

	str := fmt.Sprintf("%d", v/100)
	frac := v % 100

	n := len(str)
	if n <= 3 {
		return fmt.Sprintf("%s%s.%02d", sign, str, frac)
	}

	// Add commas for thousands
	var result strings.Builder
	for i, digit := range str {
		if i > 0 && (n-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(digit)
	}

	return fmt.Sprintf("%s%s.%02d", sign, result.String(), frac)
}

// Decimal returns the amount as a two-place decimal, e.g. 123450 -> 1234.50.
func (c Cents) Decimal() decimal.Decimal {
	return decimal.NewFromInt(int64(c)).Div(centsScale)
}
