// Package money converts between the wire's decimal numbers and stored cents.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FromFloat rounds a wire amount (e.g. 12.345) to cents, half away from zero.
func FromFloat(f float64) int64 {
	return decimal.NewFromFloat(f).Shift(2).Round(0).IntPart()
}

// ToFloat converts cents back to the wire's number form.
func ToFloat(cents int64) float64 {
	f, _ := decimal.New(cents, -2).Float64()
	return f
}

// Parse reads a user-typed amount such as "12.5" or "1,299.00".
func Parse(s string) (int64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, fmt.Errorf("amount required")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	return d.Shift(2).Round(0).IntPart(), nil
}

// Format renders cents with two decimals, e.g. 1250 -> "12.50".
func Format(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}

// FormatFloat renders a wire amount with two decimals.
func FormatFloat(f float64) string {
	return decimal.NewFromFloat(f).StringFixed(2)
}

// MaxCents is the largest amount a wire number (float64) carries exactly.
const MaxCents int64 = 1<<53 - 1

// LineTotal multiplies a quantity by a unit price in cents.
func LineTotal(quantity, unitCents int64) int64 {
	return decimal.NewFromInt(quantity).Mul(decimal.NewFromInt(unitCents)).IntPart()
}

// CheckedLineTotal is LineTotal with ok false when the result is negative
// or exceeds MaxCents.
func CheckedLineTotal(quantity, unitCents int64) (int64, bool) {
	d := decimal.NewFromInt(quantity).Mul(decimal.NewFromInt(unitCents))
	if d.IsNegative() || d.GreaterThan(decimal.NewFromInt(MaxCents)) {
		return 0, false
	}
	return d.IntPart(), true
}
