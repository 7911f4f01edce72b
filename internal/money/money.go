package money

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Amount is a monetary value in minor units (paise).
// All arithmetic stays in int64 so repeated additions never drift.
type Amount int64

var groupPrinter = message.NewPrinter(language.MustParse("en-IN"))

// Parse converts a decimal string such as "10.00" or "4.5" into an Amount.
// Values with more than two decimal places are rejected.
func Parse(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parsing amount %q: %w", s, err)
	}

	minor := d.Mul(decimal.NewFromInt(100))
	if !minor.IsInteger() {
		return 0, fmt.Errorf("amount %q has sub-paisa precision", s)
	}

	return Amount(minor.IntPart()), nil
}

// FromMinor wraps a raw minor-unit value.
func FromMinor(v int64) Amount { return Amount(v) }

// Minor returns the raw minor-unit value.
func (a Amount) Minor() int64 { return int64(a) }

// MulQty multiplies the amount by a quantity.
func (a Amount) MulQty(qty int64) Amount { return Amount(int64(a) * qty) }

// Add returns the sum of two amounts.
func (a Amount) Add(b Amount) Amount { return a + b }

// IsNegative reports whether the amount is below zero.
func (a Amount) IsNegative() bool { return a < 0 }

// String renders the amount with exactly two decimal places, e.g. "39.00".
func (a Amount) String() string {
	return decimal.New(int64(a), -2).StringFixed(2)
}

// Grouped renders the amount with en-IN digit grouping, e.g. "1,23,456.78".
// Used for document display; no currency symbol is attached here.
func (a Amount) Grouped() string {
	v := int64(a)

	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}

	return fmt.Sprintf("%s%s.%02d", sign, groupPrinter.Sprintf("%d", v/100), v%100)
}
