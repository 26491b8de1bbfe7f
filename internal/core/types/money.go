// Package types provides common type aliases and utilities.
package types

import (
	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors; values are kept at
// full precision internally and rounded only at the API boundary.
type Money = decimal.Decimal

// NewMoney creates a Money value from a float.
// WARNING: Use NewMoneyFromString for precise values.
func NewMoney(f float64) Money {
	return decimal.NewFromFloat(f)
}

// NewMoneyFromString creates a Money value from a string.
// This is the preferred method for monetary values.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants and tests.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Zero returns zero Money value.
func Zero() Money {
	return decimal.Zero
}

// MoneyFromUnits multiplies a per-unit amount by an integer quantity.
func MoneyFromUnits(unit Money, quantity int64) Money {
	return unit.Mul(decimal.NewFromInt(quantity))
}

// Round2 rounds a monetary value half-up to 2 decimal places.
// Applied only when a value leaves the core (JSON responses).
func Round2(m Money) Money {
	return m.Round(2)
}
