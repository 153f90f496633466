// Package core provides hour arithmetic helpers.
//
// Hours are carried as decimals so that summing half-hour slots never drifts:
// a week total is always exactly the sum of its daily figures.
package core

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// SlotHours is the duration of one calendar slot.
	SlotHours = decimal.RequireFromString("0.5")

	hundred = decimal.NewFromInt(100)

	ErrInvalidHours = errors.New("invalid hours")
)

// SlotsToHours converts a slot count to hours.
func SlotsToHours(slots int) decimal.Decimal {
	return SlotHours.Mul(decimal.NewFromInt(int64(slots)))
}

// Percent returns part / whole × 100, or zero when whole is not positive.
func Percent(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred)
}

// ParseHours parses a positive hour amount such as "37.5" or "37,5".
//
// Examples:
//
//	ParseHours("39")   -> 39, nil
//	ParseHours("7,8")  -> 7.8, nil
//	ParseHours("-1")   -> error
func ParseHours(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidHours
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return decimal.Zero, ErrInvalidHours
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidHours
	}
	if !d.IsPositive() {
		return decimal.Zero, ErrInvalidHours
	}
	return d, nil
}

// FormatHours renders hours with one decimal, the way the calendar sidebar shows them.
func FormatHours(d decimal.Decimal) string {
	return d.StringFixed(1)
}
