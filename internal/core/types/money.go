// Package types provides common type aliases and value parsing utilities.
package types

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors.
type Money = decimal.Decimal

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

// Round2 rounds to 2 decimal places (cents), the precision used for stock values.
func Round2(m Money) Money {
	return m.Round(2)
}

// currencyRunes are symbols stripped before parsing locale-formatted amounts.
const currencyRunes = "€$£¥₽₩₴"

// ParseMoney parses a locale-formatted monetary amount as it arrives from
// spreadsheet or clipboard imports. Accepted forms include:
//
//	"1234.56"  "1 234,56"  "-12,30 €"  "$1,234.56"
//
// Comma is treated as the decimal separator when it is the last separator in
// the string; grouping separators (space, thin space, apostrophe, and the
// comma/dot not in decimal position) are dropped. Sign is preserved so that
// refund totals stay negative.
func ParseMoney(s string) (Money, error) {
	cleaned := strings.TrimSpace(s)
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}

	// Strip currency symbols and spacing.
	cleaned = strings.Map(func(r rune) rune {
		switch {
		case strings.ContainsRune(currencyRunes, r):
			return -1
		case r == ' ' || r == ' ' || r == ' ' || r == '\'':
			return -1
		}
		return r
	}, cleaned)

	// Trailing ISO currency code, e.g. "12.30EUR".
	cleaned = strings.TrimRight(cleaned, "ABCDEFGHIJKLMNOPQRSTUVWXYZ")
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("no numeric content in %q", s)
	}

	lastComma := strings.LastIndex(cleaned, ",")
	lastDot := strings.LastIndex(cleaned, ".")

	switch {
	case lastComma > lastDot:
		// Comma is the decimal separator: "1.234,56" -> "1234.56"
		cleaned = strings.ReplaceAll(cleaned[:lastComma], ".", "") + "." + cleaned[lastComma+1:]
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	case lastComma >= 0:
		// Dot is the decimal separator, commas are grouping: "1,234.56"
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return d, nil
}
