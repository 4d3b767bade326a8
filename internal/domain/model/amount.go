package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned when an amount string holds no parseable number.
var ErrInvalidAmount = errors.New("invalid amount")

// DefaultUnit is the asset unit used when formatting amounts.
const DefaultUnit = "ALGO"

// ParseAmount extracts the signed numeric value from display text such as
// "+285 ALGO" or "-1,000.5". Empty input parses as zero.
func ParseAmount(text string) (float64, error) {
	var b strings.Builder
	for _, r := range text {
		switch {
		case r >= '0' && r <= '9', r == '.':
			b.WriteRune(r)
		case (r == '-' || r == '+') && b.Len() == 0:
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return 0, nil
	}
	if cleaned == "+" || cleaned == "-" || cleaned == "." {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, text)
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrInvalidAmount, text, err)
	}
	return d.InexactFloat64(), nil
}

// FormatAmount renders v with an explicit sign and the given unit, e.g. "+285 ALGO".
func FormatAmount(v float64, unit string) string {
	if unit == "" {
		unit = DefaultUnit
	}
	d := decimal.NewFromFloat(v)
	sign := "+"
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	return sign + d.String() + " " + unit
}
