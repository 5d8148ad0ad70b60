package dataprocessing

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrEmptyAmount is returned for blank amount fields
var ErrEmptyAmount = errors.New("empty amount")

var plainDecimal = regexp.MustCompile(`^[+-]?\d+(\.\d+)?$`)

// ParseLocaleDecimal decodes an amount written in the Brazilian convention:
// "." groups thousands and "," separates decimals ("1.234,56", "-500,00").
// Surrounding whitespace is ignored and a trailing "," with no digits after it
// reads as a whole number ("12,"). Anything else is rejected.
func ParseLocaleDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrEmptyAmount
	}
	if strings.Count(s, ",") > 1 {
		return decimal.Zero, fmt.Errorf("invalid amount %q: more than one decimal separator", s)
	}

	intPart, fracPart, hasFrac := strings.Cut(s, ",")
	if strings.Contains(fracPart, ".") {
		return decimal.Zero, fmt.Errorf("invalid amount %q: grouping after decimal separator", s)
	}

	normalized := strings.ReplaceAll(intPart, ".", "")
	if hasFrac && fracPart != "" {
		normalized += "." + fracPart
	}

	if !plainDecimal.MatchString(normalized) {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}

	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d, nil
}
