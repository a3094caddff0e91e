package models

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// priceFormat is the shape every displayed price must have: a dollar sign,
// an integer part and exactly two decimal digits
var priceFormat = regexp.MustCompile(`^\$\d+\.\d{2}$`)

// amountFormat is a bare decimal amount as typed into the transfer form
var amountFormat = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)

// Price errors
var (
	ErrInvalidPriceFormat  = errors.New("price must look like $0.00")
	ErrInvalidAmountFormat = errors.New("amount must be a positive decimal with at most two fraction digits")
	ErrNonPositiveAmount   = errors.New("amount must be positive")
)

// PricePattern returns the regular expression displayed prices must match
func PricePattern() *regexp.Regexp {
	return priceFormat
}

// ValidatePriceFormat checks that price is a dollar price with two decimals
func ValidatePriceFormat(price string) error {
	if !priceFormat.MatchString(price) {
		return fmt.Errorf("%w: got %q", ErrInvalidPriceFormat, price)
	}
	return nil
}

// ParsePrice converts a displayed price such as "$29.99" into cents
func ParsePrice(price string) (int64, error) {
	if err := ValidatePriceFormat(price); err != nil {
		return 0, err
	}
	return parseCents(strings.TrimPrefix(price, "$"))
}

// FormatPrice renders cents the way the shop displays them
func FormatPrice(cents int64) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}

// ParseAmount converts a form amount such as "100.50" or "75" into cents
func ParseAmount(amount string) (int64, error) {
	if !amountFormat.MatchString(amount) {
		return 0, fmt.Errorf("%w: got %q", ErrInvalidAmountFormat, amount)
	}
	cents, err := parseCents(amount)
	if err != nil {
		return 0, err
	}
	if cents <= 0 {
		return 0, ErrNonPositiveAmount
	}
	return cents, nil
}

// parseCents parses a validated decimal string with at most two fraction digits
func parseCents(s string) (int64, error) {
	whole, frac, _ := strings.Cut(s, ".")
	for len(frac) < 2 {
		frac += "0"
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %q: %w", s, err)
	}
	if units > math.MaxInt64/100-1 {
		return 0, fmt.Errorf("failed to parse %q: value out of range", s)
	}
	minor, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %q: %w", s, err)
	}

	return units*100 + minor, nil
}
