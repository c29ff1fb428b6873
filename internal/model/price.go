package model

import (
	"errors"
	"fmt"
	"strings"
)

// Price is a fixed-point monetary amount stored as cents. The database
// column holds the integer cents value; JSON carries a two-decimal
// number (e.g. 4.50). Valid prices are non-negative with at most three
// integer digits, so the range is 0.00 through 999.99.
type Price int64

// MaxPrice is the largest representable price in cents (999.99).
const MaxPrice Price = 99999

// ErrInvalidPrice is returned when a value cannot be parsed as a price
// or falls outside the allowed precision and range.
var ErrInvalidPrice = errors.New("invalid price")

// ParsePrice converts a decimal string such as "4.50", "12" or "0.9"
// into cents. More than two fractional digits, negative values and
// amounts of 1000.00 or more are rejected.
func ParsePrice(s string) (Price, error) {
	s = strings.TrimSpace(s)
	if s == "" || s[0] == '-' || s[0] == '+' {
		return 0, ErrInvalidPrice
	}
	intPart, fracPart, hasFrac := strings.Cut(s, ".")
	if intPart == "" || len(fracPart) > 2 || (hasFrac && fracPart == "") {
		return 0, ErrInvalidPrice
	}
	var cents int64
	for _, ch := range intPart {
		if ch < '0' || ch > '9' {
			return 0, ErrInvalidPrice
		}
		cents = cents*10 + int64(ch-'0')
		if cents > int64(MaxPrice) {
			return 0, ErrInvalidPrice
		}
	}
	cents *= 100
	scale := int64(10)
	for _, ch := range fracPart {
		if ch < '0' || ch > '9' {
			return 0, ErrInvalidPrice
		}
		cents += int64(ch-'0') * scale
		scale /= 10
	}
	if cents > int64(MaxPrice) {
		return 0, ErrInvalidPrice
	}
	return Price(cents), nil
}

// String renders the price with exactly two decimals.
func (p Price) String() string {
	return fmt.Sprintf("%d.%02d", p/100, p%100)
}

// MarshalJSON emits the price as a plain two-decimal JSON number.
func (p Price) MarshalJSON() ([]byte, error) {
	if p < 0 || p > MaxPrice {
		return nil, ErrInvalidPrice
	}
	return []byte(p.String()), nil
}

// UnmarshalJSON accepts either a JSON number or a quoted decimal string.
func (p *Price) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" {
		return ErrInvalidPrice
	}
	v, err := ParsePrice(s)
	if err != nil {
		return err
	}
	*p = v
	return nil
}
