// Package moneypkg provides a fixed-point monetary value with two fractional digits.
//
// Money is stored as an integer number of minor units (cents), so additions and
// subtractions are exact. Conversions from decimal input round half away from zero
// only when explicitly requested through Round; every other constructor rejects
// input carrying more than two significant fractional digits.
package moneypkg

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits carried by Money.
const Scale = 2

var (
	// ErrInvalid indicates that the input is not a decimal number.
	ErrInvalid = errors.New("invalid money amount")
	// ErrPrecision indicates that the input has more than two fractional digits.
	ErrPrecision = errors.New("money amount has more than 2 fractional digits")
	// ErrOutOfRange indicates that the value does not fit a decimal(15,2) column.
	ErrOutOfRange = errors.New("money amount out of range")
	// ErrUnderflow indicates that a subtraction would produce a negative amount.
	ErrUnderflow = errors.New("money amount underflow")
)

// maxMinorUnits is the exclusive bound of decimal(15,2) expressed in cents.
const maxMinorUnits int64 = 1_000_000_000_000_000

// Zero is the zero amount.
var Zero = Money{}

// Money is an immutable amount of money in minor units.
type Money struct {
	cents int64
}

// NewFromMinorUnits returns Money holding the given number of cents.
func NewFromMinorUnits(cents int64) (Money, error) {
	if cents >= maxMinorUnits || cents <= -maxMinorUnits {
		return Money{}, ErrOutOfRange
	}

	return Money{cents: cents}, nil
}

// NewFromDecimal converts d to Money, rejecting more than two fractional digits.
func NewFromDecimal(d decimal.Decimal) (Money, error) {
	if !d.Equal(d.Truncate(Scale)) {
		return Money{}, ErrPrecision
	}

	return fromExactDecimal(d)
}

// NewFromString parses s, e.g. "150.00", "12.5" or "7".
func NewFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Money{}, ErrInvalid
	}

	return NewFromDecimal(d)
}

// MustParse is like NewFromString but panics on error. Intended for constants and tests.
func MustParse(s string) Money {
	m, err := NewFromString(s)
	if err != nil {
		panic(fmt.Sprintf("moneypkg.MustParse(%q): %v", s, err))
	}

	return m
}

// Round converts d to Money rounding half away from zero to two fractional digits.
func Round(d decimal.Decimal) (Money, error) {
	return fromExactDecimal(d.Round(Scale))
}

func fromExactDecimal(d decimal.Decimal) (Money, error) {
	shifted := d.Shift(Scale)
	if shifted.Abs().GreaterThanOrEqual(decimal.NewFromInt(maxMinorUnits)) {
		return Money{}, ErrOutOfRange
	}

	return Money{cents: shifted.IntPart()}, nil
}

// Add returns m + o.
func (m Money) Add(o Money) (Money, error) {
	return NewFromMinorUnits(m.cents + o.cents)
}

// Sub returns m - o and fails with ErrUnderflow when the result would be negative.
func (m Money) Sub(o Money) (Money, error) {
	if m.cents < o.cents {
		return Money{}, ErrUnderflow
	}

	return NewFromMinorUnits(m.cents - o.cents)
}

// Cmp returns -1, 0 or +1 when m is less than, equal to or greater than o.
func (m Money) Cmp(o Money) int {
	switch {
	case m.cents < o.cents:
		return -1
	case m.cents > o.cents:
		return 1
	default:
		return 0
	}
}

// Equal reports whether m and o are the same amount.
func (m Money) Equal(o Money) bool { return m.cents == o.cents }

// LessThan reports whether m < o.
func (m Money) LessThan(o Money) bool { return m.cents < o.cents }

// IsPositive reports whether m > 0.
func (m Money) IsPositive() bool { return m.cents > 0 }

// IsZero reports whether m == 0.
func (m Money) IsZero() bool { return m.cents == 0 }

// IsNegative reports whether m < 0.
func (m Money) IsNegative() bool { return m.cents < 0 }

// MinorUnits returns the amount in cents.
func (m Money) MinorUnits() int64 { return m.cents }

// Decimal returns the amount as a decimal with two fractional digits.
func (m Money) Decimal() decimal.Decimal { return decimal.New(m.cents, -Scale) }

// String formats the amount with exactly two fractional digits.
func (m Money) String() string { return m.Decimal().StringFixed(Scale) }

// MarshalJSON encodes the amount as a quoted decimal string.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON accepts a quoted decimal string or a bare JSON number.
func (m *Money) UnmarshalJSON(b []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return ErrInvalid
	}

	parsed, err := NewFromDecimal(d)
	if err != nil {
		return err
	}

	*m = parsed

	return nil
}

// Value implements driver.Valuer for decimal(15,2) columns.
func (m Money) Value() (driver.Value, error) {
	return m.String(), nil
}

// Scan implements sql.Scanner for decimal(15,2) columns.
func (m *Money) Scan(value interface{}) error {
	var d decimal.Decimal
	if err := d.Scan(value); err != nil {
		return fmt.Errorf("scan money: %w", err)
	}

	parsed, err := NewFromDecimal(d)
	if err != nil {
		return fmt.Errorf("scan money: %w", err)
	}

	*m = parsed

	return nil
}
