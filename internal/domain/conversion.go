package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Convert applies rate to amount at full precision.
func Convert(amount, rate decimal.Decimal) (decimal.Decimal, error) {
	if !rate.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("%w: rate %s is not positive", ErrInvalidAmount, rate)
	}
	return amount.Mul(rate), nil
}

// RoundTwo rounds half away from zero to two decimal places.
func RoundTwo(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Bounds on a parsed amount or rate. Anything wider cannot be rendered or
// stored without expanding to an arbitrary number of digits.
const (
	MaxIntegerDigits  = 64
	MaxFractionDigits = 32
)

// CheckDigits rejects d when its integer or fraction part is wider than the
// bounds above. It only inspects the exponent and coefficient length.
func CheckDigits(d decimal.Decimal) error {
	if d.IsZero() {
		return nil
	}
	exp := int64(d.Exponent())
	if exp < -MaxFractionDigits {
		return fmt.Errorf("%w: more than %d fraction digits", ErrInvalidAmount, MaxFractionDigits)
	}
	if exp > MaxIntegerDigits {
		return fmt.Errorf("%w: more than %d integer digits", ErrInvalidAmount, MaxIntegerDigits)
	}
	coef := d.Coefficient()
	if int64(len(coef.Abs(coef).String()))+exp > MaxIntegerDigits {
		return fmt.Errorf("%w: more than %d integer digits", ErrInvalidAmount, MaxIntegerDigits)
	}
	return nil
}

// maxLiteralLen bounds the text handed to the decimal parser.
const maxLiteralLen = 128

// ParseLiteral reads a bare JSON number literal as a decimal within the digit
// bounds. Strings, nulls and other JSON values are rejected.
func ParseLiteral(s string) (decimal.Decimal, error) {
	if s == "" || (s[0] != '-' && (s[0] < '0' || s[0] > '9')) {
		return decimal.Decimal{}, fmt.Errorf("not a number literal: %.32s", s)
	}
	if len(s) > maxLiteralLen {
		return decimal.Decimal{}, fmt.Errorf("%w: literal longer than %d bytes", ErrInvalidAmount, maxLiteralLen)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if err := CheckDigits(d); err != nil {
		return decimal.Decimal{}, err
	}
	return d, nil
}
