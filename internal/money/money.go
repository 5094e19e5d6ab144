package money

import (
	"errors"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrFractional    = errors.New("amount must be a whole number of minor units")
	ErrOutOfRange    = errors.New("amount out of range")
	ErrNonPositive   = errors.New("amount must be greater than 0")
	maxMinor         = decimal.NewFromInt(math.MaxInt64)
	minMinor         = decimal.NewFromInt(math.MinInt64)
)

const (
	maxInputLen = 32
	maxExponent = 18
)

// ParseMinor parses a numeric literal expressed in minor units. "1500",
// "1500.0" and "1.5e3" are all accepted; "1500.5" is not.
func ParseMinor(input string) (int64, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" || len(trimmed) > maxInputLen {
		return 0, ErrInvalidAmount
	}
	value, err := decimal.NewFromString(trimmed)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	// Rescaling builds a 10^|exp| big.Int, so bound the exponent before any
	// comparison. Nothing outside this range fits in an int64 of minor units.
	if exp := value.Exponent(); exp > maxExponent || exp < -maxExponent {
		return 0, ErrOutOfRange
	}
	if !value.IsInteger() {
		return 0, ErrFractional
	}
	if value.GreaterThan(maxMinor) || value.LessThan(minMinor) {
		return 0, ErrOutOfRange
	}
	return value.IntPart(), nil
}

func ParsePositiveMinor(input string) (int64, error) {
	amount, err := ParseMinor(input)
	if err != nil {
		return 0, err
	}
	if amount <= 0 {
		return 0, ErrNonPositive
	}
	return amount, nil
}
