package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	// MaxAmountScale is the number of decimal places a money value may carry.
	MaxAmountScale = 8
	// maxAmountExponent caps money values below 10^15.
	maxAmountExponent = 15
)

var maxAmount = decimal.New(1, maxAmountExponent)

// CheckAmount rejects money values too precise or too large to hold in the
// ledger. The value itself is never formatted: an out-of-range exponent
// would print millions of digits.
func CheckAmount(d decimal.Decimal) error {
	if err := checkBounds(d); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}
	return nil
}

func checkParam(name string, d decimal.Decimal) error {
	if err := checkBounds(d); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidParameter, name, err)
	}
	if d.IsNegative() {
		return fmt.Errorf("%w: %s %s", ErrInvalidParameter, name, d)
	}
	return nil
}

func checkBounds(d decimal.Decimal) error {
	exp := d.Exponent()
	if exp < -MaxAmountScale {
		return fmt.Errorf("more than %d decimal places", MaxAmountScale)
	}
	if exp >= maxAmountExponent || d.Abs().Cmp(maxAmount) >= 0 {
		return fmt.Errorf("magnitude must be below 1e%d", maxAmountExponent)
	}
	return nil
}
