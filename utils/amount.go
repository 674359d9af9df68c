// Package utils holds small shared helpers for amount scaling and input
// validation used across the payment pipeline.
package utils

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// ValidateAmount checks that an amount string is a non-negative decimal.
func ValidateAmount(amount string) (decimal.Decimal, error) {
	if amount == "" {
		return decimal.Decimal{}, fmt.Errorf("amount cannot be empty")
	}

	dec, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid amount format: %w", err)
	}

	if dec.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("amount cannot be negative")
	}

	return dec, nil
}

// ParseAmountWithDecimals scales a human-unit decimal amount string by
// 10^decimals into an exact smallest-unit integer. Amounts with more
// fractional digits than the asset supports are rejected rather than rounded.
func ParseAmountWithDecimals(amount string, decimals int) (*big.Int, error) {
	dec, err := ValidateAmount(amount)
	if err != nil {
		return nil, err
	}

	scaled := dec.Shift(int32(decimals))
	if !scaled.IsInteger() {
		return nil, fmt.Errorf("amount %s has more than %d fractional digits", amount, decimals)
	}

	return scaled.BigInt(), nil
}

// FormatAmountFromBigInt renders a smallest-unit integer as a human-unit
// decimal string with the given precision.
func FormatAmountFromBigInt(amount *big.Int, decimals int) string {
	return decimal.NewFromBigInt(amount, -int32(decimals)).String()
}
