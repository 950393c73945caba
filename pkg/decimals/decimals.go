// Package decimals converts raw token amounts to display amounts and back.
package decimals

import (
	"math/big"

	"github.com/Cleverse/go-utilities/utils"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/bridge-network/common/errs"
	"github.com/shopspring/decimal"
)

const (
	DefaultDivPrecision = 36
)

func init() {
	decimal.DivisionPrecision = DefaultDivPrecision
}

var maxUint64 = decimal.NewFromBigInt(new(big.Int).SetUint64(^uint64(0)), 0)

// MustFromString convert string to decimal.Decimal. Panic if error
// string must be a valid number, not NaN, Inf or empty string.
func MustFromString(s string) decimal.Decimal {
	return utils.Must(decimal.NewFromString(s))
}

// ToDecimal converts a raw integer amount to its display value, e.g. 1500 with 3 decimals is 1.5.
func ToDecimal(value uint64, decimals uint8) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(value), -int32(decimals))
}

// ToUint64 converts a display amount back to the raw integer amount.
// Negative amounts, amounts finer than 10^-decimals and amounts above 2^64-1 are rejected.
func ToUint64(amount decimal.Decimal, decimals uint8) (uint64, error) {
	if amount.IsNegative() {
		return 0, errors.Wrapf(errs.InvalidArgument, "amount %s is negative", amount)
	}
	raw := amount.Mul(PowerOfTen(int64(decimals)))
	if !raw.Equal(raw.Truncate(0)) {
		return 0, errors.Wrapf(errs.InvalidArgument, "amount %s has more than %d decimals", amount, decimals)
	}
	if raw.GreaterThan(maxUint64) {
		return 0, errors.Wrapf(errs.OverflowUint64, "amount %s", amount)
	}
	return raw.BigInt().Uint64(), nil
}

// ParseUint64 parses a display amount string into the raw integer amount.
func ParseUint64(s string, decimals uint8) (uint64, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return 0, errors.Wrapf(errs.InvalidArgument, "invalid amount %q", s)
	}
	return ToUint64(amount, decimals)
}
