// Package amount rescales integer token amounts between a spoke token's native decimals
// and the hub's canonical 18-decimal representation.
package amount

import (
	"math/big"

	"github.com/holiman/uint256"
	commonerrors "github.com/icon-project/sodax-frontend-sub008/common/errors"
	"github.com/pkg/errors"
)

// CanonicalDecimals is the precision of every hub-side amount.
const CanonicalDecimals = 18

// MaxDecimals is the largest precision whose unit still fits in a uint256.
const MaxDecimals = 77

// ToCanonical rescales amount from nativeDecimals to 18 decimals.
//
// When nativeDecimals <= 18 the result is exact. When nativeDecimals > 18 the amount is
// floor-divided, so the conversion is lossy and cannot be reversed.
//
// Parameters:
// - nativeDecimals: the token's native precision.
// - amount: a non-negative amount in native units.
//
// Returns:
// - *big.Int: the canonical amount (a new value; amount is not modified).
// - error: ErrInvalidDecimals, ErrNegativeAmount or ErrAmountOverflow.
func ToCanonical(nativeDecimals int, amount *big.Int) (*big.Int, error) {
	return rescale(amount, nativeDecimals, CanonicalDecimals)
}

// ToNative rescales a canonical 18-decimal amount to nativeDecimals.
// Scaling down to fewer than 18 decimals floors; scaling up to more is exact.
func ToNative(nativeDecimals int, amount *big.Int) (*big.Int, error) {
	return rescale(amount, CanonicalDecimals, nativeDecimals)
}

func rescale(amount *big.Int, from, to int) (*big.Int, error) {
	if from < 0 || to < 0 || from > MaxDecimals || to > MaxDecimals {
		return nil, errors.Wrapf(commonerrors.ErrInvalidDecimals, "from %d to %d", from, to)
	}
	if amount == nil {
		return nil, errors.Wrap(commonerrors.ErrNegativeAmount, "amount is nil")
	}
	if amount.Sign() < 0 {
		return nil, errors.Wrapf(commonerrors.ErrNegativeAmount, "amount %s", amount)
	}

	result := new(big.Int).Set(amount)
	switch {
	case to > from:
		result.Mul(result, pow10(to-from))
	case from > to:
		result.Quo(result, pow10(from-to))
	}

	if _, overflow := uint256.FromBig(result); overflow {
		return nil, errors.Wrapf(commonerrors.ErrAmountOverflow, "amount %s", result)
	}
	return result, nil
}

func pow10(n int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}
