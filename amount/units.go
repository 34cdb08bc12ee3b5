package amount

import (
	"math/big"
	"strings"

	commonerrors "github.com/icon-project/sodax-frontend-sub008/common/errors"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// FormatUnits renders an integer amount as a decimal string with the given precision,
// e.g. FormatUnits(1500000, 6) == "1.5".
func FormatUnits(amount *big.Int, decimals int) string {
	if amount == nil {
		return "0"
	}
	return decimal.NewFromBigInt(amount, int32(-decimals)).String()
}

// ParseUnits converts a human-readable decimal string into an integer amount with the given
// precision. Values with more fractional digits than decimals are rejected instead of rounded.
func ParseUnits(value string, decimals int) (*big.Int, error) {
	if decimals < 0 {
		return nil, errors.Wrapf(commonerrors.ErrInvalidDecimals, "%d", decimals)
	}

	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid amount %q", value)
	}
	if d.IsNegative() {
		return nil, errors.Wrapf(commonerrors.ErrNegativeAmount, "amount %q", value)
	}

	scaled := d.Shift(int32(decimals))
	if !scaled.Equal(scaled.Truncate(0)) {
		return nil, errors.Wrapf(commonerrors.ErrInvalidDecimals, "amount %q has more than %d fractional digits", value, decimals)
	}
	return scaled.BigInt(), nil
}
