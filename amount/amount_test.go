package amount

import (
	"math/big"
	"math/rand"
	"testing"

	commonerrors "github.com/icon-project/sodax-frontend-sub008/common/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustBig(t *testing.T, s string) *big.Int {
	t.Helper()
	v, ok := new(big.Int).SetString(s, 10)
	require.True(t, ok, s)
	return v
}

func TestToCanonical_SixDecimals(t *testing.T) {
	native := big.NewInt(1_000_000)

	canonical, err := ToCanonical(6, native)
	require.NoError(t, err)
	assert.Equal(t, mustBig(t, "1000000000000000000"), canonical)

	back, err := ToNative(6, canonical)
	require.NoError(t, err)
	assert.Equal(t, native, back)
	assert.Equal(t, big.NewInt(1_000_000), native, "input must not be mutated")
}

func TestToCanonical_TwentyFourDecimalsFloors(t *testing.T) {
	native := mustBig(t, "1500000123456789012345678")

	canonical, err := ToCanonical(24, native)
	require.NoError(t, err)
	assert.Equal(t, mustBig(t, "1500000123456789012"), canonical)

	back, err := ToNative(24, canonical)
	require.NoError(t, err)
	assert.Equal(t, mustBig(t, "1500000123456789012000000"), back)
	assert.NotEqual(t, native, back)
}

func TestRoundTrip_UpToEighteenDecimals(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	limit := new(big.Int).Exp(big.NewInt(10), big.NewInt(40), nil)

	for decimals := 0; decimals <= CanonicalDecimals; decimals++ {
		for i := 0; i < 50; i++ {
			a := new(big.Int).Rand(rng, limit)

			canonical, err := ToCanonical(decimals, a)
			require.NoError(t, err)
			back, err := ToNative(decimals, canonical)
			require.NoError(t, err)
			require.Equal(t, 0, a.Cmp(back), "decimals=%d amount=%s", decimals, a)
		}
	}
}

func TestToNative_NeverRoundsUpAboveEighteenDecimals(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	limit := new(big.Int).Exp(big.NewInt(10), big.NewInt(45), nil)

	for decimals := CanonicalDecimals + 1; decimals <= 30; decimals++ {
		scale := pow10(decimals - CanonicalDecimals)
		for i := 0; i < 50; i++ {
			a := new(big.Int).Rand(rng, limit)

			canonical, err := ToCanonical(decimals, a)
			require.NoError(t, err)
			back, err := ToNative(decimals, canonical)
			require.NoError(t, err)

			floor := new(big.Int).Quo(a, scale)
			assert.Equal(t, 0, canonical.Cmp(floor), "decimals=%d amount=%s", decimals, a)
			assert.True(t, back.Cmp(a) <= 0, "decimals=%d amount=%s", decimals, a)
			assert.Equal(t, 0, back.Cmp(new(big.Int).Mul(floor, scale)))
		}
	}
}

func TestRescale_Preconditions(t *testing.T) {
	_, err := ToCanonical(6, big.NewInt(-1))
	assert.ErrorIs(t, err, commonerrors.ErrNegativeAmount)

	_, err = ToNative(6, big.NewInt(-1))
	assert.ErrorIs(t, err, commonerrors.ErrNegativeAmount)

	_, err = ToCanonical(6, nil)
	assert.ErrorIs(t, err, commonerrors.ErrNegativeAmount)

	_, err = ToCanonical(-1, big.NewInt(1))
	assert.ErrorIs(t, err, commonerrors.ErrInvalidDecimals)

	maxUint256 := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
	_, err = ToCanonical(0, maxUint256)
	assert.ErrorIs(t, err, commonerrors.ErrAmountOverflow)

	zero, err := ToCanonical(6, big.NewInt(0))
	require.NoError(t, err)
	assert.Equal(t, 0, zero.Sign())
}

func TestFormatAndParseUnits(t *testing.T) {
	assert.Equal(t, "1.5", FormatUnits(big.NewInt(1_500_000), 6))
	assert.Equal(t, "0.000001", FormatUnits(big.NewInt(1), 6))
	assert.Equal(t, "0", FormatUnits(nil, 6))

	parsed, err := ParseUnits("1.5", 6)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1_500_000), parsed)

	parsed, err = ParseUnits(" 42 ", 18)
	require.NoError(t, err)
	assert.Equal(t, mustBig(t, "42000000000000000000"), parsed)

	_, err = ParseUnits("1.0000001", 6)
	assert.ErrorIs(t, err, commonerrors.ErrInvalidDecimals)

	_, err = ParseUnits("-1", 6)
	assert.ErrorIs(t, err, commonerrors.ErrNegativeAmount)

	_, err = ParseUnits("abc", 6)
	assert.Error(t, err)
}
