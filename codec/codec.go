// Package codec converts chain-native addresses into the canonical byte form used for
// hub-side identity lookup. Every encoder is a pure function with no network access.
package codec

import (
	"encoding/hex"
	"strings"

	commonerrors "github.com/icon-project/sodax-frontend-sub008/common/errors"
	"github.com/icon-project/sodax-frontend-sub008/common/types"
	"github.com/pkg/errors"
)

type encoderFunc func(address string) ([]byte, error)

var encoders = map[types.ChainFamily]encoderFunc{
	types.EVM:     encodeEVM,
	types.SONIC:   encodeEVM,
	types.ICON:    encodeICON,
	types.COSMOS:  encodeCosmos,
	types.SUI:     encodeSui,
	types.SOLANA:  encodeSolana,
	types.STELLAR: encodeStellar,
	types.STACKS:  encodeStacks,
	types.NEAR:    encodeNear,
	types.BITCOIN: encodeBitcoin,
}

// Encode converts a chain-native address into its canonical byte form.
//
// Parameters:
// - family: the chain family the address belongs to.
// - address: the human-readable native address.
//
// Returns:
// - []byte: the canonical address bytes.
// - error: ErrUnsupportedFamily for an unknown family, ErrInvalidAddress for malformed input.
func Encode(family types.ChainFamily, address string) ([]byte, error) {
	encode, ok := encoders[family]
	if !ok {
		return nil, errors.Wrapf(commonerrors.ErrUnsupportedFamily, "family %q", family)
	}

	address = strings.TrimSpace(address)
	if address == "" {
		return nil, invalid(family, address, "address is empty")
	}

	return encode(address)
}

// EncodeHex returns the canonical form of address as a 0x-prefixed lowercase hex string.
func EncodeHex(family types.ChainFamily, address string) (string, error) {
	raw, err := Encode(family, address)
	if err != nil {
		return "", err
	}
	return "0x" + hex.EncodeToString(raw), nil
}

// Equal reports whether two native addresses encode to the same canonical bytes.
// Malformed addresses are never equal.
func Equal(family types.ChainFamily, a, b string) bool {
	left, err := Encode(family, a)
	if err != nil {
		return false
	}
	right, err := Encode(family, b)
	if err != nil {
		return false
	}
	return hex.EncodeToString(left) == hex.EncodeToString(right)
}

func invalid(family types.ChainFamily, address, reason string) error {
	return errors.Wrapf(commonerrors.ErrInvalidAddress, "%s address %q: %s", family, address, reason)
}
