package codec

import (
	"encoding/hex"
	"strings"

	"github.com/icon-project/sodax-frontend-sub008/common/types"
)

// SuiAddressLength is the width of a BCS-serialized Sui address.
const SuiAddressLength = 32

// encodeSui left-pads the hex address to 32 bytes, which is the BCS form of a Sui address.
func encodeSui(address string) ([]byte, error) {
	body := strings.ToLower(strings.TrimPrefix(strings.TrimPrefix(address, "0x"), "0X"))
	if body == "" || len(body) > SuiAddressLength*2 {
		return nil, invalid(types.SUI, address, "expected at most 32 hex bytes")
	}
	body = strings.Repeat("0", SuiAddressLength*2-len(body)) + body

	raw, err := hex.DecodeString(body)
	if err != nil {
		return nil, invalid(types.SUI, address, err.Error())
	}
	return raw, nil
}
