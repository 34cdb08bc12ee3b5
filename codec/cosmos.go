package codec

import (
	"github.com/btcsuite/btcutil/bech32"
	"github.com/icon-project/sodax-frontend-sub008/common/types"
)

// encodeCosmos validates the bech32 checksum and returns the string's raw UTF-8 bytes.
// The canonical form is deliberately not the decoded 20-byte payload.
func encodeCosmos(address string) ([]byte, error) {
	if _, _, err := bech32.Decode(address); err != nil {
		return nil, invalid(types.COSMOS, address, err.Error())
	}
	return []byte(address), nil
}
