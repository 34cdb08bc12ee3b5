package codec

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/icon-project/sodax-frontend-sub008/common/types"
)

// encodeEVM passes the hex address through; equality is case-insensitive so the
// canonical form is the 20 raw bytes.
func encodeEVM(address string) ([]byte, error) {
	if !common.IsHexAddress(address) {
		return nil, invalid(types.EVM, address, "not a 20-byte hex address")
	}
	return common.HexToAddress(address).Bytes(), nil
}
