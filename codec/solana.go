package codec

import (
	"github.com/gagliardetto/solana-go"
	"github.com/icon-project/sodax-frontend-sub008/common/types"
)

func encodeSolana(address string) ([]byte, error) {
	pubkey, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return nil, invalid(types.SOLANA, address, err.Error())
	}
	return pubkey.Bytes(), nil
}
