package types

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// ContractCall is one atomic unit of hub-side work executed by a hub wallet.
type ContractCall struct {
	Address common.Address
	Value   *big.Int
	Data    []byte
}

// CallBatch is an ordered sequence of calls replayed atomically on the hub.
type CallBatch []ContractCall
