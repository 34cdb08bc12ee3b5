// Package batcher composes ordered hub-side contract calls into the single payload a hub
// wallet replays atomically. It knows nothing about what the calls do.
package batcher

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	commonerrors "github.com/icon-project/sodax-frontend-sub008/common/errors"
	"github.com/icon-project/sodax-frontend-sub008/common/types"
	"github.com/pkg/errors"
)

// abiCall field names must match the tuple component names after abi.ToCamelCase.
type abiCall struct {
	Addr  common.Address
	Value *big.Int
	Data  []byte
}

var batchArguments = abi.Arguments{{Type: mustBatchType()}}

func mustBatchType() abi.Type {
	t, err := abi.NewType("tuple[]", "", []abi.ArgumentMarshaling{
		{Name: "addr", Type: "address"},
		{Name: "value", Type: "uint256"},
		{Name: "data", Type: "bytes"},
	})
	if err != nil {
		panic(err)
	}
	return t
}

// Encode ABI-encodes calls as tuple(address addr,uint256 value,bytes data)[].
//
// Parameters:
// - calls: the ordered calls; a nil Value is encoded as zero.
//
// Returns:
// - []byte: the payload executed by the hub wallet.
// - error: ErrEmptyBatch when calls is empty, ErrNegativeAmount when a value is negative.
func Encode(calls types.CallBatch) ([]byte, error) {
	if len(calls) == 0 {
		return nil, commonerrors.ErrEmptyBatch
	}

	packed := make([]abiCall, len(calls))
	for i, call := range calls {
		value := call.Value
		if value == nil {
			value = new(big.Int)
		}
		if value.Sign() < 0 {
			return nil, errors.Wrapf(commonerrors.ErrNegativeAmount, "call %d value %s", i, value)
		}
		data := call.Data
		if data == nil {
			data = []byte{}
		}
		packed[i] = abiCall{Addr: call.Address, Value: value, Data: data}
	}

	payload, err := batchArguments.Pack(packed)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode call batch")
	}
	return payload, nil
}

// Decode inverts Encode.
func Decode(payload []byte) (types.CallBatch, error) {
	values, err := batchArguments.Unpack(payload)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode call batch")
	}

	var decoded []abiCall
	if err := batchArguments.Copy(&decoded, values); err != nil {
		return nil, errors.Wrap(err, "failed to copy call batch")
	}

	calls := make(types.CallBatch, len(decoded))
	for i, call := range decoded {
		calls[i] = types.ContractCall{Address: call.Addr, Value: call.Value, Data: call.Data}
	}
	return calls, nil
}
