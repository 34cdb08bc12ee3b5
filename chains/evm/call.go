package evm

import (
	"context"
	"math/big"

	"github.com/icon-project/sodax-frontend-sub008/common/types"
	"github.com/icon-project/sodax-frontend-sub008/contracts"
	"github.com/pkg/errors"
)

// BuildCall builds an unsigned Connection.sendMessage(dstChainId, dstAddress, payload) call.
func (e *evm) BuildCall(ctx context.Context, params *types.CallParams) (*types.RawTransaction, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	from, err := hexAddress(params.From)
	if err != nil {
		return nil, err
	}
	connection, err := e.contractAddress(types.Connection)
	if err != nil {
		return nil, err
	}

	data, err := contracts.Connection.Pack("sendMessage", new(big.Int).SetUint64(params.DstRelayChainID), params.DstAddress, params.Payload)
	if err != nil {
		return nil, errors.Wrap(err, "failed to pack sendMessage data")
	}

	tx, err := e.prepareTransaction(ctx, from, connection, big.NewInt(0), data)
	if err != nil {
		return nil, err
	}
	return e.rawTransaction(from, tx)
}

// Call builds, signs and broadcasts a message.
func (e *evm) Call(ctx context.Context, params *types.CallParams) (*types.TxResult, error) {
	if params == nil {
		return nil, errors.New("call params are nil")
	}
	if _, err := e.signingAddress(params.From); err != nil {
		return nil, err
	}

	raw, err := e.BuildCall(ctx, params)
	if err != nil {
		return nil, err
	}
	return e.broadcast(ctx, raw)
}
