package near

import (
	"context"
	"math/big"

	"github.com/icon-project/sodax-frontend-sub008/common/types"
)

type sendMessageArgs struct {
	DstChainID uint64 `json:"dst_chain_id"`
	DstAddress []byte `json:"dst_address"`
	Payload    []byte `json:"payload"`
}

// BuildCall returns the unsigned connection.send_message call.
func (n *near) BuildCall(ctx context.Context, params *types.CallParams) (*types.RawTransaction, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if err := checkAccount(params.From); err != nil {
		return nil, err
	}

	call, args, err := functionCall("send_message", sendMessageArgs{
		DstChainID: params.DstRelayChainID,
		DstAddress: params.DstAddress,
		Payload:    params.Payload,
	}, maxGas, new(big.Int))
	if err != nil {
		return nil, err
	}
	tx, err := n.prepareTransaction(ctx, params.From, n.connection, call)
	if err != nil {
		return nil, err
	}
	return n.rawTransaction(tx, nil, args)
}

// Call builds, signs and broadcasts a send_message.
func (n *near) Call(ctx context.Context, params *types.CallParams) (*types.TxResult, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	w, err := n.signingWallet(params.From)
	if err != nil {
		return nil, err
	}

	raw, err := n.BuildCall(ctx, params)
	if err != nil {
		return nil, err
	}
	return n.signAndSend(ctx, w, raw)
}
