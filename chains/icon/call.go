package icon

import (
	"context"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/icon-project/sodax-frontend-sub008/common/types"
)

// BuildCall returns the unsigned connection.sendMessage transaction.
func (i *icon) BuildCall(ctx context.Context, params *types.CallParams) (*types.RawTransaction, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if err := checkAddress(params.From); err != nil {
		return nil, err
	}

	tx := i.prepareTransaction(ctx, params.From, i.connection, nil, "sendMessage", map[string]string{
		"dstChainId": hexutil.EncodeUint64(params.DstRelayChainID),
		"dstAddress": hexutil.Encode(params.DstAddress),
		"payload":    hexutil.Encode(params.Payload),
	})
	return i.rawTransaction(tx)
}

// Call builds, signs and broadcasts a sendMessage.
func (i *icon) Call(ctx context.Context, params *types.CallParams) (*types.TxResult, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	w, err := i.signingWallet(params.From)
	if err != nil {
		return nil, err
	}

	raw, err := i.BuildCall(ctx, params)
	if err != nil {
		return nil, err
	}
	return i.signAndSend(ctx, w, raw)
}
