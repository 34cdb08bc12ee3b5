package cosmos

import (
	"context"

	"github.com/icon-project/sodax-frontend-sub008/common/types"
	"github.com/pkg/errors"
)

// BuildCall returns the connection {"send_message":{...}} execution.
func (c *cosmos) BuildCall(ctx context.Context, params *types.CallParams) (*types.RawTransaction, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if err := checkAddress(params.From); err != nil {
		return nil, err
	}

	msg, err := sendMessage(params.DstRelayChainID, params.DstAddress, params.Payload)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode send_message")
	}
	return c.rawTransaction(&MsgExecuteContract{
		Sender:   params.From,
		Contract: c.connection,
		Msg:      msg,
		Funds:    []Coin{},
	}, nil)
}

// Call builds a send_message and has the wallet sign and broadcast it.
func (c *cosmos) Call(ctx context.Context, params *types.CallParams) (*types.TxResult, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	w, err := c.signingWallet(params.From)
	if err != nil {
		return nil, err
	}

	raw, err := c.BuildCall(ctx, params)
	if err != nil {
		return nil, err
	}
	return c.signAndSend(ctx, w, raw)
}
