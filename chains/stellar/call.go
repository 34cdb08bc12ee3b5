package stellar

import (
	"context"

	"github.com/icon-project/sodax-frontend-sub008/common/types"
)

// BuildCall returns the assembled connection.send_message(tx_origin, dst_chain_id, dst_address, payload).
func (s *stellar) BuildCall(ctx context.Context, params *types.CallParams) (*types.RawTransaction, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	from, err := accountAddress(params.From)
	if err != nil {
		return nil, err
	}

	args := invokeArgs(s.connection, "send_message",
		addressVal(from),
		u128Val(params.DstRelayChainID),
		bytesVal(params.DstAddress),
		bytesVal(params.Payload),
	)
	tx, err := s.prepareTransaction(ctx, params.From, args)
	if err != nil {
		return nil, err
	}
	connectionID, _ := s.config.Address(types.Connection)
	return s.rawTransaction(tx, params.From, connectionID, args)
}

// Call builds, signs and sends a send_message.
func (s *stellar) Call(ctx context.Context, params *types.CallParams) (*types.TxResult, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	w, err := s.signingWallet(params.From)
	if err != nil {
		return nil, err
	}

	raw, err := s.BuildCall(ctx, params)
	if err != nil {
		return nil, err
	}
	return s.signAndSend(ctx, w, raw)
}
