package stacks

import (
	"context"
	"math/big"

	"github.com/icon-project/sodax-frontend-sub008/codec"
	"github.com/icon-project/sodax-frontend-sub008/common/types"
)

// BuildCall returns the connection send-message(dst-chain-id, dst-address, payload) contract call.
func (s *stacks) BuildCall(ctx context.Context, params *types.CallParams) (*types.RawTransaction, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if _, err := codec.DecodeStacksPrincipal(params.From); err != nil {
		return nil, err
	}

	dstChainID, err := Uint(new(big.Int).SetUint64(params.DstRelayChainID))
	if err != nil {
		return nil, err
	}
	call := s.contractCall(params.From, s.connection, "send-message", nil,
		dstChainID,
		Buffer(params.DstAddress),
		Buffer(params.Payload),
	)
	return s.rawTransaction(call)
}

// Call builds a send-message and has the wallet sign and broadcast it.
func (s *stacks) Call(ctx context.Context, params *types.CallParams) (*types.TxResult, error) {
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
