package sui

import (
	"context"

	"github.com/icon-project/sodax-frontend-sub008/common/types"
)

// BuildCall returns the unsigned connection::send_message(state, dst_chain_id, dst_address, payload).
func (s *sui) BuildCall(ctx context.Context, params *types.CallParams) (*types.RawTransaction, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	sender, err := ParseAddress(params.From)
	if err != nil {
		return nil, err
	}

	gas, _, err := s.gasPayment(ctx, addressHex(sender))
	if err != nil {
		return nil, err
	}
	state, err := s.sharedObject(ctx, s.connectionState, true)
	if err != nil {
		return nil, err
	}

	p := &programmable{}
	stateArg := p.input(CallArg{Shared: state})
	dstArg := p.input(CallArg{Pure: pureU64(params.DstRelayChainID)})
	addressArg := p.input(CallArg{Pure: pureBytes(params.DstAddress)})
	payloadArg := p.input(CallArg{Pure: pureBytes(params.Payload)})
	p.command(MoveCall{
		Package:   s.connectionPackage,
		Module:    connectionModule,
		Function:  "send_message",
		Arguments: []Argument{stateArg, dstArg, addressArg, payloadArg},
	})

	tx, err := s.prepareTransaction(ctx, sender, p, gas)
	if err != nil {
		return nil, err
	}
	return s.rawTransaction(tx, addressHex(s.connectionPackage), nil)
}

// Call builds, signs and executes a send_message.
func (s *sui) Call(ctx context.Context, params *types.CallParams) (*types.TxResult, error) {
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
