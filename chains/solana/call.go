package solana

import (
	"context"

	"github.com/ethereum/go-ethereum/crypto"
	sol "github.com/gagliardetto/solana-go"
	"github.com/icon-project/sodax-frontend-sub008/common/types"
)

// BuildCall returns the unsigned connection send_message transaction.
func (s *solana) BuildCall(ctx context.Context, params *types.CallParams) (*types.RawTransaction, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return s.buildCall(ctx, params)
}

// Call builds, signs and broadcasts a send_message. The payload is returned in
// TxResult.RelayData.
func (s *solana) Call(ctx context.Context, params *types.CallParams) (*types.TxResult, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	w, err := s.signingKey(params.From)
	if err != nil {
		return nil, err
	}

	raw, err := s.buildCall(ctx, params)
	if err != nil {
		return nil, err
	}
	return s.signAndSend(ctx, w, raw, relaySubmitData(params.DstAddress, params.Payload))
}

func (s *solana) buildCall(ctx context.Context, params *types.CallParams) (*types.RawTransaction, error) {
	payer, err := publicKey(params.From)
	if err != nil {
		return nil, err
	}

	data, err := sendMessageData(params.DstRelayChainID, params.DstAddress, crypto.Keccak256(params.Payload))
	if err != nil {
		return nil, err
	}
	ix, err := s.createSendMessageInstruction(payer, data)
	if err != nil {
		return nil, err
	}

	tx, err := s.prepareTransaction(ctx, payer, []sol.Instruction{ix})
	if err != nil {
		return nil, err
	}
	return s.rawTransaction(tx, payer, s.connection, nil, data)
}
