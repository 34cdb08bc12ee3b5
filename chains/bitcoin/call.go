package bitcoin

import (
	"context"
	"encoding/binary"

	"github.com/btcsuite/btcd/wire"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/icon-project/sodax-frontend-sub008/common/types"
)

// BuildCall returns the unsigned message PSBT: a dust output to the connection address and an
// OP_RETURN output committing to keccak256(dst chain id || dst address || payload).
func (b *bitcoin) BuildCall(ctx context.Context, params *types.CallParams) (*types.RawTransaction, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return b.buildCall(ctx, params)
}

// Call builds, signs and broadcasts a message. The payload is returned in TxResult.RelayData.
func (b *bitcoin) Call(ctx context.Context, params *types.CallParams) (*types.TxResult, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	w, err := b.signingWallet(params.From)
	if err != nil {
		return nil, err
	}

	raw, err := b.buildCall(ctx, params)
	if err != nil {
		return nil, err
	}
	return b.signAndSend(ctx, w, raw, &types.RelaySubmitData{
		Address: hexutil.Encode(params.DstAddress),
		Payload: hexutil.Encode(params.Payload),
	})
}

func (b *bitcoin) buildCall(ctx context.Context, params *types.CallParams) (*types.RawTransaction, error) {
	sender, senderScript, err := b.decodeSender(params.From)
	if err != nil {
		return nil, err
	}

	marker, err := b.payTo(b.connection, dustLimit)
	if err != nil {
		return nil, err
	}
	commitment := crypto.Keccak256(binary.BigEndian.AppendUint64(nil, params.DstRelayChainID), params.DstAddress, params.Payload)
	opReturn, err := commitmentOutput(commitment)
	if err != nil {
		return nil, err
	}

	packet, err := b.fund(ctx, sender, senderScript, []*wire.TxOut{marker, opReturn})
	if err != nil {
		return nil, err
	}
	return b.rawTransaction(packet, params.From, b.connection.EncodeAddress(), nil, commitment)
}
