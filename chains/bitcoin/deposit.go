package bitcoin

import (
	"context"
	"math/big"

	"github.com/btcsuite/btcd/wire"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/icon-project/sodax-frontend-sub008/chainmanager"
	commonerrors "github.com/icon-project/sodax-frontend-sub008/common/errors"
	"github.com/icon-project/sodax-frontend-sub008/common/types"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// BuildDeposit returns the unsigned deposit PSBT: the amount paid to the asset manager and an
// OP_RETURN output committing to keccak256(hub wallet || data). Only BTC is supported.
func (b *bitcoin) BuildDeposit(ctx context.Context, params *types.DepositParams) (*types.RawTransaction, error) {
	raw, _, err := b.buildDeposit(ctx, params)
	return raw, err
}

// Deposit builds, signs and broadcasts a deposit. The relay needs the payload, which is returned in
// TxResult.RelayData.
func (b *bitcoin) Deposit(ctx context.Context, params *types.DepositParams) (*types.TxResult, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	w, err := b.signingWallet(params.From)
	if err != nil {
		return nil, err
	}

	raw, relayData, err := b.buildDeposit(ctx, params)
	if err != nil {
		return nil, err
	}
	return b.signAndSend(ctx, w, raw, relayData)
}

func (b *bitcoin) buildDeposit(ctx context.Context, params *types.DepositParams) (*types.RawTransaction, *types.RelaySubmitData, error) {
	recipient, err := chainmanager.ResolveRecipient(ctx, b.resolver, b.config, params)
	if err != nil {
		return nil, nil, err
	}
	if !b.config.IsNativeToken(params.Token) {
		return nil, nil, errors.Wrapf(commonerrors.ErrAssetNotSupported, "%s on %s", params.Token, b.config.ID)
	}
	if !params.Amount.IsInt64() {
		return nil, nil, errors.Wrapf(commonerrors.ErrAmountOverflow, "%s sat", params.Amount)
	}
	sats := params.Amount.Int64()
	if sats < dustLimit {
		return nil, nil, errors.Errorf("amount %d sat is below the dust limit", sats)
	}

	sender, senderScript, err := b.decodeSender(params.From)
	if err != nil {
		return nil, nil, err
	}

	payment, err := b.payTo(b.assetManager, sats)
	if err != nil {
		return nil, nil, err
	}
	commitment := crypto.Keccak256(recipient.Bytes(), params.Data)
	opReturn, err := commitmentOutput(commitment)
	if err != nil {
		return nil, nil, err
	}

	packet, err := b.fund(ctx, sender, senderScript, []*wire.TxOut{payment, opReturn})
	if err != nil {
		return nil, nil, err
	}

	b.logger.WithFields(logrus.Fields{
		"chainID":   b.config.ID,
		"from":      params.From,
		"hubWallet": recipient.Hex(),
		"amount":    sats,
	}).Debug("Built deposit")

	raw, err := b.rawTransaction(packet, params.From, b.assetManager.EncodeAddress(), big.NewInt(sats), commitment)
	if err != nil {
		return nil, nil, err
	}
	relayData := &types.RelaySubmitData{
		Address: hexutil.Encode(recipient.Bytes()),
		Payload: hexutil.Encode(params.Data),
	}
	return raw, relayData, nil
}
