package evm

import (
	"context"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	commonerrors "github.com/icon-project/sodax-frontend-sub008/common/errors"
	"github.com/icon-project/sodax-frontend-sub008/common/types"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// prepareTransaction prepares an unsigned transaction with the given parameters.
//
// Parameters:
// - ctx: the context for managing the request.
// - from: the sender, used for the nonce and the gas estimate.
// - to: the contract the transaction targets.
// - value: the amount of native currency to send with the transaction.
// - data: the input data for the transaction.
//
// Returns:
// - *ethtypes.Transaction: the prepared transaction.
// - error: an error if the nonce, gas estimation or gas price retrieval fails.
func (e *evm) prepareTransaction(ctx context.Context, from, to common.Address, value *big.Int, data []byte) (*ethtypes.Transaction, error) {
	client, err := e.getClient()
	if err != nil {
		return nil, err
	}

	nonce, err := client.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get nonce")
	}

	estimatedGas, err := e.estimateGas(ctx, from, to, value, data)
	if err != nil {
		e.logger.WithField("chain", e.config.ID).WithError(err).Warn("Failed to estimate gas")
		return nil, errors.Wrap(err, "failed to estimate gas")
	}

	gasLimit := estimatedGas * 11 / 10

	if e.config.TxType == TxTypeEIP1559 {
		gasPriceData, err := e.getEIP1559GasPrice(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "failed to get EIP-1559 gas price")
		}

		return ethtypes.NewTx(&ethtypes.DynamicFeeTx{
			ChainID:   e.chainID,
			Nonce:     nonce,
			GasFeeCap: gasPriceData.MaxFeePerGas,
			GasTipCap: gasPriceData.MaxPriorityFeePerGas,
			Gas:       gasLimit,
			To:        &to,
			Value:     value,
			Data:      data,
		}), nil
	}

	gasPrice, err := e.getLegacyGasPrice(ctx)
	if err != nil {
		return nil, err
	}

	return ethtypes.NewTx(&ethtypes.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gasLimit,
		To:       &to,
		Value:    value,
		Data:     data,
	}), nil
}

// rawTransaction wraps an unsigned transaction for callers that sign elsewhere.
func (e *evm) rawTransaction(from common.Address, tx *ethtypes.Transaction) (*types.RawTransaction, error) {
	encoded, err := tx.MarshalBinary()
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode transaction")
	}

	return &types.RawTransaction{
		ChainID: e.config.ID,
		Family:  e.config.Family,
		From:    from.Hex(),
		To:      tx.To().Hex(),
		Value:   tx.Value(),
		Data:    tx.Data(),
		Encoded: hexutil.Encode(encoded),
		Native:  tx,
	}, nil
}

// signingAddress returns the signer and checks that it controls from.
func (e *evm) signingAddress(from string) (common.Address, error) {
	s, err := e.getSigner()
	if err != nil {
		return common.Address{}, err
	}
	if !strings.EqualFold(s.Address().Hex(), from) {
		return common.Address{}, errors.Wrapf(commonerrors.ErrInvalidAddress, "sender %s is not the wallet address %s", from, s.Address().Hex())
	}
	return s.Address(), nil
}

// broadcast signs and sends a prepared transaction exactly once.
func (e *evm) broadcast(ctx context.Context, raw *types.RawTransaction) (*types.TxResult, error) {
	tx, ok := raw.Native.(*ethtypes.Transaction)
	if !ok {
		return nil, errors.New("raw transaction does not carry an evm transaction")
	}

	signedTx, err := e.signAndSendTransaction(ctx, tx)
	if err != nil {
		return nil, err
	}

	e.logger.WithFields(logrus.Fields{
		"chain": e.config.ID,
		"hash":  signedTx.Hash().Hex(),
		"to":    raw.To,
	}).Info("Transaction sent")

	return &types.TxResult{
		ChainID: e.config.ID,
		Hash:    signedTx.Hash().Hex(),
		From:    raw.From,
		To:      raw.To,
		Raw:     raw,
	}, nil
}

// signAndSendTransaction signs and sends the prepared transaction.
//
// Parameters:
// - ctx: the context for managing the request.
// - tx: the prepared transaction to be signed and sent.
//
// Returns:
// - *ethtypes.Transaction: the signed and sent transaction.
// - error: an error if the client or signer is not initialized, or if the signing or sending fails.
func (e *evm) signAndSendTransaction(ctx context.Context, tx *ethtypes.Transaction) (*ethtypes.Transaction, error) {
	client, err := e.getClient()
	if err != nil {
		return nil, err
	}
	s, err := e.getSigner()
	if err != nil {
		return nil, err
	}

	signedTx, err := s.SignTx(tx, e.chainID)
	if err != nil {
		e.logger.WithError(err).Error("Failed to sign transaction")
		return nil, errors.Wrap(err, "failed to sign transaction")
	}

	if err = client.SendTransaction(ctx, signedTx); err != nil {
		e.logger.WithError(err).Error("Failed to send transaction")
		return nil, errors.Wrap(err, "failed to send transaction")
	}

	return signedTx, nil
}
