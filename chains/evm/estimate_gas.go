package evm

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	commonerrors "github.com/icon-project/sodax-frontend-sub008/common/errors"
	"github.com/pkg/errors"
)

// GasPriceData represents the gas price data for EIP-1559 transactions.
type GasPriceData struct {
	MaxFeePerGas         *big.Int // The maximum fee per gas.
	MaxPriorityFeePerGas *big.Int // The maximum priority fee per gas.
}

// estimateGas estimates the gas required for a transaction sent by from.
// A failing estimate means the call would revert and is reported as ErrSimulationFailed.
//
// Parameters:
// - ctx: the context for managing the request.
// - from: the sender of the transaction.
// - to: the contract the transaction targets.
// - value: the amount of native currency to send with the transaction.
// - data: the input data for the transaction.
//
// Returns:
// - uint64: the estimated gas required for the transaction.
// - error: an error if the client is not initialized or if the estimate fails.
func (e *evm) estimateGas(ctx context.Context, from, to common.Address, value *big.Int, data []byte) (uint64, error) {
	client, err := e.getClient()
	if err != nil {
		return 0, err
	}

	gas, err := client.EstimateGas(ctx, ethereum.CallMsg{
		From:  from,
		To:    &to,
		Value: value,
		Data:  data,
	})
	if err != nil {
		return 0, errors.Wrap(commonerrors.ErrSimulationFailed, err.Error())
	}
	return gas, nil
}

// getEIP1559GasPrice retrieves the gas price data for EIP-1559 transactions.
//
// Parameters:
// - ctx: the context for managing the request.
//
// Returns:
// - *GasPriceData: the fee cap and tip for EIP-1559 transactions.
// - error: an error if the client is not initialized or the latest header has no base fee.
func (e *evm) getEIP1559GasPrice(ctx context.Context) (*GasPriceData, error) {
	client, err := e.getClient()
	if err != nil {
		return nil, err
	}

	suggestedTip, err := client.SuggestGasTipCap(ctx)
	if err != nil {
		e.logger.WithError(err).Error("Failed to get suggested gas tip")
		suggestedTip = big.NewInt(1)
	}

	if suggestedTip.Sign() == 0 {
		suggestedTip = big.NewInt(1)
	}

	header, err := client.HeaderByNumber(ctx, nil)
	if err != nil {
		e.logger.WithField("chain", e.config.ID).WithError(err).Warn("Failed to get header by number")
		return nil, errors.Wrap(err, "failed to get header by number")
	}

	baseFee := header.BaseFee
	if baseFee == nil {
		e.logger.WithField("chain", e.config.ID).Warn("Base fee is nil")
		return nil, errors.New("base fee is nil")
	}

	baseFeeBuf := new(big.Int).Mul(baseFee, big.NewInt(130))
	baseFeeBuf = baseFeeBuf.Div(baseFeeBuf, big.NewInt(100))
	maxFeePerGas := new(big.Int).Add(baseFeeBuf, suggestedTip)

	return &GasPriceData{
		MaxFeePerGas:         maxFeePerGas,
		MaxPriorityFeePerGas: suggestedTip,
	}, nil
}

// getLegacyGasPrice returns the suggested gas price with a 50% buffer.
func (e *evm) getLegacyGasPrice(ctx context.Context) (*big.Int, error) {
	client, err := e.getClient()
	if err != nil {
		return nil, err
	}

	gasPrice, err := client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get gas price")
	}

	gasPrice = new(big.Int).Mul(gasPrice, big.NewInt(150))
	return gasPrice.Div(gasPrice, big.NewInt(100)), nil
}
