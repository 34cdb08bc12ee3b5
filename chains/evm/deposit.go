package evm

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/icon-project/sodax-frontend-sub008/chainmanager"
	commonerrors "github.com/icon-project/sodax-frontend-sub008/common/errors"
	"github.com/icon-project/sodax-frontend-sub008/common/types"
	"github.com/icon-project/sodax-frontend-sub008/contracts"
	"github.com/pkg/errors"
)

// BuildDeposit builds an unsigned AssetManager.transfer(token, to, amount, data) call.
// Native deposits attach amount as value; token deposits require a prior allowance.
//
// Parameters:
// - ctx: the context for managing the request.
// - params: the deposit parameters.
//
// Returns:
// - *types.RawTransaction: the unsigned transaction.
// - error: a precondition error, ErrInsufficientBalance, ErrInsufficientAllowance or an RPC error.
func (e *evm) BuildDeposit(ctx context.Context, params *types.DepositParams) (*types.RawTransaction, error) {
	recipient, err := chainmanager.ResolveRecipient(ctx, e.resolver, e.config, params)
	if err != nil {
		return nil, err
	}
	from, err := hexAddress(params.From)
	if err != nil {
		return nil, err
	}
	assetManager, err := e.contractAddress(types.AssetManager)
	if err != nil {
		return nil, err
	}

	native := e.config.IsNativeToken(params.Token)
	token := common.HexToAddress(params.Token)
	if !native {
		if token, err = hexAddress(params.Token); err != nil {
			return nil, err
		}
	}

	if err := e.checkFunds(ctx, from, params.Token, native, assetManager, params.Amount); err != nil {
		return nil, err
	}

	data, err := contracts.AssetManager.Pack("transfer", token, recipient.Bytes(), params.Amount, params.Data)
	if err != nil {
		return nil, errors.Wrap(err, "failed to pack transfer data")
	}

	value := big.NewInt(0)
	if native {
		value = new(big.Int).Set(params.Amount)
	}

	tx, err := e.prepareTransaction(ctx, from, assetManager, value, data)
	if err != nil {
		return nil, err
	}
	return e.rawTransaction(from, tx)
}

// Deposit builds, signs and broadcasts a deposit.
func (e *evm) Deposit(ctx context.Context, params *types.DepositParams) (*types.TxResult, error) {
	if params == nil {
		return nil, errors.New("deposit params are nil")
	}
	if _, err := e.signingAddress(params.From); err != nil {
		return nil, err
	}

	raw, err := e.BuildDeposit(ctx, params)
	if err != nil {
		return nil, err
	}
	return e.broadcast(ctx, raw)
}

// checkFunds verifies the sender's balance and, for tokens, the allowance granted to spender.
func (e *evm) checkFunds(ctx context.Context, from common.Address, token string, native bool, spender common.Address, amount *big.Int) error {
	balance, err := e.tokenBalance(ctx, token, from)
	if err != nil {
		return errors.Wrap(err, "failed to read sender balance")
	}
	if balance.Cmp(amount) < 0 {
		return errors.Wrapf(commonerrors.ErrInsufficientBalance, "balance %s < amount %s", balance, amount)
	}
	if native {
		return nil
	}

	allowance, err := e.allowance(ctx, common.HexToAddress(token), from, spender)
	if err != nil {
		return errors.Wrap(err, "failed to read allowance")
	}
	if allowance.Cmp(amount) < 0 {
		return errors.Wrapf(commonerrors.ErrInsufficientAllowance, "allowance %s < amount %s", allowance, amount)
	}
	return nil
}
