package evm

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	commonerrors "github.com/icon-project/sodax-frontend-sub008/common/errors"
	"github.com/icon-project/sodax-frontend-sub008/common/types"
	"github.com/icon-project/sodax-frontend-sub008/contracts"
	"github.com/pkg/errors"
)

// IsAllowanceValid reports whether owner allowed the asset manager to pull amount of token.
// Native deposits need no allowance.
func (e *evm) IsAllowanceValid(ctx context.Context, owner string, token string, amount *big.Int) (bool, error) {
	spender, err := e.contractAddress(types.AssetManager)
	if err != nil {
		return false, err
	}
	return e.isAllowanceValid(ctx, owner, token, spender, amount)
}

func (e *evm) isAllowanceValid(ctx context.Context, owner, token string, spender common.Address, amount *big.Int) (bool, error) {
	if amount == nil || amount.Sign() <= 0 {
		return false, commonerrors.ErrZeroAmount
	}
	if e.config.IsNativeToken(token) {
		return true, nil
	}

	ownerAddr, err := hexAddress(owner)
	if err != nil {
		return false, err
	}
	tokenAddr, err := hexAddress(token)
	if err != nil {
		return false, err
	}

	allowance, err := e.allowance(ctx, tokenAddr, ownerAddr, spender)
	if err != nil {
		return false, err
	}
	return allowance.Cmp(amount) >= 0, nil
}

// Approve grants the asset manager an allowance of amount on token.
//
// Parameters:
// - ctx: the context for managing the request.
// - owner: the token holder; must be the configured wallet.
// - token: the ERC20 token address.
// - amount: the allowance to grant.
//
// Returns:
// - *types.TxResult: the broadcast approval.
// - error: an error if the wallet is missing or the approval cannot be sent.
func (e *evm) Approve(ctx context.Context, owner string, token string, amount *big.Int) (*types.TxResult, error) {
	spender, err := e.contractAddress(types.AssetManager)
	if err != nil {
		return nil, err
	}
	return e.approve(ctx, owner, token, spender, amount)
}

func (e *evm) approve(ctx context.Context, owner, token string, spender common.Address, amount *big.Int) (*types.TxResult, error) {
	from, err := e.signingAddress(owner)
	if err != nil {
		return nil, err
	}
	if amount == nil || amount.Sign() <= 0 {
		return nil, commonerrors.ErrZeroAmount
	}
	if e.config.IsNativeToken(token) {
		return nil, errors.Wrap(commonerrors.ErrInvalidAddress, "native token needs no approval")
	}
	tokenAddr, err := hexAddress(token)
	if err != nil {
		return nil, err
	}

	data, err := contracts.ERC20.Pack("approve", spender, amount)
	if err != nil {
		return nil, errors.Wrap(err, "failed to pack approve data")
	}

	tx, err := e.prepareTransaction(ctx, from, tokenAddr, big.NewInt(0), data)
	if err != nil {
		return nil, err
	}
	raw, err := e.rawTransaction(from, tx)
	if err != nil {
		return nil, err
	}
	result, err := e.broadcast(ctx, raw)
	if err != nil {
		return nil, err
	}

	// Deposits check the allowance on-chain, so the approval has to be mined first.
	if _, err := e.waitReceipt(ctx, common.HexToHash(result.Hash)); err != nil {
		return result, errors.Wrap(err, "approval not confirmed")
	}
	return result, nil
}
