package evm

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/icon-project/sodax-frontend-sub008/common/types"
	"github.com/icon-project/sodax-frontend-sub008/contracts"
	"github.com/pkg/errors"
)

// GetDeposit returns the asset manager balance of token.
//
// Parameters:
// - ctx: the context for managing the request.
// - token: the token address, or the chain's native token sentinel.
//
// Returns:
// - *big.Int: the balance in the token's native decimals.
// - error: an error if the balance read fails.
func (e *evm) GetDeposit(ctx context.Context, token string) (*big.Int, error) {
	assetManager, err := e.contractAddress(types.AssetManager)
	if err != nil {
		return nil, err
	}
	return e.tokenBalance(ctx, token, assetManager)
}

// tokenBalance gets the token balance of owner. The native token sentinel and the
// empty string read the native balance.
func (e *evm) tokenBalance(ctx context.Context, token string, owner common.Address) (*big.Int, error) {
	client, err := e.getClient()
	if err != nil {
		return nil, err
	}

	if token == "" || e.config.IsNativeToken(token) {
		balance, err := client.BalanceAt(ctx, owner, nil)
		if err != nil {
			return nil, errors.Wrap(err, "failed to get native token balance")
		}
		return balance, nil
	}

	tokenAddr, err := hexAddress(token)
	if err != nil {
		return nil, err
	}

	out, err := e.callView(ctx, client, tokenAddr, "balanceOf", owner)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// allowance returns the ERC20 allowance owner granted spender.
func (e *evm) allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error) {
	client, err := e.getClient()
	if err != nil {
		return nil, err
	}
	return e.callView(ctx, client, token, "allowance", owner, spender)
}

// callView calls a uint256-returning ERC20 view method.
func (e *evm) callView(ctx context.Context, client Client, token common.Address, method string, args ...interface{}) (*big.Int, error) {
	data, err := contracts.ERC20.Pack(method, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to pack %s data", method)
	}

	result, err := client.CallContract(ctx, ethereum.CallMsg{
		To:   &token,
		Data: data,
	}, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to call %s", method)
	}

	if len(result) == 0 {
		return nil, errors.Errorf("empty result from %s call", method)
	}

	out, err := contracts.ERC20.Unpack(method, result)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to unpack %s result", method)
	}
	value, ok := out[0].(*big.Int)
	if !ok {
		return nil, errors.Errorf("unexpected %s result type %T", method, out[0])
	}
	return value, nil
}
