package icon

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
)

// GetDeposit returns the asset manager balance of token: icx_getBalance for ICX, IRC2 balanceOf otherwise.
func (i *icon) GetDeposit(ctx context.Context, token string) (*big.Int, error) {
	if token == "" || i.config.IsNativeToken(token) {
		return i.nativeBalance(ctx, i.assetManager)
	}
	if err := checkAddress(token); err != nil {
		return nil, err
	}
	return i.tokenBalance(ctx, token, i.assetManager)
}

func (i *icon) nativeBalance(ctx context.Context, address string) (*big.Int, error) {
	var result string
	if err := i.client.Call(ctx, "icx_getBalance", map[string]string{"address": address}, &result); err != nil {
		return nil, errors.Wrap(err, "failed to get native balance")
	}
	return parseHexInt(result)
}

func (i *icon) tokenBalance(ctx context.Context, token, owner string) (*big.Int, error) {
	params := map[string]interface{}{
		"to":       token,
		"dataType": "call",
		"data":     callData("balanceOf", map[string]string{"_owner": owner}),
	}
	var result string
	if err := i.client.Call(ctx, "icx_call", params, &result); err != nil {
		return nil, errors.Wrap(err, "failed to get token balance")
	}
	return parseHexInt(result)
}

func parseHexInt(value string) (*big.Int, error) {
	v, err := hexutil.DecodeBig(value)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid hex integer %q", value)
	}
	return v, nil
}
