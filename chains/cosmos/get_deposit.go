package cosmos

import (
	"context"
	"math/big"
)

// GetDeposit returns the bank balance of denom token held by the asset manager contract.
func (c *cosmos) GetDeposit(ctx context.Context, token string) (*big.Int, error) {
	if token == "" {
		token = c.config.NativeToken
	}
	return c.bankBalance(ctx, c.assetManager, token)
}
