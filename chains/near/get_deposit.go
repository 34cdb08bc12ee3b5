package near

import (
	"context"
	"math/big"
)

// GetDeposit returns the asset manager balance: account amount for NEAR, ft_balance_of otherwise.
func (n *near) GetDeposit(ctx context.Context, token string) (*big.Int, error) {
	if token == "" || n.config.IsNativeToken(token) {
		return n.accountBalance(ctx, n.assetManager)
	}
	if err := checkAccount(token); err != nil {
		return nil, err
	}
	return n.ftBalance(ctx, token, n.assetManager)
}
