package stellar

import (
	"context"
	"math/big"
)

// GetDeposit returns token.balance(assetManager). The native token is read through its asset contract.
func (s *stellar) GetDeposit(ctx context.Context, token string) (*big.Int, error) {
	if token == "" {
		token = s.config.NativeToken
	}
	tokenAddress, err := contractAddress(token)
	if err != nil {
		return nil, err
	}
	return s.tokenBalance(ctx, tokenAddress, s.assetManager)
}
