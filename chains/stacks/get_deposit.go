package stacks

import (
	"context"
	"math/big"
)

// GetDeposit returns the asset manager balance: account STX balance for the native token,
// SIP-010 get-balance otherwise.
func (s *stacks) GetDeposit(ctx context.Context, token string) (*big.Int, error) {
	owner := s.assetManager.String()
	if token == "" || s.config.IsNativeToken(token) {
		return s.stxBalance(ctx, owner)
	}
	return s.tokenBalance(ctx, token, owner)
}
