package sui

import (
	"context"
	"math/big"
)

// GetDeposit returns the balance of coin type token held by the asset manager config object.
func (s *sui) GetDeposit(ctx context.Context, token string) (*big.Int, error) {
	coinType := token
	if token == "" || s.config.IsNativeToken(token) {
		coinType = SuiCoinType
	}
	if _, err := ParseStructTag(coinType); err != nil {
		return nil, err
	}
	return s.getBalance(ctx, addressHex(s.assetManagerConfig), coinType)
}
