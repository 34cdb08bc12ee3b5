package bitcoin

import (
	"context"
	"math/big"

	commonerrors "github.com/icon-project/sodax-frontend-sub008/common/errors"
	"github.com/pkg/errors"
)

// GetDeposit returns the BTC held by the asset manager address.
func (b *bitcoin) GetDeposit(ctx context.Context, token string) (*big.Int, error) {
	if token != "" && !b.config.IsNativeToken(token) {
		return nil, errors.Wrapf(commonerrors.ErrAssetNotSupported, "%s on %s", token, b.config.ID)
	}
	return b.balance(ctx, b.assetManager.EncodeAddress())
}
