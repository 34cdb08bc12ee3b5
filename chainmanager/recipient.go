package chainmanager

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	commonerrors "github.com/icon-project/sodax-frontend-sub008/common/errors"
	"github.com/icon-project/sodax-frontend-sub008/common/types"
	"github.com/pkg/errors"
)

// ResolveRecipient validates params and returns the hub wallet the deposit is credited to.
// An explicit params.To must be a hex address; otherwise the wallet is resolved from params.From.
func ResolveRecipient(ctx context.Context, resolver types.HubWalletResolver, config *types.ChainConfig, params *types.DepositParams) (common.Address, error) {
	if err := params.Validate(); err != nil {
		return common.Address{}, err
	}

	if params.To != "" {
		if !common.IsHexAddress(params.To) {
			return common.Address{}, errors.Wrapf(commonerrors.ErrInvalidAddress, "hub wallet %q", params.To)
		}
		return common.HexToAddress(params.To), nil
	}

	if resolver == nil {
		return common.Address{}, errors.New("hub wallet resolver not configured")
	}
	wallet, err := resolver.ResolveHubWallet(ctx, config.ID, params.From)
	if err != nil {
		return common.Address{}, errors.Wrap(err, "failed to resolve hub wallet")
	}
	return wallet, nil
}
