package dbconfig

import (
	"context"

	"github.com/icon-project/sodax-frontend-sub008/common/types"
	"github.com/icon-project/sodax-frontend-sub008/dbconfig/models"
	"github.com/icon-project/sodax-frontend-sub008/registry"
	"github.com/pkg/errors"
)

// LoadRegistry builds a registry from the active chains, their addresses and endpoints, and the
// active hub assets.
//
// Parameters:
// - ctx: the context for managing the queries.
// - hub: the hub configuration, which is not stored in the database.
//
// Returns:
// - *registry.Registry: the validated registry.
// - error: a database or validation error.
func (r *DBConfig) LoadRegistry(ctx context.Context, hub *types.HubConfig) (*registry.Registry, error) {
	chains, err := r.GetChains(ctx, true)
	if err != nil {
		return nil, err
	}

	builder := registry.NewBuilder().WithHub(hub)
	for _, chain := range chains {
		addresses, err := r.GetChainAddresses(ctx, chain.ChainID)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to load addresses of %s", chain.ChainID)
		}
		rpcs, err := r.GetRPCsByChainID(ctx, chain.ChainID, true)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to load rpcs of %s", chain.ChainID)
		}
		builder.WithChain(ToChainConfig(chain, addresses, rpcs))
	}

	assets, err := r.GetHubAssets(ctx, true)
	if err != nil {
		return nil, err
	}
	for _, asset := range assets {
		builder.WithHubAsset(ToHubAssetInfo(asset))
	}

	return builder.Build()
}

// ToChainConfig assembles a chain configuration from its rows. rpcs are expected newest first; the
// first URL of each provider wins, and a provider-less URL only fills an empty RPCURL.
func ToChainConfig(chain models.Chain, addresses []models.ChainAddress, rpcs []models.RPC) *types.ChainConfig {
	config := &types.ChainConfig{
		ID:           chain.ChainID,
		Name:         chain.Name,
		Family:       types.ParseChainFamily(chain.Family),
		RelayChainID: chain.RelayChainID,
		NativeToken:  chain.NativeToken,
		NetworkID:    chain.NetworkID,
		TxType:       chain.TxType,
		RPCURL:       chain.RPCURL,
		Addresses:    make(map[string]string, len(addresses)),
		Endpoints:    make(map[string]string),
	}

	for _, address := range addresses {
		config.Addresses[address.Name] = address.Address
	}

	for _, rpc := range rpcs {
		if rpc.Provider == "" {
			if config.RPCURL == "" {
				config.RPCURL = rpc.URL
			}
			continue
		}
		if _, exists := config.Endpoints[rpc.Provider]; !exists {
			config.Endpoints[rpc.Provider] = rpc.URL
		}
	}

	return config
}

// ToHubAssetInfo converts a hub_assets row.
func ToHubAssetInfo(asset models.HubAsset) types.HubAssetInfo {
	return types.HubAssetInfo{
		SpokeChainID:  asset.SpokeChainID,
		OriginalAsset: asset.OriginalAsset,
		Symbol:        asset.Symbol,
		Asset:         asset.Asset,
		Vault:         asset.Vault,
		Decimals:      asset.Decimals,
	}
}
