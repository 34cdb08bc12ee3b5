// Package registry holds the immutable hub and spoke configuration every component reads from.
package registry

import (
	"context"
	"strings"

	"github.com/icon-project/sodax-frontend-sub008/chainmanager"
	commonerrors "github.com/icon-project/sodax-frontend-sub008/common/errors"
	"github.com/icon-project/sodax-frontend-sub008/common/types"
	"github.com/pkg/errors"
)

// Registry is the process-wide chain and hub asset configuration. It never changes after Build
// and hands out copies, so it is safe for concurrent use without locking.
type Registry struct {
	hub      *types.HubConfig
	chains   map[string]*types.ChainConfig
	order    []string
	relayIDs map[uint64]string
	// assets is keyed by spoke chain id, then by normalized original asset.
	assets map[string]map[string]types.HubAssetInfo
	// assetOrder holds the asset keys of each chain in registration order.
	assetOrder map[string][]string
}

// Hub returns a copy of the hub configuration.
func (r *Registry) Hub() *types.HubConfig {
	return cloneHub(r.hub)
}

// Chain returns a copy of the configuration of chainID.
//
// Parameters:
// - chainID: the spoke chain id.
//
// Returns:
// - *types.ChainConfig: the configuration.
// - error: ErrChainNotFound when chainID is not registered.
func (r *Registry) Chain(chainID string) (*types.ChainConfig, error) {
	config, ok := r.chains[chainID]
	if !ok {
		return nil, errors.Wrap(commonerrors.ErrChainNotFound, chainID)
	}
	return config.Clone(), nil
}

// ChainByRelayID returns the chain registered under the intent relay id.
func (r *Registry) ChainByRelayID(relayChainID uint64) (*types.ChainConfig, error) {
	chainID, ok := r.relayIDs[relayChainID]
	if !ok {
		return nil, errors.Wrapf(commonerrors.ErrChainNotFound, "relay chain id %d", relayChainID)
	}
	return r.Chain(chainID)
}

// ChainIDs returns the spoke chain ids in registration order.
func (r *Registry) ChainIDs() []string {
	return append([]string(nil), r.order...)
}

// HubAsset returns the hub representation of asset on chainID. Hex addresses match case-insensitively.
//
// Parameters:
// - chainID: the spoke chain id.
// - asset: the original spoke asset address or native token sentinel.
//
// Returns:
// - types.HubAssetInfo: the hub asset, vault and decimals.
// - error: ErrAssetNotSupported when no mapping exists.
func (r *Registry) HubAsset(chainID, asset string) (types.HubAssetInfo, error) {
	config, ok := r.chains[chainID]
	if !ok {
		return types.HubAssetInfo{}, errors.Wrap(commonerrors.ErrChainNotFound, chainID)
	}
	info, ok := r.assets[chainID][assetKey(config.Family, asset)]
	if !ok {
		return types.HubAssetInfo{}, errors.Wrapf(commonerrors.ErrAssetNotSupported, "%s on %s", asset, chainID)
	}
	return info, nil
}

// OriginalAsset returns the spoke asset that hubAsset represents on chainID.
func (r *Registry) OriginalAsset(chainID, hubAsset string) (string, error) {
	for _, key := range r.assetOrder[chainID] {
		if info := r.assets[chainID][key]; strings.EqualFold(info.Asset, hubAsset) {
			return info.OriginalAsset, nil
		}
	}
	return "", errors.Wrapf(commonerrors.ErrAssetNotSupported, "hub asset %s for %s", hubAsset, chainID)
}

// HubAssets returns every hub asset of chainID in registration order.
func (r *Registry) HubAssets(chainID string) []types.HubAssetInfo {
	keys := r.assetOrder[chainID]
	assets := make([]types.HubAssetInfo, 0, len(keys))
	for _, key := range keys {
		assets = append(assets, r.assets[chainID][key])
	}
	return assets
}

// RegisterSpokes adds a spoke for every chain to spokes, in registration order. Chains without a
// wallet in wallets are registered in raw mode.
//
// Parameters:
// - ctx: the context for spoke construction.
// - spokes: the spoke registry to populate.
// - wallets: family wallet capabilities keyed by spoke chain id.
//
// Returns:
// - error: the first registration failure.
func (r *Registry) RegisterSpokes(ctx context.Context, spokes *chainmanager.SpokeRegistry, wallets map[string]interface{}) error {
	for _, chainID := range r.order {
		if err := spokes.Add(ctx, r.chains[chainID], wallets[chainID]); err != nil {
			return err
		}
	}
	return nil
}

// assetKey normalizes asset for lookup. Families with hex addresses compare case-insensitively.
func assetKey(family types.ChainFamily, asset string) string {
	if family.IsEVM() || family == types.ICON || family == types.SUI {
		return strings.ToLower(asset)
	}
	return asset
}

func cloneHub(hub *types.HubConfig) *types.HubConfig {
	if hub == nil {
		return nil
	}
	clone := *hub
	clone.Addresses = make(map[string]string, len(hub.Addresses))
	for k, v := range hub.Addresses {
		clone.Addresses[k] = v
	}
	return &clone
}
