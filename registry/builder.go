package registry

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/icon-project/sodax-frontend-sub008/amount"
	commonerrors "github.com/icon-project/sodax-frontend-sub008/common/errors"
	"github.com/icon-project/sodax-frontend-sub008/common/types"
	"github.com/pkg/errors"
)

// Builder collects configuration and validates it once in Build.
type Builder struct {
	hub    *types.HubConfig
	chains []*types.ChainConfig
	assets []types.HubAssetInfo
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// WithHub sets the hub configuration.
func (b *Builder) WithHub(hub *types.HubConfig) *Builder {
	b.hub = cloneHub(hub)
	return b
}

// WithChain adds a spoke chain configuration.
func (b *Builder) WithChain(config *types.ChainConfig) *Builder {
	if config != nil {
		b.chains = append(b.chains, config.Clone())
	}
	return b
}

// WithHubAsset adds a hub asset mapping.
func (b *Builder) WithHubAsset(info types.HubAssetInfo) *Builder {
	b.assets = append(b.assets, info)
	return b
}

// Build validates the collected configuration and returns the immutable registry.
//
// Returns:
// - *Registry: the registry.
// - error: ErrInvalidConfig, ErrChainExists, ErrChainNotFound, ErrInvalidAddress or ErrInvalidDecimals.
func (b *Builder) Build() (*Registry, error) {
	if err := validateHub(b.hub); err != nil {
		return nil, err
	}

	r := &Registry{
		hub:        cloneHub(b.hub),
		chains:     make(map[string]*types.ChainConfig, len(b.chains)),
		relayIDs:   make(map[uint64]string, len(b.chains)),
		assets:     make(map[string]map[string]types.HubAssetInfo),
		assetOrder: make(map[string][]string),
	}

	for _, config := range b.chains {
		if err := config.Validate(); err != nil {
			return nil, err
		}
		if _, exists := r.chains[config.ID]; exists {
			return nil, errors.Wrap(commonerrors.ErrChainExists, config.ID)
		}
		if other, exists := r.relayIDs[config.RelayChainID]; exists {
			return nil, errors.Wrapf(commonerrors.ErrInvalidConfig, "relay chain id %d used by %s and %s", config.RelayChainID, other, config.ID)
		}
		r.chains[config.ID] = config
		r.relayIDs[config.RelayChainID] = config.ID
		r.order = append(r.order, config.ID)
	}

	for _, info := range b.assets {
		config, ok := r.chains[info.SpokeChainID]
		if !ok {
			return nil, errors.Wrapf(commonerrors.ErrChainNotFound, "hub asset %s references %s", info.Symbol, info.SpokeChainID)
		}
		if err := validateAsset(info); err != nil {
			return nil, err
		}
		if r.assets[config.ID] == nil {
			r.assets[config.ID] = make(map[string]types.HubAssetInfo)
		}
		key := assetKey(config.Family, info.OriginalAsset)
		if _, exists := r.assets[config.ID][key]; exists {
			return nil, errors.Wrapf(commonerrors.ErrInvalidConfig, "duplicate hub asset %s on %s", info.OriginalAsset, config.ID)
		}
		r.assets[config.ID][key] = info
		r.assetOrder[config.ID] = append(r.assetOrder[config.ID], key)
	}

	return r, nil
}

func validateHub(hub *types.HubConfig) error {
	if hub == nil {
		return errors.Wrap(commonerrors.ErrInvalidConfig, "hub config is missing")
	}
	if hub.ChainID == "" || hub.RelayChainID == 0 {
		return errors.Wrap(commonerrors.ErrInvalidConfig, "hub chain id and relay chain id are required")
	}
	factory, err := hub.Address(types.HubWallet)
	if err != nil {
		return errors.Wrap(commonerrors.ErrInvalidConfig, err.Error())
	}
	if !common.IsHexAddress(factory) {
		return errors.Wrapf(commonerrors.ErrInvalidAddress, "hub wallet factory %q", factory)
	}
	return nil
}

func validateAsset(info types.HubAssetInfo) error {
	if info.OriginalAsset == "" {
		return errors.Wrapf(commonerrors.ErrInvalidConfig, "hub asset %s has no original asset", info.Symbol)
	}
	for _, addr := range []string{info.Asset, info.Vault} {
		if !common.IsHexAddress(addr) {
			return errors.Wrapf(commonerrors.ErrInvalidAddress, "hub asset %s address %q", info.Symbol, addr)
		}
	}
	if info.Decimals < 0 || info.Decimals > amount.MaxDecimals {
		return errors.Wrapf(commonerrors.ErrInvalidDecimals, "hub asset %s has %d decimals", info.Symbol, info.Decimals)
	}
	return nil
}
