package types

import (
	"strings"

	commonerrors "github.com/icon-project/sodax-frontend-sub008/common/errors"
	"github.com/pkg/errors"
)

// Well-known contract names used as keys of ChainConfig.Addresses.
const (
	AssetManager       = "assetManager"
	Connection         = "connection"
	WalletRouter       = "walletRouter"
	HubWallet          = "hubWallet"
	RateLimit          = "rateLimit"
	ConnectionState    = "connectionState"
	AssetManagerConfig = "assetManagerConfig"
	XCallManager       = "xcallManager"
)

// Well-known endpoint names used as keys of ChainConfig.Endpoints.
const (
	EndpointHorizon = "horizon"
	EndpointSoroban = "soroban"
	EndpointLCD     = "lcd"
	EndpointEsplora = "esplora"
	EndpointAPI     = "api"
)

// ChainConfig holds the static configuration of one spoke chain.
// It is read-only after the registry is built; the registry hands out clones.
//
// Fields:
// - ID: the spoke chain identifier (e.g. "0xa86a.avax", "sui").
// - Name: the human-readable chain name.
// - Family: the chain family tag used for dispatch.
// - RelayChainID: the numeric chain id used by the intent relay.
// - NativeToken: the sentinel address of the chain's native token.
// - NetworkID: family-specific network id (EVM chain id, ICON nid, Stellar passphrase, Cosmos chain-id).
// - TxType: EVM transaction type, 0 for legacy and 2 for EIP-1559.
// - RPCURL: the main RPC endpoint.
// - Addresses: named contract/program addresses (assetManager, connection, family extras).
// - Endpoints: additional named endpoints (horizon, soroban, lcd, esplora).
type ChainConfig struct {
	ID           string            `toml:"id" json:"id"`
	Name         string            `toml:"name" json:"name"`
	Family       ChainFamily       `toml:"family" json:"family"`
	RelayChainID uint64            `toml:"relay_chain_id" json:"relayChainId"`
	NativeToken  string            `toml:"native_token" json:"nativeToken"`
	NetworkID    string            `toml:"network_id" json:"networkId"`
	TxType       uint8             `toml:"tx_type" json:"txType"`
	RPCURL       string            `toml:"rpc_url" json:"rpcUrl"`
	Addresses    map[string]string `toml:"addresses" json:"addresses"`
	Endpoints    map[string]string `toml:"endpoints" json:"endpoints"`
}

// Address returns the named contract address or ErrMissingContractAddress.
func (c *ChainConfig) Address(name string) (string, error) {
	addr, ok := c.Addresses[name]
	if !ok || addr == "" {
		return "", errors.Wrapf(commonerrors.ErrMissingContractAddress, "%s on chain %s", name, c.ID)
	}
	return addr, nil
}

// Endpoint returns the named endpoint, falling back to RPCURL when it is not configured.
func (c *ChainConfig) Endpoint(name string) string {
	if url, ok := c.Endpoints[name]; ok && url != "" {
		return url
	}
	return c.RPCURL
}

// IsNativeToken reports whether token is the chain's native token sentinel.
func (c *ChainConfig) IsNativeToken(token string) bool {
	if c.Family.IsEVM() || c.Family == ICON || c.Family == SUI {
		return strings.EqualFold(token, c.NativeToken)
	}
	return token == c.NativeToken
}

// Validate checks the invariants every spoke configuration must hold.
func (c *ChainConfig) Validate() error {
	if c.ID == "" {
		return errors.Wrap(commonerrors.ErrInvalidConfig, "chain id is empty")
	}
	if ParseChainFamily(string(c.Family)) == UNKNOWN {
		return errors.Wrapf(commonerrors.ErrInvalidConfig, "chain %s has unknown family %q", c.ID, c.Family)
	}
	if c.RelayChainID == 0 {
		return errors.Wrapf(commonerrors.ErrInvalidConfig, "chain %s has no relay chain id", c.ID)
	}
	if c.Family != SONIC {
		for _, name := range []string{AssetManager, Connection} {
			if _, err := c.Address(name); err != nil {
				return errors.Wrap(commonerrors.ErrInvalidConfig, err.Error())
			}
		}
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c *ChainConfig) Clone() *ChainConfig {
	clone := *c
	clone.Addresses = make(map[string]string, len(c.Addresses))
	for k, v := range c.Addresses {
		clone.Addresses[k] = v
	}
	clone.Endpoints = make(map[string]string, len(c.Endpoints))
	for k, v := range c.Endpoints {
		clone.Endpoints[k] = v
	}
	return &clone
}

// HubConfig holds the configuration of the hub chain.
//
// Fields:
// - ChainID: the hub spoke chain id (the hub is also addressable as a spoke).
// - RelayChainID: the numeric relay id of the hub.
// - EVMChainID: the EVM chain id used for signing.
// - RPCURL: the hub RPC endpoint.
// - Addresses: hubWallet (wallet factory), assetManager, walletRouter.
type HubConfig struct {
	ChainID      string            `toml:"chain_id" json:"chainId"`
	RelayChainID uint64            `toml:"relay_chain_id" json:"relayChainId"`
	EVMChainID   uint64            `toml:"evm_chain_id" json:"evmChainId"`
	RPCURL       string            `toml:"rpc_url" json:"rpcUrl"`
	Addresses    map[string]string `toml:"addresses" json:"addresses"`
}

// Address returns the named hub contract address or ErrMissingContractAddress.
func (c *HubConfig) Address(name string) (string, error) {
	addr, ok := c.Addresses[name]
	if !ok || addr == "" {
		return "", errors.Wrapf(commonerrors.ErrMissingContractAddress, "%s on hub %s", name, c.ChainID)
	}
	return addr, nil
}

// HubAssetInfo maps a spoke asset to its hub-side representation.
type HubAssetInfo struct {
	SpokeChainID  string `toml:"spoke_chain_id" json:"spokeChainId"`
	OriginalAsset string `toml:"original_asset" json:"originalAsset"`
	Symbol        string `toml:"symbol" json:"symbol"`
	Asset         string `toml:"asset" json:"asset"`
	Vault         string `toml:"vault" json:"vault"`
	Decimals      int    `toml:"decimals" json:"decimals"`
}
