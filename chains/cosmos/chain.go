package cosmos

import (
	"context"
	"sync"

	"github.com/icon-project/sodax-frontend-sub008/chainmanager"
	"github.com/icon-project/sodax-frontend-sub008/codec"
	commonerrors "github.com/icon-project/sodax-frontend-sub008/common/errors"
	"github.com/icon-project/sodax-frontend-sub008/common/jsonrpc"
	"github.com/icon-project/sodax-frontend-sub008/common/types"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Wallet signs and broadcasts CosmWasm executions. Key management and the cosmos-sdk signing
// modes stay with the wallet implementation.
type Wallet interface {
	// Address returns the bech32 account address of the wallet.
	Address() string
	// Execute signs and broadcasts msg on chainID and returns the transaction hash.
	Execute(ctx context.Context, chainID string, msg *MsgExecuteContract) (string, error)
}

// LCD reads REST endpoints of a cosmos-sdk node.
type LCD interface {
	GetJSON(ctx context.Context, path string, result interface{}) error
}

// cosmos represents the CosmWasm (Injective) spoke implementation.
type cosmos struct {
	config   *types.ChainConfig
	logger   *logrus.Logger
	resolver types.HubWalletResolver
	lcd      LCD

	assetManager string
	connection   string

	walletMutex sync.RWMutex
	wallet      Wallet
}

// NewCosmosSpoke creates a new CosmWasm spoke. NetworkID holds the cosmos chain-id and the lcd
// endpoint falls back to RPCURL.
//
// Parameters:
// - ctx: unused, kept for the constructor signature.
// - config: the spoke chain configuration.
// - deps: the logger, hub wallet resolver and an optional Wallet.
//
// Returns:
// - types.Spoke: a new Cosmos spoke instance.
// - error: an error if the configuration is invalid.
func NewCosmosSpoke(_ context.Context, config *types.ChainConfig, deps chainmanager.Dependencies) (types.Spoke, error) {
	chain, err := newCosmos(config, deps, jsonrpc.NewClient(config.Endpoint(types.EndpointLCD)))
	if err != nil {
		return nil, err
	}
	return chain.build(), nil
}

func newCosmos(config *types.ChainConfig, deps chainmanager.Dependencies, lcd LCD) (*cosmos, error) {
	if config.NetworkID == "" {
		return nil, errors.Wrapf(commonerrors.ErrInvalidConfig, "chain %s has no chain-id", config.ID)
	}

	contracts := make(map[string]string, 2)
	for _, name := range []string{types.AssetManager, types.Connection} {
		addr, err := config.Address(name)
		if err != nil {
			return nil, errors.Wrap(commonerrors.ErrInvalidConfig, err.Error())
		}
		if _, err := codec.Encode(types.COSMOS, addr); err != nil {
			return nil, errors.Wrapf(commonerrors.ErrInvalidConfig, "%s: %v", name, err)
		}
		contracts[name] = addr
	}

	chain := &cosmos{
		config:       config,
		logger:       deps.Logger,
		resolver:     deps.Resolver,
		lcd:          lcd,
		assetManager: contracts[types.AssetManager],
		connection:   contracts[types.Connection],
	}
	if chain.logger == nil {
		chain.logger = logrus.StandardLogger()
	}

	if deps.Wallet != nil {
		w, ok := deps.Wallet.(Wallet)
		if !ok {
			return nil, errors.Wrapf(commonerrors.ErrWrongWalletType, "%T is not a cosmos wallet", deps.Wallet)
		}
		chain.wallet = w
	}
	return chain, nil
}

func (c *cosmos) build() types.Spoke {
	return chainmanager.NewSpokeBuilder(c.config).
		WithDepositor(c).
		WithMessenger(c).
		WithDepositReader(c).
		Build()
}

func (c *cosmos) signingWallet(from string) (Wallet, error) {
	c.walletMutex.RLock()
	w := c.wallet
	c.walletMutex.RUnlock()

	if w == nil {
		return nil, commonerrors.ErrWalletNotConfigured
	}
	if w.Address() != from {
		return nil, errors.Wrapf(commonerrors.ErrInvalidAddress, "wallet %s cannot sign for %s", w.Address(), from)
	}
	return w, nil
}

func checkAddress(address string) error {
	_, err := codec.Encode(types.COSMOS, address)
	return err
}
