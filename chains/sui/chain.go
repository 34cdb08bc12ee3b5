package sui

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

// SuiCoinType is the coin type of the native token.
const SuiCoinType = "0x2::sui::SUI"

// Move modules called by the spoke.
const (
	assetManagerModule = "asset_manager"
	connectionModule   = "connection"
)

// Caller performs Sui JSON-RPC calls.
type Caller interface {
	Call(ctx context.Context, method string, params interface{}, result interface{}) error
}

// sui represents the Sui spoke implementation.
type sui struct {
	config   *types.ChainConfig
	logger   *logrus.Logger
	resolver types.HubWalletResolver
	client   Caller

	assetManagerPackage Address
	assetManagerConfig  Address
	connectionPackage   Address
	connectionState     Address

	walletMutex sync.RWMutex
	wallet      Wallet
}

// NewSuiSpoke creates a new Sui spoke. The assetManager and connection addresses are package ids;
// assetManagerConfig and connectionState are the shared objects they operate on.
//
// Parameters:
// - ctx: unused, kept for the constructor signature.
// - config: the spoke chain configuration.
// - deps: the logger, hub wallet resolver and an optional Wallet.
//
// Returns:
// - types.Spoke: a new Sui spoke instance.
// - error: an error if the configuration is invalid.
func NewSuiSpoke(_ context.Context, config *types.ChainConfig, deps chainmanager.Dependencies) (types.Spoke, error) {
	chain, err := newSui(config, deps, jsonrpc.NewClient(config.RPCURL))
	if err != nil {
		return nil, err
	}
	return chain.build(), nil
}

func newSui(config *types.ChainConfig, deps chainmanager.Dependencies, client Caller) (*sui, error) {
	ids := make(map[string]Address, 4)
	for _, name := range []string{types.AssetManager, types.AssetManagerConfig, types.Connection, types.ConnectionState} {
		addr, err := config.Address(name)
		if err != nil {
			return nil, errors.Wrap(commonerrors.ErrInvalidConfig, err.Error())
		}
		id, err := ParseAddress(addr)
		if err != nil {
			return nil, errors.Wrapf(commonerrors.ErrInvalidConfig, "%s on chain %s: %v", name, config.ID, err)
		}
		ids[name] = id
	}

	chain := &sui{
		config:              config,
		logger:              deps.Logger,
		resolver:            deps.Resolver,
		client:              client,
		assetManagerPackage: ids[types.AssetManager],
		assetManagerConfig:  ids[types.AssetManagerConfig],
		connectionPackage:   ids[types.Connection],
		connectionState:     ids[types.ConnectionState],
	}
	if chain.logger == nil {
		chain.logger = logrus.StandardLogger()
	}

	if deps.Wallet != nil {
		w, ok := deps.Wallet.(Wallet)
		if !ok {
			return nil, errors.Wrapf(commonerrors.ErrWrongWalletType, "%T is not a sui wallet", deps.Wallet)
		}
		chain.wallet = w
	}
	return chain, nil
}

func (s *sui) build() types.Spoke {
	return chainmanager.NewSpokeBuilder(s.config).
		WithDepositor(s).
		WithMessenger(s).
		WithDepositReader(s).
		Build()
}

func (s *sui) signingWallet(from string) (Wallet, error) {
	s.walletMutex.RLock()
	w := s.wallet
	s.walletMutex.RUnlock()

	if w == nil {
		return nil, commonerrors.ErrWalletNotConfigured
	}
	if !codec.Equal(types.SUI, w.Address(), from) {
		return nil, errors.Wrapf(commonerrors.ErrInvalidAddress, "wallet %s cannot sign for %s", w.Address(), from)
	}
	return w, nil
}
