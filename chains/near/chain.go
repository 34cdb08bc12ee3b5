package near

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

// Caller performs NEAR JSON-RPC calls.
type Caller interface {
	Call(ctx context.Context, method string, params interface{}, result interface{}) error
}

// near represents the NEAR spoke implementation.
type near struct {
	config   *types.ChainConfig
	logger   *logrus.Logger
	resolver types.HubWalletResolver
	client   Caller

	assetManager string
	connection   string

	walletMutex sync.RWMutex
	wallet      Wallet
}

// NewNearSpoke creates a new NEAR spoke.
//
// Parameters:
// - ctx: unused, kept for the constructor signature.
// - config: the spoke chain configuration; contracts are account ids.
// - deps: the logger, hub wallet resolver and an optional Wallet.
//
// Returns:
// - types.Spoke: a new NEAR spoke instance.
// - error: an error if the configuration is invalid.
func NewNearSpoke(_ context.Context, config *types.ChainConfig, deps chainmanager.Dependencies) (types.Spoke, error) {
	chain, err := newNear(config, deps, jsonrpc.NewClient(config.RPCURL))
	if err != nil {
		return nil, err
	}
	return chain.build(), nil
}

func newNear(config *types.ChainConfig, deps chainmanager.Dependencies, client Caller) (*near, error) {
	contracts := make(map[string]string, 2)
	for _, name := range []string{types.AssetManager, types.Connection} {
		addr, err := config.Address(name)
		if err != nil {
			return nil, errors.Wrap(commonerrors.ErrInvalidConfig, err.Error())
		}
		if !codec.ValidNearAccount(addr) {
			return nil, errors.Wrapf(commonerrors.ErrInvalidConfig, "%s %q is not a near account", name, addr)
		}
		contracts[name] = addr
	}

	chain := &near{
		config:       config,
		logger:       deps.Logger,
		resolver:     deps.Resolver,
		client:       client,
		assetManager: contracts[types.AssetManager],
		connection:   contracts[types.Connection],
	}
	if chain.logger == nil {
		chain.logger = logrus.StandardLogger()
	}

	if deps.Wallet != nil {
		w, ok := deps.Wallet.(Wallet)
		if !ok {
			return nil, errors.Wrapf(commonerrors.ErrWrongWalletType, "%T is not a near wallet", deps.Wallet)
		}
		chain.wallet = w
	}
	return chain, nil
}

func (n *near) build() types.Spoke {
	return chainmanager.NewSpokeBuilder(n.config).
		WithDepositor(n).
		WithMessenger(n).
		WithDepositReader(n).
		Build()
}

// currentWallet returns the configured wallet or ErrWalletNotConfigured.
func (n *near) currentWallet() (Wallet, error) {
	n.walletMutex.RLock()
	w := n.wallet
	n.walletMutex.RUnlock()

	if w == nil {
		return nil, commonerrors.ErrWalletNotConfigured
	}
	return w, nil
}

func (n *near) signingWallet(from string) (Wallet, error) {
	w, err := n.currentWallet()
	if err != nil {
		return nil, err
	}
	if w.Address() != from {
		return nil, errors.Wrapf(commonerrors.ErrInvalidAddress, "wallet %s cannot sign for %s", w.Address(), from)
	}
	return w, nil
}

func checkAccount(id string) error {
	if !codec.ValidNearAccount(id) {
		return errors.Wrapf(commonerrors.ErrInvalidAddress, "near account %q", id)
	}
	return nil
}
