package icon

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/icon-project/sodax-frontend-sub008/chainmanager"
	commonerrors "github.com/icon-project/sodax-frontend-sub008/common/errors"
	"github.com/icon-project/sodax-frontend-sub008/common/jsonrpc"
	"github.com/icon-project/sodax-frontend-sub008/common/types"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// EndpointDebug names the optional debug endpoint used for step estimation.
const EndpointDebug = "debug"

// Caller performs ICON JSON-RPC v3 calls.
type Caller interface {
	Call(ctx context.Context, method string, params interface{}, result interface{}) error
}

// icon represents the ICON spoke implementation.
type icon struct {
	config   *types.ChainConfig
	logger   *logrus.Logger
	resolver types.HubWalletResolver
	nid      uint64

	assetManager string
	connection   string

	client Caller
	debug  Caller // nil when no debug endpoint is configured.
	now    func() time.Time

	walletMutex sync.RWMutex
	wallet      Wallet
}

// NewIconSpoke creates a new ICON spoke.
//
// Parameters:
// - ctx: unused, kept for the constructor signature.
// - config: the spoke chain configuration. NetworkID holds the nid, e.g. "0x1".
// - deps: the logger, hub wallet resolver and an optional Wallet.
//
// Returns:
// - types.Spoke: a new ICON spoke instance.
// - error: an error if the configuration is invalid.
func NewIconSpoke(_ context.Context, config *types.ChainConfig, deps chainmanager.Dependencies) (types.Spoke, error) {
	var debug Caller
	if url, ok := config.Endpoints[EndpointDebug]; ok && url != "" {
		debug = jsonrpc.NewClient(url)
	}

	chain, err := newIcon(config, deps, jsonrpc.NewClient(config.RPCURL), debug)
	if err != nil {
		return nil, err
	}
	return chain.build(), nil
}

func newIcon(config *types.ChainConfig, deps chainmanager.Dependencies, client, debug Caller) (*icon, error) {
	nid, err := strconv.ParseUint(config.NetworkID, 0, 64)
	if err != nil {
		return nil, errors.Wrapf(commonerrors.ErrInvalidConfig, "chain %s has invalid nid %q", config.ID, config.NetworkID)
	}

	contracts := make(map[string]string, 2)
	for _, name := range []string{types.AssetManager, types.Connection} {
		addr, err := config.Address(name)
		if err != nil {
			return nil, errors.Wrap(commonerrors.ErrInvalidConfig, err.Error())
		}
		if err := checkAddress(addr); err != nil {
			return nil, errors.Wrapf(commonerrors.ErrInvalidConfig, "%s on chain %s: %v", name, config.ID, err)
		}
		contracts[name] = addr
	}

	chain := &icon{
		config:       config,
		logger:       deps.Logger,
		resolver:     deps.Resolver,
		nid:          nid,
		assetManager: contracts[types.AssetManager],
		connection:   contracts[types.Connection],
		client:       client,
		debug:        debug,
		now:          time.Now,
	}
	if chain.logger == nil {
		chain.logger = logrus.StandardLogger()
	}

	if deps.Wallet != nil {
		w, ok := deps.Wallet.(Wallet)
		if !ok {
			return nil, errors.Wrapf(commonerrors.ErrWrongWalletType, "%T is not an icon wallet", deps.Wallet)
		}
		chain.wallet = w
	}
	return chain, nil
}

func (i *icon) build() types.Spoke {
	return chainmanager.NewSpokeBuilder(i.config).
		WithDepositor(i).
		WithMessenger(i).
		WithDepositReader(i).
		Build()
}

// signingWallet returns the wallet when it signs for from.
func (i *icon) signingWallet(from string) (Wallet, error) {
	i.walletMutex.RLock()
	w := i.wallet
	i.walletMutex.RUnlock()

	if w == nil {
		return nil, commonerrors.ErrWalletNotConfigured
	}
	if w.Address() != from {
		return nil, errors.Wrapf(commonerrors.ErrInvalidAddress, "wallet %s cannot sign for %s", w.Address(), from)
	}
	return w, nil
}
