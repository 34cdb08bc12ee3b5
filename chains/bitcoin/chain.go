package bitcoin

import (
	"context"
	"sync"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/icon-project/sodax-frontend-sub008/chainmanager"
	"github.com/icon-project/sodax-frontend-sub008/codec"
	commonerrors "github.com/icon-project/sodax-frontend-sub008/common/errors"
	"github.com/icon-project/sodax-frontend-sub008/common/jsonrpc"
	"github.com/icon-project/sodax-frontend-sub008/common/types"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// API is the subset of the esplora REST API used by the spoke.
type API interface {
	GetJSON(ctx context.Context, path string, result interface{}) error
	Post(ctx context.Context, path, contentType string, body []byte) ([]byte, error)
}

// bitcoin represents the Bitcoin spoke implementation.
type bitcoin struct {
	config   *types.ChainConfig
	logger   *logrus.Logger
	resolver types.HubWalletResolver
	api      API
	params   *chaincfg.Params

	assetManager btcutil.Address
	connection   btcutil.Address

	walletMutex sync.RWMutex
	wallet      Wallet
}

// NewBitcoinSpoke creates a new Bitcoin spoke.
//
// Parameters:
// - ctx: unused, kept for the constructor signature.
// - config: the spoke chain configuration; the esplora endpoint falls back to RPCURL.
// - deps: the logger, hub wallet resolver and an optional Wallet.
//
// Returns:
// - types.Spoke: a new Bitcoin spoke instance.
// - error: an error if the configuration is invalid.
func NewBitcoinSpoke(_ context.Context, config *types.ChainConfig, deps chainmanager.Dependencies) (types.Spoke, error) {
	chain, err := newBitcoin(config, deps, jsonrpc.NewClient(config.Endpoint(types.EndpointEsplora)))
	if err != nil {
		return nil, err
	}
	return chain.build(), nil
}

func newBitcoin(config *types.ChainConfig, deps chainmanager.Dependencies, api API) (*bitcoin, error) {
	am, err := config.Address(types.AssetManager)
	if err != nil {
		return nil, errors.Wrap(commonerrors.ErrInvalidConfig, err.Error())
	}
	params, err := codec.BitcoinNetwork(am)
	if err != nil {
		return nil, errors.Wrap(commonerrors.ErrInvalidConfig, err.Error())
	}

	chain := &bitcoin{
		config:   config,
		logger:   deps.Logger,
		resolver: deps.Resolver,
		api:      api,
		params:   params,
	}
	if chain.assetManager, err = chain.decodeAddress(am); err != nil {
		return nil, errors.Wrap(commonerrors.ErrInvalidConfig, err.Error())
	}

	conn, err := config.Address(types.Connection)
	if err != nil {
		return nil, errors.Wrap(commonerrors.ErrInvalidConfig, err.Error())
	}
	if chain.connection, err = chain.decodeAddress(conn); err != nil {
		return nil, errors.Wrap(commonerrors.ErrInvalidConfig, err.Error())
	}

	if chain.logger == nil {
		chain.logger = logrus.StandardLogger()
	}

	if deps.Wallet != nil {
		w, ok := deps.Wallet.(Wallet)
		if !ok {
			return nil, errors.Wrapf(commonerrors.ErrWrongWalletType, "%T is not a bitcoin wallet", deps.Wallet)
		}
		chain.wallet = w
	}
	return chain, nil
}

func (b *bitcoin) build() types.Spoke {
	return chainmanager.NewSpokeBuilder(b.config).
		WithDepositor(b).
		WithMessenger(b).
		WithDepositReader(b).
		Build()
}

func (b *bitcoin) signingWallet(from string) (Wallet, error) {
	b.walletMutex.RLock()
	w := b.wallet
	b.walletMutex.RUnlock()

	if w == nil {
		return nil, commonerrors.ErrWalletNotConfigured
	}
	if w.Address() != from {
		return nil, errors.Wrapf(commonerrors.ErrInvalidAddress, "wallet %s cannot sign for %s", w.Address(), from)
	}
	return w, nil
}

// decodeAddress parses address on the spoke's network.
func (b *bitcoin) decodeAddress(address string) (btcutil.Address, error) {
	decoded, err := btcutil.DecodeAddress(address, b.params)
	if err != nil || !decoded.IsForNet(b.params) {
		return nil, errors.Wrapf(commonerrors.ErrInvalidAddress, "%q is not a %s address", address, b.params.Name)
	}
	return decoded, nil
}

// decodeSender parses a spending address. Only segwit outputs can be funded from a witness utxo.
func (b *bitcoin) decodeSender(address string) (btcutil.Address, []byte, error) {
	sender, err := b.decodeAddress(address)
	if err != nil {
		return nil, nil, err
	}
	script, err := txscript.PayToAddrScript(sender)
	if err != nil {
		return nil, nil, errors.Wrapf(commonerrors.ErrInvalidAddress, "%s: %v", address, err)
	}
	if !txscript.IsWitnessProgram(script) {
		return nil, nil, errors.Wrapf(commonerrors.ErrInvalidAddress, "%s is not a segwit address", address)
	}
	return sender, script, nil
}
