package stellar

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/icon-project/sodax-frontend-sub008/chainmanager"
	"github.com/icon-project/sodax-frontend-sub008/codec"
	commonerrors "github.com/icon-project/sodax-frontend-sub008/common/errors"
	"github.com/icon-project/sodax-frontend-sub008/common/jsonrpc"
	"github.com/icon-project/sodax-frontend-sub008/common/types"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stellar/go/clients/horizonclient"
	"github.com/stellar/go/protocols/horizon"
	"github.com/stellar/go/strkey"
	"github.com/stellar/go/xdr"
)

// AccountLoader loads account sequence numbers; *horizonclient.Client implements it.
type AccountLoader interface {
	AccountDetail(request horizonclient.AccountRequest) (horizon.Account, error)
}

// Caller performs Soroban JSON-RPC calls.
type Caller interface {
	Call(ctx context.Context, method string, params interface{}, result interface{}) error
}

// stellar represents the Stellar (Soroban) spoke implementation.
type stellar struct {
	config     *types.ChainConfig
	logger     *logrus.Logger
	resolver   types.HubWalletResolver
	passphrase string

	soroban  Caller
	accounts AccountLoader

	assetManagerID string
	assetManager   xdr.ScAddress
	connection     xdr.ScAddress

	walletMutex sync.RWMutex
	wallet      Wallet
}

// NewStellarSpoke creates a new Stellar spoke. NetworkID holds the network passphrase; the horizon
// and soroban endpoints fall back to RPCURL.
//
// Parameters:
// - ctx: unused, kept for the constructor signature.
// - config: the spoke chain configuration.
// - deps: the logger, hub wallet resolver and an optional Wallet.
//
// Returns:
// - types.Spoke: a new Stellar spoke instance.
// - error: an error if the configuration is invalid.
func NewStellarSpoke(_ context.Context, config *types.ChainConfig, deps chainmanager.Dependencies) (types.Spoke, error) {
	horizonClient := &horizonclient.Client{
		HorizonURL: config.Endpoint(types.EndpointHorizon),
		HTTP:       &http.Client{Timeout: 30 * time.Second},
	}
	chain, err := newStellar(config, deps, jsonrpc.NewClient(config.Endpoint(types.EndpointSoroban)), horizonClient)
	if err != nil {
		return nil, err
	}
	return chain.build(), nil
}

func newStellar(config *types.ChainConfig, deps chainmanager.Dependencies, soroban Caller, accounts AccountLoader) (*stellar, error) {
	if config.NetworkID == "" {
		return nil, errors.Wrapf(commonerrors.ErrInvalidConfig, "chain %s has no network passphrase", config.ID)
	}

	assetManagerID, err := config.Address(types.AssetManager)
	if err != nil {
		return nil, errors.Wrap(commonerrors.ErrInvalidConfig, err.Error())
	}
	assetManager, err := contractAddress(assetManagerID)
	if err != nil {
		return nil, errors.Wrapf(commonerrors.ErrInvalidConfig, "asset manager: %v", err)
	}
	connectionID, err := config.Address(types.Connection)
	if err != nil {
		return nil, errors.Wrap(commonerrors.ErrInvalidConfig, err.Error())
	}
	connection, err := contractAddress(connectionID)
	if err != nil {
		return nil, errors.Wrapf(commonerrors.ErrInvalidConfig, "connection: %v", err)
	}

	chain := &stellar{
		config:         config,
		logger:         deps.Logger,
		resolver:       deps.Resolver,
		passphrase:     config.NetworkID,
		soroban:        soroban,
		accounts:       accounts,
		assetManagerID: assetManagerID,
		assetManager:   assetManager,
		connection:     connection,
	}
	if chain.logger == nil {
		chain.logger = logrus.StandardLogger()
	}

	if deps.Wallet != nil {
		w, ok := deps.Wallet.(Wallet)
		if !ok {
			return nil, errors.Wrapf(commonerrors.ErrWrongWalletType, "%T is not a stellar wallet", deps.Wallet)
		}
		chain.wallet = w
	}
	return chain, nil
}

func (s *stellar) build() types.Spoke {
	return chainmanager.NewSpokeBuilder(s.config).
		WithDepositor(s).
		WithMessenger(s).
		WithDepositReader(s).
		Build()
}

func (s *stellar) signingWallet(from string) (Wallet, error) {
	s.walletMutex.RLock()
	w := s.wallet
	s.walletMutex.RUnlock()

	if w == nil {
		return nil, commonerrors.ErrWalletNotConfigured
	}
	if w.Address() != from {
		return nil, errors.Wrapf(commonerrors.ErrInvalidAddress, "wallet %s cannot sign for %s", w.Address(), from)
	}
	return w, nil
}

// contractAddress parses a C... contract strkey.
func contractAddress(id string) (xdr.ScAddress, error) {
	addr, err := codec.StellarScAddress(id)
	if err != nil {
		return xdr.ScAddress{}, err
	}
	if addr.Type != xdr.ScAddressTypeScAddressTypeContract {
		return xdr.ScAddress{}, errors.Wrapf(commonerrors.ErrInvalidAddress, "%s is not a contract", id)
	}
	return addr, nil
}

// accountAddress parses a G... account strkey.
func accountAddress(id string) (xdr.ScAddress, error) {
	if !strkey.IsValidEd25519PublicKey(id) {
		return xdr.ScAddress{}, errors.Wrapf(commonerrors.ErrInvalidAddress, "stellar account %q", id)
	}
	return codec.StellarScAddress(id)
}
