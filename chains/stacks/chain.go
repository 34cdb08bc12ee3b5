package stacks

import (
	"context"
	"strings"
	"sync"

	"github.com/icon-project/sodax-frontend-sub008/chainmanager"
	"github.com/icon-project/sodax-frontend-sub008/codec"
	commonerrors "github.com/icon-project/sodax-frontend-sub008/common/errors"
	"github.com/icon-project/sodax-frontend-sub008/common/jsonrpc"
	"github.com/icon-project/sodax-frontend-sub008/common/types"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Wallet signs and broadcasts Stacks contract calls; nonce, fee and post-conditions are its concern.
type Wallet interface {
	// Address returns the standard principal of the wallet.
	Address() string
	// CallContract signs and broadcasts call and returns the transaction id.
	CallContract(ctx context.Context, call *ContractCall) (string, error)
}

// API is the subset of the Stacks node REST API used by the spoke.
type API interface {
	GetJSON(ctx context.Context, path string, result interface{}) error
	PostJSON(ctx context.Context, path string, payload interface{}, result interface{}) error
}

// contractID is a deployed contract principal split into its parts.
type contractID struct {
	address string
	name    string
}

func (c contractID) String() string {
	return c.address + "." + c.name
}

func parseContractID(id string) (contractID, error) {
	p, err := codec.DecodeStacksPrincipal(id)
	if err != nil {
		return contractID{}, err
	}
	if !p.IsContract() {
		return contractID{}, errors.Wrapf(commonerrors.ErrInvalidAddress, "%s is not a contract principal", id)
	}
	address, name, _ := strings.Cut(id, ".")
	return contractID{address: address, name: name}, nil
}

// stacks represents the Stacks spoke implementation.
type stacks struct {
	config   *types.ChainConfig
	logger   *logrus.Logger
	resolver types.HubWalletResolver
	api      API

	assetManager contractID
	connection   contractID

	walletMutex sync.RWMutex
	wallet      Wallet
}

// NewStacksSpoke creates a new Stacks spoke.
//
// Parameters:
// - ctx: unused, kept for the constructor signature.
// - config: the spoke chain configuration; the api endpoint falls back to RPCURL.
// - deps: the logger, hub wallet resolver and an optional Wallet.
//
// Returns:
// - types.Spoke: a new Stacks spoke instance.
// - error: an error if the configuration is invalid.
func NewStacksSpoke(_ context.Context, config *types.ChainConfig, deps chainmanager.Dependencies) (types.Spoke, error) {
	chain, err := newStacks(config, deps, jsonrpc.NewClient(config.Endpoint(types.EndpointAPI)))
	if err != nil {
		return nil, err
	}
	return chain.build(), nil
}

func newStacks(config *types.ChainConfig, deps chainmanager.Dependencies, api API) (*stacks, error) {
	contracts := make(map[string]contractID, 2)
	for _, name := range []string{types.AssetManager, types.Connection} {
		addr, err := config.Address(name)
		if err != nil {
			return nil, errors.Wrap(commonerrors.ErrInvalidConfig, err.Error())
		}
		id, err := parseContractID(addr)
		if err != nil {
			return nil, errors.Wrapf(commonerrors.ErrInvalidConfig, "%s: %v", name, err)
		}
		contracts[name] = id
	}

	chain := &stacks{
		config:       config,
		logger:       deps.Logger,
		resolver:     deps.Resolver,
		api:          api,
		assetManager: contracts[types.AssetManager],
		connection:   contracts[types.Connection],
	}
	if chain.logger == nil {
		chain.logger = logrus.StandardLogger()
	}

	if deps.Wallet != nil {
		w, ok := deps.Wallet.(Wallet)
		if !ok {
			return nil, errors.Wrapf(commonerrors.ErrWrongWalletType, "%T is not a stacks wallet", deps.Wallet)
		}
		chain.wallet = w
	}
	return chain, nil
}

func (s *stacks) build() types.Spoke {
	return chainmanager.NewSpokeBuilder(s.config).
		WithDepositor(s).
		WithMessenger(s).
		WithDepositReader(s).
		Build()
}

func (s *stacks) signingWallet(from string) (Wallet, error) {
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
