package solana

import (
	"context"
	"sync"

	sol "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/icon-project/sodax-frontend-sub008/chainmanager"
	commonerrors "github.com/icon-project/sodax-frontend-sub008/common/errors"
	"github.com/icon-project/sodax-frontend-sub008/common/types"
	"github.com/icon-project/sodax-frontend-sub008/connectionmonitor"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Client is the subset of *rpc.Client used by the spoke.
type Client interface {
	GetLatestBlockhash(ctx context.Context, commitment rpc.CommitmentType) (*rpc.GetLatestBlockhashResult, error)
	SimulateTransaction(ctx context.Context, tx *sol.Transaction) (*rpc.SimulateTransactionResponse, error)
	SendTransactionWithOpts(ctx context.Context, tx *sol.Transaction, opts rpc.TransactionOpts) (sol.Signature, error)
	GetBalance(ctx context.Context, account sol.PublicKey, commitment rpc.CommitmentType) (*rpc.GetBalanceResult, error)
	GetTokenAccountBalance(ctx context.Context, account sol.PublicKey, commitment rpc.CommitmentType) (*rpc.GetTokenAccountBalanceResult, error)
	GetRecentPrioritizationFees(ctx context.Context, accounts sol.PublicKeySlice) ([]rpc.PriorizationFeeResult, error)
	GetHealth(ctx context.Context) (string, error)
	Close() error
}

// Wallet signs Solana transaction messages. sol.PrivateKey satisfies it.
type Wallet interface {
	PublicKey() sol.PublicKey
	Sign(payload []byte) (sol.Signature, error)
}

// solana represents the Solana spoke implementation.
type solana struct {
	config   *types.ChainConfig
	logger   *logrus.Logger
	resolver types.HubWalletResolver

	assetManager sol.PublicKey // Asset manager program.
	connection   sol.PublicKey // Connection program.

	// Protected fields with their own mutexes
	clientMutex sync.RWMutex
	client      Client

	walletMutex sync.RWMutex
	wallet      Wallet

	monitorMutex sync.RWMutex
	monitor      connectionmonitor.ConnectionMonitor
}

// NewSolanaSpoke creates a new Solana spoke.
//
// Parameters:
// - ctx: the context for managing the connection monitor.
// - config: the spoke chain configuration. Addresses hold the asset manager and connection program ids.
// - deps: the logger, hub wallet resolver and an optional Wallet.
//
// Returns:
// - types.Spoke: a new Solana spoke instance.
// - error: an error if any issue occurs during creation.
func NewSolanaSpoke(ctx context.Context, config *types.ChainConfig, deps chainmanager.Dependencies) (types.Spoke, error) {
	client := rpc.New(config.RPCURL)

	chain, err := newSolana(config, deps, client)
	if err != nil {
		_ = client.Close()
		return nil, err
	}

	if err := chain.initMonitor(ctx); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "failed to init connection monitor")
	}

	return chain.build(), nil
}

// newSolana wires a spoke around an existing client.
func newSolana(config *types.ChainConfig, deps chainmanager.Dependencies, client Client) (*solana, error) {
	assetManager, err := programAddress(config, types.AssetManager)
	if err != nil {
		return nil, err
	}
	connection, err := programAddress(config, types.Connection)
	if err != nil {
		return nil, err
	}

	chain := &solana{
		config:       config,
		logger:       deps.Logger,
		resolver:     deps.Resolver,
		assetManager: assetManager,
		connection:   connection,
		client:       client,
	}
	if chain.logger == nil {
		chain.logger = logrus.StandardLogger()
	}

	if deps.Wallet != nil {
		w, ok := deps.Wallet.(Wallet)
		if !ok {
			return nil, errors.Wrapf(commonerrors.ErrWrongWalletType, "%T is not a solana wallet", deps.Wallet)
		}
		chain.wallet = w
	}

	return chain, nil
}

func (s *solana) build() types.Spoke {
	return chainmanager.NewSpokeBuilder(s.config).
		WithDepositor(s).
		WithMessenger(s).
		WithDepositReader(s).
		WithCloser(s.Close).
		Build()
}

// Close should be called when the spoke is no longer needed.
func (s *solana) Close() {
	s.monitorMutex.Lock()
	if s.monitor != nil {
		s.monitor.Stop()
	}
	s.monitorMutex.Unlock()

	s.clientMutex.Lock()
	if s.client != nil {
		if err := s.client.Close(); err != nil {
			s.logger.WithError(err).Warn("Failed to close solana client")
		}
		s.client = nil
	}
	s.clientMutex.Unlock()
}

func (s *solana) getClient() (Client, error) {
	s.clientMutex.RLock()
	client := s.client
	s.clientMutex.RUnlock()

	if client == nil {
		return nil, errors.New("client not initialized")
	}
	return client, nil
}

// getWallet returns the wallet or ErrWalletNotConfigured in raw mode.
func (s *solana) getWallet() (Wallet, error) {
	s.walletMutex.RLock()
	w := s.wallet
	s.walletMutex.RUnlock()

	if w == nil {
		return nil, commonerrors.ErrWalletNotConfigured
	}
	return w, nil
}

// signingKey checks that the wallet signs for from.
func (s *solana) signingKey(from string) (Wallet, error) {
	w, err := s.getWallet()
	if err != nil {
		return nil, err
	}
	payer, err := publicKey(from)
	if err != nil {
		return nil, err
	}
	if !w.PublicKey().Equals(payer) {
		return nil, errors.Wrapf(commonerrors.ErrInvalidAddress, "wallet %s cannot sign for %s", w.PublicKey(), from)
	}
	return w, nil
}

// publicKey parses a user-supplied base58 address.
func publicKey(address string) (sol.PublicKey, error) {
	key, err := sol.PublicKeyFromBase58(address)
	if err != nil {
		return sol.PublicKey{}, errors.Wrapf(commonerrors.ErrInvalidAddress, "solana address %q", address)
	}
	return key, nil
}

func programAddress(config *types.ChainConfig, name string) (sol.PublicKey, error) {
	addr, err := config.Address(name)
	if err != nil {
		return sol.PublicKey{}, errors.Wrap(commonerrors.ErrInvalidConfig, err.Error())
	}
	key, err := sol.PublicKeyFromBase58(addr)
	if err != nil {
		return sol.PublicKey{}, errors.Wrapf(commonerrors.ErrInvalidConfig, "%s program %q on chain %s", name, addr, config.ID)
	}
	return key, nil
}
