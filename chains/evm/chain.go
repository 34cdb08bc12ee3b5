package evm

import (
	"context"
	"math/big"
	"strconv"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/icon-project/sodax-frontend-sub008/chainmanager"
	"github.com/icon-project/sodax-frontend-sub008/chains/evm/signer"
	commonerrors "github.com/icon-project/sodax-frontend-sub008/common/errors"
	"github.com/icon-project/sodax-frontend-sub008/common/types"
	"github.com/icon-project/sodax-frontend-sub008/connectionmonitor"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	// TxTypeLegacy represents the legacy transaction type.
	TxTypeLegacy = 0
	// TxTypeEIP1559 represents the EIP-1559 transaction type.
	TxTypeEIP1559 = 2
	// ZeroAddress represents the zero address.
	ZeroAddress = "0x0000000000000000000000000000000000000000"
)

// Client is the subset of *ethclient.Client used by the spoke.
type Client interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*ethtypes.Header, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SendTransaction(ctx context.Context, tx *ethtypes.Transaction) error
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*ethtypes.Receipt, error)
	SubscribeNewHead(ctx context.Context, ch chan<- *ethtypes.Header) (ethereum.Subscription, error)
	BlockNumber(ctx context.Context) (uint64, error)
	Close()
}

// evm represents the EVM spoke implementation.
type evm struct {
	config   *types.ChainConfig      // Spoke chain configuration.
	logger   *logrus.Logger          // Logger for logging events.
	resolver types.HubWalletResolver // Hub wallet resolver for deposits without a recipient.
	chainID  *big.Int                // EVM chain id used for signing.

	receiptPollInterval time.Duration // HTTP receipt polling period.

	// Protected fields with their own mutexes.
	clientMutex sync.RWMutex // Mutex for client.
	client      Client       // Ethereum client.

	signerMutex sync.RWMutex  // Mutex for signer.
	signer      signer.Signer // Signer for signing transactions, nil in raw mode.

	monitorMutex sync.RWMutex                        // Mutex for connection monitor.
	monitor      connectionmonitor.ConnectionMonitor // Connection monitor.
}

// NewEvmSpoke creates a new EVM spoke.
//
// Parameters:
// - ctx: the context for managing the connection monitor.
// - config: the spoke chain configuration. NetworkID holds the EVM chain id.
// - deps: the logger, hub wallet resolver and an optional signer.Signer wallet.
//
// Returns:
// - types.Spoke: a new EVM spoke instance.
// - error: an error if any issue occurs during creation.
func NewEvmSpoke(ctx context.Context, config *types.ChainConfig, deps chainmanager.Dependencies) (types.Spoke, error) {
	chain, err := dial(ctx, config, deps)
	if err != nil {
		return nil, err
	}
	return chain.build(), nil
}

// dial connects to the chain RPC and starts its connection monitor.
func dial(ctx context.Context, config *types.ChainConfig, deps chainmanager.Dependencies) (*evm, error) {
	client, err := ethclient.DialContext(ctx, config.RPCURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create client")
	}

	chain, err := newEvm(config, deps, client)
	if err != nil {
		client.Close()
		return nil, err
	}

	if err := chain.initMonitor(ctx); err != nil {
		client.Close()
		return nil, errors.Wrap(err, "failed to init connection monitor")
	}
	return chain, nil
}

// newEvm wires a spoke around an existing client.
func newEvm(config *types.ChainConfig, deps chainmanager.Dependencies, client Client) (*evm, error) {
	chainID, err := strconv.ParseUint(config.NetworkID, 0, 64)
	if err != nil {
		return nil, errors.Wrapf(commonerrors.ErrInvalidConfig, "chain %s has invalid evm chain id %q", config.ID, config.NetworkID)
	}

	chain := &evm{
		config:   config,
		logger:   deps.Logger,
		resolver: deps.Resolver,
		chainID:  new(big.Int).SetUint64(chainID),
		client:   client,
	}
	if chain.logger == nil {
		chain.logger = logrus.StandardLogger()
	}

	if deps.Wallet != nil {
		s, ok := deps.Wallet.(signer.Signer)
		if !ok {
			return nil, errors.Wrapf(commonerrors.ErrWrongWalletType, "%T is not an evm signer", deps.Wallet)
		}
		chain.signer = s
	}

	return chain, nil
}

func (e *evm) build() types.Spoke {
	return chainmanager.NewSpokeBuilder(e.config).
		WithDepositor(e).
		WithMessenger(e).
		WithDepositReader(e).
		WithApprover(e).
		WithCloser(e.Close).
		Build()
}

// Close should be called when the spoke is no longer needed.
// It stops the connection monitor and closes the client.
func (e *evm) Close() {
	e.monitorMutex.Lock()
	if e.monitor != nil {
		e.monitor.Stop()
	}
	e.monitorMutex.Unlock()

	e.clientMutex.Lock()
	if e.client != nil {
		e.client.Close()
		e.client = nil
	}
	e.clientMutex.Unlock()
}

// getClient returns the current client or an error when it has been closed.
func (e *evm) getClient() (Client, error) {
	e.clientMutex.RLock()
	client := e.client
	e.clientMutex.RUnlock()

	if client == nil {
		return nil, errors.New("client not initialized")
	}
	return client, nil
}

// getSigner returns the wallet signer or ErrWalletNotConfigured in raw mode.
func (e *evm) getSigner() (signer.Signer, error) {
	e.signerMutex.RLock()
	s := e.signer
	e.signerMutex.RUnlock()

	if s == nil {
		return nil, commonerrors.ErrWalletNotConfigured
	}
	return s, nil
}

// hexAddress parses a user-supplied EVM address.
func hexAddress(address string) (common.Address, error) {
	if !common.IsHexAddress(address) {
		return common.Address{}, errors.Wrapf(commonerrors.ErrInvalidAddress, "evm address %q", address)
	}
	return common.HexToAddress(address), nil
}

// contractAddress returns a named contract address from the chain configuration.
func (e *evm) contractAddress(name string) (common.Address, error) {
	addr, err := e.config.Address(name)
	if err != nil {
		return common.Address{}, err
	}
	return hexAddress(addr)
}
