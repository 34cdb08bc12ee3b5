// Package hub provides read access to the hub chain: the wallet factory, hub asset
// balances and the raw client used by the hub-as-spoke builder.
package hub

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/ethclient"
	commonerrors "github.com/icon-project/sodax-frontend-sub008/common/errors"
	"github.com/icon-project/sodax-frontend-sub008/common/types"
	"github.com/icon-project/sodax-frontend-sub008/connectionmonitor"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Reader is the read-only subset of the hub RPC used by wallet resolution and balance reads.
type Reader interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// Provider is a monitored hub chain client.
type Provider struct {
	config *types.HubConfig
	logger *logrus.Logger

	clientMutex sync.RWMutex
	client      *ethclient.Client

	monitorMutex sync.Mutex
	monitor      connectionmonitor.ConnectionMonitor
}

// NewProvider dials the hub RPC and starts a connection monitor for it.
//
// Parameters:
// - ctx: the context bounding the monitor's lifetime.
// - config: the hub configuration.
// - logger: the logger for logging events.
//
// Returns:
// - *Provider: the hub provider.
// - error: an error if dialing or starting the monitor fails.
func NewProvider(ctx context.Context, config *types.HubConfig, logger *logrus.Logger) (*Provider, error) {
	if config == nil || config.RPCURL == "" {
		return nil, errors.Wrap(commonerrors.ErrInvalidConfig, "hub rpc url is empty")
	}

	client, err := ethclient.DialContext(ctx, config.RPCURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to dial hub rpc")
	}

	p := &Provider{config: config, logger: logger, client: client}

	logger.WithFields(logrus.Fields{
		"hub":       config.ChainID,
		"transport": types.GetTransportMode(config.RPCURL).String(),
	}).Info("Connected to hub chain")

	if err := p.initMonitor(ctx); err != nil {
		client.Close()
		return nil, errors.Wrap(err, "failed to init connection monitor")
	}
	return p, nil
}

// Config returns the hub configuration.
func (p *Provider) Config() *types.HubConfig {
	return p.config
}

// Client returns the current hub client. The client may be replaced by the monitor; callers
// should not hold on to it across operations.
func (p *Provider) Client() *ethclient.Client {
	p.clientMutex.RLock()
	defer p.clientMutex.RUnlock()
	return p.client
}

// CallContract executes a read-only call against the hub.
func (p *Provider) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	client := p.Client()
	if client == nil {
		return nil, errors.New("hub client not initialized")
	}
	return client.CallContract(ctx, msg, blockNumber)
}

// Close stops the monitor and closes the client.
func (p *Provider) Close() {
	p.monitorMutex.Lock()
	if p.monitor != nil {
		p.monitor.Stop()
	}
	p.monitorMutex.Unlock()

	p.clientMutex.Lock()
	if p.client != nil {
		p.client.Close()
		p.client = nil
	}
	p.clientMutex.Unlock()
}
