package hub

import (
	"context"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/icon-project/sodax-frontend-sub008/connectionmonitor"
	"github.com/pkg/errors"
)

// hubConnectionManager implements connectionmonitor.RPCClient for the hub client.
type hubConnectionManager struct {
	provider *Provider
}

func (p *Provider) initMonitor(ctx context.Context) error {
	p.monitorMutex.Lock()
	defer p.monitorMutex.Unlock()

	p.monitor = connectionmonitor.NewConnectionMonitor(&hubConnectionManager{provider: p}, p.logger, p.config.ChainID, connectionmonitor.Config{})
	return p.monitor.Start(ctx)
}

// CheckConnection checks the hub connection by reading the current block number.
func (m *hubConnectionManager) CheckConnection(ctx context.Context) error {
	client := m.provider.Client()
	if client == nil {
		return errors.New("hub client not initialized")
	}

	_, err := client.BlockNumber(ctx)
	return err
}

// Reconnect dials a fresh client and swaps it in.
func (m *hubConnectionManager) Reconnect(ctx context.Context) error {
	client, err := ethclient.DialContext(ctx, m.provider.config.RPCURL)
	if err != nil {
		return err
	}

	m.provider.clientMutex.Lock()
	old := m.provider.client
	m.provider.client = client
	m.provider.clientMutex.Unlock()

	if old != nil {
		old.Close()
	}
	return nil
}
