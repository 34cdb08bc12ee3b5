package solana

import (
	"context"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/icon-project/sodax-frontend-sub008/connectionmonitor"
	"github.com/pkg/errors"
)

// solanaConnectionManager implements connectionmonitor.BlockchainClient interface
type solanaConnectionManager struct {
	chain *solana
}

// CheckConnection asks the node for its health status.
func (m *solanaConnectionManager) CheckConnection(ctx context.Context) error {
	client, err := m.chain.getClient()
	if err != nil {
		return err
	}

	health, err := client.GetHealth(ctx)
	if err != nil {
		return errors.Wrap(err, "health check failed")
	}
	if health != rpc.HealthOk {
		return errors.Errorf("node is unhealthy: %s", health)
	}
	return nil
}

// Reconnect replaces the rpc client with a fresh one.
func (m *solanaConnectionManager) Reconnect(ctx context.Context) error {
	client := rpc.New(m.chain.config.RPCURL)

	m.chain.clientMutex.Lock()
	old := m.chain.client
	m.chain.client = client
	m.chain.clientMutex.Unlock()

	if old != nil {
		if err := old.Close(); err != nil {
			m.chain.logger.WithError(err).Debug("Failed to close previous solana client")
		}
	}
	return nil
}

func (s *solana) initMonitor(ctx context.Context) error {
	s.monitorMutex.Lock()
	defer s.monitorMutex.Unlock()

	connectionManager := &solanaConnectionManager{chain: s}
	s.monitor = connectionmonitor.NewConnectionMonitor(connectionManager, s.logger, s.config.ID, connectionmonitor.Config{})
	return s.monitor.Start(ctx)
}
