package evm

import (
	"context"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/icon-project/sodax-frontend-sub008/connectionmonitor"
	"github.com/pkg/errors"
)

// evmConnectionManager implements connectionmonitor.RPCClient for a spoke client.
type evmConnectionManager struct {
	chain *evm // Reference to the EVM spoke instance.
}

// initMonitor initializes the connection monitor for the spoke.
//
// Parameters:
// - ctx: the context for managing the monitor's lifetime.
//
// Returns:
// - error: an error if there is an issue starting the connection monitor.
func (e *evm) initMonitor(ctx context.Context) error {
	e.monitorMutex.Lock()
	defer e.monitorMutex.Unlock()

	connectionManager := &evmConnectionManager{chain: e}
	e.monitor = connectionmonitor.NewConnectionMonitor(connectionManager, e.logger, e.config.ID, connectionmonitor.Config{})
	return e.monitor.Start(ctx)
}

// CheckConnection checks the connection by retrieving the current block number.
func (w *evmConnectionManager) CheckConnection(ctx context.Context) error {
	client, err := w.chain.getClient()
	if err != nil {
		return err
	}

	_, err = client.BlockNumber(ctx)
	return err
}

// Reconnect dials a fresh client and swaps it in. In-flight calls keep the old client
// until they return.
func (w *evmConnectionManager) Reconnect(ctx context.Context) error {
	client, err := ethclient.DialContext(ctx, w.chain.config.RPCURL)
	if err != nil {
		return errors.Wrap(err, "failed to dial spoke rpc")
	}

	w.chain.clientMutex.Lock()
	old := w.chain.client
	w.chain.client = client
	w.chain.clientMutex.Unlock()

	if old != nil {
		old.Close()
	}
	return nil
}
