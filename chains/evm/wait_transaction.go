package evm

import (
	"context"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/icon-project/sodax-frontend-sub008/common/types"
	"github.com/pkg/errors"
)

// defaultReceiptPollInterval is the HTTP polling period while waiting for a receipt.
const defaultReceiptPollInterval = time.Second

// subscriptionHandler manages block header subscriptions
type subscriptionHandler struct {
	subscription ethereum.Subscription
	headerChan   chan *ethtypes.Header
	sync.Mutex
}

// close safely unsubscribes. The channel is left to the garbage collector because the
// subscription may still hold a reference to it.
func (h *subscriptionHandler) close() {
	h.Lock()
	defer h.Unlock()
	if h.subscription != nil {
		h.subscription.Unsubscribe()
		h.subscription = nil
	}
}

// waitReceipt waits until txHash is mined and returns its receipt. A reverted transaction
// is returned as an error. The wait is bounded only by ctx.
//
// Parameters:
// - ctx: the context for managing the wait.
// - txHash: the transaction hash.
//
// Returns:
// - *ethtypes.Receipt: the successful receipt.
// - error: ctx.Err(), a revert, or an RPC error other than "not found".
func (e *evm) waitReceipt(ctx context.Context, txHash common.Hash) (*ethtypes.Receipt, error) {
	if types.GetTransportMode(e.config.RPCURL) == types.WebSocketMode {
		return e.waitReceiptWS(ctx, txHash)
	}
	return e.waitReceiptHTTP(ctx, txHash)
}

// waitReceiptWS checks for the receipt on every new block header.
func (e *evm) waitReceiptWS(ctx context.Context, txHash common.Hash) (*ethtypes.Receipt, error) {
	client, err := e.getClient()
	if err != nil {
		return nil, err
	}

	handler := &subscriptionHandler{
		headerChan: make(chan *ethtypes.Header),
	}
	defer handler.close()

	sub, err := client.SubscribeNewHead(ctx, handler.headerChan)
	if err != nil {
		return nil, errors.Wrap(err, "failed to subscribe to new headers")
	}

	handler.Lock()
	handler.subscription = sub
	handler.Unlock()

	for {
		select {
		case <-ctx.Done():
			e.logger.WithField("txHash", txHash.Hex()).Error("waitReceipt: context done")
			return nil, ctx.Err()

		case err := <-sub.Err():
			return nil, errors.Wrap(err, "subscription error")

		case header := <-handler.headerChan:
			if header == nil {
				continue
			}

			receipt, done, err := e.checkReceipt(ctx, client, txHash)
			if done {
				return receipt, err
			}
		}
	}
}

// waitReceiptHTTP polls for the receipt.
func (e *evm) waitReceiptHTTP(ctx context.Context, txHash common.Hash) (*ethtypes.Receipt, error) {
	client, err := e.getClient()
	if err != nil {
		return nil, err
	}

	interval := e.receiptPollInterval
	if interval <= 0 {
		interval = defaultReceiptPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.logger.WithField("txHash", txHash.Hex()).Error("waitReceipt: context done")
			return nil, ctx.Err()

		case <-ticker.C:
			receipt, done, err := e.checkReceipt(ctx, client, txHash)
			if done {
				return receipt, err
			}
		}
	}
}

// checkReceipt reports done once the receipt exists or a non-retryable error occurs.
func (e *evm) checkReceipt(ctx context.Context, client Client, txHash common.Hash) (*ethtypes.Receipt, bool, error) {
	receipt, err := client.TransactionReceipt(ctx, txHash)
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return nil, false, nil
		}
		return nil, true, errors.Wrap(err, "failed to get transaction receipt")
	}

	if receipt.Status != ethtypes.ReceiptStatusSuccessful {
		return receipt, true, errors.Errorf("transaction %s reverted", txHash.Hex())
	}
	return receipt, true, nil
}
