package relay

import (
	"context"
	"time"

	commonerrors "github.com/icon-project/sodax-frontend-sub008/common/errors"
	"github.com/icon-project/sodax-frontend-sub008/common/types"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// tracker follows one submitted transaction through SUBMITTED -> EXECUTED | TIMED_OUT.
type tracker struct {
	state   types.RelayState
	started time.Time
	polls   int
	log     *logrus.Entry
}

func (t *tracker) transition(next types.RelayState) {
	t.log.WithFields(logrus.Fields{
		"from":  t.state,
		"to":    next,
		"polls": t.polls,
	}).Debug("Relay state transition")
	t.state = next
}

// WaitUntilExecuted polls the relay until a packet for txHash reports "executed".
//
// Each iteration sleeps PollInterval, then polls. Poll failures are logged and the loop
// continues. The deadline is measured in elapsed wall-clock time, not in poll count: sleeps are
// cut short at the deadline and every poll is cancelled when it is reached.
//
// Parameters:
// - ctx: cancels the wait early; the context error is returned wrapped in a RelayError.
// - relayChainID: the relay id of the source chain.
// - txHash: the spoke transaction hash, matched case-insensitively.
// - timeout: the maximum time to wait.
//
// Returns:
// - *types.RelayPacket: the executed packet.
// - error: a *RelayError with code TIMEOUT when the deadline passes first.
func (c *Client) WaitUntilExecuted(ctx context.Context, relayChainID uint64, txHash string, timeout time.Duration) (*types.RelayPacket, error) {
	t := &tracker{
		state:   types.StateSubmitted,
		started: c.clock.Now(),
		log: c.logger.WithFields(logrus.Fields{
			"relay_chain_id": relayChainID,
			"tx_hash":        txHash,
		}),
	}

	for {
		remaining := t.remaining(c.clock.Now(), timeout)
		if remaining <= 0 {
			return nil, c.timedOut(t, txHash)
		}

		if err := c.clock.Sleep(ctx, minDuration(c.config.PollInterval, remaining)); err != nil {
			c.metrics.observeWait("cancelled", c.clock.Now().Sub(t.started))
			return nil, commonerrors.NewRelayError(commonerrors.CodeUnknown, errors.Wrap(err, "wait cancelled"))
		}

		remaining = t.remaining(c.clock.Now(), timeout)
		if remaining <= 0 {
			return nil, c.timedOut(t, txHash)
		}

		// The poll never outlives the deadline, however slow the relay answers.
		pollCtx, cancel := context.WithTimeout(ctx, remaining)
		t.polls++
		packets, err := c.GetTransactionPackets(pollCtx, relayChainID, txHash)
		cancel()
		if err != nil {
			c.metrics.observePoll("error")
			t.log.WithError(err).WithField("poll", t.polls).Warn("Relay poll failed")
			continue
		}

		c.metrics.observePoll("ok")
		if packet := findExecuted(packets, txHash); packet != nil {
			t.transition(types.StateExecuted)
			c.metrics.observeWait(string(types.StateExecuted), c.clock.Now().Sub(t.started))
			t.log.WithField("dst_tx_hash", packet.DstTxHash).Info("Relay packet executed")
			return packet, nil
		}
	}
}

func (t *tracker) remaining(now time.Time, timeout time.Duration) time.Duration {
	return timeout - now.Sub(t.started)
}

func (c *Client) timedOut(t *tracker, txHash string) error {
	elapsed := c.clock.Now().Sub(t.started)
	t.transition(types.StateTimedOut)
	c.metrics.observeWait(string(types.StateTimedOut), elapsed)
	t.log.WithField("elapsed", elapsed).Warn("Timed out waiting for relay execution")
	return commonerrors.NewRelayError(commonerrors.CodeTimeout,
		errors.Errorf("packet for %s not executed after %s", txHash, elapsed))
}

func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}

func findExecuted(packets []types.RelayPacket, txHash string) *types.RelayPacket {
	for i := range packets {
		if packets[i].MatchesTx(txHash) && packets[i].IsExecuted() {
			packet := packets[i]
			return &packet
		}
	}
	return nil
}

// SubmitAndWait submits txHash and waits for its packet to execute on the destination.
//
// Returns SUBMIT_TX_FAILED when the submission fails and TIMEOUT when execution is not
// observed within timeout. A timeout is not a failure of the transaction itself.
func (c *Client) SubmitAndWait(ctx context.Context, relayChainID uint64, txHash string, data *types.RelaySubmitData, timeout time.Duration) (*types.RelayPacket, error) {
	if _, err := c.Submit(ctx, relayChainID, txHash, data); err != nil {
		var relayErr *commonerrors.RelayError
		if errors.As(err, &relayErr) {
			return nil, err
		}
		return nil, commonerrors.NewRelayError(commonerrors.CodeSubmitTxFailed, err)
	}
	return c.WaitUntilExecuted(ctx, relayChainID, txHash, timeout)
}
