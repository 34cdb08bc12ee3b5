package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	commonerrors "github.com/icon-project/sodax-frontend-sub008/common/errors"
	"github.com/icon-project/sodax-frontend-sub008/common/types"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Config controls the relay client's transport and polling behaviour.
//
// Fields:
// - Endpoint: the relay HTTP endpoint every action is POSTed to.
// - MaxAttempts: total submit attempts, the first one included.
// - RetryDelay: the fixed delay between submit attempts.
// - PollInterval: the delay before each status poll.
// - RequestTimeout: the per-request HTTP timeout.
type Config struct {
	Endpoint       string        `toml:"endpoint" json:"endpoint"`
	MaxAttempts    int           `toml:"max_attempts" json:"maxAttempts"`
	RetryDelay     time.Duration `toml:"retry_delay" json:"retryDelay"`
	PollInterval   time.Duration `toml:"poll_interval" json:"pollInterval"`
	RequestTimeout time.Duration `toml:"request_timeout" json:"requestTimeout"`
}

// DefaultConfig returns the relay defaults for endpoint.
func DefaultConfig(endpoint string) Config {
	return Config{
		Endpoint:       endpoint,
		MaxAttempts:    3,
		RetryDelay:     time.Second,
		PollInterval:   time.Second,
		RequestTimeout: 30 * time.Second,
	}
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithClock replaces the wall clock used for retry delays and polling.
func WithClock(clock Clock) Option {
	return func(c *Client) {
		c.clock = clock
	}
}

// WithMetrics enables prometheus instrumentation.
func WithMetrics(metrics *Metrics) Option {
	return func(c *Client) {
		c.metrics = metrics
	}
}

// Client talks to the intent relay over its single-endpoint JSON protocol.
// It is safe for concurrent use.
type Client struct {
	config     Config
	httpClient *http.Client
	clock      Clock
	metrics    *Metrics
	logger     *logrus.Logger
}

// NewClient creates a relay client. Zero-valued config fields take their defaults.
func NewClient(config Config, logger *logrus.Logger, opts ...Option) (*Client, error) {
	if config.Endpoint == "" {
		return nil, errors.Wrap(commonerrors.ErrInvalidConfig, "relay endpoint is empty")
	}

	defaults := DefaultConfig(config.Endpoint)
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = defaults.MaxAttempts
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = defaults.RetryDelay
	}
	if config.PollInterval <= 0 {
		config.PollInterval = defaults.PollInterval
	}
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = defaults.RequestTimeout
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	c := &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.RequestTimeout},
		clock:      RealClock(),
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Config returns the effective configuration.
func (c *Client) Config() Config {
	return c.config
}

// transientError marks failures worth another submit attempt: transport errors,
// non-2xx statuses and undecodable bodies.
type transientError struct {
	err error
}

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

func isTransient(err error) bool {
	var t *transientError
	return errors.As(err, &t)
}

// post sends one action and decodes the envelope. It never retries.
func (c *Client) post(ctx context.Context, action Action, params interface{}) (*response, error) {
	body, err := json.Marshal(request{Action: action, Params: params})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to encode %s request", action)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create %s request", action)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.observeRequest(action, "transport_error")
		return nil, &transientError{errors.Wrapf(err, "%s request failed", action)}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.observeRequest(action, "transport_error")
		return nil, &transientError{errors.Wrapf(err, "failed to read %s response", action)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.observeRequest(action, "http_error")
		return nil, &transientError{errors.Errorf("%s request returned status %d: %s", action, resp.StatusCode, string(payload))}
	}

	var out response
	if err := json.Unmarshal(payload, &out); err != nil {
		c.metrics.observeRequest(action, "decode_error")
		return nil, &transientError{errors.Wrapf(err, "failed to decode %s response", action)}
	}

	c.metrics.observeRequest(action, "ok")
	return &out, nil
}

// Submit hands a spoke transaction hash to the relay.
//
// Transient failures are retried up to MaxAttempts with a fixed RetryDelay. A reply with
// success=false is final.
//
// Parameters:
// - ctx: the context for the request and the retry delay.
// - relayChainID: the relay id of the chain the transaction was sent on.
// - txHash: the spoke transaction hash.
// - data: optional address/payload for chains that cannot carry the payload on-chain.
//
// Returns:
// - *SubmitResult: the relay acknowledgement.
// - error: a *RelayError with code SUBMIT_TX_FAILED.
func (c *Client) Submit(ctx context.Context, relayChainID uint64, txHash string, data *types.RelaySubmitData) (*SubmitResult, error) {
	params := submitParams{
		ChainID: strconv.FormatUint(relayChainID, 10),
		TxHash:  txHash,
		Data:    data,
	}
	log := c.logger.WithFields(logrus.Fields{
		"relay_chain_id": relayChainID,
		"tx_hash":        txHash,
	})

	var (
		resp *response
		err  error
	)
	for attempt := 1; attempt <= c.config.MaxAttempts; attempt++ {
		resp, err = c.post(ctx, ActionSubmit, params)
		if err == nil || !isTransient(err) || ctx.Err() != nil {
			break
		}

		log.WithError(err).WithField("attempt", attempt).Warn("Relay submit attempt failed")
		if attempt == c.config.MaxAttempts {
			break
		}
		if sleepErr := c.clock.Sleep(ctx, c.config.RetryDelay); sleepErr != nil {
			err = sleepErr
			break
		}
	}

	if err != nil {
		c.metrics.observeSubmit("failed")
		log.WithError(err).Error("Relay submit failed")
		return nil, commonerrors.NewRelayError(commonerrors.CodeSubmitTxFailed, err)
	}
	if !resp.Success {
		c.metrics.observeSubmit("rejected")
		log.WithField("message", resp.Message).Error("Relay rejected submission")
		return nil, commonerrors.NewRelayError(commonerrors.CodeSubmitTxFailed, errors.Errorf("relay rejected submission: %s", resp.Message))
	}

	c.metrics.observeSubmit("ok")
	log.Info("Transaction submitted to relay")
	return &SubmitResult{Success: true, Message: resp.Message}, nil
}

// GetTransactionPackets returns every packet the relay has recorded for txHash.
func (c *Client) GetTransactionPackets(ctx context.Context, relayChainID uint64, txHash string) ([]types.RelayPacket, error) {
	resp, err := c.post(ctx, ActionGetTransactionPackets, packetsParams{
		ChainID: strconv.FormatUint(relayChainID, 10),
		TxHash:  txHash,
	})
	if err != nil {
		return nil, commonerrors.NewRelayError(commonerrors.CodeUnknown, err)
	}
	if !resp.Success {
		return nil, commonerrors.NewRelayError(commonerrors.CodeUnknown, errors.Errorf("get_transaction_packets failed: %s", resp.Message))
	}

	packets := []types.RelayPacket{}
	if len(resp.Data) > 0 && string(resp.Data) != "null" {
		if err := json.Unmarshal(resp.Data, &packets); err != nil {
			return nil, commonerrors.NewRelayError(commonerrors.CodeUnknown, errors.Wrap(err, "failed to decode packets"))
		}
	}
	return packets, nil
}

// GetPacket returns the packet identified by its connection sequence number.
func (c *Client) GetPacket(ctx context.Context, relayChainID uint64, txHash string, connSn uint64) (*types.RelayPacket, error) {
	resp, err := c.post(ctx, ActionGetPacket, packetParams{
		ChainID: strconv.FormatUint(relayChainID, 10),
		TxHash:  txHash,
		ConnSn:  strconv.FormatUint(connSn, 10),
	})
	if err != nil {
		return nil, commonerrors.NewRelayError(commonerrors.CodeUnknown, err)
	}
	if !resp.Success {
		return nil, commonerrors.NewRelayError(commonerrors.CodeUnknown, errors.Errorf("get_packet failed: %s", resp.Message))
	}

	var packet types.RelayPacket
	if err := json.Unmarshal(resp.Data, &packet); err != nil {
		return nil, commonerrors.NewRelayError(commonerrors.CodeUnknown, errors.Wrap(err, "failed to decode packet"))
	}
	return &packet, nil
}
