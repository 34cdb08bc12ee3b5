// Package jsonrpc is the HTTP transport shared by the non-EVM spokes: JSON-RPC 2.0 calls with
// named or positional params, plus plain JSON REST requests against the same node.
package jsonrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
)

// DefaultTimeout bounds a single HTTP round trip.
const DefaultTimeout = 30 * time.Second

// maxErrorBody caps how much of a failed response body is kept in HTTPError.
const maxErrorBody = 512

// Error is a JSON-RPC error object returned by the node.
type Error struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *Error) Error() string {
	if len(e.Data) > 0 {
		return fmt.Sprintf("rpc error %d: %s (%s)", e.Code, e.Message, string(e.Data))
	}
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// HTTPError is returned for non-2xx responses.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http status %d: %s", e.StatusCode, e.Body)
}

type request struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      uint64      `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

type response struct {
	ID     uint64          `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *Error          `json:"error"`
}

// Client talks to one node endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
	nextID     atomic.Uint64
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a client for endpoint.
func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint:   strings.TrimRight(endpoint, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the node URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Call performs a JSON-RPC 2.0 call and decodes the result into result, which may be nil.
//
// Parameters:
// - ctx: the context for managing the request.
// - method: the RPC method name.
// - params: a map or struct for named params, a slice for positional params, or nil.
// - result: a pointer the result is decoded into.
//
// Returns:
// - error: a transport error, an *HTTPError, an *Error from the node, or a decode error.
func (c *Client) Call(ctx context.Context, method string, params interface{}, result interface{}) error {
	body, err := json.Marshal(request{
		JSONRPC: "2.0",
		ID:      c.nextID.Add(1),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return errors.Wrapf(err, "failed to marshal %s request", method)
	}

	raw, err := c.do(ctx, http.MethodPost, c.endpoint, "application/json", body)
	if err != nil {
		return errors.Wrapf(err, "%s failed", method)
	}

	var resp response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return errors.Wrapf(err, "failed to decode %s response", method)
	}
	if resp.Error != nil {
		return resp.Error
	}
	if result == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Result, result); err != nil {
		return errors.Wrapf(err, "failed to decode %s result", method)
	}
	return nil
}

// GetJSON performs GET endpoint+path and decodes the JSON body.
func (c *Client) GetJSON(ctx context.Context, path string, result interface{}) error {
	raw, err := c.do(ctx, http.MethodGet, c.endpoint+path, "", nil)
	if err != nil {
		return errors.Wrapf(err, "GET %s failed", path)
	}
	if err := json.Unmarshal(raw, result); err != nil {
		return errors.Wrapf(err, "failed to decode %s", path)
	}
	return nil
}

// PostJSON performs POST endpoint+path with a JSON body and decodes the JSON response when result is set.
func (c *Client) PostJSON(ctx context.Context, path string, payload interface{}, result interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrapf(err, "failed to marshal %s body", path)
	}
	raw, err := c.do(ctx, http.MethodPost, c.endpoint+path, "application/json", body)
	if err != nil {
		return errors.Wrapf(err, "POST %s failed", path)
	}
	if result == nil {
		return nil
	}
	if err := json.Unmarshal(raw, result); err != nil {
		return errors.Wrapf(err, "failed to decode %s", path)
	}
	return nil
}

// Post performs POST endpoint+path with a raw body and returns the raw response body.
func (c *Client) Post(ctx context.Context, path, contentType string, body []byte) ([]byte, error) {
	raw, err := c.do(ctx, http.MethodPost, c.endpoint+path, contentType, body)
	if err != nil {
		return nil, errors.Wrapf(err, "POST %s failed", path)
	}
	return raw, nil
}

// Get performs GET endpoint+path and returns the raw response body.
func (c *Client) Get(ctx context.Context, path string) ([]byte, error) {
	raw, err := c.do(ctx, http.MethodGet, c.endpoint+path, "", nil)
	if err != nil {
		return nil, errors.Wrapf(err, "GET %s failed", path)
	}
	return raw, nil
}

func (c *Client) do(ctx context.Context, method, url, contentType string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		text := string(raw)
		if len(text) > maxErrorBody {
			text = text[:maxErrorBody]
		}
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: text}
	}
	return raw, nil
}
