package sui

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fd1az/sui-swap-bot/internal/apperror"
	"github.com/fd1az/sui-swap-bot/internal/httpclient"
)

// DefaultTimeout bounds a single JSON-RPC call.
const DefaultTimeout = 30 * time.Second

// Client is a JSON-RPC 2.0 client for a Sui full node.
type Client struct {
	endpoint  string
	http      httpclient.Client
	timeout   time.Duration
	requestID atomic.Uint64
}

// ClientOption configures Client.
type ClientOption func(*Client)

// WithTimeout sets the HTTP timeout when the client builds its own transport.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithHTTPClient sets the instrumented HTTP client.
func WithHTTPClient(h httpclient.Client) ClientOption {
	return func(c *Client) {
		c.http = h
	}
}

// NewClient creates a client for the node at endpoint.
func NewClient(endpoint string, opts ...ClientOption) (*Client, error) {
	if endpoint == "" {
		return nil, apperror.New(apperror.CodeConfigurationError,
			apperror.WithMessage("sui rpc endpoint is required"))
	}

	c := &Client{endpoint: endpoint, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(c)
	}

	if c.http == nil {
		h, err := httpclient.New(
			httpclient.WithProviderName("sui-rpc"),
			httpclient.WithRequestTimeout(c.timeout),
		)
		if err != nil {
			return nil, fmt.Errorf("create http client: %w", err)
		}
		c.http = h
	}
	return c, nil
}

// Endpoint returns the node URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("RPC error %d: %s", e.Code, e.Message)
}

func statusError(method string) httpclient.ResponseErrorHandler {
	return func(status int, body []byte) error {
		switch {
		case status == http.StatusTooManyRequests:
			return apperror.New(apperror.CodeRateLimitExceeded,
				apperror.WithContext(method+": rate limited (429)"),
				apperror.WithHTTPStatus(status))
		case status >= 500:
			return apperror.New(apperror.CodeServiceUnavailable,
				apperror.WithContext(fmt.Sprintf("%s: status %d", method, status)),
				apperror.WithHTTPStatus(status))
		case status >= 400:
			return apperror.New(apperror.CodeLedgerRPCError,
				apperror.WithContext(fmt.Sprintf("%s: status %d: %s", method, status, truncate(body, 200))),
				apperror.WithHTTPStatus(status))
		}
		return nil
	}
}

// call performs one JSON-RPC request. Retrying is the caller's decision.
func (c *Client) call(ctx context.Context, method string, params []any, result any) error {
	req := rpcRequest{
		JSONRPC: "2.0",
		ID:      c.requestID.Add(1),
		Method:  method,
		Params:  params,
	}

	resp, err := c.http.NewRequest(
		httpclient.WithResponseErrorHandler(statusError(method)),
		httpclient.WithLabels(httpclient.NewLabel("method", method)),
	).SetBody(req).Post(ctx, c.endpoint)
	if err != nil {
		return transportError(ctx, method, err)
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(resp.Body(), &rpcResp); err != nil {
		return apperror.New(apperror.CodeLedgerRPCError,
			apperror.WithContext(method+": malformed response"),
			apperror.WithCause(err))
	}
	if rpcResp.Error != nil {
		code := apperror.CodeLedgerRPCError
		if strings.Contains(strings.ToLower(rpcResp.Error.Message), "signature") {
			code = apperror.CodeInvalidSignature
		}
		return apperror.New(code,
			apperror.WithContext(method),
			apperror.WithCause(rpcResp.Error))
	}

	if result != nil && len(rpcResp.Result) > 0 {
		if err := json.Unmarshal(rpcResp.Result, result); err != nil {
			return apperror.New(apperror.CodeLedgerRPCError,
				apperror.WithContext(method+": unexpected result shape"),
				apperror.WithCause(err))
		}
	}
	return nil
}

func transportError(ctx context.Context, method string, err error) error {
	if apperror.IsAppError(err) {
		return err
	}
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		return ctx.Err()
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return apperror.New(apperror.CodeServiceTimeout,
			apperror.WithContext(method+": timeout"),
			apperror.WithCause(err))
	}
	return apperror.New(apperror.CodeLedgerUnreachable,
		apperror.WithContext(method+": network error"),
		apperror.WithCause(err))
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

// GetCoins returns one page of coin objects of coinType owned by owner.
func (c *Client) GetCoins(ctx context.Context, owner Address, coinType string, cursor *string, limit int) (*CoinPage, error) {
	var page CoinPage
	params := []any{owner.String(), coinType, cursor, limit}
	if err := c.call(ctx, "suix_getCoins", params, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetOwnedObjects returns one page of objects of structType owned by owner.
func (c *Client) GetOwnedObjects(ctx context.Context, owner Address, structType string, cursor *string, limit int) (*ObjectsPage, error) {
	query := map[string]any{
		"filter":  map[string]any{"StructType": structType},
		"options": map[string]any{"showType": true},
	}
	var page ObjectsPage
	if err := c.call(ctx, "suix_getOwnedObjects", []any{owner.String(), query, cursor, limit}, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetReferenceGasPrice returns the current epoch's reference gas price.
func (c *Client) GetReferenceGasPrice(ctx context.Context) (uint64, error) {
	var raw json.RawMessage
	if err := c.call(ctx, "suix_getReferenceGasPrice", []any{}, &raw); err != nil {
		return 0, err
	}
	v, err := strconv.ParseUint(strings.Trim(string(raw), `"`), 10, 64)
	if err != nil {
		return 0, apperror.New(apperror.CodeLedgerRPCError,
			apperror.WithContext("suix_getReferenceGasPrice: "+string(raw)),
			apperror.WithCause(err))
	}
	return v, nil
}

// DryRun simulates txBytes without signatures.
func (c *Client) DryRun(ctx context.Context, txBytes []byte) (*DryRunResponse, error) {
	var out DryRunResponse
	params := []any{base64.StdEncoding.EncodeToString(txBytes)}
	if err := c.call(ctx, "sui_dryRunTransactionBlock", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Execute submits signed txBytes and waits for local execution.
func (c *Client) Execute(ctx context.Context, txBytes []byte, signature string) (*TransactionBlockResponse, error) {
	params := []any{
		base64.StdEncoding.EncodeToString(txBytes),
		[]string{signature},
		map[string]any{"showEffects": true, "showBalanceChanges": true},
		"WaitForLocalExecution",
	}
	var out TransactionBlockResponse
	if err := c.call(ctx, "sui_executeTransactionBlock", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// QueryTransactionsFrom pages transactions sent by sender, newest first.
func (c *Client) QueryTransactionsFrom(ctx context.Context, sender Address, cursor *string, limit int) (*TransactionPage, error) {
	query := map[string]any{
		"filter":  map[string]any{"FromAddress": sender.String()},
		"options": map[string]any{"showInput": true},
	}
	var page TransactionPage
	if err := c.call(ctx, "suix_queryTransactionBlocks", []any{query, cursor, limit, true}, &page); err != nil {
		return nil, err
	}
	return &page, nil
}
