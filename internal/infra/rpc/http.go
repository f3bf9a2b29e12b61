package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/vietddude/tokenctl/internal/metrics"
)

// RPCError is a JSON-RPC error object returned by the node. Submissions
// surface it unwrapped so the original cause (user decline, insufficient
// funds, contract revert) stays visible in diagnostics.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// HTTPProvider implements Caller for JSON-RPC over HTTP.
type HTTPProvider struct {
	endpoint   string
	httpClient *http.Client

	mu        sync.Mutex
	requestID int
}

// NewHTTPProvider creates a new HTTP-based JSON-RPC provider.
func NewHTTPProvider(endpoint string, timeout time.Duration) *HTTPProvider {
	return &HTTPProvider{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Call makes a single JSON-RPC call.
func (p *HTTPProvider) Call(ctx context.Context, method string, params []any) (any, error) {
	if params == nil {
		params = []any{}
	}

	reqBody := map[string]any{
		"jsonrpc": "2.0",
		"method":  method,
		"params":  params,
		"id":      p.nextID(),
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		p.recordFailure(method)
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.endpoint, bytes.NewReader(jsonData))
	if err != nil {
		p.recordFailure(method)
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.recordFailure(method)
		return nil, fmt.Errorf("rpc call: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		p.recordFailure(method)
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		p.recordFailure(method)
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode, string(body))
	}

	var rpcResp struct {
		Result any       `json:"result"`
		Error  *RPCError `json:"error"`
	}

	if err := json.Unmarshal(body, &rpcResp); err != nil {
		p.recordFailure(method)
		return nil, fmt.Errorf("parse response: %w", err)
	}

	if rpcResp.Error != nil {
		p.recordFailure(method)
		return nil, rpcResp.Error
	}

	p.recordSuccess(method)
	return rpcResp.Result, nil
}

// Close cleans up resources.
func (p *HTTPProvider) Close() error {
	p.httpClient.CloseIdleConnections()
	return nil
}

func (p *HTTPProvider) nextID() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.requestID++
	return p.requestID
}

func (p *HTTPProvider) recordSuccess(method string) {
	metrics.RPCCallsTotal.WithLabelValues(method, "ok").Inc()
}

func (p *HTTPProvider) recordFailure(method string) {
	metrics.RPCCallsTotal.WithLabelValues(method, "error").Inc()
}
