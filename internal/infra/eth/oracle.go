package eth

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/vietddude/tokenctl/internal/infra/rpc"
)

// OracleClient reads the on-chain price oracle through eth_call.
type OracleClient struct {
	caller rpc.Caller
	retry  rpc.RetryConfig

	mu      sync.Mutex
	chainID uint64 // cached after first successful read
}

// NewOracleClient creates an oracle reader.
func NewOracleClient(caller rpc.Caller) *OracleClient {
	return &OracleClient{caller: caller, retry: rpc.DefaultRetryConfig}
}

// ChainID returns the connected network's chain id.
func (o *OracleClient) ChainID(ctx context.Context) (uint64, error) {
	o.mu.Lock()
	cached := o.chainID
	o.mu.Unlock()
	if cached != 0 {
		return cached, nil
	}

	result, err := rpc.CallWithRetry(ctx, o.caller, "eth_chainId", nil, o.retry)
	if err != nil {
		return 0, fmt.Errorf("chain id: %w", err)
	}
	hex, ok := result.(string)
	if !ok {
		return 0, fmt.Errorf("unexpected chain id result: %T", result)
	}
	id, err := ParseUint64(hex)
	if err != nil {
		return 0, err
	}

	o.mu.Lock()
	o.chainID = id
	o.mu.Unlock()
	return id, nil
}

// LatestAnswer reads the oracle's latest answer, an 8-decimal fixed-point
// integer by convention.
func (o *OracleClient) LatestAnswer(ctx context.Context, feed string) (*big.Int, error) {
	params := []any{map[string]any{"to": feed, "data": LatestAnswerData()}, "latest"}
	result, err := rpc.CallWithRetry(ctx, o.caller, "eth_call", params, o.retry)
	if err != nil {
		return nil, fmt.Errorf("latestAnswer: %w", err)
	}
	hex, ok := result.(string)
	if !ok {
		return nil, fmt.Errorf("unexpected latestAnswer result: %T", result)
	}
	return ParseInt256(hex)
}
