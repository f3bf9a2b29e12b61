package eth

import (
	"context"
	"fmt"
	"math/big"

	"github.com/vietddude/tokenctl/internal/core/domain"
	"github.com/vietddude/tokenctl/internal/infra/rpc"
)

// TokenClient reads token contract state through eth_call.
type TokenClient struct {
	caller rpc.Caller
	retry  rpc.RetryConfig
}

// NewTokenClient creates a token contract reader.
func NewTokenClient(caller rpc.Caller) *TokenClient {
	return &TokenClient{caller: caller, retry: rpc.DefaultRetryConfig}
}

// BalanceOf reads the raw integer balance of owner for the given token.
func (t *TokenClient) BalanceOf(ctx context.Context, token domain.TokenDescriptor, owner string) (*big.Int, error) {
	data, err := BalanceOfData(owner)
	if err != nil {
		return nil, fmt.Errorf("balanceOf calldata: %w", err)
	}

	params := []any{map[string]any{"to": token.ContractAddress, "data": data}, "latest"}
	result, err := rpc.CallWithRetry(ctx, t.caller, "eth_call", params, t.retry)
	if err != nil {
		return nil, fmt.Errorf("balanceOf %s: %w", token.Symbol, err)
	}

	hex, ok := result.(string)
	if !ok {
		return nil, fmt.Errorf("unexpected balanceOf result: %T", result)
	}
	return ParseQuantity(hex)
}
