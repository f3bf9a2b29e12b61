package eth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vietddude/tokenctl/internal/core/domain"
	"github.com/vietddude/tokenctl/internal/infra/rpc"
)

// Provider is the narrow capability interface over the wallet provider.
// Absence of a provider is a detectable precondition, never a crash.
type Provider interface {
	// RequestAccounts asks the provider for authorized accounts.
	RequestAccounts(ctx context.Context) ([]string, error)

	// Signer returns a signing handle bound to an authorized account.
	Signer(ctx context.Context, address string) (Signer, error)
}

// Signer submits signed calls on behalf of one account.
type Signer interface {
	// Address returns the account the signer is bound to.
	Address() string

	// SendTransaction submits a contract call and returns the transaction hash.
	SendTransaction(ctx context.Context, to string, data string) (string, error)
}

// WalletProvider implements Provider over a node-managed account, the
// headless analogue of an injected browser wallet.
type WalletProvider struct {
	caller rpc.Caller
}

// NewWalletProvider creates a wallet adapter over a JSON-RPC caller.
func NewWalletProvider(caller rpc.Caller) *WalletProvider {
	return &WalletProvider{caller: caller}
}

// RequestAccounts lists the accounts the provider is willing to sign for.
// Nodes that do not implement eth_requestAccounts fall back to eth_accounts.
func (w *WalletProvider) RequestAccounts(ctx context.Context) ([]string, error) {
	result, err := w.caller.Call(ctx, "eth_requestAccounts", nil)
	if err != nil {
		var rpcErr *rpc.RPCError
		if errors.As(err, &rpcErr) && rpcErr.Code == -32601 {
			result, err = w.caller.Call(ctx, "eth_accounts", nil)
		}
	}
	if err != nil {
		var rpcErr *rpc.RPCError
		if errors.As(err, &rpcErr) {
			return nil, fmt.Errorf("request accounts: %w", err)
		}
		// Transport fault: the provider endpoint is not reachable.
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}

	raw, ok := result.([]any)
	if !ok {
		return nil, fmt.Errorf("unexpected accounts response: %T", result)
	}
	accounts := make([]string, 0, len(raw))
	for _, a := range raw {
		s, ok := a.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected account entry: %T", a)
		}
		accounts = append(accounts, s)
	}
	return accounts, nil
}

// Signer returns a handle bound to address, verifying the provider manages it.
func (w *WalletProvider) Signer(ctx context.Context, address string) (Signer, error) {
	accounts, err := w.RequestAccounts(ctx)
	if err != nil {
		return nil, err
	}
	for _, a := range accounts {
		if strings.EqualFold(a, address) {
			return &nodeSigner{caller: w.caller, address: a}, nil
		}
	}
	return nil, fmt.Errorf("%w: account %s not managed by provider", domain.ErrSignerUnavailable, address)
}

// nodeSigner signs through the node's managed account via eth_sendTransaction.
type nodeSigner struct {
	caller  rpc.Caller
	address string
}

func (s *nodeSigner) Address() string {
	return s.address
}

func (s *nodeSigner) SendTransaction(ctx context.Context, to string, data string) (string, error) {
	params := []any{map[string]any{
		"from": s.address,
		"to":   to,
		"data": data,
	}}
	result, err := s.caller.Call(ctx, "eth_sendTransaction", params)
	if err != nil {
		return "", err
	}
	hash, ok := result.(string)
	if !ok {
		return "", fmt.Errorf("unexpected transaction hash: %T", result)
	}
	return hash, nil
}
