package rpc

import "context"

// Caller is the narrow JSON-RPC capability the rest of the controller depends
// on. The wallet adapter, token binding and oracle binding all speak through
// it; tests substitute fakes.
type Caller interface {
	// Call makes a single JSON-RPC call and returns the decoded result.
	Call(ctx context.Context, method string, params []any) (any, error)

	// Close cleans up resources.
	Close() error
}
