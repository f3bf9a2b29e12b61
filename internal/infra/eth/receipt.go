package eth

import (
	"context"
	"fmt"
	"time"

	"github.com/vietddude/tokenctl/internal/core/domain"
	"github.com/vietddude/tokenctl/internal/infra/rpc"
)

// Receipt is the settled outcome of a submitted transaction.
type Receipt struct {
	TxHash  string
	GasUsed string
}

// ConfirmWaiter blocks until the network reports a transaction settled.
type ConfirmWaiter struct {
	caller   rpc.Caller
	timeout  time.Duration
	interval time.Duration
}

// NewConfirmWaiter creates a confirmation waiter with an explicit timeout.
func NewConfirmWaiter(caller rpc.Caller, timeout, interval time.Duration) *ConfirmWaiter {
	return &ConfirmWaiter{caller: caller, timeout: timeout, interval: interval}
}

// WaitMined polls for the transaction receipt until it appears, the
// transaction reverts, or the timeout elapses.
func (w *ConfirmWaiter) WaitMined(ctx context.Context, txHash string) (*Receipt, error) {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		receipt, err := w.poll(ctx, txHash)
		if err != nil {
			return nil, err
		}
		if receipt != nil {
			return receipt, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s not mined within %v", domain.ErrConfirmation, txHash, w.timeout)
		case <-ticker.C:
		}
	}
}

// poll returns (nil, nil) while the transaction is still pending.
func (w *ConfirmWaiter) poll(ctx context.Context, txHash string) (*Receipt, error) {
	result, err := w.caller.Call(ctx, "eth_getTransactionReceipt", []any{txHash})
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrConfirmation, err)
		}
		// Transient read fault; keep polling until the deadline decides.
		return nil, nil
	}
	if result == nil {
		return nil, nil
	}

	fields, ok := result.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected receipt shape %T", domain.ErrConfirmation, result)
	}

	if status, ok := fields["status"].(string); ok && status == "0x0" {
		return nil, fmt.Errorf("%w: transaction %s reverted", domain.ErrConfirmation, txHash)
	}

	gasUsed := "0"
	if raw, ok := fields["gasUsed"].(string); ok {
		if v, err := ParseQuantity(raw); err == nil {
			gasUsed = v.String()
		}
	}

	return &Receipt{TxHash: txHash, GasUsed: gasUsed}, nil
}
