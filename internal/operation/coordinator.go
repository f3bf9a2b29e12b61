package operation

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vietddude/tokenctl/internal/core/domain"
	"github.com/vietddude/tokenctl/internal/history"
	"github.com/vietddude/tokenctl/internal/infra/eth"
	"github.com/vietddude/tokenctl/internal/metrics"
)

// SessionState exposes what the coordinator needs from the session manager.
type SessionState interface {
	Current() (domain.WalletSession, domain.TokenDescriptor, uint64)
	RefreshBalance(ctx context.Context)
}

// Wallet resolves signing handles for connected accounts.
type Wallet interface {
	Signer(ctx context.Context, address string) (eth.Signer, error)
}

// Confirmer blocks until a submitted transaction settles.
type Confirmer interface {
	WaitMined(ctx context.Context, txHash string) (*eth.Receipt, error)
}

// Request describes one transfer, mint or burn invocation.
type Request struct {
	Kind      domain.OperationKind
	Recipient string
	Amount    string
}

// Coordinator runs the full operation pipeline: validate, sign, submit,
// confirm, record. At most one operation runs at a time; a second request
// while one is in flight is rejected, never queued.
type Coordinator struct {
	mu        sync.Mutex
	session   SessionState
	wallet    Wallet
	confirmer Confirmer
	log       *history.Log
	logger    *slog.Logger
}

// NewCoordinator wires the operation pipeline.
func NewCoordinator(session SessionState, wallet Wallet, confirmer Confirmer, log *history.Log) *Coordinator {
	return &Coordinator{
		session:   session,
		wallet:    wallet,
		confirmer: confirmer,
		log:       log,
		logger:    slog.Default().With("component", "operation"),
	}
}

// Execute runs one operation end to end and returns the recorded result.
func (c *Coordinator) Execute(ctx context.Context, req Request) (domain.TransactionRecord, error) {
	if !c.mu.TryLock() {
		return domain.TransactionRecord{}, fmt.Errorf("%w: another operation is still confirming", domain.ErrOperationInFlight)
	}
	defer c.mu.Unlock()

	started := time.Now()
	rec, err := c.run(ctx, req)
	kind := string(req.Kind)
	if err != nil {
		metrics.OperationsTotal.WithLabelValues(kind, "error").Inc()
		return domain.TransactionRecord{}, err
	}
	metrics.OperationsTotal.WithLabelValues(kind, "success").Inc()
	metrics.OperationDuration.WithLabelValues(kind).Observe(time.Since(started).Seconds())
	return rec, nil
}

func (c *Coordinator) run(ctx context.Context, req Request) (domain.TransactionRecord, error) {
	session, token, _ := c.session.Current()
	if !session.Connected() {
		return domain.TransactionRecord{}, fmt.Errorf("%w: no wallet connected", domain.ErrSignerUnavailable)
	}

	// Mint and burn act on the connected account itself.
	target := req.Recipient
	if req.Kind != domain.KindTransfer {
		target = session.Address
	}

	switch req.Kind {
	case domain.KindTransfer, domain.KindMint, domain.KindBurn:
	default:
		return domain.TransactionRecord{}, fmt.Errorf("%w: unknown operation %q", domain.ErrValidation, req.Kind)
	}
	if target == "" {
		return domain.TransactionRecord{}, fmt.Errorf("%w: recipient is required", domain.ErrValidation)
	}
	if !eth.ValidAddress(target) {
		return domain.TransactionRecord{}, fmt.Errorf("%w: %q is not an address", domain.ErrValidation, target)
	}
	if req.Amount == "" {
		return domain.TransactionRecord{}, fmt.Errorf("%w: amount is required", domain.ErrValidation)
	}

	signer, err := c.wallet.Signer(ctx, session.Address)
	if err != nil {
		return domain.TransactionRecord{}, err
	}

	amount, err := ParseAmount(req.Amount, token.Decimals)
	if err != nil {
		return domain.TransactionRecord{}, err
	}

	var data string
	switch req.Kind {
	case domain.KindTransfer:
		data, err = eth.TransferData(target, amount)
	case domain.KindMint:
		data, err = eth.MintData(target, amount)
	case domain.KindBurn:
		data, err = eth.BurnData(target, amount)
	}
	if err != nil {
		return domain.TransactionRecord{}, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	c.logger.Info("Submitting operation",
		"kind", req.Kind, "token", token.Symbol, "amount", req.Amount, "target", target)

	txHash, err := signer.SendTransaction(ctx, token.ContractAddress, data)
	if err != nil {
		// Submissions are never retried: a resend could double-spend.
		return domain.TransactionRecord{}, fmt.Errorf("%w: %v", domain.ErrSubmission, err)
	}

	receipt, err := c.confirmer.WaitMined(ctx, txHash)
	if err != nil {
		return domain.TransactionRecord{}, err
	}

	rec := domain.TransactionRecord{
		ID:           uuid.NewString(),
		Kind:         req.Kind,
		Amount:       req.Amount,
		Counterparty: target,
		TxHash:       receipt.TxHash,
		GasUsed:      receipt.GasUsed,
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
	}
	c.log.Append(ctx, rec)

	c.logger.Info("Operation confirmed",
		"kind", req.Kind, "tx_hash", rec.TxHash, "gas_used", rec.GasUsed)

	c.session.RefreshBalance(ctx)
	return rec, nil
}
