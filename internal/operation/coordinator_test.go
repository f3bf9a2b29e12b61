package operation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/vietddude/tokenctl/internal/core/domain"
	"github.com/vietddude/tokenctl/internal/history"
	"github.com/vietddude/tokenctl/internal/infra/eth"
	"github.com/vietddude/tokenctl/internal/infra/storage/memory"
)

const (
	testAccount   = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	testRecipient = "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	testToken     = "0x1111111111111111111111111111111111111111"
)

type fakeSession struct {
	session   domain.WalletSession
	token     domain.TokenDescriptor
	refreshed int
}

func (f *fakeSession) Current() (domain.WalletSession, domain.TokenDescriptor, uint64) {
	return f.session, f.token, 1
}

func (f *fakeSession) RefreshBalance(ctx context.Context) { f.refreshed++ }

type fakeSigner struct {
	address string
	txHash  string
	err     error
	sent    []string
}

func (f *fakeSigner) Address() string { return f.address }

func (f *fakeSigner) SendTransaction(ctx context.Context, to string, data string) (string, error) {
	f.sent = append(f.sent, data)
	if f.err != nil {
		return "", f.err
	}
	return f.txHash, nil
}

type fakeWallet struct {
	signer *fakeSigner
	err    error
}

func (f *fakeWallet) Signer(ctx context.Context, address string) (eth.Signer, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.signer, nil
}

type fakeConfirmer struct {
	receipt *eth.Receipt
	err     error
	entered chan struct{}
	gate    chan struct{}
}

func (f *fakeConfirmer) WaitMined(ctx context.Context, txHash string) (*eth.Receipt, error) {
	if f.entered != nil {
		close(f.entered)
	}
	if f.gate != nil {
		<-f.gate
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.receipt, nil
}

func connectedSession() *fakeSession {
	return &fakeSession{
		session: domain.WalletSession{Address: testAccount},
		token:   domain.TokenDescriptor{Symbol: "MXT", ContractAddress: testToken, Decimals: 18},
	}
}

func newTestCoordinator(session *fakeSession, wallet *fakeWallet, confirmer *fakeConfirmer) (*Coordinator, *history.Log) {
	log := history.NewLog(memory.NewHistoryRepo())
	return NewCoordinator(session, wallet, confirmer, log), log
}

func TestCoordinator_TransferSuccess(t *testing.T) {
	session := connectedSession()
	signer := &fakeSigner{address: testAccount, txHash: "0xdeadbeef"}
	confirmer := &fakeConfirmer{receipt: &eth.Receipt{TxHash: "0xdeadbeef", GasUsed: "52341"}}
	c, log := newTestCoordinator(session, &fakeWallet{signer: signer}, confirmer)

	rec, err := c.Execute(context.Background(), Request{
		Kind: domain.KindTransfer, Recipient: testRecipient, Amount: "1.5",
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if rec.ID == "" {
		t.Error("record must carry a generated id")
	}
	if rec.TxHash != "0xdeadbeef" || rec.GasUsed != "52341" {
		t.Errorf("receipt fields not carried over: %+v", rec)
	}
	if rec.Counterparty != testRecipient {
		t.Errorf("transfer counterparty should be the recipient, got %s", rec.Counterparty)
	}
	if log.Len() != 1 {
		t.Fatalf("expected exactly one record, got %d", log.Len())
	}
	if session.refreshed != 1 {
		t.Error("balance refresh should follow a confirmed operation")
	}
	if len(signer.sent) != 1 || !strings.HasPrefix(signer.sent[0], "0xa9059cbb") {
		t.Errorf("expected transfer calldata, got %v", signer.sent)
	}
}

func TestCoordinator_MintTargetsOwnAccount(t *testing.T) {
	session := connectedSession()
	signer := &fakeSigner{address: testAccount, txHash: "0x01"}
	confirmer := &fakeConfirmer{receipt: &eth.Receipt{TxHash: "0x01", GasUsed: "40000"}}
	c, _ := newTestCoordinator(session, &fakeWallet{signer: signer}, confirmer)

	rec, err := c.Execute(context.Background(), Request{Kind: domain.KindMint, Amount: "100"})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if rec.Counterparty != testAccount {
		t.Errorf("mint counterparty should be the acting account, got %s", rec.Counterparty)
	}
	if !strings.HasPrefix(signer.sent[0], "0x40c10f19") {
		t.Errorf("expected mint calldata, got %s", signer.sent[0])
	}
}

func TestCoordinator_BurnCalldata(t *testing.T) {
	session := connectedSession()
	signer := &fakeSigner{address: testAccount, txHash: "0x02"}
	confirmer := &fakeConfirmer{receipt: &eth.Receipt{TxHash: "0x02", GasUsed: "30000"}}
	c, _ := newTestCoordinator(session, &fakeWallet{signer: signer}, confirmer)

	if _, err := c.Execute(context.Background(), Request{Kind: domain.KindBurn, Amount: "5"}); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !strings.HasPrefix(signer.sent[0], "0x9dc29fac") {
		t.Errorf("expected burn calldata, got %s", signer.sent[0])
	}
}

func TestCoordinator_ValidationFailures(t *testing.T) {
	tests := []struct {
		name    string
		session *fakeSession
		req     Request
		wantErr error
	}{
		{
			name:    "disconnected",
			session: &fakeSession{},
			req:     Request{Kind: domain.KindTransfer, Recipient: testRecipient, Amount: "1"},
			wantErr: domain.ErrSignerUnavailable,
		},
		{
			name:    "missing recipient",
			session: connectedSession(),
			req:     Request{Kind: domain.KindTransfer, Amount: "1"},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "malformed recipient",
			session: connectedSession(),
			req:     Request{Kind: domain.KindTransfer, Recipient: "not-an-address", Amount: "1"},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "missing amount",
			session: connectedSession(),
			req:     Request{Kind: domain.KindTransfer, Recipient: testRecipient},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "zero amount",
			session: connectedSession(),
			req:     Request{Kind: domain.KindTransfer, Recipient: testRecipient, Amount: "0"},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "malformed amount",
			session: connectedSession(),
			req:     Request{Kind: domain.KindTransfer, Recipient: testRecipient, Amount: "1.2.3"},
			wantErr: domain.ErrAmountFormat,
		},
		{
			name:    "amount beyond uint256",
			session: connectedSession(),
			req:     Request{Kind: domain.KindTransfer, Recipient: testRecipient, Amount: "1" + strings.Repeat("0", 80)},
			wantErr: domain.ErrAmountFormat,
		},
		{
			name:    "unknown kind",
			session: connectedSession(),
			req:     Request{Kind: "stake", Recipient: testRecipient, Amount: "1"},
			wantErr: domain.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signer := &fakeSigner{address: testAccount, txHash: "0x01"}
			confirmer := &fakeConfirmer{receipt: &eth.Receipt{TxHash: "0x01"}}
			c, log := newTestCoordinator(tt.session, &fakeWallet{signer: signer}, confirmer)

			_, err := c.Execute(context.Background(), tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if log.Len() != 0 {
				t.Error("failed operation must not be recorded")
			}
			if len(signer.sent) != 0 {
				t.Error("failed validation must not reach the signer")
			}
		})
	}
}

func TestCoordinator_SignerUnavailable(t *testing.T) {
	session := connectedSession()
	wallet := &fakeWallet{err: fmt.Errorf("%w: locked", domain.ErrSignerUnavailable)}
	c, log := newTestCoordinator(session, wallet, &fakeConfirmer{})

	_, err := c.Execute(context.Background(), Request{
		Kind: domain.KindTransfer, Recipient: testRecipient, Amount: "1",
	})
	if !errors.Is(err, domain.ErrSignerUnavailable) {
		t.Fatalf("expected ErrSignerUnavailable, got %v", err)
	}
	if log.Len() != 0 {
		t.Error("failed operation must not be recorded")
	}
}

func TestCoordinator_SubmissionFailure(t *testing.T) {
	session := connectedSession()
	signer := &fakeSigner{address: testAccount, err: errors.New("insufficient funds for gas")}
	c, log := newTestCoordinator(session, &fakeWallet{signer: signer}, &fakeConfirmer{})

	_, err := c.Execute(context.Background(), Request{
		Kind: domain.KindTransfer, Recipient: testRecipient, Amount: "1",
	})
	if !errors.Is(err, domain.ErrSubmission) {
		t.Fatalf("expected ErrSubmission, got %v", err)
	}
	if !strings.Contains(err.Error(), "insufficient funds") {
		t.Errorf("cause should be preserved, got %v", err)
	}
	if log.Len() != 0 {
		t.Error("failed operation must not be recorded")
	}
	if session.refreshed != 0 {
		t.Error("no refresh on failed submission")
	}
}

func TestCoordinator_ConfirmationFailure(t *testing.T) {
	session := connectedSession()
	signer := &fakeSigner{address: testAccount, txHash: "0x03"}
	confirmer := &fakeConfirmer{err: fmt.Errorf("%w: transaction 0x03 reverted", domain.ErrConfirmation)}
	c, log := newTestCoordinator(session, &fakeWallet{signer: signer}, confirmer)

	_, err := c.Execute(context.Background(), Request{
		Kind: domain.KindTransfer, Recipient: testRecipient, Amount: "1",
	})
	if !errors.Is(err, domain.ErrConfirmation) {
		t.Fatalf("expected ErrConfirmation, got %v", err)
	}
	if log.Len() != 0 {
		t.Error("unconfirmed operation must not be recorded")
	}
}

func TestCoordinator_RejectsConcurrentOperation(t *testing.T) {
	session := connectedSession()
	signer := &fakeSigner{address: testAccount, txHash: "0x04"}
	gate := make(chan struct{})
	entered := make(chan struct{})
	confirmer := &fakeConfirmer{gate: gate, entered: entered, receipt: &eth.Receipt{TxHash: "0x04", GasUsed: "21000"}}
	c, log := newTestCoordinator(session, &fakeWallet{signer: signer}, confirmer)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if _, err := c.Execute(context.Background(), Request{
			Kind: domain.KindTransfer, Recipient: testRecipient, Amount: "1",
		}); err != nil {
			t.Errorf("first operation failed: %v", err)
		}
	}()

	// The first operation is parked in confirmation and holds the lock.
	<-entered
	_, err := c.Execute(context.Background(), Request{
		Kind: domain.KindTransfer, Recipient: testRecipient, Amount: "2",
	})
	if !errors.Is(err, domain.ErrOperationInFlight) {
		t.Fatalf("expected ErrOperationInFlight, got %v", err)
	}

	close(gate)
	wg.Wait()

	if log.Len() != 1 {
		t.Fatalf("only the first operation should be recorded, got %d", log.Len())
	}
}
