package session

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vietddude/tokenctl/internal/core/domain"
	"github.com/vietddude/tokenctl/internal/infra/eth"
	"github.com/vietddude/tokenctl/internal/metrics"
)

// BalanceReader reads a token balance from the chain.
type BalanceReader interface {
	BalanceOf(ctx context.Context, token domain.TokenDescriptor, owner string) (*big.Int, error)
}

// Snapshot is a read-only view of the current session state.
type Snapshot struct {
	Session domain.WalletSession
	Token   domain.TokenDescriptor
	Balance domain.Balance
	Epoch   uint64
}

// Manager owns the wallet session and active token selection. Every state
// transition bumps an epoch counter; balance reads that complete after a
// newer transition are discarded rather than committed.
type Manager struct {
	mu       sync.Mutex
	provider eth.Provider
	balances BalanceReader
	registry []domain.TokenDescriptor

	session domain.WalletSession
	token   domain.TokenDescriptor
	balance domain.Balance
	epoch   uint64

	onChange func()
	timeout  time.Duration
	log      *slog.Logger
}

// NewManager creates a session manager. The provider may be nil when no
// wallet transport is configured; Connect then fails with
// domain.ErrProviderUnavailable.
func NewManager(provider eth.Provider, balances BalanceReader, registry []domain.TokenDescriptor, timeout time.Duration) *Manager {
	m := &Manager{
		provider: provider,
		balances: balances,
		registry: registry,
		timeout:  timeout,
		log:      slog.Default().With("component", "session"),
	}
	if len(registry) > 0 {
		m.token = registry[0]
	}
	m.balance = domain.Balance{Status: domain.StatusUnavailable}
	return m
}

// OnChange registers a hook invoked after connect, disconnect and token
// selection. Used to wake the price synchronizer.
func (m *Manager) OnChange(fn func()) {
	m.mu.Lock()
	m.onChange = fn
	m.mu.Unlock()
}

// Connect requests wallet accounts and binds the session to the first one.
func (m *Manager) Connect(ctx context.Context) (domain.WalletSession, error) {
	m.mu.Lock()
	provider := m.provider
	m.mu.Unlock()

	if provider == nil {
		return domain.WalletSession{}, fmt.Errorf("%w: no wallet transport configured", domain.ErrProviderUnavailable)
	}

	accounts, err := provider.RequestAccounts(ctx)
	if err != nil {
		return domain.WalletSession{}, err
	}
	if len(accounts) == 0 {
		return domain.WalletSession{}, fmt.Errorf("%w: wallet returned no accounts", domain.ErrProviderUnavailable)
	}

	m.mu.Lock()
	m.session = domain.WalletSession{Address: accounts[0]}
	m.balance = domain.Balance{Status: domain.StatusLoading}
	m.epoch++
	session := m.session
	hook := m.onChange
	m.mu.Unlock()

	m.log.Info("Wallet connected", "address", session.Address)
	go m.RefreshBalance(context.Background())
	if hook != nil {
		hook()
	}
	return session, nil
}

// Disconnect clears the session. The active token selection survives.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	m.session = domain.WalletSession{}
	m.balance = domain.Balance{Status: domain.StatusUnavailable}
	m.epoch++
	hook := m.onChange
	m.mu.Unlock()

	m.log.Info("Wallet disconnected")
	if hook != nil {
		hook()
	}
}

// SelectToken switches the active token by symbol.
func (m *Manager) SelectToken(symbol string) (domain.TokenDescriptor, error) {
	var selected domain.TokenDescriptor
	found := false
	for _, tok := range m.registry {
		if strings.EqualFold(tok.Symbol, symbol) {
			selected = tok
			found = true
			break
		}
	}
	if !found {
		return domain.TokenDescriptor{}, fmt.Errorf("%w: unknown token %q", domain.ErrValidation, symbol)
	}

	m.mu.Lock()
	m.token = selected
	connected := m.session.Connected()
	if connected {
		m.balance = domain.Balance{Status: domain.StatusLoading}
	}
	m.epoch++
	hook := m.onChange
	m.mu.Unlock()

	m.log.Info("Token selected", "symbol", selected.Symbol)
	if connected {
		go m.RefreshBalance(context.Background())
	}
	if hook != nil {
		hook()
	}
	return selected, nil
}

// RefreshBalance re-reads the active token balance for the connected account.
// The result is committed only if no newer connect, disconnect or selection
// happened while the read was in flight.
func (m *Manager) RefreshBalance(ctx context.Context) {
	m.mu.Lock()
	session := m.session
	token := m.token
	epoch := m.epoch
	m.mu.Unlock()

	if !session.Connected() || m.balances == nil {
		return
	}

	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	raw, err := m.balances.BalanceOf(ctx, token, session.Address)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.epoch != epoch {
		m.log.Debug("Discarding stale balance read", "token", token.Symbol)
		return
	}
	if err != nil {
		metrics.BalanceRefreshTotal.WithLabelValues("error").Inc()
		m.log.Warn("Balance refresh failed", "token", token.Symbol, "error", err)
		m.balance = domain.Balance{Status: domain.StatusError}
		return
	}

	metrics.BalanceRefreshTotal.WithLabelValues("success").Inc()
	m.balance = domain.Balance{
		Amount: decimal.NewFromBigInt(raw, -int32(token.Decimals)).String(),
		Status: domain.StatusReady,
	}
}

// Current returns the session, active token and current epoch.
func (m *Manager) Current() (domain.WalletSession, domain.TokenDescriptor, uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session, m.token, m.epoch
}

// Snapshot returns the full session view.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		Session: m.session,
		Token:   m.token,
		Balance: m.balance,
		Epoch:   m.epoch,
	}
}

// Registry returns the configured token set.
func (m *Manager) Registry() []domain.TokenDescriptor {
	out := make([]domain.TokenDescriptor, len(m.registry))
	copy(out, m.registry)
	return out
}
