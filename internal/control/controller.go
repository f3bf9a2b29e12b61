package control

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/pressly/goose/v3"

	"github.com/vietddude/tokenctl/internal/api"
	"github.com/vietddude/tokenctl/internal/core/config"
	"github.com/vietddude/tokenctl/internal/history"
	"github.com/vietddude/tokenctl/internal/infra/eth"
	"github.com/vietddude/tokenctl/internal/infra/priceapi"
	"github.com/vietddude/tokenctl/internal/infra/rpc"
	"github.com/vietddude/tokenctl/internal/infra/storage"
	"github.com/vietddude/tokenctl/internal/infra/storage/memory"
	"github.com/vietddude/tokenctl/internal/infra/storage/postgres"
	"github.com/vietddude/tokenctl/internal/infra/storage/redisstore"
	"github.com/vietddude/tokenctl/internal/operation"
	"github.com/vietddude/tokenctl/internal/pricesync"
	"github.com/vietddude/tokenctl/internal/session"
)

// Controller owns the application lifecycle: it wires storage, the node
// transport, the session manager, the price loops and the HTTP surface, and
// starts and stops them together.
type Controller struct {
	cfg      *config.AppConfig
	caller   rpc.Caller
	repo     storage.HistoryRepository
	db       *postgres.DB
	hist     *history.Log
	sessions *session.Manager
	prices   *pricesync.Synchronizer
	server   *api.Server
	log      *slog.Logger
}

// New creates a fully wired controller from configuration.
func New(ctx context.Context, cfg *config.AppConfig) (*Controller, error) {
	c := &Controller{
		cfg: cfg,
		log: slog.Default().With("component", "control"),
	}

	// 1. Storage. Postgres when configured, then Redis, then memory.
	if cfg.Database.URL != "" {
		db, err := postgres.NewDB(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to init db: %w", err)
		}
		if err := goose.SetDialect("postgres"); err != nil {
			return nil, err
		}
		if err := goose.Up(db.DB.DB, "migrations"); err != nil {
			return nil, fmt.Errorf("failed to migrate db: %w", err)
		}
		c.db = db
		c.repo = postgres.NewHistoryRepo(db)
		slog.Info("Using PostgreSQL history storage")
	} else if cfg.Redis.URL != "" {
		repo, err := redisstore.NewHistoryRepo(cfg.Redis)
		if err != nil {
			slog.Warn("Failed to connect to Redis, history will not persist", "error", err)
			c.repo = memory.NewHistoryRepo()
		} else {
			c.repo = repo
			slog.Info("Using Redis history storage")
		}
	} else {
		c.repo = memory.NewHistoryRepo()
		slog.Info("Using in-memory history storage")
	}

	// 2. History. A failed load starts an empty log; persistence is best
	// effort throughout.
	c.hist = history.NewLog(c.repo)
	if err := c.hist.Load(ctx); err != nil {
		slog.Warn("Failed to load history, starting empty", "error", err)
	}

	// 3. Node transport. An absent endpoint means no wallet provider: the
	// session layer reports that state instead of failing at startup.
	var provider eth.Provider
	var balances session.BalanceReader
	var oracle pricesync.OracleReader
	var confirmer operation.Confirmer
	var wallet operation.Wallet
	if cfg.Node.Endpoint != "" {
		c.caller = rpc.NewHTTPProvider(cfg.Node.Endpoint, cfg.Node.RequestTimeout)
		walletProvider := eth.NewWalletProvider(c.caller)
		provider = walletProvider
		wallet = walletProvider
		balances = eth.NewTokenClient(c.caller)
		oracle = eth.NewOracleClient(c.caller)
		confirmer = eth.NewConfirmWaiter(c.caller, cfg.Node.ConfirmTimeout, cfg.Node.ConfirmPollInterval)
	} else {
		slog.Warn("No node endpoint configured, wallet provider unavailable")
	}

	// 4. Session, prices, operations.
	c.sessions = session.NewManager(provider, balances, cfg.Registry(), cfg.Node.RequestTimeout)

	index := priceapi.NewClient(cfg.Prices.IndexBaseURL, cfg.Node.RequestTimeout)
	c.prices = pricesync.NewSynchronizer(oracle, index, c.sessions, cfg.Prices.PollInterval)
	if len(cfg.Oracles) > 0 {
		c.prices.SetOracleFeeds(cfg.Oracles)
	}
	c.sessions.OnChange(c.prices.Resync)

	ops := operation.NewCoordinator(c.sessions, wallet, confirmer, c.hist)

	// 5. HTTP surface.
	c.server = api.NewServer(cfg.Server.Port, c.sessions, ops, c.hist, c.prices)

	return c, nil
}

// Start starts the HTTP server and the price loops.
func (c *Controller) Start(ctx context.Context) error {
	go func() {
		if err := c.server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			c.log.Error("API server failed", "error", err)
		}
	}()
	c.prices.Start(ctx)
	c.log.Info("Controller started", "port", c.cfg.Server.Port)
	return nil
}

// Stop shuts everything down in reverse order.
func (c *Controller) Stop(ctx context.Context) error {
	c.log.Info("Stopping controller...")

	c.prices.Stop()

	if c.repo != nil {
		if err := c.repo.Close(); err != nil {
			c.log.Warn("Failed to close history storage", "error", err)
		}
	}
	if c.caller != nil {
		if err := c.caller.Close(); err != nil {
			c.log.Warn("Failed to close node transport", "error", err)
		}
	}

	return c.server.Stop(ctx)
}
