package pricesync

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/big"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vietddude/tokenctl/internal/core/domain"
	"github.com/vietddude/tokenctl/internal/metrics"
)

// OracleReader reads the on-chain base asset price feed.
type OracleReader interface {
	ChainID(ctx context.Context) (uint64, error)
	LatestAnswer(ctx context.Context, feed string) (*big.Int, error)
}

// IndexReader reads USD prices from the external price index.
type IndexReader interface {
	Price(ctx context.Context, sourceID string) (value json.Number, found bool, err error)
}

// SessionView is the read side of the session manager the synchronizer
// needs: polling happens only while a wallet is connected, and results are
// committed only when the session state they were read for is still current.
type SessionView interface {
	Current() (domain.WalletSession, domain.TokenDescriptor, uint64)
}

// Quotes is the pair of price views the synchronizer maintains.
type Quotes struct {
	Base  domain.Quote `json:"base"`
	Token domain.Quote `json:"token"`
}

// Synchronizer polls the oracle and the price index on independent loops.
// The two sources never block each other; each updates its own quote.
type Synchronizer struct {
	oracle   OracleReader
	index    IndexReader
	session  SessionView
	interval time.Duration
	feeds    map[uint64]string // overrides the built-in oracle registry

	mu     sync.Mutex
	quotes Quotes

	resyncBase  chan struct{}
	resyncToken chan struct{}
	stop        chan struct{}
	wg          sync.WaitGroup
	log         *slog.Logger
}

// NewSynchronizer creates a price synchronizer. Either reader may be nil,
// in which case its quote stays unavailable.
func NewSynchronizer(oracle OracleReader, index IndexReader, session SessionView, interval time.Duration) *Synchronizer {
	return &Synchronizer{
		oracle:      oracle,
		index:       index,
		session:     session,
		interval:    interval,
		resyncBase:  make(chan struct{}, 1),
		resyncToken: make(chan struct{}, 1),
		stop:        make(chan struct{}),
		log:         slog.Default().With("component", "pricesync"),
		quotes: Quotes{
			Base:  domain.Quote{Status: domain.StatusUnavailable},
			Token: domain.Quote{Status: domain.StatusUnavailable},
		},
	}
}

// SetOracleFeeds replaces the built-in chain id to feed address registry.
// Must be called before Start.
func (s *Synchronizer) SetOracleFeeds(feeds map[uint64]string) {
	s.feeds = feeds
}

// Start launches the two polling loops.
func (s *Synchronizer) Start(ctx context.Context) {
	s.wg.Add(2)
	go s.loop(ctx, s.resyncBase, s.pollBase)
	go s.loop(ctx, s.resyncToken, s.pollToken)
	s.log.Info("Price synchronizer started", "interval", s.interval)
}

// Stop terminates both loops and waits for them to exit.
func (s *Synchronizer) Stop() {
	close(s.stop)
	s.wg.Wait()
	s.log.Info("Price synchronizer stopped")
}

// Resync wakes both loops immediately, without blocking the caller.
func (s *Synchronizer) Resync() {
	select {
	case s.resyncBase <- struct{}{}:
	default:
	}
	select {
	case s.resyncToken <- struct{}{}:
	default:
	}
}

// Quotes returns the current price views.
func (s *Synchronizer) Quotes() Quotes {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quotes
}

func (s *Synchronizer) loop(ctx context.Context, resync <-chan struct{}, poll func(ctx context.Context)) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	poll(ctx)
	for {
		select {
		case <-s.stop:
			return
		case <-ctx.Done():
			return
		case <-resync:
			poll(ctx)
		case <-ticker.C:
			poll(ctx)
		}
	}
}

// pollBase refreshes the base asset quote from the on-chain oracle.
func (s *Synchronizer) pollBase(ctx context.Context) {
	session, _, epoch := s.session.Current()
	if !session.Connected() || s.oracle == nil {
		s.commitBase(epoch, domain.Quote{Status: domain.StatusUnavailable})
		return
	}

	chainID, err := s.oracle.ChainID(ctx)
	if err != nil {
		metrics.PricePollsTotal.WithLabelValues("oracle", "error").Inc()
		s.log.Warn("Chain id read failed", "error", err)
		s.commitBase(epoch, s.degraded(s.snapshotBase(), err.Error()))
		return
	}

	feed, err := s.feedFor(chainID)
	if err != nil {
		metrics.PricePollsTotal.WithLabelValues("oracle", "unsupported").Inc()
		s.commitBase(epoch, domain.Quote{
			Status: domain.StatusUnavailable,
			Detail: err.Error(),
		})
		return
	}

	answer, err := s.oracle.LatestAnswer(ctx, feed)
	if err != nil {
		metrics.PricePollsTotal.WithLabelValues("oracle", "error").Inc()
		s.log.Warn("Oracle read failed", "feed", feed, "error", err)
		s.commitBase(epoch, s.degraded(s.snapshotBase(), err.Error()))
		return
	}

	metrics.PricePollsTotal.WithLabelValues("oracle", "success").Inc()
	// Oracle answers are 8-decimal fixed point.
	s.commitBase(epoch, domain.Quote{
		Value:     decimal.NewFromBigInt(answer, -8).StringFixed(2),
		Status:    domain.StatusReady,
		UpdatedAt: time.Now().UTC(),
	})
}

// pollToken refreshes the active token quote from the price index.
func (s *Synchronizer) pollToken(ctx context.Context) {
	session, token, epoch := s.session.Current()
	if !session.Connected() || s.index == nil {
		s.commitToken(epoch, token.Symbol, domain.Quote{Status: domain.StatusUnavailable})
		return
	}

	if token.PriceSourceID == "" {
		s.commitToken(epoch, token.Symbol, domain.Quote{
			Status: domain.StatusUnavailable,
			Detail: "no price source for " + token.Symbol,
		})
		return
	}

	value, found, err := s.index.Price(ctx, token.PriceSourceID)
	if err != nil {
		metrics.PricePollsTotal.WithLabelValues("index", "error").Inc()
		s.log.Warn("Price index read failed", "source", token.PriceSourceID, "error", err)
		s.commitToken(epoch, token.Symbol, s.degraded(s.snapshotToken(), err.Error()))
		return
	}
	if !found {
		metrics.PricePollsTotal.WithLabelValues("index", "missing").Inc()
		s.commitToken(epoch, token.Symbol, domain.Quote{
			Status: domain.StatusUnavailable,
			Detail: "price index has no entry for " + token.PriceSourceID,
		})
		return
	}

	metrics.PricePollsTotal.WithLabelValues("index", "success").Inc()
	s.commitToken(epoch, token.Symbol, domain.Quote{
		Value:     value.String(),
		Status:    domain.StatusReady,
		UpdatedAt: time.Now().UTC(),
	})
}

func (s *Synchronizer) feedFor(chainID uint64) (string, error) {
	if len(s.feeds) > 0 {
		addr, ok := s.feeds[chainID]
		if !ok {
			return "", fmt.Errorf("%w: chain id %d", domain.ErrUnsupportedNetwork, chainID)
		}
		return addr, nil
	}
	return domain.OracleFeed(chainID)
}

// degraded flips a quote to error while retaining the last good value.
func (s *Synchronizer) degraded(last domain.Quote, detail string) domain.Quote {
	return domain.Quote{
		Value:     last.Value,
		Status:    domain.StatusError,
		Detail:    detail,
		UpdatedAt: last.UpdatedAt,
	}
}

func (s *Synchronizer) snapshotBase() domain.Quote {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quotes.Base
}

func (s *Synchronizer) snapshotToken() domain.Quote {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quotes.Token
}

// commitBase stores a base quote unless the session moved on mid-read.
func (s *Synchronizer) commitBase(epoch uint64, q domain.Quote) {
	if _, _, now := s.session.Current(); now != epoch {
		return
	}
	s.mu.Lock()
	s.quotes.Base = q
	s.mu.Unlock()
}

// commitToken stores a token quote unless the session or selection moved on.
func (s *Synchronizer) commitToken(epoch uint64, symbol string, q domain.Quote) {
	_, token, now := s.session.Current()
	if now != epoch || token.Symbol != symbol {
		return
	}
	s.mu.Lock()
	s.quotes.Token = q
	s.mu.Unlock()
}
