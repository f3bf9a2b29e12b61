package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vietddude/tokenctl/internal/core/domain"
	"github.com/vietddude/tokenctl/internal/operation"
	"github.com/vietddude/tokenctl/internal/pricesync"
	"github.com/vietddude/tokenctl/internal/session"
)

// SessionService is the session surface the HTTP layer drives.
type SessionService interface {
	Connect(ctx context.Context) (domain.WalletSession, error)
	Disconnect()
	SelectToken(symbol string) (domain.TokenDescriptor, error)
	Snapshot() session.Snapshot
	Registry() []domain.TokenDescriptor
}

// OperationService runs token operations.
type OperationService interface {
	Execute(ctx context.Context, req operation.Request) (domain.TransactionRecord, error)
}

// HistoryView reads the recorded operation sequence.
type HistoryView interface {
	Records() []domain.TransactionRecord
}

// PriceView reads the current quotes.
type PriceView interface {
	Quotes() pricesync.Quotes
}

// Server exposes the controller over HTTP.
type Server struct {
	sessions   SessionService
	operations OperationService
	history    HistoryView
	prices     PriceView
	server     *http.Server
	log        *slog.Logger
}

// NewServer creates the HTTP server on the given port.
func NewServer(port int, sessions SessionService, operations OperationService, history HistoryView, prices PriceView) *Server {
	mux := http.NewServeMux()
	s := &Server{
		sessions:   sessions,
		operations: operations,
		history:    history,
		prices:     prices,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		},
		log: slog.Default().With("component", "api"),
	}

	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/tokens", s.handleTokens)
	mux.HandleFunc("/history", s.handleHistory)
	mux.HandleFunc("/connect", s.handleConnect)
	mux.HandleFunc("/disconnect", s.handleDisconnect)
	mux.HandleFunc("/token/select", s.handleSelectToken)
	mux.HandleFunc("/ops/transfer", s.handleOperation(domain.KindTransfer))
	mux.HandleFunc("/ops/mint", s.handleOperation(domain.KindMint))
	mux.HandleFunc("/ops/burn", s.handleOperation(domain.KindBurn))
	mux.Handle("/metrics", promhttp.Handler())

	return s
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Stop stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Handler exposes the mux, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

type statusResponse struct {
	Session domain.WalletSession   `json:"session"`
	Token   domain.TokenDescriptor `json:"token"`
	Balance domain.Balance         `json:"balance"`
	Prices  pricesync.Quotes       `json:"prices"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	snap := s.sessions.Snapshot()
	writeJSON(w, http.StatusOK, statusResponse{
		Session: snap.Session,
		Token:   snap.Token,
		Balance: snap.Balance,
		Prices:  s.prices.Quotes(),
	})
}

func (s *Server) handleTokens(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.sessions.Registry())
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	records := s.history.Records()
	if records == nil {
		records = []domain.TransactionRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, errors.New("POST required"))
		return
	}
	sess, err := s.sessions.Connect(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, errors.New("POST required"))
		return
	}
	s.sessions.Disconnect()
	writeJSON(w, http.StatusOK, map[string]string{"status": "disconnected"})
}

type selectTokenRequest struct {
	Symbol string `json:"symbol"`
}

func (s *Server) handleSelectToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, errors.New("POST required"))
		return
	}
	var req selectTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid body: %w", err))
		return
	}
	tok, err := s.sessions.SelectToken(req.Symbol)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tok)
}

type operationRequest struct {
	Recipient string `json:"recipient,omitempty"`
	Amount    string `json:"amount"`
}

func (s *Server) handleOperation(kind domain.OperationKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, errors.New("POST required"))
			return
		}
		var req operationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid body: %w", err))
			return
		}
		rec, err := s.operations.Execute(r.Context(), operation.Request{
			Kind:      kind,
			Recipient: req.Recipient,
			Amount:    req.Amount,
		})
		if err != nil {
			s.writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}

// writeDomainError maps domain error categories onto HTTP status codes.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrAmountFormat):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrProviderUnavailable), errors.Is(err, domain.ErrUnsupportedNetwork):
		status = http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrSignerUnavailable), errors.Is(err, domain.ErrOperationInFlight):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrSubmission), errors.Is(err, domain.ErrConfirmation):
		status = http.StatusBadGateway
	}
	if status >= 500 {
		s.log.Error("Request failed", "error", err)
	}
	writeError(w, status, err)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
