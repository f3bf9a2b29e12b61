package domain

import "errors"

// Error taxonomy for the controller. Every failure is recovered at the
// boundary of the operation or poll that produced it and surfaced as a status
// value; callers classify with errors.Is.
var (
	// ErrProviderUnavailable means no wallet provider is configured or
	// reachable. Distinguishable so the caller can prompt installation.
	ErrProviderUnavailable = errors.New("wallet provider unavailable")

	// ErrUnsupportedNetwork means the connected chain id has no oracle entry.
	ErrUnsupportedNetwork = errors.New("unsupported network")

	// ErrValidation rejects an operation before touching the network.
	ErrValidation = errors.New("validation failed")

	// ErrSignerUnavailable means no wallet session is active.
	ErrSignerUnavailable = errors.New("signer unavailable")

	// ErrAmountFormat rejects a malformed decimal amount.
	ErrAmountFormat = errors.New("malformed amount")

	// ErrSubmission wraps a network rejection of a submitted call. The cause
	// is preserved for diagnostics; submissions are never auto-retried.
	ErrSubmission = errors.New("submission rejected")

	// ErrConfirmation means a submitted transaction timed out or reverted
	// before settling.
	ErrConfirmation = errors.New("confirmation failed")

	// ErrPriceUnavailable means a price source has no entry for the token.
	ErrPriceUnavailable = errors.New("price unavailable")

	// ErrPriceFetch wraps a transport-level fault against a price source.
	ErrPriceFetch = errors.New("price fetch failed")

	// ErrPersistence wraps a history storage fault. Non-fatal: in-memory
	// history remains authoritative for the running session.
	ErrPersistence = errors.New("persistence failed")

	// ErrOperationInFlight rejects an operation while a prior one is still
	// between submit and record for the same session.
	ErrOperationInFlight = errors.New("operation already in flight")
)
