package rpc

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"
)

// RetryConfig defines retry behavior for read-only calls. Mutating
// submissions are never retried; failures there surface to the caller.
type RetryConfig struct {
	MaxAttempts     int
	InitialDelay    time.Duration
	MaxDelay        time.Duration
	BackoffMultiple float64
}

// DefaultRetryConfig provides sensible defaults.
var DefaultRetryConfig = RetryConfig{
	MaxAttempts:     3,
	InitialDelay:    200 * time.Millisecond,
	MaxDelay:        5 * time.Second,
	BackoffMultiple: 2.0,
}

// retryable reports whether an error is worth another attempt. JSON-RPC
// protocol errors and client-side rejections are final; transport faults,
// 5xx responses and 429 throttling are not.
func retryable(err error) bool {
	var rpcErr *RPCError
	if errors.As(err, &rpcErr) {
		return false
	}

	s := strings.ToLower(err.Error())
	for _, final := range []string{"http 400", "http 401", "http 403", "http 404",
		"forbidden", "unauthorized"} {
		if strings.Contains(s, final) {
			return false
		}
	}
	return true
}

// CallWithRetry executes a read-only RPC call with exponential backoff.
func CallWithRetry(ctx context.Context, c Caller, method string, params []any, config RetryConfig) (any, error) {
	var lastErr error

	for attempt := 0; attempt < config.MaxAttempts; attempt++ {
		result, err := c.Call(ctx, method, params)
		if err == nil {
			return result, nil
		}

		lastErr = err
		if !retryable(err) {
			return nil, err
		}
		if attempt == config.MaxAttempts-1 {
			break
		}

		delay := calculateBackoff(attempt, config)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	return nil, lastErr
}

func calculateBackoff(attempt int, config RetryConfig) time.Duration {
	delay := float64(config.InitialDelay) * math.Pow(config.BackoffMultiple, float64(attempt))
	if delay > float64(config.MaxDelay) {
		delay = float64(config.MaxDelay)
	}
	return time.Duration(delay)
}
