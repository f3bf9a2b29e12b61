package domain

import "time"

// Status labels the freshness of a displayed value. Every balance and quote
// carries one; a value is never shown stale-but-unlabeled.
type Status string

const (
	StatusLoading     Status = "loading"
	StatusReady       Status = "ready"
	StatusUnavailable Status = "unavailable"
	StatusError       Status = "error"
)

// Quote is a price value paired with its availability status. On a fetch
// failure the last good Value is retained and Status flips to error; Detail
// carries the reported condition.
type Quote struct {
	Value     string    `json:"value,omitempty"`
	Status    Status    `json:"status"`
	Detail    string    `json:"detail,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// Balance is a human-readable token amount (raw integer scaled by the token's
// decimals). It is recomputed whole on every session or selection change and
// after every confirmed operation, never incrementally updated.
type Balance struct {
	Amount string `json:"amount,omitempty"`
	Status Status `json:"status"`
}
