package priceapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/vietddude/tokenctl/internal/core/domain"
)

// Client reads USD prices from the external price index, keyed by source id.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a price index client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Price fetches the USD price for a source id. found is false when the index
// has no entry for the id; transport faults wrap ErrPriceFetch.
func (c *Client) Price(ctx context.Context, sourceID string) (value json.Number, found bool, err error) {
	endpoint := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=usd",
		c.baseURL, url.QueryEscape(sourceID))

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return "", false, fmt.Errorf("%w: %v", domain.ErrPriceFetch, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", false, fmt.Errorf("%w: %v", domain.ErrPriceFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", false, fmt.Errorf("%w: http %d", domain.ErrPriceFetch, resp.StatusCode)
	}

	// Response shape: {"<id>": {"usd": 1234.56}}
	var payload map[string]map[string]json.Number
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		return "", false, fmt.Errorf("%w: %v", domain.ErrPriceFetch, err)
	}

	entry, ok := payload[sourceID]
	if !ok {
		return "", false, nil
	}
	usd, ok := entry["usd"]
	if !ok {
		return "", false, nil
	}
	return usd, true, nil
}
