package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"
)

// FeedClient fetches rates from a remote rate feed over HTTP.
type FeedClient struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
}

// NewFeedClient creates a rate feed client. If baseURL is empty it
// defaults to the public feed endpoint.
func NewFeedClient(apiKey, baseURL string) *FeedClient {
	if baseURL == "" {
		baseURL = "https://api.ratefeed.io"
	}
	return &FeedClient{
		APIKey:  apiKey,
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// FeedError represents a non-2xx response from the rate feed.
type FeedError struct {
	StatusCode int
	Message    string
}

func (e *FeedError) Error() string {
	return fmt.Sprintf("rate feed: %s (status %d)", e.Message, e.StatusCode)
}

type rateResponse struct {
	Symbol string  `json:"symbol"`
	Value  float64 `json:"value"`
}

// Fetch retrieves one rate by symbol: GET /v1/rates/{symbol}.
func (c *FeedClient) Fetch(ctx context.Context, symbol string) (float64, error) {
	if symbol == "" {
		return 0, fmt.Errorf("symbol is required")
	}
	u, err := url.Parse(c.BaseURL + "/v1/rates/" + url.PathEscape(symbol))
	if err != nil {
		return 0, fmt.Errorf("invalid base URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return 0, err
	}
	if c.APIKey != "" {
		req.Header.Set("X-Api-Key", c.APIKey)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.Client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetch %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return 0, &FeedError{StatusCode: resp.StatusCode, Message: string(body)}
	}

	var rr rateResponse
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		return 0, fmt.Errorf("decode %s: %w", symbol, err)
	}
	log.Printf("[Market] fetched %s=%.6f in %s", symbol, rr.Value, time.Since(start).Round(time.Millisecond))
	return rr.Value, nil
}
