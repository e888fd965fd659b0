package external

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/kjannette/pulse-backend/internal/httputil"
)

const finnhubURL = "https://finnhub.io/api/v1"

const maxNewsBody = 4 << 20

// FinnhubClient reads the general market news feed.
type FinnhubClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	retry      httputil.RetryConfig
}

func NewFinnhubClient(opts Options) *FinnhubClient {
	return &FinnhubClient{
		baseURL:    opts.baseURL(finnhubURL),
		apiKey:     opts.APIKey,
		httpClient: opts.client(),
		retry:      opts.Retry,
	}
}

// GeneralNews returns the provider payload untouched.
func (c *FinnhubClient) GeneralNews(ctx context.Context) (json.RawMessage, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("finnhub: %w", ErrNotConfigured)
	}

	u := c.baseURL + "/news?category=general"
	header := http.Header{"X-Finnhub-Token": {c.apiKey}}
	body, err := httputil.GetRaw(ctx, c.httpClient, c.retry, u, header, maxNewsBody)
	if err != nil {
		return nil, fmt.Errorf("finnhub news: %w", err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("finnhub news: invalid JSON payload")
	}
	return json.RawMessage(body), nil
}
