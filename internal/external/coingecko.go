package external

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/kjannette/pulse-backend/internal/httputil"
	"github.com/kjannette/pulse-backend/internal/models"
)

const coingeckoURL = "https://api.coingecko.com/api/v3"

type CoinGeckoClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	retry      httputil.RetryConfig
}

func NewCoinGeckoClient(opts Options) *CoinGeckoClient {
	return &CoinGeckoClient{
		baseURL:    opts.baseURL(coingeckoURL),
		apiKey:     opts.APIKey,
		httpClient: opts.client(),
		retry:      opts.Retry,
	}
}

// Quote returns the USD price of a coin id (e.g. "bitcoin") together with
// the close implied by its 24h change.
func (c *CoinGeckoClient) Quote(ctx context.Context, id string) (models.Quote, error) {
	u := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=usd&include_24hr_change=true",
		c.baseURL, url.QueryEscape(id))

	var header http.Header
	if c.apiKey != "" {
		header = http.Header{"x-cg-demo-api-key": {c.apiKey}}
	}

	var data map[string]struct {
		USD       float64  `json:"usd"`
		Change24h *float64 `json:"usd_24h_change"`
	}
	if err := httputil.GetJSON(ctx, c.httpClient, c.retry, u, header, &data); err != nil {
		return models.Quote{}, fmt.Errorf("coingecko %s: %w", id, err)
	}

	coin, ok := data[id]
	if !ok || coin.USD <= 0 || coin.Change24h == nil {
		return models.Quote{}, fmt.Errorf("coingecko %s: %w", id, ErrNoData)
	}

	q := models.Quote{
		Symbol:        id,
		Close:         coin.USD,
		PreviousClose: coin.USD / (1 + *coin.Change24h/100),
		Currency:      "USD",
	}
	if !q.Valid() {
		return q, fmt.Errorf("coingecko %s: invalid 24h change %v: %w", id, *coin.Change24h, ErrNoData)
	}
	return q, nil
}
