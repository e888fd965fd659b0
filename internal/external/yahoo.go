package external

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"

	"github.com/kjannette/pulse-backend/internal/httputil"
	"github.com/kjannette/pulse-backend/internal/models"
)

const yahooURL = "https://query1.finance.yahoo.com"

// YahooClient reads the public v8 chart API. It serves both price series
// (heatmaps) and snapshot quotes (indices, forex, commodities, equities).
type YahooClient struct {
	baseURL    string
	httpClient *http.Client
	retry      httputil.RetryConfig
}

func NewYahooClient(opts Options) *YahooClient {
	return &YahooClient{
		baseURL:    opts.baseURL(yahooURL),
		httpClient: opts.client(),
		retry:      opts.Retry,
	}
}

type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency           string  `json:"currency"`
				Symbol             string  `json:"symbol"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				ChartPreviousClose float64 `json:"chartPreviousClose"`
				PreviousClose      float64 `json:"previousClose"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func (c *YahooClient) fetchChart(ctx context.Context, symbol, interval, rng string) (*yahooChart, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&range=%s",
		c.baseURL, url.PathEscape(symbol), url.QueryEscape(interval), url.QueryEscape(rng))

	var chart yahooChart
	header := http.Header{"User-Agent": {"Mozilla/5.0"}, "Accept": {"application/json"}}
	if err := httputil.GetJSON(ctx, c.httpClient, c.retry, u, header, &chart); err != nil {
		return nil, fmt.Errorf("yahoo %s: %w", symbol, err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo %s: api error: %s", symbol, chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 {
		return nil, fmt.Errorf("yahoo %s: %w", symbol, ErrNoData)
	}
	return &chart, nil
}

// Series returns the closes for symbol at the given interval and range,
// with null and non-finite samples removed.
func (c *YahooClient) Series(ctx context.Context, symbol, interval, rng string) (models.PriceSeries, error) {
	chart, err := c.fetchChart(ctx, symbol, interval, rng)
	if err != nil {
		return models.PriceSeries{}, err
	}

	series := models.PriceSeries{Symbol: symbol, Interval: interval, Range: rng}
	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return series, nil
	}
	series.Closes = cleanCloses(result.Indicators.Quote[0].Close)
	return series, nil
}

// Quote returns the latest price and the previous session close.
func (c *YahooClient) Quote(ctx context.Context, symbol string) (models.Quote, error) {
	chart, err := c.fetchChart(ctx, symbol, "1d", "1d")
	if err != nil {
		return models.Quote{}, err
	}

	result := chart.Chart.Result[0]
	meta := result.Meta
	q := models.Quote{
		Symbol:        symbol,
		Close:         meta.RegularMarketPrice,
		PreviousClose: meta.ChartPreviousClose,
		Currency:      meta.Currency,
	}
	if q.PreviousClose == 0 {
		q.PreviousClose = meta.PreviousClose
	}
	if q.Close == 0 && len(result.Indicators.Quote) > 0 {
		if closes := cleanCloses(result.Indicators.Quote[0].Close); len(closes) > 0 {
			q.Close = closes[len(closes)-1]
		}
	}
	if !q.Valid() {
		return q, fmt.Errorf("yahoo %s: invalid quote (close %v, previous %v): %w",
			symbol, q.Close, q.PreviousClose, ErrNoData)
	}
	return q, nil
}

// cleanCloses drops nulls, non-finite values and non-positive prices.
func cleanCloses(raw []*float64) []float64 {
	out := make([]float64, 0, len(raw))
	for _, v := range raw {
		if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) || *v <= 0 {
			continue
		}
		out = append(out, *v)
	}
	return out
}
