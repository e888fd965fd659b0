package external

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kjannette/pulse-backend/internal/httputil"
	"github.com/kjannette/pulse-backend/internal/models"
)

const fmpURL = "https://financialmodelingprep.com/api/v3"

// FMPClient reads the Financial Modeling Prep economic calendar.
type FMPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	retry      httputil.RetryConfig
}

func NewFMPClient(opts Options) *FMPClient {
	return &FMPClient{
		baseURL:    opts.baseURL(fmpURL),
		apiKey:     opts.APIKey,
		httpClient: opts.client(),
		retry:      opts.Retry,
	}
}

type fmpEvent struct {
	Date     string   `json:"date"`
	Country  string   `json:"country"`
	Event    string   `json:"event"`
	Currency string   `json:"currency"`
	Previous *float64 `json:"previous"`
	Estimate *float64 `json:"estimate"`
	Actual   *float64 `json:"actual"`
	Impact   string   `json:"impact"`
}

// EconomicCalendar returns events between from and to (inclusive dates).
// Rows with an unparseable date are dropped.
func (c *FMPClient) EconomicCalendar(ctx context.Context, from, to time.Time) ([]models.RawCalendarEvent, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("fmp: %w", ErrNotConfigured)
	}

	u := fmt.Sprintf("%s/economic_calendar?from=%s&to=%s&apikey=%s",
		c.baseURL, from.Format("2006-01-02"), to.Format("2006-01-02"), url.QueryEscape(c.apiKey))

	var rows []fmpEvent
	if err := httputil.GetJSON(ctx, c.httpClient, c.retry, u, nil, &rows); err != nil {
		return nil, fmt.Errorf("fmp calendar: %w", err)
	}

	out := make([]models.RawCalendarEvent, 0, len(rows))
	for _, r := range rows {
		ts, ok := parseFMPTime(r.Date)
		if !ok {
			continue
		}
		out = append(out, models.RawCalendarEvent{
			Time:     ts,
			Country:  r.Country,
			Event:    strings.TrimSpace(r.Event),
			Currency: r.Currency,
			Actual:   r.Actual,
			Forecast: r.Estimate,
			Previous: r.Previous,
			Impact:   r.Impact,
		})
	}
	return out, nil
}

func parseFMPTime(s string) (time.Time, bool) {
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
