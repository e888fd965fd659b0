package market

import (
	"context"
	"encoding/json"
	"time"

	"github.com/kjannette/pulse-backend/internal/models"
	"github.com/kjannette/pulse-backend/internal/ratelimit"
)

// QuoteSource returns a snapshot quote for one provider symbol.
type QuoteSource interface {
	Quote(ctx context.Context, symbol string) (models.Quote, error)
}

// SeriesSource returns a close-price series for one provider symbol.
type SeriesSource interface {
	Series(ctx context.Context, symbol, interval, rng string) (models.PriceSeries, error)
}

// SnapshotSource returns the day's top gaining and losing stocks.
type SnapshotSource interface {
	StockMovers(ctx context.Context, limit int) ([]models.StockSnapshot, error)
}

type CalendarSource interface {
	EconomicCalendar(ctx context.Context, from, to time.Time) ([]models.RawCalendarEvent, error)
}

type NewsSource interface {
	GeneralNews(ctx context.Context) (json.RawMessage, error)
}

// Pacing is the minimum gap between consecutive provider calls per fetcher.
type Pacing struct {
	Stocks      time.Duration
	Crypto      time.Duration
	Forex       time.Duration
	Commodities time.Duration
	Indices     time.Duration
	Heatmap     time.Duration
	Regional    time.Duration
}

var DefaultPacing = Pacing{
	Stocks:      100 * time.Millisecond,
	Crypto:      200 * time.Millisecond,
	Forex:       100 * time.Millisecond,
	Commodities: 150 * time.Millisecond,
	Indices:     150 * time.Millisecond,
	Heatmap:     100 * time.Millisecond,
	Regional:    100 * time.Millisecond,
}

func pacer(d time.Duration) ratelimit.Pacer {
	if d <= 0 {
		return ratelimit.Unlimited{}
	}
	return ratelimit.NewGate(d)
}
