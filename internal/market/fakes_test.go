package market

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/kjannette/pulse-backend/internal/models"
)

var errProviderDown = errors.New("provider down")

type fakeQuotes struct {
	mu     sync.Mutex
	quotes map[string]models.Quote
	fail   bool
	calls  []string
}

func (f *fakeQuotes) Quote(_ context.Context, symbol string) (models.Quote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, symbol)
	if f.fail {
		return models.Quote{}, errProviderDown
	}
	q, ok := f.quotes[symbol]
	if !ok {
		return models.Quote{}, errors.New("unknown symbol " + symbol)
	}
	return q, nil
}

func (f *fakeQuotes) setFail(v bool) {
	f.mu.Lock()
	f.fail = v
	f.mu.Unlock()
}

func (f *fakeQuotes) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeSeries map[string][]float64

func (f fakeSeries) Series(_ context.Context, symbol, interval, rng string) (models.PriceSeries, error) {
	closes, ok := f[symbol+"|"+interval]
	if !ok {
		return models.PriceSeries{}, errProviderDown
	}
	return models.PriceSeries{Symbol: symbol, Interval: interval, Range: rng, Closes: closes}, nil
}

type fakeSnapshots struct {
	snaps []models.StockSnapshot
	err   error
}

func (f fakeSnapshots) StockMovers(context.Context, int) ([]models.StockSnapshot, error) {
	return f.snaps, f.err
}

type fakeCalendar struct {
	events []models.RawCalendarEvent
	err    error
}

func (f fakeCalendar) EconomicCalendar(context.Context, time.Time, time.Time) ([]models.RawCalendarEvent, error) {
	return f.events, f.err
}

type fakeNews string

func (f fakeNews) GeneralNews(context.Context) (json.RawMessage, error) {
	return json.RawMessage(f), nil
}

type staticMovers Batch[models.Mover]

func (s staticMovers) Movers(context.Context) Batch[models.Mover] { return Batch[models.Mover](s) }

type panicMovers struct{}

func (panicMovers) Movers(context.Context) Batch[models.Mover] { panic("provider exploded") }

func quote(close, prev float64) models.Quote {
	return models.Quote{Close: close, PreviousClose: prev, Currency: "USD"}
}

func mover(symbol string, pct float64) models.Mover {
	return FormatMover(symbol, symbol, pct, models.AssetStock)
}
