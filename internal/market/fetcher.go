package market

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kjannette/pulse-backend/internal/models"
	"github.com/kjannette/pulse-backend/internal/ratelimit"
)

var errInvalidQuote = errors.New("invalid quote")

// Priced is one instrument with a validated quote and its percent change.
type Priced struct {
	models.Instrument
	Close    float64
	Percent  float64
	Currency string
}

// Fetcher walks a fixed instrument list for one asset class. Calls are
// issued one at a time, paced by the fetcher's own gate, so results keep
// list order.
type Fetcher struct {
	class       models.AssetType
	instruments []models.Instrument
	source      QuoteSource
	pacer       ratelimit.Pacer
	logger      *slog.Logger
}

func NewFetcher(class models.AssetType, instruments []models.Instrument, source QuoteSource, pacer ratelimit.Pacer, logger *slog.Logger) *Fetcher {
	if pacer == nil {
		pacer = ratelimit.Unlimited{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		class:       class,
		instruments: instruments,
		source:      source,
		pacer:       pacer,
		logger:      logger.With("component", "fetcher", "class", class),
	}
}

func (f *Fetcher) Class() models.AssetType { return f.class }

// Fetch quotes every instrument. A failing symbol is skipped and the run
// continues; a fully failed run yields an empty batch, never an error.
func (f *Fetcher) Fetch(ctx context.Context) Batch[Priced] {
	b := newBatch[Priced](len(f.instruments))

	for i, inst := range f.instruments {
		if err := f.pacer.Wait(ctx); err != nil {
			for _, rest := range f.instruments[i:] {
				b.skip(f.logger, rest.Symbol, err)
			}
			break
		}

		q, err := f.source.Quote(ctx, inst.Symbol)
		if err != nil {
			b.skip(f.logger, inst.Symbol, err)
			continue
		}
		if !q.Valid() {
			b.skip(f.logger, inst.Symbol, fmt.Errorf("%w: close=%v previous=%v", errInvalidQuote, q.Close, q.PreviousClose))
			continue
		}
		pct := PercentChange(q.Close, q.PreviousClose)
		if !Valid(pct) {
			b.skip(f.logger, inst.Symbol, ErrInvalidChange)
			continue
		}

		b.add(Priced{Instrument: inst, Close: q.Close, Percent: pct, Currency: q.Currency})
	}

	if len(b.Skipped) > 0 {
		f.logger.Info("fetch finished with skips", "ok", len(b.Items), "skipped", len(b.Skipped))
	}
	return b
}

// Movers returns the fetch as mover records.
func (f *Fetcher) Movers(ctx context.Context) Batch[models.Mover] {
	return mapBatch(f.Fetch(ctx), func(p Priced) models.Mover {
		return FormatMover(p.Name, p.Symbol, p.Percent, f.class)
	})
}

// Quotes returns the fetch as per-class quote records.
func (f *Fetcher) Quotes(ctx context.Context) Batch[models.MarketQuote] {
	return mapBatch(f.Fetch(ctx), func(p Priced) models.MarketQuote {
		return models.MarketQuote{
			Name:          p.Name,
			Symbol:        p.Symbol,
			Price:         p.Close,
			Change:        FormatPercent(p.Percent),
			ChangePercent: round2(p.Percent),
			Trend:         models.TrendOf(p.Percent),
		}
	})
}

// Rates returns the fetch as forex records. The instrument name is the pair.
func (f *Fetcher) Rates(ctx context.Context) Batch[models.ForexRate] {
	return mapBatch(f.Fetch(ctx), func(p Priced) models.ForexRate {
		return models.ForexRate{
			Pair:          p.Name,
			Symbol:        p.Symbol,
			Rate:          p.Close,
			Change:        FormatPercent(p.Percent),
			ChangePercent: round2(p.Percent),
			Trend:         models.TrendOf(p.Percent),
		}
	})
}

func mapBatch[A, B any](in Batch[A], fn func(A) B) Batch[B] {
	out := Batch[B]{Items: make([]B, 0, len(in.Items)), Skipped: in.Skipped}
	for _, item := range in.Items {
		out.Items = append(out.Items, fn(item))
	}
	return out
}

// StockFetcher builds stock movers from the provider's gainers and losers
// snapshot, falling back to quoting a fixed list when the snapshot fails.
type StockFetcher struct {
	snapshots SnapshotSource
	fallback  *Fetcher
	limit     int
	logger    *slog.Logger
}

func NewStockFetcher(snapshots SnapshotSource, fallback *Fetcher, limit int, logger *slog.Logger) *StockFetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &StockFetcher{
		snapshots: snapshots,
		fallback:  fallback,
		limit:     limit,
		logger:    logger.With("component", "fetcher", "class", models.AssetStock),
	}
}

func (s *StockFetcher) Movers(ctx context.Context) Batch[models.Mover] {
	var snaps []models.StockSnapshot
	var err error
	if s.snapshots != nil {
		snaps, err = s.snapshots.StockMovers(ctx, s.limit)
	} else {
		err = errors.New("no snapshot source")
	}
	if err != nil {
		if s.fallback == nil {
			b := newBatch[models.Mover](0)
			b.skip(s.logger, "stocks", err)
			return b
		}
		s.logger.Warn("stock snapshot unavailable, quoting fallback list", "error", err)
		return s.fallback.Movers(ctx)
	}

	b := newBatch[models.Mover](len(snaps))
	for _, snap := range snaps {
		pct := PercentChange(snap.Close, snap.PreviousClose)
		if !Valid(pct) {
			b.skip(s.logger, snap.Ticker, ErrInvalidChange)
			continue
		}
		ticker := strings.ToUpper(snap.Ticker)
		b.add(FormatMover(ticker, ticker, pct, models.AssetStock))
	}
	return b
}
