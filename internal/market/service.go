package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kjannette/pulse-backend/internal/cache"
	"github.com/kjannette/pulse-backend/internal/models"
)

// stockSnapshotLimit is how many gainers and how many losers are requested.
const stockSnapshotLimit = 10

// Sources are the provider adapters the service reads from.
type Sources struct {
	Quotes    QuoteSource // indices, forex, commodities, regional equities
	Crypto    QuoteSource
	Series    SeriesSource
	Snapshots SnapshotSource
	Calendar  CalendarSource
	News      NewsSource
}

// Service is the cached entry point for every market read.
type Service struct {
	cache *cache.Cache
	now   func() time.Time

	indices     *Fetcher
	forex       *Fetcher
	crypto      *Fetcher
	commodities *Fetcher
	movers      *Aggregator

	forexHeatmap  *HeatmapBuilder
	cryptoHeatmap *HeatmapBuilder

	jse *RegionalFetcher
	us  *RegionalFetcher

	calendar CalendarSource
	news     NewsSource
	logger   *slog.Logger
}

// NewService wires fetchers for every section of u. A nil clock uses time.Now.
func NewService(c *cache.Cache, src Sources, u models.Universe, pacing Pacing, now func() time.Time, logger *slog.Logger) *Service {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Service{
		cache:    c,
		now:      now,
		calendar: src.Calendar,
		news:     src.News,
		logger:   logger.With("component", "market"),
	}

	s.indices = NewFetcher(models.AssetIndex, u.Indices, src.Quotes, pacer(pacing.Indices), logger)
	s.forex = NewFetcher(models.AssetForex, u.Forex, src.Quotes, pacer(pacing.Forex), logger)
	s.crypto = NewFetcher(models.AssetCrypto, u.Crypto, src.Crypto, pacer(pacing.Crypto), logger)
	s.commodities = NewFetcher(models.AssetCommodity, u.Commodities, src.Quotes, pacer(pacing.Commodities), logger)

	stockFallback := NewFetcher(models.AssetStock, u.Stocks, src.Quotes, pacer(pacing.Stocks), logger)
	stocks := NewStockFetcher(src.Snapshots, stockFallback, stockSnapshotLimit, logger)

	s.movers = NewAggregator(
		[]MoverFetcher{stocks, s.crypto, s.forex, s.commodities},
		s.indices,
		logger,
	)

	s.forexHeatmap = NewHeatmapBuilder("forex", u.ForexHeatmap, src.Series, pacer(pacing.Heatmap), logger)
	s.cryptoHeatmap = NewHeatmapBuilder("crypto", u.CryptoHeatmap, src.Series, pacer(pacing.Heatmap), logger)

	s.jse = NewRegionalFetcher(NewFetcher(models.AssetStock, u.JSE, src.Quotes, pacer(pacing.Regional), logger), PrefixRand)
	s.us = NewRegionalFetcher(NewFetcher(models.AssetStock, u.US, src.Quotes, pacer(pacing.Regional), logger), PrefixDollar)

	return s
}

func (s *Service) Indices(ctx context.Context) ([]models.MarketQuote, error) {
	return cache.Fetch(ctx, s.cache, cache.KeyIndices, func(ctx context.Context) ([]models.MarketQuote, error) {
		return s.indices.Quotes(ctx).Items, nil
	})
}

func (s *Service) Forex(ctx context.Context) ([]models.ForexRate, error) {
	return cache.Fetch(ctx, s.cache, cache.KeyForex, func(ctx context.Context) ([]models.ForexRate, error) {
		return s.forex.Rates(ctx).Items, nil
	})
}

func (s *Service) Crypto(ctx context.Context) ([]models.MarketQuote, error) {
	return cache.Fetch(ctx, s.cache, cache.KeyCrypto, func(ctx context.Context) ([]models.MarketQuote, error) {
		return s.crypto.Quotes(ctx).Items, nil
	})
}

func (s *Service) Commodities(ctx context.Context) ([]models.MarketQuote, error) {
	return cache.Fetch(ctx, s.cache, cache.KeyCommodities, func(ctx context.Context) ([]models.MarketQuote, error) {
		return s.commodities.Quotes(ctx).Items, nil
	})
}

// ForexStrength is derived from the cached forex rates on every call.
func (s *Service) ForexStrength(ctx context.Context) (map[string]models.Strength, error) {
	rates, err := s.Forex(ctx)
	if err != nil {
		return nil, err
	}
	return CurrencyStrength(rates), nil
}

// AllMovers returns the ranked feed together with the symbols skipped while
// building it.
func (s *Service) AllMovers(ctx context.Context) (MoversReport, error) {
	return cache.Fetch(ctx, s.cache, cache.KeyAllMovers, func(ctx context.Context) (MoversReport, error) {
		return s.movers.TopMovers(ctx), nil
	})
}

func (s *Service) ForexHeatmap(ctx context.Context) (models.Heatmap, error) {
	return s.heatmap(ctx, cache.KeyForexHeatmap, s.forexHeatmap)
}

func (s *Service) CryptoHeatmap(ctx context.Context) (models.Heatmap, error) {
	return s.heatmap(ctx, cache.KeyCryptoHeatmap, s.cryptoHeatmap)
}

func (s *Service) heatmap(ctx context.Context, key cache.Key, b *HeatmapBuilder) (models.Heatmap, error) {
	return cache.Fetch(ctx, s.cache, key, func(ctx context.Context) (models.Heatmap, error) {
		hm, skipped := b.Build(ctx)
		if len(skipped) > 0 {
			s.logger.Info("heatmap built with null cells", "key", key, "skipped", len(skipped))
		}
		return hm, nil
	})
}

// EconomicCalendar fails when the provider fails; an outage is not cached.
func (s *Service) EconomicCalendar(ctx context.Context) ([]models.CalendarEvent, error) {
	return cache.Fetch(ctx, s.cache, cache.KeyEconomicCalendar, func(ctx context.Context) ([]models.CalendarEvent, error) {
		if s.calendar == nil {
			return nil, errors.New("no calendar source configured")
		}
		now := s.now()
		from, to := CalendarRange(now)
		raw, err := s.calendar.EconomicCalendar(ctx, from, to)
		if err != nil {
			return nil, fmt.Errorf("economic calendar: %w", err)
		}
		return NormalizeCalendar(raw, now), nil
	})
}

func (s *Service) JSEStocks(ctx context.Context) ([]models.RegionalStock, error) {
	return cache.Fetch(ctx, s.cache, cache.KeyJSEStocks, func(ctx context.Context) ([]models.RegionalStock, error) {
		return s.jse.Stocks(ctx).Items, nil
	})
}

func (s *Service) USStocks(ctx context.Context) ([]models.RegionalStock, error) {
	return cache.Fetch(ctx, s.cache, cache.KeyUSStocks, func(ctx context.Context) ([]models.RegionalStock, error) {
		return s.us.Stocks(ctx).Items, nil
	})
}

// SAMarkets composes the cached indices, forex and commodities in process.
func (s *Service) SAMarkets(ctx context.Context) (models.SAMarkets, error) {
	indices, err := s.Indices(ctx)
	if err != nil {
		return models.SAMarkets{}, fmt.Errorf("indices: %w", err)
	}
	forex, err := s.Forex(ctx)
	if err != nil {
		return models.SAMarkets{}, fmt.Errorf("forex: %w", err)
	}
	commodities, err := s.Commodities(ctx)
	if err != nil {
		return models.SAMarkets{}, fmt.Errorf("commodities: %w", err)
	}
	return ComposeSAMarkets(indices, forex, commodities, s.now()), nil
}

// News is passed through from the provider without caching.
func (s *Service) News(ctx context.Context) (json.RawMessage, error) {
	if s.news == nil {
		return nil, errors.New("no news source configured")
	}
	return s.news.GeneralNews(ctx)
}

// CacheStatus reports every cache entry for health checks.
func (s *Service) CacheStatus(ctx context.Context) []cache.EntryStatus {
	return s.cache.Status(ctx)
}

// CacheBackend names the cache store and reports whether it is reachable.
func (s *Service) CacheBackend(ctx context.Context) (string, error) {
	return s.cache.Backend(ctx)
}
