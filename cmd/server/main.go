package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kjannette/pulse-backend/internal/api"
	"github.com/kjannette/pulse-backend/internal/cache"
	"github.com/kjannette/pulse-backend/internal/config"
	"github.com/kjannette/pulse-backend/internal/external"
	"github.com/kjannette/pulse-backend/internal/httputil"
	"github.com/kjannette/pulse-backend/internal/logging"
	"github.com/kjannette/pulse-backend/internal/market"
	"github.com/kjannette/pulse-backend/internal/notifications"
	"github.com/kjannette/pulse-backend/internal/scheduler"
)

const banner = `
╔══════════════════════════════════════╗
║       PULSE Market Data API v0.3     ║
║                                      ║
╚══════════════════════════════════════╝
`

func main() {
	fmt.Print(banner)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	cfg.Print()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Cache store
	var store cache.Store = cache.NewMemoryStore()
	if cfg.RedisURL != "" {
		rs, err := cache.NewRedisStore(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error("redis unavailable", "error", err)
			os.Exit(1)
		}
		defer rs.Close()
		store = rs
	}
	ttls := cache.TTLConfig{
		Quotes:   cfg.CacheTTLQuotes,
		Movers:   cfg.CacheTTLMovers,
		Heatmap:  cfg.CacheTTLHeatmap,
		Calendar: cfg.CacheTTLCalendar,
	}
	c := cache.New(store, ttls.Table(), time.Now, logger)

	// Providers
	retry := httputil.DefaultRetry
	retry.MaxAttempts = cfg.ProviderMaxAttempts
	opts := func(baseURL, apiKey string) external.Options {
		return external.Options{BaseURL: baseURL, APIKey: apiKey, Timeout: cfg.ProviderTimeout, Retry: retry}
	}

	yahoo := external.NewYahooClient(opts(cfg.YahooBaseURL, ""))
	src := market.Sources{
		Quotes:   yahoo,
		Series:   yahoo,
		Crypto:   external.NewCoinGeckoClient(opts(cfg.CoinGeckoBaseURL, cfg.CoinGeckoAPIKey)),
		Calendar: external.NewFMPClient(opts(cfg.FMPBaseURL, cfg.FMPAPIKey)),
		News:     external.NewFinnhubClient(opts(cfg.FinnhubBaseURL, cfg.FinnhubAPIKey)),
	}
	if polygon := external.NewPolygonClient(opts("", cfg.PolygonAPIKey)); polygon != nil {
		src.Snapshots = polygon
	}

	universe := market.DefaultUniverse().Merge(cfg.Symbols)
	svc := market.NewService(c, src, universe, market.DefaultPacing, time.Now, logger)

	// 1. API server
	srv := api.NewServer(svc, cfg.Port, cfg.CORSAllowOrigin, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// 2. Cache warmer and mover alerts
	notify := notifications.NewSender(cfg.AlertWebhookURL, cfg.BotName, logger)
	warmer := scheduler.NewWarmer(svc, notify, scheduler.WarmerConfig{
		Schedule:         cfg.WarmSchedule,
		ThresholdPercent: cfg.AlertThresholdPercent,
	}, logger)
	if err := warmer.Start(); err != nil {
		logger.Error("warmer start failed", "error", err)
		os.Exit(1)
	}
	if cfg.WarmOnStart {
		go func() {
			warmCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
			defer cancel()
			if err := warmer.RunNow(warmCtx); err != nil {
				logger.Warn("initial warm failed", "error", err)
			}
		}()
	}

	logger.Info("all services started")

	// Wait for shutdown signal
	<-ctx.Done()
	logger.Info("shutting down gracefully")

	warmer.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	logger.Info("shutdown complete")
}
