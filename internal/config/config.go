package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/kjannette/pulse-backend/internal/models"
)

type Config struct {
	// Server
	Port            int
	CORSAllowOrigin string
	LogLevel        string

	// Provider keys (from .env)
	PolygonAPIKey   string
	FMPAPIKey       string
	FinnhubAPIKey   string
	CoinGeckoAPIKey string

	// Provider endpoints, empty means the provider default
	YahooBaseURL     string
	CoinGeckoBaseURL string
	FMPBaseURL       string
	FinnhubBaseURL   string

	// Outbound calls
	ProviderTimeout     time.Duration
	ProviderMaxAttempts int

	// Cache
	CacheTTLQuotes   time.Duration
	CacheTTLMovers   time.Duration
	CacheTTLHeatmap  time.Duration
	CacheTTLCalendar time.Duration
	RedisURL         string

	// Symbol universe override
	SymbolsFile string
	Symbols     models.Universe

	// Warmer and alerts
	WarmSchedule          string
	WarmOnStart           bool
	AlertWebhookURL       string
	AlertThresholdPercent float64
	BotName               string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:            envInt("PORT", 5000),
		CORSAllowOrigin: envStr("CORS_ALLOW_ORIGIN", "*"),
		LogLevel:        envStr("LOG_LEVEL", "info"),

		PolygonAPIKey:   envStr("POLYGON_API_KEY", ""),
		FMPAPIKey:       envStr("FMP_API_KEY", ""),
		FinnhubAPIKey:   envStr("FINNHUB_API_KEY", ""),
		CoinGeckoAPIKey: envStr("COINGECKO_API_KEY", ""),

		YahooBaseURL:     envStr("YAHOO_BASE_URL", ""),
		CoinGeckoBaseURL: envStr("COINGECKO_BASE_URL", ""),
		FMPBaseURL:       envStr("FMP_BASE_URL", ""),
		FinnhubBaseURL:   envStr("FINNHUB_BASE_URL", ""),

		ProviderTimeout:     envDuration("PROVIDER_TIMEOUT", 10*time.Second),
		ProviderMaxAttempts: envInt("PROVIDER_MAX_ATTEMPTS", 1),

		CacheTTLQuotes:   envDuration("CACHE_TTL_QUOTES", 60*time.Second),
		CacheTTLMovers:   envDuration("CACHE_TTL_MOVERS", 120*time.Second),
		CacheTTLHeatmap:  envDuration("CACHE_TTL_HEATMAP", 5*time.Minute),
		CacheTTLCalendar: envDuration("CACHE_TTL_CALENDAR", 6*time.Hour),
		RedisURL:         envStr("REDIS_URL", ""),

		SymbolsFile: envStr("SYMBOLS_FILE", ""),

		WarmSchedule:          envStr("WARM_SCHEDULE", ""),
		WarmOnStart:           envBool("WARM_ON_START", false),
		AlertWebhookURL:       envStr("ALERT_WEBHOOK_URL", ""),
		AlertThresholdPercent: envFloat("ALERT_THRESHOLD_PERCENT", 5),
		BotName:               envStr("BOT_NAME", "PulseMarkets"),
	}

	if cfg.SymbolsFile != "" {
		u, err := LoadSymbols(cfg.SymbolsFile)
		if err != nil {
			return nil, err
		}
		cfg.Symbols = u
	}

	return cfg, nil
}

// LoadSymbols reads a YAML symbol file. Sections left out stay empty so the
// caller's defaults apply.
func LoadSymbols(path string) (models.Universe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Universe{}, fmt.Errorf("read symbols file: %w", err)
	}
	var u models.Universe
	if err := yaml.Unmarshal(data, &u); err != nil {
		return models.Universe{}, fmt.Errorf("parse symbols file %s: %w", path, err)
	}
	return u, nil
}

func (c *Config) Validate() error {
	var errs []string

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Sprintf("PORT %d is out of range", c.Port))
	}
	if c.ProviderTimeout <= 0 {
		errs = append(errs, "PROVIDER_TIMEOUT must be positive")
	}
	if c.ProviderMaxAttempts < 1 {
		errs = append(errs, "PROVIDER_MAX_ATTEMPTS must be at least 1")
	}
	for name, ttl := range map[string]time.Duration{
		"CACHE_TTL_QUOTES":   c.CacheTTLQuotes,
		"CACHE_TTL_MOVERS":   c.CacheTTLMovers,
		"CACHE_TTL_HEATMAP":  c.CacheTTLHeatmap,
		"CACHE_TTL_CALENDAR": c.CacheTTLCalendar,
	} {
		if ttl <= 0 {
			errs = append(errs, name+" must be positive")
		}
	}
	if c.RedisURL != "" {
		if _, err := url.Parse(c.RedisURL); err != nil {
			errs = append(errs, "REDIS_URL is not a valid URL")
		}
	}
	if c.AlertThresholdPercent <= 0 {
		errs = append(errs, "ALERT_THRESHOLD_PERCENT must be positive")
	}

	for _, s := range symbolSections(c.Symbols) {
		for i, inst := range s.items {
			if inst.Name == "" || inst.Symbol == "" {
				errs = append(errs, fmt.Sprintf("symbols %s[%d] needs both name and symbol", s.name, i))
			}
		}
	}

	if c.PolygonAPIKey == "" {
		slog.Warn("POLYGON_API_KEY not set, stock movers fall back to the fixed stock list")
	}
	if c.FMPAPIKey == "" {
		slog.Warn("FMP_API_KEY not set, /api/economic-calendar will fail")
	}
	if c.FinnhubAPIKey == "" {
		slog.Warn("FINNHUB_API_KEY not set, /api/news will fail")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

func (c *Config) Print() {
	slog.Info("configuration",
		"port", c.Port,
		"corsAllowOrigin", c.CORSAllowOrigin,
		"logLevel", c.LogLevel,
		"polygon", keyLabel(c.PolygonAPIKey),
		"fmp", keyLabel(c.FMPAPIKey),
		"finnhub", keyLabel(c.FinnhubAPIKey),
		"coingecko", keyLabel(c.CoinGeckoAPIKey),
		"providerTimeout", c.ProviderTimeout,
		"providerMaxAttempts", c.ProviderMaxAttempts,
		"ttlQuotes", c.CacheTTLQuotes,
		"ttlMovers", c.CacheTTLMovers,
		"ttlHeatmap", c.CacheTTLHeatmap,
		"ttlCalendar", c.CacheTTLCalendar,
		"cacheStore", boolLabel(c.RedisURL != "", "redis", "memory"),
		"symbolsFile", boolLabel(c.SymbolsFile != "", c.SymbolsFile, "built-in"),
		"warmSchedule", boolLabel(c.WarmSchedule != "", c.WarmSchedule, "disabled"),
		"alerts", boolLabel(c.AlertWebhookURL != "", "enabled", "disabled"),
	)
}

type symbolSection struct {
	name  string
	items []models.Instrument
}

func symbolSections(u models.Universe) []symbolSection {
	return []symbolSection{
		{"stocks", u.Stocks},
		{"crypto", u.Crypto},
		{"forex", u.Forex},
		{"commodities", u.Commodities},
		{"indices", u.Indices},
		{"forexHeatmap", u.ForexHeatmap},
		{"cryptoHeatmap", u.CryptoHeatmap},
		{"jse", u.JSE},
		{"us", u.US},
	}
}

// --- helpers ---

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		v = strings.ToLower(v)
		return v == "true" || v == "1" || v == "yes"
	}
	return fallback
}

// envDuration accepts Go durations ("90s", "5m") or a bare number of seconds.
func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return fallback
}

func keyLabel(key string) string {
	return boolLabel(key != "", "configured", "not set")
}

func boolLabel(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
