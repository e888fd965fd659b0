package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kjannette/pulse-backend/internal/models"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "PROVIDER_TIMEOUT", "PROVIDER_MAX_ATTEMPTS", "CACHE_TTL_QUOTES", "CACHE_TTL_CALENDAR", "SYMBOLS_FILE", "ALERT_THRESHOLD_PERCENT"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 5000 || cfg.ProviderTimeout != 10*time.Second || cfg.ProviderMaxAttempts != 1 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.CacheTTLQuotes != time.Minute || cfg.CacheTTLCalendar != 6*time.Hour {
		t.Fatalf("unexpected ttl defaults %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestEnvDuration(t *testing.T) {
	t.Setenv("X_DUR", "90s")
	if d := envDuration("X_DUR", 0); d != 90*time.Second {
		t.Fatalf("got %s", d)
	}
	t.Setenv("X_DUR", "45")
	if d := envDuration("X_DUR", 0); d != 45*time.Second {
		t.Fatalf("bare seconds: got %s", d)
	}
	t.Setenv("X_DUR", "soon")
	if d := envDuration("X_DUR", time.Minute); d != time.Minute {
		t.Fatalf("fallback: got %s", d)
	}
}

func TestLoadSymbols(t *testing.T) {
	path := filepath.Join(t.TempDir(), "symbols.yaml")
	body := `
forex:
  - name: EUR/USD
    symbol: EURUSD=X
  - name: USD/ZAR
    symbol: USDZAR=X
jse:
  - name: Naspers
    symbol: NPN.JO
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("SYMBOLS_FILE", path)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Symbols.Forex) != 2 || cfg.Symbols.Forex[1].Symbol != "USDZAR=X" {
		t.Fatalf("forex: %+v", cfg.Symbols.Forex)
	}
	if len(cfg.Symbols.JSE) != 1 || len(cfg.Symbols.Crypto) != 0 {
		t.Fatalf("sections: %+v", cfg.Symbols)
	}
}

func TestLoadSymbols_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "symbols.yaml")
	os.WriteFile(path, []byte("forex: [unclosed"), 0o644)

	if _, err := LoadSymbols(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidate_CollectsErrors(t *testing.T) {
	cfg := &Config{
		Port:                  0,
		ProviderTimeout:       time.Second,
		ProviderMaxAttempts:   0,
		CacheTTLQuotes:        time.Second,
		CacheTTLMovers:        time.Second,
		CacheTTLHeatmap:       time.Second,
		CacheTTLCalendar:      0,
		AlertThresholdPercent: 5,
	}
	cfg.Symbols.US = []models.Instrument{{Name: "Apple"}}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"PORT", "PROVIDER_MAX_ATTEMPTS", "CACHE_TTL_CALENDAR", "symbols us[0]"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q should mention %s", err, want)
		}
	}
}
