package market

import (
	"testing"

	"github.com/kjannette/pulse-backend/internal/models"
)

func TestCurrencyStrength(t *testing.T) {
	rates := []models.ForexRate{
		{Pair: "EUR/USD", Change: "+1.00%", ChangePercent: 1.0},
		{Pair: "GBP/USD", Change: "-1.00%", ChangePercent: -1.0},
	}
	scores := CurrencyScores(rates)

	usd := scores["USD"]
	if usd.Count != 2 || usd.Average != 0 || usd.Strength != models.StrengthNeutral {
		t.Fatalf("USD: %+v", usd)
	}
	if scores["EUR"].Strength != models.StrengthStrong {
		t.Fatalf("EUR: %+v", scores["EUR"])
	}
	if scores["GBP"].Strength != models.StrengthWeak {
		t.Fatalf("GBP: %+v", scores["GBP"])
	}

	labels := CurrencyStrength(rates)
	for _, code := range StrengthCurrencies {
		if _, ok := labels[code]; !ok {
			t.Fatalf("%s missing from result", code)
		}
	}
	if labels["JPY"] != models.StrengthNeutral || scores["JPY"].Count != 0 {
		t.Fatalf("absent currency should be neutral, got %s", labels["JPY"])
	}
}

func TestClassifyStrength_Boundaries(t *testing.T) {
	cases := map[float64]models.Strength{
		0.3:   models.StrengthStrong,
		0.29:  models.StrengthNeutral,
		-0.3:  models.StrengthWeak,
		-0.29: models.StrengthNeutral,
	}
	for avg, want := range cases {
		if got := ClassifyStrength(avg); got != want {
			t.Fatalf("ClassifyStrength(%v) = %s, want %s", avg, got, want)
		}
	}
}

func TestCurrencyScores_IgnoresMalformedPairs(t *testing.T) {
	scores := CurrencyScores([]models.ForexRate{{Pair: "EURUSD", ChangePercent: 5}})
	if scores["EUR"].Count != 0 {
		t.Fatalf("pair without separator must be ignored, got %+v", scores["EUR"])
	}
}
