package market

import (
	"strings"

	"github.com/kjannette/pulse-backend/internal/models"
)

// StrengthCurrencies is always reported, even when no pair mentions a code.
var StrengthCurrencies = []string{"USD", "EUR", "GBP", "JPY", "CHF", "CAD", "AUD", "NZD", "ZAR"}

const strengthThreshold = 0.3

// ClassifyStrength maps an average contribution to a label.
func ClassifyStrength(avg float64) models.Strength {
	switch {
	case avg >= strengthThreshold:
		return models.StrengthStrong
	case avg <= -strengthThreshold:
		return models.StrengthWeak
	default:
		return models.StrengthNeutral
	}
}

// CurrencyScores attributes each pair's change to its base currency and the
// negated change to its quote currency, then averages per currency.
func CurrencyScores(rates []models.ForexRate) map[string]models.CurrencyScore {
	scores := make(map[string]models.CurrencyScore, len(StrengthCurrencies))
	for _, code := range StrengthCurrencies {
		scores[code] = models.CurrencyScore{Strength: models.StrengthNeutral}
	}

	add := func(code string, v float64) {
		s := scores[code]
		s.Sum += v
		s.Count++
		scores[code] = s
	}
	for _, r := range rates {
		base, quote, ok := strings.Cut(r.Pair, "/")
		if !ok || !finite(r.ChangePercent) {
			continue
		}
		add(strings.ToUpper(strings.TrimSpace(base)), r.ChangePercent)
		add(strings.ToUpper(strings.TrimSpace(quote)), -r.ChangePercent)
	}

	for code, s := range scores {
		if s.Count > 0 {
			s.Average = s.Sum / float64(s.Count)
		}
		s.Strength = ClassifyStrength(s.Average)
		scores[code] = s
	}
	return scores
}

// CurrencyStrength returns only the label per currency.
func CurrencyStrength(rates []models.ForexRate) map[string]models.Strength {
	scores := CurrencyScores(rates)
	out := make(map[string]models.Strength, len(scores))
	for code, s := range scores {
		out[code] = s.Strength
	}
	return out
}
