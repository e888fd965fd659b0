// Package market turns raw provider samples into the normalized records
// served by the API: per-class quotes, the ranked movers feed, heatmaps,
// currency strength and the economic calendar.
package market

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"

	"github.com/kjannette/pulse-backend/internal/models"
)

// ErrInvalidChange is returned by Change when no percent change can be computed.
var ErrInvalidChange = errors.New("invalid price change")

// PercentChange returns (current-previous)/previous*100, or NaN when
// previous is zero, either input is not finite, or the result is not finite.
// The value is never rounded.
func PercentChange(current, previous float64) float64 {
	if previous == 0 || !finite(current) || !finite(previous) {
		return math.NaN()
	}
	p := (current - previous) / previous * 100
	if !finite(p) {
		return math.NaN()
	}
	return p
}

// Valid reports whether p is a usable percent change.
func Valid(p float64) bool { return finite(p) }

// Change is PercentChange with an explicit error for invalid input.
func Change(current, previous float64) (models.ChangeResult, error) {
	p := PercentChange(current, previous)
	if !Valid(p) {
		return models.ChangeResult{}, ErrInvalidChange
	}
	return models.ChangeResult{Percent: p, Direction: models.TrendOf(p)}, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// round2 rounds half away from zero to two decimals.
func round2(f float64) float64 {
	return decimal.NewFromFloat(f).Round(2).InexactFloat64()
}
