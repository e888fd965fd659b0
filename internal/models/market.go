package models

import "math"

// AssetType tags which asset class a mover came from.
type AssetType string

const (
	AssetStock     AssetType = "Stock"
	AssetCrypto    AssetType = "Crypto"
	AssetForex     AssetType = "Forex"
	AssetCommodity AssetType = "Commodity"
	AssetIndex     AssetType = "Index"
)

// Trend is the direction of a price change. Zero counts as positive.
type Trend string

const (
	TrendPositive Trend = "positive"
	TrendNegative Trend = "negative"
)

// TrendOf returns the trend for a percent change.
func TrendOf(percent float64) Trend {
	if percent >= 0 {
		return TrendPositive
	}
	return TrendNegative
}

// Instrument maps a display name to the provider symbol used to fetch it.
type Instrument struct {
	Name   string `json:"name" yaml:"name"`
	Symbol string `json:"symbol" yaml:"symbol"`
}

// PriceSeries holds ordered closes for one symbol, oldest first.
// Gaps reported by the provider are already removed.
type PriceSeries struct {
	Symbol   string
	Interval string
	Range    string
	Closes   []float64
}

// Len returns the number of usable samples.
func (s PriceSeries) Len() int { return len(s.Closes) }

// Last returns the sample offset positions back from the newest one
// (offset 1 is the newest). ok is false when the series is too short.
func (s PriceSeries) Last(offset int) (float64, bool) {
	if offset < 1 || offset > len(s.Closes) {
		return 0, false
	}
	return s.Closes[len(s.Closes)-offset], true
}

// Quote is a snapshot (close, previousClose) for one symbol.
type Quote struct {
	Symbol        string
	Close         float64
	PreviousClose float64
	Currency      string
}

// Valid reports whether the quote can be used for a change computation.
func (q Quote) Valid() bool {
	return finite(q.Close) && finite(q.PreviousClose) && q.PreviousClose != 0
}

// ChangeResult is a computed percent change and its direction.
type ChangeResult struct {
	Percent   float64 `json:"percent"`
	Direction Trend   `json:"direction"`
}

// Mover is the canonical cross-asset mover record. Symbol is the identity key.
type Mover struct {
	Name       string    `json:"name"`
	Symbol     string    `json:"symbol"`
	Change     string    `json:"change"`
	RawPercent float64   `json:"rawChange"`
	AssetType  AssetType `json:"type"`
	Trend      Trend     `json:"trend"`
}

// AbsPercent is the magnitude used for ranking and deduplication.
func (m Mover) AbsPercent() float64 { return math.Abs(m.RawPercent) }

// MarketQuote is the per-class record served by the indices, crypto and
// commodities endpoints.
type MarketQuote struct {
	Name          string  `json:"name"`
	Symbol        string  `json:"symbol"`
	Price         float64 `json:"price"`
	Change        string  `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	Trend         Trend   `json:"trend"`
}

// ForexRate is the per-pair record served by the forex endpoint.
type ForexRate struct {
	Pair          string  `json:"pair"`
	Symbol        string  `json:"symbol"`
	Rate          float64 `json:"rate"`
	Change        string  `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	Trend         Trend   `json:"trend"`
}

// StockSnapshot is a provider snapshot used by the stock movers fetcher.
type StockSnapshot struct {
	Ticker        string
	Close         float64
	PreviousClose float64
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
