package market

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kjannette/pulse-backend/internal/models"
	"github.com/kjannette/pulse-backend/internal/ratelimit"
)

// timeframeQuery is the series request and baseline offset for one column.
// Offsets count back from the newest sample; 0 means the previous sample.
// They approximate the wall-clock window from the provider's sampling rate
// and are not exact.
type timeframeQuery struct {
	Interval string
	Range    string
	Offset   int
}

var timeframeQueries = map[models.Timeframe]timeframeQuery{
	models.Timeframe1H: {Interval: "5m", Range: "1d", Offset: 13},
	models.Timeframe4H: {Interval: "15m", Range: "5d", Offset: 17},
	models.Timeframe1D: {Interval: "1d", Range: "5d"},
	models.Timeframe1W: {Interval: "1d", Range: "1mo", Offset: 8},
}

const defaultOffset = 2

// baseline picks the comparison sample, using the deeper offset only when
// the series is long enough for it.
func baseline(series models.PriceSeries, offset int) (float64, bool) {
	if offset > defaultOffset {
		if v, ok := series.Last(offset); ok {
			return v, true
		}
	}
	return series.Last(defaultOffset)
}

// HeatmapCellFor computes one cell, or nil when the series cannot support it.
func HeatmapCellFor(series models.PriceSeries, offset int) models.HeatmapCell {
	current, ok := series.Last(1)
	if !ok {
		return nil
	}
	previous, ok := baseline(series, offset)
	if !ok {
		return nil
	}
	p := PercentChange(current, previous)
	if !Valid(p) {
		return nil
	}
	p = round2(p)
	return &p
}

// HeatmapBuilder fills a symbol by timeframe grid from price series.
type HeatmapBuilder struct {
	instruments []models.Instrument
	source      SeriesSource
	pacer       ratelimit.Pacer
	logger      *slog.Logger
}

func NewHeatmapBuilder(name string, instruments []models.Instrument, source SeriesSource, pacer ratelimit.Pacer, logger *slog.Logger) *HeatmapBuilder {
	if pacer == nil {
		pacer = ratelimit.Unlimited{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &HeatmapBuilder{
		instruments: instruments,
		source:      source,
		pacer:       pacer,
		logger:      logger.With("component", "heatmap", "heatmap", name),
	}
}

// Build returns a row for every instrument, keyed by display name, with a
// cell for every timeframe. Cells that fail stay null.
func (h *HeatmapBuilder) Build(ctx context.Context) (models.Heatmap, []Skip) {
	heatmap := make(models.Heatmap, len(h.instruments))
	for _, inst := range h.instruments {
		heatmap[inst.Name] = models.NewHeatmapRow()
	}
	b := newBatch[struct{}](0)

	for _, inst := range h.instruments {
		row := heatmap[inst.Name]
		for _, tf := range models.Timeframes {
			q := timeframeQueries[tf]
			label := fmt.Sprintf("%s@%s", inst.Symbol, tf)

			if err := h.pacer.Wait(ctx); err != nil {
				b.skip(h.logger, label, err)
				continue
			}
			series, err := h.source.Series(ctx, inst.Symbol, q.Interval, q.Range)
			if err != nil {
				b.skip(h.logger, label, err)
				continue
			}
			row[tf] = HeatmapCellFor(series, q.Offset)
		}
	}
	return heatmap, b.Skipped
}
