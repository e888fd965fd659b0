package models

// Timeframe is a heatmap column.
type Timeframe string

const (
	Timeframe1H Timeframe = "1h"
	Timeframe4H Timeframe = "4h"
	Timeframe1D Timeframe = "1d"
	Timeframe1W Timeframe = "1w"
)

// Timeframes is the fixed column order of every heatmap.
var Timeframes = []Timeframe{Timeframe1H, Timeframe4H, Timeframe1D, Timeframe1W}

// HeatmapCell is a percent change, nil when it could not be computed.
type HeatmapCell = *float64

// HeatmapRow holds one cell per timeframe. Every timeframe key is present.
type HeatmapRow map[Timeframe]HeatmapCell

// Heatmap maps a display symbol to its row. Every configured symbol is present.
type Heatmap map[string]HeatmapRow

// NewHeatmapRow returns a row with every timeframe set to null.
func NewHeatmapRow() HeatmapRow {
	row := make(HeatmapRow, len(Timeframes))
	for _, tf := range Timeframes {
		row[tf] = nil
	}
	return row
}
