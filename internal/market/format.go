package market

import (
	"fmt"

	"github.com/kjannette/pulse-backend/internal/models"
)

// FormatPercent renders a signed two-decimal percent string.
// Zero and positive values get a leading "+".
func FormatPercent(p float64) string {
	if p == 0 {
		p = 0 // drop the sign of -0
	}
	if p >= 0 {
		return fmt.Sprintf("+%.2f%%", p)
	}
	return fmt.Sprintf("%.2f%%", p)
}

// FormatMover builds the canonical mover record. The raw percent is kept
// unrounded for ranking.
func FormatMover(name, symbol string, percent float64, assetType models.AssetType) models.Mover {
	return models.Mover{
		Name:       name,
		Symbol:     symbol,
		Change:     FormatPercent(percent),
		RawPercent: percent,
		AssetType:  assetType,
		Trend:      models.TrendOf(percent),
	}
}
