package external

import (
	"context"
	"fmt"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"

	pm "github.com/kjannette/pulse-backend/internal/models"
)

// PolygonClient reads US stock gainers and losers snapshots.
type PolygonClient struct {
	rest *polygon.Client
}

// NewPolygonClient returns nil when no API key is configured.
func NewPolygonClient(opts Options) *PolygonClient {
	if opts.APIKey == "" {
		return nil
	}
	return &PolygonClient{rest: polygon.NewWithClient(opts.APIKey, opts.client())}
}

// StockMovers returns up to limit gainers followed by up to limit losers.
// A failed direction is reported only when both directions fail.
func (c *PolygonClient) StockMovers(ctx context.Context, limit int) ([]pm.StockSnapshot, error) {
	if c == nil {
		return nil, fmt.Errorf("polygon: %w", ErrNotConfigured)
	}

	var out []pm.StockSnapshot
	var errs []error
	for _, dir := range []models.Direction{models.Gainers, models.Losers} {
		snaps, err := c.direction(ctx, dir, limit)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, snaps...)
	}
	if len(errs) == 2 {
		return nil, fmt.Errorf("polygon movers: %w; %w", errs[0], errs[1])
	}
	return out, nil
}

func (c *PolygonClient) direction(ctx context.Context, dir models.Direction, limit int) ([]pm.StockSnapshot, error) {
	res, err := c.rest.GetGainersLosersSnapshot(ctx, &models.GetGainersLosersSnapshotParams{
		Locale:     models.US,
		MarketType: models.Stocks,
		Direction:  dir,
	})
	if err != nil {
		return nil, fmt.Errorf("polygon %s: %w", dir, err)
	}

	out := make([]pm.StockSnapshot, 0, limit)
	for _, t := range res.Tickers {
		if len(out) == limit {
			break
		}
		out = append(out, pm.StockSnapshot{
			Ticker:        t.Ticker,
			Close:         t.PrevDay.Close + t.TodaysChange,
			PreviousClose: t.PrevDay.Close,
		})
	}
	return out, nil
}
