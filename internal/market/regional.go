package market

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/kjannette/pulse-backend/internal/models"
)

// Currency prefixes for regional price strings.
const (
	PrefixRand   = "R"
	PrefixDollar = "$"
)

// RegionalFetcher quotes a fixed list of local equities and renders prices
// with a currency prefix.
type RegionalFetcher struct {
	fetcher *Fetcher
	prefix  string
}

func NewRegionalFetcher(fetcher *Fetcher, prefix string) *RegionalFetcher {
	return &RegionalFetcher{fetcher: fetcher, prefix: prefix}
}

func (r *RegionalFetcher) Stocks(ctx context.Context) Batch[models.RegionalStock] {
	return mapBatch(r.fetcher.Fetch(ctx), func(p Priced) models.RegionalStock {
		return models.RegionalStock{
			Name:          p.Name,
			Symbol:        p.Symbol,
			Price:         r.prefix + displayPrice(p.Close, p.Currency),
			Change:        FormatPercent(p.Percent),
			ChangePercent: round2(p.Percent),
			Trend:         models.TrendOf(p.Percent),
		}
	})
}

// displayPrice converts sub-unit quotes (JSE reports cents as ZAc) to the
// main unit and fixes two decimals.
func displayPrice(close float64, currency string) string {
	d := decimal.NewFromFloat(close)
	switch currency {
	case "ZAc", "GBp", "GBX":
		d = d.Div(decimal.NewFromInt(100))
	}
	return d.StringFixed(2)
}
