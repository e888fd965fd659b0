package market

import (
	"strings"
	"time"

	"github.com/kjannette/pulse-backend/internal/models"
)

var saCommodities = map[string]bool{"GC=F": true, "PL=F": true, "PA=F": true, "SI=F": true}

// ComposeSAMarkets reshapes already fetched class data into the South Africa
// view: JSE indices, rand pairs, precious metals and scheduled local events.
func ComposeSAMarkets(indices []models.MarketQuote, forex []models.ForexRate, commodities []models.MarketQuote, now time.Time) models.SAMarkets {
	out := models.SAMarkets{
		JSE:            []models.MarketQuote{},
		Rand:           []models.ForexRate{},
		Commodities:    []models.MarketQuote{},
		UpcomingEvents: upcomingSAEvents(now),
	}
	for _, q := range indices {
		if strings.HasSuffix(q.Symbol, ".JO") || strings.Contains(q.Name, "JSE") {
			out.JSE = append(out.JSE, q)
		}
	}
	for _, r := range forex {
		if strings.Contains(r.Pair, "ZAR") {
			out.Rand = append(out.Rand, r)
		}
	}
	for _, c := range commodities {
		if saCommodities[c.Symbol] {
			out.Commodities = append(out.Commodities, c)
		}
	}
	return out
}

// upcomingSAEvents is a placeholder schedule until a local calendar feed exists.
func upcomingSAEvents(now time.Time) []models.UpcomingEvent {
	day := startOfDay(now)
	return []models.UpcomingEvent{
		{Date: day.AddDate(0, 0, 3).Format("2006-01-02"), Event: "SA CPI Release"},
		{Date: day.AddDate(0, 0, 10).Format("2006-01-02"), Event: "SARB Interest Rate Decision"},
		{Date: day.AddDate(0, 0, 14).Format("2006-01-02"), Event: "SA Retail Sales"},
	}
}
