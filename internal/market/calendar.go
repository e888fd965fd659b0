package market

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kjannette/pulse-backend/internal/models"
)

const (
	calendarWindow = 7 * 24 * time.Hour
	calendarLimit  = 100
)

var highImpactKeywords = []string{
	"interest rate", "rate decision", "nonfarm", "non-farm", "cpi", "gdp",
	"fomc", "unemployment rate", "employment change",
}

var mediumImpactKeywords = []string{
	"pmi", "retail sales", "ppi", "trade balance", "industrial production",
	"consumer confidence", "housing", "jobless claims",
}

// Importance uses the provider's impact when it is one of the known levels,
// otherwise it matches keywords in the event title.
func Importance(impact, title string) models.Importance {
	switch strings.ToLower(strings.TrimSpace(impact)) {
	case "high":
		return models.ImportanceHigh
	case "medium":
		return models.ImportanceMedium
	case "low":
		return models.ImportanceLow
	}

	t := strings.ToLower(title)
	for _, kw := range highImpactKeywords {
		if strings.Contains(t, kw) {
			return models.ImportanceHigh
		}
	}
	for _, kw := range mediumImpactKeywords {
		if strings.Contains(t, kw) {
			return models.ImportanceMedium
		}
	}
	return models.ImportanceLow
}

// CalendarRange is the provider query window for a given moment.
func CalendarRange(now time.Time) (from, to time.Time) {
	from = startOfDay(now)
	return from, from.Add(calendarWindow)
}

// NormalizeCalendar keeps events from the start of today (UTC) onward,
// sorts them by time and caps the list.
func NormalizeCalendar(raw []models.RawCalendarEvent, now time.Time) []models.CalendarEvent {
	from, to := CalendarRange(now)

	kept := make([]models.RawCalendarEvent, 0, len(raw))
	for _, ev := range raw {
		if ev.Time.Before(from) || !ev.Time.Before(to) {
			continue
		}
		kept = append(kept, ev)
	}
	slices.SortStableFunc(kept, func(a, b models.RawCalendarEvent) int {
		return cmp.Compare(a.Time.UnixNano(), b.Time.UnixNano())
	})
	if len(kept) > calendarLimit {
		kept = kept[:calendarLimit]
	}

	out := make([]models.CalendarEvent, 0, len(kept))
	for _, ev := range kept {
		t := ev.Time.UTC()
		out = append(out, models.CalendarEvent{
			Date:       t.Format("2006-01-02"),
			Time:       t.Format("15:04"),
			Country:    ev.Country,
			Event:      ev.Event,
			Actual:     formatValue(ev.Actual),
			Forecast:   formatValue(ev.Forecast),
			Previous:   formatValue(ev.Previous),
			Importance: Importance(ev.Impact, ev.Event),
			Currency:   ev.Currency,
		})
	}
	return out
}

func formatValue(v *float64) string {
	if v == nil || !finite(*v) {
		return ""
	}
	return decimal.NewFromFloat(*v).String()
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
