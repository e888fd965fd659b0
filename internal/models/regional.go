package models

// RegionalStock is a snapshot served by the JSE and US equity endpoints.
type RegionalStock struct {
	Name          string  `json:"name"`
	Symbol        string  `json:"symbol"`
	Price         string  `json:"price"`
	Change        string  `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	Trend         Trend   `json:"trend"`
}

// UpcomingEvent is a scheduled local market event.
type UpcomingEvent struct {
	Date  string `json:"date"`
	Event string `json:"event"`
}

// SAMarkets is the South Africa focused composition.
type SAMarkets struct {
	JSE            []MarketQuote   `json:"jse"`
	Rand           []ForexRate     `json:"rand"`
	Commodities    []MarketQuote   `json:"commodities"`
	UpcomingEvents []UpcomingEvent `json:"upcomingEvents"`
}
