package models

import "time"

// Importance of an economic event.
type Importance string

const (
	ImportanceHigh   Importance = "High"
	ImportanceMedium Importance = "Medium"
	ImportanceLow    Importance = "Low"
)

// RawCalendarEvent is a provider calendar row before normalization.
// Nil values mean the provider did not report them.
type RawCalendarEvent struct {
	Time     time.Time
	Country  string
	Event    string
	Currency string
	Actual   *float64
	Forecast *float64
	Previous *float64
	Impact   string
}

// CalendarEvent is the normalized record served by the calendar endpoint.
type CalendarEvent struct {
	Date       string     `json:"date"`
	Time       string     `json:"time"`
	Country    string     `json:"country"`
	Event      string     `json:"event"`
	Actual     string     `json:"actual"`
	Forecast   string     `json:"forecast"`
	Previous   string     `json:"previous"`
	Importance Importance `json:"importance"`
	Currency   string     `json:"currency"`
}
