package models

// Strength classifies a currency from its average pair contribution.
type Strength string

const (
	StrengthStrong  Strength = "Strong"
	StrengthWeak    Strength = "Weak"
	StrengthNeutral Strength = "Neutral"
)

// CurrencyScore is the accumulated contribution of one currency.
type CurrencyScore struct {
	Sum      float64  `json:"sum"`
	Count    int      `json:"count"`
	Average  float64  `json:"average"`
	Strength Strength `json:"strength"`
}
