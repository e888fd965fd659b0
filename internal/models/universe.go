package models

// Universe is the set of instruments each fetcher iterates.
// Order within a section is the fetch order.
type Universe struct {
	Stocks        []Instrument `yaml:"stocks"`
	Crypto        []Instrument `yaml:"crypto"`
	Forex         []Instrument `yaml:"forex"`
	Commodities   []Instrument `yaml:"commodities"`
	Indices       []Instrument `yaml:"indices"`
	ForexHeatmap  []Instrument `yaml:"forexHeatmap"`
	CryptoHeatmap []Instrument `yaml:"cryptoHeatmap"`
	JSE           []Instrument `yaml:"jse"`
	US            []Instrument `yaml:"us"`
}

// Merge returns u with every non-empty section of o replacing u's section.
func (u Universe) Merge(o Universe) Universe {
	pick := func(base, over []Instrument) []Instrument {
		if len(over) > 0 {
			return over
		}
		return base
	}
	return Universe{
		Stocks:        pick(u.Stocks, o.Stocks),
		Crypto:        pick(u.Crypto, o.Crypto),
		Forex:         pick(u.Forex, o.Forex),
		Commodities:   pick(u.Commodities, o.Commodities),
		Indices:       pick(u.Indices, o.Indices),
		ForexHeatmap:  pick(u.ForexHeatmap, o.ForexHeatmap),
		CryptoHeatmap: pick(u.CryptoHeatmap, o.CryptoHeatmap),
		JSE:           pick(u.JSE, o.JSE),
		US:            pick(u.US, o.US),
	}
}
