package market

import "github.com/kjannette/pulse-backend/internal/models"

func in(pairs ...string) []models.Instrument {
	out := make([]models.Instrument, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, models.Instrument{Name: pairs[i], Symbol: pairs[i+1]})
	}
	return out
}

// DefaultUniverse is the built-in symbol set. Crypto symbols are CoinGecko
// ids; everything else is a Yahoo chart symbol.
func DefaultUniverse() models.Universe {
	return models.Universe{
		Stocks: in(
			"Apple", "AAPL",
			"Microsoft", "MSFT",
			"NVIDIA", "NVDA",
			"Amazon", "AMZN",
			"Alphabet", "GOOGL",
			"Meta", "META",
			"Tesla", "TSLA",
		),
		Crypto: in(
			"Bitcoin", "bitcoin",
			"Ethereum", "ethereum",
			"Solana", "solana",
			"XRP", "ripple",
			"BNB", "binancecoin",
			"Cardano", "cardano",
			"Dogecoin", "dogecoin",
		),
		Forex: in(
			"EUR/USD", "EURUSD=X",
			"GBP/USD", "GBPUSD=X",
			"USD/JPY", "USDJPY=X",
			"USD/ZAR", "USDZAR=X",
			"AUD/USD", "AUDUSD=X",
			"USD/CHF", "USDCHF=X",
			"USD/CAD", "USDCAD=X",
			"NZD/USD", "NZDUSD=X",
			"EUR/GBP", "EURGBP=X",
		),
		Commodities: in(
			"Gold", "GC=F",
			"Silver", "SI=F",
			"Platinum", "PL=F",
			"Palladium", "PA=F",
			"Crude Oil", "CL=F",
			"Brent Crude", "BZ=F",
			"Natural Gas", "NG=F",
			"Copper", "HG=F",
		),
		Indices: in(
			"S&P 500", "^GSPC",
			"Dow Jones", "^DJI",
			"NASDAQ", "^IXIC",
			"FTSE 100", "^FTSE",
			"DAX", "^GDAXI",
			"Nikkei 225", "^N225",
			"JSE Top 40", "^J200.JO",
			"JSE All Share", "^J203.JO",
		),
		ForexHeatmap: in(
			"EUR/USD", "EURUSD=X",
			"GBP/USD", "GBPUSD=X",
			"USD/JPY", "USDJPY=X",
			"USD/ZAR", "USDZAR=X",
			"AUD/USD", "AUDUSD=X",
			"USD/CHF", "USDCHF=X",
			"XAU/USD", "GC=F",
			"XAG/USD", "SI=F",
		),
		CryptoHeatmap: in(
			"BTC", "BTC-USD",
			"ETH", "ETH-USD",
			"SOL", "SOL-USD",
			"XRP", "XRP-USD",
			"BNB", "BNB-USD",
			"ADA", "ADA-USD",
			"DOGE", "DOGE-USD",
		),
		JSE: in(
			"Naspers", "NPN.JO",
			"Prosus", "PRX.JO",
			"Standard Bank", "SBK.JO",
			"FirstRand", "FSR.JO",
			"MTN Group", "MTN.JO",
			"Anglo American", "AGL.JO",
			"BHP Group", "BHG.JO",
			"Sasol", "SOL.JO",
			"Richemont", "CFR.JO",
			"Shoprite", "SHP.JO",
		),
		US: in(
			"Apple", "AAPL",
			"Microsoft", "MSFT",
			"NVIDIA", "NVDA",
			"Amazon", "AMZN",
			"Alphabet", "GOOGL",
			"Meta", "META",
			"Tesla", "TSLA",
		),
	}
}
