package market

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/kjannette/pulse-backend/internal/cache"
	"github.com/kjannette/pulse-backend/internal/logging"
	"github.com/kjannette/pulse-backend/internal/models"
)

type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time { return c.now }

func testUniverse() models.Universe {
	return models.Universe{
		Stocks:      []models.Instrument{{Name: "Apple", Symbol: "AAPL"}},
		Crypto:      []models.Instrument{{Name: "Bitcoin", Symbol: "bitcoin"}},
		Forex:       []models.Instrument{{Name: "EUR/USD", Symbol: "EURUSD=X"}, {Name: "USD/ZAR", Symbol: "USDZAR=X"}},
		Commodities: []models.Instrument{{Name: "Gold", Symbol: "GC=F"}},
		Indices:     []models.Instrument{{Name: "JSE All Share", Symbol: "^J203.JO"}},
		JSE:         []models.Instrument{{Name: "Naspers", Symbol: "NPN.JO"}},
		US:          []models.Instrument{{Name: "Apple", Symbol: "AAPL"}},
		ForexHeatmap: []models.Instrument{
			{Name: "EUR/USD", Symbol: "EURUSD=X"},
		},
	}
}

type serviceFixture struct {
	svc    *Service
	quotes *fakeQuotes
	crypto *fakeQuotes
	clock  *testClock
}

func newServiceFixture(cal CalendarSource) *serviceFixture {
	clock := &testClock{now: time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)}
	quotes := &fakeQuotes{quotes: map[string]models.Quote{
		"AAPL":     quote(99, 100),
		"EURUSD=X": quote(1.01, 1.0),
		"USDZAR=X": quote(18.0, 18.9),
		"GC=F":     quote(2100, 2000),
		"^J203.JO": quote(101, 100),
		"NPN.JO":   {Close: 350000, PreviousClose: 350000, Currency: "ZAc"},
	}}
	crypto := &fakeQuotes{quotes: map[string]models.Quote{"bitcoin": quote(70000, 70700)}}

	c := cache.New(cache.NewMemoryStore(), cache.DefaultTTLConfig.Table(), clock.Now, logging.Discard())
	src := Sources{
		Quotes:    quotes,
		Crypto:    crypto,
		Series:    fakeSeries{"EURUSD=X|1d": {1.0, 1.01}},
		Snapshots: fakeSnapshots{snaps: []models.StockSnapshot{{Ticker: "TSLA", Close: 120, PreviousClose: 100}}},
		Calendar:  cal,
		News:      fakeNews(`[{"headline":"x"}]`),
	}
	svc := NewService(c, src, testUniverse(), Pacing{}, clock.Now, logging.Discard())
	return &serviceFixture{svc: svc, quotes: quotes, crypto: crypto, clock: clock}
}

func TestService_CacheReuseWhenProviderFails(t *testing.T) {
	fx := newServiceFixture(nil)
	ctx := context.Background()

	first, err := fx.svc.Indices(ctx)
	if err != nil || len(first) != 1 {
		t.Fatalf("first call: %+v %v", first, err)
	}

	fx.quotes.setFail(true)
	calls := fx.quotes.callCount()

	second, err := fx.svc.Indices(ctx)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if fx.quotes.callCount() != calls {
		t.Fatal("second call within TTL reached the provider")
	}

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Fatalf("payloads differ:\n%s\n%s", a, b)
	}

	fx.clock.now = fx.clock.now.Add(61 * time.Second)
	third, err := fx.svc.Indices(ctx)
	if err != nil || len(third) != 0 {
		t.Fatalf("after expiry a failed run is an empty list, got %+v %v", third, err)
	}
}

func TestService_AllMovers(t *testing.T) {
	fx := newServiceFixture(nil)

	report, err := fx.svc.AllMovers(context.Background())
	if err != nil {
		t.Fatalf("AllMovers: %v", err)
	}
	// TSLA +20, EUR/USD +1, USD/ZAR -4.76, Gold +5, BTC -0.99, JSE +1
	if len(report.Movers) != 6 {
		t.Fatalf("expected 6 movers, got %+v", report.Movers)
	}
	if report.Movers[0].Symbol != "TSLA" || report.Movers[1].Symbol != "GC=F" || report.Movers[2].Symbol != "USDZAR=X" {
		t.Fatalf("unexpected ranking %+v", report.Movers)
	}
}

func TestService_ForexStrengthAndSAMarkets(t *testing.T) {
	fx := newServiceFixture(nil)
	ctx := context.Background()

	strength, err := fx.svc.ForexStrength(ctx)
	if err != nil {
		t.Fatalf("ForexStrength: %v", err)
	}
	if strength["EUR"] != models.StrengthStrong || strength["ZAR"] != models.StrengthStrong || strength["CHF"] != models.StrengthNeutral {
		t.Fatalf("unexpected strength %v", strength)
	}

	sa, err := fx.svc.SAMarkets(ctx)
	if err != nil {
		t.Fatalf("SAMarkets: %v", err)
	}
	if len(sa.JSE) != 1 || len(sa.Rand) != 1 || len(sa.Commodities) != 1 {
		t.Fatalf("unexpected composition %+v", sa)
	}
}

func TestService_HeatmapAndRegional(t *testing.T) {
	fx := newServiceFixture(nil)
	ctx := context.Background()

	hm, err := fx.svc.ForexHeatmap(ctx)
	if err != nil {
		t.Fatalf("ForexHeatmap: %v", err)
	}
	row := hm["EUR/USD"]
	if row[models.Timeframe1D] == nil || *row[models.Timeframe1D] != 1 {
		t.Fatalf("1d cell: %v", row[models.Timeframe1D])
	}
	if row[models.Timeframe1H] != nil {
		t.Fatalf("1h series is missing, cell should be null")
	}

	crypto, err := fx.svc.CryptoHeatmap(ctx)
	if err != nil || crypto == nil || len(crypto) != 0 {
		t.Fatalf("empty crypto heatmap expected, got %v %v", crypto, err)
	}

	jse, err := fx.svc.JSEStocks(ctx)
	if err != nil || len(jse) != 1 || jse[0].Price != "R3500.00" {
		t.Fatalf("jse: %+v %v", jse, err)
	}
	us, err := fx.svc.USStocks(ctx)
	if err != nil || len(us) != 1 || us[0].Price != "$99.00" {
		t.Fatalf("us: %+v %v", us, err)
	}
}

func TestService_EconomicCalendar(t *testing.T) {
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	cal := &fakeCalendar{events: []models.RawCalendarEvent{
		{Time: now.Add(time.Hour), Event: "FOMC Minutes", Country: "US", Currency: "USD"},
	}}
	fx := newServiceFixture(cal)

	events, err := fx.svc.EconomicCalendar(context.Background())
	if err != nil || len(events) != 1 || events[0].Importance != models.ImportanceHigh {
		t.Fatalf("calendar: %+v %v", events, err)
	}
}

func TestService_EconomicCalendarErrorNotCached(t *testing.T) {
	cal := &fakeCalendar{err: errProviderDown}
	fx := newServiceFixture(cal)

	if _, err := fx.svc.EconomicCalendar(context.Background()); err == nil {
		t.Fatal("expected provider error")
	}
	cal.err = nil
	events, err := fx.svc.EconomicCalendar(context.Background())
	if err != nil || events == nil {
		t.Fatalf("expected recovery on next call, got %v %v", events, err)
	}
}

func TestService_News(t *testing.T) {
	fx := newServiceFixture(nil)
	raw, err := fx.svc.News(context.Background())
	if err != nil || string(raw) != `[{"headline":"x"}]` {
		t.Fatalf("news: %s %v", raw, err)
	}
}
