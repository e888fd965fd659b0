package market

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/kjannette/pulse-backend/internal/logging"
	"github.com/kjannette/pulse-backend/internal/models"
)

func TestDedupe_KeepsLargerMagnitude(t *testing.T) {
	orders := [][]models.Mover{
		{mover("ABC", 2.0), mover("ABC", -5.0)},
		{mover("ABC", -5.0), mover("ABC", 2.0)},
	}
	for _, in := range orders {
		out := Dedupe(in)
		if len(out) != 1 {
			t.Fatalf("expected 1 record, got %d", len(out))
		}
		if out[0].RawPercent != -5.0 {
			t.Fatalf("kept %v, want -5.0", out[0].RawPercent)
		}
	}
}

func TestDedupe_ByLabelNotName(t *testing.T) {
	a := FormatMover("Gold", "GC=F", 1, models.AssetCommodity)
	b := FormatMover("Gold", "XAUUSD", 2, models.AssetForex)
	if out := Dedupe([]models.Mover{a, b}); len(out) != 2 {
		t.Fatalf("same name with different symbols must both survive, got %d", len(out))
	}
}

func TestRank_DescendingByMagnitude(t *testing.T) {
	in := []models.Mover{mover("A", 1), mover("B", -9), mover("C", 3), mover("D", -7)}
	out := Rank(in)

	want := []string{"B", "D", "C", "A"}
	for i, sym := range want {
		if out[i].Symbol != sym {
			t.Fatalf("position %d = %s, want %s", i, out[i].Symbol, sym)
		}
	}
	for i := 1; i < len(out); i++ {
		if out[i-1].AbsPercent() < out[i].AbsPercent() {
			t.Fatalf("not descending at %d", i)
		}
	}
}

func TestTop_Truncates(t *testing.T) {
	var in []models.Mover
	for i := 0; i < 15; i++ {
		in = append(in, mover(fmt.Sprintf("S%02d", i), float64(i)))
	}
	out := Top(Rank(Dedupe(in)), TopMoversLimit)
	if len(out) != 10 {
		t.Fatalf("expected 10, got %d", len(out))
	}
	if out[0].Symbol != "S14" {
		t.Fatalf("expected largest mover first, got %s", out[0].Symbol)
	}

	if got := Top(nil, 10); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestAggregator_FailedGroupDoesNotAbortOthers(t *testing.T) {
	crypto := staticMovers{Items: []models.Mover{
		FormatMover("Bitcoin", "bitcoin", 4.2, models.AssetCrypto),
	}}
	forex := staticMovers{Items: []models.Mover{
		FormatMover("USD/ZAR", "USDZAR=X", -1.1, models.AssetForex),
	}, Skipped: []Skip{{Symbol: "EURUSD=X", Reason: "timeout"}}}
	indices := staticMovers{Items: []models.Mover{
		FormatMover("S&P 500", "^GSPC", 0.4, models.AssetIndex),
		FormatMover("Bitcoin", "bitcoin", 1.0, models.AssetCrypto),
	}}

	agg := NewAggregator([]MoverFetcher{panicMovers{}, crypto, forex}, indices, logging.Discard())
	report := agg.TopMovers(context.Background())

	if len(report.Movers) != 3 {
		t.Fatalf("expected 3 movers, got %+v", report.Movers)
	}
	if report.Movers[0].Symbol != "bitcoin" || report.Movers[0].RawPercent != 4.2 {
		t.Fatalf("unexpected leader %+v", report.Movers[0])
	}
	if report.Movers[2].AssetType != models.AssetIndex {
		t.Fatalf("index mover should be appended, got %+v", report.Movers[2])
	}
	if len(report.Skipped) != 2 {
		t.Fatalf("expected skip from forex and panicked group, got %+v", report.Skipped)
	}
}

func TestAggregator_AllGroupsEmpty(t *testing.T) {
	agg := NewAggregator([]MoverFetcher{staticMovers{}, staticMovers{}}, nil, logging.Discard())
	report := agg.TopMovers(context.Background())
	if report.Movers == nil || len(report.Movers) != 0 {
		t.Fatalf("expected empty feed, got %#v", report.Movers)
	}
}

func TestFetcher_SkipsBadSymbolsAndKeepsOrder(t *testing.T) {
	src := &fakeQuotes{quotes: map[string]models.Quote{
		"GC=F": quote(2100, 2000),
		"SI=F": quote(25, 0),
		"CL=F": quote(math.NaN(), 80),
		"HG=F": quote(4.5, 5),
	}}
	instruments := []models.Instrument{
		{Name: "Gold", Symbol: "GC=F"},
		{Name: "Silver", Symbol: "SI=F"},
		{Name: "Crude Oil", Symbol: "CL=F"},
		{Name: "Missing", Symbol: "XX=F"},
		{Name: "Copper", Symbol: "HG=F"},
	}
	f := NewFetcher(models.AssetCommodity, instruments, src, nil, logging.Discard())

	b := f.Quotes(context.Background())
	if len(b.Items) != 2 || b.Items[0].Name != "Gold" || b.Items[1].Name != "Copper" {
		t.Fatalf("unexpected items %+v", b.Items)
	}
	if b.Items[0].Change != "+5.00%" || b.Items[1].ChangePercent != -10 {
		t.Fatalf("unexpected formatting %+v", b.Items)
	}
	if len(b.Skipped) != 3 {
		t.Fatalf("expected 3 skips, got %+v", b.Skipped)
	}

	want := []string{"GC=F", "SI=F", "CL=F", "XX=F", "HG=F"}
	for i, s := range want {
		if src.calls[i] != s {
			t.Fatalf("call %d = %s, want %s", i, src.calls[i], s)
		}
	}
}

func TestFetcher_TotalFailureIsEmptyNotError(t *testing.T) {
	src := &fakeQuotes{fail: true}
	f := NewFetcher(models.AssetForex, []models.Instrument{{Name: "EUR/USD", Symbol: "EURUSD=X"}}, src, nil, logging.Discard())

	b := f.Rates(context.Background())
	if b.Items == nil || len(b.Items) != 0 || len(b.Skipped) != 1 {
		t.Fatalf("unexpected batch %+v", b)
	}
}

func TestFetcher_CancelledContextSkipsRemaining(t *testing.T) {
	src := &fakeQuotes{quotes: map[string]models.Quote{"A": quote(2, 1), "B": quote(2, 1)}}
	f := NewFetcher(models.AssetIndex, []models.Instrument{{Name: "A", Symbol: "A"}, {Name: "B", Symbol: "B"}}, src, nil, logging.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	b := f.Fetch(ctx)
	if len(b.Items) != 0 || len(b.Skipped) != 2 || src.callCount() != 0 {
		t.Fatalf("expected all skipped without provider calls, got %+v calls=%d", b, src.callCount())
	}
}

func TestStockFetcher(t *testing.T) {
	snaps := fakeSnapshots{snaps: []models.StockSnapshot{
		{Ticker: "nvda", Close: 110, PreviousClose: 100},
		{Ticker: "BAD", Close: 1, PreviousClose: 0},
	}}
	b := NewStockFetcher(snaps, nil, 10, logging.Discard()).Movers(context.Background())
	if len(b.Items) != 1 || b.Items[0].Symbol != "NVDA" || b.Items[0].AssetType != models.AssetStock {
		t.Fatalf("unexpected movers %+v", b.Items)
	}
	if len(b.Skipped) != 1 || b.Skipped[0].Symbol != "BAD" {
		t.Fatalf("unexpected skips %+v", b.Skipped)
	}
}

func TestStockFetcher_FallsBackToQuotes(t *testing.T) {
	src := &fakeQuotes{quotes: map[string]models.Quote{"AAPL": quote(99, 100)}}
	fallback := NewFetcher(models.AssetStock, []models.Instrument{{Name: "Apple", Symbol: "AAPL"}}, src, nil, logging.Discard())

	b := NewStockFetcher(fakeSnapshots{err: errProviderDown}, fallback, 10, logging.Discard()).Movers(context.Background())
	if len(b.Items) != 1 || b.Items[0].Name != "Apple" || b.Items[0].Change != "-1.00%" {
		t.Fatalf("unexpected fallback movers %+v", b.Items)
	}
}
