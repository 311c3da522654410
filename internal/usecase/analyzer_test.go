package usecase

import (
	"context"
	"testing"
	"time"

	"TradeLens/internal/domain/models"
	drepo "TradeLens/internal/domain/repository"
	"TradeLens/internal/engine/signal"
	"TradeLens/internal/engine/zone"
	icache "TradeLens/internal/service/cache"
)

func seededAnalyzer(t *testing.T, n int, clock func() time.Time) (*MarketAnalyzer, *SeriesBuffer) {
	t.Helper()
	series := NewSeriesBuffer(1000)
	candles := make([]models.Candle, 0, n)
	for i := 0; i < n; i++ {
		candles = append(candles, seriesCandle(int64(1000+i*60), 100))
	}
	series.Seed("BTCUSDT", candles)

	a := NewMarketAnalyzer(series, icache.NewTTLCache(), 5*time.Minute, zone.Config{}, signal.Config{}, noopMetrics{}, clock)
	return a, series
}

func TestAnalyzeEmptyBuffer(t *testing.T) {
	a, _ := seededAnalyzer(t, 0, nil)
	if _, err := a.Analyze(context.Background(), AnalyzeParams{Symbol: "BTCUSDT", Timeframe: drepo.TF1m}); err == nil {
		t.Error("expected error for empty buffer")
	}
	if _, err := a.Analyze(context.Background(), AnalyzeParams{Timeframe: drepo.TF1m}); err == nil {
		t.Error("expected error for missing symbol")
	}
}

func TestAnalyzeSnapshotShape(t *testing.T) {
	a, _ := seededAnalyzer(t, 30, nil)
	res, err := a.Analyze(context.Background(), AnalyzeParams{Symbol: "BTCUSDT", Timeframe: drepo.TF1m})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if res.Symbol != "BTCUSDT" || res.Timeframe != "1m" {
		t.Errorf("identity = %s/%s", res.Symbol, res.Timeframe)
	}
	if res.CandleCount != 30 {
		t.Errorf("CandleCount = %d, want 30", res.CandleCount)
	}
	if res.LastCandleTime != 1000+29*60 {
		t.Errorf("LastCandleTime = %d, want %d", res.LastCandleTime, 1000+29*60)
	}
}

func TestAnalyzeWindowLimitsCandles(t *testing.T) {
	a, _ := seededAnalyzer(t, 30, nil)
	res, err := a.Analyze(context.Background(), AnalyzeParams{Symbol: "BTCUSDT", Timeframe: drepo.TF1m, Window: 10})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if res.CandleCount != 10 {
		t.Errorf("CandleCount = %d, want 10", res.CandleCount)
	}
}

func TestAnalyzeCachedUntilNextCandle(t *testing.T) {
	now := time.Unix(50000, 0)
	clock := func() time.Time { return now }
	a, series := seededAnalyzer(t, 30, clock)
	ctx := context.Background()
	p := AnalyzeParams{Symbol: "BTCUSDT", Timeframe: drepo.TF1m}

	first, err := a.Analyze(ctx, p)
	if err != nil {
		t.Fatalf("first analyze: %v", err)
	}

	now = now.Add(40 * time.Second)
	second, err := a.Analyze(ctx, p)
	if err != nil {
		t.Fatalf("second analyze: %v", err)
	}
	if second.GeneratedAt != first.GeneratedAt {
		t.Errorf("snapshot recomputed between candle closes: %d vs %d", second.GeneratedAt, first.GeneratedAt)
	}

	// a new candle invalidates the key
	c := seriesCandle(first.LastCandleTime+60, 100)
	series.Append(&c)
	third, err := a.Analyze(ctx, p)
	if err != nil {
		t.Fatalf("third analyze: %v", err)
	}
	if third.GeneratedAt == first.GeneratedAt {
		t.Error("snapshot not recomputed after new candle")
	}
	if third.LastCandleTime != first.LastCandleTime+60 {
		t.Errorf("LastCandleTime = %d, want %d", third.LastCandleTime, first.LastCandleTime+60)
	}
}

func TestOverlayFromAnalyzer(t *testing.T) {
	a, _ := seededAnalyzer(t, 30, nil)
	ov, err := a.Overlay(context.Background(), AnalyzeParams{Symbol: "BTCUSDT", Timeframe: drepo.TF1m})
	if err != nil {
		t.Fatalf("overlay: %v", err)
	}
	if ov == nil {
		t.Fatal("overlay nil")
	}
	// flat candles are all dojis, so markers must be present
	if len(ov.Markers) == 0 {
		t.Error("no markers for doji series")
	}
	if len(ov.Lines) != 0 {
		t.Errorf("lines = %d, want none without a signal", len(ov.Lines))
	}
}
