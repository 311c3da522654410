package indicator

import (
	"math"
	"testing"

	"TradeLens/internal/domain/models"
)

func mk(t int64, o, h, l, c float64) models.Candle {
	return models.Candle{Symbol: "BTCUSDT", Time: t, Open: o, High: h, Low: l, Close: c}
}

func TestTrueRange(t *testing.T) {
	tests := []struct {
		name      string
		c         models.Candle
		prevClose float64
		want      float64
	}{
		{"plain range", mk(0, 100, 101, 99, 100.5), 100, 2},
		{"gap up", mk(0, 102, 102.5, 101.5, 102), 100, 2.5},
		{"gap down", mk(0, 98, 98.5, 97.5, 98), 100, 2.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrueRange(tt.c, tt.prevClose); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("TrueRange = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestATREmptySeries(t *testing.T) {
	if got := ATR(nil, DefaultATRPeriod); got != 0 {
		t.Errorf("ATR(nil) = %v, want 0", got)
	}
}

func TestATRShortSeriesFallback(t *testing.T) {
	// Fewer than period+1 candles: mean high-low range.
	candles := []models.Candle{
		mk(0, 100, 101, 99, 100),  // range 2
		mk(60, 100, 100.5, 99.5, 100), // range 1
		mk(120, 100, 101.5, 98.5, 100), // range 3
	}
	got := ATR(candles, DefaultATRPeriod)
	if math.Abs(got-2.0) > 1e-9 {
		t.Errorf("fallback ATR = %v, want 2.0", got)
	}
}

func TestATRFullSeries(t *testing.T) {
	var candles []models.Candle
	for i := 0; i < 15; i++ {
		candles = append(candles, mk(int64(60*i), 100, 100.5, 99.5, 100))
	}
	got := ATR(candles, DefaultATRPeriod)
	if math.Abs(got-1.0) > 1e-9 {
		t.Errorf("ATR = %v, want 1.0", got)
	}
}

func TestATRIncludesGap(t *testing.T) {
	var candles []models.Candle
	for i := 0; i < 14; i++ {
		candles = append(candles, mk(int64(60*i), 100, 100.5, 99.5, 100))
	}
	// Final candle gaps up; its true range reaches back to the prior close.
	candles = append(candles, mk(14*60, 102, 102.5, 101.5, 102))

	got := ATR(candles, DefaultATRPeriod)
	want := (13*1.0 + 2.5) / 14
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("ATR = %v, want %v", got, want)
	}
}

func TestATRZeroPeriodUsesDefault(t *testing.T) {
	var candles []models.Candle
	for i := 0; i < 15; i++ {
		candles = append(candles, mk(int64(60*i), 100, 100.5, 99.5, 100))
	}
	if got, want := ATR(candles, 0), ATR(candles, DefaultATRPeriod); got != want {
		t.Errorf("ATR with period 0 = %v, want %v", got, want)
	}
}
