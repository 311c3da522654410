package pattern

import (
	"testing"

	"TradeLens/internal/domain/models"
)

func mk(t int64, o, h, l, c float64) models.Candle {
	return models.Candle{Symbol: "BTCUSDT", Time: t, Open: o, High: h, Low: l, Close: c}
}

// filler is a directional candle with moderate wicks that matches nothing.
func filler(t int64) models.Candle {
	return mk(t, 100.0, 100.8, 99.9, 100.6)
}

func TestDetectSingleCandle(t *testing.T) {
	tests := []struct {
		name    string
		c       models.Candle
		kind    models.PatternKind
		signal  models.PatternSignal
		rel     models.Reliability
		noMatch bool
	}{
		{
			name:   "doji",
			c:      mk(0, 100.0, 100.5, 99.5, 100.02),
			kind:   models.PatternDoji,
			signal: models.PatternNeutral,
			rel:    models.ReliabilityLow,
		},
		{
			name:   "dragonfly doji",
			c:      mk(0, 100.0, 100.05, 99.0, 100.02),
			kind:   models.PatternDragonflyDoji,
			signal: models.PatternBullish,
			rel:    models.ReliabilityMedium,
		},
		{
			name:   "gravestone doji",
			c:      mk(0, 100.02, 101.05, 99.98, 100.0),
			kind:   models.PatternGravestoneDoji,
			signal: models.PatternBearish,
			rel:    models.ReliabilityMedium,
		},
		{
			name:   "hammer",
			c:      mk(0, 100.0, 100.35, 99.0, 100.3),
			kind:   models.PatternHammer,
			signal: models.PatternBullish,
			rel:    models.ReliabilityMedium,
		},
		{
			name:   "shooting star",
			c:      mk(0, 100.3, 101.35, 99.95, 100.0),
			kind:   models.PatternShootingStar,
			signal: models.PatternBearish,
			rel:    models.ReliabilityMedium,
		},
		{
			name:    "plain directional candle",
			c:       filler(0),
			noMatch: true,
		},
		{
			name:    "zero range candle",
			c:       mk(0, 100.0, 100.0, 100.0, 100.0),
			noMatch: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Latest([]models.Candle{tt.c})
			if tt.noMatch {
				if got != nil {
					t.Fatalf("expected no match, got %s", got.Kind)
				}
				return
			}
			if got == nil {
				t.Fatal("expected a match, got none")
			}
			if got.Kind != tt.kind || got.Signal != tt.signal || got.Reliability != tt.rel {
				t.Errorf("got %s/%s/%s, want %s/%s/%s",
					got.Kind, got.Signal, got.Reliability, tt.kind, tt.signal, tt.rel)
			}
			if len(got.Candles) != 1 {
				t.Errorf("constituent candles = %d, want 1", len(got.Candles))
			}
		})
	}
}

func TestDetectBullishEngulfing(t *testing.T) {
	candles := []models.Candle{
		mk(1000, 101.0, 101.2, 99.8, 100.0),
		mk(1060, 99.9, 102.7, 99.7, 102.5),
	}
	got := Scan(candles)
	if len(got) != 1 {
		t.Fatalf("expected 1 detection, got %d", len(got))
	}
	p := got[0]
	if p.Kind != models.PatternBullishEngulfing {
		t.Errorf("kind = %s, want %s", p.Kind, models.PatternBullishEngulfing)
	}
	if p.Signal != models.PatternBullish {
		t.Errorf("signal = %s, want bullish", p.Signal)
	}
	if p.Reliability != models.ReliabilityHigh {
		t.Errorf("reliability = %s, want high", p.Reliability)
	}
	if p.Time != 1060 || p.Index != 1 {
		t.Errorf("anchored at time %d index %d, want 1060/1", p.Time, p.Index)
	}
	if len(p.Candles) != 2 {
		t.Errorf("constituent candles = %d, want 2", len(p.Candles))
	}
}

func TestDetectDoubleCandle(t *testing.T) {
	tests := []struct {
		name   string
		prev   models.Candle
		cur    models.Candle
		kind   models.PatternKind
		signal models.PatternSignal
	}{
		{
			name:   "bearish engulfing",
			prev:   mk(0, 100.0, 101.2, 99.8, 101.0),
			cur:    mk(60, 101.1, 101.3, 98.3, 98.5),
			kind:   models.PatternBearishEngulfing,
			signal: models.PatternBearish,
		},
		{
			name:   "piercing line",
			prev:   mk(0, 102.0, 102.2, 99.9, 100.0),
			cur:    mk(60, 99.8, 101.6, 99.6, 101.5),
			kind:   models.PatternPiercingLine,
			signal: models.PatternBullish,
		},
		{
			name:   "dark cloud cover",
			prev:   mk(0, 100.0, 102.1, 99.8, 102.0),
			cur:    mk(60, 102.2, 102.4, 100.4, 100.5),
			kind:   models.PatternDarkCloudCover,
			signal: models.PatternBearish,
		},
		{
			name:   "tweezer top",
			prev:   mk(0, 100.0, 102.0, 99.9, 101.6),
			cur:    mk(60, 101.6, 102.02, 100.1, 100.4),
			kind:   models.PatternTweezerTop,
			signal: models.PatternBearish,
		},
		{
			name:   "tweezer bottom",
			prev:   mk(0, 101.6, 101.7, 100.0, 100.2),
			cur:    mk(60, 100.2, 101.7, 100.02, 101.4),
			kind:   models.PatternTweezerBottom,
			signal: models.PatternBullish,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Latest([]models.Candle{tt.prev, tt.cur})
			if got == nil {
				t.Fatal("expected a match, got none")
			}
			if got.Kind != tt.kind || got.Signal != tt.signal {
				t.Errorf("got %s/%s, want %s/%s", got.Kind, got.Signal, tt.kind, tt.signal)
			}
		})
	}
}

func TestDetectMorningStar(t *testing.T) {
	a := mk(1000, 102.0, 102.2, 99.8, 100.0)
	c := mk(1120, 99.8, 101.7, 99.7, 101.5)

	t.Run("gapped middle upgrades reliability", func(t *testing.T) {
		b := mk(1060, 99.9, 100.0, 99.4, 99.6)
		got := Latest([]models.Candle{a, b, c})
		if got == nil || got.Kind != models.PatternMorningStar {
			t.Fatalf("expected morning star, got %+v", got)
		}
		if got.Reliability != models.ReliabilityHigh {
			t.Errorf("reliability = %s, want high", got.Reliability)
		}
	})

	t.Run("no gap stays medium", func(t *testing.T) {
		b := mk(1060, 100.1, 100.4, 99.9, 100.3)
		got := Latest([]models.Candle{a, b, c})
		if got == nil || got.Kind != models.PatternMorningStar {
			t.Fatalf("expected morning star, got %+v", got)
		}
		if got.Reliability != models.ReliabilityMedium {
			t.Errorf("reliability = %s, want medium", got.Reliability)
		}
	})
}

func TestDetectEveningStar(t *testing.T) {
	candles := []models.Candle{
		mk(1000, 100.0, 102.2, 99.8, 102.0),
		mk(1060, 102.3, 102.8, 102.2, 102.5),
		mk(1120, 102.3, 102.4, 100.3, 100.5),
	}
	got := Latest(candles)
	if got == nil || got.Kind != models.PatternEveningStar {
		t.Fatalf("expected evening star, got %+v", got)
	}
	if got.Signal != models.PatternBearish {
		t.Errorf("signal = %s, want bearish", got.Signal)
	}
	if got.Reliability != models.ReliabilityHigh {
		t.Errorf("reliability = %s, want high (middle body gapped above)", got.Reliability)
	}
}

func TestDetectThreeWhiteSoldiers(t *testing.T) {
	candles := []models.Candle{
		mk(1000, 100.0, 101.1, 99.9, 101.0),
		mk(1060, 100.5, 101.9, 100.4, 101.8),
		mk(1120, 101.4, 102.7, 101.3, 102.6),
	}
	got := Latest(candles)
	if got == nil || got.Kind != models.PatternThreeSoldiers {
		t.Fatalf("expected three white soldiers, got %+v", got)
	}
	if got.Signal != models.PatternBullish || got.Reliability != models.ReliabilityHigh {
		t.Errorf("got %s/%s, want bullish/high", got.Signal, got.Reliability)
	}
}

func TestDetectThreeBlackCrows(t *testing.T) {
	candles := []models.Candle{
		mk(1000, 102.6, 102.7, 101.5, 101.6),
		mk(1060, 102.1, 102.2, 100.7, 100.8),
		mk(1120, 101.2, 101.3, 99.9, 100.0),
	}
	got := Latest(candles)
	if got == nil || got.Kind != models.PatternThreeCrows {
		t.Fatalf("expected three black crows, got %+v", got)
	}
	if got.Signal != models.PatternBearish {
		t.Errorf("signal = %s, want bearish", got.Signal)
	}
}

func TestDetectPrecedenceSingleWins(t *testing.T) {
	// The second candle is a plain doji; even with a large opposite candle
	// before it, the single-candle match takes precedence.
	candles := []models.Candle{
		mk(1000, 103.0, 103.0, 100.0, 100.0),
		mk(1060, 100.0, 100.5, 99.5, 100.02),
	}
	got := Latest(candles)
	if got == nil || got.Kind != models.PatternDoji {
		t.Fatalf("expected doji via precedence, got %+v", got)
	}
}

func TestScanRecentAndLatest(t *testing.T) {
	candles := []models.Candle{
		filler(1000),
		filler(1060),
		mk(1120, 100.0, 100.35, 99.0, 100.3), // hammer
	}

	all := Scan(candles)
	if len(all) != 1 {
		t.Fatalf("Scan found %d patterns, want 1", len(all))
	}

	recent := ScanRecent(candles, 1)
	if len(recent) != 1 || recent[0].Kind != models.PatternHammer {
		t.Fatalf("ScanRecent(1) = %+v, want one hammer", recent)
	}

	latest := Latest(candles)
	if latest == nil || latest.Kind != models.PatternHammer {
		t.Fatalf("Latest = %+v, want hammer", latest)
	}
	if latest.Index != 2 {
		t.Errorf("latest index = %d, want 2", latest.Index)
	}
}

func TestLatestEmptySeries(t *testing.T) {
	if got := Latest(nil); got != nil {
		t.Errorf("expected nil on empty series, got %+v", got)
	}
}
