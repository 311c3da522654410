package zone

import (
	"reflect"
	"testing"

	"TradeLens/internal/domain/models"
)

func mk(t int64, o, h, l, c float64) models.Candle {
	return models.Candle{Symbol: "BTCUSDT", Time: t, Open: o, High: h, Low: l, Close: c}
}

// rallySeries is a flat consolidation around 100 followed by a two-candle
// rally to 104 and quiet drift above the base. It produces exactly one
// demand zone.
func rallySeries() []models.Candle {
	var out []models.Candle
	t := int64(1000)
	for i := 0; i < 6; i++ {
		out = append(out, mk(t, 100.0, 100.5, 99.5, 100.1))
		t += 60
	}
	out = append(out, mk(t, 100.0, 102.1, 99.9, 102.0))
	t += 60
	out = append(out, mk(t, 102.0, 104.1, 101.9, 104.0))
	t += 60
	for i := 0; i < 4; i++ {
		out = append(out, mk(t, 104.0, 104.4, 103.6, 104.1))
		t += 60
	}
	return out
}

// dropSeries mirrors rallySeries downward and produces one supply zone.
func dropSeries() []models.Candle {
	var out []models.Candle
	t := int64(1000)
	for i := 0; i < 6; i++ {
		out = append(out, mk(t, 100.0, 100.5, 99.5, 100.1))
		t += 60
	}
	out = append(out, mk(t, 100.0, 100.1, 97.9, 98.0))
	t += 60
	out = append(out, mk(t, 98.0, 98.1, 95.9, 96.0))
	t += 60
	for i := 0; i < 4; i++ {
		out = append(out, mk(t, 96.0, 96.4, 95.6, 95.9))
		t += 60
	}
	return out
}

func TestDetectDemandZone(t *testing.T) {
	zones := Detect(rallySeries(), DefaultConfig())
	if len(zones) != 1 {
		t.Fatalf("expected 1 zone, got %d", len(zones))
	}
	z := zones[0]
	if z.Type != models.ZoneDemand {
		t.Errorf("type = %s, want demand", z.Type)
	}
	if z.Status != models.ZoneFresh {
		t.Errorf("status = %s, want fresh", z.Status)
	}
	if z.Top != 100.5 || z.Bottom != 99.5 {
		t.Errorf("bounds = [%v, %v], want [99.5, 100.5]", z.Bottom, z.Top)
	}
	if z.Impulse.Direction != models.TrendBullish {
		t.Errorf("impulse direction = %s, want bullish", z.Impulse.Direction)
	}
	if z.Impulse.CandleCount != 2 {
		t.Errorf("impulse candle count = %d, want 2", z.Impulse.CandleCount)
	}
	if z.StrengthScore != 6 {
		t.Errorf("strength score = %d, want 6", z.StrengthScore)
	}
	if z.Strength != models.StrengthStrong {
		t.Errorf("strength = %s, want strong", z.Strength)
	}
	if len(z.BaseCandles) != 3 {
		t.Errorf("base candles = %d, want 3", len(z.BaseCandles))
	}
}

func TestDetectSupplyZone(t *testing.T) {
	zones := Detect(dropSeries(), DefaultConfig())
	if len(zones) != 1 {
		t.Fatalf("expected 1 zone, got %d", len(zones))
	}
	z := zones[0]
	if z.Type != models.ZoneSupply {
		t.Errorf("type = %s, want supply", z.Type)
	}
	if z.Impulse.Direction != models.TrendBearish {
		t.Errorf("impulse direction = %s, want bearish", z.Impulse.Direction)
	}
	if z.Top != 100.5 || z.Bottom != 99.5 {
		t.Errorf("bounds = [%v, %v], want [99.5, 100.5]", z.Bottom, z.Top)
	}
}

func TestDetectTooFewCandles(t *testing.T) {
	if got := Detect(rallySeries()[:9], DefaultConfig()); got != nil {
		t.Errorf("expected nil for short series, got %d zones", len(got))
	}
	if got := Detect(nil, DefaultConfig()); got != nil {
		t.Errorf("expected nil for empty series, got %d zones", len(got))
	}
}

func TestDetectDeterministic(t *testing.T) {
	series := rallySeries()
	a := Detect(series, DefaultConfig())
	b := Detect(series, DefaultConfig())
	if !reflect.DeepEqual(a, b) {
		t.Error("repeated detection over identical input diverged")
	}
}

// twoZoneSeries has two separate rallies whose bases do not overlap in price.
func twoZoneSeries() []models.Candle {
	var out []models.Candle
	t := int64(1000)
	for i := 0; i < 4; i++ {
		out = append(out, mk(t, 100.0, 100.5, 99.5, 100.1))
		t += 60
	}
	out = append(out, mk(t, 100.0, 102.1, 99.9, 102.0))
	t += 60
	out = append(out, mk(t, 102.0, 104.1, 101.9, 104.0))
	t += 60
	out = append(out, mk(t, 104.0, 104.4, 103.6, 104.1))
	t += 60
	out = append(out, mk(t, 104.1, 106.2, 104.0, 106.1))
	t += 60
	out = append(out, mk(t, 106.1, 108.2, 106.0, 108.1))
	t += 60
	for i := 0; i < 3; i++ {
		out = append(out, mk(t, 108.1, 108.5, 107.7, 108.2))
		t += 60
	}
	return out
}

func TestDetectMultipleZonesMostRecentFirst(t *testing.T) {
	zones := Detect(twoZoneSeries(), DefaultConfig())
	if len(zones) != 2 {
		t.Fatalf("expected 2 zones, got %d", len(zones))
	}
	if zones[0].StartTime <= zones[1].StartTime {
		t.Errorf("zones not ordered most recent first: %d then %d", zones[0].StartTime, zones[1].StartTime)
	}
	for _, z := range zones {
		if z.Type != models.ZoneDemand {
			t.Errorf("type = %s, want demand", z.Type)
		}
	}
}

func TestDetectMaxZonesCap(t *testing.T) {
	zones := Detect(twoZoneSeries(), Config{MaxZones: 1})
	if len(zones) != 1 {
		t.Fatalf("expected 1 zone with MaxZones=1, got %d", len(zones))
	}
	// The most recent zone survives the cut.
	if zones[0].StartTime != 1360 {
		t.Errorf("kept zone starts at %d, want 1360", zones[0].StartTime)
	}
}

// overlapSeries has a rally, a slow drift back into the origin area, and a
// second rally from the same prices. The two demand candidates overlap and
// deduplicate down to the stronger one.
func overlapSeries() []models.Candle {
	var out []models.Candle
	t := int64(1000)
	for i := 0; i < 5; i++ {
		out = append(out, mk(t, 100.0, 100.5, 99.5, 100.1))
		t += 60
	}
	out = append(out, mk(t, 100.0, 102.1, 99.9, 102.0))
	t += 60
	out = append(out, mk(t, 102.0, 104.1, 101.9, 104.0))
	t += 60
	out = append(out, mk(t, 103.9, 104.1, 102.5, 103.2))
	t += 60
	out = append(out, mk(t, 103.2, 103.4, 101.6, 102.4))
	t += 60
	out = append(out, mk(t, 102.4, 102.6, 100.8, 101.6))
	t += 60
	out = append(out, mk(t, 101.6, 101.8, 100.0, 100.8))
	t += 60
	out = append(out, mk(t, 100.8, 101.0, 99.8, 100.3))
	t += 60
	out = append(out, mk(t, 100.3, 102.0, 100.2, 101.9))
	t += 60
	out = append(out, mk(t, 101.9, 103.6, 101.8, 103.5))
	t += 60
	for i := 0; i < 3; i++ {
		out = append(out, mk(t, 103.5, 103.9, 103.1, 103.6))
		t += 60
	}
	return out
}

func TestDetectDeduplicatesOverlappingZones(t *testing.T) {
	zones := Detect(overlapSeries(), DefaultConfig())
	if len(zones) != 1 {
		t.Fatalf("expected 1 zone after dedup, got %d", len(zones))
	}
	// The first rally's zone is stronger and wins.
	if zones[0].StrengthScore != 6 {
		t.Errorf("kept zone score = %d, want 6", zones[0].StrengthScore)
	}
	if zones[0].StartTime != 1120 {
		t.Errorf("kept zone starts at %d, want 1120", zones[0].StartTime)
	}
}

func TestDetectInvariantsOnNoisySeries(t *testing.T) {
	// Deterministic pseudo-noise around a drifting price.
	var candles []models.Candle
	seed := int64(42)
	next := func() float64 {
		seed = (seed*1103515245 + 12345) % (1 << 31)
		return float64(seed%1000)/1000.0 - 0.5
	}
	price := 100.0
	for i := 0; i < 120; i++ {
		o := price
		c := o + next()*2
		h := o
		if c > h {
			h = c
		}
		h += 0.2 + next()*0.1
		l := o
		if c < l {
			l = c
		}
		l -= 0.2 + next()*0.1
		candles = append(candles, mk(int64(1000+60*i), o, h, l, c))
		price = c
	}

	cfg := DefaultConfig()
	zones := Detect(candles, cfg)
	if len(zones) > cfg.MaxZones {
		t.Fatalf("zone count %d exceeds cap %d", len(zones), cfg.MaxZones)
	}
	for i, z := range zones {
		if z.Top < z.Bottom {
			t.Errorf("zone %d: top %v below bottom %v", i, z.Top, z.Bottom)
		}
		if z.Status != models.ZoneFresh {
			t.Errorf("zone %d: detector emitted status %s, want fresh", i, z.Status)
		}
		if z.StrengthScore < 0 || z.StrengthScore > 8 {
			t.Errorf("zone %d: score %d out of [0, 8]", i, z.StrengthScore)
		}
		if len(z.BaseCandles) == 0 {
			t.Errorf("zone %d: no base candles", i)
		}
	}
}

func TestBucketStrength(t *testing.T) {
	tests := []struct {
		score int
		want  models.ZoneStrength
	}{
		{0, models.StrengthWeak},
		{2, models.StrengthWeak},
		{3, models.StrengthModerate},
		{4, models.StrengthModerate},
		{5, models.StrengthStrong},
		{6, models.StrengthStrong},
		{7, models.StrengthExtreme},
		{8, models.StrengthExtreme},
	}
	for _, tt := range tests {
		if got := bucketStrength(tt.score); got != tt.want {
			t.Errorf("bucketStrength(%d) = %s, want %s", tt.score, got, tt.want)
		}
	}
}
