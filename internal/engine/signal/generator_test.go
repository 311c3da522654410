package signal

import (
	"math"
	"testing"

	"TradeLens/internal/domain/models"
)

func demandZone(score int) models.PriceZone {
	return models.PriceZone{
		Type:          models.ZoneDemand,
		Status:        models.ZoneFresh,
		Strength:      models.StrengthStrong,
		StrengthScore: score,
		Top:           100.5,
		Bottom:        99.5,
		StartTime:     1000,
	}
}

func supplyZone(score int) models.PriceZone {
	return models.PriceZone{
		Type:          models.ZoneSupply,
		Status:        models.ZoneFresh,
		Strength:      models.StrengthStrong,
		StrengthScore: score,
		Top:           110.5,
		Bottom:        109.5,
		StartTime:     1000,
	}
}

func bullish(strength float64) models.TrendAssessment {
	return models.TrendAssessment{Direction: models.TrendBullish, Strength: strength, Timeframe: "1h"}
}

func bearish(strength float64) models.TrendAssessment {
	return models.TrendAssessment{Direction: models.TrendBearish, Strength: strength, Timeframe: "1h"}
}

func TestGenerateBuySignal(t *testing.T) {
	zones := []models.PriceZone{demandZone(6)}
	got := Generate(100.2, bullish(80), zones, 0.5, DefaultConfig())
	if got == nil {
		t.Fatal("expected a BUY signal, got nil")
	}
	if got.Type != models.SignalBuy {
		t.Errorf("type = %s, want BUY", got.Type)
	}
	if got.EntryZone.Low != 99.5 || got.EntryZone.High != 100.5 {
		t.Errorf("entry zone = [%v, %v], want [99.5, 100.5]", got.EntryZone.Low, got.EntryZone.High)
	}
	// Stop sits 1.5 ATR below the zone bottom.
	if math.Abs(got.StopLoss-98.75) > 1e-9 {
		t.Errorf("stop = %v, want 98.75", got.StopLoss)
	}
	if math.Abs(got.RiskRewardRatio-2.0) > 1e-9 {
		t.Errorf("risk/reward = %v, want 2.0", got.RiskRewardRatio)
	}
	if !(got.TakeProfit2 > got.TakeProfit1 && got.TakeProfit1 > 100.2) {
		t.Errorf("targets out of order: tp1=%v tp2=%v", got.TakeProfit1, got.TakeProfit2)
	}
	if !got.TrendAligned || !got.ZoneConfluence {
		t.Errorf("aligned=%v confluence=%v, want both true", got.TrendAligned, got.ZoneConfluence)
	}
	if got.ValidityScore < 50 || got.ValidityScore > 100 {
		t.Errorf("validity score %v out of [50, 100]", got.ValidityScore)
	}
	if got.Reason == "" {
		t.Error("reason must not be empty")
	}
}

func TestGenerateSellSignal(t *testing.T) {
	zones := []models.PriceZone{supplyZone(6)}
	got := Generate(109.8, bearish(80), zones, 0.5, DefaultConfig())
	if got == nil {
		t.Fatal("expected a SELL signal, got nil")
	}
	if got.Type != models.SignalSell {
		t.Errorf("type = %s, want SELL", got.Type)
	}
	if math.Abs(got.StopLoss-111.25) > 1e-9 {
		t.Errorf("stop = %v, want 111.25", got.StopLoss)
	}
	if !(got.TakeProfit2 < got.TakeProfit1 && got.TakeProfit1 < 109.8) {
		t.Errorf("targets out of order for short: tp1=%v tp2=%v", got.TakeProfit1, got.TakeProfit2)
	}
}

func TestGenerateNoZones(t *testing.T) {
	if got := Generate(100.2, bullish(90), nil, 0.5, DefaultConfig()); got != nil {
		t.Errorf("expected nil without zones, got %+v", got)
	}
}

func TestGenerateNeutralTrend(t *testing.T) {
	zones := []models.PriceZone{demandZone(8)}
	neutral := models.TrendAssessment{Direction: models.TrendNeutral, Strength: 30}
	if got := Generate(100.2, neutral, zones, 0.5, DefaultConfig()); got != nil {
		t.Errorf("expected nil on neutral trend, got %+v", got)
	}
}

func TestGenerateTrendZoneMismatch(t *testing.T) {
	// Bearish trend with only a demand zone in reach produces nothing.
	zones := []models.PriceZone{demandZone(8)}
	if got := Generate(100.2, bearish(90), zones, 0.5, DefaultConfig()); got != nil {
		t.Errorf("expected nil on trend/zone mismatch, got %+v", got)
	}
}

func TestGenerateIgnoresMitigatedZones(t *testing.T) {
	z := demandZone(8)
	z.Status = models.ZoneMitigated
	if got := Generate(100.2, bullish(90), []models.PriceZone{z}, 0.5, DefaultConfig()); got != nil {
		t.Errorf("expected nil with only mitigated zones, got %+v", got)
	}
}

func TestGeneratePriceFarFromZone(t *testing.T) {
	zones := []models.PriceZone{demandZone(8)}
	// 5% above the zone top: outside the buffer and the proximity band.
	if got := Generate(105.5, bullish(90), zones, 0.5, DefaultConfig()); got != nil {
		t.Errorf("expected nil far from the zone, got %+v", got)
	}
}

func TestGenerateRejectsLowValidity(t *testing.T) {
	// Weak zone, weak trend, price outside the zone: the setup scores
	// below the threshold and is dropped.
	zones := []models.PriceZone{demandZone(0)}
	if got := Generate(100.9, bullish(10), zones, 0.5, DefaultConfig()); got != nil {
		t.Errorf("expected rejection below threshold, got score %v", got.ValidityScore)
	}
}

func TestGenerateNonPositiveRisk(t *testing.T) {
	// Zero ATR puts the stop at the zone bottom; a price under the bottom
	// (still in play via the buffer) would invert the risk.
	zones := []models.PriceZone{demandZone(8)}
	if got := Generate(99.45, bullish(90), zones, 0, DefaultConfig()); got != nil {
		t.Errorf("expected nil on non-positive risk, got %+v", got)
	}
}

func TestGeneratePicksNearestZone(t *testing.T) {
	far := demandZone(8)
	far.Top = 90.5
	far.Bottom = 89.5
	near := demandZone(4)
	zones := []models.PriceZone{far, near}

	got := Generate(100.2, bullish(80), zones, 0.5, DefaultConfig())
	if got == nil {
		t.Fatal("expected a signal, got nil")
	}
	if got.EntryZone.High != 100.5 {
		t.Errorf("entry zone high = %v, want the nearer zone at 100.5", got.EntryZone.High)
	}
}

func TestValidityScoreBounds(t *testing.T) {
	tests := []struct {
		name          string
		trendStrength float64
		zoneScore     int
		inZone        bool
		rrr           float64
	}{
		{"all maxed", 100, 8, true, 3.5},
		{"all floored", 0, 0, false, 0.5},
		{"mid", 50, 4, true, 2.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := validityScore(tt.trendStrength, tt.zoneScore, tt.inZone, tt.rrr)
			if got < 0 || got > 100 {
				t.Errorf("score %v out of [0, 100]", got)
			}
		})
	}
}
