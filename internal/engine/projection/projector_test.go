package projection

import (
	"testing"

	"TradeLens/internal/domain/models"
)

func sampleAnalysis() *models.MarketAnalysis {
	return &models.MarketAnalysis{
		Symbol:         "BTCUSDT",
		Timeframe:      "1h",
		LastCandleTime: 10000,
		Zones: []models.PriceZone{
			{
				Type:      models.ZoneDemand,
				Status:    models.ZoneFresh,
				Strength:  models.StrengthStrong,
				Top:       100.5,
				Bottom:    99.5,
				StartTime: 1000,
			},
			{
				Type:        models.ZoneSupply,
				Status:      models.ZoneMitigated,
				Strength:    models.StrengthWeak,
				Top:         110.5,
				Bottom:      109.5,
				StartTime:   2000,
				EndTime:     5000,
				MitigatedAt: 5000,
			},
		},
		Patterns: []models.DetectedPattern{
			{Time: 3000, Kind: models.PatternHammer, Signal: models.PatternBullish},
			{Time: 4000, Kind: models.PatternShootingStar, Signal: models.PatternBearish},
		},
		Signal: &models.Signal{
			Type:        models.SignalBuy,
			EntryZone:   models.PriceRange{Low: 99.5, High: 100.5},
			StopLoss:    98.75,
			TakeProfit1: 103.1,
			TakeProfit2: 104.55,
		},
	}
}

func TestProject(t *testing.T) {
	ov := Project(sampleAnalysis(), 3600, 10)

	if len(ov.Rectangles) != 2 {
		t.Fatalf("rectangles = %d, want 2", len(ov.Rectangles))
	}
	open := ov.Rectangles[0]
	if open.TimeTo != 10000+3600*10 {
		t.Errorf("open zone extends to %d, want %d", open.TimeTo, 10000+3600*10)
	}
	if open.Mitigated {
		t.Error("fresh zone flagged as mitigated")
	}
	closed := ov.Rectangles[1]
	if closed.TimeTo != 5000 {
		t.Errorf("mitigated zone extends to %d, want its end time 5000", closed.TimeTo)
	}
	if !closed.Mitigated {
		t.Error("mitigated zone not flagged")
	}

	if len(ov.Markers) != 2 {
		t.Fatalf("markers = %d, want 2", len(ov.Markers))
	}
	if ov.Markers[0].Position != "below" {
		t.Errorf("bullish marker position = %s, want below", ov.Markers[0].Position)
	}
	if ov.Markers[1].Position != "above" {
		t.Errorf("bearish marker position = %s, want above", ov.Markers[1].Position)
	}

	if len(ov.Lines) != 4 {
		t.Fatalf("lines = %d, want 4", len(ov.Lines))
	}
}

func TestProjectNilAnalysis(t *testing.T) {
	ov := Project(nil, 3600, 10)
	if len(ov.Rectangles) != 0 || len(ov.Markers) != 0 || len(ov.Lines) != 0 {
		t.Errorf("expected empty overlay, got %+v", ov)
	}
}

func TestSignalLinesNil(t *testing.T) {
	if got := SignalLines(nil); got != nil {
		t.Errorf("expected nil lines without a signal, got %v", got)
	}
}

func TestZoneRectangleLabels(t *testing.T) {
	rects := ZoneRectangles(sampleAnalysis().Zones, 10000, 3600, 10)
	if rects[0].Label != "strong demand" {
		t.Errorf("label = %q, want %q", rects[0].Label, "strong demand")
	}
	if rects[1].Label != "weak supply" {
		t.Errorf("label = %q, want %q", rects[1].Label, "weak supply")
	}
}
