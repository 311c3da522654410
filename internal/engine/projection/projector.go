// Package projection flattens analysis artifacts into chart-overlay
// primitives: rectangles for zones, markers for patterns, horizontal
// lines for signal levels. The output carries no engine types so API
// consumers render it without knowing the detection rules.
package projection

import (
	"fmt"

	"TradeLens/internal/domain/models"
)

// Rectangle is a time/price box drawn for a zone.
type Rectangle struct {
	Type      models.ZoneType     `json:"type"`
	Status    models.ZoneStatus   `json:"status"`
	Strength  models.ZoneStrength `json:"strength"`
	Top       float64             `json:"top"`
	Bottom    float64             `json:"bottom"`
	TimeFrom  int64               `json:"time_from"`
	TimeTo    int64               `json:"time_to"`
	Label     string              `json:"label"`
	Mitigated bool                `json:"mitigated"`
}

// Marker annotates a single candle with a detected pattern.
type Marker struct {
	Time     int64                `json:"time"`
	Kind     models.PatternKind   `json:"kind"`
	Signal   models.PatternSignal `json:"signal"`
	Position string               `json:"position"` // "above" or "below"
	Text     string               `json:"text"`
}

// Line is a horizontal price level spanning the visible chart.
type Line struct {
	Price float64 `json:"price"`
	Label string  `json:"label"`
	Kind  string  `json:"kind"` // "stop", "entry", "target"
}

// Overlay bundles everything drawn on top of the candle series.
type Overlay struct {
	Rectangles []Rectangle `json:"rectangles"`
	Markers    []Marker    `json:"markers"`
	Lines      []Line      `json:"lines"`
}

// Project builds the full overlay for one analysis snapshot. Open zones
// extend extensionBars bars of tfSeconds each past the last candle time.
func Project(a *models.MarketAnalysis, tfSeconds int64, extensionBars int) Overlay {
	if a == nil {
		return Overlay{}
	}
	var ov Overlay
	ov.Rectangles = ZoneRectangles(a.Zones, a.LastCandleTime, tfSeconds, extensionBars)
	ov.Markers = PatternMarkers(a.Patterns)
	ov.Lines = SignalLines(a.Signal)
	return ov
}

// ZoneRectangles converts zones to boxes. A mitigated zone ends at its
// mitigation time; an open zone is extended into the future so it stays
// visible while price approaches it.
func ZoneRectangles(zones []models.PriceZone, lastTime, tfSeconds int64, extensionBars int) []Rectangle {
	if len(zones) == 0 {
		return nil
	}
	out := make([]Rectangle, 0, len(zones))
	for _, z := range zones {
		to := z.EndTime
		if to == 0 {
			to = lastTime + tfSeconds*int64(extensionBars)
		}
		out = append(out, Rectangle{
			Type:      z.Type,
			Status:    z.Status,
			Strength:  z.Strength,
			Top:       z.Top,
			Bottom:    z.Bottom,
			TimeFrom:  z.StartTime,
			TimeTo:    to,
			Label:     fmt.Sprintf("%s %s", z.Strength, z.Type),
			Mitigated: z.Status == models.ZoneMitigated,
		})
	}
	return out
}

// PatternMarkers places bullish markers below the candle and bearish or
// neutral markers above it.
func PatternMarkers(patterns []models.DetectedPattern) []Marker {
	if len(patterns) == 0 {
		return nil
	}
	out := make([]Marker, 0, len(patterns))
	for _, p := range patterns {
		pos := "above"
		if p.Signal == models.PatternBullish {
			pos = "below"
		}
		out = append(out, Marker{
			Time:     p.Time,
			Kind:     p.Kind,
			Signal:   p.Signal,
			Position: pos,
			Text:     string(p.Kind),
		})
	}
	return out
}

// SignalLines renders entry, stop, and both targets for an active signal.
func SignalLines(s *models.Signal) []Line {
	if s == nil {
		return nil
	}
	entry := (s.EntryZone.Low + s.EntryZone.High) / 2
	return []Line{
		{Price: entry, Label: "entry", Kind: "entry"},
		{Price: s.StopLoss, Label: "stop loss", Kind: "stop"},
		{Price: s.TakeProfit1, Label: "take profit 1", Kind: "target"},
		{Price: s.TakeProfit2, Label: "take profit 2", Kind: "target"},
	}
}
