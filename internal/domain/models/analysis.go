package models

// MarketAnalysis is a consolidated snapshot of all engine outputs for one
// symbol/timeframe, derived entirely from the candle window supplied at
// call time.
type MarketAnalysis struct {
	Symbol         string `json:"symbol"`
	Timeframe      string `json:"timeframe"`
	GeneratedAt    int64  `json:"generated_at"`
	LastCandleTime int64  `json:"last_candle_time"`
	CandleCount    int    `json:"candle_count"`

	Zones         []PriceZone       `json:"zones"`
	Patterns      []DetectedPattern `json:"patterns"`
	LatestPattern *DetectedPattern  `json:"latest_pattern,omitempty"`
	Trend         TrendAssessment   `json:"trend"`
	ATR           float64           `json:"atr"`
	Signal        *Signal           `json:"signal,omitempty"`
}

// ActiveZones returns zones that have not been mitigated.
func (a *MarketAnalysis) ActiveZones() []PriceZone {
	out := make([]PriceZone, 0, len(a.Zones))
	for _, z := range a.Zones {
		if z.IsActive() {
			out = append(out, z)
		}
	}
	return out
}
