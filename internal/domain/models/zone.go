package models

// ZoneType distinguishes supply (selling imbalance) from demand (buying imbalance).
type ZoneType string

const (
	ZoneSupply ZoneType = "supply"
	ZoneDemand ZoneType = "demand"
)

// ZoneStatus is the lifecycle state of a zone. Transitions are strictly
// monotonic: fresh -> tested -> mitigated. Mitigated is terminal.
type ZoneStatus string

const (
	ZoneFresh     ZoneStatus = "fresh"
	ZoneTested    ZoneStatus = "tested"
	ZoneMitigated ZoneStatus = "mitigated"
)

// ZoneStrength buckets the zone quality score.
type ZoneStrength string

const (
	StrengthWeak     ZoneStrength = "weak"
	StrengthModerate ZoneStrength = "moderate"
	StrengthStrong   ZoneStrength = "strong"
	StrengthExtreme  ZoneStrength = "extreme"
)

// ImpulseMove describes the departure that created a zone's imbalance.
type ImpulseMove struct {
	Direction        TrendDirection `json:"direction"`
	StartPrice       float64        `json:"start_price"`
	EndPrice         float64        `json:"end_price"`
	MagnitudePercent float64        `json:"magnitude_percent"`
	CandleCount      int            `json:"candle_count"`
}

// PriceZone represents a historical supply or demand imbalance.
// Zones are created once by the detector and mutated only by the
// lifecycle updater; they are never deleted, only marked mitigated.
type PriceZone struct {
	Type     ZoneType     `json:"type"`
	Status   ZoneStatus   `json:"status"`
	Strength ZoneStrength `json:"strength"`

	// StrengthScore is the raw point total behind Strength (0..8).
	StrengthScore int `json:"strength_score"`

	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`

	// StartTime is the open time of the first base candle. EndTime is 0
	// while the zone extends into the present.
	StartTime int64 `json:"start_time"`
	EndTime   int64 `json:"end_time,omitempty"`

	// BaseCandles snapshots the anchor candles that formed the zone.
	BaseCandles []Candle    `json:"base_candles"`
	Impulse     ImpulseMove `json:"impulse"`

	TouchCount    int   `json:"touch_count"`
	LastTouchTime int64 `json:"last_touch_time,omitempty"`
	MitigatedAt   int64 `json:"mitigated_at,omitempty"`

	ImbalanceRatio float64 `json:"imbalance_ratio"`
	ProximityScore float64 `json:"proximity_score"`
}

// Height returns the zone's price extent.
func (z PriceZone) Height() float64 { return z.Top - z.Bottom }

// Contains reports whether price lies inside [Bottom, Top].
func (z PriceZone) Contains(price float64) bool {
	return price >= z.Bottom && price <= z.Top
}

// IsActive reports whether the zone can still provoke a reaction.
func (z PriceZone) IsActive() bool { return z.Status != ZoneMitigated }

// Overlaps reports whether two zones share any price range.
func (z PriceZone) Overlaps(other PriceZone) bool {
	return z.Bottom <= other.Top && z.Top >= other.Bottom
}
