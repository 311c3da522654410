package models

// PatternKind is the single tagged identifier for a candlestick formation.
type PatternKind string

const (
	PatternDoji             PatternKind = "DOJI"
	PatternDragonflyDoji    PatternKind = "DRAGONFLY_DOJI"
	PatternGravestoneDoji   PatternKind = "GRAVESTONE_DOJI"
	PatternHammer           PatternKind = "HAMMER"
	PatternShootingStar     PatternKind = "SHOOTING_STAR"
	PatternBullishEngulfing PatternKind = "BULLISH_ENGULFING"
	PatternBearishEngulfing PatternKind = "BEARISH_ENGULFING"
	PatternPiercingLine     PatternKind = "PIERCING_LINE"
	PatternDarkCloudCover   PatternKind = "DARK_CLOUD_COVER"
	PatternTweezerTop       PatternKind = "TWEEZER_TOP"
	PatternTweezerBottom    PatternKind = "TWEEZER_BOTTOM"
	PatternMorningStar      PatternKind = "MORNING_STAR"
	PatternEveningStar      PatternKind = "EVENING_STAR"
	PatternThreeSoldiers    PatternKind = "THREE_WHITE_SOLDIERS"
	PatternThreeCrows       PatternKind = "THREE_BLACK_CROWS"
)

// PatternSignal is the directional bias a pattern implies.
type PatternSignal string

const (
	PatternBullish PatternSignal = "bullish"
	PatternBearish PatternSignal = "bearish"
	PatternNeutral PatternSignal = "neutral"
)

// Reliability grades how trustworthy a detection is.
type Reliability string

const (
	ReliabilityLow    Reliability = "low"
	ReliabilityMedium Reliability = "medium"
	ReliabilityHigh   Reliability = "high"
)

// DetectedPattern is a transient per-scan detection; it is not persisted.
// Index is the position of the last constituent candle in the scanned series.
type DetectedPattern struct {
	Time        int64         `json:"time"`
	Index       int           `json:"index"`
	Kind        PatternKind   `json:"kind"`
	Signal      PatternSignal `json:"signal"`
	Reliability Reliability   `json:"reliability"`
	Candles     []Candle      `json:"candles"`
}
