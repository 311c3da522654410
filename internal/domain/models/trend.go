package models

// TrendDirection is a directional bias.
type TrendDirection string

const (
	TrendBullish TrendDirection = "bullish"
	TrendBearish TrendDirection = "bearish"
	TrendNeutral TrendDirection = "neutral"
)

// TrendAssessment scores directional bias over a trailing candle window.
// It is recomputed fresh on every call and carries no history.
type TrendAssessment struct {
	Direction TrendDirection `json:"direction"`
	Strength  float64        `json:"strength"` // 0..100
	Timeframe string         `json:"timeframe"`
}
