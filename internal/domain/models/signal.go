package models

// SignalType is the trade direction of a generated signal.
type SignalType string

const (
	SignalBuy  SignalType = "BUY"
	SignalSell SignalType = "SELL"
)

// PriceRange is an inclusive low/high price band.
type PriceRange struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Signal is a composite trade setup synthesized from trend, zones and ATR.
// Absence of a signal is a normal outcome, not an error; callers receive
// a nil *Signal when no setup clears the validity threshold.
type Signal struct {
	Symbol string     `json:"symbol,omitempty"`
	Time   int64      `json:"time,omitempty"`
	Type   SignalType `json:"type"`

	EntryZone   PriceRange `json:"entry_zone"`
	StopLoss    float64    `json:"stop_loss"`
	TakeProfit1 float64    `json:"take_profit_1"`
	TakeProfit2 float64    `json:"take_profit_2"`

	ValidityScore   float64 `json:"validity_score"` // 0..100
	RiskRewardRatio float64 `json:"risk_reward_ratio"`
	TrendAligned    bool    `json:"trend_aligned"`
	ZoneConfluence  bool    `json:"zone_confluence"`
	Reason          string  `json:"reason"`
}
