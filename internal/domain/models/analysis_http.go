package models

// Requests for analysis HTTP endpoints. Defined in domain for consistency and reuse.

type AnalysisRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
	N      int    `query:"n" json:"n" default:"300" validate:"gte=1,lte=5000"`
	TF     string `query:"tf" json:"tf" default:"1m" validate:"oneof=1m 5m 15m 1h 4h"`
}

type ZonesRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
	N      int    `query:"n" json:"n" default:"300" validate:"gte=1,lte=5000"`
	TF     string `query:"tf" json:"tf" default:"1m" validate:"oneof=1m 5m 15m 1h 4h"`
	Active bool   `query:"active" json:"active"`
}

type PatternsRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
	N      int    `query:"n" json:"n" default:"300" validate:"gte=1,lte=5000"`
	TF     string `query:"tf" json:"tf" default:"1m" validate:"oneof=1m 5m 15m 1h 4h"`
	// Recent limits matching to the most recent candles only (0 = full scan).
	Recent int `query:"recent" json:"recent" validate:"gte=0,lte=5000"`
}

type TrendRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
	N      int    `query:"n" json:"n" default:"60" validate:"gte=1,lte=5000"`
	TF     string `query:"tf" json:"tf" default:"1m" validate:"oneof=1m 5m 15m 1h 4h"`
}

type SignalRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
	N      int    `query:"n" json:"n" default:"300" validate:"gte=1,lte=5000"`
	TF     string `query:"tf" json:"tf" default:"1m" validate:"oneof=1m 5m 15m 1h 4h"`
}

type CandlesRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
	From   string `query:"from" json:"from"`
	To     string `query:"to" json:"to"`
	N      int    `query:"n" json:"n" default:"500" validate:"gte=1,lte=50000"`
	TF     string `query:"tf" json:"tf" default:"1m" validate:"oneof=1m 5m 15m 1h 4h"`
}

type OverlayRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
	N      int    `query:"n" json:"n" default:"300" validate:"gte=1,lte=5000"`
	TF     string `query:"tf" json:"tf" default:"1m" validate:"oneof=1m 5m 15m 1h 4h"`
}

type ZonesResponse struct {
	Symbol         string      `json:"symbol"`
	Timeframe      string      `json:"timeframe"`
	LastCandleTime int64       `json:"last_candle_time"`
	Zones          []PriceZone `json:"zones"`
}

type PatternsResponse struct {
	Symbol         string            `json:"symbol"`
	Timeframe      string            `json:"timeframe"`
	LastCandleTime int64             `json:"last_candle_time"`
	Patterns       []DetectedPattern `json:"patterns"`
	Latest         *DetectedPattern  `json:"latest,omitempty"`
}

type TrendResponse struct {
	Symbol         string          `json:"symbol"`
	Timeframe      string          `json:"timeframe"`
	LastCandleTime int64           `json:"last_candle_time"`
	Trend          TrendAssessment `json:"trend"`
	ATR            float64         `json:"atr"`
}

type SignalResponse struct {
	Symbol         string  `json:"symbol"`
	Timeframe      string  `json:"timeframe"`
	LastCandleTime int64   `json:"last_candle_time"`
	Signal         *Signal `json:"signal,omitempty"`
}
