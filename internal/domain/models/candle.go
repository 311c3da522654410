package models

import "time"

// Candle represents an OHLCV record for a single symbol and timeframe.
// Time is the bucket open time in unix seconds; candles in a series are
// strictly time-ascending.
type Candle struct {
	Symbol string  `json:"symbol"`
	Time   int64   `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume,omitempty"`
}

// Bucket returns the candle open time as time.Time (UTC).
func (c Candle) Bucket() time.Time { return time.Unix(c.Time, 0).UTC() }

// Body returns the absolute open-close distance.
func (c Candle) Body() float64 {
	if c.Close >= c.Open {
		return c.Close - c.Open
	}
	return c.Open - c.Close
}

// Range returns the high-low distance.
func (c Candle) Range() float64 { return c.High - c.Low }

// BodyRatio returns body/range, or 0 for a zero-range candle.
func (c Candle) BodyRatio() float64 {
	r := c.Range()
	if r <= 0 {
		return 0
	}
	return c.Body() / r
}

// UpperWickRatio returns the upper wick as a fraction of range (0 on zero range).
func (c Candle) UpperWickRatio() float64 {
	r := c.Range()
	if r <= 0 {
		return 0
	}
	top := c.Close
	if c.Open > c.Close {
		top = c.Open
	}
	return (c.High - top) / r
}

// LowerWickRatio returns the lower wick as a fraction of range (0 on zero range).
func (c Candle) LowerWickRatio() float64 {
	r := c.Range()
	if r <= 0 {
		return 0
	}
	bot := c.Open
	if c.Close < c.Open {
		bot = c.Close
	}
	return (bot - c.Low) / r
}

// IsBullish reports a close above the open.
func (c Candle) IsBullish() bool { return c.Close > c.Open }

// IsBearish reports a close below the open.
func (c Candle) IsBearish() bool { return c.Close < c.Open }

// BodyHigh returns the upper bound of the candle body.
func (c Candle) BodyHigh() float64 {
	if c.Open > c.Close {
		return c.Open
	}
	return c.Close
}

// BodyLow returns the lower bound of the candle body.
func (c Candle) BodyLow() float64 {
	if c.Open < c.Close {
		return c.Open
	}
	return c.Close
}

// Midpoint returns the middle of the candle body.
func (c Candle) Midpoint() float64 { return (c.Open + c.Close) / 2 }
