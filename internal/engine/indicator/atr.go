// Package indicator holds small, pure price-series calculations shared by
// the analysis engine.
package indicator

import "TradeLens/internal/domain/models"

// DefaultATRPeriod is the conventional ATR lookback.
const DefaultATRPeriod = 14

// TrueRange returns the true range of c given the previous close.
func TrueRange(c models.Candle, prevClose float64) float64 {
	tr := c.High - c.Low
	if d := abs(c.High - prevClose); d > tr {
		tr = d
	}
	if d := abs(c.Low - prevClose); d > tr {
		tr = d
	}
	return tr
}

// ATR computes the simple average true range over the last period candles.
// With fewer than period+1 candles it falls back to the mean high-low range;
// an empty series yields 0.
func ATR(candles []models.Candle, period int) float64 {
	if period <= 0 {
		period = DefaultATRPeriod
	}
	if len(candles) == 0 {
		return 0
	}
	if len(candles) < period+1 {
		sum := 0.0
		for _, c := range candles {
			sum += c.Range()
		}
		return sum / float64(len(candles))
	}

	sum := 0.0
	for i := len(candles) - period; i < len(candles); i++ {
		sum += TrueRange(candles[i], candles[i-1].Close)
	}
	return sum / float64(period)
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
