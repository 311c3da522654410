// Package trend scores directional bias and strength from a recent candle
// window. The analyzer is pure: every call recomputes from the supplied
// slice and keeps no state.
package trend

import (
	"TradeLens/internal/domain/models"
)

const (
	// Window is the number of trailing candles considered.
	Window = 20
	// MinCandles below which the assessment is neutral with zero strength.
	MinCandles = 10
	// dominanceMargin is the bullish/bearish candle-count ratio required
	// before a direction is called.
	dominanceMargin = 1.3
)

// Analyze returns a TrendAssessment over the most recent Window candles.
// Candle i in the window carries weight (i+1)/windowSize, so recent candles
// dominate the momentum sum.
func Analyze(candles []models.Candle, timeframe string) models.TrendAssessment {
	if len(candles) < MinCandles {
		return models.TrendAssessment{Direction: models.TrendNeutral, Strength: 0, Timeframe: timeframe}
	}

	window := candles
	if len(window) > Window {
		window = window[len(window)-Window:]
	}
	n := len(window)

	momentum := 0.0
	closeSum := 0.0
	bullish, bearish := 0, 0
	for i, c := range window {
		w := float64(i+1) / float64(n)
		momentum += w * (c.Close - c.Open)
		closeSum += c.Close
		if c.IsBullish() {
			bullish++
		} else if c.IsBearish() {
			bearish++
		}
	}

	dir := models.TrendNeutral
	if momentum > 0 && float64(bullish) > dominanceMargin*float64(bearish) {
		dir = models.TrendBullish
	} else if momentum < 0 && float64(bearish) > dominanceMargin*float64(bullish) {
		dir = models.TrendBearish
	}

	avgClose := closeSum / float64(n)
	normMomentum := 0.0
	if avgClose > 0 {
		normMomentum = abs(momentum) / avgClose * 100
		if normMomentum > 100 {
			normMomentum = 100
		}
	}

	dominant := bullish
	if bearish > dominant {
		dominant = bearish
	}
	dominantRatio := float64(dominant) / float64(n) * 100

	strength := 0.7*dominantRatio + 0.3*normMomentum
	if strength > 100 {
		strength = 100
	}

	return models.TrendAssessment{Direction: dir, Strength: strength, Timeframe: timeframe}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
