package pattern

import "TradeLens/internal/domain/models"

// Ratio thresholds for single-candle formations, relative to candle range.
const (
	dojiBodyRatio    = 0.1
	hammerBodyRatio  = 0.35
	dominantWickMin  = 0.6
	oppositeWickMax  = 0.1
)

// matchSingle checks the Doji family first, then the Hammer/Shooting-Star
// family. Zero-range candles match nothing (BodyRatio reports 0 but the
// wick ratios report 0 too, so the dominant-wick requirement fails).
func matchSingle(c models.Candle) *match {
	body := c.BodyRatio()
	upper := c.UpperWickRatio()
	lower := c.LowerWickRatio()
	if c.Range() <= 0 {
		return nil
	}

	if body < dojiBodyRatio {
		switch {
		case lower > dominantWickMin && upper < oppositeWickMax:
			return &match{models.PatternDragonflyDoji, models.PatternBullish, models.ReliabilityMedium}
		case upper > dominantWickMin && lower < oppositeWickMax:
			return &match{models.PatternGravestoneDoji, models.PatternBearish, models.ReliabilityMedium}
		default:
			return &match{models.PatternDoji, models.PatternNeutral, models.ReliabilityLow}
		}
	}

	if body < hammerBodyRatio {
		if lower > dominantWickMin && upper < oppositeWickMax {
			return &match{models.PatternHammer, models.PatternBullish, models.ReliabilityMedium}
		}
		if upper > dominantWickMin && lower < oppositeWickMax {
			return &match{models.PatternShootingStar, models.PatternBearish, models.ReliabilityMedium}
		}
	}

	return nil
}
